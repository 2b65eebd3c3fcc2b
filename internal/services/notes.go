package services

import (
	"log"
	"sync"
	"time"

	"github.com/wolf-den/wolfden-backend/internal/models"
	"github.com/wolf-den/wolfden-backend/internal/storage"
	"github.com/wolf-den/wolfden-backend/internal/utils"
)

// NoteStatus is the tri-state save indicator reported to the UI
type NoteStatus string

const (
	NoteStatusNone    NoteStatus = ""
	NoteStatusSaving  NoteStatus = "saving"  // debounce pending
	NoteStatusSaved   NoteStatus = "saved"   // write completed
	NoteStatusUnsaved NoteStatus = "unsaved" // write failed
)

const (
	// DefaultNoteDebounce is how long after the last edit a write fires
	DefaultNoteDebounce = 1000 * time.Millisecond

	// NoteRetention is how long durable note records are kept
	NoteRetention = 7 * 24 * time.Hour
)

// pendingNote is a scheduled write awaiting its debounce window
type pendingNote struct {
	timer      *time.Timer
	prospectID string
	notes      string
}

// NotesService persists call notes per prospect with debounced writes and a
// retention sweep on every successful save. Storage failures are caught and
// reported through the status field, never propagated.
type NotesService struct {
	store     storage.Store
	debounce  time.Duration
	retention time.Duration

	mu      sync.Mutex
	pending map[string]*pendingNote
	status  map[string]NoteStatus
}

// NotesOption configures a NotesService
type NotesOption func(*NotesService)

// WithDebounce overrides the debounce window (tests use a short one)
func WithDebounce(d time.Duration) NotesOption {
	return func(n *NotesService) { n.debounce = d }
}

// WithRetention overrides the retention threshold
func WithRetention(d time.Duration) NotesOption {
	return func(n *NotesService) { n.retention = d }
}

// NewNotesService creates the auto-persistence service
func NewNotesService(store storage.Store, opts ...NotesOption) *NotesService {
	n := &NotesService{
		store:     store,
		debounce:  DefaultNoteDebounce,
		retention: NoteRetention,
		pending:   make(map[string]*pendingNote),
		status:    make(map[string]NoteStatus),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Observe schedules a durable write of the notes after the debounce window.
// Each call cancels and reschedules the prior timer for the same prospect -
// last write wins, no overlapping writes. Empty notes or a cleared prospect
// cancel the pending write without saving.
func (n *NotesService) Observe(prospect *models.Prospect, notes string) {
	if prospect == nil {
		return
	}
	key := prospect.NoteKey()

	n.mu.Lock()
	defer n.mu.Unlock()

	if p, exists := n.pending[key]; exists {
		p.timer.Stop()
		delete(n.pending, key)
	}

	if notes == "" {
		return
	}

	n.status[key] = NoteStatusSaving
	n.pending[key] = &pendingNote{
		prospectID: prospect.LeadID(),
		notes:      notes,
		timer:      time.AfterFunc(n.debounce, func() { n.fire(key) }),
	}
}

// fire executes the scheduled write for key, if still pending
func (n *NotesService) fire(key string) {
	n.mu.Lock()
	p, exists := n.pending[key]
	if !exists {
		n.mu.Unlock()
		return
	}
	delete(n.pending, key)
	n.mu.Unlock()

	record := &models.CallNote{
		Key:        key,
		Notes:      p.notes,
		Timestamp:  time.Now().Format(time.RFC3339),
		ProspectID: p.prospectID,
	}

	if err := n.store.PutNote(record); err != nil {
		log.Printf("❌ Failed to persist notes for %s: %v", key, err)
		n.setStatus(key, NoteStatusUnsaved)
		return
	}

	n.setStatus(key, NoteStatusSaved)
	n.Sweep(time.Now())
}

// Load returns the durable notes for the prospect, if any
func (n *NotesService) Load(prospect *models.Prospect) (string, bool) {
	note, err := n.store.GetNote(prospect.NoteKey())
	if err != nil {
		return "", false
	}
	return note.Notes, true
}

// Purge drops the prospect's durable record and any pending write. Called on
// explicit reset and after an outcome is logged.
func (n *NotesService) Purge(prospect *models.Prospect) {
	key := prospect.NoteKey()

	n.mu.Lock()
	if p, exists := n.pending[key]; exists {
		p.timer.Stop()
		delete(n.pending, key)
	}
	delete(n.status, key)
	n.mu.Unlock()

	if err := n.store.DeleteNote(key); err != nil {
		log.Printf("Failed to purge notes for %s: %v", key, err)
	}
}

// Status reports the save state for a note key
func (n *NotesService) Status(key string) NoteStatus {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.status[key]
}

// Sweep deletes note records older than the retention threshold. Records
// whose timestamp fails to parse are deleted outright rather than left as
// orphans.
func (n *NotesService) Sweep(now time.Time) {
	notes, err := n.store.GetNotesByPrefix(utils.NoteKeyPrefix)
	if err != nil {
		log.Printf("Retention sweep failed to list notes: %v", err)
		return
	}

	removed := 0
	for _, note := range notes {
		savedAt, ok := note.SavedAt()
		if ok && now.Sub(savedAt) <= n.retention {
			continue
		}
		if err := n.store.DeleteNote(note.Key); err != nil {
			log.Printf("Retention sweep failed to delete %s: %v", note.Key, err)
			continue
		}
		removed++
	}
	if removed > 0 {
		log.Printf("Retention sweep removed %d note record(s)", removed)
	}
}

// Flush fires every pending write immediately (shutdown path)
func (n *NotesService) Flush() {
	n.mu.Lock()
	keys := make([]string, 0, len(n.pending))
	for key, p := range n.pending {
		p.timer.Stop()
		keys = append(keys, key)
	}
	n.mu.Unlock()

	for _, key := range keys {
		n.fire(key)
	}
}

func (n *NotesService) setStatus(key string, status NoteStatus) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.status[key] = status
}
