package storage

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/wolf-den/wolfden-backend/internal/models"
)

// MemoryStore holds all data in memory for tests and local development
type MemoryStore struct {
	prospects map[uint]*models.Prospect
	contents  map[uint]*models.ContentItem
	logs      []*models.CallLogEntry
	notes     map[string]*models.CallNote

	// Mutexes for thread safety
	prospectMu sync.RWMutex
	contentMu  sync.RWMutex
	logMu      sync.RWMutex
	noteMu     sync.RWMutex

	// Counters for ID generation
	prospectCounter uint
	contentCounter  uint
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		prospects: make(map[uint]*models.Prospect),
		contents:  make(map[uint]*models.ContentItem),
		notes:     make(map[string]*models.CallNote),
	}
}

// Prospect operations

func (m *MemoryStore) CreateProspect(reg *models.ProspectRegistration) (*models.Prospect, error) {
	m.prospectMu.Lock()
	defer m.prospectMu.Unlock()

	for _, p := range m.prospects {
		if p.CompanyName == reg.CompanyName && p.ContactName == reg.ContactName {
			return nil, ErrProspectExists
		}
	}

	m.prospectCounter++
	now := time.Now()
	prospect := &models.Prospect{
		CompanyName:     strings.TrimSpace(reg.CompanyName),
		ContactName:     strings.TrimSpace(reg.ContactName),
		ContactPhone:    strings.ReplaceAll(reg.ContactPhone, " ", ""),
		ContactEmail:    reg.ContactEmail,
		ContactPosition: reg.ContactPosition,
		Industry:        reg.Industry,
		Persona:         reg.Persona,
	}
	prospect.ID = m.prospectCounter
	prospect.CreatedAt = now
	prospect.UpdatedAt = now

	m.prospects[prospect.ID] = prospect
	return prospect, nil
}

func (m *MemoryStore) GetProspect(id uint) (*models.Prospect, error) {
	m.prospectMu.RLock()
	defer m.prospectMu.RUnlock()

	prospect, exists := m.prospects[id]
	if !exists {
		return nil, ErrProspectNotFound
	}
	return prospect, nil
}

func (m *MemoryStore) GetProspectByIdentity(companyName, contactName string) (*models.Prospect, error) {
	m.prospectMu.RLock()
	defer m.prospectMu.RUnlock()

	for _, p := range m.prospects {
		if p.CompanyName == companyName && p.ContactName == contactName {
			return p, nil
		}
	}
	return nil, ErrProspectNotFound
}

func (m *MemoryStore) GetAllProspects() ([]*models.Prospect, error) {
	m.prospectMu.RLock()
	defer m.prospectMu.RUnlock()

	prospects := make([]*models.Prospect, 0, len(m.prospects))
	for _, p := range m.prospects {
		prospects = append(prospects, p)
	}
	sort.Slice(prospects, func(i, j int) bool { return prospects[i].ID < prospects[j].ID })
	return prospects, nil
}

func (m *MemoryStore) UpdateProspect(prospect *models.Prospect) error {
	m.prospectMu.Lock()
	defer m.prospectMu.Unlock()

	if _, exists := m.prospects[prospect.ID]; !exists {
		return ErrProspectNotFound
	}
	prospect.UpdatedAt = time.Now()
	m.prospects[prospect.ID] = prospect
	return nil
}

func (m *MemoryStore) DeleteProspect(id uint) error {
	m.prospectMu.Lock()
	defer m.prospectMu.Unlock()

	if _, exists := m.prospects[id]; !exists {
		return ErrProspectNotFound
	}
	delete(m.prospects, id)
	return nil
}

// Content operations

func (m *MemoryStore) CreateContentItem(item *models.ContentItem) (*models.ContentItem, error) {
	m.contentMu.Lock()
	defer m.contentMu.Unlock()

	m.contentCounter++
	item.ID = m.contentCounter
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt

	m.contents[item.ID] = item
	return item, nil
}

func (m *MemoryStore) GetContentItems(persona, contentType string) ([]*models.ContentItem, error) {
	m.contentMu.RLock()
	defer m.contentMu.RUnlock()

	var items []*models.ContentItem
	for _, item := range m.contents {
		if contentType != "" && item.Type != contentType {
			continue
		}
		if persona != "" && !item.MatchesPersona(persona) {
			continue
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

// Call log operations

func (m *MemoryStore) AppendCallLog(entry *models.CallLogEntry) (*models.CallLogEntry, error) {
	m.logMu.Lock()
	defer m.logMu.Unlock()

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	m.logs = append(m.logs, entry)
	return entry, nil
}

func (m *MemoryStore) GetCallLogs() ([]*models.CallLogEntry, error) {
	m.logMu.RLock()
	defer m.logMu.RUnlock()

	logs := make([]*models.CallLogEntry, len(m.logs))
	copy(logs, m.logs)
	return logs, nil
}

func (m *MemoryStore) GetCallLogsByLead(leadID string) ([]*models.CallLogEntry, error) {
	m.logMu.RLock()
	defer m.logMu.RUnlock()

	var logs []*models.CallLogEntry
	for _, entry := range m.logs {
		if entry.LeadID == leadID {
			logs = append(logs, entry)
		}
	}
	return logs, nil
}

func (m *MemoryStore) ClearCallLogs() error {
	m.logMu.Lock()
	defer m.logMu.Unlock()

	m.logs = nil
	return nil
}

// Call note operations

func (m *MemoryStore) PutNote(note *models.CallNote) error {
	m.noteMu.Lock()
	defer m.noteMu.Unlock()

	if existing, exists := m.notes[note.Key]; exists {
		note.ID = existing.ID
		note.CreatedAt = existing.CreatedAt
	} else {
		note.CreatedAt = time.Now()
	}
	note.UpdatedAt = time.Now()
	m.notes[note.Key] = note
	return nil
}

func (m *MemoryStore) GetNote(key string) (*models.CallNote, error) {
	m.noteMu.RLock()
	defer m.noteMu.RUnlock()

	note, exists := m.notes[key]
	if !exists {
		return nil, ErrNoteNotFound
	}
	return note, nil
}

func (m *MemoryStore) DeleteNote(key string) error {
	m.noteMu.Lock()
	defer m.noteMu.Unlock()

	delete(m.notes, key)
	return nil
}

func (m *MemoryStore) GetNotesByPrefix(prefix string) ([]*models.CallNote, error) {
	m.noteMu.RLock()
	defer m.noteMu.RUnlock()

	var notes []*models.CallNote
	for key, note := range m.notes {
		if strings.HasPrefix(key, prefix) {
			notes = append(notes, note)
		}
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].Key < notes[j].Key })
	return notes, nil
}
