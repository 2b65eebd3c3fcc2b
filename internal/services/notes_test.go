package services

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolf-den/wolfden-backend/internal/models"
	"github.com/wolf-den/wolfden-backend/internal/storage"
	"github.com/wolf-den/wolfden-backend/internal/utils"
)

// countingStore counts durable writes so coalescing can be asserted
type countingStore struct {
	storage.Store
	puts atomic.Int32
}

func (c *countingStore) PutNote(note *models.CallNote) error {
	c.puts.Add(1)
	return c.Store.PutNote(note)
}

// failingStore rejects every write
type failingStore struct {
	storage.Store
}

func (f *failingStore) PutNote(note *models.CallNote) error {
	return errors.New("quota exceeded")
}

func TestDebounceCoalescesEdits(t *testing.T) {
	store := &countingStore{Store: storage.NewMemoryStore()}
	notes := NewNotesService(store, WithDebounce(60*time.Millisecond))
	prospect := testProspect()

	// Three edits inside one debounce window
	notes.Observe(prospect, "v1")
	time.Sleep(20 * time.Millisecond)
	notes.Observe(prospect, "v2")
	time.Sleep(20 * time.Millisecond)
	notes.Observe(prospect, "v3")

	require.Eventually(t, func() bool {
		return store.puts.Load() == 1
	}, time.Second, 5*time.Millisecond)

	// No further writes after the burst settles
	time.Sleep(120 * time.Millisecond)
	assert.EqualValues(t, 1, store.puts.Load(), "exactly one write for the burst")

	record, err := store.GetNote(prospect.NoteKey())
	require.NoError(t, err)
	assert.Equal(t, "v3", record.Notes, "the last edit wins")
	assert.Equal(t, prospect.LeadID(), record.ProspectID)

	_, ok := record.SavedAt()
	assert.True(t, ok, "timestamp is well-formed")
}

func TestObserveEmptyNotesCancelsPendingWrite(t *testing.T) {
	store := &countingStore{Store: storage.NewMemoryStore()}
	notes := NewNotesService(store, WithDebounce(30*time.Millisecond))
	prospect := testProspect()

	notes.Observe(prospect, "about to be discarded")
	notes.Observe(prospect, "")

	time.Sleep(80 * time.Millisecond)
	assert.Zero(t, store.puts.Load())
	_, err := store.GetNote(prospect.NoteKey())
	assert.ErrorIs(t, err, storage.ErrNoteNotFound)
}

func TestObserveNilProspectIsIgnored(t *testing.T) {
	notes := NewNotesService(storage.NewMemoryStore(), WithDebounce(10*time.Millisecond))
	notes.Observe(nil, "stray text")
	time.Sleep(30 * time.Millisecond)
}

func TestStatusLifecycle(t *testing.T) {
	store := storage.NewMemoryStore()
	notes := NewNotesService(store, WithDebounce(30*time.Millisecond))
	prospect := testProspect()
	key := prospect.NoteKey()

	assert.Equal(t, NoteStatusNone, notes.Status(key))

	notes.Observe(prospect, "draft")
	assert.Equal(t, NoteStatusSaving, notes.Status(key))

	require.Eventually(t, func() bool {
		return notes.Status(key) == NoteStatusSaved
	}, time.Second, 5*time.Millisecond)
}

func TestWriteFailureReportsUnsaved(t *testing.T) {
	notes := NewNotesService(&failingStore{Store: storage.NewMemoryStore()}, WithDebounce(10*time.Millisecond))
	prospect := testProspect()

	notes.Observe(prospect, "will not stick")

	require.Eventually(t, func() bool {
		return notes.Status(prospect.NoteKey()) == NoteStatusUnsaved
	}, time.Second, 5*time.Millisecond)
}

func TestRetentionSweep(t *testing.T) {
	store := storage.NewMemoryStore()
	notes := NewNotesService(store)
	now := time.Now()

	fresh := &models.CallNote{
		Key:       utils.NoteKeyPrefix + "Fresh-Co-Pat",
		Notes:     "recent",
		Timestamp: now.Add(-24 * time.Hour).Format(time.RFC3339),
	}
	stale := &models.CallNote{
		Key:       utils.NoteKeyPrefix + "Stale-Co-Sam",
		Notes:     "ancient",
		Timestamp: now.Add(-8 * 24 * time.Hour).Format(time.RFC3339),
	}
	corrupt := &models.CallNote{
		Key:       utils.NoteKeyPrefix + "Corrupt-Co-Lee",
		Notes:     "bad timestamp",
		Timestamp: "not-a-timestamp",
	}
	require.NoError(t, store.PutNote(fresh))
	require.NoError(t, store.PutNote(stale))
	require.NoError(t, store.PutNote(corrupt))

	notes.Sweep(now)

	_, err := store.GetNote(fresh.Key)
	assert.NoError(t, err, "records inside the window survive")
	_, err = store.GetNote(stale.Key)
	assert.ErrorIs(t, err, storage.ErrNoteNotFound, "records past 7 days are removed")
	_, err = store.GetNote(corrupt.Key)
	assert.ErrorIs(t, err, storage.ErrNoteNotFound, "corrupt records are removed outright")
}

func TestSuccessfulSaveTriggersSweep(t *testing.T) {
	store := storage.NewMemoryStore()
	notes := NewNotesService(store, WithDebounce(10*time.Millisecond))

	stale := &models.CallNote{
		Key:       utils.NoteKeyPrefix + "Stale-Co-Sam",
		Notes:     "ancient",
		Timestamp: time.Now().Add(-8 * 24 * time.Hour).Format(time.RFC3339),
	}
	require.NoError(t, store.PutNote(stale))

	notes.Observe(testProspect(), "fresh write")

	require.Eventually(t, func() bool {
		_, err := store.GetNote(stale.Key)
		return errors.Is(err, storage.ErrNoteNotFound)
	}, time.Second, 5*time.Millisecond)
}

func TestPurgeCancelsPendingWrite(t *testing.T) {
	store := &countingStore{Store: storage.NewMemoryStore()}
	notes := NewNotesService(store, WithDebounce(30*time.Millisecond))
	prospect := testProspect()

	notes.Observe(prospect, "doomed")
	notes.Purge(prospect)

	time.Sleep(80 * time.Millisecond)
	assert.Zero(t, store.puts.Load(), "purge cancels the scheduled write")
	assert.Equal(t, NoteStatusNone, notes.Status(prospect.NoteKey()))
}

func TestFlushFiresPendingWritesImmediately(t *testing.T) {
	store := storage.NewMemoryStore()
	notes := NewNotesService(store, WithDebounce(time.Hour))
	prospect := testProspect()

	notes.Observe(prospect, "shutdown draft")
	notes.Flush()

	record, err := store.GetNote(prospect.NoteKey())
	require.NoError(t, err)
	assert.Equal(t, "shutdown draft", record.Notes)
}
