package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolf-den/wolfden-backend/internal/models"
)

func TestMemoryStoreProspects(t *testing.T) {
	store := NewMemoryStore()

	created, err := store.CreateProspect(&models.ProspectRegistration{
		CompanyName:  "Acme Insurance",
		ContactName:  "Jane Doe",
		ContactPhone: "+1 555 123 4567",
		Industry:     "manufacturing",
		Persona:      models.PersonaGatekeeper,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "+15551234567", created.ContactPhone, "phone is normalized")

	// Duplicate identity is rejected
	_, err = store.CreateProspect(&models.ProspectRegistration{
		CompanyName: "Acme Insurance",
		ContactName: "Jane Doe",
	})
	assert.ErrorIs(t, err, ErrProspectExists)

	got, err := store.GetProspect(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.ContactName)

	byIdentity, err := store.GetProspectByIdentity("Acme Insurance", "Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byIdentity.ID)

	_, err = store.GetProspect(999)
	assert.ErrorIs(t, err, ErrProspectNotFound)

	require.NoError(t, store.DeleteProspect(created.ID))
	_, err = store.GetProspect(created.ID)
	assert.ErrorIs(t, err, ErrProspectNotFound)
}

func TestMemoryStoreContentFiltering(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.CreateContentItem(&models.ContentItem{
		Type:     models.ContentTypeOpener,
		Title:    "Cost opener",
		Body:     "...",
		Personas: models.PersonaCostConsciousEmployer,
	})
	require.NoError(t, err)
	_, err = store.CreateContentItem(&models.ContentItem{
		Type:  models.ContentTypeObjectionHandler,
		Title: "Generic objection handler",
		Body:  "...",
	})
	require.NoError(t, err)

	all, err := store.GetContentItems("", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	openers, err := store.GetContentItems("", models.ContentTypeOpener)
	require.NoError(t, err)
	assert.Len(t, openers, 1)

	// The untagged card matches every persona; the tagged one does not
	forGatekeeper, err := store.GetContentItems(models.PersonaGatekeeper, "")
	require.NoError(t, err)
	assert.Len(t, forGatekeeper, 1)
	assert.Equal(t, "Generic objection handler", forGatekeeper[0].Title)
}

func TestMemoryStoreCallLogs(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.AppendCallLog(&models.CallLogEntry{ID: "a", LeadID: "acme-jane", Outcome: models.OutcomeFollowUp})
	require.NoError(t, err)
	_, err = store.AppendCallLog(&models.CallLogEntry{ID: "b", LeadID: "other-lead", Outcome: models.OutcomeNurture})
	require.NoError(t, err)

	all, err := store.GetCallLogs()
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byLead, err := store.GetCallLogsByLead("acme-jane")
	require.NoError(t, err)
	require.Len(t, byLead, 1)
	assert.Equal(t, "a", byLead[0].ID)

	require.NoError(t, store.ClearCallLogs())
	all, err = store.GetCallLogs()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestMemoryStoreNotes(t *testing.T) {
	store := NewMemoryStore()

	note := &models.CallNote{
		Key:        "wolf-den-call-notes-Acme-Jane",
		Notes:      "renewal in March",
		Timestamp:  time.Now().Format(time.RFC3339),
		ProspectID: "Acme-Jane",
	}
	require.NoError(t, store.PutNote(note))

	got, err := store.GetNote(note.Key)
	require.NoError(t, err)
	assert.Equal(t, "renewal in March", got.Notes)

	// Upsert replaces in place
	note2 := &models.CallNote{Key: note.Key, Notes: "updated", Timestamp: note.Timestamp, ProspectID: note.ProspectID}
	require.NoError(t, store.PutNote(note2))
	got, err = store.GetNote(note.Key)
	require.NoError(t, err)
	assert.Equal(t, "updated", got.Notes)

	matched, err := store.GetNotesByPrefix("wolf-den-call-notes-")
	require.NoError(t, err)
	assert.Len(t, matched, 1)

	require.NoError(t, store.DeleteNote(note.Key))
	_, err = store.GetNote(note.Key)
	assert.ErrorIs(t, err, ErrNoteNotFound)

	// Deleting a missing key is not an error
	assert.NoError(t, store.DeleteNote("wolf-den-call-notes-missing"))
}
