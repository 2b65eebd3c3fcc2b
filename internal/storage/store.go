package storage

import (
	"errors"

	"github.com/wolf-den/wolfden-backend/internal/models"
)

var storeInstance Store

// SetStore sets the global store instance (call from main.go)
func SetStore(s Store) {
	storeInstance = s
}

// GetStore returns the global store instance
func GetStore() Store {
	return storeInstance
}

// Sentinel errors shared by all Store implementations
var (
	ErrProspectNotFound = errors.New("prospect not found")
	ErrNoteNotFound     = errors.New("note not found")
	ErrProspectExists   = errors.New("prospect already exists")
)

// Store defines the interface for storage operations
type Store interface {
	// Prospect operations
	CreateProspect(reg *models.ProspectRegistration) (*models.Prospect, error)
	GetProspect(id uint) (*models.Prospect, error)
	GetProspectByIdentity(companyName, contactName string) (*models.Prospect, error)
	GetAllProspects() ([]*models.Prospect, error)
	UpdateProspect(prospect *models.Prospect) error
	DeleteProspect(id uint) error

	// Content (battle card) operations
	CreateContentItem(item *models.ContentItem) (*models.ContentItem, error)
	GetContentItems(persona, contentType string) ([]*models.ContentItem, error)

	// Call log operations (append-only)
	AppendCallLog(entry *models.CallLogEntry) (*models.CallLogEntry, error)
	GetCallLogs() ([]*models.CallLogEntry, error)
	GetCallLogsByLead(leadID string) ([]*models.CallLogEntry, error)
	ClearCallLogs() error

	// Call note operations (keyed durable storage)
	PutNote(note *models.CallNote) error
	GetNote(key string) (*models.CallNote, error)
	DeleteNote(key string) error
	GetNotesByPrefix(prefix string) ([]*models.CallNote, error)
}
