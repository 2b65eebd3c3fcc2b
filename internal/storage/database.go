package storage

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/wolf-den/wolfden-backend/internal/models"
)

// DatabaseStore is the PostgreSQL-backed Store implementation
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a store backed by the given GORM connection
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// Prospect operations

func (d *DatabaseStore) CreateProspect(reg *models.ProspectRegistration) (*models.Prospect, error) {
	prospect := &models.Prospect{
		CompanyName:     reg.CompanyName,
		ContactName:     reg.ContactName,
		ContactPhone:    reg.ContactPhone,
		ContactEmail:    reg.ContactEmail,
		ContactPosition: reg.ContactPosition,
		Industry:        reg.Industry,
		Persona:         reg.Persona,
	}

	if err := d.db.Create(prospect).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "duplicate") {
			return nil, ErrProspectExists
		}
		return nil, err
	}
	return prospect, nil
}

func (d *DatabaseStore) GetProspect(id uint) (*models.Prospect, error) {
	var prospect models.Prospect
	if err := d.db.First(&prospect, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProspectNotFound
		}
		return nil, err
	}
	return &prospect, nil
}

func (d *DatabaseStore) GetProspectByIdentity(companyName, contactName string) (*models.Prospect, error) {
	var prospect models.Prospect
	err := d.db.Where("company_name = ? AND contact_name = ?", companyName, contactName).
		First(&prospect).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProspectNotFound
		}
		return nil, err
	}
	return &prospect, nil
}

func (d *DatabaseStore) GetAllProspects() ([]*models.Prospect, error) {
	var prospects []*models.Prospect
	if err := d.db.Order("id").Find(&prospects).Error; err != nil {
		return nil, err
	}
	return prospects, nil
}

func (d *DatabaseStore) UpdateProspect(prospect *models.Prospect) error {
	result := d.db.Save(prospect)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProspectNotFound
	}
	return nil
}

func (d *DatabaseStore) DeleteProspect(id uint) error {
	result := d.db.Delete(&models.Prospect{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProspectNotFound
	}
	return nil
}

// Content operations

func (d *DatabaseStore) CreateContentItem(item *models.ContentItem) (*models.ContentItem, error) {
	if err := d.db.Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (d *DatabaseStore) GetContentItems(persona, contentType string) ([]*models.ContentItem, error) {
	query := d.db.Order("id")
	if contentType != "" {
		query = query.Where("type = ?", contentType)
	}

	var items []*models.ContentItem
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}

	// Persona tags are a comma list; filter in process rather than with
	// per-dialect string matching
	if persona == "" {
		return items, nil
	}
	var matched []*models.ContentItem
	for _, item := range items {
		if item.MatchesPersona(persona) {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

// Call log operations

func (d *DatabaseStore) AppendCallLog(entry *models.CallLogEntry) (*models.CallLogEntry, error) {
	if err := d.db.Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (d *DatabaseStore) GetCallLogs() ([]*models.CallLogEntry, error) {
	var logs []*models.CallLogEntry
	if err := d.db.Order("created_at").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (d *DatabaseStore) GetCallLogsByLead(leadID string) ([]*models.CallLogEntry, error) {
	var logs []*models.CallLogEntry
	err := d.db.Where("lead_id = ?", leadID).Order("created_at").Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (d *DatabaseStore) ClearCallLogs() error {
	return d.db.Where("1 = 1").Delete(&models.CallLogEntry{}).Error
}

// Call note operations

func (d *DatabaseStore) PutNote(note *models.CallNote) error {
	var existing models.CallNote
	err := d.db.Where("key = ?", note.Key).First(&existing).Error
	if err == nil {
		note.ID = existing.ID
		note.CreatedAt = existing.CreatedAt
		return d.db.Save(note).Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return d.db.Create(note).Error
	}
	return err
}

func (d *DatabaseStore) GetNote(key string) (*models.CallNote, error) {
	var note models.CallNote
	if err := d.db.Where("key = ?", key).First(&note).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}
	return &note, nil
}

func (d *DatabaseStore) DeleteNote(key string) error {
	return d.db.Unscoped().Where("key = ?", key).Delete(&models.CallNote{}).Error
}

func (d *DatabaseStore) GetNotesByPrefix(prefix string) ([]*models.CallNote, error) {
	var notes []*models.CallNote
	err := d.db.Where("key LIKE ?", prefix+"%").Order("key").Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}
