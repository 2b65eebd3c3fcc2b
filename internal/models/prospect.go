package models

import (
	"strings"

	"gorm.io/gorm"

	"github.com/wolf-den/wolfden-backend/internal/utils"
)

// Persona constants - the fixed buyer archetypes driving content selection
// and the prediction engine's default scores
const (
	PersonaCostConsciousEmployer = "cost-conscious-employer"
	PersonaROIFocusedExecutive   = "roi-focused-executive"
	PersonaBenefitsOptimizer     = "benefits-optimizer"
	PersonaStrategicCEO          = "strategic-ceo"
	PersonaOperationsLeader      = "operations-leader"
	PersonaCultureChampion       = "culture-champion"
	PersonaGatekeeper            = "gatekeeper"
)

// ValidPersonas maps every known persona for request validation
var ValidPersonas = map[string]bool{
	PersonaCostConsciousEmployer: true,
	PersonaROIFocusedExecutive:   true,
	PersonaBenefitsOptimizer:     true,
	PersonaStrategicCEO:          true,
	PersonaOperationsLeader:      true,
	PersonaCultureChampion:       true,
	PersonaGatekeeper:            true,
}

// Prospect represents a target contact for an outbound call
type Prospect struct {
	// Using gorm.Model gives us ID (uint), CreatedAt, UpdatedAt, DeletedAt automatically
	gorm.Model

	CompanyName     string `json:"company_name" gorm:"index:idx_prospect_identity,unique"`
	ContactName     string `json:"contact_name" gorm:"index:idx_prospect_identity,unique"`
	ContactPhone    string `json:"contact_phone"`
	ContactEmail    string `json:"contact_email"`
	ContactPosition string `json:"contact_position"`
	Industry        string `json:"industry"`
	Persona         string `json:"persona"`
}

// BeforeCreate hook to normalize contact data
func (p *Prospect) BeforeCreate(tx *gorm.DB) error {
	p.CompanyName = strings.TrimSpace(p.CompanyName)
	p.ContactName = strings.TrimSpace(p.ContactName)

	// Normalize phone number (strip spaces, keep any leading +)
	p.ContactPhone = strings.ReplaceAll(p.ContactPhone, " ", "")

	return nil
}

// LeadID returns the stable identifier used to key call logs and notes.
// Identity is (company, contact) - not the database surrogate key.
func (p *Prospect) LeadID() string {
	return utils.LeadID(p.CompanyName, p.ContactName)
}

// NoteKey returns the durable storage key for this prospect's call notes.
func (p *Prospect) NoteKey() string {
	return utils.NoteKey(p.CompanyName, p.ContactName)
}

// HasPhone reports whether the prospect can be dialed at all.
func (p *Prospect) HasPhone() bool {
	return strings.TrimSpace(p.ContactPhone) != ""
}

// ProspectRegistration is used to create a new prospect via the API
type ProspectRegistration struct {
	CompanyName     string `json:"company_name" validate:"required"`
	ContactName     string `json:"contact_name" validate:"required"`
	ContactPhone    string `json:"contact_phone"`
	ContactEmail    string `json:"contact_email"`
	ContactPosition string `json:"contact_position"`
	Industry        string `json:"industry"`
	Persona         string `json:"persona" validate:"required"`
}
