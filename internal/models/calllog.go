package models

import "time"

// CallLogEntry is an immutable record of a completed call. Entries are only
// ever appended or bulk-cleared, never updated.
type CallLogEntry struct {
	ID     string `json:"id" gorm:"primaryKey"`
	LeadID string `json:"lead_id" gorm:"index"`

	// Denormalized from the prospect at log time so the prediction engine
	// can score by persona and industry without a join
	Persona  string `json:"persona"`
	Industry string `json:"industry"`

	// Outcome tracking
	Outcome          string `json:"outcome"` // "meeting-booked", "follow-up", "nurture", "disqualified"
	Intel            string `json:"intel"`
	BestTalkingPoint string `json:"best_talking_point"`
	KeyTakeaway      string `json:"key_takeaway"`
	DurationSeconds  int    `json:"duration_seconds"`

	// Structured additional info
	NextSteps string `json:"next_steps"`
	Referrals string `json:"referrals"`

	// Optional competitive-encounter sub-record
	Competitor        string `json:"competitor,omitempty"`
	CompetitorContext string `json:"competitor_context,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Outcome constants
const (
	OutcomeMeetingBooked = "meeting-booked"
	OutcomeFollowUp      = "follow-up"
	OutcomeNurture       = "nurture"
	OutcomeDisqualified  = "disqualified"
)

// ValidOutcomes for request validation
var ValidOutcomes = map[string]bool{
	OutcomeMeetingBooked: true,
	OutcomeFollowUp:      true,
	OutcomeNurture:       true,
	OutcomeDisqualified:  true,
}

// Successful reports whether this call counts as a win for scoring purposes
// (a booked meeting or a committed follow-up).
func (e *CallLogEntry) Successful() bool {
	return e.Outcome == OutcomeMeetingBooked || e.Outcome == OutcomeFollowUp
}
