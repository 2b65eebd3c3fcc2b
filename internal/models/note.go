package models

import (
	"time"

	"gorm.io/gorm"
)

// CallNote is the durable record of a prospect's free-text call notes,
// written by the debounced auto-persistence path. Timestamp is stored as an
// ISO8601 string; records whose timestamp fails to parse are treated as
// corrupt and deleted during retention sweeps.
type CallNote struct {
	gorm.Model
	Key        string `json:"key" gorm:"uniqueIndex"`
	Notes      string `json:"notes"`
	Timestamp  string `json:"timestamp"` // ISO8601 / RFC3339
	ProspectID string `json:"prospect_id"`
}

// SavedAt parses the record's timestamp. The boolean is false for corrupt
// records.
func (n *CallNote) SavedAt() (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, n.Timestamp)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
