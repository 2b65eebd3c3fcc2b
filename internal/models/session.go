package models

import "time"

// CallSession is the in-memory record of a single call's lifecycle. Prepared
// and InProgress are kept as a loose boolean pair; the service layer
// auto-prepares on call initiation so InProgress never holds without Prepared
// having been set.
type CallSession struct {
	Prepared         bool       `json:"is_prepared"`
	InProgress       bool       `json:"is_in_progress"`
	StartTime        *time.Time `json:"start_time"`
	Notes            string     `json:"notes"`
	CurrentStepIndex int        `json:"current_step_index"`
}
