package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/wolf-den/wolfden-backend/internal/models"
)

// Precondition and collaborator errors surfaced by the session manager.
// Every failure leaves session state unchanged; retries are user-initiated.
var (
	ErrNoSession            = errors.New("session not found")
	ErrNoProspectSelected   = errors.New("no prospect selected")
	ErrMissingPhoneNumber   = errors.New("prospect has no phone number")
	ErrCallInitiationFailed = errors.New("call initiation failed")
	ErrInvalidStepIndex     = errors.New("invalid step index")
	ErrCallInProgress       = errors.New("call in progress")
)

// callSession is one rep's live call-preparation state
type callSession struct {
	prospect  *models.Prospect
	content   []models.ContentItem
	state     models.CallSession
	pending   []models.CallFlowStep // incomplete steps, script order preserved
	completed []models.CallFlowStep // completed steps, completion order
}

// steps returns the merged checklist: pending first, then completed in the
// order they were completed. The next actionable step is always at the front.
func (cs *callSession) steps() []models.CallFlowStep {
	steps := make([]models.CallFlowStep, 0, len(cs.pending)+len(cs.completed))
	steps = append(steps, cs.pending...)
	steps = append(steps, cs.completed...)
	return steps
}

// CallSessionView is the snapshot returned to handlers
type CallSessionView struct {
	RepID       string                `json:"rep_id"`
	Prospect    *models.Prospect      `json:"prospect"`
	Session     models.CallSession    `json:"session"`
	Steps       []models.CallFlowStep `json:"steps"`
	NotesStatus NoteStatus            `json:"notes_status"`
}

// SessionManager owns every rep's call session. One active session per rep,
// driven synchronously by the UI action surface.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*callSession
	dialer   Dialer
	notes    *NotesService
}

// NewSessionManager creates a new session manager
func NewSessionManager(dialer Dialer, notes *NotesService) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*callSession),
		dialer:   dialer,
		notes:    notes,
	}
}

// SelectProspect binds a prospect and its persona-relevant content set to the
// rep's session, derives the call-flow checklist, and loads any durable notes
// for the prospect. Passing nil clears the selection; the durable note record
// is kept (only ResetCall or a logged outcome purges it).
func (sm *SessionManager) SelectProspect(repID string, prospect *models.Prospect, content []models.ContentItem) *CallSessionView {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	session := sm.getOrCreate(repID)
	session.prospect = prospect
	session.content = content
	session.pending, session.completed = deriveSteps(content, session.completed)
	session.state.CurrentStepIndex = 0

	if prospect == nil {
		session.state.Notes = ""
	} else if notes, ok := sm.notes.Load(prospect); ok {
		session.state.Notes = notes
	} else {
		session.state.Notes = ""
	}

	return sm.view(repID, session)
}

// SetContent replaces the selected content set and re-derives the checklist,
// carrying each step's completed flag forward by ID.
func (sm *SessionManager) SetContent(repID string, content []models.ContentItem) (*CallSessionView, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	session, exists := sm.sessions[repID]
	if !exists {
		return nil, ErrNoSession
	}

	session.content = content
	session.pending, session.completed = deriveSteps(content, session.completed)
	return sm.view(repID, session), nil
}

// StartSession marks the session prepared and stamps the start time.
// Idempotent before the call begins: calling again just re-stamps.
func (sm *SessionManager) StartSession(repID string) (*CallSessionView, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	session, exists := sm.sessions[repID]
	if !exists || session.prospect == nil {
		return nil, ErrNoProspectSelected
	}

	if !session.state.InProgress {
		now := time.Now()
		session.state.Prepared = true
		session.state.StartTime = &now
	}

	return sm.view(repID, session), nil
}

// InitiateCall delegates to the telephony collaborator and, on its reported
// success, marks the call in progress - auto-preparing the session first if
// the rep skipped StartSession. On failure the session is unchanged.
func (sm *SessionManager) InitiateCall(ctx context.Context, repID string) (*CallSessionView, error) {
	sm.mu.RLock()
	session, exists := sm.sessions[repID]
	if !exists || session.prospect == nil {
		sm.mu.RUnlock()
		return nil, ErrNoProspectSelected
	}
	prospect := session.prospect
	sm.mu.RUnlock()

	if !prospect.HasPhone() {
		return nil, ErrMissingPhoneNumber
	}
	if sm.dialer == nil {
		return nil, fmt.Errorf("%w: no dialer configured", ErrCallInitiationFailed)
	}

	// Boundary call happens outside the lock; no timeout is imposed here,
	// the caller's context governs it
	result, err := sm.dialer.Place(ctx, DialRequest{
		PhoneNumber: prospect.ContactPhone,
		ContactName: prospect.ContactName,
		CompanyName: prospect.CompanyName,
		LeadID:      prospect.LeadID(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCallInitiationFailed, err)
	}
	if !result.Success {
		return nil, fmt.Errorf("%w: dialer reported failure", ErrCallInitiationFailed)
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()
	if !session.state.Prepared {
		now := time.Now()
		session.state.Prepared = true
		session.state.StartTime = &now
	}
	session.state.InProgress = true
	log.Printf("Call in progress for rep %s -> %s (%s)", repID, prospect.ContactName, prospect.CompanyName)

	return sm.view(repID, session), nil
}

// MarkStepComplete completes the step at the given index of the merged
// checklist and restacks: pending steps stay in front in script order,
// completed steps follow in completion order.
func (sm *SessionManager) MarkStepComplete(repID string, stepIndex int) (*CallSessionView, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	session, exists := sm.sessions[repID]
	if !exists {
		return nil, ErrNoSession
	}
	if stepIndex < 0 || stepIndex >= len(session.pending)+len(session.completed) {
		return nil, ErrInvalidStepIndex
	}

	if stepIndex < len(session.pending) {
		step := session.pending[stepIndex]
		step.Completed = true
		session.pending = append(session.pending[:stepIndex], session.pending[stepIndex+1:]...)
		session.completed = append(session.completed, step)
	}
	// Indexes at or past len(pending) are already-completed steps; marking
	// them again is a no-op

	// The first pending step sits at the front after the restack
	session.state.CurrentStepIndex = 0

	return sm.view(repID, session), nil
}

// EndCall closes the call without touching notes or steps. The host presents
// the outcome-capture interaction next.
func (sm *SessionManager) EndCall(repID string) (*CallSessionView, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	session, exists := sm.sessions[repID]
	if !exists {
		return nil, ErrNoSession
	}

	session.state.Prepared = false
	session.state.InProgress = false

	return sm.view(repID, session), nil
}

// ResetCall restores the session to its initial state, un-completes every
// step, and purges the prospect's durable notes. Idempotent.
func (sm *SessionManager) ResetCall(repID string) (*CallSessionView, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	session, exists := sm.sessions[repID]
	if !exists {
		return nil, ErrNoSession
	}

	if session.prospect != nil {
		sm.notes.Purge(session.prospect)
	}

	session.state = models.CallSession{}
	session.pending, session.completed = deriveSteps(session.content, nil)

	return sm.view(repID, session), nil
}

// UpdateNotes replaces the session's notes text and hands it to the debounced
// persistence path.
func (sm *SessionManager) UpdateNotes(repID, text string) (*CallSessionView, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	session, exists := sm.sessions[repID]
	if !exists {
		return nil, ErrNoSession
	}

	session.state.Notes = text
	sm.notes.Observe(session.prospect, text)

	return sm.view(repID, session), nil
}

// Session returns the rep's current session snapshot
func (sm *SessionManager) Session(repID string) (*CallSessionView, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.sessions[repID]
	if !exists {
		return nil, ErrNoSession
	}
	return sm.view(repID, session), nil
}

// ActiveSessions returns snapshots of every session (for monitoring)
func (sm *SessionManager) ActiveSessions() []*CallSessionView {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	views := make([]*CallSessionView, 0, len(sm.sessions))
	for repID, session := range sm.sessions {
		views = append(views, sm.view(repID, session))
	}
	return views
}

// getOrCreate must be called with the write lock held
func (sm *SessionManager) getOrCreate(repID string) *callSession {
	session, exists := sm.sessions[repID]
	if !exists {
		session = &callSession{}
		session.pending, session.completed = deriveSteps(nil, nil)
		sm.sessions[repID] = session
		log.Printf("Session created for rep %s", repID)
	}
	return session
}

// view must be called with at least the read lock held
func (sm *SessionManager) view(repID string, session *callSession) *CallSessionView {
	v := &CallSessionView{
		RepID:    repID,
		Prospect: session.prospect,
		Session:  session.state,
		Steps:    session.steps(),
	}
	if session.prospect != nil {
		v.NotesStatus = sm.notes.Status(session.prospect.NoteKey())
	}
	return v
}

// deriveSteps rebuilds the checklist from the canonical template, attaching
// content by the fixed step->type mapping and carrying completed flags
// forward by step ID. Steps with no matching cards get no Content field at
// all. prevCompleted preserves completion order across derivations.
func deriveSteps(content []models.ContentItem, prevCompleted []models.CallFlowStep) (pending, completed []models.CallFlowStep) {
	done := make(map[string]bool, len(prevCompleted))
	for _, step := range prevCompleted {
		done[step.ID] = true
	}

	byID := make(map[string]models.CallFlowStep)
	for _, step := range models.DefaultCallFlow() {
		if ct := models.ContentTypeForStep(step.ID); ct != "" {
			var matches []models.ContentItem
			for _, item := range content {
				if item.Type == ct {
					matches = append(matches, item)
				}
			}
			if len(matches) > 0 {
				step.Content = matches
			}
		}

		if done[step.ID] {
			step.Completed = true
			byID[step.ID] = step
			continue
		}
		pending = append(pending, step)
	}

	// Completed steps keep the order they were completed in
	for _, prev := range prevCompleted {
		if step, ok := byID[prev.ID]; ok {
			completed = append(completed, step)
		}
	}
	return pending, completed
}
