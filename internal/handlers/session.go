package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/wolf-den/wolfden-backend/internal/models"
	"github.com/wolf-den/wolfden-backend/internal/services"
	"github.com/wolf-den/wolfden-backend/internal/storage"
)

// SessionHandler exposes the call-session action surface
type SessionHandler struct {
	store    storage.Store
	sessions *services.SessionManager
	engine   *services.PredictionEngine
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(store storage.Store, sessions *services.SessionManager, engine *services.PredictionEngine) *SessionHandler {
	return &SessionHandler{
		store:    store,
		sessions: sessions,
		engine:   engine,
	}
}

// Get returns the rep's current session snapshot
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	view, err := h.sessions.Session(c.Params("repID"))
	if err != nil {
		return sessionError(c, err)
	}
	return c.JSON(view)
}

// Select binds a prospect to the rep's session. The persona-relevant content
// set is fetched here and handed to the session manager for step derivation.
func (h *SessionHandler) Select(c *fiber.Ctx) error {
	var req struct {
		ProspectID uint `json:"prospect_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	repID := c.Params("repID")

	// prospect_id 0 clears the selection
	if req.ProspectID == 0 {
		return c.JSON(h.sessions.SelectProspect(repID, nil, nil))
	}

	prospect, err := h.store.GetProspect(req.ProspectID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Prospect not found",
		})
	}

	items, err := h.store.GetContentItems(prospect.Persona, "")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load content for prospect",
		})
	}
	content := make([]models.ContentItem, 0, len(items))
	for _, item := range items {
		content = append(content, *item)
	}

	return c.JSON(h.sessions.SelectProspect(repID, prospect, content))
}

// Start prepares the session and stamps the start time
func (h *SessionHandler) Start(c *fiber.Ctx) error {
	view, err := h.sessions.StartSession(c.Params("repID"))
	if err != nil {
		return sessionError(c, err)
	}
	return c.JSON(view)
}

// Call places the outbound call through the telephony collaborator
func (h *SessionHandler) Call(c *fiber.Ctx) error {
	view, err := h.sessions.InitiateCall(c.Context(), c.Params("repID"))
	if err != nil {
		return sessionError(c, err)
	}
	return c.JSON(view)
}

// CompleteStep marks a call-flow step done and restacks the checklist
func (h *SessionHandler) CompleteStep(c *fiber.Ctx) error {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid step index",
		})
	}

	view, err := h.sessions.MarkStepComplete(c.Params("repID"), index)
	if err != nil {
		return sessionError(c, err)
	}
	return c.JSON(view)
}

// End closes the call; the UI presents outcome capture next
func (h *SessionHandler) End(c *fiber.Ctx) error {
	view, err := h.sessions.EndCall(c.Params("repID"))
	if err != nil {
		return sessionError(c, err)
	}
	return c.JSON(view)
}

// Reset restores the session to its initial state and purges durable notes
func (h *SessionHandler) Reset(c *fiber.Ctx) error {
	view, err := h.sessions.ResetCall(c.Params("repID"))
	if err != nil {
		return sessionError(c, err)
	}
	return c.JSON(view)
}

// UpdateNotes replaces the session notes; persistence is debounced
func (h *SessionHandler) UpdateNotes(c *fiber.Ctx) error {
	var req struct {
		Notes string `json:"notes"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	view, err := h.sessions.UpdateNotes(c.Params("repID"), req.Notes)
	if err != nil {
		return sessionError(c, err)
	}
	return c.JSON(view)
}

// Prediction recomputes the success prediction for the selected prospect.
// Predictions are derived values - never persisted - and are not computed
// while a call is active.
func (h *SessionHandler) Prediction(c *fiber.Ctx) error {
	view, err := h.sessions.Session(c.Params("repID"))
	if err != nil {
		return sessionError(c, err)
	}
	if view.Prospect == nil {
		return sessionError(c, services.ErrNoProspectSelected)
	}
	if view.Session.InProgress {
		return sessionError(c, services.ErrCallInProgress)
	}

	logs, err := h.store.GetCallLogs()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load call history",
		})
	}

	prediction := h.engine.CalculatePrediction(view.Prospect, logs, time.Now())
	return c.JSON(prediction)
}

// sessionError maps service errors to JSON responses. Precondition failures
// are warnings for the rep, not server faults.
func sessionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNoSession):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No session for this rep",
		})
	case errors.Is(err, services.ErrNoProspectSelected):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Select a prospect first",
		})
	case errors.Is(err, services.ErrMissingPhoneNumber):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "This prospect has no phone number on file",
		})
	case errors.Is(err, services.ErrInvalidStepIndex):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid step index",
		})
	case errors.Is(err, services.ErrCallInProgress):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "A call is in progress",
		})
	case errors.Is(err, services.ErrCallInitiationFailed):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Could not place the call - try again",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
}
