package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/wolf-den/wolfden-backend/internal/models"
	"github.com/wolf-den/wolfden-backend/internal/services"
	"github.com/wolf-den/wolfden-backend/internal/storage"
)

// CallLogHandler handles call-outcome submission and history queries
type CallLogHandler struct {
	store    storage.Store
	sessions *services.SessionManager
	engine   *services.PredictionEngine
}

// NewCallLogHandler creates a new call log handler
func NewCallLogHandler(store storage.Store, sessions *services.SessionManager, engine *services.PredictionEngine) *CallLogHandler {
	return &CallLogHandler{
		store:    store,
		sessions: sessions,
		engine:   engine,
	}
}

// CallLogRequest is the outcome-capture payload submitted after a call
type CallLogRequest struct {
	RepID             string `json:"rep_id"`
	ProspectID        uint   `json:"prospect_id"`
	Outcome           string `json:"outcome"`
	Intel             string `json:"intel"`
	BestTalkingPoint  string `json:"best_talking_point"`
	KeyTakeaway       string `json:"key_takeaway"`
	DurationSeconds   int    `json:"duration_seconds"`
	NextSteps         string `json:"next_steps"`
	Referrals         string `json:"referrals"`
	Competitor        string `json:"competitor"`
	CompetitorContext string `json:"competitor_context"`
}

// Submit appends an immutable call-log entry and resets the rep's session
func (h *CallLogHandler) Submit(c *fiber.Ctx) error {
	var req CallLogRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if !models.ValidOutcomes[req.Outcome] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid outcome value",
		})
	}
	if req.ProspectID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Prospect ID is required",
		})
	}

	prospect, err := h.store.GetProspect(req.ProspectID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Prospect not found",
		})
	}

	entry := &models.CallLogEntry{
		ID:                uuid.NewString(),
		LeadID:            prospect.LeadID(),
		Persona:           prospect.Persona,
		Industry:          prospect.Industry,
		Outcome:           req.Outcome,
		Intel:             req.Intel,
		BestTalkingPoint:  req.BestTalkingPoint,
		KeyTakeaway:       req.KeyTakeaway,
		DurationSeconds:   req.DurationSeconds,
		NextSteps:         req.NextSteps,
		Referrals:         req.Referrals,
		Competitor:        req.Competitor,
		CompetitorContext: req.CompetitorContext,
	}

	created, err := h.store.AppendCallLog(entry)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to record call outcome",
		})
	}

	h.engine.UpdateModel(created)

	// A logged outcome closes out the session and purges its notes
	if req.RepID != "" {
		if _, err := h.sessions.ResetCall(req.RepID); err != nil && !errors.Is(err, services.ErrNoSession) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Call logged but session reset failed",
			})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Call outcome recorded",
		"entry":   created,
	})
}

// List retrieves call history, optionally scoped to one lead
func (h *CallLogHandler) List(c *fiber.Ctx) error {
	leadID := c.Query("lead_id")

	var (
		logs []*models.CallLogEntry
		err  error
	)
	if leadID != "" {
		logs, err = h.store.GetCallLogsByLead(leadID)
	} else {
		logs, err = h.store.GetCallLogs()
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve call logs",
		})
	}

	return c.JSON(fiber.Map{
		"logs":  logs,
		"count": len(logs),
	})
}

// Clear bulk-deletes the call history
func (h *CallLogHandler) Clear(c *fiber.Ctx) error {
	if err := h.store.ClearCallLogs(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to clear call logs",
		})
	}
	return c.JSON(fiber.Map{
		"message": "Call logs cleared",
	})
}
