package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/wolf-den/wolfden-backend/internal/models"
	"github.com/wolf-den/wolfden-backend/internal/storage"
)

// ProspectHandler handles prospect-related requests
type ProspectHandler struct {
	store storage.Store
}

// NewProspectHandler creates a new prospect handler
func NewProspectHandler(store storage.Store) *ProspectHandler {
	return &ProspectHandler{
		store: store,
	}
}

// Create handles new prospect registration
func (h *ProspectHandler) Create(c *fiber.Ctx) error {
	var reg models.ProspectRegistration

	if err := c.BodyParser(&reg); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	// Basic validation
	if reg.CompanyName == "" || reg.ContactName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Company name and contact name are required",
		})
	}
	if !models.ValidPersonas[reg.Persona] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid persona value",
		})
	}

	prospect, err := h.store.CreateProspect(&reg)
	if err != nil {
		if errors.Is(err, storage.ErrProspectExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "A prospect with this company and contact already exists",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create prospect",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Prospect created successfully",
		"prospect": prospect,
	})
}

// Get retrieves a prospect by ID
func (h *ProspectHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid prospect ID",
		})
	}

	prospect, err := h.store.GetProspect(uint(id))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Prospect not found",
		})
	}

	return c.JSON(prospect)
}

// List retrieves all prospects
func (h *ProspectHandler) List(c *fiber.Ctx) error {
	prospects, err := h.store.GetAllProspects()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve prospects",
		})
	}

	return c.JSON(fiber.Map{
		"prospects": prospects,
		"count":     len(prospects),
	})
}

// Update modifies an existing prospect
func (h *ProspectHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid prospect ID",
		})
	}

	prospect, err := h.store.GetProspect(uint(id))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Prospect not found",
		})
	}

	var reg models.ProspectRegistration
	if err := c.BodyParser(&reg); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if reg.Persona != "" && !models.ValidPersonas[reg.Persona] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid persona value",
		})
	}

	if reg.CompanyName != "" {
		prospect.CompanyName = reg.CompanyName
	}
	if reg.ContactName != "" {
		prospect.ContactName = reg.ContactName
	}
	prospect.ContactPhone = reg.ContactPhone
	prospect.ContactEmail = reg.ContactEmail
	prospect.ContactPosition = reg.ContactPosition
	if reg.Industry != "" {
		prospect.Industry = reg.Industry
	}
	if reg.Persona != "" {
		prospect.Persona = reg.Persona
	}

	if err := h.store.UpdateProspect(prospect); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update prospect",
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Prospect updated successfully",
		"prospect": prospect,
	})
}

// Delete removes a prospect
func (h *ProspectHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid prospect ID",
		})
	}

	if err := h.store.DeleteProspect(uint(id)); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Prospect not found",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Prospect deleted successfully",
	})
}
