package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wolf-den/wolfden-backend/internal/models"
	"github.com/wolf-den/wolfden-backend/internal/storage"
)

// ContentHandler handles battle-card content requests
type ContentHandler struct {
	store storage.Store
}

// NewContentHandler creates a new content handler
func NewContentHandler(store storage.Store) *ContentHandler {
	return &ContentHandler{
		store: store,
	}
}

// Create adds a battle card to the content library
func (h *ContentHandler) Create(c *fiber.Ctx) error {
	var item models.ContentItem

	if err := c.BodyParser(&item); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if item.Title == "" || item.Body == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title and body are required",
		})
	}
	if !models.ValidContentTypes[item.Type] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid content type",
		})
	}

	created, err := h.store.CreateContentItem(&item)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create content item",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Content item created successfully",
		"content": created,
	})
}

// List retrieves battle cards, optionally filtered by persona and type
func (h *ContentHandler) List(c *fiber.Ctx) error {
	persona := c.Query("persona")
	contentType := c.Query("type")

	if persona != "" && !models.ValidPersonas[persona] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid persona value",
		})
	}
	if contentType != "" && !models.ValidContentTypes[contentType] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid content type",
		})
	}

	items, err := h.store.GetContentItems(persona, contentType)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve content items",
		})
	}

	return c.JSON(fiber.Map{
		"content": items,
		"count":   len(items),
	})
}
