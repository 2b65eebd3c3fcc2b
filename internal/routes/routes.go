package routes

import (
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/wolf-den/wolfden-backend/internal/handlers"
	"github.com/wolf-den/wolfden-backend/internal/middleware"
	"github.com/wolf-den/wolfden-backend/internal/services"
	"github.com/wolf-den/wolfden-backend/internal/storage"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, store storage.Store, sessions *services.SessionManager, engine *services.PredictionEngine) {

	prospectHandler := handlers.NewProspectHandler(store)
	contentHandler := handlers.NewContentHandler(store)
	sessionHandler := handlers.NewSessionHandler(store, sessions, engine)
	callLogHandler := handlers.NewCallLogHandler(store, sessions, engine)

	// API routes
	api := app.Group("/api")

	// Prospect routes
	prospects := api.Group("/prospects")
	prospects.Post("/", prospectHandler.Create)
	prospects.Get("/", prospectHandler.List)
	prospects.Get("/:id", prospectHandler.Get)
	prospects.Put("/:id", prospectHandler.Update)
	prospects.Delete("/:id", prospectHandler.Delete)

	// Battle-card content routes
	content := api.Group("/content")
	content.Post("/", contentHandler.Create)
	content.Get("/", contentHandler.List)

	// Call session routes (the UI action surface)
	sessionsGroup := api.Group("/sessions/:repID")
	sessionsGroup.Get("/", sessionHandler.Get)
	sessionsGroup.Post("/select", sessionHandler.Select)
	sessionsGroup.Post("/start", sessionHandler.Start)
	sessionsGroup.Post("/call", sessionHandler.Call)
	sessionsGroup.Post("/steps/:index/complete", sessionHandler.CompleteStep)
	sessionsGroup.Post("/end", sessionHandler.End)
	sessionsGroup.Post("/reset", sessionHandler.Reset)
	sessionsGroup.Put("/notes", sessionHandler.UpdateNotes)
	sessionsGroup.Get("/prediction", sessionHandler.Prediction)

	// Call log routes
	callLogs := api.Group("/call-logs")
	callLogs.Post("/", callLogHandler.Submit)
	callLogs.Get("/", callLogHandler.List)
	callLogs.Delete("/", callLogHandler.Clear)

	// ========== WEBHOOK ROUTES ==========
	webhooks := app.Group("/webhook")

	// Twilio voice status callback - ENVIRONMENT-AWARE VALIDATION
	if os.Getenv("ENVIRONMENT") == "development" || os.Getenv("DISABLE_WEBHOOK_VALIDATION") == "true" {
		// Development: skip validation for ngrok
		webhooks.Post("/call-status", handlers.HandleCallStatus)
		if os.Getenv("ENVIRONMENT") == "development" {
			println("⚠️  Twilio webhook validation DISABLED for development")
		}
	} else {
		// Production: validate webhook signature
		webhooks.Post("/call-status", middleware.ValidateTwilioSignature(), handlers.HandleCallStatus)
	}
}
