package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/wolf-den/wolfden-backend/database"
	"github.com/wolf-den/wolfden-backend/internal/jobs"
	"github.com/wolf-den/wolfden-backend/internal/models"
	"github.com/wolf-den/wolfden-backend/internal/routes"
	"github.com/wolf-den/wolfden-backend/internal/services"
	"github.com/wolf-den/wolfden-backend/internal/storage"
)

func main() {
	// Load .env file for local development
	err := godotenv.Load(".env")
	if err != nil {
		err = godotenv.Load("environments/.env.development")
		if err != nil {
			log.Println("⚠️  No .env file found - checking environment variables")
		}
	}

	// Initialize storage
	var store storage.Store

	// Check if we should use memory store (for testing)
	if os.Getenv("USE_MEMORY_STORE") == "true" {
		log.Println("⚠️  Using in-memory storage (not for production!)")
		store = storage.NewMemoryStore()
	} else {
		// Connect to database
		log.Println("📦 Connecting to PostgreSQL database...")
		database.Connect()

		// Run migrations
		log.Println("🔄 Running database migrations...")
		err := database.DB.AutoMigrate(
			&models.Prospect{},
			&models.ContentItem{},
			&models.CallLogEntry{},
			&models.CallNote{},
		)
		if err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
		log.Println("✅ Database migrations completed!")

		store = storage.NewDatabaseStore(database.DB)
		log.Println("✅ Using PostgreSQL database storage")
	}

	// Set global store instance
	storage.SetStore(store)

	// Initialize the Twilio dialer - the app still runs without credentials,
	// call initiation just fails with a user-visible message
	var dialer services.Dialer
	twilioDialer, err := services.NewTwilioDialer()
	if err != nil {
		log.Printf("⚠️  Twilio dialer not configured - calls cannot be placed: %v", err)
	} else {
		dialer = twilioDialer
		log.Println("✅ Twilio dialer initialized")
	}

	// Initialize services
	notesService := services.NewNotesService(store)
	sessionManager := services.NewSessionManager(dialer, notesService)
	predictionEngine := services.NewPredictionEngine()

	// Start the note retention sweep
	retentionJob := jobs.NewRetentionJob(notesService)
	retentionJob.Start()

	log.Println("✅ All services initialized")

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName: "Wolf Den Backend v1.0.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	// Root endpoint with service status
	app.Get("/", func(c *fiber.Ctx) error {
		response := fiber.Map{
			"service": "Wolf Den Backend API",
			"version": "1.0.0",
			"status":  "healthy",
			"storage": getStorageType(),
			"dialer": fiber.Map{
				"configured": dialer != nil,
			},
		}

		// Add database status if using database
		if os.Getenv("USE_MEMORY_STORE") != "true" && database.DB != nil {
			sqlDB, err := database.DB.DB()
			dbStatus := "connected"
			if err != nil {
				dbStatus = "error: " + err.Error()
			} else if err := sqlDB.Ping(); err != nil {
				dbStatus = "error: " + err.Error()
			}

			var prospectCount, contentCount, logCount, noteCount int64
			database.DB.Model(&models.Prospect{}).Count(&prospectCount)
			database.DB.Model(&models.ContentItem{}).Count(&contentCount)
			database.DB.Model(&models.CallLogEntry{}).Count(&logCount)
			database.DB.Model(&models.CallNote{}).Count(&noteCount)

			response["database"] = fiber.Map{
				"status":    dbStatus,
				"prospects": prospectCount,
				"content":   contentCount,
				"call_logs": logCount,
				"notes":     noteCount,
			}
		}

		response["services"] = fiber.Map{
			"sessions":        len(sessionManager.ActiveSessions()),
			"retention_sweep": "active",
		}

		return c.JSON(response)
	})

	// Health check endpoint for monitoring
	app.Get("/health", func(c *fiber.Ctx) error {
		status := "healthy"
		statusCode := 200

		if os.Getenv("USE_MEMORY_STORE") != "true" && database.DB != nil {
			sqlDB, err := database.DB.DB()
			if err != nil || sqlDB.Ping() != nil {
				status = "unhealthy"
				statusCode = 503
			}
		}

		return c.Status(statusCode).JSON(fiber.Map{
			"status": status,
			"services": fiber.Map{
				"database": status == "healthy",
				"dialer":   dialer != nil,
			},
		})
	})

	// Setup routes
	routes.SetupRoutes(app, store, sessionManager, predictionEngine)

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("\n🛑 Gracefully shutting down...")
		log.Println("⏹️  Stopping retention job...")
		retentionJob.Stop()
		log.Println("⏹️  Flushing pending note writes...")
		notesService.Flush()
		log.Println("⏹️  Shutting down server...")
		_ = app.Shutdown()
	}()

	// Start server
	log.Println("========================================")
	log.Printf("🚀 Wolf Den Backend starting on port %s", port)
	log.Printf("📊 Storage: %s", getStorageType())
	log.Printf("📱 Dialer: %s", getDialerStatus(dialer))
	log.Println("========================================")

	log.Fatal(app.Listen(":" + port))
}

func getStorageType() string {
	if os.Getenv("USE_MEMORY_STORE") == "true" {
		return "In-Memory (Testing)"
	}
	return "PostgreSQL Database"
}

func getDialerStatus(d services.Dialer) string {
	if d == nil {
		return "Not configured"
	}
	return "Configured"
}
