package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/mandoxxdev/crm-catalog/internal/config"
	"github.com/mandoxxdev/crm-catalog/internal/database"
	"github.com/mandoxxdev/crm-catalog/internal/handlers"
	"github.com/mandoxxdev/crm-catalog/internal/logger"
	"github.com/mandoxxdev/crm-catalog/internal/middleware"
	"github.com/mandoxxdev/crm-catalog/internal/types"
	"github.com/mandoxxdev/crm-catalog/internal/uploads"
	"go.uber.org/zap"

	_ "github.com/mandoxxdev/crm-catalog/docs/api" // Swagger docs
)

// @title Equipment Catalog API
// @version 1.0.0
// @description Product family catalog with technical-specification markers and per-family option lists

// @contact.name API Support
// @contact.url https://github.com/mandoxxdev/crm-catalog

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name cookie_session

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if _, err := logger.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		logger.L().Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		logger.L().Fatal("failed to run migrations", zap.Error(err))
	}

	// Upload storage
	store, err := uploads.NewStore(cfg.UploadDir)
	if err != nil {
		logger.L().Fatal("failed to create upload store", zap.Error(err))
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("crm_catalog")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API routes under /api
	api := app.Group("/api")

	// Version middleware
	api.Use(middleware.VersionMiddleware())

	// Create handlers
	variableHandler := &handlers.VariableHandler{DB: db}
	familyHandler := &handlers.FamilyHandler{DB: db}
	optionHandler := &handlers.OptionHandler{DB: db}
	uploadHandler := &handlers.UploadHandler{DB: db, Store: store}
	healthHandler := &handlers.HealthHandler{DB: db, Cfg: cfg}

	api.Get("/health", healthHandler.GetHealth)

	catalog := api.Group("/catalog")

	// Technical-variable registry (public GET, admin mutations)
	catalog.Get("/variables", variableHandler.GetVariables)
	catalog.Post("/variables", middleware.AuthAdmin(), variableHandler.CreateVariable)
	catalog.Put("/variables/:key", middleware.AuthAdmin(), variableHandler.UpdateVariable)
	catalog.Delete("/variables/:key", middleware.AuthAdmin(), variableHandler.DeactivateVariable)

	// Family records
	catalog.Get("/families", familyHandler.GetFamilies)
	catalog.Get("/families/:id", familyHandler.GetFamily)
	catalog.Post("/families", middleware.AuthAdmin(), familyHandler.CreateFamily)
	catalog.Put("/families/:id", middleware.AuthAdmin(), familyHandler.UpdateFamily)

	// Image uploads, multipart and base64 fallback
	catalog.Post("/families/:id/photo", middleware.AuthAdmin(), uploadHandler.UploadPhoto)
	catalog.Post("/families/:id/photo-base64", middleware.AuthAdmin(), uploadHandler.UploadPhotoBase64)
	catalog.Post("/families/:id/schematic", middleware.AuthAdmin(), uploadHandler.UploadSchematic)
	catalog.Post("/families/:id/schematic-base64", middleware.AuthAdmin(), uploadHandler.UploadSchematicBase64)

	// Per-family option catalog. The map read is session-scoped: only
	// logged-in users quote against allowed values.
	catalog.Get("/families/:id/options", middleware.AuthUser(), optionHandler.GetOptionMap)
	catalog.Post("/families/:id/options/:variable", middleware.AuthAdmin(), optionHandler.AddOption)
	catalog.Delete("/families/:id/options/:variable/:optionID", middleware.AuthAdmin(), optionHandler.RemoveOption)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":    fiber.StatusNotFound,
			"message":   "[404] Resource Not Found",
			"ok":        false,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       c.OriginalURL(),
		})
	})

	// Authorizer is initialized lazily on the first authenticated request
	logger.L().Info("authorizer will be initialized on first authenticated request")

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		logger.L().Info("gracefully shutting down")
		_ = app.Shutdown()
	}()

	// Start server
	logger.L().Info("starting server", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.L().Fatal("failed to start server", zap.Error(err))
	}

	logger.L().Info("server stopped")
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	// Check if it's a Fiber error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Authorization failures carry their own code and type
	if e, ok := err.(*types.CustomError); ok {
		code = e.Code
		message = e.Message
		errorType = e.Type
	}

	// Check for record version errors
	versionError := false
	if code == fiber.StatusConflict || (len(message) >= 9 && message[:9] == "E_VERSION") {
		versionError = true
		errorType = "version"
		code = fiber.StatusConflict
	}

	return c.Status(code).JSON(fiber.Map{
		"status":       code,
		"message":      message,
		"ok":           false,
		"versionError": versionError,
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
		"url":          c.OriginalURL(),
		"type":         errorType,
	})
}
