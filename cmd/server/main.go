// @title           Dealer Admin Backend API
// @version         1.0.0
// @description     Backend API for the dealer platform invoice document pipeline. Captures freehand signatures from pointer events, embeds remote product images as self-contained data, assembles the canonical invoice document and exports it for print or download.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"dealer-admin-backend/docs"
	"dealer-admin-backend/internal/config"
	"dealer-admin-backend/internal/database"
	"dealer-admin-backend/internal/document"
	"dealer-admin-backend/internal/embed"
	"dealer-admin-backend/internal/export"
	"dealer-admin-backend/internal/handlers"
	"dealer-admin-backend/internal/logger"
	"dealer-admin-backend/internal/middleware"
	"dealer-admin-backend/internal/platform"
	"dealer-admin-backend/internal/render"
	"dealer-admin-backend/internal/session"
	"dealer-admin-backend/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// Logger isn't configured yet; panic carries the reason out.
		panic("failed to load configuration: " + err.Error())
	}

	if err := logger.Setup(logger.LogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: cfg.LogOutput,
	}); err != nil {
		panic("failed to configure logging: " + err.Error())
	}
	log := logger.WithComponent("server")

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Update Swagger docs with dynamic base URL
	if cfg.BaseURL != "" {
		if baseURL, err := url.Parse(cfg.BaseURL); err == nil {
			docs.SwaggerInfo.Host = baseURL.Host
			if baseURL.Scheme == "https" {
				docs.SwaggerInfo.Schemes = []string{"https", "http"}
			} else {
				docs.SwaggerInfo.Schemes = []string{"http", "https"}
			}
		}
	}

	// Optional invoice-history archive; the pipeline runs without it.
	var dbClient *database.Client
	if cfg.DatabaseURL != "" {
		dbClient, err = database.NewClient(cfg.DatabaseURL)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize database client, archive disabled")
			dbClient = nil
		} else {
			defer dbClient.Close()

			migrator, err := database.NewMigrator(cfg.DatabaseURL)
			if err != nil {
				log.Warn().Err(err).Msg("failed to initialize migrator")
			} else {
				defer migrator.Close()
				if err := migrator.Run(); err != nil {
					log.Warn().Err(err).Msg("migration failed")
				} else {
					log.Info().Msg("migrations completed")
				}
			}
		}
	} else {
		log.Warn().Msg("DATABASE_URL not set, invoice-history archive disabled")
	}

	// Optional object-storage archive for generated PDFs.
	var archiveClient *storage.ArchiveClient
	if cfg.StorageURL != "" && cfg.StorageKey != "" {
		archiveClient, err = storage.NewArchiveClient(cfg.StorageURL, cfg.StorageKey, cfg.StorageBucket)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize storage archive, PDF archive disabled")
			archiveClient = nil
		}
	}

	// Dealer platform client for invoice-record persistence.
	var platformClient *platform.Client
	if cfg.PlatformAPIKey != "" {
		platformClient = platform.NewClient(cfg.PlatformAPIBaseURL, cfg.PlatformAPIKey)
	} else {
		log.Warn().Msg("PLATFORM_API_KEY not set, invoice records will not be persisted to the platform")
	}

	// Pipeline components
	embedder := embed.NewEmbedder(cfg.ImageEmbedTimeout)
	store := session.NewStore(embedder, cfg.SessionTTL)
	store.StartSweeper(context.Background(), 10*time.Minute)

	builder := document.NewBuilder(document.CompanyFacts{
		Name:    cfg.CompanyName,
		Address: cfg.CompanyAddress,
		Phone:   cfg.CompanyPhone,
		Email:   cfg.CompanyEmail,
		Website: cfg.CompanyWebsite,
	})
	coordinator := export.NewCoordinator(render.NewPDFRenderer(), platformClient, dbClient, archiveClient)

	// Handlers
	sessionsHandler := handlers.NewSessionsHandler(store)
	signaturesHandler := handlers.NewSignaturesHandler(store)
	exportHandler := handlers.NewExportHandler(store, builder, coordinator)
	historyHandler := handlers.NewHistoryHandler(dbClient)

	// Setup router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check (no auth)
	router.GET("/health", handlers.HealthHandler)

	// API routes
	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg))

	api.POST("/invoice-sessions", sessionsHandler.CreateSession)
	api.GET("/invoice-sessions/:session_id", sessionsHandler.GetSession)
	api.DELETE("/invoice-sessions/:session_id", sessionsHandler.DeleteSession)

	api.POST("/invoice-sessions/:session_id/signatures/:surface/strokes", signaturesHandler.Stroke)
	api.POST("/invoice-sessions/:session_id/signatures/:surface/clear", signaturesHandler.Clear)

	api.POST("/invoice-sessions/:session_id/export", exportHandler.Export)

	api.GET("/invoice-history", historyHandler.ListHistory)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Info().Str("port", port).Msg("server starting")
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
