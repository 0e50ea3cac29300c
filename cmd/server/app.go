package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/flitskaart/flitskaart-api/internal/backup"
	"github.com/flitskaart/flitskaart-api/internal/card"
	"github.com/flitskaart/flitskaart-api/internal/config"
	"github.com/flitskaart/flitskaart-api/internal/importer"
	"github.com/flitskaart/flitskaart-api/internal/platform/filestore"
	"github.com/flitskaart/flitskaart-api/internal/platform/gemini"
	"github.com/flitskaart/flitskaart-api/internal/platform/localmedia"
	"github.com/flitskaart/flitskaart-api/internal/platform/postgres"
	"github.com/flitskaart/flitskaart-api/internal/service"
	"github.com/flitskaart/flitskaart-api/internal/service/auth"
	"github.com/flitskaart/flitskaart-api/internal/store"
	"github.com/flitskaart/flitskaart-api/internal/translate"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB // nil unless the postgres backend is configured

	// Service interfaces
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	cardService      *service.CardService
	sessionService   *service.SessionService
	translateService *service.TranslateService
	importer         *importer.Importer

	// Background jobs
	backupJob *backup.Job
}

// newApplication creates a new application instance with all dependencies initialized.
// It accepts core dependencies like configuration and logger that must be established
// before application initialization.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	// Initialize JWT service
	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	// Initialize password verifier
	app.passwordVerifier = auth.NewBcryptVerifier()

	// Initialize snapshot persistence
	snapshots, err := app.setupSnapshotStore(ctx)
	if err != nil {
		return nil, err
	}

	// Load the card collection from the last saved snapshot
	cardStore, err := card.NewStore(ctx, snapshots, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load card store: %w", err)
	}

	// Initialize the media blob store
	media, err := localmedia.New(cfg.Media.Dir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize media store: %w", err)
	}

	// Initialize services
	app.cardService = service.NewCardService(cardStore, media, logger)
	app.sessionService = service.NewSessionService(app.cardService, nil, logger)
	app.translateService = service.NewTranslateService(app.setupTranslator(ctx), logger)
	app.importer = importer.New(app.cardService, logger)

	// Start the periodic snapshot backup job. Only the file backend has a
	// snapshot file on disk to copy; postgres deployments back up the
	// database instead.
	if cfg.Storage.Backend == config.StorageBackendFile && cfg.Backup.IntervalHours > 0 {
		app.backupJob, err = backup.NewJob(cfg.Storage.SnapshotPath, cfg.Backup.Dir, cfg.Backup.Keep, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize backup job: %w", err)
		}
		if err := app.backupJob.Start(cfg.Backup.IntervalHours); err != nil {
			return nil, fmt.Errorf("failed to start backup job: %w", err)
		}
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// setupSnapshotStore selects the snapshot backend from configuration: a JSON
// file on disk by default, or a postgres row for deployments that already
// run a database. The config layer has already validated the backend name.
func (app *application) setupSnapshotStore(ctx context.Context) (store.SnapshotStore, error) {
	switch app.config.Storage.Backend {
	case config.StorageBackendPostgres:
		db, err := postgres.Open(ctx, app.config.Storage.DatabaseURL, app.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := postgres.Migrate(db, app.logger); err != nil {
			if closeErr := db.Close(); closeErr != nil {
				app.logger.Error("Error closing database connection", "error", closeErr)
			}
			return nil, fmt.Errorf("failed to apply migrations: %w", err)
		}
		app.db = db
		return postgres.NewPostgresSnapshotStore(db, app.logger), nil

	default:
		fs, err := filestore.New(app.config.Storage.SnapshotPath, app.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize file store: %w", err)
		}
		return fs, nil
	}
}

// setupTranslator builds the Gemini translator when an API key is configured.
// It returns nil otherwise; the translate service treats a nil translator as
// "feature unconfigured" and serves empty suggestions.
func (app *application) setupTranslator(ctx context.Context) translate.Translator {
	if app.config.LLM.GeminiAPIKey == "" {
		app.logger.Info("No Gemini API key configured, translation suggestions disabled")
		return nil
	}

	translator, err := gemini.NewGeminiTranslator(
		ctx,
		app.logger.With("component", "llm_translator"),
		app.config.LLM,
	)
	if err != nil {
		app.logger.Warn("Failed to initialize Gemini translator, translation suggestions disabled",
			"error", err)
		return nil
	}

	app.logger.Info("Gemini translator initialized", "model", app.config.LLM.ModelName)
	return translator
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	// Set up router using the application dependencies
	router := app.setupRouter()

	// Start the HTTP server
	err := app.startHTTPServer(ctx, router)
	if err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	// Stop the backup scheduler
	if app.backupJob != nil {
		app.backupJob.Stop()
	}

	// Close database connection
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}
}
