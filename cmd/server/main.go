// Package main implements the entry point for the Flitskaart API server,
// which stores vocabulary flashcards in nested decks and drives quiz
// sessions over them.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/flitskaart/flitskaart-api/internal/config"
	"github.com/flitskaart/flitskaart-api/internal/platform/logger"
)

// main wires configuration, logging, storage and services together and
// runs the HTTP server until it receives a shutdown signal.
func main() {
	// A .env file is a development convenience; deployments configure the
	// process through real environment variables.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env file")
	}

	if err := run(); err != nil {
		log.Fatalf("Failed to start flitskaart-api: %v", err)
	}
}

// run loads configuration, initializes the application and starts the
// server. Split from main so every failure path returns an error instead
// of calling os.Exit directly.
func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Set up structured logging using the configured log level
	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	// Log configuration details using structured logging
	appLogger.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"storage_backend", cfg.Storage.Backend)

	ctx := context.Background()

	app, err := newApplication(ctx, cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
