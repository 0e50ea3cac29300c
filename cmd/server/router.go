package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/flitskaart/flitskaart-api/internal/api"
	apiMiddleware "github.com/flitskaart/flitskaart-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
// It accepts the application dependencies to create handlers and register routes.
// Returns the configured router.
func (app *application) setupRouter() http.Handler {
	// Create a router
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(
		apiMiddleware.NewTraceMiddleware(app.logger),
	) // Add trace IDs for improved error handling
	r.Use(cors.New(cors.Options{
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         86400,
	}).Handler)

	// Create API handlers using the application's services
	authHandler := api.NewAuthHandler(
		&app.config.Auth,
		app.jwtService,
		app.passwordVerifier,
		app.logger,
	)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	deckHandler := api.NewDeckHandler(app.cardService, app.logger)
	cardHandler := api.NewCardHandler(app.cardService, app.logger)
	mediaHandler := api.NewMediaHandler(app.cardService, app.logger)
	sessionHandler := api.NewSessionHandler(app.sessionService, app.logger)
	translateHandler := api.NewTranslateHandler(app.translateService)
	importHandler := api.NewImportHandler(app.importer, app.logger)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Deck endpoints
			r.Get("/decks", deckHandler.ListDecks)
			r.Post("/decks", deckHandler.CreateDeck)
			r.Get("/decks/selectable", deckHandler.SelectableDecks)
			r.Get("/decks/{id}", deckHandler.GetDeck)
			r.Put("/decks/{id}", deckHandler.RenameDeck)
			r.Delete("/decks/{id}", deckHandler.DeleteDeck)
			r.Get("/decks/{id}/subdecks", deckHandler.ListSubDecks)
			r.Post("/decks/{id}/subdecks", deckHandler.CreateSubDeck)
			r.Get("/decks/{id}/cards", deckHandler.DeckCards)

			// Card endpoints
			r.Get("/cards", cardHandler.ListCards)
			r.Post("/cards", cardHandler.CreateCard)
			r.Get("/cards/{id}", cardHandler.GetCard)
			r.Put("/cards/{id}", cardHandler.UpdateCard)
			r.Delete("/cards/{id}", cardHandler.DeleteCard)
			r.Post("/cards/{id}/resolve", cardHandler.ResolveDuplicate)

			// Card media endpoints
			r.Post("/cards/{id}/audio", mediaHandler.UploadAudio)
			r.Get("/cards/{id}/audio", mediaHandler.GetAudio)
			r.Delete("/cards/{id}/audio", mediaHandler.DeleteAudio)
			r.Post("/cards/{id}/image", mediaHandler.UploadImage)
			r.Get("/cards/{id}/image", mediaHandler.GetImage)
			r.Delete("/cards/{id}/image", mediaHandler.DeleteImage)

			// Quiz session endpoints
			r.Post("/sessions", sessionHandler.StartSession)
			r.Get("/sessions/{id}", sessionHandler.GetSession)
			r.Delete("/sessions/{id}", sessionHandler.DeleteSession)
			r.Post("/sessions/{id}/reveal", sessionHandler.Reveal)
			r.Post("/sessions/{id}/answer", sessionHandler.SubmitAnswer)
			r.Post("/sessions/{id}/guess", sessionHandler.GuessLetter)
			r.Post("/sessions/{id}/advance", sessionHandler.Advance)
			r.Post("/sessions/{id}/reset", sessionHandler.Reset)
			r.Get("/sessions/{id}/summary", sessionHandler.Summary)

			// Translation suggestion endpoint
			r.Post("/translate/suggest", translateHandler.Suggest)

			// Spreadsheet import endpoint
			r.Post("/import", importHandler.Import)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
