package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/flitskaart/flitskaart-api/internal/api/shared"
	"github.com/flitskaart/flitskaart-api/internal/platform/logger"
	"github.com/flitskaart/flitskaart-api/internal/service"
)

// DeckHandler handles deck-related HTTP requests.
type DeckHandler struct {
	cardService *service.CardService
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewDeckHandler creates a new DeckHandler.
func NewDeckHandler(cardService *service.CardService, logger *slog.Logger) *DeckHandler {
	// Validate inputs
	if cardService == nil {
		panic("cardService cannot be nil")
	}

	// Use provided logger or create default
	if logger == nil {
		logger = slog.Default()
	}

	return &DeckHandler{
		cardService: cardService,
		validator:   validator.New(),
		logger:      logger.With(slog.String("component", "deck_handler")),
	}
}

// ListDecks handles GET /api/decks requests, returning top-level decks.
func (h *DeckHandler) ListDecks(w http.ResponseWriter, r *http.Request) {
	decks := h.cardService.TopLevelDecks(r.Context())
	shared.RespondWithJSON(w, r, http.StatusOK, decks)
}

// CreateDeck handles POST /api/decks requests.
func (h *DeckHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	var req DeckRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	deck, err := h.cardService.CreateDeck(r.Context(), req.Name)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create deck")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, deck)
}

// SelectableDecks handles GET /api/decks/selectable requests. The list is
// flattened for pickers: each top-level deck directly followed by its
// sub-decks.
func (h *DeckHandler) SelectableDecks(w http.ResponseWriter, r *http.Request) {
	decks := h.cardService.SelectableDecks(r.Context())
	shared.RespondWithJSON(w, r, http.StatusOK, decks)
}

// GetDeck handles GET /api/decks/{id} requests.
func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	deckID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	deck, err := h.cardService.GetDeck(r.Context(), deckID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get deck")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, deck)
}

// RenameDeck handles PUT /api/decks/{id} requests.
func (h *DeckHandler) RenameDeck(w http.ResponseWriter, r *http.Request) {
	deckID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req DeckRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	deck, err := h.cardService.RenameDeck(r.Context(), deckID, req.Name)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to rename deck")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, deck)
}

// DeleteDeck handles DELETE /api/decks/{id} requests. Deleting the default
// deck is rejected with a conflict.
func (h *DeckHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	deckID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.cardService.DeleteDeck(r.Context(), deckID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete deck")
		return
	}

	log.Debug("deck deleted", slog.String("deck_id", deckID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// ListSubDecks handles GET /api/decks/{id}/subdecks requests.
func (h *DeckHandler) ListSubDecks(w http.ResponseWriter, r *http.Request) {
	deckID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	// Resolve the parent first so unknown decks 404 instead of returning
	// an empty list.
	if _, err := h.cardService.GetDeck(r.Context(), deckID); err != nil {
		HandleAPIError(w, r, err, "Failed to list sub-decks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, h.cardService.SubDecks(r.Context(), deckID))
}

// CreateSubDeck handles POST /api/decks/{id}/subdecks requests. The parent
// must be top-level; the hierarchy is one level deep.
func (h *DeckHandler) CreateSubDeck(w http.ResponseWriter, r *http.Request) {
	deckID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req DeckRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	deck, err := h.cardService.CreateSubDeck(r.Context(), req.Name, deckID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create sub-deck")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, deck)
}

// DeckCards handles GET /api/decks/{id}/cards requests, listing the cards
// whose membership includes this deck.
func (h *DeckHandler) DeckCards(w http.ResponseWriter, r *http.Request) {
	deckID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	cards, err := h.cardService.DeckCards(r.Context(), deckID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list deck cards")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardsToResponses(cards))
}
