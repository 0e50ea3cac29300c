package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/flitskaart/flitskaart-api/internal/api/shared"
	"github.com/flitskaart/flitskaart-api/internal/domain/duplicate"
	"github.com/flitskaart/flitskaart-api/internal/platform/logger"
	"github.com/flitskaart/flitskaart-api/internal/service"
)

// CardHandler handles card-related HTTP requests.
type CardHandler struct {
	cardService *service.CardService
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(cardService *service.CardService, logger *slog.Logger) *CardHandler {
	// Validate inputs
	if cardService == nil {
		panic("cardService cannot be nil")
	}

	// Use provided logger or create default
	if logger == nil {
		logger = slog.Default()
	}

	return &CardHandler{
		cardService: cardService,
		validator:   validator.New(),
		logger:      logger.With(slog.String("component", "card_handler")),
	}
}

// CreateCard handles POST /api/cards requests. A word collision inside any
// target deck returns 409 with the field comparison so the client can offer
// the resolution choices; nothing is stored in that case.
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	card, dup, err := h.cardService.AddCard(r.Context(), req.toDraft())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create card")
		return
	}

	if dup != nil {
		log.Debug("duplicate card detected",
			slog.String("word", req.Word),
			slog.String("existing_id", dup.Existing.ID.String()))
		shared.RespondWithJSON(w, r, http.StatusConflict, DuplicateConflictResponse{
			Error:      "duplicate card",
			TraceID:    shared.GetTraceID(r.Context()),
			Existing:   cardToResponse(&dup.Existing),
			Comparison: dup.Comparison,
		})
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, cardToResponse(card))
}

// ListCards handles GET /api/cards requests, returning the whole collection.
func (h *CardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	cards := h.cardService.AllCards(r.Context())
	shared.RespondWithJSON(w, r, http.StatusOK, cardsToResponses(cards))
}

// GetCard handles GET /api/cards/{id} requests.
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	cardID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	card, err := h.cardService.GetCard(r.Context(), cardID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// UpdateCard handles PUT /api/cards/{id} requests. Identity and mastery
// counters survive the edit.
func (h *CardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	cardID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req CardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	card, err := h.cardService.UpdateCard(r.Context(), cardID, req.toDraft())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// DeleteCard handles DELETE /api/cards/{id} requests.
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	cardID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.cardService.DeleteCard(r.Context(), cardID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete card")
		return
	}

	log.Debug("card deleted", slog.String("card_id", cardID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// ResolveDuplicate handles POST /api/cards/{id}/resolve requests, applying
// the chosen action to the existing card that caused a duplicate conflict.
// Cancelling resolves to no change and returns 204.
func (h *CardHandler) ResolveDuplicate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	cardID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req ResolveRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	action, err := duplicate.ParseAction(req.Action)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	card, err := h.cardService.ResolveDuplicate(r.Context(), cardID, req.Fields, action)
	if errors.Is(err, duplicate.ErrCancelled) {
		log.Debug("duplicate resolution cancelled", slog.String("card_id", cardID.String()))
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		HandleAPIError(w, r, err, "Failed to resolve duplicate")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}
