package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/flitskaart/flitskaart-api/internal/api/shared"
	"github.com/flitskaart/flitskaart-api/internal/service"
	"github.com/flitskaart/flitskaart-api/internal/translate"
)

// TranslateHandler handles translation suggestion requests. Suggestions are
// best-effort: a missing or failing translator degrades to an empty
// suggestion, never an error status.
type TranslateHandler struct {
	translateService *service.TranslateService
	validator        *validator.Validate
}

// NewTranslateHandler creates a new TranslateHandler.
func NewTranslateHandler(translateService *service.TranslateService) *TranslateHandler {
	// Validate inputs
	if translateService == nil {
		panic("translateService cannot be nil")
	}

	return &TranslateHandler{
		translateService: translateService,
		validator:        validator.New(),
	}
}

// Suggest handles POST /api/translate/suggest requests.
func (h *TranslateHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	var req TranslateSuggestRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	suggestion := h.translateService.Suggest(r.Context(), translate.Request{
		Text: req.Text,
		From: req.From,
		To:   req.To,
	})

	shared.RespondWithJSON(w, r, http.StatusOK, TranslateSuggestResponse{Suggestion: suggestion})
}
