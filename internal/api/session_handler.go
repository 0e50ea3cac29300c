package api

import (
	"log/slog"
	"net/http"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/flitskaart/flitskaart-api/internal/api/shared"
	"github.com/flitskaart/flitskaart-api/internal/domain/quiz"
	"github.com/flitskaart/flitskaart-api/internal/platform/logger"
	"github.com/flitskaart/flitskaart-api/internal/service"
)

// SessionHandler handles quiz session HTTP requests. Sessions live in
// memory on the service; the handler only translates between HTTP and the
// session operations.
type SessionHandler struct {
	sessionService *service.SessionService
	validator      *validator.Validate
	logger         *slog.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService *service.SessionService, logger *slog.Logger) *SessionHandler {
	// Validate inputs
	if sessionService == nil {
		panic("sessionService cannot be nil")
	}

	// Use provided logger or create default
	if logger == nil {
		logger = slog.Default()
	}

	return &SessionHandler{
		sessionService: sessionService,
		validator:      validator.New(),
		logger:         logger.With(slog.String("component", "session_handler")),
	}
}

// StartSession handles POST /api/sessions requests. The card pool comes
// from explicit card IDs, from decks, or the whole collection when neither
// is given.
func (h *SessionHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req SessionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	mode, err := quiz.ParseMode(req.Mode)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	state, err := h.sessionService.StartSession(r.Context(), mode, req.DeckIDs, req.CardIDs)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to start session")
		return
	}

	log.Debug("session started",
		slog.String("session_id", state.ID.String()),
		slog.String("mode", string(mode)))
	shared.RespondWithJSON(w, r, http.StatusCreated, stateToResponse(state))
}

// GetSession handles GET /api/sessions/{id} requests.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	state, err := h.sessionService.GetSession(r.Context(), sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get session")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stateToResponse(state))
}

// Reveal handles POST /api/sessions/{id}/reveal requests, uncovering the
// answer side in cover-based modes.
func (h *SessionHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	sessionID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	state, err := h.sessionService.Reveal(r.Context(), sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to reveal card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stateToResponse(state))
}

// SubmitAnswer handles POST /api/sessions/{id}/answer requests. The answer
// is graded per the session's mode; wrong-phase submissions are rejected
// with a conflict.
func (h *SessionHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	sessionID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req AnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	correct, state, err := h.sessionService.SubmitAnswer(r.Context(), sessionID, req.Answer)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to submit answer")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AnswerResponse{
		Correct: correct,
		State:   stateToResponse(state),
	})
}

// GuessLetter handles POST /api/sessions/{id}/guess requests for hangman
// sessions.
func (h *SessionHandler) GuessLetter(w http.ResponseWriter, r *http.Request) {
	sessionID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req GuessRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}
	if utf8.RuneCountInString(req.Letter) != 1 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Guess must be a single letter")
		return
	}

	letter, _ := utf8.DecodeRuneInString(req.Letter)
	outcome, state, err := h.sessionService.GuessLetter(r.Context(), sessionID, letter)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to submit guess")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, GuessResponse{
		Outcome: outcome,
		State:   stateToResponse(state),
	})
}

// Advance handles POST /api/sessions/{id}/advance requests, moving a graded
// session to the next card or completing it.
func (h *SessionHandler) Advance(w http.ResponseWriter, r *http.Request) {
	sessionID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	state, err := h.sessionService.Advance(r.Context(), sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to advance session")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stateToResponse(state))
}

// Reset handles POST /api/sessions/{id}/reset requests, reshuffling the
// session's cards and zeroing its counters.
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	sessionID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	state, err := h.sessionService.Reset(r.Context(), sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to reset session")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stateToResponse(state))
}

// Summary handles GET /api/sessions/{id}/summary requests.
func (h *SessionHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sessionID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	summary, err := h.sessionService.Summary(r.Context(), sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get session summary")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}

// DeleteSession handles DELETE /api/sessions/{id} requests, discarding the
// session. Mastery counters already recorded are kept.
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	sessionID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.sessionService.DeleteSession(r.Context(), sessionID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete session")
		return
	}

	log.Debug("session deleted", slog.String("session_id", sessionID.String()))
	w.WriteHeader(http.StatusNoContent)
}
