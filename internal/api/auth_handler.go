package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/flitskaart/flitskaart-api/internal/api/shared"
	"github.com/flitskaart/flitskaart-api/internal/config"
	"github.com/flitskaart/flitskaart-api/internal/service/auth"
)

// AuthHandler handles authentication-related API requests. There is exactly
// one account: the configured password hash guards the whole API.
type AuthHandler struct {
	passwordHash     string
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	validator        *validator.Validate
	logger           *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	authConfig *config.AuthConfig,
	jwtService auth.JWTService,
	passwordVerifier auth.PasswordVerifier,
	logger *slog.Logger,
) *AuthHandler {
	// Validate inputs
	if authConfig == nil {
		panic("authConfig cannot be nil")
	}
	if jwtService == nil {
		panic("jwtService cannot be nil")
	}
	if passwordVerifier == nil {
		panic("passwordVerifier cannot be nil")
	}

	// Use provided logger or create default
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthHandler{
		passwordHash:     authConfig.PasswordHash,
		jwtService:       jwtService,
		passwordVerifier: passwordVerifier,
		validator:        validator.New(),
		logger:           logger.With(slog.String("component", "auth_handler")),
	}
}

// Login handles POST /api/auth/login requests. A correct password yields a
// bearer token; anything else yields 401 without detail.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	// Parse request
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	// Validate request
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	// Verify password using the injected verifier. Failed attempts are an
	// operational signal on a single-user API, hence the elevated level.
	if err := h.passwordVerifier.Compare(h.passwordHash, req.Password); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Invalid credentials",
			auth.ErrInvalidCredentials, shared.WithElevatedLogLevel())
		return
	}

	// Generate token
	token, err := h.jwtService.GenerateToken(r.Context())
	if err != nil {
		h.logger.Error("failed to generate token", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusInternalServerError,
			"Failed to generate authentication token")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{Token: token})
}
