package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/flitskaart/flitskaart-api/internal/api/shared"
	"github.com/flitskaart/flitskaart-api/internal/domain"
	"github.com/flitskaart/flitskaart-api/internal/domain/duplicate"
	"github.com/flitskaart/flitskaart-api/internal/domain/quiz"
	"github.com/flitskaart/flitskaart-api/internal/importer"
	"github.com/flitskaart/flitskaart-api/internal/platform/localmedia"
	"github.com/flitskaart/flitskaart-api/internal/service"
	"github.com/flitskaart/flitskaart-api/internal/service/auth"
	"github.com/flitskaart/flitskaart-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Not found errors
	case store.IsNotFoundError(err),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrNoMedia),
		errors.Is(err, localmedia.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors: wrong-phase session calls and protected entities
	case errors.Is(err, quiz.ErrInvalidTransition),
		errors.Is(err, store.ErrDefaultDeck):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, quiz.ErrUnknownMode),
		errors.Is(err, quiz.ErrInvalidAnswer),
		errors.Is(err, duplicate.ErrUnknownAction),
		errors.Is(err, importer.ErrUnsupportedFormat),
		errors.Is(err, localmedia.ErrInvalidKind),
		errors.Is(err, localmedia.ErrInvalidRef):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	// Validation failures carry field and reason built from our own
	// constants; the text is safe to surface.
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return "Invalid input: " + validationErr.Error()
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid credentials"

	case errors.Is(err, store.ErrCardNotFound):
		return "Card not found"

	case errors.Is(err, store.ErrDeckNotFound):
		return "Deck not found"

	case errors.Is(err, service.ErrSessionNotFound):
		return "Session not found"

	case errors.Is(err, service.ErrNoMedia),
		errors.Is(err, localmedia.ErrNotFound):
		return "No media attached"

	case store.IsNotFoundError(err):
		return "Not found"

	// The exact sentinel text: clients branch on this payload for
	// wrong-phase session calls.
	case errors.Is(err, quiz.ErrInvalidTransition):
		return "invalid state transition"

	case errors.Is(err, store.ErrDefaultDeck):
		return "The default deck cannot be modified"

	case errors.Is(err, quiz.ErrUnknownMode):
		return "Unknown quiz mode"

	case errors.Is(err, quiz.ErrInvalidAnswer):
		return "Invalid answer for this quiz mode"

	case errors.Is(err, duplicate.ErrUnknownAction):
		return "Unknown resolution action"

	case errors.Is(err, importer.ErrUnsupportedFormat):
		return "Unsupported import file format"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError maps the error to a status code and safe message, then
// writes the error response. A non-empty fallbackMessage replaces the
// generic message for internal server errors.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallbackMessage string) {
	statusCode := MapErrorToStatusCode(err)
	safeMessage := GetSafeErrorMessage(err)

	if statusCode == http.StatusInternalServerError && fallbackMessage != "" {
		safeMessage = fallbackMessage
	}

	shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
}

// SanitizeValidationError removes sensitive details from request validation
// errors and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return "Invalid input: " + validationErr.Error()
	}

	errMsg := err.Error()

	// Example format: "Key: 'CardRequest.Word' Error:Field validation for
	// 'Word' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "len":
		return "wrong length"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
