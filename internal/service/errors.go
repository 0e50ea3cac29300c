package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
// Service methods return sentinel errors for expected conditions; unexpected
// errors are wrapped in ServiceError. Callers use errors.Is/errors.As and the
// API layer maps these onto HTTP status codes.
var (
	// ErrSessionNotFound indicates that no quiz session exists for the given ID,
	// either because it was never created or because it was deleted.
	// API layer should map this to HTTP 404 Not Found.
	ErrSessionNotFound = errors.New("quiz session not found")

	// ErrNoMedia indicates that the card has no clip of the requested kind.
	// API layer should map this to HTTP 404 Not Found.
	ErrNoMedia = errors.New("card has no media of this kind")
)

// ServiceError wraps errors from the service layer with additional context.
// This allows consumers to differentiate between different types of service
// errors using errors.As instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "add_card", "start_session")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
