// Package auth issues and validates the login tokens of the single-owner
// API. There are no user accounts: one password hash in the configuration
// guards the whole collection, and a valid token proves the bearer knows it.
package auth

import (
	"context"
	"time"
)

// TokenSubject is the subject claim of every issued token. The API has
// exactly one principal.
const TokenSubject = "owner"

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed JWT access token for the owner.
	// Returns the token string or an error if token generation fails.
	GenerateToken(ctx context.Context) (string, error)

	// ValidateToken validates the provided token string and extracts the claims.
	// Returns the claims if the token is valid, or an error if validation
	// fails (expired, invalid signature, etc.).
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the claims carried by an issued token.
type Claims struct {
	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
