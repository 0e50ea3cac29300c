package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/flitskaart/flitskaart-api/internal/config"
)

// DefaultJWTConfig returns a standard configuration for JWT authentication suitable for testing.
// This is the single source of truth for JWT test config.
func DefaultJWTConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:            "test-jwt-secret-that-is-32-chars-long", // At least 32 chars
		TokenLifetimeMinutes: 60,
	}
}

// RequireTestJWTService creates a test JWT service and uses require to handle errors.
// This is the recommended way to create a JWT service in tests using testify.
func RequireTestJWTService(t *testing.T) JWTService {
	t.Helper()
	service, err := NewJWTService(DefaultJWTConfig())
	require.NoError(t, err, "Failed to create test JWT service")
	return service
}

// GenerateAuthHeaderForTesting creates an Authorization header value with
// Bearer prefix containing a valid token, failing the test on error.
func GenerateAuthHeaderForTesting(t *testing.T) string {
	t.Helper()
	token, err := RequireTestJWTService(t).GenerateToken(context.Background())
	require.NoError(t, err, "Failed to generate auth token")
	return "Bearer " + token
}

// HashPasswordForTesting bcrypt-hashes a plaintext password for test configs.
func HashPasswordForTesting(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err, "Failed to hash test password")
	return string(hash)
}
