package auth

import (
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptCostFactor = 12
)

// HashAPIKey generates a bcrypt hash for the given admin API key secret.
// Use this when provisioning or rotating admin keys before storing the hash.
func HashAPIKey(apiKeySecret string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(apiKeySecret), bcryptCostFactor)
	if err != nil {
		slog.Error("Failed to generate bcrypt hash for API key", slog.Any("error", err))
		return "", fmt.Errorf("failed to hash api key: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckAPIKey compares a plaintext API key secret with a stored bcrypt hash.
// Use this in the manager API authentication middleware.
func CheckAPIKey(apiKeySecret, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(apiKeySecret))
	if err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			slog.Warn("Error comparing API key hash", slog.Any("error", err))
		}
		return false
	}
	return true
}
