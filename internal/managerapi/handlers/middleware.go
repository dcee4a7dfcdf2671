package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/iwishbag/tariffbox/internal/auth"
	"github.com/iwishbag/tariffbox/internal/database"
	"github.com/iwishbag/tariffbox/internal/logging"
)

// APIKeyAuth authenticates manager API requests with an X-API-Key header of
// the form "<identifier>.<secret>". The identifier locates the stored bcrypt
// hash; the secret is compared against it.
func APIKeyAuth(q database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-API-Key")
		identifier, secret, found := strings.Cut(raw, ".")
		if !found || identifier == "" || secret == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or malformed X-API-Key header"})
			return
		}

		logCtx := logging.ContextWithAPIKeyIdentifier(c.Request.Context(), identifier)

		key, err := q.GetAPIKeyByIdentifier(logCtx, identifier)
		if err != nil {
			if !errors.Is(err, pgx.ErrNoRows) {
				slog.ErrorContext(logCtx, "Failed to look up API key", slog.Any("error", err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Authentication unavailable"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
			return
		}

		if !auth.CheckAPIKey(secret, key.APIKeyHash) {
			slog.WarnContext(logCtx, "API key secret mismatch")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
			return
		}

		c.Request = c.Request.WithContext(logCtx)
		c.Next()
	}
}
