package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	DefaultLimit  = 20
	MaxLimit      = 100
	DefaultOffset = 0
)

// parsePagination extracts limit and offset from query params with validation and defaults.
func parsePagination(c *gin.Context) (limit, offset int32) {
	limitStr := c.DefaultQuery("limit", strconv.Itoa(DefaultLimit))
	offsetStr := c.DefaultQuery("offset", strconv.Itoa(DefaultOffset))

	limit64, err := strconv.ParseInt(limitStr, 10, 32)
	if err != nil || limit64 <= 0 {
		limit = DefaultLimit
	} else if limit64 > MaxLimit {
		slog.WarnContext(c.Request.Context(), "Requested limit exceeds maximum, capping.", slog.Int64("requested", limit64), slog.Int("max", MaxLimit))
		limit = MaxLimit
	} else {
		limit = int32(limit64)
	}

	offset64, err := strconv.ParseInt(offsetStr, 10, 32)
	if err != nil || offset64 < 0 {
		offset = DefaultOffset
	} else {
		offset = int32(offset64)
	}

	return limit, offset
}

// parseIDParam parses the :id path parameter as int32, writing the error
// response itself on failure.
func parseIDParam(c *gin.Context) (int32, error) {
	id64, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id parameter"})
		return 0, err
	}
	return int32(id64), nil
}

// parseID64Param parses the :id path parameter as int64 (quote ids).
func parseID64Param(c *gin.Context) (int64, error) {
	id64, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id parameter"})
		return 0, err
	}
	return id64, nil
}

// parseNullStringFilter parses an optional string filter from query params.
func parseNullStringFilter(c *gin.Context, key string) *string {
	valStr := c.Query(key)
	if valStr == "" {
		return nil
	}
	return &valStr
}

// handleGetError writes the standard not-found/internal response for a
// single-row fetch.
func handleGetError(c *gin.Context, logCtx context.Context, entity string, err error) {
	if errors.Is(err, pgx.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": entity + " not found"})
		return
	}
	slog.ErrorContext(logCtx, "Failed to fetch "+entity, slog.Any("error", err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch " + entity})
}

// isUniqueViolationError checks for a Postgres unique violation.
func isUniqueViolationError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// isForeignKeyViolationError checks for a Postgres foreign key violation.
func isForeignKeyViolationError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
