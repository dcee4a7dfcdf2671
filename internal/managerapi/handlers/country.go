package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iwishbag/tariffbox/internal/customs"
	"github.com/iwishbag/tariffbox/internal/database"
	"github.com/iwishbag/tariffbox/internal/logging"
	"github.com/iwishbag/tariffbox/internal/managerapi/handlers/dto"
)

type CountryRateHandler struct {
	dbQueries database.Querier
}

func NewCountryRateHandler(q database.Querier) *CountryRateHandler {
	return &CountryRateHandler{dbQueries: q}
}

// ListRates handles GET /country-rates
func (h *CountryRateHandler) ListRates(c *gin.Context) {
	logCtx := logging.ContextWithHandler(c.Request.Context(), "ListCountryRates")
	limit, offset := parsePagination(c)

	total, err := h.dbQueries.CountCountryRates(logCtx)
	if err != nil {
		slog.ErrorContext(logCtx, "Failed to count country rates", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list country rates"})
		return
	}
	if total == 0 {
		c.JSON(http.StatusOK, dto.PaginatedListResponse{
			Data:       []dto.CountryRateResponse{},
			Pagination: dto.PaginationResponse{Total: 0, Limit: limit, Offset: offset},
		})
		return
	}

	rates, err := h.dbQueries.ListCountryRates(logCtx, database.ListCountryRatesParams{Limit: limit, Offset: offset})
	if err != nil {
		slog.ErrorContext(logCtx, "Failed to list country rates", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list country rates"})
		return
	}

	respData := make([]dto.CountryRateResponse, len(rates))
	for i, rate := range rates {
		respData[i] = mapDBCountryRateToResponse(rate)
	}
	c.JSON(http.StatusOK, dto.PaginatedListResponse{
		Data:       respData,
		Pagination: dto.PaginationResponse{Total: total, Limit: limit, Offset: offset},
	})
}

// GetRate handles GET /country-rates/:code
func (h *CountryRateHandler) GetRate(c *gin.Context) {
	logCtx := logging.ContextWithHandler(c.Request.Context(), "GetCountryRate")

	code, err := customs.NormalizeCountryCode(c.Param("code"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid country code"})
		return
	}
	logCtx = logging.ContextWithCountry(logCtx, code)

	rate, err := h.dbQueries.GetCountryRate(logCtx, code)
	if err != nil {
		handleGetError(c, logCtx, "Country Rate", err)
		return
	}

	c.JSON(http.StatusOK, mapDBCountryRateToResponse(rate))
}

// UpsertRate handles PUT /country-rates/:code
func (h *CountryRateHandler) UpsertRate(c *gin.Context) {
	logCtx := logging.ContextWithHandler(c.Request.Context(), "UpsertCountryRate")

	code, err := customs.NormalizeCountryCode(c.Param("code"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid country code"})
		return
	}
	logCtx = logging.ContextWithCountry(logCtx, code)

	var req dto.UpsertCountryRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if req.DefaultCustomsPercentage.IsNegative() || req.DefaultVatPercentage.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Percentages must be non-negative"})
		return
	}

	rate, err := h.dbQueries.UpsertCountryRate(logCtx, database.UpsertCountryRateParams{
		CountryCode:              code,
		CountryName:              req.CountryName,
		DefaultCustomsPercentage: req.DefaultCustomsPercentage,
		DefaultVatPercentage:     req.DefaultVatPercentage,
		CurrencyCode:             req.CurrencyCode,
	})
	if err != nil {
		slog.ErrorContext(logCtx, "Failed to upsert country rate", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upsert country rate"})
		return
	}

	slog.InfoContext(logCtx, "Country rate upserted successfully")
	c.JSON(http.StatusOK, mapDBCountryRateToResponse(rate))
}

func mapDBCountryRateToResponse(rate database.CountryRate) dto.CountryRateResponse {
	return dto.CountryRateResponse{
		CountryCode:              rate.CountryCode,
		CountryName:              rate.CountryName,
		DefaultCustomsPercentage: rate.DefaultCustomsPercentage,
		DefaultVatPercentage:     rate.DefaultVatPercentage,
		CurrencyCode:             rate.CurrencyCode,
		UpdatedAt:                rate.UpdatedAt.Time,
	}
}
