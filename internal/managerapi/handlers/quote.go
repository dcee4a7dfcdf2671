package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iwishbag/tariffbox/internal/customs"
	"github.com/iwishbag/tariffbox/internal/database"
	"github.com/iwishbag/tariffbox/internal/logging"
	"github.com/iwishbag/tariffbox/internal/managerapi/handlers/dto"
	"github.com/iwishbag/tariffbox/internal/quotes"
)

type QuoteHandler struct {
	dbQueries database.Querier
	pricer    *quotes.Pricer
	resolver  *customs.Resolver
}

func NewQuoteHandler(q database.Querier, pricer *quotes.Pricer, resolver *customs.Resolver) *QuoteHandler {
	return &QuoteHandler{dbQueries: q, pricer: pricer, resolver: resolver}
}

// GetQuote handles GET /quotes/:id
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	logCtx := logging.ContextWithHandler(c.Request.Context(), "GetQuote")
	id, err := parseID64Param(c)
	if err != nil {
		return
	}
	logCtx = logging.ContextWithQuoteID(logCtx, id)

	quote, err := h.dbQueries.GetQuoteByID(logCtx, id)
	if err != nil {
		handleGetError(c, logCtx, "Quote", err)
		return
	}

	c.JSON(http.StatusOK, mapDBQuoteToResponse(quote))
}

// PriceQuote handles POST /quotes/:id/price
func (h *QuoteHandler) PriceQuote(c *gin.Context) {
	logCtx := logging.ContextWithHandler(c.Request.Context(), "PriceQuote")
	id, err := parseID64Param(c)
	if err != nil {
		return
	}
	logCtx = logging.ContextWithQuoteID(logCtx, id)

	breakdown, err := h.pricer.PriceQuote(logCtx, id)
	if err != nil {
		switch {
		case errors.Is(err, quotes.ErrNoApplicableRate):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "No customs rate applicable for this route; configure a tier rule or country default"})
		case errors.Is(err, quotes.ErrQuoteHasPayments):
			c.JSON(http.StatusConflict, gin.H{"error": "Quote has recorded payments and cannot be repriced"})
		case errors.Is(err, customs.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			slog.ErrorContext(logCtx, "Failed to price quote", slog.Any("error", err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to price quote"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.PriceQuoteResponse{
		QuoteID:           breakdown.QuoteID,
		CustomsPercentage: breakdown.CustomsPercentage,
		VatPercentage:     breakdown.VATPercentage,
		CustomsAmount:     breakdown.CustomsAmount,
		VatAmount:         breakdown.VATAmount,
		GatewayFee:        breakdown.GatewayFee,
		TotalAmount:       breakdown.TotalAmount,
		MatchedRuleID:     breakdown.MatchedRuleID,
		UsedFallback:      breakdown.UsedFallback,
	})
}

// Resolve handles POST /resolve, a direct resolver query for previewing
// which tier a shipment would land in.
func (h *QuoteHandler) Resolve(c *gin.Context) {
	logCtx := logging.ContextWithHandler(c.Request.Context(), "Resolve")

	var req dto.ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	match, err := h.resolver.Resolve(logCtx, req.OriginCountry, req.DestinationCountry, req.DeclaredPrice, req.TotalWeightKg)
	if err != nil {
		switch {
		case errors.Is(err, customs.ErrNoMatch):
			c.JSON(http.StatusOK, dto.ResolveResponse{Matched: false})
		case errors.Is(err, customs.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			slog.ErrorContext(logCtx, "Resolver query failed", slog.Any("error", err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Resolver query failed"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ResolveResponse{
		Matched:           true,
		RuleID:            &match.RuleID,
		RuleName:          &match.RuleName,
		CustomsPercentage: &match.CustomsPercentage,
		VatPercentage:     &match.VATPercentage,
	})
}

func mapDBQuoteToResponse(quote database.Quote) dto.QuoteResponse {
	return dto.QuoteResponse{
		ID:                 quote.ID,
		OriginCountry:      quote.OriginCountry,
		DestinationCountry: quote.DestinationCountry,
		DeclaredPrice:      quote.DeclaredPrice,
		TotalWeightKg:      quote.TotalWeightKg,
		CurrencyCode:       quote.CurrencyCode,
		Gateway:            quote.Gateway,
		CustomsAmount:      quote.CustomsAmount,
		VatAmount:          quote.VatAmount,
		GatewayFeeAmount:   quote.GatewayFeeAmount,
		TotalAmount:        quote.TotalAmount,
		MatchedRuleID:      quote.MatchedRuleID,
		AmountPaid:         quote.AmountPaid,
		Status:             quote.Status,
		CreatedAt:          quote.CreatedAt.Time,
		UpdatedAt:          quote.UpdatedAt.Time,
	}
}
