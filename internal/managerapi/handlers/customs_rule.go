package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/iwishbag/tariffbox/internal/customs"
	"github.com/iwishbag/tariffbox/internal/database"
	"github.com/iwishbag/tariffbox/internal/logging"
	"github.com/iwishbag/tariffbox/internal/managerapi/handlers/dto"
)

type CustomsRuleHandler struct {
	dbQueries database.Querier
	cache     *customs.RouteCache
}

func NewCustomsRuleHandler(q database.Querier, cache *customs.RouteCache) *CustomsRuleHandler {
	return &CustomsRuleHandler{dbQueries: q, cache: cache}
}

// CreateRule handles POST /customs-rules
func (h *CustomsRuleHandler) CreateRule(c *gin.Context) {
	logCtx := logging.ContextWithHandler(c.Request.Context(), "CreateCustomsRule")
	var req dto.CreateCustomsRuleRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	origin, err := customs.NormalizeCountryCode(req.OriginCountry)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid origin_country"})
		return
	}
	dest, err := customs.NormalizeCountryCode(req.DestinationCountry)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid destination_country"})
		return
	}
	if msg, ok := validateBounds(req.PriceMin, req.PriceMax, req.WeightMin, req.WeightMax); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	if req.CustomsPercentage.IsNegative() || req.VatPercentage.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Percentages must be non-negative"})
		return
	}

	logCtx = logging.ContextWithRoute(logCtx, origin, dest)

	priority := int32(0)
	if req.PriorityOrder != nil {
		priority = *req.PriorityOrder
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	// An unconstrained rule is a route catch-all. It masks every tier the
	// resolver would evaluate after it, so it belongs last (largest
	// priority_order). Data authoring concern, so a warning, not a rejection.
	unconstrained := req.PriceMin == nil && req.PriceMax == nil && req.WeightMin == nil && req.WeightMax == nil
	if unconstrained && isActive {
		maxPriority, err := h.dbQueries.MaxPriorityForRoute(logCtx, database.MaxPriorityForRouteParams{
			OriginCountry:      origin,
			DestinationCountry: dest,
		})
		if err == nil && maxPriority >= 0 && priority <= maxPriority {
			slog.WarnContext(logCtx, "Catch-all rule will be evaluated before narrower tiers on this route",
				slog.Int("priority_order", int(priority)),
				slog.Int("route_max_priority", int(maxPriority)),
			)
		}
	}

	params := database.CreateCustomsRuleParams{
		OriginCountry:      origin,
		DestinationCountry: dest,
		RuleName:           req.RuleName,
		Description:        req.Description,
		PriceMin:           req.PriceMin,
		PriceMax:           req.PriceMax,
		WeightMin:          req.WeightMin,
		WeightMax:          req.WeightMax,
		LogicType:          req.LogicType,
		CustomsPercentage:  req.CustomsPercentage,
		VatPercentage:      req.VatPercentage,
		PriorityOrder:      priority,
		IsActive:           isActive,
	}

	createdRule, err := h.dbQueries.CreateCustomsRule(logCtx, params)
	if err != nil {
		if isUniqueViolationError(err) {
			slog.WarnContext(logCtx, "Customs rule creation failed: duplicate rule name on route", slog.String("rule_name", req.RuleName))
			c.JSON(http.StatusConflict, gin.H{"error": "A rule with this name already exists on the route"})
			return
		}
		slog.ErrorContext(logCtx, "Failed to create customs rule", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create customs rule"})
		return
	}

	h.cache.Invalidate(origin, dest)

	slog.InfoContext(logging.ContextWithRuleID(logCtx, createdRule.ID), "Customs rule created successfully")
	c.JSON(http.StatusCreated, mapDBCustomsRuleToResponse(createdRule))
}

// ListRules handles GET /customs-rules (optionally filtered by route)
func (h *CustomsRuleHandler) ListRules(c *gin.Context) {
	logCtx := logging.ContextWithHandler(c.Request.Context(), "ListCustomsRules")
	limit, offset := parsePagination(c)

	originFilter := parseNullStringFilter(c, "origin")
	destFilter := parseNullStringFilter(c, "destination")

	total, err := h.dbQueries.CountCustomsRulesByRoute(logCtx, database.CountCustomsRulesByRouteParams{
		OriginCountry:      originFilter,
		DestinationCountry: destFilter,
	})
	if err != nil {
		slog.ErrorContext(logCtx, "Failed to count customs rules", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list customs rules"})
		return
	}
	if total == 0 {
		c.JSON(http.StatusOK, dto.PaginatedListResponse{
			Data:       []dto.CustomsRuleResponse{},
			Pagination: dto.PaginationResponse{Total: 0, Limit: limit, Offset: offset},
		})
		return
	}

	rules, err := h.dbQueries.ListCustomsRulesByRoute(logCtx, database.ListCustomsRulesByRouteParams{
		OriginCountry:      originFilter,
		DestinationCountry: destFilter,
		Limit:              limit,
		Offset:             offset,
	})
	if err != nil {
		slog.ErrorContext(logCtx, "Failed to list customs rules", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list customs rules"})
		return
	}

	respData := make([]dto.CustomsRuleResponse, len(rules))
	for i, rule := range rules {
		respData[i] = mapDBCustomsRuleToResponse(rule)
	}
	c.JSON(http.StatusOK, dto.PaginatedListResponse{
		Data:       respData,
		Pagination: dto.PaginationResponse{Total: total, Limit: limit, Offset: offset},
	})
}

// GetRule handles GET /customs-rules/:id
func (h *CustomsRuleHandler) GetRule(c *gin.Context) {
	logCtx := logging.ContextWithHandler(c.Request.Context(), "GetCustomsRule")
	id, err := parseIDParam(c)
	if err != nil {
		return
	}
	logCtx = logging.ContextWithRuleID(logCtx, id)

	rule, err := h.dbQueries.GetCustomsRuleByID(logCtx, id)
	if err != nil {
		handleGetError(c, logCtx, "Customs Rule", err)
		return
	}

	c.JSON(http.StatusOK, mapDBCustomsRuleToResponse(rule))
}

// UpdateRule handles PUT /customs-rules/:id
func (h *CustomsRuleHandler) UpdateRule(c *gin.Context) {
	logCtx := logging.ContextWithHandler(c.Request.Context(), "UpdateCustomsRule")
	id, err := parseIDParam(c)
	if err != nil {
		return
	}
	logCtx = logging.ContextWithRuleID(logCtx, id)

	var req dto.UpdateCustomsRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if msg, ok := validateBounds(req.PriceMin, req.PriceMax, req.WeightMin, req.WeightMax); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	params := database.UpdateCustomsRuleParams{
		ID:                id,
		RuleName:          req.RuleName,
		Description:       req.Description,
		PriceMin:          req.PriceMin,
		PriceMax:          req.PriceMax,
		WeightMin:         req.WeightMin,
		WeightMax:         req.WeightMax,
		LogicType:         req.LogicType,
		CustomsPercentage: req.CustomsPercentage,
		VatPercentage:     req.VatPercentage,
		PriorityOrder:     req.PriorityOrder,
		IsActive:          req.IsActive,
	}

	updatedRule, err := h.dbQueries.UpdateCustomsRule(logCtx, params)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Customs Rule not found"})
		} else if isUniqueViolationError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "A rule with this name already exists on the route"})
		} else {
			slog.ErrorContext(logCtx, "Failed to update customs rule", slog.Any("error", err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update customs rule"})
		}
		return
	}

	h.cache.Invalidate(updatedRule.OriginCountry, updatedRule.DestinationCountry)

	slog.InfoContext(logCtx, "Customs rule updated successfully")
	c.JSON(http.StatusOK, mapDBCustomsRuleToResponse(updatedRule))
}

// DeleteRule handles DELETE /customs-rules/:id
func (h *CustomsRuleHandler) DeleteRule(c *gin.Context) {
	logCtx := logging.ContextWithHandler(c.Request.Context(), "DeleteCustomsRule")
	id, err := parseIDParam(c)
	if err != nil {
		return
	}
	logCtx = logging.ContextWithRuleID(logCtx, id)

	// Fetch first so the route snapshot can be invalidated after deletion.
	rule, err := h.dbQueries.GetCustomsRuleByID(logCtx, id)
	if err != nil {
		handleGetError(c, logCtx, "Customs Rule", err)
		return
	}

	if err := h.dbQueries.DeleteCustomsRule(logCtx, id); err != nil {
		slog.ErrorContext(logCtx, "Failed to delete customs rule", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete customs rule"})
		return
	}

	h.cache.Invalidate(rule.OriginCountry, rule.DestinationCountry)

	slog.InfoContext(logCtx, "Customs rule deleted successfully")
	c.Status(http.StatusNoContent)
}

// --- Helpers ---

// validateBounds rejects inverted price/weight ranges. The matcher itself
// never enforces this; it is a data-authoring guard at the write path.
func validateBounds(priceMin, priceMax, weightMin, weightMax *decimal.Decimal) (string, bool) {
	if priceMin != nil && priceMax != nil && priceMin.GreaterThan(*priceMax) {
		return "price_min must not exceed price_max", false
	}
	if weightMin != nil && weightMax != nil && weightMin.GreaterThan(*weightMax) {
		return "weight_min must not exceed weight_max", false
	}
	for _, bound := range []*decimal.Decimal{priceMin, priceMax, weightMin, weightMax} {
		if bound != nil && bound.IsNegative() {
			return "bounds must be non-negative", false
		}
	}
	return "", true
}

func mapDBCustomsRuleToResponse(rule database.CustomsTierRule) dto.CustomsRuleResponse {
	return dto.CustomsRuleResponse{
		ID:                 rule.ID,
		OriginCountry:      rule.OriginCountry,
		DestinationCountry: rule.DestinationCountry,
		RuleName:           rule.RuleName,
		Description:        rule.Description,
		PriceMin:           rule.PriceMin,
		PriceMax:           rule.PriceMax,
		WeightMin:          rule.WeightMin,
		WeightMax:          rule.WeightMax,
		LogicType:          rule.LogicType,
		CustomsPercentage:  rule.CustomsPercentage,
		VatPercentage:      rule.VatPercentage,
		PriorityOrder:      rule.PriorityOrder,
		IsActive:           rule.IsActive,
		CreatedAt:          rule.CreatedAt.Time,
		UpdatedAt:          rule.UpdatedAt.Time,
	}
}
