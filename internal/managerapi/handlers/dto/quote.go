package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuoteResponse defines the quote data returned by the API.
type QuoteResponse struct {
	ID                 int64            `json:"id"`
	OriginCountry      string           `json:"origin_country"`
	DestinationCountry string           `json:"destination_country"`
	DeclaredPrice      decimal.Decimal  `json:"declared_price"`
	TotalWeightKg      decimal.Decimal  `json:"total_weight_kg"`
	CurrencyCode       string           `json:"currency_code"`
	Gateway            string           `json:"gateway"`
	CustomsAmount      *decimal.Decimal `json:"customs_amount,omitempty"`
	VatAmount          *decimal.Decimal `json:"vat_amount,omitempty"`
	GatewayFeeAmount   *decimal.Decimal `json:"gateway_fee_amount,omitempty"`
	TotalAmount        *decimal.Decimal `json:"total_amount,omitempty"`
	MatchedRuleID      *int32           `json:"matched_rule_id,omitempty"`
	AmountPaid         decimal.Decimal  `json:"amount_paid"`
	Status             string           `json:"status"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// PriceQuoteResponse is the breakdown returned by POST /quotes/:id/price.
type PriceQuoteResponse struct {
	QuoteID           int64           `json:"quote_id"`
	CustomsPercentage decimal.Decimal `json:"customs_percentage"`
	VatPercentage     decimal.Decimal `json:"vat_percentage"`
	CustomsAmount     decimal.Decimal `json:"customs_amount"`
	VatAmount         decimal.Decimal `json:"vat_amount"`
	GatewayFee        decimal.Decimal `json:"gateway_fee"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	MatchedRuleID     *int32          `json:"matched_rule_id,omitempty"`
	UsedFallback      bool            `json:"used_fallback"`
}

// ResolveRequest defines the body for a direct resolver query.
type ResolveRequest struct {
	OriginCountry      string          `json:"origin_country" binding:"required,len=2"`
	DestinationCountry string          `json:"destination_country" binding:"required,len=2"`
	DeclaredPrice      decimal.Decimal `json:"declared_price"`
	TotalWeightKg      decimal.Decimal `json:"total_weight_kg"`
}

// ResolveResponse carries the matched tier, or matched=false when the route
// has no applicable rule and the caller must use the country fallback.
type ResolveResponse struct {
	Matched           bool             `json:"matched"`
	RuleID            *int32           `json:"rule_id,omitempty"`
	RuleName          *string          `json:"rule_name,omitempty"`
	CustomsPercentage *decimal.Decimal `json:"customs_percentage,omitempty"`
	VatPercentage     *decimal.Decimal `json:"vat_percentage,omitempty"`
}
