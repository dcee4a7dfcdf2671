package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomsRuleResponse defines the structure for tier rule data returned by the API.
type CustomsRuleResponse struct {
	ID                 int32            `json:"id"`
	OriginCountry      string           `json:"origin_country"`
	DestinationCountry string           `json:"destination_country"`
	RuleName           string           `json:"rule_name"`
	Description        *string          `json:"description,omitempty"`
	PriceMin           *decimal.Decimal `json:"price_min,omitempty"`
	PriceMax           *decimal.Decimal `json:"price_max,omitempty"`
	WeightMin          *decimal.Decimal `json:"weight_min,omitempty"`
	WeightMax          *decimal.Decimal `json:"weight_max,omitempty"`
	LogicType          string           `json:"logic_type"`
	CustomsPercentage  decimal.Decimal  `json:"customs_percentage"`
	VatPercentage      decimal.Decimal  `json:"vat_percentage"`
	PriorityOrder      int32            `json:"priority_order"`
	IsActive           bool             `json:"is_active"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// CreateCustomsRuleRequest defines the expected JSON body for creating a rule.
type CreateCustomsRuleRequest struct {
	OriginCountry      string           `json:"origin_country" binding:"required,len=2"`
	DestinationCountry string           `json:"destination_country" binding:"required,len=2"`
	RuleName           string           `json:"rule_name" binding:"required,max=100"`
	Description        *string          `json:"description"`
	PriceMin           *decimal.Decimal `json:"price_min"`
	PriceMax           *decimal.Decimal `json:"price_max"`
	WeightMin          *decimal.Decimal `json:"weight_min"`
	WeightMax          *decimal.Decimal `json:"weight_max"`
	LogicType          string           `json:"logic_type" binding:"required,oneof=AND OR"`
	CustomsPercentage  decimal.Decimal  `json:"customs_percentage" binding:"required"`
	VatPercentage      decimal.Decimal  `json:"vat_percentage" binding:"required"`
	PriorityOrder      *int32           `json:"priority_order"` // Optional, defaults to 0
	IsActive           *bool            `json:"is_active"`      // Optional, defaults to true
}

// UpdateCustomsRuleRequest defines the expected JSON body for updating a rule.
// Bounds are always replaced wholesale: omitting a bound clears it.
type UpdateCustomsRuleRequest struct {
	RuleName          *string          `json:"rule_name" binding:"omitempty,max=100"`
	Description       *string          `json:"description"`
	PriceMin          *decimal.Decimal `json:"price_min"`
	PriceMax          *decimal.Decimal `json:"price_max"`
	WeightMin         *decimal.Decimal `json:"weight_min"`
	WeightMax         *decimal.Decimal `json:"weight_max"`
	LogicType         *string          `json:"logic_type" binding:"omitempty,oneof=AND OR"`
	CustomsPercentage *decimal.Decimal `json:"customs_percentage"`
	VatPercentage     *decimal.Decimal `json:"vat_percentage"`
	PriorityOrder     *int32           `json:"priority_order"`
	IsActive          *bool            `json:"is_active"`
}
