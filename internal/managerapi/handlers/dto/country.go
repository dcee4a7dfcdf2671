package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CountryRateResponse defines the fallback rate data returned by the API.
type CountryRateResponse struct {
	CountryCode              string          `json:"country_code"`
	CountryName              string          `json:"country_name"`
	DefaultCustomsPercentage decimal.Decimal `json:"default_customs_percentage"`
	DefaultVatPercentage     decimal.Decimal `json:"default_vat_percentage"`
	CurrencyCode             string          `json:"currency_code"`
	UpdatedAt                time.Time       `json:"updated_at"`
}

// UpsertCountryRateRequest defines the expected JSON body for setting a
// country's fallback rates.
type UpsertCountryRateRequest struct {
	CountryName              string          `json:"country_name" binding:"required,max=100"`
	DefaultCustomsPercentage decimal.Decimal `json:"default_customs_percentage"`
	DefaultVatPercentage     decimal.Decimal `json:"default_vat_percentage"`
	CurrencyCode             string          `json:"currency_code" binding:"required,iso4217"`
}
