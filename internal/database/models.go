package database

import (
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

type CustomsTierRule struct {
	ID                 int32
	OriginCountry      string
	DestinationCountry string
	RuleName           string
	Description        *string
	PriceMin           *decimal.Decimal
	PriceMax           *decimal.Decimal
	WeightMin          *decimal.Decimal
	WeightMax          *decimal.Decimal
	LogicType          string
	CustomsPercentage  decimal.Decimal
	VatPercentage      decimal.Decimal
	PriorityOrder      int32
	IsActive           bool
	CreatedAt          pgtype.Timestamptz
	UpdatedAt          pgtype.Timestamptz
}

type CountryRate struct {
	CountryCode              string
	CountryName              string
	DefaultCustomsPercentage decimal.Decimal
	DefaultVatPercentage     decimal.Decimal
	CurrencyCode             string
	UpdatedAt                pgtype.Timestamptz
}

type Quote struct {
	ID                 int64
	OriginCountry      string
	DestinationCountry string
	DeclaredPrice      decimal.Decimal
	TotalWeightKg      decimal.Decimal
	CurrencyCode       string
	Gateway            string
	CustomsAmount      *decimal.Decimal
	VatAmount          *decimal.Decimal
	GatewayFeeAmount   *decimal.Decimal
	TotalAmount        *decimal.Decimal
	MatchedRuleID      *int32
	AmountPaid         decimal.Decimal
	Status             string
	CustomerEmail      string
	CreatedAt          pgtype.Timestamptz
	UpdatedAt          pgtype.Timestamptz
}

type GatewayFeeSchedule struct {
	ID           int32
	Gateway      string
	CurrencyCode string
	PercentFee   decimal.Decimal
	FixedFee     decimal.Decimal
	MinFee       *decimal.Decimal
	MaxFee       *decimal.Decimal
	UpdatedAt    pgtype.Timestamptz
}

type PaymentLedgerEntry struct {
	ID           int64
	QuoteID      int64
	Gateway      string
	GatewayTxnID string
	LedgerRef    string
	Amount       decimal.Decimal
	CurrencyCode string
	Status       string
	Note         *string
	CreatedAt    pgtype.Timestamptz
}

type EmailQueueItem struct {
	ID             int64
	IdempotencyKey string
	Recipient      string
	Subject        string
	Body           string
	Status         string
	Attempts       int32
	LastError      *string
	CreatedAt      pgtype.Timestamptz
	SentAt         pgtype.Timestamptz
}

type AdminAPIKey struct {
	ID         int32
	Identifier string
	APIKeyHash string
	Label      *string
	IsActive   bool
	CreatedAt  pgtype.Timestamptz
}
