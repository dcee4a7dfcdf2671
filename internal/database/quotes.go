package database

import (
	"context"

	"github.com/shopspring/decimal"
)

const getQuoteByID = `
SELECT id, origin_country, destination_country, declared_price, total_weight_kg,
	currency_code, gateway, customs_amount, vat_amount, gateway_fee_amount, total_amount,
	matched_rule_id, amount_paid, status, customer_email, created_at, updated_at
FROM quotes
WHERE id = $1
`

func (q *Queries) GetQuoteByID(ctx context.Context, id int64) (Quote, error) {
	return scanQuote(q.db.QueryRow(ctx, getQuoteByID, id))
}

const getQuoteForUpdate = `
SELECT id, origin_country, destination_country, declared_price, total_weight_kg,
	currency_code, gateway, customs_amount, vat_amount, gateway_fee_amount, total_amount,
	matched_rule_id, amount_paid, status, customer_email, created_at, updated_at
FROM quotes
WHERE id = $1
FOR UPDATE
`

// GetQuoteForUpdate locks the quote row until the surrounding transaction
// ends. Only call on a transactional Queries.
func (q *Queries) GetQuoteForUpdate(ctx context.Context, id int64) (Quote, error) {
	return scanQuote(q.db.QueryRow(ctx, getQuoteForUpdate, id))
}

const updateQuoteCalculation = `
UPDATE quotes SET
	customs_amount = $2,
	vat_amount = $3,
	gateway_fee_amount = $4,
	total_amount = $5,
	matched_rule_id = $6,
	status = $7,
	updated_at = NOW()
WHERE id = $1
RETURNING id, origin_country, destination_country, declared_price, total_weight_kg,
	currency_code, gateway, customs_amount, vat_amount, gateway_fee_amount, total_amount,
	matched_rule_id, amount_paid, status, customer_email, created_at, updated_at
`

type UpdateQuoteCalculationParams struct {
	ID               int64
	CustomsAmount    decimal.Decimal
	VatAmount        decimal.Decimal
	GatewayFeeAmount decimal.Decimal
	TotalAmount      decimal.Decimal
	MatchedRuleID    *int32
	Status           string
}

func (q *Queries) UpdateQuoteCalculation(ctx context.Context, arg UpdateQuoteCalculationParams) (Quote, error) {
	return scanQuote(q.db.QueryRow(ctx, updateQuoteCalculation,
		arg.ID, arg.CustomsAmount, arg.VatAmount, arg.GatewayFeeAmount, arg.TotalAmount,
		arg.MatchedRuleID, arg.Status,
	))
}

const updateQuotePaymentState = `
UPDATE quotes SET
	amount_paid = $2,
	status = $3,
	updated_at = NOW()
WHERE id = $1
RETURNING id, origin_country, destination_country, declared_price, total_weight_kg,
	currency_code, gateway, customs_amount, vat_amount, gateway_fee_amount, total_amount,
	matched_rule_id, amount_paid, status, customer_email, created_at, updated_at
`

type UpdateQuotePaymentStateParams struct {
	ID         int64
	AmountPaid decimal.Decimal
	Status     string
}

func (q *Queries) UpdateQuotePaymentState(ctx context.Context, arg UpdateQuotePaymentStateParams) (Quote, error) {
	return scanQuote(q.db.QueryRow(ctx, updateQuotePaymentState, arg.ID, arg.AmountPaid, arg.Status))
}

func scanQuote(row scannable) (Quote, error) {
	var qt Quote
	err := row.Scan(
		&qt.ID, &qt.OriginCountry, &qt.DestinationCountry, &qt.DeclaredPrice, &qt.TotalWeightKg,
		&qt.CurrencyCode, &qt.Gateway, &qt.CustomsAmount, &qt.VatAmount, &qt.GatewayFeeAmount, &qt.TotalAmount,
		&qt.MatchedRuleID, &qt.AmountPaid, &qt.Status, &qt.CustomerEmail, &qt.CreatedAt, &qt.UpdatedAt,
	)
	return qt, err
}
