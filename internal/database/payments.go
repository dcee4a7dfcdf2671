package database

import (
	"context"

	"github.com/shopspring/decimal"
)

const getGatewayFeeSchedule = `
SELECT id, gateway, currency_code, percent_fee, fixed_fee, min_fee, max_fee, updated_at
FROM gateway_fee_schedules
WHERE gateway = $1 AND currency_code = $2
`

type GetGatewayFeeScheduleParams struct {
	Gateway      string
	CurrencyCode string
}

func (q *Queries) GetGatewayFeeSchedule(ctx context.Context, arg GetGatewayFeeScheduleParams) (GatewayFeeSchedule, error) {
	var s GatewayFeeSchedule
	err := q.db.QueryRow(ctx, getGatewayFeeSchedule, arg.Gateway, arg.CurrencyCode).Scan(
		&s.ID, &s.Gateway, &s.CurrencyCode, &s.PercentFee, &s.FixedFee, &s.MinFee, &s.MaxFee, &s.UpdatedAt,
	)
	return s, err
}

const createPaymentLedgerEntry = `
INSERT INTO payment_ledger (quote_id, gateway, gateway_txn_id, ledger_ref, amount, currency_code, status, note)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, quote_id, gateway, gateway_txn_id, ledger_ref, amount, currency_code, status, note, created_at
`

type CreatePaymentLedgerEntryParams struct {
	QuoteID      int64
	Gateway      string
	GatewayTxnID string
	LedgerRef    string
	Amount       decimal.Decimal
	CurrencyCode string
	Status       string
	Note         *string
}

func (q *Queries) CreatePaymentLedgerEntry(ctx context.Context, arg CreatePaymentLedgerEntryParams) (PaymentLedgerEntry, error) {
	return scanLedgerEntry(q.db.QueryRow(ctx, createPaymentLedgerEntry,
		arg.QuoteID, arg.Gateway, arg.GatewayTxnID, arg.LedgerRef,
		arg.Amount, arg.CurrencyCode, arg.Status, arg.Note,
	))
}

const getPaymentLedgerByGatewayTxn = `
SELECT id, quote_id, gateway, gateway_txn_id, ledger_ref, amount, currency_code, status, note, created_at
FROM payment_ledger
WHERE gateway = $1 AND gateway_txn_id = $2
`

type GetPaymentLedgerByGatewayTxnParams struct {
	Gateway      string
	GatewayTxnID string
}

func (q *Queries) GetPaymentLedgerByGatewayTxn(ctx context.Context, arg GetPaymentLedgerByGatewayTxnParams) (PaymentLedgerEntry, error) {
	return scanLedgerEntry(q.db.QueryRow(ctx, getPaymentLedgerByGatewayTxn, arg.Gateway, arg.GatewayTxnID))
}

const listPaymentLedgerForQuote = `
SELECT id, quote_id, gateway, gateway_txn_id, ledger_ref, amount, currency_code, status, note, created_at
FROM payment_ledger
WHERE quote_id = $1
ORDER BY created_at ASC, id ASC
`

func (q *Queries) ListPaymentLedgerForQuote(ctx context.Context, quoteID int64) ([]PaymentLedgerEntry, error) {
	rows, err := q.db.Query(ctx, listPaymentLedgerForQuote, quoteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []PaymentLedgerEntry
	for rows.Next() {
		entry, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func scanLedgerEntry(row scannable) (PaymentLedgerEntry, error) {
	var e PaymentLedgerEntry
	err := row.Scan(
		&e.ID, &e.QuoteID, &e.Gateway, &e.GatewayTxnID, &e.LedgerRef,
		&e.Amount, &e.CurrencyCode, &e.Status, &e.Note, &e.CreatedAt,
	)
	return e, err
}
