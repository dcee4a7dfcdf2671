package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReconcilePaymentRequest is the normalized body of a gateway payment
// callback.
type ReconcilePaymentRequest struct {
	QuoteID      int64           `json:"quote_id" binding:"required"`
	Gateway      string          `json:"gateway" binding:"required"`
	GatewayTxnID string          `json:"gateway_txn_id" binding:"required,max=128"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	CurrencyCode string          `json:"currency_code" binding:"required,iso4217"`
	Note         *string         `json:"note"`
}

// ReconcilePaymentResponse reports the applied (or previously applied)
// outcome plus the gateway-specific acknowledgement code.
type ReconcilePaymentResponse struct {
	LedgerRef       string          `json:"ledger_ref"`
	QuoteStatus     string          `json:"quote_status"`
	AmountPaid      decimal.Decimal `json:"amount_paid"`
	AlreadyRecorded bool            `json:"already_recorded"`
	AckCode         string          `json:"ack_code"`
}

// PaymentLedgerEntryResponse is one ledger row for audit listings.
type PaymentLedgerEntryResponse struct {
	ID           int64           `json:"id"`
	QuoteID      int64           `json:"quote_id"`
	Gateway      string          `json:"gateway"`
	GatewayTxnID string          `json:"gateway_txn_id"`
	LedgerRef    string          `json:"ledger_ref"`
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currency_code"`
	Status       string          `json:"status"`
	Note         *string         `json:"note,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}
