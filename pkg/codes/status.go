package codes

// Quote Status Codes
const (
	QuoteStatusPending       = "pending"
	QuoteStatusCalculated    = "calculated"
	QuoteStatusFailedPricing = "failed_pricing"
	QuoteStatusPartiallyPaid = "partially_paid"
	QuoteStatusPaid          = "paid"
	QuoteStatusOverpaid      = "overpaid"
	QuoteStatusCancelled     = "cancelled"
	QuoteStatusExpired       = "expired"
)

// Payment Ledger Status Codes
const (
	PaymentStatusRecorded = "recorded"
	PaymentStatusOverpay  = "overpay"
)

// Payment Gateways supported by the reconciliation intake.
const (
	GatewayPayPal       = "paypal"
	GatewayPayU         = "payu"
	GatewayEsewa        = "esewa"
	GatewayBankTransfer = "bank_transfer"
)

// Email Queue Status Codes
const (
	EmailStatusPending = "pending"
	EmailStatusSending = "sending"
	EmailStatusSent    = "sent"
	EmailStatusFailed  = "failed"
)

// KnownGateway reports whether the gateway identifier is one the platform
// accepts callbacks from.
func KnownGateway(gateway string) bool {
	switch gateway {
	case GatewayPayPal, GatewayPayU, GatewayEsewa, GatewayBankTransfer:
		return true
	default:
		return false
	}
}
