package database

import "context"

// Querier is the query surface consumed by services and handlers. Both the
// pool-backed and transaction-backed Queries satisfy it.
type Querier interface {
	// Customs tier rules
	CreateCustomsRule(ctx context.Context, arg CreateCustomsRuleParams) (CustomsTierRule, error)
	GetCustomsRuleByID(ctx context.Context, id int32) (CustomsTierRule, error)
	ListActiveCustomsRulesForRoute(ctx context.Context, arg ListActiveCustomsRulesForRouteParams) ([]CustomsTierRule, error)
	ListCustomsRulesByRoute(ctx context.Context, arg ListCustomsRulesByRouteParams) ([]CustomsTierRule, error)
	CountCustomsRulesByRoute(ctx context.Context, arg CountCustomsRulesByRouteParams) (int64, error)
	UpdateCustomsRule(ctx context.Context, arg UpdateCustomsRuleParams) (CustomsTierRule, error)
	DeleteCustomsRule(ctx context.Context, id int32) error
	MaxPriorityForRoute(ctx context.Context, arg MaxPriorityForRouteParams) (int32, error)

	// Country fallback rates
	GetCountryRate(ctx context.Context, countryCode string) (CountryRate, error)
	ListCountryRates(ctx context.Context, arg ListCountryRatesParams) ([]CountryRate, error)
	CountCountryRates(ctx context.Context) (int64, error)
	UpsertCountryRate(ctx context.Context, arg UpsertCountryRateParams) (CountryRate, error)

	// Quotes
	GetQuoteByID(ctx context.Context, id int64) (Quote, error)
	GetQuoteForUpdate(ctx context.Context, id int64) (Quote, error)
	UpdateQuoteCalculation(ctx context.Context, arg UpdateQuoteCalculationParams) (Quote, error)
	UpdateQuotePaymentState(ctx context.Context, arg UpdateQuotePaymentStateParams) (Quote, error)

	// Payments
	GetGatewayFeeSchedule(ctx context.Context, arg GetGatewayFeeScheduleParams) (GatewayFeeSchedule, error)
	CreatePaymentLedgerEntry(ctx context.Context, arg CreatePaymentLedgerEntryParams) (PaymentLedgerEntry, error)
	GetPaymentLedgerByGatewayTxn(ctx context.Context, arg GetPaymentLedgerByGatewayTxnParams) (PaymentLedgerEntry, error)
	ListPaymentLedgerForQuote(ctx context.Context, quoteID int64) ([]PaymentLedgerEntry, error)

	// Email queue
	EnqueueEmail(ctx context.Context, arg EnqueueEmailParams) (EmailQueueItem, error)
	ClaimPendingEmails(ctx context.Context, limit int32) ([]EmailQueueItem, error)
	MarkEmailSent(ctx context.Context, id int64) error
	MarkEmailFailed(ctx context.Context, arg MarkEmailFailedParams) error

	// Admin API keys
	GetAPIKeyByIdentifier(ctx context.Context, identifier string) (AdminAPIKey, error)
	CreateAPIKey(ctx context.Context, arg CreateAPIKeyParams) (AdminAPIKey, error)
}

var _ Querier = (*Queries)(nil)
