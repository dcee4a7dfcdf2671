package logging

import (
	"context"
	"log/slog"
)

type contextKey string

const (
	HandlerKey      contextKey = "handler"
	QuoteIDKey      contextKey = "quote_id"
	RuleIDKey       contextKey = "rule_id"
	RouteKey        contextKey = "route"
	CountryKey      contextKey = "country"
	PaymentIDKey    contextKey = "payment_id"
	GatewayKey      contextKey = "gateway"
	GatewayTxnIDKey contextKey = "gateway_txn_id"
	LedgerRefKey    contextKey = "ledger_ref"
	EmailIDKey      contextKey = "email_id"
	WorkerIDKey     contextKey = "worker_id"
	CurrencyCodeKey contextKey = "currency_code"
	APIKeyIDKey     contextKey = "api_key_identifier"
)

// ContextHandler wraps another slog.Handler and adds attributes from context.
type ContextHandler struct {
	slog.Handler
}

// NewContextHandler creates a handler that extracts values from context.
func NewContextHandler(h slog.Handler) *ContextHandler {
	return &ContextHandler{Handler: h}
}

// Handle adds context attributes before calling the wrapped handler.
func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if handler, ok := ctx.Value(HandlerKey).(string); ok {
		r.AddAttrs(slog.String("handler", handler))
	}
	if quoteID, ok := ctx.Value(QuoteIDKey).(int64); ok {
		r.AddAttrs(slog.Int64("quote_id", quoteID))
	}
	if ruleID, ok := ctx.Value(RuleIDKey).(int32); ok {
		r.AddAttrs(slog.Int("rule_id", int(ruleID)))
	}
	if route, ok := ctx.Value(RouteKey).(string); ok {
		r.AddAttrs(slog.String("route", route))
	}
	if paymentID, ok := ctx.Value(PaymentIDKey).(int64); ok {
		r.AddAttrs(slog.Int64("payment_id", paymentID))
	}
	if gateway, ok := ctx.Value(GatewayKey).(string); ok {
		r.AddAttrs(slog.String("gateway", gateway))
	}
	if txnID, ok := ctx.Value(GatewayTxnIDKey).(string); ok {
		r.AddAttrs(slog.String("gateway_txn_id", txnID))
	}
	if ledgerRef, ok := ctx.Value(LedgerRefKey).(string); ok {
		r.AddAttrs(slog.String("ledger_ref", ledgerRef))
	}
	if country, ok := ctx.Value(CountryKey).(string); ok {
		r.AddAttrs(slog.String("country", country))
	}
	if emailID, ok := ctx.Value(EmailIDKey).(int64); ok {
		r.AddAttrs(slog.Int64("email_id", emailID))
	}
	if workerID, ok := ctx.Value(WorkerIDKey).(string); ok {
		r.AddAttrs(slog.String("worker_id", workerID))
	}
	if currencyCode, ok := ctx.Value(CurrencyCodeKey).(string); ok {
		r.AddAttrs(slog.String("currency_code", currencyCode))
	}
	if apiKeyID, ok := ctx.Value(APIKeyIDKey).(string); ok {
		r.AddAttrs(slog.String("api_key_identifier", apiKeyID))
	}

	return h.Handler.Handle(ctx, r)
}

// Helper functions to add values to context
func ContextWithHandler(ctx context.Context, handler string) context.Context {
	return context.WithValue(ctx, HandlerKey, handler)
}

func ContextWithQuoteID(ctx context.Context, quoteID int64) context.Context {
	return context.WithValue(ctx, QuoteIDKey, quoteID)
}

func ContextWithRuleID(ctx context.Context, ruleID int32) context.Context {
	return context.WithValue(ctx, RuleIDKey, ruleID)
}

func ContextWithRoute(ctx context.Context, originCountry, destinationCountry string) context.Context {
	return context.WithValue(ctx, RouteKey, originCountry+"->"+destinationCountry)
}

func ContextWithCountry(ctx context.Context, country string) context.Context {
	return context.WithValue(ctx, CountryKey, country)
}

func ContextWithPaymentID(ctx context.Context, paymentID int64) context.Context {
	return context.WithValue(ctx, PaymentIDKey, paymentID)
}

func ContextWithGateway(ctx context.Context, gateway string) context.Context {
	return context.WithValue(ctx, GatewayKey, gateway)
}

func ContextWithGatewayTxnID(ctx context.Context, txnID string) context.Context {
	return context.WithValue(ctx, GatewayTxnIDKey, txnID)
}

func ContextWithLedgerRef(ctx context.Context, ref string) context.Context {
	return context.WithValue(ctx, LedgerRefKey, ref)
}

func ContextWithEmailID(ctx context.Context, emailID int64) context.Context {
	return context.WithValue(ctx, EmailIDKey, emailID)
}

func ContextWithWorkerID(ctx context.Context, workerID string) context.Context {
	return context.WithValue(ctx, WorkerIDKey, workerID)
}

func ContextWithCurrency(ctx context.Context, currencyCode string) context.Context {
	return context.WithValue(ctx, CurrencyCodeKey, currencyCode)
}

func ContextWithAPIKeyIdentifier(ctx context.Context, apiKeyIdentifier string) context.Context {
	return context.WithValue(ctx, APIKeyIDKey, apiKeyIdentifier)
}
