package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestContextHandlerLiftsContextKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewContextHandler(slog.NewJSONHandler(&buf, nil)))

	ctx := ContextWithHandler(context.Background(), "ReconcilePayment")
	ctx = ContextWithQuoteID(ctx, 42)
	ctx = ContextWithRuleID(ctx, 7)
	ctx = ContextWithRoute(ctx, "US", "NP")
	ctx = ContextWithCountry(ctx, "NP")
	ctx = ContextWithPaymentID(ctx, 99)
	ctx = ContextWithGateway(ctx, "paypal")
	ctx = ContextWithGatewayTxnID(ctx, "TXN-1")
	ctx = ContextWithLedgerRef(ctx, "ref-1")
	ctx = ContextWithEmailID(ctx, 5)
	ctx = ContextWithWorkerID(ctx, "EmailDispatch")
	ctx = ContextWithCurrency(ctx, "USD")
	ctx = ContextWithAPIKeyIdentifier(ctx, "ops-key")

	logger.InfoContext(ctx, "hello")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}

	want := map[string]any{
		"handler":            "ReconcilePayment",
		"quote_id":           float64(42),
		"rule_id":            float64(7),
		"route":              "US->NP",
		"country":            "NP",
		"payment_id":         float64(99),
		"gateway":            "paypal",
		"gateway_txn_id":     "TXN-1",
		"ledger_ref":         "ref-1",
		"email_id":           float64(5),
		"worker_id":          "EmailDispatch",
		"currency_code":      "USD",
		"api_key_identifier": "ops-key",
	}
	for key, val := range want {
		got, ok := record[key]
		if !ok {
			t.Fatalf("attr %q missing from log record", key)
		}
		if got != val {
			t.Fatalf("attr %q = %v, want %v", key, got, val)
		}
	}
}

func TestContextHandlerIgnoresUnsetKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewContextHandler(slog.NewJSONHandler(&buf, nil)))

	logger.InfoContext(context.Background(), "hello")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	for _, key := range []string{"handler", "quote_id", "gateway", "ledger_ref", "email_id"} {
		if _, ok := record[key]; ok {
			t.Fatalf("attr %q emitted without a context value", key)
		}
	}
}
