package quotes

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/iwishbag/tariffbox/internal/customs"
	"github.com/iwishbag/tariffbox/internal/database"
	"github.com/iwishbag/tariffbox/internal/payments"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

// stubQuerier backs the pricer with in-memory data. Unimplemented Querier
// methods panic through the embedded nil interface; the pricer only touches
// the ones overridden here.
type stubQuerier struct {
	database.Querier

	quote        database.Quote
	rules        []database.CustomsTierRule
	countryRates map[string]database.CountryRate
	feeSchedule  *database.GatewayFeeSchedule

	savedCalc *database.UpdateQuoteCalculationParams
}

func (s *stubQuerier) GetQuoteByID(_ context.Context, id int64) (database.Quote, error) {
	if id != s.quote.ID {
		return database.Quote{}, pgx.ErrNoRows
	}
	return s.quote, nil
}

func (s *stubQuerier) ListActiveCustomsRulesForRoute(_ context.Context, arg database.ListActiveCustomsRulesForRouteParams) ([]database.CustomsTierRule, error) {
	var out []database.CustomsTierRule
	for _, r := range s.rules {
		if r.OriginCountry == arg.OriginCountry && r.DestinationCountry == arg.DestinationCountry && r.IsActive {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubQuerier) GetCountryRate(_ context.Context, countryCode string) (database.CountryRate, error) {
	rate, ok := s.countryRates[countryCode]
	if !ok {
		return database.CountryRate{}, pgx.ErrNoRows
	}
	return rate, nil
}

func (s *stubQuerier) GetGatewayFeeSchedule(_ context.Context, arg database.GetGatewayFeeScheduleParams) (database.GatewayFeeSchedule, error) {
	if s.feeSchedule == nil || s.feeSchedule.Gateway != arg.Gateway || s.feeSchedule.CurrencyCode != arg.CurrencyCode {
		return database.GatewayFeeSchedule{}, pgx.ErrNoRows
	}
	return *s.feeSchedule, nil
}

func (s *stubQuerier) UpdateQuoteCalculation(_ context.Context, arg database.UpdateQuoteCalculationParams) (database.Quote, error) {
	s.savedCalc = &arg
	q := s.quote
	q.Status = arg.Status
	return q, nil
}

func newTestPricer(stub *stubQuerier) *Pricer {
	resolver := customs.NewResolver(customs.NewPGRuleSource(stub))
	feeCalc := payments.NewFeeCalculator(stub)
	return NewPricer(stub, resolver, feeCalc)
}

func TestPriceQuote_RuleMatchWithGatewayFee(t *testing.T) {
	stub := &stubQuerier{
		quote: database.Quote{
			ID:                 1,
			OriginCountry:      "US",
			DestinationCountry: "NP",
			DeclaredPrice:      dec(t, "200"),
			TotalWeightKg:      dec(t, "2"),
			CurrencyCode:       "USD",
			Gateway:            "paypal",
			Status:             "pending",
			CustomerEmail:      "buyer@example.com",
		},
		rules: []database.CustomsTierRule{{
			ID:                 7,
			OriginCountry:      "US",
			DestinationCountry: "NP",
			RuleName:           "standard",
			LogicType:          "AND",
			CustomsPercentage:  dec(t, "10"),
			VatPercentage:      dec(t, "13"),
			PriorityOrder:      1,
			IsActive:           true,
		}},
		feeSchedule: &database.GatewayFeeSchedule{
			Gateway:      "paypal",
			CurrencyCode: "USD",
			PercentFee:   dec(t, "2.9"),
			FixedFee:     dec(t, "0.30"),
		},
	}
	pricer := newTestPricer(stub)

	breakdown, err := pricer.PriceQuote(context.Background(), 1)
	if err != nil {
		t.Fatalf("price quote: %v", err)
	}

	// customs = 200 * 10% = 20; vat = (200+20) * 13% = 28.6; subtotal = 248.6
	// fee = 248.6 * 2.9% + 0.30 = 7.5094; total = 256.1094
	if !breakdown.CustomsAmount.Equal(dec(t, "20")) {
		t.Fatalf("customs=%s", breakdown.CustomsAmount)
	}
	if !breakdown.VATAmount.Equal(dec(t, "28.6")) {
		t.Fatalf("vat=%s", breakdown.VATAmount)
	}
	if !breakdown.GatewayFee.Equal(dec(t, "7.5094")) {
		t.Fatalf("fee=%s", breakdown.GatewayFee)
	}
	if !breakdown.TotalAmount.Equal(dec(t, "256.1094")) {
		t.Fatalf("total=%s", breakdown.TotalAmount)
	}
	if breakdown.MatchedRuleID == nil || *breakdown.MatchedRuleID != 7 {
		t.Fatalf("matched_rule_id=%v", breakdown.MatchedRuleID)
	}
	if breakdown.UsedFallback {
		t.Fatal("fallback flagged on a rule match")
	}

	if stub.savedCalc == nil {
		t.Fatal("calculation was not persisted")
	}
	if stub.savedCalc.Status != "calculated" {
		t.Fatalf("persisted status=%q", stub.savedCalc.Status)
	}
	if !stub.savedCalc.TotalAmount.Equal(breakdown.TotalAmount) {
		t.Fatalf("persisted total=%s", stub.savedCalc.TotalAmount)
	}
}

func TestPriceQuote_CountryFallbackOnNoMatch(t *testing.T) {
	stub := &stubQuerier{
		quote: database.Quote{
			ID:                 2,
			OriginCountry:      "US",
			DestinationCountry: "NP",
			DeclaredPrice:      dec(t, "100"),
			TotalWeightKg:      dec(t, "1"),
			CurrencyCode:       "USD",
			Gateway:            "paypal",
			Status:             "pending",
		},
		countryRates: map[string]database.CountryRate{
			"NP": {
				CountryCode:              "NP",
				CountryName:              "Nepal",
				DefaultCustomsPercentage: dec(t, "30"),
				DefaultVatPercentage:     dec(t, "13"),
				CurrencyCode:             "NPR",
			},
		},
	}
	pricer := newTestPricer(stub)

	breakdown, err := pricer.PriceQuote(context.Background(), 2)
	if err != nil {
		t.Fatalf("price quote: %v", err)
	}
	if !breakdown.UsedFallback {
		t.Fatal("expected country fallback")
	}
	if breakdown.MatchedRuleID != nil {
		t.Fatalf("matched_rule_id=%v on fallback", *breakdown.MatchedRuleID)
	}
	// customs = 100 * 30% = 30; vat = 130 * 13% = 16.9; no fee schedule.
	if !breakdown.CustomsAmount.Equal(dec(t, "30")) {
		t.Fatalf("customs=%s", breakdown.CustomsAmount)
	}
	if !breakdown.VATAmount.Equal(dec(t, "16.9")) {
		t.Fatalf("vat=%s", breakdown.VATAmount)
	}
	if !breakdown.GatewayFee.IsZero() {
		t.Fatalf("fee=%s without a schedule", breakdown.GatewayFee)
	}
	if !breakdown.TotalAmount.Equal(dec(t, "146.9")) {
		t.Fatalf("total=%s", breakdown.TotalAmount)
	}
}

func TestPriceQuote_NoRuleNoFallback(t *testing.T) {
	stub := &stubQuerier{
		quote: database.Quote{
			ID:                 3,
			OriginCountry:      "US",
			DestinationCountry: "NP",
			DeclaredPrice:      dec(t, "100"),
			TotalWeightKg:      dec(t, "1"),
			CurrencyCode:       "USD",
			Gateway:            "paypal",
			Status:             "pending",
		},
	}
	pricer := newTestPricer(stub)

	_, err := pricer.PriceQuote(context.Background(), 3)
	if !errors.Is(err, ErrNoApplicableRate) {
		t.Fatalf("expected ErrNoApplicableRate, got %v", err)
	}
	if stub.savedCalc != nil {
		t.Fatal("calculation persisted despite pricing failure")
	}
}

func TestPriceQuote_QuoteWithPaymentsNotRepriced(t *testing.T) {
	total := dec(t, "146.9")
	stub := &stubQuerier{
		quote: database.Quote{
			ID:                 5,
			OriginCountry:      "US",
			DestinationCountry: "NP",
			DeclaredPrice:      dec(t, "100"),
			TotalWeightKg:      dec(t, "1"),
			CurrencyCode:       "USD",
			Gateway:            "paypal",
			TotalAmount:        &total,
			AmountPaid:         dec(t, "50"),
			Status:             "partially_paid",
		},
		rules: []database.CustomsTierRule{{
			ID: 1, OriginCountry: "US", DestinationCountry: "NP", RuleName: "standard",
			LogicType:         "AND",
			CustomsPercentage: dec(t, "10"), VatPercentage: dec(t, "13"),
			PriorityOrder: 1, IsActive: true,
		}},
	}
	pricer := newTestPricer(stub)

	_, err := pricer.PriceQuote(context.Background(), 5)
	if !errors.Is(err, ErrQuoteHasPayments) {
		t.Fatalf("expected ErrQuoteHasPayments, got %v", err)
	}
	if stub.savedCalc != nil {
		t.Fatal("repricing persisted despite recorded payments")
	}
}

func TestPriceQuote_UnknownQuote(t *testing.T) {
	stub := &stubQuerier{quote: database.Quote{ID: 4}}
	pricer := newTestPricer(stub)

	if _, err := pricer.PriceQuote(context.Background(), 99); err == nil {
		t.Fatal("expected error for unknown quote")
	}
}
