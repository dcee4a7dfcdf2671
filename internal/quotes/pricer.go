package quotes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/iwishbag/tariffbox/internal/customs"
	"github.com/iwishbag/tariffbox/internal/database"
	"github.com/iwishbag/tariffbox/internal/logging"
	"github.com/iwishbag/tariffbox/internal/payments"
	"github.com/iwishbag/tariffbox/pkg/codes"
)

var (
	// ErrNoApplicableRate signals that the route has no matching tier rule
	// and the destination country carries no fallback default either.
	ErrNoApplicableRate = errors.New("no customs rate applicable")

	// ErrQuoteHasPayments signals the quote already has recorded payments.
	// Repricing would reset the payment status while amount_paid persists.
	ErrQuoteHasPayments = errors.New("quote has recorded payments and cannot be repriced")
)

var oneHundred = decimal.NewFromInt(100)

// Breakdown is the priced decomposition of a quote.
type Breakdown struct {
	QuoteID           int64
	DeclaredPrice     decimal.Decimal
	CustomsPercentage decimal.Decimal
	VATPercentage     decimal.Decimal
	CustomsAmount     decimal.Decimal
	VATAmount         decimal.Decimal
	GatewayFee        decimal.Decimal
	TotalAmount       decimal.Decimal
	MatchedRuleID     *int32
	UsedFallback      bool
}

// Pricer runs the quote pricing pipeline: tier resolution (with country
// fallback), customs and VAT arithmetic, gateway fee, persisted breakdown.
type Pricer struct {
	dbQueries database.Querier
	resolver  *customs.Resolver
	fees      *payments.FeeCalculator
}

func NewPricer(q database.Querier, resolver *customs.Resolver, fees *payments.FeeCalculator) *Pricer {
	return &Pricer{dbQueries: q, resolver: resolver, fees: fees}
}

// PriceQuote prices one quote and persists the breakdown. The quote flips
// to calculated on success.
func (p *Pricer) PriceQuote(ctx context.Context, quoteID int64) (*Breakdown, error) {
	logCtx := logging.ContextWithQuoteID(ctx, quoteID)

	quote, err := p.dbQueries.GetQuoteByID(logCtx, quoteID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("quote %d not found", quoteID)
		}
		return nil, fmt.Errorf("failed to load quote %d: %w", quoteID, err)
	}

	if !quote.AmountPaid.IsZero() {
		return nil, fmt.Errorf("%w: quote %d has %s paid", ErrQuoteHasPayments, quote.ID, quote.AmountPaid)
	}

	breakdown, err := p.price(logCtx, quote)
	if err != nil {
		return nil, err
	}

	_, err = p.dbQueries.UpdateQuoteCalculation(logCtx, database.UpdateQuoteCalculationParams{
		ID:               quote.ID,
		CustomsAmount:    breakdown.CustomsAmount,
		VatAmount:        breakdown.VATAmount,
		GatewayFeeAmount: breakdown.GatewayFee,
		TotalAmount:      breakdown.TotalAmount,
		MatchedRuleID:    breakdown.MatchedRuleID,
		Status:           codes.QuoteStatusCalculated,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist quote calculation: %w", err)
	}

	slog.InfoContext(logCtx, "Quote priced",
		slog.String("total", breakdown.TotalAmount.String()),
		slog.Bool("used_fallback", breakdown.UsedFallback),
	)
	return breakdown, nil
}

func (p *Pricer) price(ctx context.Context, quote database.Quote) (*Breakdown, error) {
	customsPct, vatPct, ruleID, usedFallback, err := p.rates(ctx, quote)
	if err != nil {
		return nil, err
	}

	customsAmount := quote.DeclaredPrice.Mul(customsPct).Div(oneHundred)
	vatAmount := quote.DeclaredPrice.Add(customsAmount).Mul(vatPct).Div(oneHundred)
	subtotal := quote.DeclaredPrice.Add(customsAmount).Add(vatAmount)

	gatewayFee, err := p.fees.GatewayFee(ctx, quote.Gateway, quote.CurrencyCode, subtotal)
	if err != nil {
		if errors.Is(err, payments.ErrNoFeeSchedule) {
			gatewayFee = decimal.Zero
		} else {
			return nil, fmt.Errorf("gateway fee calculation failed: %w", err)
		}
	}

	return &Breakdown{
		QuoteID:           quote.ID,
		DeclaredPrice:     quote.DeclaredPrice,
		CustomsPercentage: customsPct,
		VATPercentage:     vatPct,
		CustomsAmount:     customsAmount,
		VATAmount:         vatAmount,
		GatewayFee:        gatewayFee,
		TotalAmount:       subtotal.Add(gatewayFee),
		MatchedRuleID:     ruleID,
		UsedFallback:      usedFallback,
	}, nil
}

// rates resolves the customs/VAT percentages: tier rule first, destination
// country default when no rule matches.
func (p *Pricer) rates(ctx context.Context, quote database.Quote) (customsPct, vatPct decimal.Decimal, ruleID *int32, usedFallback bool, err error) {
	match, err := p.resolver.Resolve(ctx, quote.OriginCountry, quote.DestinationCountry, quote.DeclaredPrice, quote.TotalWeightKg)
	if err == nil {
		return match.CustomsPercentage, match.VATPercentage, &match.RuleID, false, nil
	}
	if !errors.Is(err, customs.ErrNoMatch) {
		return decimal.Zero, decimal.Zero, nil, false, fmt.Errorf("tier resolution failed: %w", err)
	}

	fallback, err := p.dbQueries.GetCountryRate(ctx, quote.DestinationCountry)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, decimal.Zero, nil, false,
				fmt.Errorf("%w: route %s->%s", ErrNoApplicableRate, quote.OriginCountry, quote.DestinationCountry)
		}
		return decimal.Zero, decimal.Zero, nil, false, fmt.Errorf("failed to load country fallback rate: %w", err)
	}

	slog.DebugContext(ctx, "Using country fallback rate",
		slog.String("country", fallback.CountryCode),
		slog.String("customs_pct", fallback.DefaultCustomsPercentage.String()),
	)
	return fallback.DefaultCustomsPercentage, fallback.DefaultVatPercentage, nil, true, nil
}
