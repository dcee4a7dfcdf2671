package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/iwishbag/tariffbox/internal/database"
	"github.com/iwishbag/tariffbox/pkg/codes"
)

// ErrNoFeeSchedule signals that no fee schedule row exists for the
// (gateway, currency) pair.
var ErrNoFeeSchedule = errors.New("no gateway fee schedule configured")

var oneHundred = decimal.NewFromInt(100)

// FeeSchedule is the fee shape of one (gateway, currency) pair:
// fee = amount * percent/100 + fixed, clamped to the optional caps.
type FeeSchedule struct {
	PercentFee decimal.Decimal
	FixedFee   decimal.Decimal
	MinFee     *decimal.Decimal
	MaxFee     *decimal.Decimal
}

// FeeFor computes the gateway fee on an amount.
func (s FeeSchedule) FeeFor(amount decimal.Decimal) decimal.Decimal {
	fee := amount.Mul(s.PercentFee).Div(oneHundred).Add(s.FixedFee)
	if s.MinFee != nil && fee.LessThan(*s.MinFee) {
		fee = *s.MinFee
	}
	if s.MaxFee != nil && fee.GreaterThan(*s.MaxFee) {
		fee = *s.MaxFee
	}
	return fee
}

// FeeCalculator resolves gateway fees from the stored schedules.
type FeeCalculator struct {
	dbQueries database.Querier
}

func NewFeeCalculator(q database.Querier) *FeeCalculator {
	return &FeeCalculator{dbQueries: q}
}

// GatewayFee computes the processing fee a gateway charges on an amount.
func (c *FeeCalculator) GatewayFee(ctx context.Context, gateway, currencyCode string, amount decimal.Decimal) (decimal.Decimal, error) {
	if !codes.KnownGateway(gateway) {
		return decimal.Zero, fmt.Errorf("unknown payment gateway %q", gateway)
	}
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("gateway fee amount %s is negative", amount)
	}

	row, err := c.dbQueries.GetGatewayFeeSchedule(ctx, database.GetGatewayFeeScheduleParams{
		Gateway:      gateway,
		CurrencyCode: currencyCode,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("%w: gateway %s, currency %s", ErrNoFeeSchedule, gateway, currencyCode)
		}
		return decimal.Zero, fmt.Errorf("fetching fee schedule: %w", err)
	}

	schedule := FeeSchedule{
		PercentFee: row.PercentFee,
		FixedFee:   row.FixedFee,
		MinFee:     row.MinFee,
		MaxFee:     row.MaxFee,
	}
	return schedule.FeeFor(amount), nil
}
