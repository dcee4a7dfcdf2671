package customs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iwishbag/tariffbox/internal/logging"
)

var (
	// ErrNoMatch signals that no active rule on the route matched. It is a
	// valid terminal outcome; the caller applies its fallback rate.
	ErrNoMatch = errors.New("no customs tier rule matched")

	// ErrInvalidInput signals malformed resolver input (negative amounts,
	// bad country codes, unrecognized logic types).
	ErrInvalidInput = errors.New("invalid resolver input")
)

// Match is the outcome of a successful resolution.
type Match struct {
	RuleID            int32
	RuleName          string
	CustomsPercentage decimal.Decimal
	VATPercentage     decimal.Decimal
}

// RuleSource supplies the active, priority-ordered rule set for a route.
// The pg-backed implementation lives in internal/database.
type RuleSource interface {
	ListActiveRulesForRoute(ctx context.Context, originCountry, destinationCountry string) ([]TierRule, error)
}

// Resolver selects the applicable customs/VAT percentages for a shipment
// from the first active matching rule on its route. Resolution is a pure
// read over an immutable per-route snapshot.
type Resolver struct {
	cache *RouteCache
}

func NewResolver(source RuleSource) *Resolver {
	return &Resolver{cache: NewRouteCache(source)}
}

// Cache exposes the underlying snapshot cache so the admin API can
// invalidate routes on rule mutations.
func (r *Resolver) Cache() *RouteCache { return r.cache }

// Resolve returns the customs/VAT percentages of the first active rule, in
// priority order, matching the declared price and total weight on the
// (origin, destination) route. ErrNoMatch when no rule matches.
func (r *Resolver) Resolve(ctx context.Context, originCountry, destinationCountry string, declaredPrice, totalWeight decimal.Decimal) (*Match, error) {
	origin, err := NormalizeCountryCode(originCountry)
	if err != nil {
		return nil, err
	}
	dest, err := NormalizeCountryCode(destinationCountry)
	if err != nil {
		return nil, err
	}
	if declaredPrice.IsNegative() {
		return nil, fmt.Errorf("%w: declared price %s is negative", ErrInvalidInput, declaredPrice)
	}
	if totalWeight.IsNegative() {
		return nil, fmt.Errorf("%w: total weight %s is negative", ErrInvalidInput, totalWeight)
	}

	logCtx := logging.ContextWithRoute(ctx, origin, dest)
	slog.DebugContext(logCtx, "Resolving customs tier",
		slog.String("declared_price", declaredPrice.String()),
		slog.String("total_weight_kg", totalWeight.String()),
	)

	rules, err := r.cache.Rules(logCtx, origin, dest)
	if err != nil {
		return nil, fmt.Errorf("loading rules for route %s->%s: %w", origin, dest, err)
	}

	match, err := FirstMatch(rules, declaredPrice, totalWeight)
	if err != nil {
		return nil, err
	}
	if match == nil {
		slog.DebugContext(logCtx, "No customs tier rule matched",
			slog.Int("candidates", len(rules)),
		)
		return nil, ErrNoMatch
	}

	slog.InfoContext(logging.ContextWithRuleID(logCtx, match.RuleID), "Customs tier resolved",
		slog.String("rule_name", match.RuleName),
		slog.String("customs_pct", match.CustomsPercentage.String()),
		slog.String("vat_pct", match.VATPercentage.String()),
	)
	return match, nil
}

// FirstMatch scans candidates in slice order and returns the first rule
// whose predicate holds, or nil when none matches. Candidates are expected
// to already be filtered to active rules and sorted by priority; SortRules
// produces that ordering.
func FirstMatch(rules []TierRule, declaredPrice, totalWeight decimal.Decimal) (*Match, error) {
	for _, rule := range rules {
		if !rule.IsActive {
			continue
		}
		ok, err := rule.Matches(declaredPrice, totalWeight)
		if err != nil {
			return nil, err
		}
		if ok {
			return &Match{
				RuleID:            rule.ID,
				RuleName:          rule.RuleName,
				CustomsPercentage: rule.CustomsPercentage,
				VATPercentage:     rule.VATPercentage,
			}, nil
		}
	}
	return nil, nil
}

// SortRules orders rules by priority ascending. The sort is stable so rules
// sharing a priority keep their creation order.
func SortRules(rules []TierRule) {
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].PriorityOrder < rules[j].PriorityOrder
	})
}

// NormalizeCountryCode validates and upper-cases an ISO-3166 alpha-2 code.
func NormalizeCountryCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 2 || code[0] < 'A' || code[0] > 'Z' || code[1] < 'A' || code[1] > 'Z' {
		return "", fmt.Errorf("%w: malformed country code %q", ErrInvalidInput, code)
	}
	return code, nil
}
