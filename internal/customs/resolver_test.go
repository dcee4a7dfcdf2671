package customs

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func decPtr(t *testing.T, s string) *decimal.Decimal {
	t.Helper()
	d := dec(t, s)
	return &d
}

type staticSource struct {
	rules []TierRule
	calls int
}

func (s *staticSource) ListActiveRulesForRoute(_ context.Context, origin, dest string) ([]TierRule, error) {
	s.calls++
	var out []TierRule
	for _, r := range s.rules {
		if r.OriginCountry == origin && r.DestinationCountry == dest && r.IsActive {
			out = append(out, r)
		}
	}
	return out, nil
}

func newTestResolver(rules ...TierRule) *Resolver {
	return NewResolver(&staticSource{rules: rules})
}

func TestResolver_ANDLogic(t *testing.T) {
	rule := TierRule{
		ID: 1, OriginCountry: "US", DestinationCountry: "NP", RuleName: "mid band",
		PriceMin: decPtr(t, "100"), PriceMax: decPtr(t, "500"),
		WeightMin: decPtr(t, "1"), WeightMax: decPtr(t, "5"),
		LogicType:         LogicAND,
		CustomsPercentage: dec(t, "15"), VATPercentage: dec(t, "13"),
		PriorityOrder: 1, IsActive: true,
	}
	r := newTestResolver(rule)

	tests := []struct {
		name      string
		price     string
		weight    string
		wantMatch bool
	}{
		{"both satisfied", "300", "3", true},
		{"weight fails", "300", "10", false},
		{"price fails", "50", "3", false},
		{"both fail", "50", "10", false},
		{"price at lower bound", "100", "1", true},
		{"price at upper bound", "500", "5", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, err := r.Resolve(context.Background(), "US", "NP", dec(t, tt.price), dec(t, tt.weight))
			if tt.wantMatch {
				if err != nil {
					t.Fatalf("expected match, got error %v", err)
				}
				if match.RuleID != 1 {
					t.Fatalf("rule_id=%d", match.RuleID)
				}
				return
			}
			if !errors.Is(err, ErrNoMatch) {
				t.Fatalf("expected ErrNoMatch, got match=%v err=%v", match, err)
			}
		})
	}
}

func TestResolver_ORLogic(t *testing.T) {
	rule := TierRule{
		ID: 2, OriginCountry: "CN", DestinationCountry: "IN", RuleName: "either band",
		PriceMin: decPtr(t, "100"), PriceMax: decPtr(t, "500"),
		WeightMin: decPtr(t, "1"), WeightMax: decPtr(t, "5"),
		LogicType:         LogicOR,
		CustomsPercentage: dec(t, "20"), VATPercentage: dec(t, "18"),
		PriorityOrder: 1, IsActive: true,
	}
	r := newTestResolver(rule)

	// Price alone satisfies.
	if _, err := r.Resolve(context.Background(), "CN", "IN", dec(t, "300"), dec(t, "10")); err != nil {
		t.Fatalf("price alone should match: %v", err)
	}
	// Weight alone satisfies.
	if _, err := r.Resolve(context.Background(), "CN", "IN", dec(t, "50"), dec(t, "3")); err != nil {
		t.Fatalf("weight alone should match: %v", err)
	}
	// Neither satisfies.
	if _, err := r.Resolve(context.Background(), "CN", "IN", dec(t, "50"), dec(t, "10")); !errors.Is(err, ErrNoMatch) {
		t.Fatalf("expected ErrNoMatch, got %v", err)
	}
}

func TestResolver_UnboundedUpper(t *testing.T) {
	rule := TierRule{
		ID: 3, OriginCountry: "US", DestinationCountry: "NP", RuleName: "heavy high value",
		PriceMin:          decPtr(t, "500"),
		WeightMin:         decPtr(t, "5"),
		LogicType:         LogicAND,
		CustomsPercentage: dec(t, "30"), VATPercentage: dec(t, "13"),
		PriorityOrder: 1, IsActive: true,
	}
	r := newTestResolver(rule)

	if _, err := r.Resolve(context.Background(), "US", "NP", dec(t, "1000"), dec(t, "10")); err != nil {
		t.Fatalf("unbounded upper should match: %v", err)
	}
	if _, err := r.Resolve(context.Background(), "US", "NP", dec(t, "1000"), dec(t, "2")); !errors.Is(err, ErrNoMatch) {
		t.Fatalf("weight below min should not match, got %v", err)
	}
}

func TestResolver_PriorityOrderFirstMatchWins(t *testing.T) {
	specific := TierRule{
		ID: 10, OriginCountry: "US", DestinationCountry: "NP", RuleName: "low band",
		PriceMax:          decPtr(t, "200"),
		LogicType:         LogicAND,
		CustomsPercentage: dec(t, "5"), VATPercentage: dec(t, "13"),
		PriorityOrder: 1, IsActive: true,
	}
	catchAll := TierRule{
		ID: 11, OriginCountry: "US", DestinationCountry: "NP", RuleName: "catch all",
		LogicType:         LogicAND,
		CustomsPercentage: dec(t, "25"), VATPercentage: dec(t, "13"),
		PriorityOrder: 100, IsActive: true,
	}

	// Insertion order deliberately reversed; priority must decide.
	r := newTestResolver(catchAll, specific)

	match, err := r.Resolve(context.Background(), "US", "NP", dec(t, "150"), dec(t, "1"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if match.RuleID != 10 {
		t.Fatalf("expected specific rule 10 to win, got %d", match.RuleID)
	}

	// Above the specific band only the catch-all matches.
	match, err = r.Resolve(context.Background(), "US", "NP", dec(t, "900"), dec(t, "1"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if match.RuleID != 11 {
		t.Fatalf("expected catch-all rule 11, got %d", match.RuleID)
	}
}

func TestResolver_PriorityTieKeepsInsertionOrder(t *testing.T) {
	first := TierRule{
		ID: 20, OriginCountry: "US", DestinationCountry: "NP", RuleName: "first",
		LogicType:         LogicAND,
		CustomsPercentage: dec(t, "10"), VATPercentage: dec(t, "0"),
		PriorityOrder: 5, IsActive: true,
	}
	second := first
	second.ID = 21
	second.RuleName = "second"

	r := newTestResolver(first, second)

	match, err := r.Resolve(context.Background(), "US", "NP", dec(t, "1"), dec(t, "1"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if match.RuleID != 20 {
		t.Fatalf("stable tie-break violated: got rule %d", match.RuleID)
	}
}

func TestResolver_InactiveRulesNeverMatch(t *testing.T) {
	rule := TierRule{
		ID: 30, OriginCountry: "US", DestinationCountry: "NP", RuleName: "disabled",
		LogicType:         LogicAND,
		CustomsPercentage: dec(t, "10"), VATPercentage: dec(t, "13"),
		PriorityOrder: 1, IsActive: false,
	}
	r := newTestResolver(rule)

	if _, err := r.Resolve(context.Background(), "US", "NP", dec(t, "100"), dec(t, "1")); !errors.Is(err, ErrNoMatch) {
		t.Fatalf("inactive rule must not match, got %v", err)
	}
}

func TestResolver_UnconstrainedRuleMatchesEverything(t *testing.T) {
	rule := TierRule{
		ID: 40, OriginCountry: "US", DestinationCountry: "NP", RuleName: "catch all",
		LogicType:         LogicOR,
		CustomsPercentage: dec(t, "10"), VATPercentage: dec(t, "13"),
		PriorityOrder: 1, IsActive: true,
	}
	r := newTestResolver(rule)

	for _, pair := range [][2]string{{"0", "0"}, {"1", "9999"}, {"123456", "0.001"}} {
		if _, err := r.Resolve(context.Background(), "US", "NP", dec(t, pair[0]), dec(t, pair[1])); err != nil {
			t.Fatalf("unconstrained rule must match price=%s weight=%s: %v", pair[0], pair[1], err)
		}
	}
}

func TestResolver_EmptyRouteIsNoMatch(t *testing.T) {
	r := newTestResolver()

	_, err := r.Resolve(context.Background(), "US", "NP", dec(t, "100"), dec(t, "1"))
	if !errors.Is(err, ErrNoMatch) {
		t.Fatalf("expected ErrNoMatch for empty route, got %v", err)
	}
}

func TestResolver_InvalidInput(t *testing.T) {
	r := newTestResolver()

	tests := []struct {
		name   string
		origin string
		dest   string
		price  string
		weight string
	}{
		{"negative price", "US", "NP", "-1", "1"},
		{"negative weight", "US", "NP", "1", "-0.5"},
		{"bad origin", "USA", "NP", "1", "1"},
		{"bad destination", "US", "9", "1", "1"},
		{"empty origin", "", "NP", "1", "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Resolve(context.Background(), tt.origin, tt.dest, dec(t, tt.price), dec(t, tt.weight))
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestResolver_CountryCodeNormalization(t *testing.T) {
	rule := TierRule{
		ID: 50, OriginCountry: "US", DestinationCountry: "NP", RuleName: "any",
		LogicType:         LogicAND,
		CustomsPercentage: dec(t, "10"), VATPercentage: dec(t, "13"),
		PriorityOrder: 1, IsActive: true,
	}
	r := newTestResolver(rule)

	match, err := r.Resolve(context.Background(), " us ", "np", dec(t, "1"), dec(t, "1"))
	if err != nil {
		t.Fatalf("lowercase codes should normalize: %v", err)
	}
	if match.RuleID != 50 {
		t.Fatalf("rule_id=%d", match.RuleID)
	}
}

func TestParseLogicType(t *testing.T) {
	if lt, err := ParseLogicType("and"); err != nil || lt != LogicAND {
		t.Fatalf("and => %v, %v", lt, err)
	}
	if lt, err := ParseLogicType(" OR "); err != nil || lt != LogicOR {
		t.Fatalf("OR => %v, %v", lt, err)
	}
	if _, err := ParseLogicType("XOR"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("XOR should be invalid, got %v", err)
	}
}

func TestTierRule_UnknownLogicTypeIsError(t *testing.T) {
	rule := TierRule{ID: 60, LogicType: LogicType(42), IsActive: true}
	if _, err := rule.Matches(decimal.Zero, decimal.Zero); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown logic type, got %v", err)
	}
}
