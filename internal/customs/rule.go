package customs

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// LogicType controls how a rule combines its price and weight constraints.
type LogicType int

const (
	// LogicAND requires both the price and weight constraints to hold.
	LogicAND LogicType = iota
	// LogicOR requires either constraint to hold.
	LogicOR
)

func (l LogicType) String() string {
	switch l {
	case LogicAND:
		return "AND"
	case LogicOR:
		return "OR"
	default:
		return fmt.Sprintf("LogicType(%d)", int(l))
	}
}

// ParseLogicType converts the stored representation into a LogicType.
func ParseLogicType(s string) (LogicType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "AND":
		return LogicAND, nil
	case "OR":
		return LogicOR, nil
	default:
		return 0, fmt.Errorf("%w: unrecognized logic type %q", ErrInvalidInput, s)
	}
}

// TierRule is one customs/VAT band on a shipping route. Nil bounds are
// unbounded on that side; a rule with no bounds at all matches every
// shipment regardless of logic type.
type TierRule struct {
	ID                 int32
	OriginCountry      string
	DestinationCountry string
	RuleName           string
	Description        *string
	PriceMin           *decimal.Decimal
	PriceMax           *decimal.Decimal
	WeightMin          *decimal.Decimal
	WeightMax          *decimal.Decimal
	LogicType          LogicType
	CustomsPercentage  decimal.Decimal
	VATPercentage      decimal.Decimal
	PriorityOrder      int32
	IsActive           bool
}

// Unconstrained reports whether the rule carries no price or weight bounds,
// i.e. it is a route catch-all.
func (r TierRule) Unconstrained() bool {
	return r.PriceMin == nil && r.PriceMax == nil && r.WeightMin == nil && r.WeightMax == nil
}

// Matches evaluates the rule predicate against a declared price and total
// weight. Bounds are inclusive on both ends; an absent bound is vacuously
// satisfied.
func (r TierRule) Matches(declaredPrice, totalWeight decimal.Decimal) (bool, error) {
	priceOK := withinBounds(declaredPrice, r.PriceMin, r.PriceMax)
	weightOK := withinBounds(totalWeight, r.WeightMin, r.WeightMax)

	switch r.LogicType {
	case LogicAND:
		return priceOK && weightOK, nil
	case LogicOR:
		return priceOK || weightOK, nil
	default:
		return false, fmt.Errorf("%w: rule %d has unrecognized logic type %d", ErrInvalidInput, r.ID, int(r.LogicType))
	}
}

func withinBounds(v decimal.Decimal, min, max *decimal.Decimal) bool {
	if min != nil && v.LessThan(*min) {
		return false
	}
	if max != nil && v.GreaterThan(*max) {
		return false
	}
	return true
}
