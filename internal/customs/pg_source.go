package customs

import (
	"context"
	"fmt"

	"github.com/iwishbag/tariffbox/internal/database"
)

// PGRuleSource loads route rule sets from Postgres.
type PGRuleSource struct {
	dbQueries database.Querier
}

func NewPGRuleSource(q database.Querier) *PGRuleSource {
	return &PGRuleSource{dbQueries: q}
}

var _ RuleSource = (*PGRuleSource)(nil)

func (s *PGRuleSource) ListActiveRulesForRoute(ctx context.Context, originCountry, destinationCountry string) ([]TierRule, error) {
	rows, err := s.dbQueries.ListActiveCustomsRulesForRoute(ctx, database.ListActiveCustomsRulesForRouteParams{
		OriginCountry:      originCountry,
		DestinationCountry: destinationCountry,
	})
	if err != nil {
		return nil, err
	}

	rules := make([]TierRule, 0, len(rows))
	for _, row := range rows {
		rule, err := tierRuleFromRow(row)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func tierRuleFromRow(row database.CustomsTierRule) (TierRule, error) {
	logicType, err := ParseLogicType(row.LogicType)
	if err != nil {
		return TierRule{}, fmt.Errorf("rule %d: %w", row.ID, err)
	}
	return TierRule{
		ID:                 row.ID,
		OriginCountry:      row.OriginCountry,
		DestinationCountry: row.DestinationCountry,
		RuleName:           row.RuleName,
		Description:        row.Description,
		PriceMin:           row.PriceMin,
		PriceMax:           row.PriceMax,
		WeightMin:          row.WeightMin,
		WeightMax:          row.WeightMax,
		LogicType:          logicType,
		CustomsPercentage:  row.CustomsPercentage,
		VATPercentage:      row.VatPercentage,
		PriorityOrder:      row.PriorityOrder,
		IsActive:           row.IsActive,
	}, nil
}
