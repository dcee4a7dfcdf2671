package database

import (
	"context"

	"github.com/shopspring/decimal"
)

const createCustomsRule = `
INSERT INTO customs_tier_rules (
	origin_country, destination_country, rule_name, description,
	price_min, price_max, weight_min, weight_max,
	logic_type, customs_percentage, vat_percentage, priority_order, is_active
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING id, origin_country, destination_country, rule_name, description,
	price_min, price_max, weight_min, weight_max,
	logic_type, customs_percentage, vat_percentage, priority_order, is_active,
	created_at, updated_at
`

type CreateCustomsRuleParams struct {
	OriginCountry      string
	DestinationCountry string
	RuleName           string
	Description        *string
	PriceMin           *decimal.Decimal
	PriceMax           *decimal.Decimal
	WeightMin          *decimal.Decimal
	WeightMax          *decimal.Decimal
	LogicType          string
	CustomsPercentage  decimal.Decimal
	VatPercentage      decimal.Decimal
	PriorityOrder      int32
	IsActive           bool
}

func (q *Queries) CreateCustomsRule(ctx context.Context, arg CreateCustomsRuleParams) (CustomsTierRule, error) {
	row := q.db.QueryRow(ctx, createCustomsRule,
		arg.OriginCountry, arg.DestinationCountry, arg.RuleName, arg.Description,
		arg.PriceMin, arg.PriceMax, arg.WeightMin, arg.WeightMax,
		arg.LogicType, arg.CustomsPercentage, arg.VatPercentage, arg.PriorityOrder, arg.IsActive,
	)
	return scanCustomsRule(row)
}

const getCustomsRuleByID = `
SELECT id, origin_country, destination_country, rule_name, description,
	price_min, price_max, weight_min, weight_max,
	logic_type, customs_percentage, vat_percentage, priority_order, is_active,
	created_at, updated_at
FROM customs_tier_rules
WHERE id = $1
`

func (q *Queries) GetCustomsRuleByID(ctx context.Context, id int32) (CustomsTierRule, error) {
	return scanCustomsRule(q.db.QueryRow(ctx, getCustomsRuleByID, id))
}

const listActiveCustomsRulesForRoute = `
SELECT id, origin_country, destination_country, rule_name, description,
	price_min, price_max, weight_min, weight_max,
	logic_type, customs_percentage, vat_percentage, priority_order, is_active,
	created_at, updated_at
FROM customs_tier_rules
WHERE origin_country = $1 AND destination_country = $2 AND is_active = TRUE
ORDER BY priority_order ASC, id ASC
`

type ListActiveCustomsRulesForRouteParams struct {
	OriginCountry      string
	DestinationCountry string
}

func (q *Queries) ListActiveCustomsRulesForRoute(ctx context.Context, arg ListActiveCustomsRulesForRouteParams) ([]CustomsTierRule, error) {
	rows, err := q.db.Query(ctx, listActiveCustomsRulesForRoute, arg.OriginCountry, arg.DestinationCountry)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []CustomsTierRule
	for rows.Next() {
		rule, err := scanCustomsRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

const listCustomsRulesByRoute = `
SELECT id, origin_country, destination_country, rule_name, description,
	price_min, price_max, weight_min, weight_max,
	logic_type, customs_percentage, vat_percentage, priority_order, is_active,
	created_at, updated_at
FROM customs_tier_rules
WHERE ($1::text IS NULL OR origin_country = $1)
  AND ($2::text IS NULL OR destination_country = $2)
ORDER BY origin_country, destination_country, priority_order ASC, id ASC
LIMIT $3 OFFSET $4
`

type ListCustomsRulesByRouteParams struct {
	OriginCountry      *string
	DestinationCountry *string
	Limit              int32
	Offset             int32
}

func (q *Queries) ListCustomsRulesByRoute(ctx context.Context, arg ListCustomsRulesByRouteParams) ([]CustomsTierRule, error) {
	rows, err := q.db.Query(ctx, listCustomsRulesByRoute,
		arg.OriginCountry, arg.DestinationCountry, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []CustomsTierRule
	for rows.Next() {
		rule, err := scanCustomsRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

const countCustomsRulesByRoute = `
SELECT COUNT(*) FROM customs_tier_rules
WHERE ($1::text IS NULL OR origin_country = $1)
  AND ($2::text IS NULL OR destination_country = $2)
`

type CountCustomsRulesByRouteParams struct {
	OriginCountry      *string
	DestinationCountry *string
}

func (q *Queries) CountCustomsRulesByRoute(ctx context.Context, arg CountCustomsRulesByRouteParams) (int64, error) {
	var total int64
	err := q.db.QueryRow(ctx, countCustomsRulesByRoute, arg.OriginCountry, arg.DestinationCountry).Scan(&total)
	return total, err
}

const updateCustomsRule = `
UPDATE customs_tier_rules SET
	rule_name = COALESCE($2, rule_name),
	description = COALESCE($3, description),
	price_min = $4,
	price_max = $5,
	weight_min = $6,
	weight_max = $7,
	logic_type = COALESCE($8, logic_type),
	customs_percentage = COALESCE($9, customs_percentage),
	vat_percentage = COALESCE($10, vat_percentage),
	priority_order = COALESCE($11, priority_order),
	is_active = COALESCE($12, is_active),
	updated_at = NOW()
WHERE id = $1
RETURNING id, origin_country, destination_country, rule_name, description,
	price_min, price_max, weight_min, weight_max,
	logic_type, customs_percentage, vat_percentage, priority_order, is_active,
	created_at, updated_at
`

type UpdateCustomsRuleParams struct {
	ID                int32
	RuleName          *string
	Description       *string
	PriceMin          *decimal.Decimal
	PriceMax          *decimal.Decimal
	WeightMin         *decimal.Decimal
	WeightMax         *decimal.Decimal
	LogicType         *string
	CustomsPercentage *decimal.Decimal
	VatPercentage     *decimal.Decimal
	PriorityOrder     *int32
	IsActive          *bool
}

func (q *Queries) UpdateCustomsRule(ctx context.Context, arg UpdateCustomsRuleParams) (CustomsTierRule, error) {
	row := q.db.QueryRow(ctx, updateCustomsRule,
		arg.ID, arg.RuleName, arg.Description,
		arg.PriceMin, arg.PriceMax, arg.WeightMin, arg.WeightMax,
		arg.LogicType, arg.CustomsPercentage, arg.VatPercentage, arg.PriorityOrder, arg.IsActive,
	)
	return scanCustomsRule(row)
}

const deleteCustomsRule = `
DELETE FROM customs_tier_rules WHERE id = $1
`

func (q *Queries) DeleteCustomsRule(ctx context.Context, id int32) error {
	_, err := q.db.Exec(ctx, deleteCustomsRule, id)
	return err
}

const maxPriorityForRoute = `
SELECT COALESCE(MAX(priority_order), -1) FROM customs_tier_rules
WHERE origin_country = $1 AND destination_country = $2 AND is_active = TRUE
`

type MaxPriorityForRouteParams struct {
	OriginCountry      string
	DestinationCountry string
}

// MaxPriorityForRoute returns the largest (last-evaluated) priority among a
// route's active rules, or -1 when the route has none.
func (q *Queries) MaxPriorityForRoute(ctx context.Context, arg MaxPriorityForRouteParams) (int32, error) {
	var max int32
	err := q.db.QueryRow(ctx, maxPriorityForRoute, arg.OriginCountry, arg.DestinationCountry).Scan(&max)
	return max, err
}

type scannable interface {
	Scan(dest ...any) error
}

func scanCustomsRule(row scannable) (CustomsTierRule, error) {
	var r CustomsTierRule
	err := row.Scan(
		&r.ID, &r.OriginCountry, &r.DestinationCountry, &r.RuleName, &r.Description,
		&r.PriceMin, &r.PriceMax, &r.WeightMin, &r.WeightMax,
		&r.LogicType, &r.CustomsPercentage, &r.VatPercentage, &r.PriorityOrder, &r.IsActive,
		&r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}
