package database

import (
	"context"

	"github.com/shopspring/decimal"
)

const getCountryRate = `
SELECT country_code, country_name, default_customs_percentage, default_vat_percentage,
	currency_code, updated_at
FROM country_rates
WHERE country_code = $1
`

func (q *Queries) GetCountryRate(ctx context.Context, countryCode string) (CountryRate, error) {
	var c CountryRate
	err := q.db.QueryRow(ctx, getCountryRate, countryCode).Scan(
		&c.CountryCode, &c.CountryName, &c.DefaultCustomsPercentage, &c.DefaultVatPercentage,
		&c.CurrencyCode, &c.UpdatedAt,
	)
	return c, err
}

const listCountryRates = `
SELECT country_code, country_name, default_customs_percentage, default_vat_percentage,
	currency_code, updated_at
FROM country_rates
ORDER BY country_code
LIMIT $1 OFFSET $2
`

type ListCountryRatesParams struct {
	Limit  int32
	Offset int32
}

func (q *Queries) ListCountryRates(ctx context.Context, arg ListCountryRatesParams) ([]CountryRate, error) {
	rows, err := q.db.Query(ctx, listCountryRates, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rates []CountryRate
	for rows.Next() {
		var c CountryRate
		if err := rows.Scan(
			&c.CountryCode, &c.CountryName, &c.DefaultCustomsPercentage, &c.DefaultVatPercentage,
			&c.CurrencyCode, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		rates = append(rates, c)
	}
	return rates, rows.Err()
}

const countCountryRates = `
SELECT COUNT(*) FROM country_rates
`

func (q *Queries) CountCountryRates(ctx context.Context) (int64, error) {
	var total int64
	err := q.db.QueryRow(ctx, countCountryRates).Scan(&total)
	return total, err
}

const upsertCountryRate = `
INSERT INTO country_rates (country_code, country_name, default_customs_percentage, default_vat_percentage, currency_code, updated_at)
VALUES ($1, $2, $3, $4, $5, NOW())
ON CONFLICT (country_code) DO UPDATE SET
	country_name = EXCLUDED.country_name,
	default_customs_percentage = EXCLUDED.default_customs_percentage,
	default_vat_percentage = EXCLUDED.default_vat_percentage,
	currency_code = EXCLUDED.currency_code,
	updated_at = NOW()
RETURNING country_code, country_name, default_customs_percentage, default_vat_percentage,
	currency_code, updated_at
`

type UpsertCountryRateParams struct {
	CountryCode              string
	CountryName              string
	DefaultCustomsPercentage decimal.Decimal
	DefaultVatPercentage     decimal.Decimal
	CurrencyCode             string
}

func (q *Queries) UpsertCountryRate(ctx context.Context, arg UpsertCountryRateParams) (CountryRate, error) {
	var c CountryRate
	err := q.db.QueryRow(ctx, upsertCountryRate,
		arg.CountryCode, arg.CountryName, arg.DefaultCustomsPercentage, arg.DefaultVatPercentage, arg.CurrencyCode,
	).Scan(
		&c.CountryCode, &c.CountryName, &c.DefaultCustomsPercentage, &c.DefaultVatPercentage,
		&c.CurrencyCode, &c.UpdatedAt,
	)
	return c, err
}
