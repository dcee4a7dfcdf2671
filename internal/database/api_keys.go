package database

import "context"

const getAPIKeyByIdentifier = `
SELECT id, identifier, api_key_hash, label, is_active, created_at
FROM admin_api_keys
WHERE identifier = $1 AND is_active = TRUE
`

func (q *Queries) GetAPIKeyByIdentifier(ctx context.Context, identifier string) (AdminAPIKey, error) {
	var k AdminAPIKey
	err := q.db.QueryRow(ctx, getAPIKeyByIdentifier, identifier).Scan(
		&k.ID, &k.Identifier, &k.APIKeyHash, &k.Label, &k.IsActive, &k.CreatedAt,
	)
	return k, err
}

const createAPIKey = `
INSERT INTO admin_api_keys (identifier, api_key_hash, label)
VALUES ($1, $2, $3)
RETURNING id, identifier, api_key_hash, label, is_active, created_at
`

type CreateAPIKeyParams struct {
	Identifier string
	APIKeyHash string
	Label      *string
}

func (q *Queries) CreateAPIKey(ctx context.Context, arg CreateAPIKeyParams) (AdminAPIKey, error) {
	var k AdminAPIKey
	err := q.db.QueryRow(ctx, createAPIKey, arg.Identifier, arg.APIKeyHash, arg.Label).Scan(
		&k.ID, &k.Identifier, &k.APIKeyHash, &k.Label, &k.IsActive, &k.CreatedAt,
	)
	return k, err
}
