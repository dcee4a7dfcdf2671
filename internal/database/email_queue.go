package database

import (
	"context"

	"github.com/iwishbag/tariffbox/pkg/codes"
)

const enqueueEmail = `
INSERT INTO email_queue (idempotency_key, recipient, subject, body, status)
VALUES ($1, $2, $3, $4, '` + codes.EmailStatusPending + `')
ON CONFLICT (idempotency_key) DO NOTHING
RETURNING id, idempotency_key, recipient, subject, body, status, attempts, last_error, created_at, sent_at
`

type EnqueueEmailParams struct {
	IdempotencyKey string
	Recipient      string
	Subject        string
	Body           string
}

// EnqueueEmail inserts a pending email. Re-enqueueing the same idempotency
// key is a no-op and returns pgx.ErrNoRows.
func (q *Queries) EnqueueEmail(ctx context.Context, arg EnqueueEmailParams) (EmailQueueItem, error) {
	return scanEmailItem(q.db.QueryRow(ctx, enqueueEmail,
		arg.IdempotencyKey, arg.Recipient, arg.Subject, arg.Body,
	))
}

const claimPendingEmails = `
UPDATE email_queue SET status = '` + codes.EmailStatusSending + `', attempts = attempts + 1
WHERE id IN (
	SELECT id FROM email_queue
	WHERE status = '` + codes.EmailStatusPending + `'
	ORDER BY created_at ASC
	LIMIT $1
	FOR UPDATE SKIP LOCKED
)
RETURNING id, idempotency_key, recipient, subject, body, status, attempts, last_error, created_at, sent_at
`

// ClaimPendingEmails atomically claims a batch of pending emails for
// dispatch. SKIP LOCKED keeps concurrent workers from claiming the same rows.
func (q *Queries) ClaimPendingEmails(ctx context.Context, limit int32) ([]EmailQueueItem, error) {
	rows, err := q.db.Query(ctx, claimPendingEmails, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []EmailQueueItem
	for rows.Next() {
		item, err := scanEmailItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

const markEmailSent = `
UPDATE email_queue SET status = '` + codes.EmailStatusSent + `', sent_at = NOW(), last_error = NULL
WHERE id = $1
`

func (q *Queries) MarkEmailSent(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, markEmailSent, id)
	return err
}

const markEmailFailed = `
UPDATE email_queue SET status = CASE WHEN attempts >= $3 THEN '` + codes.EmailStatusFailed + `' ELSE '` + codes.EmailStatusPending + `' END, last_error = $2
WHERE id = $1
`

type MarkEmailFailedParams struct {
	ID          int64
	LastError   string
	MaxAttempts int32
}

// MarkEmailFailed records a dispatch failure. The item goes back to pending
// until it exhausts its attempts, then sticks as failed.
func (q *Queries) MarkEmailFailed(ctx context.Context, arg MarkEmailFailedParams) error {
	_, err := q.db.Exec(ctx, markEmailFailed, arg.ID, arg.LastError, arg.MaxAttempts)
	return err
}

func scanEmailItem(row scannable) (EmailQueueItem, error) {
	var e EmailQueueItem
	err := row.Scan(
		&e.ID, &e.IdempotencyKey, &e.Recipient, &e.Subject, &e.Body,
		&e.Status, &e.Attempts, &e.LastError, &e.CreatedAt, &e.SentAt,
	)
	return e, err
}
