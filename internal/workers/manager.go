package workers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/iwishbag/tariffbox/internal/config"
	"github.com/iwishbag/tariffbox/internal/customs"
	"github.com/iwishbag/tariffbox/internal/database"
	"github.com/iwishbag/tariffbox/internal/logging"
	"github.com/iwishbag/tariffbox/internal/notification"
)

// Manager owns the background loops: email queue dispatch and route rule
// cache refresh.
type Manager struct {
	dbQueries database.Querier
	notifier  notification.Notifier
	cache     *customs.RouteCache
	cfg       config.WorkerConfig
}

func NewManager(q database.Querier, notifier notification.Notifier, cache *customs.RouteCache, cfg config.WorkerConfig) *Manager {
	return &Manager{dbQueries: q, notifier: notifier, cache: cache, cfg: cfg}
}

// StartEmailDispatcher runs the email queue dispatch loop until ctx is done.
func (m *Manager) StartEmailDispatcher(ctx context.Context) {
	runWorkerLoop(ctx, "EmailDispatch", m.cfg.EmailDispatchInterval, m.cfg.EmailDispatchBatch, m.dispatchEmails)
}

// StartCacheRefresher periodically re-snapshots cached routes so rule edits
// made by other processes converge without a restart.
func (m *Manager) StartCacheRefresher(ctx context.Context) {
	runWorkerLoop(ctx, "RouteCacheRefresh", m.cfg.CacheRefreshInterval, 0, func(ctx context.Context, _ int) (int, error) {
		return m.cache.Refresh(ctx)
	})
}

// dispatchEmails claims a batch of pending emails and pushes them through
// the notifier, recording per-item outcomes.
func (m *Manager) dispatchEmails(ctx context.Context, batchSize int) (int, error) {
	items, err := m.dbQueries.ClaimPendingEmails(ctx, int32(batchSize))
	if err != nil {
		return 0, fmt.Errorf("claiming pending emails: %w", err)
	}
	if len(items) == 0 {
		return 0, nil
	}

	sent := 0
	for _, item := range items {
		logCtx := logging.ContextWithEmailID(ctx, item.ID)

		if err := m.notifier.Send(logCtx, item.Recipient, item.Subject, item.Body); err != nil {
			slog.WarnContext(logCtx, "Email dispatch failed",
				slog.Int("attempt", int(item.Attempts)),
				slog.Any("error", err),
			)
			markErr := m.dbQueries.MarkEmailFailed(logCtx, database.MarkEmailFailedParams{
				ID:          item.ID,
				LastError:   err.Error(),
				MaxAttempts: m.cfg.EmailMaxAttempts,
			})
			if markErr != nil {
				slog.ErrorContext(logCtx, "Failed to record email dispatch failure", slog.Any("error", markErr))
			}
			continue
		}

		if err := m.dbQueries.MarkEmailSent(logCtx, item.ID); err != nil {
			slog.ErrorContext(logCtx, "Failed to mark email as sent", slog.Any("error", err))
			continue
		}
		sent++
	}
	return sent, nil
}
