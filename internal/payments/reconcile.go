package payments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/iwishbag/tariffbox/internal/database"
	"github.com/iwishbag/tariffbox/internal/logging"
	"github.com/iwishbag/tariffbox/pkg/codes"
)

var (
	// ErrQuoteNotPayable signals the quote is not in a state that accepts
	// payments (not yet priced, cancelled, expired).
	ErrQuoteNotPayable = errors.New("quote is not payable")

	// ErrCurrencyMismatch signals the gateway paid in a currency other than
	// the quote's.
	ErrCurrencyMismatch = errors.New("payment currency does not match quote currency")
)

// ReconcileRequest is one gateway payment callback to apply.
type ReconcileRequest struct {
	QuoteID      int64
	Gateway      string
	GatewayTxnID string
	Amount       decimal.Decimal
	CurrencyCode string
	Note         *string
}

// ReconcileResult reports the ledger outcome and the quote's payment state
// after the callback was applied (or found already applied).
type ReconcileResult struct {
	LedgerRef       string
	QuoteStatus     string
	AmountPaid      decimal.Decimal
	AlreadyRecorded bool
}

// TxBeginner begins pgx transactions. *pgxpool.Pool satisfies it.
type TxBeginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// Reconciler applies gateway payment callbacks atomically: ledger insert,
// quote payment-state transition and confirmation email enqueue happen in
// one transaction. Retried callbacks (same gateway transaction id) are
// detected by the ledger's uniqueness constraint and returned as-is instead
// of being applied twice.
type Reconciler struct {
	db        TxBeginner
	dbQueries database.Querier
}

func NewReconciler(db TxBeginner, queries database.Querier) *Reconciler {
	return &Reconciler{db: db, dbQueries: queries}
}

// RecordGatewayPayment applies one payment callback.
func (r *Reconciler) RecordGatewayPayment(ctx context.Context, req ReconcileRequest) (*ReconcileResult, error) {
	logCtx := logging.ContextWithQuoteID(ctx, req.QuoteID)
	logCtx = logging.ContextWithGateway(logCtx, req.Gateway)
	logCtx = logging.ContextWithGatewayTxnID(logCtx, req.GatewayTxnID)

	if !codes.KnownGateway(req.Gateway) {
		return nil, fmt.Errorf("unknown payment gateway %q", req.Gateway)
	}
	if req.GatewayTxnID == "" {
		return nil, errors.New("gateway transaction id is required")
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("payment amount %s must be positive", req.Amount)
	}

	slog.InfoContext(logCtx, "Recording gateway payment", slog.String("amount", req.Amount.String()))

	result, err := r.recordInTx(logCtx, req)
	if err != nil && isUniqueViolationError(err) {
		// Gateway retried the callback. Return the original outcome.
		return r.alreadyRecorded(logCtx, req)
	}
	return result, err
}

func (r *Reconciler) recordInTx(ctx context.Context, req ReconcileRequest) (result *ReconcileResult, err error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		slog.ErrorContext(ctx, "Failed to begin reconciliation transaction", slog.Any("error", err))
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	qtx := database.New(tx)

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				slog.ErrorContext(ctx, "Error rolling back reconciliation transaction",
					slog.Any("rollback_error", rbErr), slog.Any("original_error", err))
			}
		} else {
			if cmErr := tx.Commit(ctx); cmErr != nil {
				slog.ErrorContext(ctx, "Error committing reconciliation transaction", slog.Any("error", cmErr))
				err = cmErr
				result = nil
			}
		}
	}()

	// 1. Lock the quote row until the transaction ends.
	quote, err := qtx.GetQuoteForUpdate(ctx, req.QuoteID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = fmt.Errorf("quote %d not found", req.QuoteID)
		} else {
			err = fmt.Errorf("failed to lock quote %d: %w", req.QuoteID, err)
		}
		return nil, err
	}

	if !payableStatus(quote.Status) {
		err = fmt.Errorf("%w: quote %d is %s", ErrQuoteNotPayable, quote.ID, quote.Status)
		return nil, err
	}
	if quote.CurrencyCode != req.CurrencyCode {
		err = fmt.Errorf("%w: quote %s, payment %s", ErrCurrencyMismatch, quote.CurrencyCode, req.CurrencyCode)
		return nil, err
	}
	if quote.TotalAmount == nil {
		err = fmt.Errorf("%w: quote %d has no calculated total", ErrQuoteNotPayable, quote.ID)
		return nil, err
	}

	// 2. Work out the post-payment state.
	balanceBefore := quote.AmountPaid
	newPaid := balanceBefore.Add(req.Amount)
	total := *quote.TotalAmount

	newStatus := codes.QuoteStatusPartiallyPaid
	ledgerStatus := codes.PaymentStatusRecorded
	switch {
	case newPaid.GreaterThan(total):
		newStatus = codes.QuoteStatusOverpaid
		ledgerStatus = codes.PaymentStatusOverpay
	case newPaid.Equal(total):
		newStatus = codes.QuoteStatusPaid
	}

	// 3. Insert the ledger entry. The unique (gateway, gateway_txn_id)
	// constraint turns a retried callback into a unique violation handled
	// by the caller.
	ledgerRef := uuid.New().String()
	entry, err := qtx.CreatePaymentLedgerEntry(ctx, database.CreatePaymentLedgerEntryParams{
		QuoteID:      quote.ID,
		Gateway:      req.Gateway,
		GatewayTxnID: req.GatewayTxnID,
		LedgerRef:    ledgerRef,
		Amount:       req.Amount,
		CurrencyCode: req.CurrencyCode,
		Status:       ledgerStatus,
		Note:         req.Note,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert payment ledger entry: %w", err)
	}

	// 4. Flip the quote's payment state.
	updated, err := qtx.UpdateQuotePaymentState(ctx, database.UpdateQuotePaymentStateParams{
		ID:         quote.ID,
		AmountPaid: newPaid,
		Status:     newStatus,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update quote payment state: %w", err)
	}

	// 5. Queue the confirmation email in the same transaction so it exists
	// iff the payment does.
	subject := fmt.Sprintf("Payment received for quote #%d", quote.ID)
	body := fmt.Sprintf("We received %s %s via %s. Quote status: %s.",
		req.Amount.StringFixed(2), req.CurrencyCode, req.Gateway, newStatus)
	_, err = qtx.EnqueueEmail(ctx, database.EnqueueEmailParams{
		IdempotencyKey: "payment-confirmation-" + ledgerRef,
		Recipient:      quote.CustomerEmail,
		Subject:        subject,
		Body:           body,
	})
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to enqueue payment confirmation email: %w", err)
	}
	err = nil

	slog.InfoContext(logging.ContextWithLedgerRef(ctx, entry.LedgerRef), "Gateway payment recorded",
		slog.String("balance_before", balanceBefore.String()),
		slog.String("amount_paid", newPaid.String()),
		slog.String("quote_status", newStatus),
	)

	return &ReconcileResult{
		LedgerRef:   entry.LedgerRef,
		QuoteStatus: updated.Status,
		AmountPaid:  updated.AmountPaid,
	}, nil
}

// alreadyRecorded resolves a retried callback to its original outcome.
func (r *Reconciler) alreadyRecorded(ctx context.Context, req ReconcileRequest) (*ReconcileResult, error) {
	entry, err := r.dbQueries.GetPaymentLedgerByGatewayTxn(ctx, database.GetPaymentLedgerByGatewayTxnParams{
		Gateway:      req.Gateway,
		GatewayTxnID: req.GatewayTxnID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load prior ledger entry for retried callback: %w", err)
	}
	quote, err := r.dbQueries.GetQuoteByID(ctx, entry.QuoteID)
	if err != nil {
		return nil, fmt.Errorf("failed to load quote for retried callback: %w", err)
	}

	slog.InfoContext(logging.ContextWithLedgerRef(ctx, entry.LedgerRef),
		"Gateway callback retried, returning original outcome")

	return &ReconcileResult{
		LedgerRef:       entry.LedgerRef,
		QuoteStatus:     quote.Status,
		AmountPaid:      quote.AmountPaid,
		AlreadyRecorded: true,
	}, nil
}

func payableStatus(status string) bool {
	switch status {
	case codes.QuoteStatusCalculated, codes.QuoteStatusPartiallyPaid,
		codes.QuoteStatusPaid, codes.QuoteStatusOverpaid:
		return true
	case codes.QuoteStatusPending, codes.QuoteStatusFailedPricing,
		codes.QuoteStatusCancelled, codes.QuoteStatusExpired:
		return false
	default:
		return false
	}
}

// isUniqueViolationError checks for a Postgres unique violation.
func isUniqueViolationError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
