package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iwishbag/tariffbox/internal/database"
	"github.com/iwishbag/tariffbox/internal/logging"
	"github.com/iwishbag/tariffbox/internal/managerapi/handlers/dto"
	"github.com/iwishbag/tariffbox/internal/payments"
	"github.com/iwishbag/tariffbox/pkg/errormapper"
)

type PaymentHandler struct {
	dbQueries  database.Querier
	reconciler *payments.Reconciler
}

func NewPaymentHandler(q database.Querier, reconciler *payments.Reconciler) *PaymentHandler {
	return &PaymentHandler{dbQueries: q, reconciler: reconciler}
}

// ReconcilePayment handles POST /payments/reconcile, the normalized intake
// for gateway payment callbacks.
func (h *PaymentHandler) ReconcilePayment(c *gin.Context) {
	logCtx := logging.ContextWithHandler(c.Request.Context(), "ReconcilePayment")

	var req dto.ReconcilePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	logCtx = logging.ContextWithQuoteID(logCtx, req.QuoteID)
	logCtx = logging.ContextWithGateway(logCtx, req.Gateway)

	result, err := h.reconciler.RecordGatewayPayment(logCtx, payments.ReconcileRequest{
		QuoteID:      req.QuoteID,
		Gateway:      req.Gateway,
		GatewayTxnID: req.GatewayTxnID,
		Amount:       req.Amount,
		CurrencyCode: req.CurrencyCode,
		Note:         req.Note,
	})
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrQuoteNotPayable):
			c.JSON(http.StatusConflict, gin.H{
				"error":    err.Error(),
				"ack_code": errormapper.MapAckCode("NOT_PAYABLE", req.Gateway),
			})
		case errors.Is(err, payments.ErrCurrencyMismatch):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":    err.Error(),
				"ack_code": errormapper.MapAckCode("BAD_CURRENCY", req.Gateway),
			})
		default:
			slog.ErrorContext(logCtx, "Payment reconciliation failed", slog.Any("error", err))
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":    "Payment reconciliation failed",
				"ack_code": errormapper.MapAckCode("SYS_ERR", req.Gateway),
			})
		}
		return
	}

	internalCode := "RECORDED"
	if result.AlreadyRecorded {
		internalCode = "DUPLICATE"
	}
	c.JSON(http.StatusOK, dto.ReconcilePaymentResponse{
		LedgerRef:       result.LedgerRef,
		QuoteStatus:     result.QuoteStatus,
		AmountPaid:      result.AmountPaid,
		AlreadyRecorded: result.AlreadyRecorded,
		AckCode:         errormapper.MapAckCode(internalCode, req.Gateway),
	})
}

// ListQuoteLedger handles GET /quotes/:id/payments for payment audit.
func (h *PaymentHandler) ListQuoteLedger(c *gin.Context) {
	logCtx := logging.ContextWithHandler(c.Request.Context(), "ListQuoteLedger")
	id, err := parseID64Param(c)
	if err != nil {
		return
	}
	logCtx = logging.ContextWithQuoteID(logCtx, id)

	entries, err := h.dbQueries.ListPaymentLedgerForQuote(logCtx, id)
	if err != nil {
		slog.ErrorContext(logCtx, "Failed to list payment ledger", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list payment ledger"})
		return
	}

	respData := make([]dto.PaymentLedgerEntryResponse, len(entries))
	for i, entry := range entries {
		respData[i] = dto.PaymentLedgerEntryResponse{
			ID:           entry.ID,
			QuoteID:      entry.QuoteID,
			Gateway:      entry.Gateway,
			GatewayTxnID: entry.GatewayTxnID,
			LedgerRef:    entry.LedgerRef,
			Amount:       entry.Amount,
			CurrencyCode: entry.CurrencyCode,
			Status:       entry.Status,
			Note:         entry.Note,
			CreatedAt:    entry.CreatedAt.Time,
		}
	}
	c.JSON(http.StatusOK, respData)
}
