package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/campus_fare_ledger/internal/apperrors"
	portssvc "github.com/SscSPs/campus_fare_ledger/internal/core/ports/services"
	"github.com/SscSPs/campus_fare_ledger/internal/dto"
	"github.com/SscSPs/campus_fare_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// refundHandler handles HTTP requests related to refunds.
type refundHandler struct {
	refundService portssvc.RefundSvc
}

// RegisterRefundRoutes registers routes related to refunds.
func RegisterRefundRoutes(rg *gin.RouterGroup, refundService portssvc.RefundSvc) {
	h := &refundHandler{refundService: refundService}

	refunds := rg.Group("/refunds")
	{
		refunds.POST("", middleware.RequireRole(middleware.RoleAdmin), h.refundByIDs)
		refunds.POST("/card", middleware.RequireRole(middleware.RoleDevice, middleware.RoleAdmin), h.refundByCard)
	}
}

// refundByIDs godoc
// @Summary Refund transactions
// @Description Reverses each listed debit independently. Failed IDs are reported without aborting the batch.
// @Tags refunds
// @Accept  json
// @Produce  json
// @Param   refund body dto.RefundByIDsRequest true "Transaction IDs to refund"
// @Success 200 {object} dto.RefundBatchResponse
// @Failure 400 {object} errorResponse "Invalid input format or validation error"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 403 {object} errorResponse "Forbidden"
// @Failure 500 {object} errorResponse "Failed to refund"
// @Security BearerAuth
// @Router /refunds [post]
func (h *refundHandler) refundByIDs(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RefundByIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, "refund request", err)
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		respondError(c, logger, apperrors.ErrUnauthorized, "Unauthorized")
		return
	}

	result, err := h.refundService.RefundByIDs(c.Request.Context(), req.TransactionIDs, req.Reason, actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to refund")
		return
	}

	logger.Info("Refund batch processed", slog.Int("refunded", len(result.Refunded)), slog.Int("failed", len(result.Errors)))
	c.JSON(http.StatusOK, dto.ToRefundBatchResponse(result))
}

// refundByCard godoc
// @Summary Credit a card directly
// @Description Credits a card for a trip that has no server-side debit. Replays with the same device timestamp are idempotent.
// @Tags refunds
// @Accept  json
// @Produce  json
// @Param   refund body dto.RefundByCardRequest true "Card credit details"
// @Success 201 {object} dto.ReceiptResponse "Credit recorded"
// @Success 200 {object} dto.ReceiptResponse "Replay of an already recorded credit"
// @Failure 400 {object} errorResponse "Invalid input format or validation error"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 403 {object} errorResponse "Account inactive or role not permitted"
// @Failure 404 {object} errorResponse "Card not recognized"
// @Failure 500 {object} errorResponse "Failed to refund"
// @Security BearerAuth
// @Router /refunds/card [post]
func (h *refundHandler) refundByCard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RefundByCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, "card refund request", err)
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		respondError(c, logger, apperrors.ErrUnauthorized, "Unauthorized")
		return
	}

	logger = logger.With(slog.String("rfid", req.RFID))
	receipt, err := h.refundService.RefundByCard(c.Request.Context(), req, actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to refund")
		return
	}

	status := http.StatusCreated
	if receipt.Duplicate {
		status = http.StatusOK
	}
	c.JSON(status, dto.ToReceiptResponse(receipt))
}
