package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/campus_fare_ledger/internal/core/ports/services"
	"github.com/SscSPs/campus_fare_ledger/internal/dto"
	"github.com/SscSPs/campus_fare_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// fareHandler handles charges and balance inquiries from field devices.
type fareHandler struct {
	fareService   portssvc.FareSvc
	ledgerService portssvc.LedgerSvc
	// offlineNeedsDevice only trusts offline=true from device tokens.
	offlineNeedsDevice bool
}

// RegisterFareRoutes registers charge and balance routes.
func RegisterFareRoutes(rg *gin.RouterGroup, fareService portssvc.FareSvc, ledgerService portssvc.LedgerSvc, offlineNeedsDevice bool) {
	h := &fareHandler{
		fareService:        fareService,
		ledgerService:      ledgerService,
		offlineNeedsDevice: offlineNeedsDevice,
	}

	terminals := middleware.RequireRole(middleware.RoleDevice, middleware.RoleAdmin)
	rg.POST("/charges", terminals, h.charge)
	rg.GET("/cards/:rfid/balance", terminals, h.getBalance)
}

// charge godoc
// @Summary Charge a fare or merchant purchase
// @Description Debits a card for a shuttle fare or merchant purchase. Offline captures are replayed idempotently by device timestamp.
// @Tags charges
// @Accept  json
// @Produce  json
// @Param   charge body dto.ChargeRequest true "Charge details"
// @Success 201 {object} dto.ReceiptResponse "Charge recorded"
// @Success 200 {object} dto.ReceiptResponse "Replay of an already recorded charge"
// @Failure 400 {object} errorResponse "Invalid input format or validation error"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 402 {object} errorResponse "Insufficient balance"
// @Failure 403 {object} errorResponse "Account inactive or role not permitted"
// @Failure 404 {object} errorResponse "Card, route or vehicle not found"
// @Failure 500 {object} errorResponse "Failed to charge"
// @Security BearerAuth
// @Router /charges [post]
func (h *fareHandler) charge(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, "charge request", err)
		return
	}

	if req.Offline && h.offlineNeedsDevice && !middleware.HasRole(c, middleware.RoleDevice) {
		logger.Warn("Ignoring offline flag from non-device caller")
		req.Offline = false
	}

	logger = logger.With(slog.String("rfid", req.RFID), slog.String("vehicle_id", req.VehicleID), slog.Bool("offline", req.Offline))
	receipt, err := h.fareService.Charge(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to charge")
		return
	}

	status := http.StatusCreated
	if receipt.Duplicate {
		status = http.StatusOK
	}
	logger.Info("Charge processed", slog.String("transaction_id", receipt.TransactionID), slog.Bool("duplicate", receipt.Duplicate))
	c.JSON(status, dto.ToReceiptResponse(receipt))
}

// getBalance godoc
// @Summary Get card balance
// @Description Returns the balance and effective floor of the account bound to a card
// @Tags charges
// @Produce  json
// @Param   rfid path string true "Card RFID"
// @Success 200 {object} dto.BalanceResponse
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 404 {object} errorResponse "Card not recognized"
// @Failure 500 {object} errorResponse "Failed to retrieve balance"
// @Security BearerAuth
// @Router /cards/{rfid}/balance [get]
func (h *fareHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	rfid := c.Param("rfid")

	account, floor, err := h.ledgerService.GetBalance(c.Request.Context(), rfid)
	if err != nil {
		respondError(c, logger.With(slog.String("rfid", rfid)), err, "Failed to retrieve balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToBalanceResponse(account, floor))
}
