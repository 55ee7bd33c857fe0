package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/campus_fare_ledger/internal/core/ports/services"
	"github.com/SscSPs/campus_fare_ledger/internal/dto"
	"github.com/SscSPs/campus_fare_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type transactionHandler struct {
	journalService portssvc.JournalReaderSvc
}

// RegisterTransactionRoutes registers journal read routes. They are admin only.
func RegisterTransactionRoutes(rg *gin.RouterGroup, journalService portssvc.JournalReaderSvc) {
	h := &transactionHandler{journalService: journalService}

	admin := middleware.RequireRole(middleware.RoleAdmin)
	rg.GET("/transactions/:transactionID", admin, h.getTransaction)
	rg.GET("/users/:userID/transactions", admin, h.listTransactionsByUser)
}

// getTransaction godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 404 {object} errorResponse "Transaction not found"
// @Failure 500 {object} errorResponse "Failed to retrieve transaction"
// @Security BearerAuth
// @Router /transactions/{transactionID} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	txn, err := h.journalService.GetTransaction(c.Request.Context(), c.Param("transactionID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// listTransactionsByUser godoc
// @Summary List a user's transactions
// @Description Newest first, paginated with an opaque nextToken
// @Tags transactions
// @Produce  json
// @Param   userID path string true "User ID"
// @Param   limit query int false "Limit number of results" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} errorResponse "Invalid query parameters"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 500 {object} errorResponse "Failed to list transactions"
// @Security BearerAuth
// @Router /users/{userID}/transactions [get]
func (h *transactionHandler) listTransactionsByUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, "transaction list query", err)
		return
	}

	resp, err := h.journalService.ListTransactionsByUser(c.Request.Context(), c.Param("userID"), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, resp)
}
