package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/campus_fare_ledger/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// respondError maps a service error to a status code and a message that is safe to show.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	kind := apperrors.Kind(err)
	status, msg := http.StatusInternalServerError, fallback

	switch kind {
	case "CARD_NOT_RECOGNIZED":
		status, msg = http.StatusNotFound, "Card not recognized"
	case "ACCOUNT_INACTIVE":
		status, msg = http.StatusForbidden, "Account is not active"
	case "INSUFFICIENT_BALANCE":
		status, msg = http.StatusPaymentRequired, "Insufficient balance, please recharge"
	case "INVALID_AMOUNT", "VALIDATION":
		status, msg = http.StatusBadRequest, err.Error()
	case "ALREADY_REFUNDED":
		status, msg = http.StatusConflict, "Transaction already refunded"
	case "NOT_REFUNDABLE":
		status, msg = http.StatusUnprocessableEntity, "Transaction cannot be refunded"
	case "NOT_ASSIGNED_TO_DRIVER", "VEHICLE_UNAVAILABLE", "DRIVER_ALREADY_ASSIGNED":
		// These name the holding driver or held vehicle.
		status, msg = http.StatusConflict, err.Error()
	case "DUPLICATE_TRANSACTION":
		status, msg = http.StatusConflict, "Duplicate transaction"
	case "CONFLICT":
		status, msg = http.StatusConflict, "Resource changed concurrently, please retry"
	case "NOT_FOUND":
		status, msg = http.StatusNotFound, "Resource not found"
	case "UNAUTHORIZED":
		status = http.StatusUnauthorized
	case "FORBIDDEN":
		status = http.StatusForbidden
	case "STORAGE_ERROR":
		status = http.StatusServiceUnavailable
	}

	if status >= http.StatusInternalServerError {
		logger.Error(fallback, slog.String("kind", kind), slog.String("error", err.Error()))
	} else {
		logger.Warn(fallback, slog.String("kind", kind), slog.String("error", err.Error()))
	}
	c.JSON(status, errorResponse{Error: msg, Kind: kind})
}

func respondBindError(c *gin.Context, logger *slog.Logger, what string, err error) {
	logger.Warn("Failed to bind "+what, slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request format: " + err.Error(), Kind: "VALIDATION"})
}
