package dto

import (
	"time"

	"github.com/SscSPs/campus_fare_ledger/internal/core/domain"
)

// RefundByIDsRequest reverses one or more prior debits.
type RefundByIDsRequest struct {
	TransactionIDs []string `json:"transactionIDs" binding:"required,min=1,max=200,dive,required"`
	Reason         string   `json:"reason" binding:"max=500"`
}

// RefundByCardRequest credits a card directly for a trip that never reached the server.
type RefundByCardRequest struct {
	RFID            string       `json:"rfid" binding:"required,rfid"`
	Amount          domain.Money `json:"amount" binding:"required" swaggertype:"string" example:"15.00"`
	VehicleID       string       `json:"vehicleID"`
	DriverID        string       `json:"driverID"`
	RouteID         string       `json:"routeID"`
	Reason          string       `json:"reason" binding:"required,max=500"`
	DeviceTimestamp *time.Time   `json:"deviceTimestamp,omitempty"`
}

// RefundBatchResponse reports per-ID outcomes of a batch refund.
type RefundBatchResponse struct {
	Refunded []TransactionResponse `json:"refunded"`
	Errors   []RefundErrorResponse `json:"errors"`
}

// RefundErrorResponse is one failed ID in a batch.
type RefundErrorResponse struct {
	TransactionID string `json:"transactionID"`
	Kind          string `json:"kind"`
	Message       string `json:"message"`
}

// ToRefundBatchResponse converts a domain.RefundBatchResult to RefundBatchResponse DTO.
func ToRefundBatchResponse(r *domain.RefundBatchResult) RefundBatchResponse {
	resp := RefundBatchResponse{
		Refunded: ToTransactionResponses(r.Refunded),
		Errors:   make([]RefundErrorResponse, len(r.Errors)),
	}
	for i, f := range r.Errors {
		resp.Errors[i] = RefundErrorResponse{TransactionID: f.TransactionID, Kind: f.Kind, Message: f.Message}
	}
	return resp
}
