package dto

import (
	"time"

	"github.com/SscSPs/campus_fare_ledger/internal/core/domain"
)

// TransactionResponse defines the data returned for a journal record.
type TransactionResponse struct {
	TransactionID         string     `json:"transactionID"`
	Type                  string     `json:"type"`
	Status                string     `json:"status"`
	Amount                string     `json:"amount" example:"15.00"`
	PreviousBalance       string     `json:"previousBalance"`
	ResultingBalance      string     `json:"resultingBalance"`
	SubjectUserID         string     `json:"subjectUserID"`
	RFID                  string     `json:"rfid"`
	VehicleID             string     `json:"vehicleID,omitempty"`
	PlateNumber           string     `json:"plateNumber,omitempty"`
	RouteID               string     `json:"routeID,omitempty"`
	DriverID              string     `json:"driverID,omitempty"`
	MerchantID            string     `json:"merchantID,omitempty"`
	DeviceTimestamp       *time.Time `json:"deviceTimestamp,omitempty"`
	Offline               bool       `json:"offline"`
	OriginalTransactionID string     `json:"originalTransactionID,omitempty"`
	RefundTransactionID   string     `json:"refundTransactionID,omitempty"`
	Reason                string     `json:"reason,omitempty"`
	CreatedAt             time.Time  `json:"createdAt"`
	CreatedBy             string     `json:"createdBy,omitempty"`
}

// ListTransactionsParams holds keyset pagination query parameters.
type ListTransactionsParams struct {
	Limit     int     `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse is a page of journal records.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:         txn.TransactionID,
		Type:                  string(txn.Type),
		Status:                string(txn.Status),
		Amount:                txn.Amount.String(),
		PreviousBalance:       txn.PreviousBalance.String(),
		ResultingBalance:      txn.ResultingBalance.String(),
		SubjectUserID:         txn.SubjectUserID,
		RFID:                  txn.RFID,
		VehicleID:             txn.VehicleID,
		PlateNumber:           txn.PlateNumber,
		RouteID:               txn.RouteID,
		DriverID:              txn.DriverID,
		MerchantID:            txn.MerchantID,
		DeviceTimestamp:       txn.DeviceTimestamp,
		Offline:               txn.Offline,
		OriginalTransactionID: txn.OriginalTransactionID,
		RefundTransactionID:   txn.RefundTransactionID,
		Reason:                txn.Reason,
		CreatedAt:             txn.CreatedAt,
		CreatedBy:             txn.CreatedBy,
	}
}

// ToTransactionResponses converts a slice of domain.Transaction to []TransactionResponse.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return responses
}
