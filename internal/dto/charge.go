package dto

import (
	"time"

	"github.com/SscSPs/campus_fare_ledger/internal/core/domain"
)

// ChargeRequest is a fare or merchant charge submitted by a field device.
type ChargeRequest struct {
	RFID       string `json:"rfid" binding:"required,rfid"`
	VehicleID  string `json:"vehicleID" binding:"required_without=MerchantID"`
	DriverID   string `json:"driverID"`
	RouteID    string `json:"routeID"`
	MerchantID string `json:"merchantID"`
	// FareAmount is the device's cached fare; when absent the route or default fare applies.
	FareAmount      *domain.Money `json:"fareAmount,omitempty" swaggertype:"string" example:"15.00"`
	DeviceTimestamp *time.Time    `json:"deviceTimestamp,omitempty"`
	Offline         bool          `json:"offline"`
}

// ReceiptResponse is the body returned for a successful charge or card refund.
type ReceiptResponse struct {
	TransactionID   string    `json:"transactionID"`
	Type            string    `json:"type"`
	UserID          string    `json:"userID"`
	PreviousBalance string    `json:"previousBalance" example:"100.00"`
	Amount          string    `json:"amount" example:"15.00"`
	NewBalance      string    `json:"newBalance" example:"85.00"`
	VehicleID       string    `json:"vehicleID,omitempty"`
	PlateNumber     string    `json:"plateNumber,omitempty"`
	Duplicate       bool      `json:"duplicate"`
	Offline         bool      `json:"offline"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ToReceiptResponse converts a domain.Receipt to ReceiptResponse DTO.
func ToReceiptResponse(r *domain.Receipt) ReceiptResponse {
	return ReceiptResponse{
		TransactionID:   r.TransactionID,
		Type:            string(r.Type),
		UserID:          r.UserID,
		PreviousBalance: r.PreviousBalance.String(),
		Amount:          r.Amount.String(),
		NewBalance:      r.NewBalance.String(),
		VehicleID:       r.VehicleID,
		PlateNumber:     r.PlateNumber,
		Duplicate:       r.Duplicate,
		Offline:         r.Offline,
		CreatedAt:       r.CreatedAt,
	}
}

// BalanceResponse answers a balance inquiry by card.
type BalanceResponse struct {
	UserID      string `json:"userID"`
	RFID        string `json:"rfid"`
	DisplayName string `json:"displayName"`
	Balance     string `json:"balance" example:"85.00"`
	Floor       string `json:"floor" example:"-14.00"`
	State       string `json:"state"`
}

// ToBalanceResponse converts an account and its effective floor to BalanceResponse DTO.
func ToBalanceResponse(a *domain.Account, floor domain.Money) BalanceResponse {
	return BalanceResponse{
		UserID:      a.UserID,
		RFID:        a.RFID,
		DisplayName: a.DisplayName,
		Balance:     a.Balance.String(),
		Floor:       floor.String(),
		State:       string(a.State),
	}
}
