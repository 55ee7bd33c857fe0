package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/campus_fare_ledger/internal/apperrors"
)

// TransactionType indicates whether a record debits or credits the card holder.
type TransactionType string

const (
	Debit  TransactionType = "DEBIT"
	Credit TransactionType = "CREDIT"
)

// TransactionStatus is the lifecycle of a record. REFUNDED is reachable only from a COMPLETED debit.
type TransactionStatus string

const (
	StatusCompleted TransactionStatus = "COMPLETED"
	StatusFailed    TransactionStatus = "FAILED"
	StatusPending   TransactionStatus = "PENDING"
	StatusRefunded  TransactionStatus = "REFUNDED"
)

// Transaction is one append-only journal record. Balances are snapshots taken at write time.
type Transaction struct {
	TransactionID    string            `json:"transactionID"`
	Type             TransactionType   `json:"type"`
	Amount           Money             `json:"amount"`
	PreviousBalance  Money             `json:"previousBalance"`
	ResultingBalance Money             `json:"resultingBalance"`
	Status           TransactionStatus `json:"status"`
	SubjectUserID    string            `json:"subjectUserID"`
	RFID             string            `json:"rfid"`
	VehicleID        string            `json:"vehicleID,omitempty"`
	PlateNumber      string            `json:"plateNumber,omitempty"`
	RouteID          string            `json:"routeID,omitempty"`
	DriverID         string            `json:"driverID,omitempty"`
	MerchantID       string            `json:"merchantID,omitempty"`
	DeviceTimestamp  *time.Time        `json:"deviceTimestamp,omitempty"`
	DedupKey         string            `json:"-"`
	Offline          bool              `json:"offline"`
	// OriginalTransactionID links a refund credit to the debit it reverses.
	OriginalTransactionID string `json:"originalTransactionID,omitempty"`
	// RefundTransactionID is set on a debit once it has been refunded.
	RefundTransactionID string `json:"refundTransactionID,omitempty"`
	Reason              string `json:"reason,omitempty"`
	AuditFields
}

// Validate checks the fields every persisted record must carry.
func (t Transaction) Validate() error {
	var errs []error
	if t.TransactionID == "" {
		errs = append(errs, errors.New("transaction ID is required"))
	}
	if t.Type != Debit && t.Type != Credit {
		errs = append(errs, fmt.Errorf("unknown transaction type %q", t.Type))
	}
	if t.SubjectUserID == "" {
		errs = append(errs, errors.New("subject user ID is required"))
	}
	if err := t.Amount.RequirePositive(); err != nil {
		errs = append(errs, err)
	}
	want := t.PreviousBalance - t.Amount
	if t.Type == Credit {
		want = t.PreviousBalance + t.Amount
	}
	if t.ResultingBalance != want {
		errs = append(errs, fmt.Errorf("resulting balance %s does not match %s %s %s", t.ResultingBalance, t.PreviousBalance, t.Type, t.Amount))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", apperrors.ErrValidation, errors.Join(errs...))
	}
	return nil
}

// Refundable reports whether t may transition to REFUNDED.
func (t Transaction) Refundable() error {
	switch {
	case t.Type != Debit:
		return fmt.Errorf("%w: %s is a %s", apperrors.ErrNotRefundable, t.TransactionID, t.Type)
	case t.Status == StatusRefunded:
		return fmt.Errorf("%w: %s by %s", apperrors.ErrAlreadyRefunded, t.TransactionID, t.RefundTransactionID)
	case t.Status != StatusCompleted:
		return fmt.Errorf("%w: %s is %s", apperrors.ErrNotRefundable, t.TransactionID, t.Status)
	}
	return nil
}

// DedupKey derives the replay key for a device-captured record. The terminal is the vehicle
// when present, else the merchant, else the card itself. Records without a device
// timestamp have no key.
func DedupKey(txType TransactionType, deviceTimestamp *time.Time, vehicleID, merchantID, rfid string) string {
	if deviceTimestamp == nil {
		return ""
	}
	terminal := "C:" + rfid
	switch {
	case vehicleID != "":
		terminal = "V:" + vehicleID
	case merchantID != "":
		terminal = "M:" + merchantID
	}
	return fmt.Sprintf("%s|%s|%s", txType, terminal, deviceTimestamp.UTC().Format(time.RFC3339Nano))
}
