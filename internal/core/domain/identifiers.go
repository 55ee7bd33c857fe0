package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/campus_fare_ledger/internal/utils"
)

const (
	transactionIDPrefix = "TXN"
	refundIDPrefix      = "RFD"
	idDateLayout        = "20060102"
)

// NewTransactionID returns "TXN" + YYYYMMDD + 8 hex chars.
// The database primary key and the dedup key carry the real uniqueness guarantee.
func NewTransactionID(now time.Time) (string, error) {
	return newPrefixedID(transactionIDPrefix, now)
}

// NewRefundID returns "RFD" + YYYYMMDD + 8 hex chars.
func NewRefundID(now time.Time) (string, error) {
	return newPrefixedID(refundIDPrefix, now)
}

func newPrefixedID(prefix string, now time.Time) (string, error) {
	suffix, err := utils.GenerateSecureRandomString(4)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s id: %w", prefix, err)
	}
	return prefix + now.UTC().Format(idDateLayout) + suffix, nil
}
