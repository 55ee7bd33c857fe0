package domain

import (
	"fmt"

	"github.com/SscSPs/campus_fare_ledger/internal/apperrors"
)

// AccountState replaces the isActive/isDeactivated flag pair with one tagged state.
type AccountState string

const (
	AccountActive            AccountState = "ACTIVE"
	AccountPendingActivation AccountState = "PENDING_ACTIVATION"
	AccountDeactivated       AccountState = "DEACTIVATED"
)

// Account is a card holder. Only the balance is owned by the ledger;
// every other field belongs to account management.
type Account struct {
	UserID      string       `json:"userID"`
	RFID        string       `json:"rfid"`
	DisplayName string       `json:"displayName"`
	Email       string       `json:"email"`
	Balance     Money        `json:"balance"`
	State       AccountState `json:"state"`
	AuditFields
}

// CanTransact reports ErrAccountInactive for any account that is not ACTIVE.
func (a Account) CanTransact() error {
	if a.State != AccountActive {
		return fmt.Errorf("%w: account %s is %s", apperrors.ErrAccountInactive, a.UserID, a.State)
	}
	return nil
}

// BalanceChange is the before/after snapshot of one ledger mutation.
type BalanceChange struct {
	UserID   string `json:"userID"`
	Previous Money  `json:"previousBalance"`
	New      Money  `json:"newBalance"`
}
