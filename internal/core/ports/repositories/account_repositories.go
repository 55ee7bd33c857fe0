package repositories

import (
	"context"

	"github.com/SscSPs/campus_fare_ledger/internal/core/domain"
)

// AccountReader defines read operations for card holder accounts
type AccountReader interface {
	// FindAccountByID retrieves an account by user ID.
	FindAccountByID(ctx context.Context, userID string) (*domain.Account, error)

	// FindAccountByRFID retrieves the account bound to a card.
	FindAccountByRFID(ctx context.Context, rfid string) (*domain.Account, error)
}

// AccountLedgerWriter is the single writer of balance state.
type AccountLedgerWriter interface {
	// ApplyBalanceDelta adds delta to the balance in one conditional update. A negative delta
	// that would leave the balance below floor fails with ErrInsufficientBalance unless
	// allowFloorBreach is set.
	ApplyBalanceDelta(ctx context.Context, userID string, delta, floor domain.Money, allowFloorBreach bool) (domain.BalanceChange, error)
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountLedgerWriter
}
