package services

import (
	"context"

	"github.com/SscSPs/campus_fare_ledger/internal/core/domain"
)

// LedgerSvc owns card holder balances.
type LedgerSvc interface {
	// ApplyDelta applies a signed amount under the floor policy and returns the before/after snapshot.
	ApplyDelta(ctx context.Context, userID string, delta domain.Money, allowFloorBreach bool) (domain.BalanceChange, error)

	// GetBalance returns the account bound to a card together with the effective floor.
	GetBalance(ctx context.Context, rfid string) (*domain.Account, domain.Money, error)

	// FareSettings returns stored fare settings, falling back to configured defaults.
	FareSettings(ctx context.Context) (domain.FareSettings, error)
}
