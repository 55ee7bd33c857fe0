package memory

import (
	"context"
	"fmt"

	"github.com/SscSPs/campus_fare_ledger/internal/apperrors"
	"github.com/SscSPs/campus_fare_ledger/internal/core/domain"
)

// PutAccount creates or replaces an account. Account management is external, so this is
// only used for seeding.
func (s *Store) PutAccount(ctx context.Context, a domain.Account) {
	defer s.lock(ctx)()
	if old, ok := s.accounts[a.UserID]; ok {
		delete(s.rfidIndex, old.RFID)
	}
	s.accounts[a.UserID] = a
	if a.RFID != "" {
		s.rfidIndex[a.RFID] = a.UserID
	}
}

func (s *Store) FindAccountByID(ctx context.Context, userID string) (*domain.Account, error) {
	defer s.lock(ctx)()
	a, ok := s.accounts[userID]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, userID)
	}
	return &a, nil
}

func (s *Store) FindAccountByRFID(ctx context.Context, rfid string) (*domain.Account, error) {
	defer s.lock(ctx)()
	userID, ok := s.rfidIndex[rfid]
	if !ok {
		return nil, fmt.Errorf("%w: card %s", apperrors.ErrNotFound, rfid)
	}
	a := s.accounts[userID]
	return &a, nil
}

func (s *Store) ApplyBalanceDelta(ctx context.Context, userID string, delta, floor domain.Money, allowFloorBreach bool) (domain.BalanceChange, error) {
	defer s.lock(ctx)()
	a, ok := s.accounts[userID]
	if !ok {
		return domain.BalanceChange{}, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, userID)
	}
	next := a.Balance + delta
	if delta < 0 && !allowFloorBreach && next < floor {
		return domain.BalanceChange{}, fmt.Errorf("%w: balance %s minus %s is below floor %s", apperrors.ErrInsufficientBalance, a.Balance, -delta, floor)
	}
	change := domain.BalanceChange{UserID: userID, Previous: a.Balance, New: next}
	a.Balance = next
	a.LastUpdatedAt = s.now()
	s.accounts[userID] = a
	return change, nil
}
