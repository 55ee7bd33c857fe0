package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/campus_fare_ledger/internal/apperrors"
	"github.com/SscSPs/campus_fare_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/campus_fare_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/campus_fare_ledger/internal/core/ports/services"
)

// ledgerService owns card balances and the floor policy.
type ledgerService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	fareRepo    portsrepo.FareReader
	defaults    domain.FareSettings
}

// NewLedgerService creates a new LedgerSvc. defaults apply when no fare settings are stored.
func NewLedgerService(accountRepo portsrepo.AccountRepositoryFacade, fareRepo portsrepo.FareReader, defaults domain.FareSettings, opts ...ServiceOption) portssvc.LedgerSvc {
	return &ledgerService{
		BaseService: newBaseService(opts...),
		accountRepo: accountRepo,
		fareRepo:    fareRepo,
		defaults:    defaults,
	}
}

var _ portssvc.LedgerSvc = (*ledgerService)(nil)

func (s *ledgerService) FareSettings(ctx context.Context) (domain.FareSettings, error) {
	stored, err := s.fareRepo.GetFareSettings(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return s.defaults, nil
		}
		s.LogError(ctx, err, "Failed to load fare settings")
		return domain.FareSettings{}, err
	}
	settings := *stored
	if settings.DefaultFare <= 0 {
		settings.DefaultFare = s.defaults.DefaultFare
	}
	if settings.Floor == nil {
		settings.Floor = s.defaults.Floor
	}
	return settings, nil
}

func (s *ledgerService) ApplyDelta(ctx context.Context, userID string, delta domain.Money, allowFloorBreach bool) (domain.BalanceChange, error) {
	if delta == 0 {
		return domain.BalanceChange{}, fmt.Errorf("%w: zero balance change", apperrors.ErrInvalidAmount)
	}

	settings, err := s.FareSettings(ctx)
	if err != nil {
		return domain.BalanceChange{}, err
	}
	floor := settings.EffectiveFloor()

	change, err := s.accountRepo.ApplyBalanceDelta(ctx, userID, delta, floor, allowFloorBreach)
	if err != nil {
		if errors.Is(err, apperrors.ErrInsufficientBalance) {
			s.LogWarn(ctx, err, "Balance change rejected by floor",
				slog.String("user_id", userID), slog.String("delta", delta.String()), slog.String("floor", floor.String()))
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to apply balance change", slog.String("user_id", userID))
		}
		return domain.BalanceChange{}, err
	}

	s.LogDebug(ctx, "Balance changed",
		slog.String("user_id", userID),
		slog.String("previous", change.Previous.String()),
		slog.String("new", change.New.String()),
		slog.Bool("floor_breach_allowed", allowFloorBreach))
	return change, nil
}

func (s *ledgerService) GetBalance(ctx context.Context, rfid string) (*domain.Account, domain.Money, error) {
	acc, err := lookupCard(ctx, s.accountRepo, rfid)
	if err != nil {
		return nil, 0, err
	}
	settings, err := s.FareSettings(ctx)
	if err != nil {
		return nil, 0, err
	}
	return acc, settings.EffectiveFloor(), nil
}

// lookupCard resolves a card to its account, mapping an unknown card to ErrCardNotRecognized.
func lookupCard(ctx context.Context, accounts portsrepo.AccountReader, rfid string) (*domain.Account, error) {
	acc, err := accounts.FindAccountByRFID(ctx, rfid)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrCardNotRecognized, rfid)
		}
		return nil, err
	}
	return acc, nil
}
