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
	"github.com/SscSPs/campus_fare_ledger/internal/dto"
	"github.com/SscSPs/campus_fare_ledger/internal/platform/metrics"
)

// errReplay aborts a unit of work whose insert matched an existing record, so the balance
// change made earlier in the same unit is rolled back.
var errReplay = errors.New("replayed submission")

// fareService charges shuttle fares and merchant purchases.
type fareService struct {
	BaseService
	uow      portsrepo.UnitOfWork
	accounts portsrepo.AccountReader
	txns     portsrepo.TransactionReader
	vehicles portsrepo.VehicleReader
	routes   portsrepo.FareReader
	ledger   portssvc.LedgerSvc
	journal  portssvc.JournalSvcFacade
}

// NewFareService creates a new FareSvc.
func NewFareService(repos portsrepo.RepositoryProvider, ledger portssvc.LedgerSvc, journal portssvc.JournalSvcFacade, opts ...ServiceOption) portssvc.FareSvc {
	return &fareService{
		BaseService: newBaseService(opts...),
		uow:         repos.UnitOfWork,
		accounts:    repos.AccountRepo,
		txns:        repos.TransactionRepo,
		vehicles:    repos.VehicleRepo,
		routes:      repos.FareRepo,
		ledger:      ledger,
		journal:     journal,
	}
}

var _ portssvc.FareSvc = (*fareService)(nil)

func (s *fareService) Charge(ctx context.Context, req dto.ChargeRequest) (*domain.Receipt, error) {
	receipt, err := s.charge(ctx, req)
	switch {
	case err == nil && receipt.Duplicate:
		metrics.RecordCharge("duplicate", req.Offline, 0)
	case err == nil:
		metrics.RecordCharge("completed", req.Offline, int64(receipt.Amount))
	case errors.Is(err, apperrors.ErrStorage), errors.Is(err, apperrors.ErrInternal):
		metrics.RecordCharge("failed", req.Offline, 0)
	default:
		metrics.RecordCharge("rejected", req.Offline, 0)
	}
	return receipt, err
}

func (s *fareService) charge(ctx context.Context, req dto.ChargeRequest) (*domain.Receipt, error) {
	logger := s.GetLogger(ctx).With(slog.String("rfid", req.RFID), slog.Bool("offline", req.Offline))

	if req.VehicleID == "" && req.MerchantID == "" {
		return nil, fmt.Errorf("%w: vehicleID or merchantID is required", apperrors.ErrValidation)
	}
	if req.Offline && req.DeviceTimestamp == nil {
		return nil, fmt.Errorf("%w: offline charges require deviceTimestamp", apperrors.ErrValidation)
	}

	// A keyed submission seen before answers with its original receipt, whatever the
	// card's balance or state is now. The unique index still catches concurrent replays.
	dedupKey := domain.DedupKey(domain.Debit, req.DeviceTimestamp, req.VehicleID, req.MerchantID, req.RFID)
	if dedupKey != "" {
		if existing, err := s.txns.FindTransactionByDedupKey(ctx, dedupKey); err == nil {
			logger.Info("Charge already recorded", slog.String("transaction_id", existing.TransactionID))
			return domain.ReceiptFor(*existing, true), nil
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
	}

	fare, err := s.resolveFare(ctx, req)
	if err != nil {
		return nil, err
	}

	acc, err := lookupCard(ctx, s.accounts, req.RFID)
	if err != nil {
		logger.Warn("Charge rejected", slog.String("error", err.Error()))
		return nil, err
	}
	if err := acc.CanTransact(); err != nil {
		logger.Warn("Charge rejected", slog.String("error", err.Error()))
		return nil, err
	}

	entry := domain.Transaction{
		Type:            domain.Debit,
		Amount:          fare,
		SubjectUserID:   acc.UserID,
		RFID:            acc.RFID,
		VehicleID:       req.VehicleID,
		RouteID:         req.RouteID,
		DriverID:        req.DriverID,
		MerchantID:      req.MerchantID,
		DeviceTimestamp: req.DeviceTimestamp,
		DedupKey:        dedupKey,
		Offline:         req.Offline,
	}
	if err := s.stampVehicle(ctx, &entry); err != nil {
		return nil, err
	}

	now := s.Now()
	entry.TransactionID, err = domain.NewTransactionID(now)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrInternal, err)
	}
	entry.CreatedAt = now
	entry.CreatedBy = terminalOf(req)

	var (
		record    *domain.Transaction
		duplicate bool
	)
	err = s.uow.RunInTx(ctx, func(txCtx context.Context) error {
		change, err := s.ledger.ApplyDelta(txCtx, acc.UserID, -fare, req.Offline)
		if err != nil {
			return err
		}
		entry.PreviousBalance = change.Previous
		entry.ResultingBalance = change.New

		record, duplicate, err = s.journal.RecordCompletedDebit(txCtx, entry)
		if err != nil {
			return err
		}
		if duplicate {
			return errReplay
		}
		return nil
	})
	if err != nil && !errors.Is(err, errReplay) {
		if !errors.Is(err, apperrors.ErrInsufficientBalance) {
			logger.Error("Charge failed", slog.String("error", err.Error()))
		}
		return nil, err
	}

	receipt := domain.ReceiptFor(*record, duplicate)
	if duplicate {
		return receipt, nil
	}

	logger.Info("Fare charged",
		slog.String("transaction_id", record.TransactionID),
		slog.String("amount", record.Amount.String()),
		slog.String("new_balance", record.ResultingBalance.String()))

	s.notifyReceipt(ctx, *receipt, acc)
	return receipt, nil
}

// resolveFare applies explicit amount, then route fare, then the default.
func (s *fareService) resolveFare(ctx context.Context, req dto.ChargeRequest) (domain.Money, error) {
	settings, err := s.ledger.FareSettings(ctx)
	if err != nil {
		return 0, err
	}

	var route *domain.Route
	if req.FareAmount == nil && req.RouteID != "" {
		route, err = s.routes.FindRouteByID(ctx, req.RouteID)
		switch {
		case err == nil:
		case errors.Is(err, apperrors.ErrNotFound) && req.Offline:
			// The device already collected the fare; fall back to the default.
			route = nil
		default:
			return 0, err
		}
	}

	fare := domain.ResolveFare(req.FareAmount, route, settings)
	if err := fare.RequirePositive(); err != nil {
		return 0, err
	}
	return fare, nil
}

// stampVehicle copies the plate number and, when the request omits it, the current driver.
func (s *fareService) stampVehicle(ctx context.Context, entry *domain.Transaction) error {
	if entry.VehicleID == "" {
		return nil
	}
	v, err := s.vehicles.FindVehicleByID(ctx, entry.VehicleID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) && entry.Offline {
			s.LogDebug(ctx, "Offline charge for unknown vehicle", slog.String("vehicle_id", entry.VehicleID))
			return nil
		}
		return err
	}
	entry.PlateNumber = v.PlateNumber
	if entry.DriverID == "" && v.Status.Held() {
		entry.DriverID = v.CurrentDriverID
	}
	return nil
}

func (s *BaseService) notifyReceipt(ctx context.Context, receipt domain.Receipt, acc *domain.Account) {
	s.dispatch(ctx, "receipt", func(ctx context.Context, n portssvc.Notifier) error {
		return n.NotifyReceipt(ctx, domain.ReceiptNotification{
			Receipt:     receipt,
			Email:       acc.Email,
			DisplayName: acc.DisplayName,
		})
	})
	s.dispatch(ctx, "change", func(ctx context.Context, n portssvc.Notifier) error {
		return n.PublishChange(ctx, domain.ChangeEvent{
			Entity: domain.EntityTransaction,
			ID:     receipt.TransactionID,
			Action: string(receipt.Type),
			Status: string(domain.StatusCompleted),
			At:     receipt.CreatedAt,
		})
	})
}

func terminalOf(req dto.ChargeRequest) string {
	if req.VehicleID != "" {
		return req.VehicleID
	}
	return req.MerchantID
}
