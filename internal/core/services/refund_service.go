package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/campus_fare_ledger/internal/apperrors"
	"github.com/SscSPs/campus_fare_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/campus_fare_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/campus_fare_ledger/internal/core/ports/services"
	"github.com/SscSPs/campus_fare_ledger/internal/dto"
	"github.com/SscSPs/campus_fare_ledger/internal/platform/metrics"
)

const (
	refundPathBatch = "by_id"
	refundPathCard  = "by_card"
)

// refundService reverses debits and credits cards directly.
type refundService struct {
	BaseService
	uow      portsrepo.UnitOfWork
	accounts portsrepo.AccountReader
	txns     portsrepo.TransactionReader
	vehicles portsrepo.VehicleReader
	ledger   portssvc.LedgerSvc
	journal  portssvc.JournalSvcFacade
}

// NewRefundService creates a new RefundSvc.
func NewRefundService(repos portsrepo.RepositoryProvider, ledger portssvc.LedgerSvc, journal portssvc.JournalSvcFacade, opts ...ServiceOption) portssvc.RefundSvc {
	return &refundService{
		BaseService: newBaseService(opts...),
		uow:         repos.UnitOfWork,
		accounts:    repos.AccountRepo,
		txns:        repos.TransactionRepo,
		vehicles:    repos.VehicleRepo,
		ledger:      ledger,
		journal:     journal,
	}
}

var _ portssvc.RefundSvc = (*refundService)(nil)

func (s *refundService) RefundByIDs(ctx context.Context, transactionIDs []string, reason, actorID string) (*domain.RefundBatchResult, error) {
	if len(transactionIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one transaction ID is required", apperrors.ErrValidation)
	}

	result := &domain.RefundBatchResult{
		Refunded: []domain.Transaction{},
		Errors:   []domain.RefundFailure{},
	}
	for _, id := range transactionIDs {
		id = strings.TrimSpace(id)
		credit, acc, err := s.refundOne(ctx, id, reason, actorID)
		if err != nil {
			kind := apperrors.Kind(err)
			metrics.RecordRefund(refundPathBatch, strings.ToLower(kind))
			s.LogWarn(ctx, err, "Refund rejected", slog.String("transaction_id", id))
			result.Errors = append(result.Errors, domain.RefundFailure{
				TransactionID: id,
				Kind:          kind,
				Message:       publicMessage(err),
			})
			continue
		}
		metrics.RecordRefund(refundPathBatch, "completed")
		result.Refunded = append(result.Refunded, *credit)
		if acc != nil {
			s.notifyReceipt(ctx, *domain.ReceiptFor(*credit, false), acc)
		}
	}

	s.LogInfo(ctx, "Refund batch processed",
		slog.Int("requested", len(transactionIDs)),
		slog.Int("refunded", len(result.Refunded)),
		slog.Int("failed", len(result.Errors)),
		slog.String("actor_id", actorID))
	return result, nil
}

// refundOne marks the original, credits the holder and writes the referencing credit in a
// single unit of work.
func (s *refundService) refundOne(ctx context.Context, transactionID, reason, actorID string) (*domain.Transaction, *domain.Account, error) {
	if transactionID == "" {
		return nil, nil, fmt.Errorf("%w: empty transaction ID", apperrors.ErrValidation)
	}

	now := s.Now()
	refundID, err := domain.NewRefundID(now)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", apperrors.ErrInternal, err)
	}

	var credit *domain.Transaction
	err = s.uow.RunInTx(ctx, func(txCtx context.Context) error {
		original, err := s.journal.MarkRefunded(txCtx, transactionID, refundID, actorID)
		if err != nil {
			return err
		}

		change, err := s.ledger.ApplyDelta(txCtx, original.SubjectUserID, original.Amount, true)
		if err != nil {
			return err
		}

		credit, _, err = s.journal.RecordCredit(txCtx, domain.Transaction{
			TransactionID:         refundID,
			Type:                  domain.Credit,
			Amount:                original.Amount,
			PreviousBalance:       change.Previous,
			ResultingBalance:      change.New,
			SubjectUserID:         original.SubjectUserID,
			RFID:                  original.RFID,
			VehicleID:             original.VehicleID,
			PlateNumber:           original.PlateNumber,
			RouteID:               original.RouteID,
			DriverID:              original.DriverID,
			MerchantID:            original.MerchantID,
			OriginalTransactionID: original.TransactionID,
			Reason:                reason,
			AuditFields:           domain.AuditFields{CreatedAt: now, CreatedBy: actorID},
		})
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	// Receipt delivery needs the holder's contact details; a lookup miss only skips it.
	acc, err := s.accounts.FindAccountByID(ctx, credit.SubjectUserID)
	if err != nil {
		s.LogDebug(ctx, "Refund receipt skipped", slog.String("user_id", credit.SubjectUserID), slog.String("error", err.Error()))
		acc = nil
	}
	return credit, acc, nil
}

func (s *refundService) RefundByCard(ctx context.Context, req dto.RefundByCardRequest, actorID string) (*domain.Receipt, error) {
	receipt, err := s.refundByCard(ctx, req, actorID)
	switch {
	case err != nil:
		metrics.RecordRefund(refundPathCard, strings.ToLower(apperrors.Kind(err)))
	case receipt.Duplicate:
		metrics.RecordRefund(refundPathCard, "duplicate")
	default:
		metrics.RecordRefund(refundPathCard, "completed")
	}
	return receipt, err
}

func (s *refundService) refundByCard(ctx context.Context, req dto.RefundByCardRequest, actorID string) (*domain.Receipt, error) {
	logger := s.GetLogger(ctx).With(slog.String("rfid", req.RFID), slog.String("actor_id", actorID))

	if err := req.Amount.RequirePositive(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Reason) == "" {
		return nil, fmt.Errorf("%w: reason is required", apperrors.ErrValidation)
	}

	dedupKey := domain.DedupKey(domain.Credit, req.DeviceTimestamp, req.VehicleID, "", req.RFID)
	if dedupKey != "" {
		if existing, err := s.txns.FindTransactionByDedupKey(ctx, dedupKey); err == nil {
			logger.Info("Card refund already recorded", slog.String("transaction_id", existing.TransactionID))
			return domain.ReceiptFor(*existing, true), nil
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
	}

	acc, err := lookupCard(ctx, s.accounts, req.RFID)
	if err != nil {
		logger.Warn("Card refund rejected", slog.String("error", err.Error()))
		return nil, err
	}
	if err := acc.CanTransact(); err != nil {
		logger.Warn("Card refund rejected", slog.String("error", err.Error()))
		return nil, err
	}

	now := s.Now()
	refundID, err := domain.NewRefundID(now)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrInternal, err)
	}

	entry := domain.Transaction{
		TransactionID:   refundID,
		Type:            domain.Credit,
		Amount:          req.Amount,
		SubjectUserID:   acc.UserID,
		RFID:            acc.RFID,
		VehicleID:       req.VehicleID,
		RouteID:         req.RouteID,
		DriverID:        req.DriverID,
		DeviceTimestamp: req.DeviceTimestamp,
		DedupKey:        dedupKey,
		Reason:          req.Reason,
		AuditFields:     domain.AuditFields{CreatedAt: now, CreatedBy: actorID},
	}
	if req.VehicleID != "" {
		if v, err := s.vehicles.FindVehicleByID(ctx, req.VehicleID); err == nil {
			entry.PlateNumber = v.PlateNumber
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
	}

	var (
		record    *domain.Transaction
		duplicate bool
	)
	err = s.uow.RunInTx(ctx, func(txCtx context.Context) error {
		change, err := s.ledger.ApplyDelta(txCtx, acc.UserID, req.Amount, true)
		if err != nil {
			return err
		}
		entry.PreviousBalance = change.Previous
		entry.ResultingBalance = change.New

		record, duplicate, err = s.journal.RecordCredit(txCtx, entry)
		if err != nil {
			return err
		}
		if duplicate {
			return errReplay
		}
		return nil
	})
	if err != nil && !errors.Is(err, errReplay) {
		logger.Error("Card refund failed", slog.String("error", err.Error()))
		return nil, err
	}

	receipt := domain.ReceiptFor(*record, duplicate)
	if duplicate {
		return receipt, nil
	}

	logger.Info("Card refunded",
		slog.String("transaction_id", record.TransactionID),
		slog.String("amount", record.Amount.String()),
		slog.String("new_balance", record.ResultingBalance.String()))
	s.notifyReceipt(ctx, *receipt, acc)
	return receipt, nil
}

// publicMessage strips storage and internal detail from errors shown to API callers.
func publicMessage(err error) string {
	if errors.Is(err, apperrors.ErrStorage) || errors.Is(err, apperrors.ErrInternal) {
		return "internal error, please retry"
	}
	return err.Error()
}
