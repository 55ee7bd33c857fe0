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
	"github.com/SscSPs/campus_fare_ledger/internal/utils/pagination"
)

// journalService appends records and performs the one permitted status transition.
type journalService struct {
	BaseService
	txnRepo portsrepo.TransactionRepositoryFacade
}

// NewJournalService creates a new JournalService.
func NewJournalService(txnRepo portsrepo.TransactionRepositoryFacade, opts ...ServiceOption) portssvc.JournalSvcFacade {
	return &journalService{
		BaseService: newBaseService(opts...),
		txnRepo:     txnRepo,
	}
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

func (s *journalService) RecordCompletedDebit(ctx context.Context, entry domain.Transaction) (*domain.Transaction, bool, error) {
	if entry.Type != domain.Debit {
		return nil, false, fmt.Errorf("%w: expected a DEBIT, got %q", apperrors.ErrValidation, entry.Type)
	}
	return s.record(ctx, entry)
}

func (s *journalService) RecordCredit(ctx context.Context, entry domain.Transaction) (*domain.Transaction, bool, error) {
	if entry.Type != domain.Credit {
		return nil, false, fmt.Errorf("%w: expected a CREDIT, got %q", apperrors.ErrValidation, entry.Type)
	}
	return s.record(ctx, entry)
}

func (s *journalService) record(ctx context.Context, entry domain.Transaction) (*domain.Transaction, bool, error) {
	entry.Status = domain.StatusCompleted
	if entry.DedupKey == "" {
		entry.DedupKey = domain.DedupKey(entry.Type, entry.DeviceTimestamp, entry.VehicleID, entry.MerchantID, entry.RFID)
	}
	now := s.Now()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.LastUpdatedAt = entry.CreatedAt
	if entry.LastUpdatedBy == "" {
		entry.LastUpdatedBy = entry.CreatedBy
	}

	if err := entry.Validate(); err != nil {
		return nil, false, err
	}

	record, inserted, err := s.txnRepo.InsertTransaction(ctx, entry)
	if err != nil {
		s.LogError(ctx, err, "Failed to insert transaction", slog.String("transaction_id", entry.TransactionID))
		return nil, false, err
	}
	if !inserted {
		s.LogInfo(ctx, "Duplicate submission matched existing transaction",
			slog.String("transaction_id", record.TransactionID),
			slog.String("dedup_key", entry.DedupKey))
		return record, true, nil
	}
	return record, false, nil
}

func (s *journalService) MarkRefunded(ctx context.Context, transactionID, refundTransactionID, actorID string) (*domain.Transaction, error) {
	record, err := s.txnRepo.MarkTransactionRefunded(ctx, transactionID, refundTransactionID, actorID, s.Now())
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrAlreadyRefunded) && !errors.Is(err, apperrors.ErrNotRefundable) {
			s.LogError(ctx, err, "Failed to mark transaction refunded", slog.String("transaction_id", transactionID))
		}
		return nil, err
	}
	return record, nil
}

func (s *journalService) GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	record, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find transaction", slog.String("transaction_id", transactionID))
		}
		return nil, err
	}
	return record, nil
}

func (s *journalService) ListTransactionsByUser(ctx context.Context, userID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	records, nextToken, err := s.txnRepo.ListTransactionsByUser(ctx, userID, limit, params.NextToken)
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to list transactions", slog.String("user_id", userID))
		}
		return nil, err
	}
	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(records),
		NextToken:    nextToken,
	}, nil
}
