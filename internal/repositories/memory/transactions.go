package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/campus_fare_ledger/internal/apperrors"
	"github.com/SscSPs/campus_fare_ledger/internal/core/domain"
	"github.com/SscSPs/campus_fare_ledger/internal/utils/pagination"
)

func (s *Store) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	defer s.lock(ctx)()
	t, ok := s.transactions[transactionID]
	if !ok {
		return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
	}
	return &t, nil
}

func (s *Store) FindTransactionByDedupKey(ctx context.Context, dedupKey string) (*domain.Transaction, error) {
	defer s.lock(ctx)()
	id, ok := s.dedup[dedupKey]
	if !ok || dedupKey == "" {
		return nil, fmt.Errorf("%w: dedup key %s", apperrors.ErrNotFound, dedupKey)
	}
	t := s.transactions[id]
	return &t, nil
}

func (s *Store) ListTransactionsByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	defer s.lock(ctx)()

	var afterAt time.Time
	var afterID string
	if nextToken != nil && *nextToken != "" {
		var err error
		afterAt, afterID, err = pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
	}

	var rows []domain.Transaction
	for _, t := range s.transactions {
		if t.SubjectUserID != userID {
			continue
		}
		if afterID != "" && !before(t, afterAt, afterID) {
			continue
		}
		rows = append(rows, t)
	}
	sort.Slice(rows, func(i, j int) bool {
		return before(rows[j], rows[i].CreatedAt, rows[i].TransactionID)
	})

	limit = pagination.NormalizeLimit(limit)
	if len(rows) <= limit {
		return rows, nil, nil
	}
	rows = rows[:limit]
	last := rows[len(rows)-1]
	token := pagination.EncodeToken(last.CreatedAt, last.TransactionID)
	return rows, &token, nil
}

// before reports whether t sorts after the cursor in newest-first order.
func before(t domain.Transaction, at time.Time, id string) bool {
	if t.CreatedAt.Equal(at) {
		return t.TransactionID < id
	}
	return t.CreatedAt.Before(at)
}

func (s *Store) InsertTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, bool, error) {
	defer s.lock(ctx)()
	if txn.DedupKey != "" {
		if id, ok := s.dedup[txn.DedupKey]; ok {
			existing := s.transactions[id]
			return &existing, false, nil
		}
	}
	if _, ok := s.transactions[txn.TransactionID]; ok {
		return nil, false, fmt.Errorf("%w: transaction %s", apperrors.ErrDuplicate, txn.TransactionID)
	}
	s.transactions[txn.TransactionID] = txn
	if txn.DedupKey != "" {
		s.dedup[txn.DedupKey] = txn.TransactionID
	}
	return &txn, true, nil
}

func (s *Store) MarkTransactionRefunded(ctx context.Context, transactionID, refundTransactionID, actorID string, now time.Time) (*domain.Transaction, error) {
	defer s.lock(ctx)()
	t, ok := s.transactions[transactionID]
	if !ok {
		return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
	}
	if err := t.Refundable(); err != nil {
		return nil, err
	}
	t.Status = domain.StatusRefunded
	t.RefundTransactionID = refundTransactionID
	t.LastUpdatedAt = now
	t.LastUpdatedBy = actorID
	s.transactions[transactionID] = t
	return &t, nil
}
