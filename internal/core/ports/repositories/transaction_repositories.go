package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/campus_fare_ledger/internal/core/domain"
)

// TransactionReader defines read operations for journal records
type TransactionReader interface {
	// FindTransactionByID retrieves a record by its transaction ID.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// FindTransactionByDedupKey retrieves the record holding a dedup key.
	FindTransactionByDedupKey(ctx context.Context, dedupKey string) (*domain.Transaction, error)

	// ListTransactionsByUser retrieves a user's records newest first using token-based pagination.
	// It returns the records, a token for the next page, and an error.
	ListTransactionsByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}

// TransactionWriter defines the only mutations allowed on the journal
type TransactionWriter interface {
	// InsertTransaction appends a record. When its dedup key is already taken the existing
	// record is returned with inserted=false and nothing is written.
	InsertTransaction(ctx context.Context, txn domain.Transaction) (record *domain.Transaction, inserted bool, err error)

	// MarkTransactionRefunded moves a COMPLETED debit to REFUNDED exactly once.
	MarkTransactionRefunded(ctx context.Context, transactionID, refundTransactionID, actorID string, now time.Time) (*domain.Transaction, error)
}

// TransactionRepositoryFacade combines all journal repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
