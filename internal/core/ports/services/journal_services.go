package services

import (
	"context"

	"github.com/SscSPs/campus_fare_ledger/internal/core/domain"
	"github.com/SscSPs/campus_fare_ledger/internal/dto"
)

// JournalReaderSvc defines read operations for journal records
type JournalReaderSvc interface {
	GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactionsByUser retrieves a page of a user's records, newest first.
	ListTransactionsByUser(ctx context.Context, userID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}

// JournalWriterSvc defines the append and refund-marking operations
type JournalWriterSvc interface {
	// RecordCompletedDebit appends a completed debit. A dedup key hit returns the stored record
	// with duplicate=true instead of writing.
	RecordCompletedDebit(ctx context.Context, entry domain.Transaction) (record *domain.Transaction, duplicate bool, err error)

	// RecordCredit appends a completed credit, deduplicated the same way when it carries a key.
	RecordCredit(ctx context.Context, entry domain.Transaction) (record *domain.Transaction, duplicate bool, err error)

	// MarkRefunded transitions a completed debit to REFUNDED exactly once.
	MarkRefunded(ctx context.Context, transactionID, refundTransactionID, actorID string) (*domain.Transaction, error)
}

// JournalSvcFacade combines all journal service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
