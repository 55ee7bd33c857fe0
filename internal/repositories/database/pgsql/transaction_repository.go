package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/SscSPs/campus_fare_ledger/internal/apperrors"
	"github.com/SscSPs/campus_fare_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/campus_fare_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/campus_fare_ledger/internal/models"
	"github.com/SscSPs/campus_fare_ledger/internal/utils/mapping"
	"github.com/SscSPs/campus_fare_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionColumns = `transaction_id, type, amount, previous_balance, resulting_balance, status,
	subject_user_id, rfid, vehicle_id, plate_number, route_id, driver_id, merchant_id,
	device_timestamp, dedup_key, offline, original_transaction_id, refund_transaction_id, reason,
	created_at, created_by, last_updated_at, last_updated_by`

// PgxTransactionRepository implements the append-only journal using pgx.
type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for journal records.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID, &m.Type, &m.Amount, &m.PreviousBalance, &m.ResultingBalance, &m.Status,
		&m.SubjectUserID, &m.RFID, &m.VehicleID, &m.PlateNumber, &m.RouteID, &m.DriverID, &m.MerchantID,
		&m.DeviceTimestamp, &m.DedupKey, &m.Offline, &m.OriginalTransactionID, &m.RefundTransactionID, &m.Reason,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`
	txn, err := scanTransaction(r.conn(ctx).QueryRow(ctx, query, transactionID))
	if err != nil {
		return nil, translateError("find transaction "+transactionID, err)
	}
	return txn, nil
}

func (r *PgxTransactionRepository) FindTransactionByDedupKey(ctx context.Context, dedupKey string) (*domain.Transaction, error) {
	if dedupKey == "" {
		return nil, fmt.Errorf("%w: empty dedup key", apperrors.ErrNotFound)
	}
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE dedup_key = $1;`
	txn, err := scanTransaction(r.conn(ctx).QueryRow(ctx, query, dedupKey))
	if err != nil {
		return nil, translateError("find transaction by dedup key", err)
	}
	return txn, nil
}

// InsertTransaction relies on the partial unique index on dedup_key; a conflicting insert
// writes nothing and the stored record is returned instead.
func (r *PgxTransactionRepository) InsertTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, bool, error) {
	m := mapping.ToModelTransaction(txn)
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
		ON CONFLICT (dedup_key) WHERE dedup_key IS NOT NULL DO NOTHING
		RETURNING ` + transactionColumns + `;
	`
	stored, err := scanTransaction(r.conn(ctx).QueryRow(ctx, query,
		m.TransactionID, m.Type, m.Amount, m.PreviousBalance, m.ResultingBalance, m.Status,
		m.SubjectUserID, m.RFID, m.VehicleID, m.PlateNumber, m.RouteID, m.DriverID, m.MerchantID,
		m.DeviceTimestamp, m.DedupKey, m.Offline, m.OriginalTransactionID, m.RefundTransactionID, m.Reason,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	))
	if err == nil {
		return stored, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) || m.DedupKey == nil {
		return nil, false, translateError("insert transaction "+txn.TransactionID, err)
	}

	existing, err := r.FindTransactionByDedupKey(ctx, *m.DedupKey)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *PgxTransactionRepository) MarkTransactionRefunded(ctx context.Context, transactionID, refundTransactionID, actorID string, now time.Time) (*domain.Transaction, error) {
	query := `
		UPDATE transactions
		SET status = 'REFUNDED', refund_transaction_id = $2, last_updated_by = $3, last_updated_at = $4
		WHERE transaction_id = $1 AND status = 'COMPLETED' AND type = 'DEBIT'
		RETURNING ` + transactionColumns + `;
	`
	txn, err := scanTransaction(r.conn(ctx).QueryRow(ctx, query, transactionID, refundTransactionID, actorID, now))
	if err == nil {
		return txn, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, translateError("mark transaction refunded "+transactionID, err)
	}

	current, err := r.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if err := current.Refundable(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%w: transaction %s changed during refund", apperrors.ErrConflict, transactionID)
}

// ListTransactionsByUser retrieves a page of a user's records, newest first, using the
// (created_at, transaction_id) keyset.
func (r *PgxTransactionRepository) ListTransactionsByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	limit = pagination.NormalizeLimit(limit)
	args := []any{userID}
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE subject_user_id = $1`

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %w", apperrors.ErrValidation, err)
		}
		args = append(args, lastCreatedAt, lastID)
		query += ` AND (created_at, transaction_id) < ($2, $3)`
	}
	args = append(args, limit+1)
	query += ` ORDER BY created_at DESC, transaction_id DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, nil, translateError("list transactions for "+userID, err)
	}
	defer rows.Close()

	results := make([]domain.Transaction, 0, limit+1)
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, translateError("scan transaction", err)
		}
		results = append(results, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, translateError("iterate transactions", err)
	}

	var nextTokenVal *string
	if len(results) > limit {
		results = results[:limit]
		last := results[len(results)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.TransactionID)
		nextTokenVal = &token
	}
	return results, nextTokenVal, nil
}
