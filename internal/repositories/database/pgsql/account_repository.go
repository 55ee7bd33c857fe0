package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/campus_fare_ledger/internal/apperrors"
	"github.com/SscSPs/campus_fare_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/campus_fare_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/campus_fare_ledger/internal/models"
	"github.com/SscSPs/campus_fare_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountColumns = `user_id, rfid, display_name, email, balance, state,
	created_at, created_by, last_updated_at, last_updated_by`

// PgxAccountRepository implements portsrepo.AccountRepositoryFacade using pgx.
type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for card holder accounts.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.UserID, &m.RFID, &m.DisplayName, &m.Email, &m.Balance, &m.State,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, userID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1;`
	acc, err := scanAccount(r.conn(ctx).QueryRow(ctx, query, userID))
	if err != nil {
		return nil, translateError("find account "+userID, err)
	}
	return acc, nil
}

func (r *PgxAccountRepository) FindAccountByRFID(ctx context.Context, rfid string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE rfid = $1;`
	acc, err := scanAccount(r.conn(ctx).QueryRow(ctx, query, rfid))
	if err != nil {
		return nil, translateError("find account by card "+rfid, err)
	}
	return acc, nil
}

// ApplyBalanceDelta performs the floor check and the mutation in one statement so concurrent
// debits on the same account serialize on the row lock.
func (r *PgxAccountRepository) ApplyBalanceDelta(ctx context.Context, userID string, delta, floor domain.Money, allowFloorBreach bool) (domain.BalanceChange, error) {
	query := `
		UPDATE accounts
		SET balance = balance + $2, last_updated_at = NOW()
		WHERE user_id = $1 AND ($4 OR $2 >= 0 OR balance + $2 >= $3)
		RETURNING balance;
	`
	var newBalance int64
	err := r.conn(ctx).QueryRow(ctx, query, userID, int64(delta), int64(floor), allowFloorBreach).Scan(&newBalance)
	if err == nil {
		return domain.BalanceChange{
			UserID:   userID,
			Previous: domain.Money(newBalance) - delta,
			New:      domain.Money(newBalance),
		}, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.BalanceChange{}, translateError("apply balance delta for "+userID, err)
	}

	// Zero rows: either no such account or the floor rejected the debit.
	var current int64
	err = r.conn(ctx).QueryRow(ctx, `SELECT balance FROM accounts WHERE user_id = $1;`, userID).Scan(&current)
	if err != nil {
		return domain.BalanceChange{}, translateError("find account "+userID, err)
	}
	return domain.BalanceChange{}, fmt.Errorf("%w: balance %s minus %s is below %s",
		apperrors.ErrInsufficientBalance, domain.Money(current), -delta, floor)
}
