package pgsql

import (
	portsrepo "github.com/SscSPs/campus_fare_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     newPgxAccountRepository(dbPool),
		TransactionRepo: newPgxTransactionRepository(dbPool),
		VehicleRepo:     newPgxVehicleRepository(dbPool),
		DriverRepo:      newPgxDriverRepository(dbPool),
		FareRepo:        newPgxFareRepository(dbPool),
		UnitOfWork:      newPgxUnitOfWork(dbPool),
	}
}
