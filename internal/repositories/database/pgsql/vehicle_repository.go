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

const vehicleColumns = `vehicle_id, plate_number, status, current_driver_id, current_driver_label, version,
	created_at, created_by, last_updated_at, last_updated_by`

// PgxVehicleRepository implements portsrepo.VehicleRepositoryFacade using pgx.
type PgxVehicleRepository struct {
	BaseRepository
}

func newPgxVehicleRepository(pool *pgxpool.Pool) portsrepo.VehicleRepositoryFacade {
	return &PgxVehicleRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.VehicleRepositoryFacade = (*PgxVehicleRepository)(nil)

func scanVehicle(row pgx.Row) (*domain.Vehicle, error) {
	var m models.Vehicle
	err := row.Scan(
		&m.VehicleID, &m.PlateNumber, &m.Status, &m.CurrentDriverID, &m.CurrentDriverLabel, &m.Version,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	v := mapping.ToDomainVehicle(m)
	return &v, nil
}

func (r *PgxVehicleRepository) FindVehicleByID(ctx context.Context, vehicleID string) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE vehicle_id = $1;`
	v, err := scanVehicle(r.conn(ctx).QueryRow(ctx, query, vehicleID))
	if err != nil {
		return nil, translateError("find vehicle "+vehicleID, err)
	}
	return v, nil
}

func (r *PgxVehicleRepository) FindVehicleByDriver(ctx context.Context, driverID string) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles
		WHERE current_driver_id = $1 AND status IN ('RESERVED', 'IN_USE');`
	v, err := scanVehicle(r.conn(ctx).QueryRow(ctx, query, driverID))
	if err != nil {
		return nil, translateError("find vehicle held by "+driverID, err)
	}
	return v, nil
}

func (r *PgxVehicleRepository) ListVehicles(ctx context.Context, status *domain.VehicleStatus) ([]domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles`
	var args []any
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, string(*status))
	}
	query += ` ORDER BY vehicle_id;`

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, translateError("list vehicles", err)
	}
	defer rows.Close()

	vehicles := []domain.Vehicle{}
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, translateError("scan vehicle", err)
		}
		vehicles = append(vehicles, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError("iterate vehicles", err)
	}
	return vehicles, nil
}

// CompareAndSwapVehicle writes next only when the stored version is unchanged. The partial
// unique index on current_driver_id rejects a second held vehicle for the same driver.
func (r *PgxVehicleRepository) CompareAndSwapVehicle(ctx context.Context, next domain.Vehicle) (*domain.Vehicle, error) {
	query := `
		UPDATE vehicles
		SET status = $3, current_driver_id = $4, current_driver_label = $5,
			version = version + 1, last_updated_at = NOW(), last_updated_by = $6
		WHERE vehicle_id = $1 AND version = $2
		RETURNING ` + vehicleColumns + `;
	`
	stored, err := scanVehicle(r.conn(ctx).QueryRow(ctx, query,
		next.VehicleID, next.Version, string(next.Status),
		mapping.NullableString(next.CurrentDriverID), mapping.NullableString(next.CurrentDriverLabel),
		next.LastUpdatedBy,
	))
	if err == nil {
		return stored, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, translateError("update vehicle "+next.VehicleID, err)
	}

	if _, err := r.FindVehicleByID(ctx, next.VehicleID); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%w: vehicle %s is no longer at version %d", apperrors.ErrConflict, next.VehicleID, next.Version)
}

// PgxDriverRepository implements portsrepo.DriverRepositoryFacade using pgx.
type PgxDriverRepository struct {
	BaseRepository
}

func newPgxDriverRepository(pool *pgxpool.Pool) portsrepo.DriverRepositoryFacade {
	return &PgxDriverRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.DriverRepositoryFacade = (*PgxDriverRepository)(nil)

func (r *PgxDriverRepository) FindDriverByID(ctx context.Context, driverID string) (*domain.Driver, error) {
	query := `
		SELECT driver_id, name, assigned_vehicle_id, created_at, created_by, last_updated_at, last_updated_by
		FROM drivers WHERE driver_id = $1;
	`
	var m models.Driver
	err := r.conn(ctx).QueryRow(ctx, query, driverID).Scan(
		&m.DriverID, &m.Name, &m.AssignedVehicleID,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, translateError("find driver "+driverID, err)
	}
	d := mapping.ToDomainDriver(m)
	return &d, nil
}

func (r *PgxDriverRepository) SetAssignedVehicle(ctx context.Context, driverID, vehicleID string) error {
	query := `
		UPDATE drivers
		SET assigned_vehicle_id = NULLIF($2, ''), last_updated_at = NOW()
		WHERE driver_id = $1;
	`
	tag, err := r.conn(ctx).Exec(ctx, query, driverID, vehicleID)
	if err != nil {
		return translateError("assign vehicle to driver "+driverID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: driver %s", apperrors.ErrNotFound, driverID)
	}
	return nil
}
