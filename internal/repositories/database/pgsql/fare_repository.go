package pgsql

import (
	"context"

	"github.com/SscSPs/campus_fare_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/campus_fare_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/campus_fare_ledger/internal/models"
	"github.com/SscSPs/campus_fare_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxFareRepository reads route fares and the fare_settings singleton.
type PgxFareRepository struct {
	BaseRepository
}

func newPgxFareRepository(pool *pgxpool.Pool) portsrepo.FareReader {
	return &PgxFareRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.FareReader = (*PgxFareRepository)(nil)

func (r *PgxFareRepository) FindRouteByID(ctx context.Context, routeID string) (*domain.Route, error) {
	var m models.Route
	err := r.conn(ctx).QueryRow(ctx, `SELECT route_id, name, fare FROM routes WHERE route_id = $1;`, routeID).
		Scan(&m.RouteID, &m.Name, &m.Fare)
	if err != nil {
		return nil, translateError("find route "+routeID, err)
	}
	route := mapping.ToDomainRoute(m)
	return &route, nil
}

func (r *PgxFareRepository) GetFareSettings(ctx context.Context) (*domain.FareSettings, error) {
	var m models.FareSettings
	err := r.conn(ctx).QueryRow(ctx, `SELECT default_fare, floor FROM fare_settings WHERE id = 1;`).
		Scan(&m.DefaultFare, &m.Floor)
	if err != nil {
		return nil, translateError("get fare settings", err)
	}
	settings := mapping.ToDomainFareSettings(m)
	return &settings, nil
}
