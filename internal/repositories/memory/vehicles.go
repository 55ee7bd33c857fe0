package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/campus_fare_ledger/internal/apperrors"
	"github.com/SscSPs/campus_fare_ledger/internal/core/domain"
)

// PutVehicle creates or replaces a vehicle for seeding.
func (s *Store) PutVehicle(ctx context.Context, v domain.Vehicle) {
	defer s.lock(ctx)()
	s.vehicles[v.VehicleID] = v
}

// PutDriver creates or replaces a driver for seeding.
func (s *Store) PutDriver(ctx context.Context, d domain.Driver) {
	defer s.lock(ctx)()
	s.drivers[d.DriverID] = d
}

func (s *Store) FindVehicleByID(ctx context.Context, vehicleID string) (*domain.Vehicle, error) {
	defer s.lock(ctx)()
	v, ok := s.vehicles[vehicleID]
	if !ok {
		return nil, fmt.Errorf("%w: vehicle %s", apperrors.ErrNotFound, vehicleID)
	}
	return &v, nil
}

func (s *Store) FindVehicleByDriver(ctx context.Context, driverID string) (*domain.Vehicle, error) {
	defer s.lock(ctx)()
	if v, ok := s.heldBy(driverID, ""); ok {
		return &v, nil
	}
	return nil, fmt.Errorf("%w: no vehicle held by driver %s", apperrors.ErrNotFound, driverID)
}

func (s *Store) heldBy(driverID, exceptVehicleID string) (domain.Vehicle, bool) {
	for id, v := range s.vehicles {
		if id != exceptVehicleID && v.Status.Held() && v.CurrentDriverID == driverID {
			return v, true
		}
	}
	return domain.Vehicle{}, false
}

func (s *Store) ListVehicles(ctx context.Context, status *domain.VehicleStatus) ([]domain.Vehicle, error) {
	defer s.lock(ctx)()
	out := make([]domain.Vehicle, 0, len(s.vehicles))
	for _, v := range s.vehicles {
		if status != nil && v.Status != *status {
			continue
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VehicleID < out[j].VehicleID })
	return out, nil
}

func (s *Store) CompareAndSwapVehicle(ctx context.Context, next domain.Vehicle) (*domain.Vehicle, error) {
	defer s.lock(ctx)()
	cur, ok := s.vehicles[next.VehicleID]
	if !ok {
		return nil, fmt.Errorf("%w: vehicle %s", apperrors.ErrNotFound, next.VehicleID)
	}
	if cur.Version != next.Version {
		return nil, fmt.Errorf("%w: vehicle %s changed (version %d, expected %d)", apperrors.ErrConflict, next.VehicleID, cur.Version, next.Version)
	}
	if next.Status.Held() {
		if other, held := s.heldBy(next.CurrentDriverID, next.VehicleID); held {
			return nil, fmt.Errorf("%w: driver %s holds vehicle %s", apperrors.ErrDriverAlreadyAssigned, next.CurrentDriverID, other.VehicleID)
		}
	}
	next.Version = cur.Version + 1
	next.LastUpdatedAt = s.now()
	s.vehicles[next.VehicleID] = next
	return &next, nil
}

func (s *Store) FindDriverByID(ctx context.Context, driverID string) (*domain.Driver, error) {
	defer s.lock(ctx)()
	d, ok := s.drivers[driverID]
	if !ok {
		return nil, fmt.Errorf("%w: driver %s", apperrors.ErrNotFound, driverID)
	}
	return &d, nil
}

func (s *Store) SetAssignedVehicle(ctx context.Context, driverID, vehicleID string) error {
	defer s.lock(ctx)()
	d, ok := s.drivers[driverID]
	if !ok {
		return fmt.Errorf("%w: driver %s", apperrors.ErrNotFound, driverID)
	}
	d.AssignedVehicleID = vehicleID
	d.LastUpdatedAt = s.now()
	s.drivers[driverID] = d
	return nil
}
