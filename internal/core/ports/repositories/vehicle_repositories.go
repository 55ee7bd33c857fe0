package repositories

import (
	"context"

	"github.com/SscSPs/campus_fare_ledger/internal/core/domain"
)

// VehicleReader defines read operations for vehicle records
type VehicleReader interface {
	FindVehicleByID(ctx context.Context, vehicleID string) (*domain.Vehicle, error)

	// FindVehicleByDriver returns the vehicle driverID holds in RESERVED or IN_USE, or ErrNotFound.
	FindVehicleByDriver(ctx context.Context, driverID string) (*domain.Vehicle, error)

	// ListVehicles lists vehicles, optionally filtered by status.
	ListVehicles(ctx context.Context, status *domain.VehicleStatus) ([]domain.Vehicle, error)
}

// VehicleWriter persists coordinator transitions
type VehicleWriter interface {
	// CompareAndSwapVehicle stores next only if the stored version still equals next.Version.
	// A stale version fails with ErrConflict; a driver already holding another vehicle fails
	// with ErrDriverAlreadyAssigned. The stored record is returned with its new version.
	CompareAndSwapVehicle(ctx context.Context, next domain.Vehicle) (*domain.Vehicle, error)
}

// VehicleRepositoryFacade combines all vehicle repository interfaces
type VehicleRepositoryFacade interface {
	VehicleReader
	VehicleWriter
}

// DriverRepositoryFacade reads drivers and maintains their vehicle back-reference
type DriverRepositoryFacade interface {
	FindDriverByID(ctx context.Context, driverID string) (*domain.Driver, error)

	// SetAssignedVehicle overwrites the back-reference; an empty vehicleID clears it.
	SetAssignedVehicle(ctx context.Context, driverID, vehicleID string) error
}
