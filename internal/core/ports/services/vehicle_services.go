package services

import (
	"context"

	"github.com/SscSPs/campus_fare_ledger/internal/core/domain"
)

// VehicleReaderSvc defines read operations for vehicles
type VehicleReaderSvc interface {
	GetVehicle(ctx context.Context, vehicleID string) (*domain.Vehicle, error)
	ListVehicles(ctx context.Context, status *domain.VehicleStatus) ([]domain.Vehicle, error)
}

// VehicleAssignmentSvc defines the driver-facing possession transitions
type VehicleAssignmentSvc interface {
	Reserve(ctx context.Context, vehicleID, driverID string) (*domain.Vehicle, error)
	BeginTrip(ctx context.Context, vehicleID, driverID string) (*domain.Vehicle, error)

	// Release frees a vehicle. An empty driverID skips the holder check.
	Release(ctx context.Context, vehicleID, driverID string) (*domain.Vehicle, error)

	// ReleaseByDriver frees whatever vehicle driverID holds. It returns nil when none is held.
	ReleaseByDriver(ctx context.Context, driverID string) (*domain.Vehicle, error)

	// EndTrip is the trip-completion hook; it releases the vehicle held by driverID.
	EndTrip(ctx context.Context, vehicleID, driverID string) (*domain.Vehicle, error)
}

// VehicleAdminSvc defines administrator-only transitions
type VehicleAdminSvc interface {
	SetUnavailable(ctx context.Context, vehicleID, actorID string) (*domain.Vehicle, error)
	SetAvailable(ctx context.Context, vehicleID, actorID string) (*domain.Vehicle, error)
}

// VehicleSvcFacade combines all vehicle service interfaces
type VehicleSvcFacade interface {
	VehicleReaderSvc
	VehicleAssignmentSvc
	VehicleAdminSvc
}
