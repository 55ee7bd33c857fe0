package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/campus_fare_ledger/internal/apperrors"
	"github.com/SscSPs/campus_fare_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/campus_fare_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/campus_fare_ledger/internal/core/ports/services"
	"github.com/SscSPs/campus_fare_ledger/internal/platform/metrics"
)

// maxTransitionAttempts bounds reload-and-retry after a lost compare-and-swap.
const maxTransitionAttempts = 3

const (
	actionReserve     = "reserve"
	actionBeginTrip   = "begin_trip"
	actionRelease     = "release"
	actionEndTrip     = "end_trip"
	actionUnavailable = "mark_unavailable"
	actionAvailable   = "mark_available"
)

// vehicleService coordinates driver possession of vehicles.
type vehicleService struct {
	BaseService
	uow      portsrepo.UnitOfWork
	vehicles portsrepo.VehicleRepositoryFacade
	drivers  portsrepo.DriverRepositoryFacade
}

// NewVehicleService creates a new VehicleSvcFacade.
func NewVehicleService(repos portsrepo.RepositoryProvider, opts ...ServiceOption) portssvc.VehicleSvcFacade {
	return &vehicleService{
		BaseService: newBaseService(opts...),
		uow:         repos.UnitOfWork,
		vehicles:    repos.VehicleRepo,
		drivers:     repos.DriverRepo,
	}
}

var _ portssvc.VehicleSvcFacade = (*vehicleService)(nil)

type transitionFunc func(v domain.Vehicle) (domain.Vehicle, bool, error)

func (s *vehicleService) GetVehicle(ctx context.Context, vehicleID string) (*domain.Vehicle, error) {
	return s.vehicles.FindVehicleByID(ctx, vehicleID)
}

func (s *vehicleService) ListVehicles(ctx context.Context, status *domain.VehicleStatus) ([]domain.Vehicle, error) {
	if status != nil && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown vehicle status %q", apperrors.ErrValidation, *status)
	}
	return s.vehicles.ListVehicles(ctx, status)
}

func (s *vehicleService) Reserve(ctx context.Context, vehicleID, driverID string) (*domain.Vehicle, error) {
	if err := requireIDs(vehicleID, driverID); err != nil {
		return nil, err
	}

	held, err := s.vehicles.FindVehicleByDriver(ctx, driverID)
	switch {
	case err == nil && held.VehicleID != vehicleID:
		err = fmt.Errorf("%w: driver %s already holds vehicle %s", apperrors.ErrDriverAlreadyAssigned, driverID, held.VehicleID)
		metrics.RecordVehicleTransition(actionReserve, strings.ToLower(apperrors.Kind(err)))
		return nil, err
	case err != nil && !errors.Is(err, apperrors.ErrNotFound):
		return nil, err
	}

	label := ""
	if d, err := s.drivers.FindDriverByID(ctx, driverID); err == nil {
		label = d.Name
	}

	return s.transition(ctx, actionReserve, vehicleID, driverID, func(v domain.Vehicle) (domain.Vehicle, bool, error) {
		return v.Reserve(driverID, label)
	})
}

func (s *vehicleService) BeginTrip(ctx context.Context, vehicleID, driverID string) (*domain.Vehicle, error) {
	if err := requireIDs(vehicleID, driverID); err != nil {
		return nil, err
	}
	return s.transition(ctx, actionBeginTrip, vehicleID, driverID, func(v domain.Vehicle) (domain.Vehicle, bool, error) {
		return v.BeginTrip(driverID)
	})
}

func (s *vehicleService) Release(ctx context.Context, vehicleID, driverID string) (*domain.Vehicle, error) {
	if err := requireIDs(vehicleID); err != nil {
		return nil, err
	}
	return s.transition(ctx, actionRelease, vehicleID, driverID, func(v domain.Vehicle) (domain.Vehicle, bool, error) {
		return v.Release(driverID)
	})
}

func (s *vehicleService) EndTrip(ctx context.Context, vehicleID, driverID string) (*domain.Vehicle, error) {
	if err := requireIDs(vehicleID, driverID); err != nil {
		return nil, err
	}
	return s.transition(ctx, actionEndTrip, vehicleID, driverID, func(v domain.Vehicle) (domain.Vehicle, bool, error) {
		return v.Release(driverID)
	})
}

func (s *vehicleService) ReleaseByDriver(ctx context.Context, driverID string) (*domain.Vehicle, error) {
	if err := requireIDs(driverID); err != nil {
		return nil, err
	}

	held, err := s.vehicles.FindVehicleByDriver(ctx, driverID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogDebug(ctx, "Driver holds no vehicle", slog.String("driver_id", driverID))
			return nil, nil
		}
		return nil, err
	}

	v, err := s.Release(ctx, held.VehicleID, driverID)
	if errors.Is(err, apperrors.ErrNotAssignedToDriver) {
		// Someone else released and re-reserved it in the meantime.
		return nil, nil
	}
	return v, err
}

func (s *vehicleService) SetUnavailable(ctx context.Context, vehicleID, actorID string) (*domain.Vehicle, error) {
	if err := requireIDs(vehicleID); err != nil {
		return nil, err
	}
	return s.transition(ctx, actionUnavailable, vehicleID, actorID, domain.Vehicle.MarkUnavailable)
}

func (s *vehicleService) SetAvailable(ctx context.Context, vehicleID, actorID string) (*domain.Vehicle, error) {
	if err := requireIDs(vehicleID); err != nil {
		return nil, err
	}
	return s.transition(ctx, actionAvailable, vehicleID, actorID, domain.Vehicle.MarkAvailable)
}

// transition loads the vehicle, applies step and persists the result with a compare-and-swap.
// A lost race reloads and reapplies step so the caller sees the winner's state.
func (s *vehicleService) transition(ctx context.Context, action, vehicleID, actorID string, step transitionFunc) (*domain.Vehicle, error) {
	logger := s.GetLogger(ctx).With(slog.String("vehicle_id", vehicleID), slog.String("action", action))

	for attempt := 1; attempt <= maxTransitionAttempts; attempt++ {
		current, err := s.vehicles.FindVehicleByID(ctx, vehicleID)
		if err != nil {
			metrics.RecordVehicleTransition(action, strings.ToLower(apperrors.Kind(err)))
			return nil, err
		}

		next, changed, err := step(*current)
		if err != nil {
			metrics.RecordVehicleTransition(action, strings.ToLower(apperrors.Kind(err)))
			logger.Warn("Vehicle transition rejected", slog.String("error", err.Error()))
			return nil, err
		}
		if !changed {
			metrics.RecordVehicleTransition(action, "noop")
			return current, nil
		}
		next.LastUpdatedBy = actorID

		var stored *domain.Vehicle
		err = s.uow.RunInTx(ctx, func(txCtx context.Context) error {
			swapped, err := s.vehicles.CompareAndSwapVehicle(txCtx, next)
			if err != nil {
				return err
			}
			stored = swapped
			return s.syncDrivers(txCtx, *current, *swapped)
		})
		if errors.Is(err, apperrors.ErrConflict) {
			logger.Debug("Vehicle changed concurrently, retrying", slog.Int("attempt", attempt))
			continue
		}
		if err != nil {
			metrics.RecordVehicleTransition(action, strings.ToLower(apperrors.Kind(err)))
			if !errors.Is(err, apperrors.ErrDriverAlreadyAssigned) {
				logger.Error("Failed to persist vehicle transition", slog.String("error", err.Error()))
			}
			return nil, err
		}

		metrics.RecordVehicleTransition(action, "completed")
		logger.Info("Vehicle transitioned",
			slog.String("from", string(current.Status)),
			slog.String("to", string(stored.Status)),
			slog.String("driver_id", stored.CurrentDriverID))
		s.publishVehicle(ctx, action, *stored)
		return stored, nil
	}

	err := fmt.Errorf("%w: vehicle %s kept changing during %s", apperrors.ErrConflict, vehicleID, action)
	metrics.RecordVehicleTransition(action, "conflict")
	logger.Warn("Vehicle transition gave up", slog.String("error", err.Error()))
	return nil, err
}

// syncDrivers keeps the drivers' weak back-references in line with the vehicle record.
func (s *vehicleService) syncDrivers(ctx context.Context, before, after domain.Vehicle) error {
	if before.CurrentDriverID == after.CurrentDriverID {
		return nil
	}
	if before.CurrentDriverID != "" {
		if err := s.setAssigned(ctx, before.CurrentDriverID, ""); err != nil {
			return err
		}
	}
	if after.CurrentDriverID != "" {
		return s.setAssigned(ctx, after.CurrentDriverID, after.VehicleID)
	}
	return nil
}

func (s *vehicleService) setAssigned(ctx context.Context, driverID, vehicleID string) error {
	err := s.drivers.SetAssignedVehicle(ctx, driverID, vehicleID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil
	}
	return err
}

func (s *vehicleService) publishVehicle(ctx context.Context, action string, v domain.Vehicle) {
	s.dispatch(ctx, "change", func(ctx context.Context, n portssvc.Notifier) error {
		return n.PublishChange(ctx, domain.ChangeEvent{
			Entity: domain.EntityVehicle,
			ID:     v.VehicleID,
			Action: action,
			Status: string(v.Status),
			At:     v.LastUpdatedAt,
		})
	})
}

func requireIDs(ids ...string) error {
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("%w: vehicle and driver IDs must not be empty", apperrors.ErrValidation)
		}
	}
	return nil
}
