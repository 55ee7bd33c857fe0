package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/SscSPs/campus_fare_ledger/internal/apperrors"
	"github.com/SscSPs/campus_fare_ledger/internal/core/domain"
	"github.com/google/uuid"
)

// PutRoute creates or replaces a route for seeding.
func (s *Store) PutRoute(ctx context.Context, r domain.Route) {
	defer s.lock(ctx)()
	s.routes[r.RouteID] = r
}

// PutFareSettings stores global fare settings.
func (s *Store) PutFareSettings(ctx context.Context, settings domain.FareSettings) {
	defer s.lock(ctx)()
	s.settings = &settings
}

func (s *Store) FindRouteByID(ctx context.Context, routeID string) (*domain.Route, error) {
	defer s.lock(ctx)()
	r, ok := s.routes[routeID]
	if !ok {
		return nil, fmt.Errorf("%w: route %s", apperrors.ErrNotFound, routeID)
	}
	return &r, nil
}

func (s *Store) GetFareSettings(ctx context.Context) (*domain.FareSettings, error) {
	defer s.lock(ctx)()
	if s.settings == nil {
		return nil, fmt.Errorf("%w: fare settings", apperrors.ErrNotFound)
	}
	settings := *s.settings
	return &settings, nil
}

// Seed is the JSON document accepted by LoadSeed.
type Seed struct {
	Accounts     []domain.Account     `json:"accounts"`
	Vehicles     []domain.Vehicle     `json:"vehicles"`
	Drivers      []domain.Driver      `json:"drivers"`
	Routes       []domain.Route       `json:"routes"`
	FareSettings *domain.FareSettings `json:"fareSettings"`
}

// LoadSeed populates s from a JSON Seed document.
func (s *Store) LoadSeed(ctx context.Context, r io.Reader) error {
	var seed Seed
	if err := json.NewDecoder(r).Decode(&seed); err != nil {
		return fmt.Errorf("failed to decode seed: %w", err)
	}
	for _, a := range seed.Accounts {
		if a.UserID == "" {
			a.UserID = uuid.NewString()
		}
		if a.State == "" {
			a.State = domain.AccountActive
		}
		s.PutAccount(ctx, a)
	}
	heldBy := make(map[string]string)
	for _, v := range seed.Vehicles {
		if v.VehicleID == "" {
			v.VehicleID = uuid.NewString()
		}
		if v.Status == "" {
			v.Status = domain.VehicleAvailable
		}
		if err := v.Validate(); err != nil {
			return err
		}
		if v.CurrentDriverID != "" {
			if other, ok := heldBy[v.CurrentDriverID]; ok {
				return fmt.Errorf("%w: driver %s holds both %s and %s", apperrors.ErrValidation, v.CurrentDriverID, other, v.VehicleID)
			}
			heldBy[v.CurrentDriverID] = v.VehicleID
		}
		s.PutVehicle(ctx, v)
	}
	for _, d := range seed.Drivers {
		s.PutDriver(ctx, d)
	}
	for _, r := range seed.Routes {
		s.PutRoute(ctx, r)
	}
	if seed.FareSettings != nil {
		s.PutFareSettings(ctx, *seed.FareSettings)
	}
	return nil
}
