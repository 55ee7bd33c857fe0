package repositories

import (
	"context"

	"github.com/SscSPs/campus_fare_ledger/internal/core/domain"
)

// FareReader exposes configured route fares and global fare settings
type FareReader interface {
	FindRouteByID(ctx context.Context, routeID string) (*domain.Route, error)

	// GetFareSettings returns stored settings, or ErrNotFound when none are stored.
	GetFareSettings(ctx context.Context) (*domain.FareSettings, error)
}
