package services

import (
	portsrepo "github.com/SscSPs/campus_fare_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/campus_fare_ledger/internal/core/ports/services"
	"github.com/SscSPs/campus_fare_ledger/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, notifier portssvc.Notifier, opts ...ServiceOption) *portssvc.ServiceContainer {
	opts = append([]ServiceOption{WithNotifier(notifier), WithNotifyTimeout(cfg.NotifyTimeout)}, opts...)

	container := &portssvc.ServiceContainer{}

	// The ledger and journal are shared by the fare and refund processors
	container.Ledger = NewLedgerService(repos.AccountRepo, repos.FareRepo, cfg.FareSettings(), opts...)
	container.Journal = NewJournalService(repos.TransactionRepo, opts...)

	container.Fare = NewFareService(repos, container.Ledger, container.Journal, opts...)
	container.Refund = NewRefundService(repos, container.Ledger, container.Journal, opts...)
	container.Vehicle = NewVehicleService(repos, opts...)

	return container
}
