// Package memory provides an in-process implementation of every repository port.
// It backs STORE_DRIVER=memory and the service tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/campus_fare_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/campus_fare_ledger/internal/core/ports/repositories"
)

// Store keeps all state behind one mutex. RunInTx holds that mutex for the whole unit of
// work and restores a snapshot when the work fails.
type Store struct {
	mu  sync.Mutex
	now func() time.Time

	state
}

type state struct {
	accounts     map[string]domain.Account
	rfidIndex    map[string]string
	transactions map[string]domain.Transaction
	dedup        map[string]string
	vehicles     map[string]domain.Vehicle
	drivers      map[string]domain.Driver
	routes       map[string]domain.Route
	settings     *domain.FareSettings
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides time.Now for audit timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		now: time.Now,
		state: state{
			accounts:     make(map[string]domain.Account),
			rfidIndex:    make(map[string]string),
			transactions: make(map[string]domain.Transaction),
			dedup:        make(map[string]string),
			vehicles:     make(map[string]domain.Vehicle),
			drivers:      make(map[string]domain.Driver),
			routes:       make(map[string]domain.Route),
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewRepositoryProvider exposes s through every repository port.
func NewRepositoryProvider(s *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     s,
		TransactionRepo: s,
		VehicleRepo:     s,
		DriverRepo:      s,
		FareRepo:        s,
		UnitOfWork:      s,
	}
}

var (
	_ portsrepo.AccountRepositoryFacade     = (*Store)(nil)
	_ portsrepo.TransactionRepositoryFacade = (*Store)(nil)
	_ portsrepo.VehicleRepositoryFacade     = (*Store)(nil)
	_ portsrepo.DriverRepositoryFacade      = (*Store)(nil)
	_ portsrepo.FareReader                  = (*Store)(nil)
	_ portsrepo.UnitOfWork                  = (*Store)(nil)
)

type txKey struct{}

// RunInTx serializes fn against every other store access.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.state = snap
		return err
	}
	return nil
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// lock takes the mutex unless ctx already runs inside this store's transaction.
func (s *Store) lock(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) snapshot() state {
	snap := state{
		accounts:     make(map[string]domain.Account, len(s.accounts)),
		rfidIndex:    make(map[string]string, len(s.rfidIndex)),
		transactions: make(map[string]domain.Transaction, len(s.transactions)),
		dedup:        make(map[string]string, len(s.dedup)),
		vehicles:     make(map[string]domain.Vehicle, len(s.vehicles)),
		drivers:      make(map[string]domain.Driver, len(s.drivers)),
		routes:       make(map[string]domain.Route, len(s.routes)),
	}
	for k, v := range s.accounts {
		snap.accounts[k] = v
	}
	for k, v := range s.rfidIndex {
		snap.rfidIndex[k] = v
	}
	for k, v := range s.transactions {
		snap.transactions[k] = v
	}
	for k, v := range s.dedup {
		snap.dedup[k] = v
	}
	for k, v := range s.vehicles {
		snap.vehicles[k] = v
	}
	for k, v := range s.drivers {
		snap.drivers[k] = v
	}
	for k, v := range s.routes {
		snap.routes[k] = v
	}
	if s.settings != nil {
		settings := *s.settings
		snap.settings = &settings
	}
	return snap
}
