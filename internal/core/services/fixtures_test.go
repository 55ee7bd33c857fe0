package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/campus_fare_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/campus_fare_ledger/internal/core/ports/services"
	"github.com/SscSPs/campus_fare_ledger/internal/core/services"
	"github.com/SscSPs/campus_fare_ledger/internal/platform/config"
	"github.com/SscSPs/campus_fare_ledger/internal/repositories/memory"
	"github.com/stretchr/testify/mock"
)

// --- Mock Notifier ---
type MockNotifier struct {
	mock.Mock
	mu       sync.Mutex
	receipts []domain.ReceiptNotification
	changes  []domain.ChangeEvent
}

var _ portssvc.Notifier = (*MockNotifier)(nil)

func (m *MockNotifier) NotifyReceipt(ctx context.Context, n domain.ReceiptNotification) error {
	m.mu.Lock()
	m.receipts = append(m.receipts, n)
	m.mu.Unlock()
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotifier) PublishChange(ctx context.Context, e domain.ChangeEvent) error {
	m.mu.Lock()
	m.changes = append(m.changes, e)
	m.mu.Unlock()
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockNotifier) Receipts() []domain.ReceiptNotification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.ReceiptNotification(nil), m.receipts...)
}

func (m *MockNotifier) Changes() []domain.ChangeEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.ChangeEvent(nil), m.changes...)
}

// fixture wires every service to a seeded in-memory store.
type fixture struct {
	ctx      context.Context
	now      time.Time
	store    *memory.Store
	notifier *MockNotifier
	svc      *portssvc.ServiceContainer
}

func newFixture() *fixture {
	f := &fixture{
		ctx: context.Background(),
		now: time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC),
	}
	clock := func() time.Time { return f.now }

	f.store = memory.NewStore(memory.WithClock(clock))
	seed(f.ctx, f.store)

	f.notifier = new(MockNotifier)
	f.notifier.On("NotifyReceipt", mock.Anything, mock.Anything).Return(nil)
	f.notifier.On("PublishChange", mock.Anything, mock.Anything).Return(nil)

	cfg := &config.Config{DefaultFare: domain.MustParseMoney("15.00"), NotifyTimeout: time.Second}
	f.svc = services.NewServiceContainer(cfg, memory.NewRepositoryProvider(f.store), f.notifier, services.WithClock(clock))
	return f
}

func seed(ctx context.Context, s *memory.Store) {
	s.PutAccount(ctx, domain.Account{UserID: "U1", RFID: "CARD1", DisplayName: "Ana Cruz", Email: "ana@campus.edu", Balance: domain.MustParseMoney("100.00"), State: domain.AccountActive})
	s.PutAccount(ctx, domain.Account{UserID: "U2", RFID: "CARD2", DisplayName: "Ben Reyes", Balance: domain.MustParseMoney("-10.00"), State: domain.AccountActive})
	s.PutAccount(ctx, domain.Account{UserID: "U3", RFID: "CARD3", Balance: domain.MustParseMoney("50.00"), State: domain.AccountDeactivated})
	s.PutAccount(ctx, domain.Account{UserID: "U4", RFID: "CARD4", Balance: domain.MustParseMoney("50.00"), State: domain.AccountPendingActivation})

	s.PutVehicle(ctx, domain.Vehicle{VehicleID: "V1", PlateNumber: "ABC 123", Status: domain.VehicleAvailable})
	s.PutVehicle(ctx, domain.Vehicle{VehicleID: "V2", PlateNumber: "XYZ 789", Status: domain.VehicleAvailable})
	s.PutVehicle(ctx, domain.Vehicle{VehicleID: "V3", PlateNumber: "JKL 456", Status: domain.VehicleUnavailable})

	s.PutDriver(ctx, domain.Driver{DriverID: "D1", Name: "Juan"})
	s.PutDriver(ctx, domain.Driver{DriverID: "D2", Name: "Maria"})

	fare := domain.MustParseMoney("12.00")
	s.PutRoute(ctx, domain.Route{RouteID: "R1", Name: "Campus Loop", Fare: &fare})
	s.PutRoute(ctx, domain.Route{RouteID: "R2", Name: "Dorm Express"})
}

func (f *fixture) balance(userID string) domain.Money {
	acc, err := f.store.FindAccountByID(f.ctx, userID)
	if err != nil {
		panic(err)
	}
	return acc.Balance
}

const mockAny = mock.Anything

func ptr[T any](v T) *T {
	return &v
}
