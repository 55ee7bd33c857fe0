package handlers_test

import (
	"context"

	"github.com/SscSPs/campus_fare_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/campus_fare_ledger/internal/core/ports/services"
	"github.com/SscSPs/campus_fare_ledger/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock FareService ---
type MockFareService struct {
	mock.Mock
}

func (m *MockFareService) Charge(ctx context.Context, req dto.ChargeRequest) (*domain.Receipt, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}

var _ portssvc.FareSvc = (*MockFareService)(nil)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) ApplyDelta(ctx context.Context, userID string, delta domain.Money, allowFloorBreach bool) (domain.BalanceChange, error) {
	args := m.Called(ctx, userID, delta, allowFloorBreach)
	return args.Get(0).(domain.BalanceChange), args.Error(1)
}

func (m *MockLedgerService) GetBalance(ctx context.Context, rfid string) (*domain.Account, domain.Money, error) {
	args := m.Called(ctx, rfid)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).(*domain.Account), args.Get(1).(domain.Money), args.Error(2)
}

func (m *MockLedgerService) FareSettings(ctx context.Context) (domain.FareSettings, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.FareSettings), args.Error(1)
}

var _ portssvc.LedgerSvc = (*MockLedgerService)(nil)

// --- Mock RefundService ---
type MockRefundService struct {
	mock.Mock
}

func (m *MockRefundService) RefundByIDs(ctx context.Context, transactionIDs []string, reason, actorID string) (*domain.RefundBatchResult, error) {
	args := m.Called(ctx, transactionIDs, reason, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RefundBatchResult), args.Error(1)
}

func (m *MockRefundService) RefundByCard(ctx context.Context, req dto.RefundByCardRequest, actorID string) (*domain.Receipt, error) {
	args := m.Called(ctx, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}

var _ portssvc.RefundSvc = (*MockRefundService)(nil)

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockJournalService) ListTransactionsByUser(ctx context.Context, userID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransactionsResponse), args.Error(1)
}

var _ portssvc.JournalReaderSvc = (*MockJournalService)(nil)

// --- Mock VehicleService ---
type MockVehicleService struct {
	mock.Mock
}

func (m *MockVehicleService) vehicle(args mock.Arguments) (*domain.Vehicle, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleService) GetVehicle(ctx context.Context, vehicleID string) (*domain.Vehicle, error) {
	return m.vehicle(m.Called(ctx, vehicleID))
}

func (m *MockVehicleService) ListVehicles(ctx context.Context, status *domain.VehicleStatus) ([]domain.Vehicle, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Vehicle), args.Error(1)
}

func (m *MockVehicleService) Reserve(ctx context.Context, vehicleID, driverID string) (*domain.Vehicle, error) {
	return m.vehicle(m.Called(ctx, vehicleID, driverID))
}

func (m *MockVehicleService) BeginTrip(ctx context.Context, vehicleID, driverID string) (*domain.Vehicle, error) {
	return m.vehicle(m.Called(ctx, vehicleID, driverID))
}

func (m *MockVehicleService) Release(ctx context.Context, vehicleID, driverID string) (*domain.Vehicle, error) {
	return m.vehicle(m.Called(ctx, vehicleID, driverID))
}

func (m *MockVehicleService) ReleaseByDriver(ctx context.Context, driverID string) (*domain.Vehicle, error) {
	return m.vehicle(m.Called(ctx, driverID))
}

func (m *MockVehicleService) EndTrip(ctx context.Context, vehicleID, driverID string) (*domain.Vehicle, error) {
	return m.vehicle(m.Called(ctx, vehicleID, driverID))
}

func (m *MockVehicleService) SetUnavailable(ctx context.Context, vehicleID, actorID string) (*domain.Vehicle, error) {
	return m.vehicle(m.Called(ctx, vehicleID, actorID))
}

func (m *MockVehicleService) SetAvailable(ctx context.Context, vehicleID, actorID string) (*domain.Vehicle, error) {
	return m.vehicle(m.Called(ctx, vehicleID, actorID))
}

var _ portssvc.VehicleSvcFacade = (*MockVehicleService)(nil)
