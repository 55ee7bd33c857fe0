package services_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/campus_fare_ledger/internal/apperrors"
	"github.com/SscSPs/campus_fare_ledger/internal/core/domain"
	"github.com/SscSPs/campus_fare_ledger/internal/dto"
	"github.com/stretchr/testify/suite"
)

type FareServiceTestSuite struct {
	suite.Suite
	f *fixture
}

func (suite *FareServiceTestSuite) SetupTest() {
	suite.f = newFixture()
}

func (suite *FareServiceTestSuite) charge(req dto.ChargeRequest) (*domain.Receipt, error) {
	return suite.f.svc.Fare.Charge(suite.f.ctx, req)
}

func (suite *FareServiceTestSuite) TestCharge_DefaultFare() {
	receipt, err := suite.charge(dto.ChargeRequest{RFID: "CARD1", VehicleID: "V1"})
	suite.Require().NoError(err)

	suite.Equal(domain.MustParseMoney("100.00"), receipt.PreviousBalance)
	suite.Equal(domain.MustParseMoney("15.00"), receipt.Amount)
	suite.Equal(domain.MustParseMoney("85.00"), receipt.NewBalance)
	suite.Equal("ABC 123", receipt.PlateNumber)
	suite.False(receipt.Duplicate)
	suite.False(receipt.Offline)
	suite.Regexp(`^TXN20240301[0-9a-f]{8}$`, receipt.TransactionID)
	suite.Equal(domain.MustParseMoney("85.00"), suite.f.balance("U1"))

	record, err := suite.f.svc.Journal.GetTransaction(suite.f.ctx, receipt.TransactionID)
	suite.Require().NoError(err)
	suite.Equal(domain.Debit, record.Type)
	suite.Equal(domain.StatusCompleted, record.Status)
	suite.Equal("U1", record.SubjectUserID)
	suite.Equal(domain.MustParseMoney("85.00"), record.ResultingBalance)
}

func (suite *FareServiceTestSuite) TestCharge_FareResolution() {
	receipt, err := suite.charge(dto.ChargeRequest{RFID: "CARD1", VehicleID: "V1", RouteID: "R1"})
	suite.Require().NoError(err)
	suite.Equal(domain.MustParseMoney("12.00"), receipt.Amount)

	receipt, err = suite.charge(dto.ChargeRequest{RFID: "CARD1", VehicleID: "V1", RouteID: "R2"})
	suite.Require().NoError(err)
	suite.Equal(domain.MustParseMoney("15.00"), receipt.Amount, "route without a fare uses the default")

	receipt, err = suite.charge(dto.ChargeRequest{RFID: "CARD1", VehicleID: "V1", RouteID: "R1", FareAmount: ptr(domain.MustParseMoney("20.00"))})
	suite.Require().NoError(err)
	suite.Equal(domain.MustParseMoney("20.00"), receipt.Amount)

	_, err = suite.charge(dto.ChargeRequest{RFID: "CARD1", VehicleID: "V1", FareAmount: ptr(domain.Money(0))})
	suite.ErrorIs(err, apperrors.ErrInvalidAmount)

	_, err = suite.charge(dto.ChargeRequest{RFID: "CARD1", VehicleID: "V1", RouteID: "NOPE"})
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *FareServiceTestSuite) TestCharge_FloorOnlineRejected() {
	_, err := suite.charge(dto.ChargeRequest{RFID: "CARD2", VehicleID: "V1"})
	suite.ErrorIs(err, apperrors.ErrInsufficientBalance)
	suite.Equal(domain.MustParseMoney("-10.00"), suite.f.balance("U2"))

	page, err := suite.f.svc.Journal.ListTransactionsByUser(suite.f.ctx, "U2", dto.ListTransactionsParams{})
	suite.Require().NoError(err)
	suite.Empty(page.Transactions)
}

func (suite *FareServiceTestSuite) TestCharge_OfflineBypassesFloor() {
	ts := time.Date(2024, 3, 1, 7, 55, 0, 0, time.UTC)
	receipt, err := suite.charge(dto.ChargeRequest{RFID: "CARD2", VehicleID: "V1", DeviceTimestamp: &ts, Offline: true})
	suite.Require().NoError(err)

	suite.True(receipt.Offline)
	suite.Equal(domain.MustParseMoney("-25.00"), receipt.NewBalance)
	suite.Equal(domain.MustParseMoney("-25.00"), suite.f.balance("U2"))
}

func (suite *FareServiceTestSuite) TestCharge_OfflineReplayIsIdempotent() {
	ts := time.Date(2024, 3, 1, 7, 55, 0, 123000000, time.UTC)
	req := dto.ChargeRequest{RFID: "CARD1", VehicleID: "V1", DeviceTimestamp: &ts, Offline: true}

	first, err := suite.charge(req)
	suite.Require().NoError(err)
	second, err := suite.charge(req)
	suite.Require().NoError(err)

	suite.False(first.Duplicate)
	suite.True(second.Duplicate)
	suite.Equal(first.TransactionID, second.TransactionID)
	suite.Equal(first.NewBalance, second.NewBalance)
	suite.Equal(domain.MustParseMoney("85.00"), suite.f.balance("U1"))

	// Same instant expressed in another zone is the same submission.
	local := ts.In(time.FixedZone("PHT", 8*60*60))
	third, err := suite.charge(dto.ChargeRequest{RFID: "CARD1", VehicleID: "V1", DeviceTimestamp: &local, Offline: true})
	suite.Require().NoError(err)
	suite.True(third.Duplicate)
}

func (suite *FareServiceTestSuite) TestCharge_OnlineReplayReturnsOriginal() {
	ts := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	req := dto.ChargeRequest{RFID: "CARD1", VehicleID: "V1", DeviceTimestamp: &ts}

	first, err := suite.charge(req)
	suite.Require().NoError(err)
	second, err := suite.charge(req)
	suite.Require().NoError(err)

	suite.True(second.Duplicate)
	suite.Equal(first.TransactionID, second.TransactionID)
	suite.Equal(domain.MustParseMoney("85.00"), suite.f.balance("U1"))
}

func (suite *FareServiceTestSuite) TestCharge_OnlineReplayAfterBalanceDrop() {
	ts := time.Date(2024, 3, 1, 8, 5, 0, 0, time.UTC)
	req := dto.ChargeRequest{RFID: "CARD1", VehicleID: "V1", DeviceTimestamp: &ts, FareAmount: ptr(domain.MustParseMoney("95.00"))}

	first, err := suite.charge(req)
	suite.Require().NoError(err)
	suite.Equal(domain.MustParseMoney("5.00"), first.NewBalance)

	// A second fare now would breach the floor; the retry must still resolve to the first charge.
	second, err := suite.charge(req)
	suite.Require().NoError(err)
	suite.True(second.Duplicate)
	suite.Equal(first.TransactionID, second.TransactionID)
	suite.Equal(first.NewBalance, second.NewBalance)
	suite.Equal(domain.MustParseMoney("5.00"), suite.f.balance("U1"))
}

func (suite *FareServiceTestSuite) TestCharge_ReplayAfterCardDeactivated() {
	ts := time.Date(2024, 3, 1, 8, 6, 0, 0, time.UTC)
	req := dto.ChargeRequest{RFID: "CARD1", VehicleID: "V1", DeviceTimestamp: &ts}

	first, err := suite.charge(req)
	suite.Require().NoError(err)

	acc, err := suite.f.store.FindAccountByID(suite.f.ctx, "U1")
	suite.Require().NoError(err)
	acc.State = domain.AccountDeactivated
	suite.f.store.PutAccount(suite.f.ctx, *acc)

	second, err := suite.charge(req)
	suite.Require().NoError(err)
	suite.True(second.Duplicate)
	suite.Equal(first.TransactionID, second.TransactionID)
}

func (suite *FareServiceTestSuite) TestCharge_ConcurrentReplaysChargeOnce() {
	ts := time.Date(2024, 3, 1, 8, 7, 0, 0, time.UTC)
	req := dto.ChargeRequest{RFID: "CARD1", VehicleID: "V1", DeviceTimestamp: &ts}

	const workers = 10
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ids      = map[string]bool{}
		original int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			receipt, err := suite.charge(req)
			if !suite.NoError(err) {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			ids[receipt.TransactionID] = true
			if !receipt.Duplicate {
				original++
			}
		}()
	}
	wg.Wait()

	suite.Equal(1, original)
	suite.Len(ids, 1)
	suite.Equal(domain.MustParseMoney("85.00"), suite.f.balance("U1"))
}

func (suite *FareServiceTestSuite) TestCharge_CardErrors() {
	_, err := suite.charge(dto.ChargeRequest{RFID: "UNKNOWN", VehicleID: "V1"})
	suite.ErrorIs(err, apperrors.ErrCardNotRecognized)

	_, err = suite.charge(dto.ChargeRequest{RFID: "CARD3", VehicleID: "V1"})
	suite.ErrorIs(err, apperrors.ErrAccountInactive)

	_, err = suite.charge(dto.ChargeRequest{RFID: "CARD4", VehicleID: "V1"})
	suite.ErrorIs(err, apperrors.ErrAccountInactive)

	suite.Equal(domain.MustParseMoney("50.00"), suite.f.balance("U3"))
}

func (suite *FareServiceTestSuite) TestCharge_Validation() {
	_, err := suite.charge(dto.ChargeRequest{RFID: "CARD1"})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.charge(dto.ChargeRequest{RFID: "CARD1", VehicleID: "V1", Offline: true})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *FareServiceTestSuite) TestCharge_VehicleContext() {
	_, err := suite.charge(dto.ChargeRequest{RFID: "CARD1", VehicleID: "V404"})
	suite.ErrorIs(err, apperrors.ErrNotFound)

	ts := time.Date(2024, 3, 1, 7, 0, 0, 0, time.UTC)
	receipt, err := suite.charge(dto.ChargeRequest{RFID: "CARD1", VehicleID: "V404", DeviceTimestamp: &ts, Offline: true})
	suite.Require().NoError(err)
	suite.Empty(receipt.PlateNumber)

	_, err = suite.f.svc.Vehicle.Reserve(suite.f.ctx, "V1", "D1")
	suite.Require().NoError(err)
	receipt, err = suite.charge(dto.ChargeRequest{RFID: "CARD1", VehicleID: "V1"})
	suite.Require().NoError(err)
	record, err := suite.f.svc.Journal.GetTransaction(suite.f.ctx, receipt.TransactionID)
	suite.Require().NoError(err)
	suite.Equal("D1", record.DriverID)
	suite.Equal("ABC 123", record.PlateNumber)
}

func (suite *FareServiceTestSuite) TestCharge_Merchant() {
	receipt, err := suite.charge(dto.ChargeRequest{RFID: "CARD1", MerchantID: "CANTEEN", FareAmount: ptr(domain.MustParseMoney("45.50"))})
	suite.Require().NoError(err)
	suite.Equal(domain.MustParseMoney("54.50"), receipt.NewBalance)

	record, err := suite.f.svc.Journal.GetTransaction(suite.f.ctx, receipt.TransactionID)
	suite.Require().NoError(err)
	suite.Equal("CANTEEN", record.MerchantID)
	suite.Equal("CANTEEN", record.CreatedBy)
}

func (suite *FareServiceTestSuite) TestCharge_NotifiesAfterCommit() {
	receipt, err := suite.charge(dto.ChargeRequest{RFID: "CARD1", VehicleID: "V1"})
	suite.Require().NoError(err)

	suite.Eventually(func() bool { return len(suite.f.notifier.Receipts()) == 1 }, time.Second, 10*time.Millisecond)
	n := suite.f.notifier.Receipts()[0]
	suite.Equal("ana@campus.edu", n.Email)
	suite.Equal(receipt.TransactionID, n.Receipt.TransactionID)

	suite.Eventually(func() bool { return len(suite.f.notifier.Changes()) == 1 }, time.Second, 10*time.Millisecond)
	suite.Equal(domain.EntityTransaction, suite.f.notifier.Changes()[0].Entity)
}

func (suite *FareServiceTestSuite) TestCharge_NotifierFailureIsNotFatal() {
	suite.f.notifier.ExpectedCalls = nil
	suite.f.notifier.On("NotifyReceipt", mockAny, mockAny).Return(errors.New("redis down"))
	suite.f.notifier.On("PublishChange", mockAny, mockAny).Return(errors.New("redis down"))

	receipt, err := suite.charge(dto.ChargeRequest{RFID: "CARD1", VehicleID: "V1"})
	suite.Require().NoError(err)
	suite.Equal(domain.MustParseMoney("85.00"), receipt.NewBalance)
	suite.Eventually(func() bool { return len(suite.f.notifier.Receipts()) == 1 }, time.Second, 10*time.Millisecond)
}

func (suite *FareServiceTestSuite) TestCharge_ConcurrentNeverBreachesFloor() {
	const workers = 30
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok       int
		rejected int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := suite.charge(dto.ChargeRequest{RFID: "CARD1", VehicleID: "V1"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, apperrors.ErrInsufficientBalance):
				rejected++
			}
		}()
	}
	wg.Wait()

	// 100.00 in 15.00 steps stays at or above -14.00 for seven charges.
	suite.Equal(7, ok)
	suite.Equal(workers-7, rejected)
	suite.Equal(domain.MustParseMoney("-5.00"), suite.f.balance("U1"))

	page, err := suite.f.svc.Journal.ListTransactionsByUser(suite.f.ctx, "U1", dto.ListTransactionsParams{Limit: 100})
	suite.Require().NoError(err)
	suite.Len(page.Transactions, 7)
}

func TestFareServiceTestSuite(t *testing.T) {
	suite.Run(t, new(FareServiceTestSuite))
}
