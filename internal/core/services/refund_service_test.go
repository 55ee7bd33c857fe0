package services_test

import (
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/campus_fare_ledger/internal/apperrors"
	"github.com/SscSPs/campus_fare_ledger/internal/core/domain"
	"github.com/SscSPs/campus_fare_ledger/internal/dto"
	"github.com/stretchr/testify/suite"
)

type RefundServiceTestSuite struct {
	suite.Suite
	f *fixture
}

func (suite *RefundServiceTestSuite) SetupTest() {
	suite.f = newFixture()
}

func (suite *RefundServiceTestSuite) chargeU1() string {
	receipt, err := suite.f.svc.Fare.Charge(suite.f.ctx, dto.ChargeRequest{RFID: "CARD1", VehicleID: "V1"})
	suite.Require().NoError(err)
	return receipt.TransactionID
}

func (suite *RefundServiceTestSuite) TestRefundByIDs_RestoresBalance() {
	txnID := suite.chargeU1()
	suite.Equal(domain.MustParseMoney("85.00"), suite.f.balance("U1"))

	result, err := suite.f.svc.Refund.RefundByIDs(suite.f.ctx, []string{txnID}, "driver no-show", "admin-1")
	suite.Require().NoError(err)
	suite.Empty(result.Errors)
	suite.Require().Len(result.Refunded, 1)

	credit := result.Refunded[0]
	suite.Equal(domain.Credit, credit.Type)
	suite.Equal(txnID, credit.OriginalTransactionID)
	suite.Equal(domain.MustParseMoney("15.00"), credit.Amount)
	suite.Equal(domain.MustParseMoney("85.00"), credit.PreviousBalance)
	suite.Equal(domain.MustParseMoney("100.00"), credit.ResultingBalance)
	suite.Equal("driver no-show", credit.Reason)
	suite.Equal("admin-1", credit.CreatedBy)
	suite.Regexp(`^RFD20240301[0-9a-f]{8}$`, credit.TransactionID)
	suite.Equal(domain.MustParseMoney("100.00"), suite.f.balance("U1"))

	original, err := suite.f.svc.Journal.GetTransaction(suite.f.ctx, txnID)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusRefunded, original.Status)
	suite.Equal(credit.TransactionID, original.RefundTransactionID)
}

func (suite *RefundServiceTestSuite) TestRefundByIDs_ExactlyOnce() {
	txnID := suite.chargeU1()

	_, err := suite.f.svc.Refund.RefundByIDs(suite.f.ctx, []string{txnID}, "", "admin-1")
	suite.Require().NoError(err)

	result, err := suite.f.svc.Refund.RefundByIDs(suite.f.ctx, []string{txnID}, "", "admin-1")
	suite.Require().NoError(err)
	suite.Empty(result.Refunded)
	suite.Require().Len(result.Errors, 1)
	suite.Equal("ALREADY_REFUNDED", result.Errors[0].Kind)
	suite.Equal(domain.MustParseMoney("100.00"), suite.f.balance("U1"))
}

func (suite *RefundServiceTestSuite) TestRefundByIDs_PartialBatch() {
	first := suite.chargeU1()
	second := suite.chargeU1()
	suite.Equal(domain.MustParseMoney("70.00"), suite.f.balance("U1"))

	result, err := suite.f.svc.Refund.RefundByIDs(suite.f.ctx, []string{first, "TXN20240301ffffffff", second, first}, "", "admin-1")
	suite.Require().NoError(err)

	suite.Len(result.Refunded, 2)
	suite.Require().Len(result.Errors, 2)
	suite.Equal("TXN20240301ffffffff", result.Errors[0].TransactionID)
	suite.Equal("NOT_FOUND", result.Errors[0].Kind)
	suite.Equal(first, result.Errors[1].TransactionID)
	suite.Equal("ALREADY_REFUNDED", result.Errors[1].Kind)
	suite.Equal(domain.MustParseMoney("100.00"), suite.f.balance("U1"))
}

func (suite *RefundServiceTestSuite) TestRefundByIDs_CreditIsNotRefundable() {
	txnID := suite.chargeU1()
	result, err := suite.f.svc.Refund.RefundByIDs(suite.f.ctx, []string{txnID}, "", "admin-1")
	suite.Require().NoError(err)

	again, err := suite.f.svc.Refund.RefundByIDs(suite.f.ctx, []string{result.Refunded[0].TransactionID}, "", "admin-1")
	suite.Require().NoError(err)
	suite.Require().Len(again.Errors, 1)
	suite.Equal("NOT_REFUNDABLE", again.Errors[0].Kind)
}

func (suite *RefundServiceTestSuite) TestRefundByIDs_Empty() {
	_, err := suite.f.svc.Refund.RefundByIDs(suite.f.ctx, nil, "", "admin-1")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *RefundServiceTestSuite) TestRefundByIDs_ConcurrentRefundsCreditOnce() {
	txnID := suite.chargeU1()

	const workers = 10
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		refunded int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := suite.f.svc.Refund.RefundByIDs(suite.f.ctx, []string{txnID}, "", "admin-1")
			if err != nil {
				return
			}
			mu.Lock()
			refunded += len(result.Refunded)
			mu.Unlock()
		}()
	}
	wg.Wait()

	suite.Equal(1, refunded)
	suite.Equal(domain.MustParseMoney("100.00"), suite.f.balance("U1"))
}

func (suite *RefundServiceTestSuite) TestRefundByCard() {
	receipt, err := suite.f.svc.Refund.RefundByCard(suite.f.ctx, dto.RefundByCardRequest{
		RFID: "CARD2", Amount: domain.MustParseMoney("15.00"), VehicleID: "V2", Reason: "offline double tap",
	}, "admin-1")
	suite.Require().NoError(err)

	suite.Equal(domain.Credit, receipt.Type)
	suite.Equal(domain.MustParseMoney("-10.00"), receipt.PreviousBalance)
	suite.Equal(domain.MustParseMoney("5.00"), receipt.NewBalance)
	suite.Equal("XYZ 789", receipt.PlateNumber)
	suite.Equal(domain.MustParseMoney("5.00"), suite.f.balance("U2"))

	record, err := suite.f.svc.Journal.GetTransaction(suite.f.ctx, receipt.TransactionID)
	suite.Require().NoError(err)
	suite.Empty(record.OriginalTransactionID)
	suite.Equal("offline double tap", record.Reason)
}

func (suite *RefundServiceTestSuite) TestRefundByCard_ReplayWithDeviceTimestamp() {
	ts := time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC)
	req := dto.RefundByCardRequest{RFID: "CARD1", Amount: domain.MustParseMoney("15.00"), VehicleID: "V1", Reason: "r", DeviceTimestamp: &ts}

	first, err := suite.f.svc.Refund.RefundByCard(suite.f.ctx, req, "dev-1")
	suite.Require().NoError(err)
	second, err := suite.f.svc.Refund.RefundByCard(suite.f.ctx, req, "dev-1")
	suite.Require().NoError(err)

	suite.True(second.Duplicate)
	suite.Equal(first.TransactionID, second.TransactionID)
	suite.Equal(domain.MustParseMoney("115.00"), suite.f.balance("U1"))
}

func (suite *RefundServiceTestSuite) TestRefundByCard_ReplayAfterCardDeactivated() {
	ts := time.Date(2024, 3, 1, 6, 30, 0, 0, time.UTC)
	req := dto.RefundByCardRequest{RFID: "CARD1", Amount: domain.MustParseMoney("15.00"), VehicleID: "V1", Reason: "r", DeviceTimestamp: &ts}

	first, err := suite.f.svc.Refund.RefundByCard(suite.f.ctx, req, "dev-1")
	suite.Require().NoError(err)

	acc, err := suite.f.store.FindAccountByID(suite.f.ctx, "U1")
	suite.Require().NoError(err)
	acc.State = domain.AccountDeactivated
	suite.f.store.PutAccount(suite.f.ctx, *acc)

	second, err := suite.f.svc.Refund.RefundByCard(suite.f.ctx, req, "dev-1")
	suite.Require().NoError(err)
	suite.True(second.Duplicate)
	suite.Equal(first.TransactionID, second.TransactionID)
}

func (suite *RefundServiceTestSuite) TestRefundByCard_Errors() {
	_, err := suite.f.svc.Refund.RefundByCard(suite.f.ctx, dto.RefundByCardRequest{RFID: "CARD1", Amount: 0, Reason: "r"}, "admin-1")
	suite.ErrorIs(err, apperrors.ErrInvalidAmount)

	_, err = suite.f.svc.Refund.RefundByCard(suite.f.ctx, dto.RefundByCardRequest{RFID: "NOPE", Amount: 100, Reason: "r"}, "admin-1")
	suite.ErrorIs(err, apperrors.ErrCardNotRecognized)

	_, err = suite.f.svc.Refund.RefundByCard(suite.f.ctx, dto.RefundByCardRequest{RFID: "CARD3", Amount: 100, Reason: "r"}, "admin-1")
	suite.ErrorIs(err, apperrors.ErrAccountInactive)

	_, err = suite.f.svc.Refund.RefundByCard(suite.f.ctx, dto.RefundByCardRequest{RFID: "CARD1", Amount: 100, Reason: " "}, "admin-1")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestRefundServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RefundServiceTestSuite))
}
