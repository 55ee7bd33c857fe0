package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/campus_fare_ledger/internal/apperrors"
	"github.com/SscSPs/campus_fare_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/campus_fare_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/campus_fare_ledger/internal/core/ports/services"
	"github.com/SscSPs/campus_fare_ledger/internal/core/services"
	"github.com/SscSPs/campus_fare_ledger/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

var _ portsrepo.TransactionRepositoryFacade = (*MockTransactionRepository)(nil)

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindTransactionByDedupKey(ctx context.Context, dedupKey string) (*domain.Transaction, error) {
	args := m.Called(ctx, dedupKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, userID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Transaction), returnedNextToken, args.Error(2)
}

func (m *MockTransactionRepository) InsertTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, bool, error) {
	args := m.Called(ctx, txn)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*domain.Transaction), args.Bool(1), args.Error(2)
}

func (m *MockTransactionRepository) MarkTransactionRefunded(ctx context.Context, transactionID, refundTransactionID, actorID string, now time.Time) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID, refundTransactionID, actorID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

type JournalServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	now      time.Time
	mockRepo *MockTransactionRepository
	service  portssvc.JournalSvcFacade
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.now = time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC)
	suite.mockRepo = new(MockTransactionRepository)
	suite.service = services.NewJournalService(suite.mockRepo, services.WithClock(func() time.Time { return suite.now }))
}

func (suite *JournalServiceTestSuite) debit() domain.Transaction {
	ts := time.Date(2024, 3, 1, 7, 59, 0, 0, time.UTC)
	return domain.Transaction{
		TransactionID:    "TXN20240301deadbeef",
		Type:             domain.Debit,
		Amount:           1500,
		PreviousBalance:  10000,
		ResultingBalance: 8500,
		SubjectUserID:    "U1",
		RFID:             "CARD1",
		VehicleID:        "V1",
		DeviceTimestamp:  &ts,
		AuditFields:      domain.AuditFields{CreatedBy: "V1"},
	}
}

func (suite *JournalServiceTestSuite) TestRecordCompletedDebit_Inserted() {
	entry := suite.debit()
	suite.mockRepo.On("InsertTransaction", suite.ctx, mock.MatchedBy(func(t domain.Transaction) bool {
		return t.Status == domain.StatusCompleted &&
			t.DedupKey == "DEBIT|V:V1|2024-03-01T07:59:00Z" &&
			t.CreatedAt.Equal(suite.now) &&
			t.LastUpdatedBy == "V1"
	})).Return(&entry, true, nil).Once()

	record, duplicate, err := suite.service.RecordCompletedDebit(suite.ctx, entry)
	suite.Require().NoError(err)
	suite.False(duplicate)
	suite.Equal(entry.TransactionID, record.TransactionID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestRecordCompletedDebit_Duplicate() {
	existing := suite.debit()
	existing.TransactionID = "TXN20240301cafebabe"
	suite.mockRepo.On("InsertTransaction", suite.ctx, mock.Anything).Return(&existing, false, nil).Once()

	record, duplicate, err := suite.service.RecordCompletedDebit(suite.ctx, suite.debit())
	suite.Require().NoError(err)
	suite.True(duplicate)
	suite.Equal("TXN20240301cafebabe", record.TransactionID)
}

func (suite *JournalServiceTestSuite) TestRecord_RejectsInvalidEntries() {
	entry := suite.debit()
	entry.ResultingBalance = 9000
	_, _, err := suite.service.RecordCompletedDebit(suite.ctx, entry)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, _, err = suite.service.RecordCredit(suite.ctx, suite.debit())
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.mockRepo.AssertNotCalled(suite.T(), "InsertTransaction", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestMarkRefunded_UsesClock() {
	refunded := suite.debit()
	refunded.Status = domain.StatusRefunded
	suite.mockRepo.On("MarkTransactionRefunded", suite.ctx, "TXN20240301deadbeef", "RFD20240301aaaaaaaa", "admin-1", suite.now).Return(&refunded, nil).Once()
	suite.mockRepo.On("MarkTransactionRefunded", suite.ctx, "TXN20240301deadbeef", "RFD20240301bbbbbbbb", "admin-1", suite.now).Return(nil, apperrors.ErrAlreadyRefunded).Once()

	record, err := suite.service.MarkRefunded(suite.ctx, "TXN20240301deadbeef", "RFD20240301aaaaaaaa", "admin-1")
	suite.Require().NoError(err)
	suite.Equal(domain.StatusRefunded, record.Status)

	_, err = suite.service.MarkRefunded(suite.ctx, "TXN20240301deadbeef", "RFD20240301bbbbbbbb", "admin-1")
	suite.ErrorIs(err, apperrors.ErrAlreadyRefunded)
}

func (suite *JournalServiceTestSuite) TestListTransactionsByUser() {
	token := "next-page"
	suite.mockRepo.On("ListTransactionsByUser", suite.ctx, "U1", 20, (*string)(nil)).Return([]domain.Transaction{suite.debit()}, token, nil).Once()

	page, err := suite.service.ListTransactionsByUser(suite.ctx, "U1", dto.ListTransactionsParams{})
	suite.Require().NoError(err)
	suite.Len(page.Transactions, 1)
	suite.Equal("15.00", page.Transactions[0].Amount)
	suite.Require().NotNil(page.NextToken)
	suite.Equal(token, *page.NextToken)
}

func (suite *JournalServiceTestSuite) TestGetTransaction_NotFound() {
	suite.mockRepo.On("FindTransactionByID", suite.ctx, "nope").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetTransaction(suite.ctx, "nope")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
