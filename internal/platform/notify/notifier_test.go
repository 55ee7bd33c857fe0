package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/campus_fare_ledger/internal/core/domain"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receipt() domain.ReceiptNotification {
	return domain.ReceiptNotification{
		Receipt: domain.Receipt{TransactionID: "TXN20240301deadbeef", UserID: "U1", Amount: 1500, NewBalance: 8500},
		Email:   "u1@example.com",
	}
}

func TestNotifyReceipt(t *testing.T) {
	payload, err := json.Marshal(receipt())
	require.NoError(t, err)

	db, mock := redismock.NewClientMock()
	mock.ExpectLPush("receipts", string(payload)).SetVal(1)

	n := NewRedisNotifier(db, "receipts", "changes")
	assert.NoError(t, n.NotifyReceipt(context.Background(), receipt()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotifyReceiptError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.Regexp().ExpectLPush("receipts", `.*`).SetErr(errors.New("connection refused"))

	n := NewRedisNotifier(db, "receipts", "changes")
	err := n.NotifyReceipt(context.Background(), receipt())
	assert.ErrorContains(t, err, "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPublishChange(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.Regexp().ExpectPublish("changes", `.*"entity":"vehicle".*`).SetVal(2)

	n := NewRedisNotifier(db, "receipts", "changes")
	err := n.PublishChange(context.Background(), domain.ChangeEvent{
		Entity: domain.EntityVehicle, ID: "V1", Action: "reserve", Status: "RESERVED", At: time.Now(),
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogNotifier(t *testing.T) {
	var n LogNotifier
	assert.NoError(t, n.NotifyReceipt(context.Background(), receipt()))
	assert.NoError(t, n.PublishChange(context.Background(), domain.ChangeEvent{Entity: domain.EntityTransaction, ID: "T1"}))
}
