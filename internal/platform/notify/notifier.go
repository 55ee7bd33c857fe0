package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SscSPs/campus_fare_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/campus_fare_ledger/internal/core/ports/services"
	"github.com/SscSPs/campus_fare_ledger/internal/middleware"
	"github.com/SscSPs/campus_fare_ledger/internal/platform/metrics"
	"github.com/redis/go-redis/v9"
)

const (
	kindReceipt = "receipt"
	kindChange  = "change"
)

// RedisNotifier queues receipts on a list for the mailer and publishes change events on a
// channel for real-time listeners.
type RedisNotifier struct {
	redis         *redis.Client
	receiptQueue  string
	changeChannel string
}

var _ portssvc.Notifier = (*RedisNotifier)(nil)

func NewRedisNotifier(client *redis.Client, receiptQueue, changeChannel string) *RedisNotifier {
	return &RedisNotifier{redis: client, receiptQueue: receiptQueue, changeChannel: changeChannel}
}

func (n *RedisNotifier) NotifyReceipt(ctx context.Context, r domain.ReceiptNotification) error {
	data, err := json.Marshal(r)
	if err != nil {
		metrics.RecordNotification(kindReceipt, "failed")
		return fmt.Errorf("failed to marshal receipt notification: %w", err)
	}

	if err := n.redis.LPush(ctx, n.receiptQueue, string(data)).Err(); err != nil {
		metrics.RecordNotification(kindReceipt, "failed")
		return fmt.Errorf("failed to queue receipt %s: %w", r.Receipt.TransactionID, err)
	}

	metrics.RecordNotification(kindReceipt, "sent")
	middleware.GetLoggerFromCtx(ctx).Debug("Receipt queued", "transaction_id", r.Receipt.TransactionID, "queue", n.receiptQueue)
	return nil
}

func (n *RedisNotifier) PublishChange(ctx context.Context, e domain.ChangeEvent) error {
	data, err := json.Marshal(e)
	if err != nil {
		metrics.RecordNotification(kindChange, "failed")
		return fmt.Errorf("failed to marshal change event: %w", err)
	}

	if err := n.redis.Publish(ctx, n.changeChannel, string(data)).Err(); err != nil {
		metrics.RecordNotification(kindChange, "failed")
		return fmt.Errorf("failed to publish %s %s change: %w", e.Entity, e.ID, err)
	}

	metrics.RecordNotification(kindChange, "sent")
	return nil
}

// LogNotifier only logs. It is used when no Redis address is configured.
type LogNotifier struct{}

var _ portssvc.Notifier = LogNotifier{}

func (LogNotifier) NotifyReceipt(ctx context.Context, r domain.ReceiptNotification) error {
	metrics.RecordNotification(kindReceipt, "skipped")
	middleware.GetLoggerFromCtx(ctx).Info("Receipt not delivered, notifier disabled",
		"transaction_id", r.Receipt.TransactionID, "user_id", r.Receipt.UserID)
	return nil
}

func (LogNotifier) PublishChange(ctx context.Context, e domain.ChangeEvent) error {
	metrics.RecordNotification(kindChange, "skipped")
	middleware.GetLoggerFromCtx(ctx).Debug("Change event", "entity", e.Entity, "id", e.ID, "action", e.Action, "status", e.Status)
	return nil
}
