package services

import (
	"context"

	"github.com/SscSPs/campus_fare_ledger/internal/core/domain"
)

// Notifier hands receipts and change events to external delivery. Callers never block a
// response on it and only log its failures.
type Notifier interface {
	NotifyReceipt(ctx context.Context, n domain.ReceiptNotification) error
	PublishChange(ctx context.Context, e domain.ChangeEvent) error
}
