package services

import (
	"context"

	"github.com/SscSPs/campus_fare_ledger/internal/core/domain"
	"github.com/SscSPs/campus_fare_ledger/internal/dto"
)

// FareSvc charges shuttle fares and merchant purchases.
type FareSvc interface {
	Charge(ctx context.Context, req dto.ChargeRequest) (*domain.Receipt, error)
}

// RefundSvc reverses prior debits or credits cards directly.
type RefundSvc interface {
	// RefundByIDs processes each ID independently; one failure never aborts the batch.
	RefundByIDs(ctx context.Context, transactionIDs []string, reason, actorID string) (*domain.RefundBatchResult, error)

	// RefundByCard credits a card with no original transaction.
	RefundByCard(ctx context.Context, req dto.RefundByCardRequest, actorID string) (*domain.Receipt, error)
}
