package reconciliation

import (
	"context"

	"github.com/google/uuid"

	"github.com/coupon-desk/backoffice/internal/application/adapter"
	"github.com/coupon-desk/backoffice/internal/domain/entity"
)

// GetPaymentBatchInput represents the input for getting a payment batch.
type GetPaymentBatchInput struct {
	BatchID uuid.UUID
}

// GetPaymentBatchOutput represents the output of getting a payment batch.
type GetPaymentBatchOutput struct {
	Batch   *entity.PaymentBatch
	Summary entity.BatchSummary
}

// GetPaymentBatchUseCase reads a batch awaiting review.
type GetPaymentBatchUseCase struct {
	store adapter.PaymentBatchStore
}

// NewGetPaymentBatchUseCase creates a new GetPaymentBatchUseCase instance.
func NewGetPaymentBatchUseCase(store adapter.PaymentBatchStore) *GetPaymentBatchUseCase {
	return &GetPaymentBatchUseCase{
		store: store,
	}
}

// Execute performs the lookup.
func (uc *GetPaymentBatchUseCase) Execute(ctx context.Context, input GetPaymentBatchInput) (*GetPaymentBatchOutput, error) {
	batch, err := loadBatch(ctx, uc.store, input.BatchID)
	if err != nil {
		return nil, err
	}

	return &GetPaymentBatchOutput{
		Batch:   batch,
		Summary: batch.Summary(),
	}, nil
}
