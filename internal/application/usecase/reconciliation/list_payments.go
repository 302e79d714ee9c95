package reconciliation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coupon-desk/backoffice/internal/application/adapter"
	"github.com/coupon-desk/backoffice/internal/domain/entity"
)

// ListPaymentsInput represents the input for listing confirmed payments.
type ListPaymentsInput struct {
	TrancheID uuid.UUID
}

// ListPaymentsOutput represents the output of listing confirmed payments.
type ListPaymentsOutput struct {
	Payments    []*entity.PaymentWithInvestor
	TotalAmount decimal.Decimal
}

// ListPaymentsUseCase handles listing the confirmed payments of a tranche.
type ListPaymentsUseCase struct {
	trancheRepo adapter.TrancheRepository
	paymentRepo adapter.PaymentRepository
}

// NewListPaymentsUseCase creates a new ListPaymentsUseCase instance.
func NewListPaymentsUseCase(trancheRepo adapter.TrancheRepository, paymentRepo adapter.PaymentRepository) *ListPaymentsUseCase {
	return &ListPaymentsUseCase{
		trancheRepo: trancheRepo,
		paymentRepo: paymentRepo,
	}
}

// Execute lists the payments, newest first.
func (uc *ListPaymentsUseCase) Execute(ctx context.Context, input ListPaymentsInput) (*ListPaymentsOutput, error) {
	if _, err := findTranche(ctx, uc.trancheRepo, input.TrancheID); err != nil {
		return nil, err
	}

	payments, err := uc.paymentRepo.FindByTrancheID(ctx, input.TrancheID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Payment.Amount)
	}

	return &ListPaymentsOutput{
		Payments:    payments,
		TotalAmount: total,
	}, nil
}
