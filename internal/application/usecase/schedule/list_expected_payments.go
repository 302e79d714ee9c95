package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/coupon-desk/backoffice/internal/application/adapter"
	domainerror "github.com/coupon-desk/backoffice/internal/domain/error"
	"github.com/coupon-desk/backoffice/internal/domain/valueobject"
)

// ListExpectedPaymentsInput represents the input for listing expected payments.
type ListExpectedPaymentsInput struct {
	TrancheID uuid.UUID
	DueDate   string // YYYY-MM-DD, earliest unpaid due date when empty
}

// ListExpectedPaymentsOutput represents the output of listing expected payments.
type ListExpectedPaymentsOutput struct {
	DueDate  *time.Time
	Expected []valueobject.ExpectedPayment
}

// ListExpectedPaymentsUseCase lists the unpaid coupons of a due date as matcher candidates.
type ListExpectedPaymentsUseCase struct {
	trancheRepo  adapter.TrancheRepository
	echeanceRepo adapter.EcheanceRepository
}

// NewListExpectedPaymentsUseCase creates a new ListExpectedPaymentsUseCase instance.
func NewListExpectedPaymentsUseCase(trancheRepo adapter.TrancheRepository, echeanceRepo adapter.EcheanceRepository) *ListExpectedPaymentsUseCase {
	return &ListExpectedPaymentsUseCase{
		trancheRepo:  trancheRepo,
		echeanceRepo: echeanceRepo,
	}
}

// Execute lists the expected payments in due date then investor name order.
func (uc *ListExpectedPaymentsUseCase) Execute(ctx context.Context, input ListExpectedPaymentsInput) (*ListExpectedPaymentsOutput, error) {
	dueDate, err := ParseDueDate(input.DueDate)
	if err != nil {
		return nil, err
	}

	tranche, err := findTranche(ctx, uc.trancheRepo, input.TrancheID)
	if err != nil {
		return nil, err
	}

	echeances, err := uc.echeanceRepo.FindUnpaid(ctx, tranche.ID, dueDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list unpaid echeances: %w", err)
	}

	output := &ListExpectedPaymentsOutput{
		DueDate:  dueDate,
		Expected: make([]valueobject.ExpectedPayment, 0, len(echeances)),
	}
	for _, e := range echeances {
		output.Expected = append(output.Expected, e.ExpectedPayment())
	}
	if output.DueDate == nil && len(echeances) > 0 {
		first := echeances[0].Echeance.DueDate
		output.DueDate = &first
	}

	return output, nil
}

// ParseDueDate parses an optional YYYY-MM-DD due date filter.
func ParseDueDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	dueDate, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeInvalidDueDate,
			"due date must use the YYYY-MM-DD format",
			domainerror.ErrInvalidDueDate,
		)
	}
	return &dueDate, nil
}
