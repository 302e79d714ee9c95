package schedule

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/coupon-desk/backoffice/internal/application/adapter"
	"github.com/coupon-desk/backoffice/internal/domain/entity"
)

// ListScheduleInput represents the input for listing a schedule.
type ListScheduleInput struct {
	TrancheID uuid.UUID
}

// ListScheduleOutput represents the output of listing a schedule.
type ListScheduleOutput struct {
	Tranche   *entity.Tranche
	Echeances []*entity.EcheanceWithInvestor
	Totals    Totals
}

// ListScheduleUseCase handles listing the coupons of a tranche.
type ListScheduleUseCase struct {
	trancheRepo  adapter.TrancheRepository
	echeanceRepo adapter.EcheanceRepository
}

// NewListScheduleUseCase creates a new ListScheduleUseCase instance.
func NewListScheduleUseCase(trancheRepo adapter.TrancheRepository, echeanceRepo adapter.EcheanceRepository) *ListScheduleUseCase {
	return &ListScheduleUseCase{
		trancheRepo:  trancheRepo,
		echeanceRepo: echeanceRepo,
	}
}

// Execute lists the coupons ordered by due date then investor name.
func (uc *ListScheduleUseCase) Execute(ctx context.Context, input ListScheduleInput) (*ListScheduleOutput, error) {
	tranche, err := findTranche(ctx, uc.trancheRepo, input.TrancheID)
	if err != nil {
		return nil, err
	}

	echeances, err := uc.echeanceRepo.FindByTrancheID(ctx, tranche.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedule: %w", err)
	}

	return &ListScheduleOutput{
		Tranche:   tranche,
		Echeances: echeances,
		Totals:    TotalsOf(echeances),
	}, nil
}
