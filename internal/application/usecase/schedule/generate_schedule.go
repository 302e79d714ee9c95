package schedule

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coupon-desk/backoffice/internal/application/adapter"
	"github.com/coupon-desk/backoffice/internal/domain/entity"
	domainerror "github.com/coupon-desk/backoffice/internal/domain/error"
)

// GenerateScheduleInput represents the input for schedule generation.
type GenerateScheduleInput struct {
	TrancheID uuid.UUID
}

// GenerateScheduleOutput represents the output of schedule generation.
type GenerateScheduleOutput struct {
	Tranche   *entity.Tranche
	Echeances []*entity.Echeance
	Totals    Totals
}

// GenerateScheduleUseCase computes and stores the coupons of every subscription of a tranche.
type GenerateScheduleUseCase struct {
	trancheRepo      adapter.TrancheRepository
	subscriptionRepo adapter.SubscriptionRepository
	echeanceRepo     adapter.EcheanceRepository
	withholdingRate  decimal.Decimal
}

// NewGenerateScheduleUseCase creates a new GenerateScheduleUseCase instance.
// withholdingRate is applied to individual investors (0.30 = 30%).
func NewGenerateScheduleUseCase(
	trancheRepo adapter.TrancheRepository,
	subscriptionRepo adapter.SubscriptionRepository,
	echeanceRepo adapter.EcheanceRepository,
	withholdingRate decimal.Decimal,
) *GenerateScheduleUseCase {
	return &GenerateScheduleUseCase{
		trancheRepo:      trancheRepo,
		subscriptionRepo: subscriptionRepo,
		echeanceRepo:     echeanceRepo,
		withholdingRate:  withholdingRate,
	}
}

// Execute performs the schedule generation.
func (uc *GenerateScheduleUseCase) Execute(ctx context.Context, input GenerateScheduleInput) (*GenerateScheduleOutput, error) {
	tranche, err := findTranche(ctx, uc.trancheRepo, input.TrancheID)
	if err != nil {
		return nil, err
	}

	exists, err := uc.echeanceRepo.ExistsForTranche(ctx, tranche.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check schedule existence: %w", err)
	}
	if exists {
		return nil, domainerror.NewProjectError(
			domainerror.ErrCodeScheduleAlreadyExists,
			"a schedule was already generated for this tranche",
			domainerror.ErrScheduleAlreadyExists,
		)
	}

	subscriptions, err := uc.subscriptionRepo.FindByTrancheID(ctx, tranche.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	if len(subscriptions) == 0 {
		return nil, domainerror.NewProjectError(
			domainerror.ErrCodeNoSubscriptions,
			"the tranche has no subscriptions",
			domainerror.ErrNoSubscriptions,
		)
	}

	var echeances []*entity.Echeance
	withInvestors := make([]*entity.EcheanceWithInvestor, 0, len(subscriptions)*tranche.PeriodCount())
	for _, s := range subscriptions {
		for _, e := range entity.BuildSchedule(tranche, s.Subscription, s.Investor, uc.withholdingRate) {
			echeances = append(echeances, e)
			withInvestors = append(withInvestors, &entity.EcheanceWithInvestor{Echeance: e, Investor: s.Investor})
		}
	}

	tranche.Activate()
	if err := uc.echeanceRepo.CreateSchedule(ctx, tranche, echeances); err != nil {
		return nil, fmt.Errorf("failed to store schedule: %w", err)
	}

	slog.Info("Coupon schedule generated",
		"tranche_id", tranche.ID,
		"subscriptions", len(subscriptions),
		"echeances", len(echeances),
	)

	return &GenerateScheduleOutput{
		Tranche:   tranche,
		Echeances: echeances,
		Totals:    TotalsOf(withInvestors),
	}, nil
}
