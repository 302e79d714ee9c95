package subscription

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coupon-desk/backoffice/internal/application/adapter"
	"github.com/coupon-desk/backoffice/internal/domain/entity"
	domainerror "github.com/coupon-desk/backoffice/internal/domain/error"
)

// ListSubscriptionsInput represents the input for listing subscriptions.
type ListSubscriptionsInput struct {
	TrancheID uuid.UUID
}

// ListSubscriptionsOutput represents the output of listing subscriptions.
type ListSubscriptionsOutput struct {
	Subscriptions []*entity.SubscriptionWithInvestor
	TotalAmount   decimal.Decimal
}

// ListSubscriptionsUseCase handles listing subscriptions logic.
type ListSubscriptionsUseCase struct {
	trancheRepo      adapter.TrancheRepository
	subscriptionRepo adapter.SubscriptionRepository
}

// NewListSubscriptionsUseCase creates a new ListSubscriptionsUseCase instance.
func NewListSubscriptionsUseCase(trancheRepo adapter.TrancheRepository, subscriptionRepo adapter.SubscriptionRepository) *ListSubscriptionsUseCase {
	return &ListSubscriptionsUseCase{
		trancheRepo:      trancheRepo,
		subscriptionRepo: subscriptionRepo,
	}
}

// Execute lists the subscriptions of a tranche with their investors.
func (uc *ListSubscriptionsUseCase) Execute(ctx context.Context, input ListSubscriptionsInput) (*ListSubscriptionsOutput, error) {
	if _, err := uc.trancheRepo.FindByID(ctx, input.TrancheID); err != nil {
		if errors.Is(err, domainerror.ErrTrancheNotFound) {
			return nil, domainerror.NewProjectError(
				domainerror.ErrCodeTrancheNotFound,
				"tranche not found",
				domainerror.ErrTrancheNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find tranche: %w", err)
	}

	subscriptions, err := uc.subscriptionRepo.FindByTrancheID(ctx, input.TrancheID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	total := decimal.Zero
	for _, s := range subscriptions {
		total = total.Add(s.Subscription.Amount)
	}

	return &ListSubscriptionsOutput{
		Subscriptions: subscriptions,
		TotalAmount:   total,
	}, nil
}
