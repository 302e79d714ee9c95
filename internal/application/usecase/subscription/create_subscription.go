// Package subscription contains subscription use cases.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coupon-desk/backoffice/internal/application/adapter"
	"github.com/coupon-desk/backoffice/internal/domain/entity"
	domainerror "github.com/coupon-desk/backoffice/internal/domain/error"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// InvestorInput describes the subscriber. Investors are matched by email.
type InvestorInput struct {
	Type        string
	FirstName   string
	LastName    string
	CompanyName string
	Email       string // optional, no coupon notice is sent without it
}

// CreateSubscriptionInput represents the input for subscription creation.
type CreateSubscriptionInput struct {
	TrancheID    uuid.UUID
	Investor     InvestorInput
	Amount       decimal.Decimal
	SubscribedAt string // YYYY-MM-DD, defaults to today
}

// CreateSubscriptionOutput represents the output of subscription creation.
type CreateSubscriptionOutput struct {
	Subscription *entity.SubscriptionWithInvestor
}

// CreateSubscriptionUseCase handles subscription creation logic.
type CreateSubscriptionUseCase struct {
	trancheRepo      adapter.TrancheRepository
	investorRepo     adapter.InvestorRepository
	subscriptionRepo adapter.SubscriptionRepository
}

// NewCreateSubscriptionUseCase creates a new CreateSubscriptionUseCase instance.
func NewCreateSubscriptionUseCase(
	trancheRepo adapter.TrancheRepository,
	investorRepo adapter.InvestorRepository,
	subscriptionRepo adapter.SubscriptionRepository,
) *CreateSubscriptionUseCase {
	return &CreateSubscriptionUseCase{
		trancheRepo:      trancheRepo,
		investorRepo:     investorRepo,
		subscriptionRepo: subscriptionRepo,
	}
}

// Execute performs the subscription creation.
func (uc *CreateSubscriptionUseCase) Execute(ctx context.Context, input CreateSubscriptionInput) (*CreateSubscriptionOutput, error) {
	// Every expected coupon derived from a subscription must be positive.
	if !input.Amount.IsPositive() {
		return nil, domainerror.NewProjectError(
			domainerror.ErrCodeInvalidAmount,
			"subscription amount must be greater than zero",
			domainerror.ErrInvalidAmount,
		)
	}

	if err := validateInvestor(input.Investor); err != nil {
		return nil, err
	}

	subscribedAt := time.Now().UTC().Truncate(24 * time.Hour)
	if input.SubscribedAt != "" {
		parsed, err := time.Parse("2006-01-02", input.SubscribedAt)
		if err != nil {
			return nil, domainerror.NewProjectError(
				domainerror.ErrCodeMissingProjectFields,
				"subscription date must use the YYYY-MM-DD format",
				err,
			)
		}
		subscribedAt = parsed
	}

	tranche, err := uc.trancheRepo.FindByID(ctx, input.TrancheID)
	if err != nil {
		if errors.Is(err, domainerror.ErrTrancheNotFound) {
			return nil, domainerror.NewProjectError(
				domainerror.ErrCodeTrancheNotFound,
				"tranche not found",
				domainerror.ErrTrancheNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find tranche: %w", err)
	}

	if tranche.Status != entity.TrancheStatusDraft {
		return nil, domainerror.NewProjectError(
			domainerror.ErrCodeScheduleAlreadyExists,
			"subscriptions are closed once the schedule is generated",
			domainerror.ErrScheduleAlreadyExists,
		)
	}

	investor, err := uc.upsertInvestor(ctx, input.Investor)
	if err != nil {
		return nil, err
	}

	subscription := entity.NewSubscription(tranche.ID, investor.ID, input.Amount, subscribedAt)
	if err := uc.subscriptionRepo.Create(ctx, subscription); err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	return &CreateSubscriptionOutput{
		Subscription: &entity.SubscriptionWithInvestor{
			Subscription: subscription,
			Investor:     investor,
		},
	}, nil
}

func (uc *CreateSubscriptionUseCase) upsertInvestor(ctx context.Context, input InvestorInput) (*entity.Investor, error) {
	candidate := entity.NewInvestor(
		entity.InvestorType(input.Type),
		input.FirstName,
		input.LastName,
		input.CompanyName,
		input.Email,
	)

	if candidate.Email != "" {
		existing, err := uc.investorRepo.FindByEmail(ctx, candidate.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to find investor: %w", err)
		}
		if existing != nil {
			existing.Type = candidate.Type
			existing.FirstName = candidate.FirstName
			existing.LastName = candidate.LastName
			existing.CompanyName = candidate.CompanyName
			existing.UpdatedAt = time.Now().UTC()
			if err := uc.investorRepo.Update(ctx, existing); err != nil {
				return nil, fmt.Errorf("failed to update investor: %w", err)
			}
			return existing, nil
		}
	}

	if err := uc.investorRepo.Create(ctx, candidate); err != nil {
		return nil, fmt.Errorf("failed to create investor: %w", err)
	}
	return candidate, nil
}

func validateInvestor(input InvestorInput) error {
	investorType := entity.InvestorType(input.Type)
	if !investorType.IsValid() {
		return domainerror.NewProjectError(
			domainerror.ErrCodeInvalidInvestorType,
			"investor type must be 'personne_physique' or 'personne_morale'",
			domainerror.ErrInvalidInvestorType,
		)
	}

	switch investorType {
	case entity.InvestorTypeCompany:
		if strings.TrimSpace(input.CompanyName) == "" {
			return domainerror.NewProjectError(
				domainerror.ErrCodeInvalidInvestorName,
				"company name is required",
				domainerror.ErrInvalidInvestorName,
			)
		}
	default:
		if strings.TrimSpace(input.LastName) == "" {
			return domainerror.NewProjectError(
				domainerror.ErrCodeInvalidInvestorName,
				"last name is required",
				domainerror.ErrInvalidInvestorName,
			)
		}
	}

	email := strings.TrimSpace(input.Email)
	if email != "" && !emailRegex.MatchString(email) {
		return domainerror.NewProjectError(
			domainerror.ErrCodeInvalidInvestorEmail,
			"invalid email format",
			domainerror.ErrInvalidInvestorEmail,
		)
	}
	return nil
}
