package project

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coupon-desk/backoffice/internal/application/adapter"
	"github.com/coupon-desk/backoffice/internal/domain/entity"
	domainerror "github.com/coupon-desk/backoffice/internal/domain/error"
	"github.com/coupon-desk/backoffice/internal/domain/valueobject"
)

var maxRate = decimal.NewFromInt(100)

// CreateTrancheInput represents the input for tranche creation.
type CreateTrancheInput struct {
	ProjectID      uuid.UUID
	Name           string
	AnnualRate     decimal.Decimal // percent
	Periodicity    string
	DurationMonths int
	IssueDate      string // YYYY-MM-DD
	TargetAmount   decimal.Decimal
}

// CreateTrancheOutput represents the output of tranche creation.
type CreateTrancheOutput struct {
	Tranche *entity.Tranche
}

// CreateTrancheUseCase handles tranche creation logic.
type CreateTrancheUseCase struct {
	projectRepo adapter.ProjectRepository
	trancheRepo adapter.TrancheRepository
}

// NewCreateTrancheUseCase creates a new CreateTrancheUseCase instance.
func NewCreateTrancheUseCase(projectRepo adapter.ProjectRepository, trancheRepo adapter.TrancheRepository) *CreateTrancheUseCase {
	return &CreateTrancheUseCase{
		projectRepo: projectRepo,
		trancheRepo: trancheRepo,
	}
}

// Execute performs the tranche creation.
func (uc *CreateTrancheUseCase) Execute(ctx context.Context, input CreateTrancheInput) (*CreateTrancheOutput, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || utf8.RuneCountInString(name) > MaxNameLength {
		return nil, domainerror.NewProjectError(
			domainerror.ErrCodeInvalidTrancheName,
			fmt.Sprintf("tranche name must be between 1 and %d characters", MaxNameLength),
			domainerror.ErrInvalidTrancheName,
		)
	}

	if !input.AnnualRate.IsPositive() || input.AnnualRate.GreaterThan(maxRate) {
		return nil, domainerror.NewProjectError(
			domainerror.ErrCodeInvalidRate,
			"annual rate must be greater than 0 and at most 100",
			domainerror.ErrInvalidRate,
		)
	}

	periodicity := valueobject.Periodicity(input.Periodicity)
	if !periodicity.IsValid() {
		return nil, domainerror.NewProjectError(
			domainerror.ErrCodeInvalidPeriodicity,
			"periodicity must be 'mensuel', 'trimestriel', 'semestriel' or 'annuel'",
			domainerror.ErrInvalidPeriodicity,
		)
	}

	if input.DurationMonths <= 0 || input.DurationMonths%periodicity.MonthsPerPeriod() != 0 {
		return nil, domainerror.NewProjectError(
			domainerror.ErrCodeInvalidDuration,
			fmt.Sprintf("duration must be a positive multiple of %d months", periodicity.MonthsPerPeriod()),
			domainerror.ErrInvalidDuration,
		)
	}

	issueDate, err := time.Parse("2006-01-02", input.IssueDate)
	if err != nil {
		return nil, domainerror.NewProjectError(
			domainerror.ErrCodeInvalidIssueDate,
			"issue date must use the YYYY-MM-DD format",
			domainerror.ErrInvalidIssueDate,
		)
	}

	if input.TargetAmount.IsNegative() {
		return nil, domainerror.NewProjectError(
			domainerror.ErrCodeInvalidAmount,
			"target amount cannot be negative",
			domainerror.ErrInvalidAmount,
		)
	}

	if _, err := findProject(ctx, uc.projectRepo, input.ProjectID); err != nil {
		return nil, err
	}

	tranche := entity.NewTranche(
		input.ProjectID,
		name,
		input.AnnualRate,
		periodicity,
		input.DurationMonths,
		issueDate,
		input.TargetAmount,
	)

	if err := uc.trancheRepo.Create(ctx, tranche); err != nil {
		return nil, fmt.Errorf("failed to create tranche: %w", err)
	}

	return &CreateTrancheOutput{
		Tranche: tranche,
	}, nil
}
