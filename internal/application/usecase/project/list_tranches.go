package project

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/coupon-desk/backoffice/internal/application/adapter"
	"github.com/coupon-desk/backoffice/internal/domain/entity"
)

// ListTranchesInput represents the input for listing the tranches of a project.
type ListTranchesInput struct {
	ProjectID uuid.UUID
}

// ListTranchesOutput represents the output of listing tranches.
type ListTranchesOutput struct {
	Tranches []*entity.Tranche
}

// ListTranchesUseCase handles listing tranches logic.
type ListTranchesUseCase struct {
	projectRepo adapter.ProjectRepository
	trancheRepo adapter.TrancheRepository
}

// NewListTranchesUseCase creates a new ListTranchesUseCase instance.
func NewListTranchesUseCase(projectRepo adapter.ProjectRepository, trancheRepo adapter.TrancheRepository) *ListTranchesUseCase {
	return &ListTranchesUseCase{
		projectRepo: projectRepo,
		trancheRepo: trancheRepo,
	}
}

// Execute lists the tranches of a project ordered by issue date.
func (uc *ListTranchesUseCase) Execute(ctx context.Context, input ListTranchesInput) (*ListTranchesOutput, error) {
	if _, err := findProject(ctx, uc.projectRepo, input.ProjectID); err != nil {
		return nil, err
	}

	tranches, err := uc.trancheRepo.FindByProjectID(ctx, input.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tranches: %w", err)
	}

	return &ListTranchesOutput{
		Tranches: tranches,
	}, nil
}
