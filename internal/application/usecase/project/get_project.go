package project

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/coupon-desk/backoffice/internal/application/adapter"
	"github.com/coupon-desk/backoffice/internal/domain/entity"
	domainerror "github.com/coupon-desk/backoffice/internal/domain/error"
)

// GetProjectInput represents the input for getting a project.
type GetProjectInput struct {
	ProjectID uuid.UUID
}

// GetProjectOutput represents the output of getting a project.
type GetProjectOutput struct {
	Project *entity.ProjectWithTranches
}

// GetProjectUseCase handles fetching a project with its tranches.
type GetProjectUseCase struct {
	projectRepo adapter.ProjectRepository
	trancheRepo adapter.TrancheRepository
}

// NewGetProjectUseCase creates a new GetProjectUseCase instance.
func NewGetProjectUseCase(projectRepo adapter.ProjectRepository, trancheRepo adapter.TrancheRepository) *GetProjectUseCase {
	return &GetProjectUseCase{
		projectRepo: projectRepo,
		trancheRepo: trancheRepo,
	}
}

// Execute performs the project lookup.
func (uc *GetProjectUseCase) Execute(ctx context.Context, input GetProjectInput) (*GetProjectOutput, error) {
	project, err := findProject(ctx, uc.projectRepo, input.ProjectID)
	if err != nil {
		return nil, err
	}

	tranches, err := uc.trancheRepo.FindByProjectID(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tranches: %w", err)
	}

	return &GetProjectOutput{
		Project: &entity.ProjectWithTranches{
			Project:  project,
			Tranches: tranches,
		},
	}, nil
}

func findProject(ctx context.Context, repo adapter.ProjectRepository, id uuid.UUID) (*entity.Project, error) {
	project, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerror.ErrProjectNotFound) {
			return nil, domainerror.NewProjectError(
				domainerror.ErrCodeProjectNotFound,
				"project not found",
				domainerror.ErrProjectNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}
