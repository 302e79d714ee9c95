// Package project contains project and tranche use cases.
package project

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/coupon-desk/backoffice/internal/application/adapter"
	"github.com/coupon-desk/backoffice/internal/domain/entity"
	domainerror "github.com/coupon-desk/backoffice/internal/domain/error"
)

// MaxNameLength is the maximum length of project and tranche names.
const MaxNameLength = 200

// CreateProjectInput represents the input for project creation.
type CreateProjectInput struct {
	Name        string
	Issuer      string
	Description string
	CreatedBy   uuid.UUID
}

// CreateProjectOutput represents the output of project creation.
type CreateProjectOutput struct {
	Project *entity.Project
}

// CreateProjectUseCase handles project creation logic.
type CreateProjectUseCase struct {
	projectRepo adapter.ProjectRepository
}

// NewCreateProjectUseCase creates a new CreateProjectUseCase instance.
func NewCreateProjectUseCase(projectRepo adapter.ProjectRepository) *CreateProjectUseCase {
	return &CreateProjectUseCase{
		projectRepo: projectRepo,
	}
}

// Execute performs the project creation.
func (uc *CreateProjectUseCase) Execute(ctx context.Context, input CreateProjectInput) (*CreateProjectOutput, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || utf8.RuneCountInString(name) > MaxNameLength {
		return nil, domainerror.NewProjectError(
			domainerror.ErrCodeInvalidProjectName,
			fmt.Sprintf("project name must be between 1 and %d characters", MaxNameLength),
			domainerror.ErrInvalidProjectName,
		)
	}

	project := entity.NewProject(
		name,
		strings.TrimSpace(input.Issuer),
		strings.TrimSpace(input.Description),
		input.CreatedBy,
	)

	if err := uc.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return &CreateProjectOutput{
		Project: project,
	}, nil
}
