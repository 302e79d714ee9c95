// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/coupon-desk/backoffice/internal/domain/entity"
)

// ProjectRepository defines the interface for project persistence operations.
type ProjectRepository interface {
	// Create creates a new project in the database.
	Create(ctx context.Context, project *entity.Project) error

	// FindByID retrieves a project by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Project, error)

	// FindAll retrieves all projects, newest first.
	FindAll(ctx context.Context) ([]*entity.Project, error)
}

// TrancheRepository defines the interface for tranche persistence operations.
type TrancheRepository interface {
	// Create creates a new tranche in the database.
	Create(ctx context.Context, tranche *entity.Tranche) error

	// FindByID retrieves a tranche by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Tranche, error)

	// FindByProjectID retrieves the tranches of a project ordered by issue date.
	FindByProjectID(ctx context.Context, projectID uuid.UUID) ([]*entity.Tranche, error)
}
