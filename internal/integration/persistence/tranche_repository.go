package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coupon-desk/backoffice/internal/application/adapter"
	"github.com/coupon-desk/backoffice/internal/domain/entity"
	domainerror "github.com/coupon-desk/backoffice/internal/domain/error"
	"github.com/coupon-desk/backoffice/internal/integration/persistence/model"
)

// trancheRepository implements the adapter.TrancheRepository interface.
type trancheRepository struct {
	db *gorm.DB
}

// NewTrancheRepository creates a new tranche repository instance.
func NewTrancheRepository(db *gorm.DB) adapter.TrancheRepository {
	return &trancheRepository{
		db: db,
	}
}

// Create creates a new tranche in the database.
func (r *trancheRepository) Create(ctx context.Context, tranche *entity.Tranche) error {
	return r.db.WithContext(ctx).Create(model.TrancheFromEntity(tranche)).Error
}

// FindByID retrieves a tranche by its ID.
func (r *trancheRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Tranche, error) {
	var trancheModel model.TrancheModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&trancheModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrTrancheNotFound
		}
		return nil, result.Error
	}
	return trancheModel.ToEntity(), nil
}

// FindByProjectID retrieves the tranches of a project ordered by issue date.
func (r *trancheRepository) FindByProjectID(ctx context.Context, projectID uuid.UUID) ([]*entity.Tranche, error) {
	var trancheModels []model.TrancheModel
	result := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("issue_date ASC, created_at ASC").
		Find(&trancheModels)
	if result.Error != nil {
		return nil, result.Error
	}

	tranches := make([]*entity.Tranche, len(trancheModels))
	for i, tm := range trancheModels {
		tranches[i] = tm.ToEntity()
	}
	return tranches, nil
}
