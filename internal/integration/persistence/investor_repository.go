package persistence

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/coupon-desk/backoffice/internal/application/adapter"
	"github.com/coupon-desk/backoffice/internal/domain/entity"
	"github.com/coupon-desk/backoffice/internal/integration/persistence/model"
)

// investorRepository implements the adapter.InvestorRepository interface.
type investorRepository struct {
	db *gorm.DB
}

// NewInvestorRepository creates a new investor repository instance.
func NewInvestorRepository(db *gorm.DB) adapter.InvestorRepository {
	return &investorRepository{
		db: db,
	}
}

// Create creates a new investor in the database.
func (r *investorRepository) Create(ctx context.Context, investor *entity.Investor) error {
	return r.db.WithContext(ctx).Create(model.InvestorFromEntity(investor)).Error
}

// Update updates an existing investor.
func (r *investorRepository) Update(ctx context.Context, investor *entity.Investor) error {
	return r.db.WithContext(ctx).Save(model.InvestorFromEntity(investor)).Error
}

// FindByEmail retrieves an investor by email. Returns nil if absent.
func (r *investorRepository) FindByEmail(ctx context.Context, email string) (*entity.Investor, error) {
	var investorModel model.InvestorModel
	result := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&investorModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return investorModel.ToEntity(), nil
}
