package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/coupon-desk/backoffice/internal/application/adapter"
	"github.com/coupon-desk/backoffice/internal/domain/entity"
	"github.com/coupon-desk/backoffice/internal/integration/persistence/model"
)

// subscriptionRepository implements the adapter.SubscriptionRepository interface.
type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository instance.
func NewSubscriptionRepository(db *gorm.DB) adapter.SubscriptionRepository {
	return &subscriptionRepository{
		db: db,
	}
}

// Create creates a new subscription in the database.
func (r *subscriptionRepository) Create(ctx context.Context, subscription *entity.Subscription) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Create(model.SubscriptionFromEntity(subscription)).Error
}

// FindByTrancheID retrieves the subscriptions of a tranche with their investors, oldest first.
func (r *subscriptionRepository) FindByTrancheID(ctx context.Context, trancheID uuid.UUID) ([]*entity.SubscriptionWithInvestor, error) {
	var subscriptionModels []model.SubscriptionModel
	result := r.db.WithContext(ctx).
		Preload("Investor").
		Where("tranche_id = ?", trancheID).
		Order("created_at ASC").
		Find(&subscriptionModels)
	if result.Error != nil {
		return nil, result.Error
	}

	subscriptions := make([]*entity.SubscriptionWithInvestor, len(subscriptionModels))
	for i, sm := range subscriptionModels {
		subscriptions[i] = &entity.SubscriptionWithInvestor{
			Subscription: sm.ToEntity(),
			Investor:     sm.Investor.ToEntity(),
		}
	}
	return subscriptions, nil
}
