package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/coupon-desk/backoffice/internal/application/adapter"
	"github.com/coupon-desk/backoffice/internal/domain/entity"
	"github.com/coupon-desk/backoffice/internal/integration/persistence/model"
)

// couponNoticeRepository implements the adapter.CouponNoticeRepository interface.
type couponNoticeRepository struct {
	db *gorm.DB
}

// NewCouponNoticeRepository creates a new coupon notice repository instance.
func NewCouponNoticeRepository(db *gorm.DB) adapter.CouponNoticeRepository {
	return &couponNoticeRepository{
		db: db,
	}
}

// Enqueue inserts the notices, skipping payments that already have one.
func (r *couponNoticeRepository) Enqueue(ctx context.Context, notices []*entity.CouponNotice) (int, error) {
	if len(notices) == 0 {
		return 0, nil
	}

	models := make([]*model.CouponNoticeModel, len(notices))
	for i, n := range notices {
		models[i] = model.CouponNoticeModelFromEntity(n)
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "payment_id"}},
			DoNothing: true,
		}).
		Create(&models)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to insert coupon notices: %w", result.Error)
	}

	return int(result.RowsAffected), nil
}

// FindDue returns pending notices whose next attempt is due.
func (r *couponNoticeRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]*entity.CouponNotice, error) {
	var models []model.CouponNoticeModel

	result := r.db.WithContext(ctx).
		Where("status = ?", entity.NoticeStatusPending).
		Where("scheduled_at <= ?", now).
		Order("scheduled_at ASC").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list due coupon notices: %w", result.Error)
	}

	notices := make([]*entity.CouponNotice, len(models))
	for i := range models {
		notices[i] = models[i].ToEntity()
	}
	return notices, nil
}

// Update saves the delivery state of a notice.
func (r *couponNoticeRepository) Update(ctx context.Context, notice *entity.CouponNotice) error {
	result := r.db.WithContext(ctx).
		Model(&model.CouponNoticeModel{}).
		Where("id = ?", notice.ID).
		Updates(map[string]interface{}{
			"status":       string(notice.Status),
			"attempts":     notice.Attempts,
			"last_error":   notice.LastError,
			"provider_id":  notice.ProviderID,
			"scheduled_at": notice.ScheduledAt,
			"sent_at":      model.CouponNoticeModelFromEntity(notice).SentAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update coupon notice: %w", result.Error)
	}
	return nil
}
