package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/coupon-desk/backoffice/internal/application/adapter"
	"github.com/coupon-desk/backoffice/internal/domain/entity"
	domainerror "github.com/coupon-desk/backoffice/internal/domain/error"
	"github.com/coupon-desk/backoffice/internal/integration/persistence/model"
)

// paymentRepository implements the adapter.PaymentRepository interface.
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository instance.
func NewPaymentRepository(db *gorm.DB) adapter.PaymentRepository {
	return &paymentRepository{
		db: db,
	}
}

// ConfirmPayments inserts the payments and marks their coupons paid in one transaction.
func (r *paymentRepository) ConfirmPayments(ctx context.Context, payments []*entity.Payment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()

		for _, payment := range payments {
			// Only an unpaid coupon can be settled
			result := tx.Model(&model.EcheanceModel{}).
				Where("id = ? AND status = ?", payment.EcheanceID, string(entity.EcheanceStatusDue)).
				Updates(map[string]interface{}{
					"status":     string(entity.EcheanceStatusPaid),
					"paid_at":    payment.PaidAt,
					"updated_at": now,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return domainerror.ErrEcheanceAlreadyPaid
			}

			if err := tx.Omit(clause.Associations).Create(model.PaymentFromEntity(payment)).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// FindByTrancheID retrieves the confirmed payments of a tranche, newest first.
func (r *paymentRepository) FindByTrancheID(ctx context.Context, trancheID uuid.UUID) ([]*entity.PaymentWithInvestor, error) {
	var paymentModels []model.PaymentModel
	result := r.db.WithContext(ctx).
		Preload("Investor").
		Where("tranche_id = ?", trancheID).
		Order("created_at DESC, paid_at DESC").
		Find(&paymentModels)
	if result.Error != nil {
		return nil, result.Error
	}

	payments := make([]*entity.PaymentWithInvestor, len(paymentModels))
	for i := range paymentModels {
		payments[i] = &entity.PaymentWithInvestor{
			Payment:  paymentModels[i].ToEntity(),
			Investor: paymentModels[i].Investor.ToEntity(),
		}
	}
	return payments, nil
}
