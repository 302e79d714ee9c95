package persistence

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/coupon-desk/backoffice/internal/application/adapter"
	"github.com/coupon-desk/backoffice/internal/domain/entity"
	"github.com/coupon-desk/backoffice/internal/integration/persistence/model"
)

const echeanceInsertBatchSize = 200

// echeanceRepository implements the adapter.EcheanceRepository interface.
type echeanceRepository struct {
	db *gorm.DB
}

// NewEcheanceRepository creates a new echeance repository instance.
func NewEcheanceRepository(db *gorm.DB) adapter.EcheanceRepository {
	return &echeanceRepository{
		db: db,
	}
}

// CreateSchedule stores the coupons of a tranche and activates it in one transaction.
func (r *echeanceRepository) CreateSchedule(ctx context.Context, tranche *entity.Tranche, echeances []*entity.Echeance) error {
	models := make([]*model.EcheanceModel, len(echeances))
	for i, e := range echeances {
		models[i] = model.EcheanceFromEntity(e)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).CreateInBatches(models, echeanceInsertBatchSize).Error; err != nil {
			return err
		}

		return tx.Model(&model.TrancheModel{}).
			Where("id = ?", tranche.ID).
			Updates(map[string]interface{}{
				"status":     string(tranche.Status),
				"updated_at": tranche.UpdatedAt,
			}).Error
	})
}

// ExistsForTranche checks if a schedule was already generated for the tranche.
func (r *echeanceRepository) ExistsForTranche(ctx context.Context, trancheID uuid.UUID) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.EcheanceModel{}).
		Where("tranche_id = ?", trancheID).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

// FindByTrancheID retrieves the schedule ordered by due date then investor name.
func (r *echeanceRepository) FindByTrancheID(ctx context.Context, trancheID uuid.UUID) ([]*entity.EcheanceWithInvestor, error) {
	var echeanceModels []model.EcheanceModel
	result := r.db.WithContext(ctx).
		Preload("Investor").
		Where("tranche_id = ?", trancheID).
		Order("due_date ASC").
		Find(&echeanceModels)
	if result.Error != nil {
		return nil, result.Error
	}

	return toSortedEcheances(echeanceModels), nil
}

// FindUnpaid retrieves unpaid coupons due on dueDate, or on the earliest unpaid due date when nil.
func (r *echeanceRepository) FindUnpaid(ctx context.Context, trancheID uuid.UUID, dueDate *time.Time) ([]*entity.EcheanceWithInvestor, error) {
	day := dueDate
	if day == nil {
		var earliest model.EcheanceModel
		result := r.db.WithContext(ctx).
			Where("tranche_id = ? AND status = ?", trancheID, string(entity.EcheanceStatusDue)).
			Order("due_date ASC").
			First(&earliest)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return []*entity.EcheanceWithInvestor{}, nil
			}
			return nil, result.Error
		}
		earliestDay := earliest.DueDate.UTC()
		day = &earliestDay
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	var echeanceModels []model.EcheanceModel
	result := r.db.WithContext(ctx).
		Preload("Investor").
		Where("tranche_id = ? AND status = ?", trancheID, string(entity.EcheanceStatusDue)).
		Where("due_date >= ? AND due_date < ?", start, end).
		Find(&echeanceModels)
	if result.Error != nil {
		return nil, result.Error
	}

	return toSortedEcheances(echeanceModels), nil
}

// FindByIDs retrieves coupons with their investors by ID.
func (r *echeanceRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.EcheanceWithInvestor, error) {
	if len(ids) == 0 {
		return []*entity.EcheanceWithInvestor{}, nil
	}

	var echeanceModels []model.EcheanceModel
	result := r.db.WithContext(ctx).
		Preload("Investor").
		Where("id IN ?", ids).
		Find(&echeanceModels)
	if result.Error != nil {
		return nil, result.Error
	}

	return toSortedEcheances(echeanceModels), nil
}

// toSortedEcheances orders coupons by due date, investor name, then ID so that
// matching candidates are always fed in the same order.
func toSortedEcheances(models []model.EcheanceModel) []*entity.EcheanceWithInvestor {
	echeances := make([]*entity.EcheanceWithInvestor, len(models))
	for i := range models {
		echeances[i] = models[i].ToEntityWithInvestor()
	}

	sort.SliceStable(echeances, func(i, j int) bool {
		a, b := echeances[i], echeances[j]
		if !a.Echeance.DueDate.Equal(b.Echeance.DueDate) {
			return a.Echeance.DueDate.Before(b.Echeance.DueDate)
		}
		if nameA, nameB := a.Investor.DisplayName(), b.Investor.DisplayName(); nameA != nameB {
			return nameA < nameB
		}
		return a.Echeance.ID.String() < b.Echeance.ID.String()
	})
	return echeances
}
