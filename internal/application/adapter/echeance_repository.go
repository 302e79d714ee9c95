// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/coupon-desk/backoffice/internal/domain/entity"
)

// EcheanceRepository defines the interface for coupon schedule persistence operations.
type EcheanceRepository interface {
	// CreateSchedule stores the coupons of a tranche and activates it in one transaction.
	CreateSchedule(ctx context.Context, tranche *entity.Tranche, echeances []*entity.Echeance) error

	// ExistsForTranche checks if a schedule was already generated for the tranche.
	ExistsForTranche(ctx context.Context, trancheID uuid.UUID) (bool, error)

	// FindByTrancheID retrieves the schedule ordered by due date then investor name.
	FindByTrancheID(ctx context.Context, trancheID uuid.UUID) ([]*entity.EcheanceWithInvestor, error)

	// FindUnpaid retrieves unpaid coupons due at dueDate, or at the earliest unpaid due date when nil.
	FindUnpaid(ctx context.Context, trancheID uuid.UUID, dueDate *time.Time) ([]*entity.EcheanceWithInvestor, error)

	// FindByIDs retrieves coupons with their investors by ID.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.EcheanceWithInvestor, error)
}
