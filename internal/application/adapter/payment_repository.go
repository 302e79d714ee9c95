// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/coupon-desk/backoffice/internal/domain/entity"
)

// PaymentRepository defines the interface for confirmed payment persistence operations.
type PaymentRepository interface {
	// ConfirmPayments inserts the payments and marks their coupons paid in one transaction.
	// Returns ErrEcheanceAlreadyPaid if any coupon was paid concurrently.
	ConfirmPayments(ctx context.Context, payments []*entity.Payment) error

	// FindByTrancheID retrieves the confirmed payments of a tranche, newest first.
	FindByTrancheID(ctx context.Context, trancheID uuid.UUID) ([]*entity.PaymentWithInvestor, error)
}
