// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/coupon-desk/backoffice/internal/domain/entity"
)

// InvestorRepository defines the interface for investor persistence operations.
type InvestorRepository interface {
	// Create creates a new investor in the database.
	Create(ctx context.Context, investor *entity.Investor) error

	// Update updates an existing investor.
	Update(ctx context.Context, investor *entity.Investor) error

	// FindByEmail retrieves an investor by email (case-insensitive). Returns nil if absent.
	FindByEmail(ctx context.Context, email string) (*entity.Investor, error)
}

// SubscriptionRepository defines the interface for subscription persistence operations.
type SubscriptionRepository interface {
	// Create creates a new subscription in the database.
	Create(ctx context.Context, subscription *entity.Subscription) error

	// FindByTrancheID retrieves the subscriptions of a tranche with their investors.
	FindByTrancheID(ctx context.Context, trancheID uuid.UUID) ([]*entity.SubscriptionWithInvestor, error)
}
