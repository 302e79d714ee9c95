// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/coupon-desk/backoffice/internal/domain/entity"
)

// PaymentBatchStore keeps analysis batches for review until they are confirmed or expire.
type PaymentBatchStore interface {
	// Save stores a batch for ttl.
	Save(ctx context.Context, batch *entity.PaymentBatch, ttl time.Duration) error

	// Get retrieves a batch. Returns ErrPaymentBatchNotFound when missing or expired.
	Get(ctx context.Context, id uuid.UUID) (*entity.PaymentBatch, error)

	// Delete invalidates a batch.
	Delete(ctx context.Context, id uuid.UUID) error
}
