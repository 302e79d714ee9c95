package adapter

import (
	"context"
	"time"

	"github.com/coupon-desk/backoffice/internal/domain/entity"
)

// CouponNoticeRepository defines the interface for the coupon notice outbox.
type CouponNoticeRepository interface {
	// Enqueue stores new notices and returns how many were stored.
	// A payment that already has a notice keeps it and is skipped.
	Enqueue(ctx context.Context, notices []*entity.CouponNotice) (int, error)

	// FindDue returns pending notices scheduled at or before now, oldest first.
	FindDue(ctx context.Context, now time.Time, limit int) ([]*entity.CouponNotice, error)

	// Update saves the delivery state of a notice.
	Update(ctx context.Context, notice *entity.CouponNotice) error
}
