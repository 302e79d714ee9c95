// Package email queues and delivers the coupon payment notices.
package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/coupon-desk/backoffice/internal/application/adapter"
	"github.com/coupon-desk/backoffice/internal/domain/entity"
	domainerror "github.com/coupon-desk/backoffice/internal/domain/error"
)

// Service stores coupon notices in the outbox read by the Worker.
type Service struct {
	notices adapter.CouponNoticeRepository
}

// NewService creates a new email service.
func NewService(notices adapter.CouponNoticeRepository) *Service {
	return &Service{
		notices: notices,
	}
}

// NotifyCouponsPaid queues one notice per paid coupon.
// Payments that were already notified are skipped.
func (s *Service) NotifyCouponsPaid(ctx context.Context, notices []*entity.CouponNotice) error {
	if len(notices) == 0 {
		return nil
	}

	queued, err := s.notices.Enqueue(ctx, notices)
	if err != nil {
		return domainerror.NewEmailError(
			domainerror.ErrCodeNoticeQueueFailed,
			fmt.Sprintf("failed to queue %d coupon notices", len(notices)),
			fmt.Errorf("%w: %w", domainerror.ErrNoticeQueueFailed, err),
		)
	}

	if skipped := len(notices) - queued; skipped > 0 {
		slog.Info("Coupon notices already queued", "queued", queued, "skipped", skipped)
	}
	return nil
}

// Ensure Service implements adapter.CouponNotifier.
var _ adapter.CouponNotifier = (*Service)(nil)
