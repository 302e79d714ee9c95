// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/coupon-desk/backoffice/internal/domain/entity"
)

// SendEmailInput represents the input for sending an email.
type SendEmailInput struct {
	To      string
	Name    string
	Subject string
	HTML    string
	Text    string
	Tags    map[string]string // provider tags, e.g. payment_id
}

// SendEmailResult represents the result of sending an email.
type SendEmailResult struct {
	ProviderID string
}

// EmailSender defines the interface for sending emails via an external provider.
type EmailSender interface {
	Send(ctx context.Context, input SendEmailInput) (*SendEmailResult, error)
}

// CouponNotifier queues the notices sent to investors once their coupons are paid.
type CouponNotifier interface {
	NotifyCouponsPaid(ctx context.Context, notices []*entity.CouponNotice) error
}
