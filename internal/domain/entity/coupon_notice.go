package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NoticeStatus is the delivery state of a coupon notice.
type NoticeStatus string

const (
	NoticeStatusPending NoticeStatus = "pending"
	NoticeStatusSending NoticeStatus = "sending"
	NoticeStatusSent    NoticeStatus = "sent"
	NoticeStatusFailed  NoticeStatus = "failed"
)

// MaxNoticeAttempts bounds the delivery attempts of a notice.
const MaxNoticeAttempts = 3

// noticeRetryDelays is the wait after the first and second failed attempts.
var noticeRetryDelays = []time.Duration{time.Minute, 5 * time.Minute}

// CouponNotice is the email telling an investor that one of their coupons was paid.
// A payment has at most one notice.
type CouponNotice struct {
	ID             uuid.UUID
	PaymentID      uuid.UUID
	EcheanceID     uuid.UUID
	InvestorID     uuid.UUID
	RecipientEmail string
	RecipientName  string
	ProjectName    string
	TrancheName    string
	PeriodNumber   int
	Amount         decimal.Decimal
	PaidAt         time.Time
	Status         NoticeStatus
	Attempts       int
	LastError      string
	ProviderID     string // message id returned by the email provider
	CreatedAt      time.Time
	ScheduledAt    time.Time
	SentAt         *time.Time
}

// NewCouponNotice creates the pending notice for a confirmed payment.
// It returns nil when the investor has no email address.
func NewCouponNotice(payment *Payment, investor *Investor, periodNumber int, projectName, trancheName string) *CouponNotice {
	if payment == nil || investor == nil || investor.Email == "" {
		return nil
	}

	now := time.Now().UTC()
	return &CouponNotice{
		ID:             uuid.New(),
		PaymentID:      payment.ID,
		EcheanceID:     payment.EcheanceID,
		InvestorID:     investor.ID,
		RecipientEmail: investor.Email,
		RecipientName:  investor.DisplayName(),
		ProjectName:    projectName,
		TrancheName:    trancheName,
		PeriodNumber:   periodNumber,
		Amount:         payment.Amount,
		PaidAt:         payment.PaidAt,
		Status:         NoticeStatusPending,
		CreatedAt:      now,
		ScheduledAt:    now,
	}
}

// Subject returns the email subject of the notice.
func (n *CouponNotice) Subject() string {
	return fmt.Sprintf("Paiement de votre coupon - %s", n.ProjectName)
}

// MarkSending marks the notice as handed to the worker.
func (n *CouponNotice) MarkSending() {
	n.Status = NoticeStatusSending
}

// MarkSent records the provider message id.
func (n *CouponNotice) MarkSent(providerID string) {
	now := time.Now().UTC()
	n.Status = NoticeStatusSent
	n.ProviderID = providerID
	n.SentAt = &now
}

// MarkFailed counts a failed attempt and either schedules the next one or gives up.
func (n *CouponNotice) MarkFailed(err error, permanent bool) {
	n.Attempts++
	n.LastError = err.Error()

	if permanent || n.Attempts >= MaxNoticeAttempts {
		n.Status = NoticeStatusFailed
		return
	}

	n.Status = NoticeStatusPending
	n.ScheduledAt = time.Now().UTC().Add(noticeRetryDelays[n.Attempts-1])
}

// IsDue reports whether the worker should try to deliver the notice at now.
func (n *CouponNotice) IsDue(now time.Time) bool {
	return n.Status == NoticeStatusPending && !n.ScheduledAt.After(now)
}
