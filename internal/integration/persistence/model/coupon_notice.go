package model

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coupon-desk/backoffice/internal/domain/entity"
)

// CouponNoticeModel represents the coupon_notices table in the database.
type CouponNoticeModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PaymentID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	EcheanceID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	InvestorID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	RecipientEmail string          `gorm:"type:varchar(255);not null"`
	RecipientName  string          `gorm:"type:varchar(255)"`
	ProjectName    string          `gorm:"type:varchar(200);not null"`
	TrancheName    string          `gorm:"type:varchar(200);not null"`
	PeriodNumber   int             `gorm:"not null"`
	Amount         decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	PaidAt         time.Time       `gorm:"type:date;not null"`
	Status         string          `gorm:"type:varchar(20);not null;default:'pending';index:idx_coupon_notices_due,priority:1"`
	Attempts       int             `gorm:"not null;default:0"`
	LastError      string          `gorm:"type:text"`
	ProviderID     string          `gorm:"type:varchar(100)"`
	CreatedAt      time.Time       `gorm:"not null"`
	ScheduledAt    time.Time       `gorm:"not null;index:idx_coupon_notices_due,priority:2"`
	SentAt         sql.NullTime
}

// TableName returns the table name for the CouponNoticeModel.
func (CouponNoticeModel) TableName() string {
	return "coupon_notices"
}

// ToEntity converts a CouponNoticeModel to a domain CouponNotice entity.
func (m *CouponNoticeModel) ToEntity() *entity.CouponNotice {
	var sentAt *time.Time
	if m.SentAt.Valid {
		sentAt = &m.SentAt.Time
	}

	return &entity.CouponNotice{
		ID:             m.ID,
		PaymentID:      m.PaymentID,
		EcheanceID:     m.EcheanceID,
		InvestorID:     m.InvestorID,
		RecipientEmail: m.RecipientEmail,
		RecipientName:  m.RecipientName,
		ProjectName:    m.ProjectName,
		TrancheName:    m.TrancheName,
		PeriodNumber:   m.PeriodNumber,
		Amount:         m.Amount,
		PaidAt:         m.PaidAt,
		Status:         entity.NoticeStatus(m.Status),
		Attempts:       m.Attempts,
		LastError:      m.LastError,
		ProviderID:     m.ProviderID,
		CreatedAt:      m.CreatedAt,
		ScheduledAt:    m.ScheduledAt,
		SentAt:         sentAt,
	}
}

// CouponNoticeModelFromEntity creates a CouponNoticeModel from a domain CouponNotice entity.
func CouponNoticeModelFromEntity(n *entity.CouponNotice) *CouponNoticeModel {
	var sentAt sql.NullTime
	if n.SentAt != nil {
		sentAt = sql.NullTime{Time: *n.SentAt, Valid: true}
	}

	return &CouponNoticeModel{
		ID:             n.ID,
		PaymentID:      n.PaymentID,
		EcheanceID:     n.EcheanceID,
		InvestorID:     n.InvestorID,
		RecipientEmail: n.RecipientEmail,
		RecipientName:  n.RecipientName,
		ProjectName:    n.ProjectName,
		TrancheName:    n.TrancheName,
		PeriodNumber:   n.PeriodNumber,
		Amount:         n.Amount,
		PaidAt:         n.PaidAt,
		Status:         string(n.Status),
		Attempts:       n.Attempts,
		LastError:      n.LastError,
		ProviderID:     n.ProviderID,
		CreatedAt:      n.CreatedAt,
		ScheduledAt:    n.ScheduledAt,
		SentAt:         sentAt,
	}
}
