package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/coupon-desk/backoffice/internal/domain/entity"
	"github.com/coupon-desk/backoffice/internal/domain/valueobject"
)

// PaymentModel represents the payments table in the database.
type PaymentModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TrancheID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	EcheanceID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	SubscriptionID  uuid.UUID       `gorm:"type:uuid;not null"`
	InvestorID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	BatchID         uuid.UUID       `gorm:"type:uuid;not null"`
	Amount          decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	PaidAt          time.Time       `gorm:"type:date;not null"`
	Beneficiary     string          `gorm:"type:varchar(255)"`
	Reference       *string         `gorm:"type:varchar(255)"`
	MatchStatus     string          `gorm:"type:varchar(20);not null"`
	Confidence      int             `gorm:"not null;default:0"`
	SourceDocuments pq.StringArray  `gorm:"type:text[]"`
	ConfirmedBy     uuid.UUID       `gorm:"type:uuid;not null"`
	CreatedAt       time.Time       `gorm:"not null"`

	Investor InvestorModel `gorm:"foreignKey:InvestorID"`
}

// TableName returns the table name for the PaymentModel.
func (PaymentModel) TableName() string {
	return "payments"
}

// ToEntity converts a PaymentModel to a domain Payment entity.
func (m *PaymentModel) ToEntity() *entity.Payment {
	documents := make([]string, len(m.SourceDocuments))
	copy(documents, m.SourceDocuments)

	return &entity.Payment{
		ID:              m.ID,
		TrancheID:       m.TrancheID,
		EcheanceID:      m.EcheanceID,
		SubscriptionID:  m.SubscriptionID,
		InvestorID:      m.InvestorID,
		BatchID:         m.BatchID,
		Amount:          m.Amount,
		PaidAt:          m.PaidAt.UTC(),
		Beneficiary:     m.Beneficiary,
		Reference:       m.Reference,
		MatchStatus:     valueobject.MatchStatus(m.MatchStatus),
		Confidence:      m.Confidence,
		SourceDocuments: documents,
		ConfirmedBy:     m.ConfirmedBy,
		CreatedAt:       m.CreatedAt,
	}
}

// PaymentFromEntity creates a PaymentModel from a domain Payment entity.
func PaymentFromEntity(payment *entity.Payment) *PaymentModel {
	return &PaymentModel{
		ID:              payment.ID,
		TrancheID:       payment.TrancheID,
		EcheanceID:      payment.EcheanceID,
		SubscriptionID:  payment.SubscriptionID,
		InvestorID:      payment.InvestorID,
		BatchID:         payment.BatchID,
		Amount:          payment.Amount,
		PaidAt:          payment.PaidAt,
		Beneficiary:     payment.Beneficiary,
		Reference:       payment.Reference,
		MatchStatus:     string(payment.MatchStatus),
		Confidence:      payment.Confidence,
		SourceDocuments: pq.StringArray(payment.SourceDocuments),
		ConfirmedBy:     payment.ConfirmedBy,
		CreatedAt:       payment.CreatedAt,
	}
}
