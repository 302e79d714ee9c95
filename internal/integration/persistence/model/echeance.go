package model

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coupon-desk/backoffice/internal/domain/entity"
)

// EcheanceModel represents the echeances table in the database.
type EcheanceModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TrancheID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_echeances_tranche_due"`
	SubscriptionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	InvestorID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	PeriodNumber   int             `gorm:"not null"`
	DueDate        time.Time       `gorm:"type:date;not null;index:idx_echeances_tranche_due"`
	GrossCoupon    decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Withholding    decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	NetCoupon      decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Capital        decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	AmountDue      decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Status         string          `gorm:"type:varchar(20);not null;default:'a_payer'"`
	PaidAt         sql.NullTime    `gorm:"type:date"`
	CreatedAt      time.Time       `gorm:"not null"`
	UpdatedAt      time.Time       `gorm:"not null"`

	Investor InvestorModel `gorm:"foreignKey:InvestorID"`
}

// TableName returns the table name for the EcheanceModel.
func (EcheanceModel) TableName() string {
	return "echeances"
}

// ToEntity converts an EcheanceModel to a domain Echeance entity.
func (m *EcheanceModel) ToEntity() *entity.Echeance {
	var paidAt *time.Time
	if m.PaidAt.Valid {
		t := m.PaidAt.Time.UTC()
		paidAt = &t
	}

	return &entity.Echeance{
		ID:             m.ID,
		TrancheID:      m.TrancheID,
		SubscriptionID: m.SubscriptionID,
		InvestorID:     m.InvestorID,
		PeriodNumber:   m.PeriodNumber,
		DueDate:        m.DueDate.UTC(),
		GrossCoupon:    m.GrossCoupon,
		Withholding:    m.Withholding,
		NetCoupon:      m.NetCoupon,
		Capital:        m.Capital,
		AmountDue:      m.AmountDue,
		Status:         entity.EcheanceStatus(m.Status),
		PaidAt:         paidAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// ToEntityWithInvestor converts an EcheanceModel with its preloaded investor.
func (m *EcheanceModel) ToEntityWithInvestor() *entity.EcheanceWithInvestor {
	return &entity.EcheanceWithInvestor{
		Echeance: m.ToEntity(),
		Investor: m.Investor.ToEntity(),
	}
}

// EcheanceFromEntity creates an EcheanceModel from a domain Echeance entity.
func EcheanceFromEntity(echeance *entity.Echeance) *EcheanceModel {
	var paidAt sql.NullTime
	if echeance.PaidAt != nil {
		paidAt = sql.NullTime{Time: *echeance.PaidAt, Valid: true}
	}

	return &EcheanceModel{
		ID:             echeance.ID,
		TrancheID:      echeance.TrancheID,
		SubscriptionID: echeance.SubscriptionID,
		InvestorID:     echeance.InvestorID,
		PeriodNumber:   echeance.PeriodNumber,
		DueDate:        echeance.DueDate,
		GrossCoupon:    echeance.GrossCoupon,
		Withholding:    echeance.Withholding,
		NetCoupon:      echeance.NetCoupon,
		Capital:        echeance.Capital,
		AmountDue:      echeance.AmountDue,
		Status:         string(echeance.Status),
		PaidAt:         paidAt,
		CreatedAt:      echeance.CreatedAt,
		UpdatedAt:      echeance.UpdatedAt,
	}
}
