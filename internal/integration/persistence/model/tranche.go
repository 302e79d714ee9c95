package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coupon-desk/backoffice/internal/domain/entity"
	"github.com/coupon-desk/backoffice/internal/domain/valueobject"
)

// TrancheModel represents the tranches table in the database.
type TrancheModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProjectID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name           string          `gorm:"type:varchar(200);not null"`
	AnnualRate     decimal.Decimal `gorm:"type:decimal(7,4);not null"`
	Periodicity    string          `gorm:"type:varchar(20);not null"`
	DurationMonths int             `gorm:"not null"`
	IssueDate      time.Time       `gorm:"type:date;not null"`
	TargetAmount   decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Status         string          `gorm:"type:varchar(20);not null;default:'draft'"`
	CreatedAt      time.Time       `gorm:"not null"`
	UpdatedAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for the TrancheModel.
func (TrancheModel) TableName() string {
	return "tranches"
}

// ToEntity converts a TrancheModel to a domain Tranche entity.
func (m *TrancheModel) ToEntity() *entity.Tranche {
	return &entity.Tranche{
		ID:             m.ID,
		ProjectID:      m.ProjectID,
		Name:           m.Name,
		AnnualRate:     m.AnnualRate,
		Periodicity:    valueobject.Periodicity(m.Periodicity),
		DurationMonths: m.DurationMonths,
		IssueDate:      m.IssueDate.UTC(),
		TargetAmount:   m.TargetAmount,
		Status:         entity.TrancheStatus(m.Status),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// TrancheFromEntity creates a TrancheModel from a domain Tranche entity.
func TrancheFromEntity(tranche *entity.Tranche) *TrancheModel {
	return &TrancheModel{
		ID:             tranche.ID,
		ProjectID:      tranche.ProjectID,
		Name:           tranche.Name,
		AnnualRate:     tranche.AnnualRate,
		Periodicity:    string(tranche.Periodicity),
		DurationMonths: tranche.DurationMonths,
		IssueDate:      tranche.IssueDate,
		TargetAmount:   tranche.TargetAmount,
		Status:         string(tranche.Status),
		CreatedAt:      tranche.CreatedAt,
		UpdatedAt:      tranche.UpdatedAt,
	}
}
