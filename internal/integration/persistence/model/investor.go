package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/coupon-desk/backoffice/internal/domain/entity"
)

// InvestorModel represents the investors table in the database.
type InvestorModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Type        string    `gorm:"type:varchar(20);not null"`
	FirstName   string    `gorm:"type:varchar(100)"`
	LastName    string    `gorm:"type:varchar(100)"`
	CompanyName string    `gorm:"type:varchar(200)"`
	Email       string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for the InvestorModel.
func (InvestorModel) TableName() string {
	return "investors"
}

// ToEntity converts an InvestorModel to a domain Investor entity.
func (m *InvestorModel) ToEntity() *entity.Investor {
	return &entity.Investor{
		ID:          m.ID,
		Type:        entity.InvestorType(m.Type),
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		CompanyName: m.CompanyName,
		Email:       m.Email,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// InvestorFromEntity creates an InvestorModel from a domain Investor entity.
func InvestorFromEntity(investor *entity.Investor) *InvestorModel {
	return &InvestorModel{
		ID:          investor.ID,
		Type:        string(investor.Type),
		FirstName:   investor.FirstName,
		LastName:    investor.LastName,
		CompanyName: investor.CompanyName,
		Email:       investor.Email,
		CreatedAt:   investor.CreatedAt,
		UpdatedAt:   investor.UpdatedAt,
	}
}
