package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coupon-desk/backoffice/internal/domain/entity"
)

// SubscriptionModel represents the subscriptions table in the database.
type SubscriptionModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TrancheID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	InvestorID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount       decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	SubscribedAt time.Time       `gorm:"type:date;not null"`
	Status       string          `gorm:"type:varchar(20);not null;default:'active'"`
	CreatedAt    time.Time       `gorm:"not null"`
	UpdatedAt    time.Time       `gorm:"not null"`

	Investor InvestorModel `gorm:"foreignKey:InvestorID"`
}

// TableName returns the table name for the SubscriptionModel.
func (SubscriptionModel) TableName() string {
	return "subscriptions"
}

// ToEntity converts a SubscriptionModel to a domain Subscription entity.
func (m *SubscriptionModel) ToEntity() *entity.Subscription {
	return &entity.Subscription{
		ID:           m.ID,
		TrancheID:    m.TrancheID,
		InvestorID:   m.InvestorID,
		Amount:       m.Amount,
		SubscribedAt: m.SubscribedAt.UTC(),
		Status:       entity.SubscriptionStatus(m.Status),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// SubscriptionFromEntity creates a SubscriptionModel from a domain Subscription entity.
func SubscriptionFromEntity(subscription *entity.Subscription) *SubscriptionModel {
	return &SubscriptionModel{
		ID:           subscription.ID,
		TrancheID:    subscription.TrancheID,
		InvestorID:   subscription.InvestorID,
		Amount:       subscription.Amount,
		SubscribedAt: subscription.SubscribedAt,
		Status:       string(subscription.Status),
		CreatedAt:    subscription.CreatedAt,
		UpdatedAt:    subscription.UpdatedAt,
	}
}
