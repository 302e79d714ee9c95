package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SubscriptionStatus represents the status of a subscription.
type SubscriptionStatus string

const (
	SubscriptionStatusActive SubscriptionStatus = "active"
)

// Subscription represents one investor's committed amount ("souscription") in a tranche.
type Subscription struct {
	ID           uuid.UUID
	TrancheID    uuid.UUID
	InvestorID   uuid.UUID
	Amount       decimal.Decimal
	SubscribedAt time.Time
	Status       SubscriptionStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewSubscription creates a new active Subscription.
func NewSubscription(trancheID, investorID uuid.UUID, amount decimal.Decimal, subscribedAt time.Time) *Subscription {
	now := time.Now().UTC()

	return &Subscription{
		ID:           uuid.New(),
		TrancheID:    trancheID,
		InvestorID:   investorID,
		Amount:       amount,
		SubscribedAt: subscribedAt,
		Status:       SubscriptionStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// SubscriptionWithInvestor represents a subscription with its investor.
type SubscriptionWithInvestor struct {
	Subscription *Subscription
	Investor     *Investor
}
