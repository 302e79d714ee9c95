package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coupon-desk/backoffice/internal/domain/valueobject"
)

// Payment represents a coupon payment confirmed by an operator after reconciliation.
type Payment struct {
	ID              uuid.UUID
	TrancheID       uuid.UUID
	EcheanceID      uuid.UUID
	SubscriptionID  uuid.UUID
	InvestorID      uuid.UUID
	BatchID         uuid.UUID
	Amount          decimal.Decimal
	PaidAt          time.Time
	Beneficiary     string // as read on the proof
	Reference       *string
	MatchStatus     valueobject.MatchStatus
	Confidence      int
	SourceDocuments []string
	ConfirmedBy     uuid.UUID
	CreatedAt       time.Time
}

// PaymentWithInvestor represents a payment with its investor.
type PaymentWithInvestor struct {
	Payment  *Payment
	Investor *Investor
}
