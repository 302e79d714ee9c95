// Package valueobject contains domain value objects for the Coupon Desk back office.
package valueobject

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MatchStatus represents the classification of a matched payment.
type MatchStatus string

const (
	MatchStatusMatched   MatchStatus = "matched"
	MatchStatusPartial   MatchStatus = "partial"
	MatchStatusUnmatched MatchStatus = "unmatched"
)

var matchStatusLabels = map[MatchStatus]string{
	MatchStatusMatched:   "correspondance",
	MatchStatusPartial:   "partielle",
	MatchStatusUnmatched: "pas-de-correspondance",
}

// IsValid checks if the match status is valid.
func (s MatchStatus) IsValid() bool {
	_, ok := matchStatusLabels[s]
	return ok
}

// Label returns the French label shown to back-office operators.
func (s MatchStatus) Label() string {
	if label, ok := matchStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// ParseMatchStatus accepts either the internal value or the French label.
func ParseMatchStatus(s string) (MatchStatus, bool) {
	for status, label := range matchStatusLabels {
		if s == string(status) || s == label {
			return status, true
		}
	}
	return "", false
}

// ExtractedPayment is a payment line read from a payment proof document.
type ExtractedPayment struct {
	Beneficiary string
	Amount      decimal.Decimal
	Date        string  // as printed on the document
	Reference   *string // optional transfer reference
	Document    string  // file name of the source document
}

// ExpectedPayment is an unpaid coupon the matcher can pair a payment with.
type ExpectedPayment struct {
	InvestorName   string
	ExpectedAmount decimal.Decimal
	SubscriptionID uuid.UUID
	InvestorID     uuid.UUID
	EcheanceID     uuid.UUID
}

// MatchResult is the outcome of matching one extracted payment.
type MatchResult struct {
	Payment             ExtractedPayment
	MatchedExpected     *ExpectedPayment
	Status              MatchStatus
	Confidence          int // 0-100
	NameScore           float64
	AmountDeltaAbsolute decimal.Decimal
	AmountDeltaPercent  decimal.Decimal
}

// IsMatched reports whether a candidate was retained.
func (r MatchResult) IsMatched() bool {
	return r.MatchedExpected != nil
}
