package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/coupon-desk/backoffice/internal/domain/valueobject"
)

// PaymentBatch is the result of analyzing a set of payment proofs for one tranche.
// It is kept for review until confirmed or expired and is never persisted in the database.
type PaymentBatch struct {
	ID        uuid.UUID
	TrancheID uuid.UUID
	DueDate   *time.Time
	Documents []string
	Expected  []valueobject.ExpectedPayment
	Results   []valueobject.MatchResult
	CreatedBy uuid.UUID
	CreatedAt time.Time
	ExpiresAt time.Time
}

// NewPaymentBatch creates a new PaymentBatch expiring after ttl.
func NewPaymentBatch(
	trancheID uuid.UUID,
	dueDate *time.Time,
	documents []string,
	expected []valueobject.ExpectedPayment,
	results []valueobject.MatchResult,
	createdBy uuid.UUID,
	ttl time.Duration,
) *PaymentBatch {
	now := time.Now().UTC()

	return &PaymentBatch{
		ID:        uuid.New(),
		TrancheID: trancheID,
		DueDate:   dueDate,
		Documents: documents,
		Expected:  expected,
		Results:   results,
		CreatedBy: createdBy,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// BatchSummary counts results by status.
type BatchSummary struct {
	Total     int
	Matched   int
	Partial   int
	Unmatched int
}

// Summary counts the batch results by status.
func (b *PaymentBatch) Summary() BatchSummary {
	return SummarizeResults(b.Results)
}

// SummarizeResults counts match results by status.
func SummarizeResults(results []valueobject.MatchResult) BatchSummary {
	summary := BatchSummary{Total: len(results)}
	for _, r := range results {
		switch r.Status {
		case valueobject.MatchStatusMatched:
			summary.Matched++
		case valueobject.MatchStatusPartial:
			summary.Partial++
		default:
			summary.Unmatched++
		}
	}
	return summary
}
