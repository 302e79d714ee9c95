// Package cache provides Redis-backed storage for short-lived review data.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/coupon-desk/backoffice/internal/application/adapter"
	"github.com/coupon-desk/backoffice/internal/domain/entity"
	domainerror "github.com/coupon-desk/backoffice/internal/domain/error"
	"github.com/coupon-desk/backoffice/internal/domain/valueobject"
)

const batchKeyPrefix = "payment-batch:"

// PaymentBatchStore implements adapter.PaymentBatchStore on Redis.
type PaymentBatchStore struct {
	client redis.UniversalClient
}

// NewPaymentBatchStore creates a new Redis payment batch store.
func NewPaymentBatchStore(client redis.UniversalClient) adapter.PaymentBatchStore {
	return &PaymentBatchStore{client: client}
}

func batchKey(id uuid.UUID) string {
	return batchKeyPrefix + id.String()
}

// Save stores a batch for ttl.
func (s *PaymentBatchStore) Save(ctx context.Context, batch *entity.PaymentBatch, ttl time.Duration) error {
	data, err := json.Marshal(batchRecordFromEntity(batch))
	if err != nil {
		return fmt.Errorf("failed to encode payment batch: %w", err)
	}

	if err := s.client.Set(ctx, batchKey(batch.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store payment batch: %w", err)
	}
	return nil
}

// Get retrieves a batch.
func (s *PaymentBatchStore) Get(ctx context.Context, id uuid.UUID) (*entity.PaymentBatch, error) {
	data, err := s.client.Get(ctx, batchKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domainerror.ErrPaymentBatchNotFound
		}
		return nil, fmt.Errorf("failed to load payment batch: %w", err)
	}

	var record batchRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode payment batch: %w", err)
	}
	return record.toEntity(), nil
}

// Delete invalidates a batch. Deleting a missing batch is not an error.
func (s *PaymentBatchStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.client.Del(ctx, batchKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete payment batch: %w", err)
	}
	return nil
}

type batchRecord struct {
	ID        uuid.UUID        `json:"id"`
	TrancheID uuid.UUID        `json:"tranche_id"`
	DueDate   *time.Time       `json:"due_date,omitempty"`
	Documents []string         `json:"documents"`
	Expected  []expectedRecord `json:"expected"`
	Results   []resultRecord   `json:"results"`
	CreatedBy uuid.UUID        `json:"created_by"`
	CreatedAt time.Time        `json:"created_at"`
	ExpiresAt time.Time        `json:"expires_at"`
}

type expectedRecord struct {
	InvestorName   string          `json:"investor_name"`
	ExpectedAmount decimal.Decimal `json:"expected_amount"`
	SubscriptionID uuid.UUID       `json:"subscription_id"`
	InvestorID     uuid.UUID       `json:"investor_id"`
	EcheanceID     uuid.UUID       `json:"echeance_id"`
}

type extractedRecord struct {
	Beneficiary string          `json:"beneficiary"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Reference   *string         `json:"reference,omitempty"`
	Document    string          `json:"document"`
}

type resultRecord struct {
	Payment             extractedRecord `json:"payment"`
	MatchedExpected     *expectedRecord `json:"matched_expected,omitempty"`
	Status              string          `json:"status"`
	Confidence          int             `json:"confidence"`
	NameScore           float64         `json:"name_score"`
	AmountDeltaAbsolute decimal.Decimal `json:"amount_delta_absolute"`
	AmountDeltaPercent  decimal.Decimal `json:"amount_delta_percent"`
}

func batchRecordFromEntity(b *entity.PaymentBatch) batchRecord {
	record := batchRecord{
		ID:        b.ID,
		TrancheID: b.TrancheID,
		DueDate:   b.DueDate,
		Documents: b.Documents,
		Expected:  make([]expectedRecord, 0, len(b.Expected)),
		Results:   make([]resultRecord, 0, len(b.Results)),
		CreatedBy: b.CreatedBy,
		CreatedAt: b.CreatedAt,
		ExpiresAt: b.ExpiresAt,
	}
	for _, e := range b.Expected {
		record.Expected = append(record.Expected, expectedRecordFrom(e))
	}
	for _, r := range b.Results {
		rr := resultRecord{
			Payment: extractedRecord{
				Beneficiary: r.Payment.Beneficiary,
				Amount:      r.Payment.Amount,
				Date:        r.Payment.Date,
				Reference:   r.Payment.Reference,
				Document:    r.Payment.Document,
			},
			Status:              string(r.Status),
			Confidence:          r.Confidence,
			NameScore:           r.NameScore,
			AmountDeltaAbsolute: r.AmountDeltaAbsolute,
			AmountDeltaPercent:  r.AmountDeltaPercent,
		}
		if r.MatchedExpected != nil {
			matched := expectedRecordFrom(*r.MatchedExpected)
			rr.MatchedExpected = &matched
		}
		record.Results = append(record.Results, rr)
	}
	return record
}

func expectedRecordFrom(e valueobject.ExpectedPayment) expectedRecord {
	return expectedRecord{
		InvestorName:   e.InvestorName,
		ExpectedAmount: e.ExpectedAmount,
		SubscriptionID: e.SubscriptionID,
		InvestorID:     e.InvestorID,
		EcheanceID:     e.EcheanceID,
	}
}

func (e expectedRecord) toValueObject() valueobject.ExpectedPayment {
	return valueobject.ExpectedPayment{
		InvestorName:   e.InvestorName,
		ExpectedAmount: e.ExpectedAmount,
		SubscriptionID: e.SubscriptionID,
		InvestorID:     e.InvestorID,
		EcheanceID:     e.EcheanceID,
	}
}

func (r batchRecord) toEntity() *entity.PaymentBatch {
	batch := &entity.PaymentBatch{
		ID:        r.ID,
		TrancheID: r.TrancheID,
		DueDate:   r.DueDate,
		Documents: r.Documents,
		Expected:  make([]valueobject.ExpectedPayment, 0, len(r.Expected)),
		Results:   make([]valueobject.MatchResult, 0, len(r.Results)),
		CreatedBy: r.CreatedBy,
		CreatedAt: r.CreatedAt,
		ExpiresAt: r.ExpiresAt,
	}
	for _, e := range r.Expected {
		batch.Expected = append(batch.Expected, e.toValueObject())
	}
	for _, rr := range r.Results {
		result := valueobject.MatchResult{
			Payment: valueobject.ExtractedPayment{
				Beneficiary: rr.Payment.Beneficiary,
				Amount:      rr.Payment.Amount,
				Date:        rr.Payment.Date,
				Reference:   rr.Payment.Reference,
				Document:    rr.Payment.Document,
			},
			Status:              valueobject.MatchStatus(rr.Status),
			Confidence:          rr.Confidence,
			NameScore:           rr.NameScore,
			AmountDeltaAbsolute: rr.AmountDeltaAbsolute,
			AmountDeltaPercent:  rr.AmountDeltaPercent,
		}
		if rr.MatchedExpected != nil {
			matched := rr.MatchedExpected.toValueObject()
			result.MatchedExpected = &matched
		}
		batch.Results = append(batch.Results, result)
	}
	return batch
}
