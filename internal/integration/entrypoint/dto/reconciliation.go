package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coupon-desk/backoffice/internal/domain/entity"
	"github.com/coupon-desk/backoffice/internal/domain/valueobject"
)

// ExtractedPaymentDTO is a payment line read from a payment proof.
type ExtractedPaymentDTO struct {
	Beneficiary string          `json:"beneficiary"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Reference   *string         `json:"reference"`
	Document    string          `json:"document,omitempty"`
}

// MatchRequestDTO represents the request body for POST /reconciliation/match.
type MatchRequestDTO struct {
	Payments []ExtractedPaymentDTO `json:"payments" binding:"required,dive"`
	Expected []ExpectedPaymentDTO  `json:"expected" binding:"dive"`
}

// MatchResultDTO is the outcome of matching one extracted payment.
type MatchResultDTO struct {
	Index               int                 `json:"index"`
	Payment             ExtractedPaymentDTO `json:"payment"`
	MatchedExpected     *ExpectedPaymentDTO `json:"matched_expected"`
	Status              string              `json:"status"`
	Confidence          int                 `json:"confidence"`
	NameScore           float64             `json:"name_score"`
	AmountDeltaAbsolute string              `json:"amount_delta_absolute"`
	AmountDeltaPercent  string              `json:"amount_delta_percent"`
}

// BatchSummaryDTO counts results by status.
type BatchSummaryDTO struct {
	Total     int `json:"total"`
	Matched   int `json:"matched"`
	Partial   int `json:"partial"`
	Unmatched int `json:"unmatched"`
}

// MatchResponseDTO represents the response for POST /reconciliation/match.
type MatchResponseDTO struct {
	Results []MatchResultDTO `json:"results"`
	Summary BatchSummaryDTO  `json:"summary"`
}

// PaymentBatchResponseDTO represents an analyzed payment batch awaiting confirmation.
type PaymentBatchResponseDTO struct {
	ID               string               `json:"id"`
	TrancheID        string               `json:"tranche_id"`
	DueDate          *string              `json:"due_date"`
	Documents        []string             `json:"documents"`
	ExpectedPayments []ExpectedPaymentDTO `json:"expected_payments"`
	Results          []MatchResultDTO     `json:"results"`
	Summary          BatchSummaryDTO      `json:"summary"`
	CreatedAt        string               `json:"created_at"`
	ExpiresAt        string               `json:"expires_at"`
}

// ConfirmSelectionDTO selects one batch result for confirmation.
type ConfirmSelectionDTO struct {
	Index      *int             `json:"index" binding:"required"`
	EcheanceID *uuid.UUID       `json:"echeance_id"`
	Amount     *decimal.Decimal `json:"amount"`
}

// ConfirmBatchRequestDTO represents the request body for POST /payment-batches/:id/confirm.
type ConfirmBatchRequestDTO struct {
	Selections []ConfirmSelectionDTO `json:"selections" binding:"required,min=1,dive"`
}

// PaymentResponseDTO represents a confirmed payment.
type PaymentResponseDTO struct {
	ID              string           `json:"id"`
	TrancheID       string           `json:"tranche_id"`
	EcheanceID      string           `json:"echeance_id"`
	SubscriptionID  string           `json:"subscription_id"`
	Investor        InvestorResponse `json:"investor"`
	BatchID         string           `json:"batch_id"`
	Amount          string           `json:"amount"`
	PaidAt          string           `json:"paid_at"`
	Beneficiary     string           `json:"beneficiary"`
	Reference       *string          `json:"reference"`
	MatchStatus     string           `json:"match_status"`
	Confidence      int              `json:"confidence"`
	SourceDocuments []string         `json:"source_documents"`
	ConfirmedBy     string           `json:"confirmed_by"`
	CreatedAt       string           `json:"created_at"`
}

// ConfirmBatchResponseDTO represents the response for POST /payment-batches/:id/confirm.
type ConfirmBatchResponseDTO struct {
	Payments []PaymentResponseDTO `json:"payments"`
}

// PaymentListResponseDTO represents the response for GET /tranches/:id/payments.
type PaymentListResponseDTO struct {
	Payments    []PaymentResponseDTO `json:"payments"`
	TotalAmount string               `json:"total_amount"`
}

// ToExtractedPayment converts a request row to the domain value object.
// An unreadable beneficiary stays empty and is matched on the amount alone.
func (d ExtractedPaymentDTO) ToExtractedPayment() valueobject.ExtractedPayment {
	return valueobject.ExtractedPayment{
		Beneficiary: d.Beneficiary,
		Amount:      d.Amount,
		Date:        d.Date,
		Reference:   d.Reference,
		Document:    d.Document,
	}
}

// ToExpectedPayment converts a request row to the domain value object.
// Identifiers are validated at binding; absent ones stay uuid.Nil.
func (d ExpectedPaymentDTO) ToExpectedPayment() valueobject.ExpectedPayment {
	return valueobject.ExpectedPayment{
		InvestorName:   d.InvestorName,
		ExpectedAmount: d.ExpectedAmount,
		SubscriptionID: parseUUIDOrNil(d.SubscriptionID),
		InvestorID:     parseUUIDOrNil(d.InvestorID),
		EcheanceID:     parseUUIDOrNil(d.EcheanceID),
	}
}

// ToExtractedPaymentDTO converts an extracted payment.
func ToExtractedPaymentDTO(p valueobject.ExtractedPayment) ExtractedPaymentDTO {
	return ExtractedPaymentDTO{
		Beneficiary: p.Beneficiary,
		Amount:      p.Amount,
		Date:        p.Date,
		Reference:   p.Reference,
		Document:    p.Document,
	}
}

// ToExpectedPaymentDTO converts an expected payment.
func ToExpectedPaymentDTO(p valueobject.ExpectedPayment) ExpectedPaymentDTO {
	return ExpectedPaymentDTO{
		EcheanceID:     uuidOrEmpty(p.EcheanceID),
		SubscriptionID: uuidOrEmpty(p.SubscriptionID),
		InvestorID:     uuidOrEmpty(p.InvestorID),
		InvestorName:   p.InvestorName,
		ExpectedAmount: p.ExpectedAmount,
	}
}

// ToExpectedPaymentDTOs converts a slice of expected payments.
func ToExpectedPaymentDTOs(expected []valueobject.ExpectedPayment) []ExpectedPaymentDTO {
	dtos := make([]ExpectedPaymentDTO, len(expected))
	for i, e := range expected {
		dtos[i] = ToExpectedPaymentDTO(e)
	}
	return dtos
}

// ToMatchResultDTOs converts match results, keeping their position as index.
func ToMatchResultDTOs(results []valueobject.MatchResult) []MatchResultDTO {
	dtos := make([]MatchResultDTO, len(results))
	for i, r := range results {
		item := MatchResultDTO{
			Index:               i,
			Payment:             ToExtractedPaymentDTO(r.Payment),
			Status:              r.Status.Label(),
			Confidence:          r.Confidence,
			NameScore:           r.NameScore,
			AmountDeltaAbsolute: r.AmountDeltaAbsolute.StringFixed(2),
			AmountDeltaPercent:  r.AmountDeltaPercent.StringFixed(2),
		}
		if r.MatchedExpected != nil {
			matched := ToExpectedPaymentDTO(*r.MatchedExpected)
			item.MatchedExpected = &matched
		}
		dtos[i] = item
	}
	return dtos
}

// ToBatchSummaryDTO converts a batch summary.
func ToBatchSummaryDTO(s entity.BatchSummary) BatchSummaryDTO {
	return BatchSummaryDTO{
		Total:     s.Total,
		Matched:   s.Matched,
		Partial:   s.Partial,
		Unmatched: s.Unmatched,
	}
}

// ToPaymentBatchResponseDTO converts an analyzed payment batch.
func ToPaymentBatchResponseDTO(batch *entity.PaymentBatch, summary entity.BatchSummary) PaymentBatchResponseDTO {
	documents := batch.Documents
	if documents == nil {
		documents = []string{}
	}
	return PaymentBatchResponseDTO{
		ID:               batch.ID.String(),
		TrancheID:        batch.TrancheID.String(),
		DueDate:          formatOptionalDate(batch.DueDate),
		Documents:        documents,
		ExpectedPayments: ToExpectedPaymentDTOs(batch.Expected),
		Results:          ToMatchResultDTOs(batch.Results),
		Summary:          ToBatchSummaryDTO(summary),
		CreatedAt:        batch.CreatedAt.Format(timeLayout),
		ExpiresAt:        batch.ExpiresAt.Format(timeLayout),
	}
}

// ToPaymentResponseDTO converts a confirmed payment with its investor.
func ToPaymentResponseDTO(p *entity.PaymentWithInvestor) PaymentResponseDTO {
	payment := p.Payment
	sources := payment.SourceDocuments
	if sources == nil {
		sources = []string{}
	}
	return PaymentResponseDTO{
		ID:              payment.ID.String(),
		TrancheID:       payment.TrancheID.String(),
		EcheanceID:      payment.EcheanceID.String(),
		SubscriptionID:  payment.SubscriptionID.String(),
		Investor:        ToInvestorResponse(p.Investor),
		BatchID:         uuidOrEmpty(payment.BatchID),
		Amount:          payment.Amount.StringFixed(2),
		PaidAt:          payment.PaidAt.Format(dateLayout),
		Beneficiary:     payment.Beneficiary,
		Reference:       payment.Reference,
		MatchStatus:     payment.MatchStatus.Label(),
		Confidence:      payment.Confidence,
		SourceDocuments: sources,
		ConfirmedBy:     payment.ConfirmedBy.String(),
		CreatedAt:       payment.CreatedAt.Format(timeLayout),
	}
}

// ToPaymentResponseDTOs converts a slice of confirmed payments.
func ToPaymentResponseDTOs(payments []*entity.PaymentWithInvestor) []PaymentResponseDTO {
	dtos := make([]PaymentResponseDTO, len(payments))
	for i, p := range payments {
		dtos[i] = ToPaymentResponseDTO(p)
	}
	return dtos
}

// FormatDate formats an optional date, nil when absent.
func FormatDate(t *time.Time) *string {
	return formatOptionalDate(t)
}

func parseUUIDOrNil(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func uuidOrEmpty(id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	return id.String()
}
