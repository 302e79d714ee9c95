package reconciliation

import (
	"context"

	"github.com/coupon-desk/backoffice/internal/domain/entity"
	"github.com/coupon-desk/backoffice/internal/domain/matching"
	"github.com/coupon-desk/backoffice/internal/domain/valueobject"
)

// MatchPaymentsInput represents the input for matching payments.
type MatchPaymentsInput struct {
	Payments []valueobject.ExtractedPayment
	Expected []valueobject.ExpectedPayment
}

// MatchPaymentsOutput represents the output of matching payments.
type MatchPaymentsOutput struct {
	Results []valueobject.MatchResult
	Summary entity.BatchSummary
}

// MatchPaymentsUseCase pairs payments with expected coupons without storing anything.
// The review screen calls it again after an operator edits an extracted row.
type MatchPaymentsUseCase struct {
	engine *matching.Engine
}

// NewMatchPaymentsUseCase creates a new MatchPaymentsUseCase instance.
func NewMatchPaymentsUseCase(engine *matching.Engine) *MatchPaymentsUseCase {
	return &MatchPaymentsUseCase{
		engine: engine,
	}
}

// Execute matches every payment, in input order.
func (uc *MatchPaymentsUseCase) Execute(_ context.Context, input MatchPaymentsInput) (*MatchPaymentsOutput, error) {
	results := uc.engine.MatchAll(input.Payments, input.Expected)

	return &MatchPaymentsOutput{
		Results: results,
		Summary: entity.SummarizeResults(results),
	}, nil
}
