package matching

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/coupon-desk/backoffice/internal/domain/valueobject"
)

var hundred = decimal.NewFromInt(100)

// Engine selects the best expected payment for each extracted payment.
// It holds no state besides its configuration and is safe for concurrent use.
type Engine struct {
	config valueobject.MatchingConfig
}

// NewEngine creates a new matching engine.
func NewEngine(config valueobject.MatchingConfig) *Engine {
	return &Engine{config: config}
}

// NewDefaultEngine creates a matching engine with the default thresholds.
func NewDefaultEngine() *Engine {
	return NewEngine(valueobject.DefaultMatchingConfig())
}

// MatchAll returns one result per extracted payment, in input order.
func (e *Engine) MatchAll(payments []valueobject.ExtractedPayment, expected []valueobject.ExpectedPayment) []valueobject.MatchResult {
	results := make([]valueobject.MatchResult, 0, len(payments))
	for _, payment := range payments {
		results = append(results, e.Match(payment, expected))
	}
	return results
}

// Match scores every candidate and keeps the first one with the strictly highest combined score.
// Candidates with a non-positive expected amount cannot be scored and are skipped.
func (e *Engine) Match(payment valueobject.ExtractedPayment, expected []valueobject.ExpectedPayment) valueobject.MatchResult {
	result := valueobject.MatchResult{
		Payment:             payment,
		Status:              valueobject.MatchStatusUnmatched,
		AmountDeltaAbsolute: decimal.Zero,
		AmountDeltaPercent:  decimal.Zero,
	}

	bestScore := 0.0
	for i := range expected {
		candidate := expected[i]
		if !candidate.ExpectedAmount.IsPositive() {
			continue
		}

		nameScore := fuzzyMatch(e.config, payment.Beneficiary, candidate.InvestorName)
		deltaAbs := payment.Amount.Sub(candidate.ExpectedAmount).Abs()
		deltaPct := deltaAbs.Div(candidate.ExpectedAmount).Mul(hundred)
		combined := nameScore*e.config.NameWeight + e.config.AmountBonus(deltaPct)

		if combined > bestScore {
			bestScore = combined
			result.MatchedExpected = &candidate
			result.NameScore = nameScore
			result.AmountDeltaAbsolute = deltaAbs
			result.AmountDeltaPercent = deltaPct
		}
	}

	if result.MatchedExpected == nil {
		return result
	}

	result.Status = e.config.Classify(result.NameScore, result.AmountDeltaPercent)
	result.Confidence = int(math.Round(bestScore))
	return result
}
