// Package valueobject contains domain value objects for the Coupon Desk back office.
package valueobject

import "github.com/shopspring/decimal"

// MatchingConfig contains the calibrated thresholds for payment-to-coupon matching.
// The values are tuned together; changing one shifts the status classification.
type MatchingConfig struct {
	// Name similarity
	SubstringScore        float64 // 0.95 when one normalized name contains the other
	PartialTokenWeight    float64 // 0.8 per token that only partially matches
	AllExactBoost         float64 // 0.1 when every token of the shorter name matched exactly
	MinPartialTokenLength int     // 3 runes on both sides for a partial token match

	// Combined score
	NameWeight       float64 // 70 points for a perfect name
	CloseAmountBonus float64 // 30 points when the amount is close
	NearAmountBonus  float64 // 15 points when the amount is near

	// Amount delta thresholds, in percent of the expected amount
	CloseAmountPercent decimal.Decimal // 5
	NearAmountPercent  decimal.Decimal // 10

	// Status thresholds on the name score
	MatchedNameThreshold float64 // 0.8
	PartialNameThreshold float64 // 0.6
}

// DefaultMatchingConfig returns the default matching configuration.
func DefaultMatchingConfig() MatchingConfig {
	return MatchingConfig{
		SubstringScore:        0.95,
		PartialTokenWeight:    0.8,
		AllExactBoost:         0.1,
		MinPartialTokenLength: 3,
		NameWeight:            70,
		CloseAmountBonus:      30,
		NearAmountBonus:       15,
		CloseAmountPercent:    decimal.NewFromInt(5),
		NearAmountPercent:     decimal.NewFromInt(10),
		MatchedNameThreshold:  0.8,
		PartialNameThreshold:  0.6,
	}
}

// AmountBonus returns the points awarded for an amount delta expressed in percent.
func (c MatchingConfig) AmountBonus(deltaPercent decimal.Decimal) float64 {
	switch {
	case deltaPercent.LessThan(c.CloseAmountPercent):
		return c.CloseAmountBonus
	case deltaPercent.LessThan(c.NearAmountPercent):
		return c.NearAmountBonus
	default:
		return 0
	}
}

// Classify returns the match status for a retained candidate.
func (c MatchingConfig) Classify(nameScore float64, deltaPercent decimal.Decimal) MatchStatus {
	if nameScore > c.MatchedNameThreshold && deltaPercent.LessThan(c.CloseAmountPercent) {
		return MatchStatusMatched
	}
	if nameScore > c.PartialNameThreshold || deltaPercent.LessThan(c.NearAmountPercent) {
		return MatchStatusPartial
	}
	return MatchStatusUnmatched
}
