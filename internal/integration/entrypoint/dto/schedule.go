package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/coupon-desk/backoffice/internal/domain/entity"
)

// EcheanceResponse represents a scheduled coupon in API responses.
type EcheanceResponse struct {
	ID             string            `json:"id"`
	SubscriptionID string            `json:"subscription_id"`
	Investor       *InvestorResponse `json:"investor,omitempty"`
	PeriodNumber   int               `json:"period_number"`
	DueDate        string            `json:"due_date"`
	GrossCoupon    string            `json:"gross_coupon"`
	Withholding    string            `json:"withholding"`
	NetCoupon      string            `json:"net_coupon"`
	Capital        string            `json:"capital"`
	AmountDue      string            `json:"amount_due"`
	Status         string            `json:"status"`
	PaidAt         *string           `json:"paid_at,omitempty"`
}

// ScheduleTotalsResponse sums the amounts of a schedule.
type ScheduleTotalsResponse struct {
	GrossCoupon string `json:"gross_coupon"`
	Withholding string `json:"withholding"`
	NetCoupon   string `json:"net_coupon"`
	Capital     string `json:"capital"`
	AmountDue   string `json:"amount_due"`
}

// ScheduleResponse represents the response for GET /tranches/:id/schedule.
type ScheduleResponse struct {
	Tranche   TrancheResponse        `json:"tranche"`
	Echeances []EcheanceResponse     `json:"echeances"`
	Totals    ScheduleTotalsResponse `json:"totals"`
}

// GenerateScheduleResponse represents the response for POST /tranches/:id/schedule.
type GenerateScheduleResponse struct {
	Tranche       TrancheResponse        `json:"tranche"`
	EcheanceCount int                    `json:"echeance_count"`
	Totals        ScheduleTotalsResponse `json:"totals"`
}

// ExpectedPaymentDTO is an unpaid coupon the matcher can pair a payment with.
type ExpectedPaymentDTO struct {
	EcheanceID     string          `json:"echeance_id" binding:"omitempty,uuid"`
	SubscriptionID string          `json:"subscription_id" binding:"omitempty,uuid"`
	InvestorID     string          `json:"investor_id" binding:"omitempty,uuid"`
	InvestorName   string          `json:"investor_name" binding:"required"`
	ExpectedAmount decimal.Decimal `json:"expected_amount"`
}

// ExpectedPaymentsResponse represents the response for GET /tranches/:id/expected-payments.
type ExpectedPaymentsResponse struct {
	DueDate          *string              `json:"due_date"`
	ExpectedPayments []ExpectedPaymentDTO `json:"expected_payments"`
	TotalAmount      string               `json:"total_amount"`
}

// ToEcheanceResponse converts a coupon. The investor is omitted when nil.
func ToEcheanceResponse(e *entity.Echeance, investor *entity.Investor) EcheanceResponse {
	response := EcheanceResponse{
		ID:             e.ID.String(),
		SubscriptionID: e.SubscriptionID.String(),
		PeriodNumber:   e.PeriodNumber,
		DueDate:        e.DueDate.Format(dateLayout),
		GrossCoupon:    e.GrossCoupon.StringFixed(2),
		Withholding:    e.Withholding.StringFixed(2),
		NetCoupon:      e.NetCoupon.StringFixed(2),
		Capital:        e.Capital.StringFixed(2),
		AmountDue:      e.AmountDue.StringFixed(2),
		Status:         string(e.Status),
		PaidAt:         formatOptionalDate(e.PaidAt),
	}
	if investor != nil {
		inv := ToInvestorResponse(investor)
		response.Investor = &inv
	}
	return response
}

// ToEcheanceResponses converts coupons with their investors.
func ToEcheanceResponses(echeances []*entity.EcheanceWithInvestor) []EcheanceResponse {
	responses := make([]EcheanceResponse, len(echeances))
	for i, e := range echeances {
		responses[i] = ToEcheanceResponse(e.Echeance, e.Investor)
	}
	return responses
}

// ToScheduleTotalsResponse formats schedule totals.
func ToScheduleTotalsResponse(gross, withholding, net, capital, due decimal.Decimal) ScheduleTotalsResponse {
	return ScheduleTotalsResponse{
		GrossCoupon: gross.StringFixed(2),
		Withholding: withholding.StringFixed(2),
		NetCoupon:   net.StringFixed(2),
		Capital:     capital.StringFixed(2),
		AmountDue:   due.StringFixed(2),
	}
}

func formatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}
