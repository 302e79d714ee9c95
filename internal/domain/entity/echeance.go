package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coupon-desk/backoffice/internal/domain/valueobject"
)

// EcheanceStatus represents the payment status of a coupon.
type EcheanceStatus string

const (
	EcheanceStatusDue  EcheanceStatus = "a_payer"
	EcheanceStatusPaid EcheanceStatus = "paye"
)

// Echeance represents one scheduled coupon owed to an investor for a subscription.
type Echeance struct {
	ID             uuid.UUID
	TrancheID      uuid.UUID
	SubscriptionID uuid.UUID
	InvestorID     uuid.UUID
	PeriodNumber   int
	DueDate        time.Time
	GrossCoupon    decimal.Decimal
	Withholding    decimal.Decimal
	NetCoupon      decimal.Decimal
	Capital        decimal.Decimal // repaid on the last period only
	AmountDue      decimal.Decimal // net coupon + capital
	Status         EcheanceStatus
	PaidAt         *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsPaid returns true if the coupon has been paid.
func (e *Echeance) IsPaid() bool {
	return e.Status == EcheanceStatusPaid
}

// MarkPaid marks the coupon as paid at the given date.
func (e *Echeance) MarkPaid(paidAt time.Time) {
	e.Status = EcheanceStatusPaid
	e.PaidAt = &paidAt
	e.UpdatedAt = time.Now().UTC()
}

// EcheanceWithInvestor represents a coupon with the investor it is owed to.
type EcheanceWithInvestor struct {
	Echeance *Echeance
	Investor *Investor
}

// ExpectedPayment returns the payment the matcher should look for on a proof.
func (e *EcheanceWithInvestor) ExpectedPayment() valueobject.ExpectedPayment {
	return valueobject.ExpectedPayment{
		InvestorName:   e.Investor.DisplayName(),
		ExpectedAmount: e.Echeance.AmountDue,
		SubscriptionID: e.Echeance.SubscriptionID,
		InvestorID:     e.Echeance.InvestorID,
		EcheanceID:     e.Echeance.ID,
	}
}

// BuildSchedule computes the coupons of one subscription.
// The gross coupon is amount x rate / 100 / periods per year, rounded to cents.
// Individuals bear the withholding rate (0.30 = 30%), companies bear none.
func BuildSchedule(tranche *Tranche, subscription *Subscription, investor *Investor, withholdingRate decimal.Decimal) []*Echeance {
	periodsPerYear := tranche.Periodicity.PeriodsPerYear()
	if periodsPerYear == 0 {
		return nil
	}

	gross := subscription.Amount.
		Mul(tranche.AnnualRate).
		Div(decimal.NewFromInt(int64(100 * periodsPerYear))).
		Round(2)

	withholding := decimal.Zero
	if investor.IsIndividual() {
		withholding = gross.Mul(withholdingRate).Round(2)
	}
	net := gross.Sub(withholding)

	now := time.Now().UTC()
	dueDates := tranche.DueDates()
	echeances := make([]*Echeance, 0, len(dueDates))
	for i, dueDate := range dueDates {
		capital := decimal.Zero
		if i == len(dueDates)-1 {
			capital = subscription.Amount
		}

		echeances = append(echeances, &Echeance{
			ID:             uuid.New(),
			TrancheID:      tranche.ID,
			SubscriptionID: subscription.ID,
			InvestorID:     investor.ID,
			PeriodNumber:   i + 1,
			DueDate:        dueDate,
			GrossCoupon:    gross,
			Withholding:    withholding,
			NetCoupon:      net,
			Capital:        capital,
			AmountDue:      net.Add(capital),
			Status:         EcheanceStatusDue,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}
	return echeances
}
