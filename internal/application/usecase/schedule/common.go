// Package schedule contains coupon schedule use cases.
package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coupon-desk/backoffice/internal/application/adapter"
	"github.com/coupon-desk/backoffice/internal/domain/entity"
	domainerror "github.com/coupon-desk/backoffice/internal/domain/error"
)

// Totals sums the amounts of a schedule.
type Totals struct {
	GrossCoupon decimal.Decimal
	Withholding decimal.Decimal
	NetCoupon   decimal.Decimal
	Capital     decimal.Decimal
	AmountDue   decimal.Decimal
}

// TotalsOf sums the amounts of the given coupons.
func TotalsOf(echeances []*entity.EcheanceWithInvestor) Totals {
	totals := Totals{
		GrossCoupon: decimal.Zero,
		Withholding: decimal.Zero,
		NetCoupon:   decimal.Zero,
		Capital:     decimal.Zero,
		AmountDue:   decimal.Zero,
	}
	for _, e := range echeances {
		totals.GrossCoupon = totals.GrossCoupon.Add(e.Echeance.GrossCoupon)
		totals.Withholding = totals.Withholding.Add(e.Echeance.Withholding)
		totals.NetCoupon = totals.NetCoupon.Add(e.Echeance.NetCoupon)
		totals.Capital = totals.Capital.Add(e.Echeance.Capital)
		totals.AmountDue = totals.AmountDue.Add(e.Echeance.AmountDue)
	}
	return totals
}

func findTranche(ctx context.Context, repo adapter.TrancheRepository, id uuid.UUID) (*entity.Tranche, error) {
	tranche, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerror.ErrTrancheNotFound) {
			return nil, domainerror.NewProjectError(
				domainerror.ErrCodeTrancheNotFound,
				"tranche not found",
				domainerror.ErrTrancheNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find tranche: %w", err)
	}
	return tranche, nil
}
