package reconciliation

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coupon-desk/backoffice/internal/domain/entity"
	domainerror "github.com/coupon-desk/backoffice/internal/domain/error"
	"github.com/coupon-desk/backoffice/internal/domain/valueobject"
)

func TestConfirmPaymentBatchUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("records selected payments", func(t *testing.T) {
		f := newFixture()
		batch := f.analyze(t)
		operator := uuid.New()

		out, err := f.confirmUseCase().Execute(ctx, ConfirmPaymentBatchInput{
			BatchID:     batch.ID,
			Selections:  []Selection{{Index: 0}, {Index: 1}},
			ConfirmedBy: operator,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(out.Payments) != 2 || len(f.payments.payments) != 2 {
			t.Fatalf("expected 2 payments, got %d", len(out.Payments))
		}

		acme := out.Payments[0].Payment
		if acme.EcheanceID != f.echeances.echeances[0].Echeance.ID || acme.InvestorID != f.acme.ID {
			t.Errorf("ACME payment linked to the wrong coupon: %+v", acme)
		}
		if acme.BatchID != batch.ID || acme.TrancheID != f.tranche.ID || acme.ConfirmedBy != operator {
			t.Errorf("unexpected payment metadata: %+v", acme)
		}
		if len(acme.SourceDocuments) != 1 || acme.SourceDocuments[0] != "a.pdf" {
			t.Errorf("expected source document a.pdf, got %v", acme.SourceDocuments)
		}

		jean := out.Payments[1].Payment
		if jean.PaidAt.Format("2006-01-02") != "2025-04-15" {
			t.Errorf("expected paid date read from the proof, got %s", jean.PaidAt)
		}
		if jean.Reference == nil || *jean.Reference != "VIR-42" || jean.Beneficiary != "M. Jean Dupont" {
			t.Errorf("expected proof details carried over, got %+v", jean)
		}
		if jean.MatchStatus != valueobject.MatchStatusMatched || jean.Confidence != 100 {
			t.Errorf("expected match details carried over, got %s/%d", jean.MatchStatus, jean.Confidence)
		}

		for i := 0; i < 2; i++ {
			if !f.echeances.echeances[i].Echeance.IsPaid() {
				t.Errorf("expected coupon %d to be paid", i)
			}
		}
		if f.echeances.echeances[2].Echeance.IsPaid() {
			t.Error("expected later coupons to stay unpaid")
		}

		// Only Jean has an email address.
		if len(f.notifier.notices) != 1 {
			t.Fatalf("expected 1 notice queued, got %d", len(f.notifier.notices))
		}
		notice := f.notifier.notices[0]
		if notice.RecipientEmail != "jean@example.com" || notice.ProjectName != "Parc Solaire" || notice.TrancheName != "Tranche A" {
			t.Errorf("unexpected notice: %+v", notice)
		}
		if notice.PaymentID != jean.ID || notice.EcheanceID != jean.EcheanceID || notice.InvestorID != f.jean.ID {
			t.Errorf("expected notice tied to the Jean payment, got %+v", notice)
		}
		if notice.PaidAt.Format("2006-01-02") != "2025-04-15" || notice.PeriodNumber != 1 || !notice.Amount.Equal(jean.Amount) {
			t.Errorf("unexpected notice details: %+v", notice)
		}

		if _, ok := f.store.batches[batch.ID]; ok {
			t.Error("expected batch to be invalidated")
		}
	})

	t.Run("operator overrides coupon and amount", func(t *testing.T) {
		f := newFixture()
		batch := f.analyze(t)
		target := f.echeances.echeances[1].Echeance.ID // Jean, first due date
		amount := decimal.RequireFromString("12.50")

		out, err := f.confirmUseCase().Execute(ctx, ConfirmPaymentBatchInput{
			BatchID:    batch.ID,
			Selections: []Selection{{Index: 2, EcheanceID: &target, Amount: &amount}},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		p := out.Payments[0].Payment
		if p.EcheanceID != target || !p.Amount.Equal(amount) || p.InvestorID != f.jean.ID {
			t.Errorf("override not applied: %+v", p)
		}
		if p.MatchStatus != valueobject.MatchStatusUnmatched {
			t.Errorf("expected original match status to be kept, got %s", p.MatchStatus)
		}
		if out.Payments[0].Investor.ID != f.jean.ID {
			t.Errorf("expected investor of the overriding coupon, got %+v", out.Payments[0].Investor)
		}
	})

	t.Run("email failure is not fatal", func(t *testing.T) {
		f := newFixture()
		f.notifier.err = errBoom
		batch := f.analyze(t)

		_, err := f.confirmUseCase().Execute(ctx, ConfirmPaymentBatchInput{
			BatchID:    batch.ID,
			Selections: []Selection{{Index: 1}},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(f.payments.payments) != 1 {
			t.Error("expected the payment to be recorded")
		}
	})

	t.Run("works without an email service", func(t *testing.T) {
		f := newFixture()
		batch := f.analyze(t)
		uc := NewConfirmPaymentBatchUseCase(f.projects, f.tranches, f.echeances, f.payments, f.store, nil)

		if _, err := uc.Execute(ctx, ConfirmPaymentBatchInput{
			BatchID:    batch.ID,
			Selections: []Selection{{Index: 1}},
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	otherTranche := &entity.EcheanceWithInvestor{
		Echeance: &entity.Echeance{ID: uuid.New(), TrancheID: uuid.New(), Status: entity.EcheanceStatusDue},
	}

	rejections := []struct {
		name       string
		selections func(f *fixture) []Selection
		code       domainerror.ReconciliationErrorCode
	}{
		{
			name:       "no selection",
			selections: func(_ *fixture) []Selection { return nil },
			code:       domainerror.ErrCodeInvalidSelection,
		},
		{
			name:       "index out of range",
			selections: func(_ *fixture) []Selection { return []Selection{{Index: 3}} },
			code:       domainerror.ErrCodeInvalidSelection,
		},
		{
			name:       "negative index",
			selections: func(_ *fixture) []Selection { return []Selection{{Index: -1}} },
			code:       domainerror.ErrCodeInvalidSelection,
		},
		{
			name:       "same row twice",
			selections: func(_ *fixture) []Selection { return []Selection{{Index: 0}, {Index: 0}} },
			code:       domainerror.ErrCodeDuplicateSelection,
		},
		{
			name: "same coupon twice",
			selections: func(f *fixture) []Selection {
				id := f.echeances.echeances[0].Echeance.ID
				return []Selection{{Index: 0}, {Index: 2, EcheanceID: &id}}
			},
			code: domainerror.ErrCodeDuplicateSelection,
		},
		{
			name:       "unmatched row without override",
			selections: func(_ *fixture) []Selection { return []Selection{{Index: 2}} },
			code:       domainerror.ErrCodeInvalidSelection,
		},
		{
			name: "non-positive amount",
			selections: func(_ *fixture) []Selection {
				zero := decimal.Zero
				return []Selection{{Index: 0, Amount: &zero}}
			},
			code: domainerror.ErrCodeInvalidSelection,
		},
		{
			name: "unknown coupon",
			selections: func(_ *fixture) []Selection {
				id := uuid.New()
				return []Selection{{Index: 0, EcheanceID: &id}}
			},
			code: domainerror.ErrCodeEcheanceNotFound,
		},
		{
			name: "coupon of another tranche",
			selections: func(f *fixture) []Selection {
				f.echeances.echeances = append(f.echeances.echeances, otherTranche)
				return []Selection{{Index: 0, EcheanceID: &otherTranche.Echeance.ID}}
			},
			code: domainerror.ErrCodeEcheanceNotFound,
		},
		{
			name: "coupon already paid",
			selections: func(f *fixture) []Selection {
				f.echeances.echeances[0].Echeance.MarkPaid(firstDue)
				return []Selection{{Index: 0}}
			},
			code: domainerror.ErrCodeEcheanceAlreadyPaid,
		},
	}

	for _, tt := range rejections {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			batch := f.analyze(t)
			selections := tt.selections(f)

			_, err := f.confirmUseCase().Execute(ctx, ConfirmPaymentBatchInput{
				BatchID:    batch.ID,
				Selections: selections,
			})

			var recErr *domainerror.ReconciliationError
			if !errors.As(err, &recErr) || recErr.Code != tt.code {
				t.Errorf("expected code %s, got %v", tt.code, err)
			}
			if len(f.payments.payments) != 0 {
				t.Error("expected no payment recorded")
			}
			if _, ok := f.store.batches[batch.ID]; !ok {
				t.Error("expected batch to be kept for another attempt")
			}
		})
	}

	t.Run("concurrent payment detected on commit", func(t *testing.T) {
		f := newFixture()
		batch := f.analyze(t)
		f.payments.confirmErr = domainerror.ErrEcheanceAlreadyPaid

		_, err := f.confirmUseCase().Execute(ctx, ConfirmPaymentBatchInput{
			BatchID:    batch.ID,
			Selections: []Selection{{Index: 0}},
		})

		var recErr *domainerror.ReconciliationError
		if !errors.As(err, &recErr) || recErr.Code != domainerror.ErrCodeEcheanceAlreadyPaid {
			t.Errorf("expected already paid error, got %v", err)
		}
		if len(f.notifier.notices) != 0 {
			t.Error("expected no notice queued")
		}
	})

	t.Run("unknown batch", func(t *testing.T) {
		f := newFixture()

		_, err := f.confirmUseCase().Execute(ctx, ConfirmPaymentBatchInput{
			BatchID:    uuid.New(),
			Selections: []Selection{{Index: 0}},
		})

		if !errors.Is(err, domainerror.ErrPaymentBatchNotFound) {
			t.Errorf("expected ErrPaymentBatchNotFound, got %v", err)
		}
	})
}
