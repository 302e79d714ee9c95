package reconciliation

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coupon-desk/backoffice/internal/application/adapter"
	"github.com/coupon-desk/backoffice/internal/domain/entity"
	"github.com/coupon-desk/backoffice/internal/domain/matching"
	"github.com/coupon-desk/backoffice/internal/domain/valueobject"
)

var (
	firstDue  = time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)
	secondDue = time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
)

type fixture struct {
	project   *entity.Project
	tranche   *entity.Tranche
	jean      *entity.Investor
	acme      *entity.Investor
	projects  *fakeProjectRepo
	tranches  *fakeTrancheRepo
	echeances *fakeEcheanceRepo
	payments  *fakePaymentRepo
	store     *fakeStore
	extractor *fakeExtractor
	notifier  *fakeNotifier
}

// newFixture builds a tranche with two coupons per due date:
// ACME SAS is owed 40 then 2040, Jean Dupont 140 then 1140.
func newFixture() *fixture {
	project := entity.NewProject("Parc Solaire", "Soleil SAS", "", uuid.New())
	tranche := entity.NewTranche(project.ID, "Tranche A", decimal.NewFromInt(8), valueobject.PeriodicityQuarterly, 6,
		time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), decimal.NewFromInt(100000))
	jean := entity.NewInvestor(entity.InvestorTypeIndividual, "Jean", "Dupont", "", "jean@example.com")
	acme := entity.NewInvestor(entity.InvestorTypeCompany, "", "", "ACME SAS", "")

	echeance := func(investor *entity.Investor, period int, due time.Time, amount int64) *entity.EcheanceWithInvestor {
		return &entity.EcheanceWithInvestor{
			Echeance: &entity.Echeance{
				ID:             uuid.New(),
				TrancheID:      tranche.ID,
				SubscriptionID: uuid.New(),
				InvestorID:     investor.ID,
				PeriodNumber:   period,
				DueDate:        due,
				AmountDue:      decimal.NewFromInt(amount),
				Status:         entity.EcheanceStatusDue,
			},
			Investor: investor,
		}
	}

	echeances := &fakeEcheanceRepo{echeances: []*entity.EcheanceWithInvestor{
		echeance(acme, 1, firstDue, 40),
		echeance(jean, 1, firstDue, 140),
		echeance(acme, 2, secondDue, 2040),
		echeance(jean, 2, secondDue, 1140),
	}}

	return &fixture{
		project:   project,
		tranche:   tranche,
		jean:      jean,
		acme:      acme,
		projects:  &fakeProjectRepo{projects: map[uuid.UUID]*entity.Project{project.ID: project}},
		tranches:  &fakeTrancheRepo{tranches: map[uuid.UUID]*entity.Tranche{tranche.ID: tranche}},
		echeances: echeances,
		payments:  &fakePaymentRepo{echeances: echeances},
		store:     newFakeStore(),
		extractor: &fakeExtractor{
			available: true,
			payments: map[string][]valueobject.ExtractedPayment{
				"a.pdf": {
					{Beneficiary: "ACME", Amount: decimal.NewFromInt(40)},
				},
				"b.png": {
					{Beneficiary: "M. Jean Dupont", Amount: decimal.NewFromInt(140), Date: "15/04/2025", Reference: strPtr("VIR-42")},
					{Beneficiary: "Inconnu", Amount: decimal.NewFromInt(12)},
				},
			},
			slow: map[string]bool{"a.pdf": true},
		},
		notifier: &fakeNotifier{},
	}
}

func strPtr(s string) *string {
	return &s
}

func defaultAnalyzeConfig() AnalyzeConfig {
	return AnalyzeConfig{
		MaxDocuments:     3,
		MaxDocumentBytes: 1024,
		Concurrency:      2,
		BatchTTL:         time.Hour,
	}
}

func (f *fixture) analyzeUseCase(config AnalyzeConfig) *AnalyzePaymentBatchUseCase {
	return NewAnalyzePaymentBatchUseCase(f.tranches, f.echeances, f.extractor, f.store, matching.NewDefaultEngine(), config)
}

func (f *fixture) confirmUseCase() *ConfirmPaymentBatchUseCase {
	return NewConfirmPaymentBatchUseCase(f.projects, f.tranches, f.echeances, f.payments, f.store, f.notifier)
}

func documents() []adapter.Document {
	return []adapter.Document{
		{Name: "a.pdf", MIMEType: "application/pdf", Data: []byte("%PDF")},
		{Name: "b.png", MIMEType: "image/png", Data: []byte("png")},
	}
}

// analyze runs a successful analysis and returns the stored batch.
func (f *fixture) analyze(t *testing.T) *entity.PaymentBatch {
	t.Helper()
	out, err := f.analyzeUseCase(defaultAnalyzeConfig()).Execute(context.Background(), AnalyzePaymentBatchInput{
		TrancheID: f.tranche.ID,
		Documents: documents(),
		CreatedBy: uuid.New(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return out.Batch
}
