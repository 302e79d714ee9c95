package schedule

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/coupon-desk/backoffice/internal/application/adapter"
	"github.com/coupon-desk/backoffice/internal/domain/entity"
	domainerror "github.com/coupon-desk/backoffice/internal/domain/error"
)

type fakeProjectRepo struct {
	projects map[uuid.UUID]*entity.Project
}

func (r *fakeProjectRepo) Create(_ context.Context, p *entity.Project) error {
	r.projects[p.ID] = p
	return nil
}

func (r *fakeProjectRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Project, error) {
	p, ok := r.projects[id]
	if !ok {
		return nil, domainerror.ErrProjectNotFound
	}
	return p, nil
}

func (r *fakeProjectRepo) FindAll(_ context.Context) ([]*entity.Project, error) {
	return nil, nil
}

type fakeTrancheRepo struct {
	tranches map[uuid.UUID]*entity.Tranche
}

func (r *fakeTrancheRepo) Create(_ context.Context, t *entity.Tranche) error {
	r.tranches[t.ID] = t
	return nil
}

func (r *fakeTrancheRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Tranche, error) {
	t, ok := r.tranches[id]
	if !ok {
		return nil, domainerror.ErrTrancheNotFound
	}
	return t, nil
}

func (r *fakeTrancheRepo) FindByProjectID(_ context.Context, _ uuid.UUID) ([]*entity.Tranche, error) {
	return nil, nil
}

type fakeSubscriptionRepo struct {
	subscriptions []*entity.SubscriptionWithInvestor
}

func (r *fakeSubscriptionRepo) Create(_ context.Context, _ *entity.Subscription) error {
	return nil
}

func (r *fakeSubscriptionRepo) FindByTrancheID(_ context.Context, trancheID uuid.UUID) ([]*entity.SubscriptionWithInvestor, error) {
	var out []*entity.SubscriptionWithInvestor
	for _, s := range r.subscriptions {
		if s.Subscription.TrancheID == trancheID {
			out = append(out, s)
		}
	}
	return out, nil
}

// fakeEcheanceRepo keeps a schedule in memory, sorted like the database repository.
type fakeEcheanceRepo struct {
	echeances []*entity.EcheanceWithInvestor
	investors map[uuid.UUID]*entity.Investor
	createErr error
}

func newFakeEcheanceRepo(investors ...*entity.Investor) *fakeEcheanceRepo {
	repo := &fakeEcheanceRepo{investors: make(map[uuid.UUID]*entity.Investor)}
	for _, i := range investors {
		repo.investors[i.ID] = i
	}
	return repo
}

func (r *fakeEcheanceRepo) CreateSchedule(_ context.Context, _ *entity.Tranche, echeances []*entity.Echeance) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, e := range echeances {
		r.echeances = append(r.echeances, &entity.EcheanceWithInvestor{Echeance: e, Investor: r.investors[e.InvestorID]})
	}
	return nil
}

func (r *fakeEcheanceRepo) ExistsForTranche(_ context.Context, trancheID uuid.UUID) (bool, error) {
	for _, e := range r.echeances {
		if e.Echeance.TrancheID == trancheID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeEcheanceRepo) sorted(keep func(*entity.Echeance) bool) []*entity.EcheanceWithInvestor {
	var out []*entity.EcheanceWithInvestor
	for _, e := range r.echeances {
		if keep(e.Echeance) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Echeance.DueDate.Equal(out[j].Echeance.DueDate) {
			return out[i].Echeance.DueDate.Before(out[j].Echeance.DueDate)
		}
		return out[i].Investor.DisplayName() < out[j].Investor.DisplayName()
	})
	return out
}

func (r *fakeEcheanceRepo) FindByTrancheID(_ context.Context, trancheID uuid.UUID) ([]*entity.EcheanceWithInvestor, error) {
	return r.sorted(func(e *entity.Echeance) bool { return e.TrancheID == trancheID }), nil
}

func (r *fakeEcheanceRepo) FindUnpaid(_ context.Context, trancheID uuid.UUID, dueDate *time.Time) ([]*entity.EcheanceWithInvestor, error) {
	unpaid := r.sorted(func(e *entity.Echeance) bool { return e.TrancheID == trancheID && !e.IsPaid() })
	if len(unpaid) == 0 {
		return nil, nil
	}
	target := unpaid[0].Echeance.DueDate
	if dueDate != nil {
		target = *dueDate
	}
	var out []*entity.EcheanceWithInvestor
	for _, e := range unpaid {
		if e.Echeance.DueDate.Equal(target) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeEcheanceRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*entity.EcheanceWithInvestor, error) {
	var out []*entity.EcheanceWithInvestor
	for _, id := range ids {
		for _, e := range r.echeances {
			if e.Echeance.ID == id {
				out = append(out, e)
			}
		}
	}
	return out, nil
}

type fakeExporter struct {
	got adapter.ScheduleExport
	err error
}

func (e *fakeExporter) Export(_ context.Context, export adapter.ScheduleExport) ([]byte, error) {
	e.got = export
	if e.err != nil {
		return nil, e.err
	}
	return []byte("xlsx"), nil
}

func (e *fakeExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (e *fakeExporter) FileExtension() string {
	return "xlsx"
}

var errBoom = errors.New("boom")
