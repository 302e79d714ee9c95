package reconciliation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/coupon-desk/backoffice/internal/application/adapter"
	"github.com/coupon-desk/backoffice/internal/domain/entity"
	domainerror "github.com/coupon-desk/backoffice/internal/domain/error"
	"github.com/coupon-desk/backoffice/internal/domain/valueobject"
)

var errBoom = errors.New("boom")

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

// fakeEcheanceRepo returns its rows in insertion order; fixtures insert them sorted.
type fakeEcheanceRepo struct {
	echeances []*entity.EcheanceWithInvestor
}

func (r *fakeEcheanceRepo) CreateSchedule(_ context.Context, _ *entity.Tranche, _ []*entity.Echeance) error {
	return nil
}

func (r *fakeEcheanceRepo) ExistsForTranche(_ context.Context, _ uuid.UUID) (bool, error) {
	return len(r.echeances) > 0, nil
}

func (r *fakeEcheanceRepo) FindByTrancheID(_ context.Context, trancheID uuid.UUID) ([]*entity.EcheanceWithInvestor, error) {
	var out []*entity.EcheanceWithInvestor
	for _, e := range r.echeances {
		if e.Echeance.TrancheID == trancheID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeEcheanceRepo) FindUnpaid(_ context.Context, trancheID uuid.UUID, dueDate *time.Time) ([]*entity.EcheanceWithInvestor, error) {
	var target *time.Time
	var out []*entity.EcheanceWithInvestor
	for _, e := range r.echeances {
		if e.Echeance.TrancheID != trancheID || e.Echeance.IsPaid() {
			continue
		}
		if target == nil {
			if dueDate != nil {
				target = dueDate
			} else {
				d := e.Echeance.DueDate
				target = &d
			}
		}
		if e.Echeance.DueDate.Equal(*target) {
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

type fakePaymentRepo struct {
	payments   []*entity.Payment
	echeances  *fakeEcheanceRepo
	confirmErr error
}

func (r *fakePaymentRepo) ConfirmPayments(_ context.Context, payments []*entity.Payment) error {
	if r.confirmErr != nil {
		return r.confirmErr
	}
	for _, p := range payments {
		for _, e := range r.echeances.echeances {
			if e.Echeance.ID == p.EcheanceID {
				e.Echeance.MarkPaid(p.PaidAt)
			}
		}
	}
	r.payments = append(r.payments, payments...)
	return nil
}

func (r *fakePaymentRepo) FindByTrancheID(_ context.Context, trancheID uuid.UUID) ([]*entity.PaymentWithInvestor, error) {
	var out []*entity.PaymentWithInvestor
	for i := len(r.payments) - 1; i >= 0; i-- {
		if r.payments[i].TrancheID == trancheID {
			out = append(out, &entity.PaymentWithInvestor{Payment: r.payments[i]})
		}
	}
	return out, nil
}

type fakeStore struct {
	batches map[uuid.UUID]*entity.PaymentBatch
	ttl     time.Duration
	saveErr error
	deleted []uuid.UUID
}

func newFakeStore() *fakeStore {
	return &fakeStore{batches: make(map[uuid.UUID]*entity.PaymentBatch)}
}

func (s *fakeStore) Save(_ context.Context, batch *entity.PaymentBatch, ttl time.Duration) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.batches[batch.ID] = batch
	s.ttl = ttl
	return nil
}

func (s *fakeStore) Get(_ context.Context, id uuid.UUID) (*entity.PaymentBatch, error) {
	b, ok := s.batches[id]
	if !ok {
		return nil, domainerror.ErrPaymentBatchNotFound
	}
	return b, nil
}

func (s *fakeStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.batches, id)
	s.deleted = append(s.deleted, id)
	return nil
}

// fakeExtractor returns canned payments per document name.
// Documents listed in slow finish last so completion order differs from input order.
type fakeExtractor struct {
	mu        sync.Mutex
	available bool
	payments  map[string][]valueobject.ExtractedPayment
	errs      map[string]error
	slow      map[string]bool
	calls     []adapter.Document
}

func (e *fakeExtractor) Extract(ctx context.Context, document adapter.Document) ([]valueobject.ExtractedPayment, error) {
	e.mu.Lock()
	e.calls = append(e.calls, document)
	e.mu.Unlock()

	if e.slow[document.Name] {
		select {
		case <-time.After(20 * time.Millisecond):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := e.errs[document.Name]; err != nil {
		return nil, err
	}
	payments := make([]valueobject.ExtractedPayment, len(e.payments[document.Name]))
	copy(payments, e.payments[document.Name])
	return payments, nil
}

func (e *fakeExtractor) IsAvailable() bool {
	return e.available
}

type fakeNotifier struct {
	notices []*entity.CouponNotice
	err     error
}

func (n *fakeNotifier) NotifyCouponsPaid(_ context.Context, notices []*entity.CouponNotice) error {
	n.notices = append(n.notices, notices...)
	return n.err
}
