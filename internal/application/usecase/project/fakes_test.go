package project

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/coupon-desk/backoffice/internal/domain/entity"
	domainerror "github.com/coupon-desk/backoffice/internal/domain/error"
)

type fakeProjectRepo struct {
	projects map[uuid.UUID]*entity.Project
	order    []uuid.UUID
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: make(map[uuid.UUID]*entity.Project)}
}

func (r *fakeProjectRepo) Create(_ context.Context, p *entity.Project) error {
	r.projects[p.ID] = p
	r.order = append(r.order, p.ID)
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
	out := make([]*entity.Project, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		out = append(out, r.projects[r.order[i]])
	}
	return out, nil
}

type fakeTrancheRepo struct {
	tranches map[uuid.UUID]*entity.Tranche
}

func newFakeTrancheRepo() *fakeTrancheRepo {
	return &fakeTrancheRepo{tranches: make(map[uuid.UUID]*entity.Tranche)}
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

func (r *fakeTrancheRepo) FindByProjectID(_ context.Context, projectID uuid.UUID) ([]*entity.Tranche, error) {
	var out []*entity.Tranche
	for _, t := range r.tranches {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IssueDate.Before(out[j].IssueDate) })
	return out, nil
}
