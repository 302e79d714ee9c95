package subscription

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coupon-desk/backoffice/internal/domain/entity"
	domainerror "github.com/coupon-desk/backoffice/internal/domain/error"
)

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

type fakeInvestorRepo struct {
	investors []*entity.Investor
	updates   int
}

func (r *fakeInvestorRepo) Create(_ context.Context, i *entity.Investor) error {
	r.investors = append(r.investors, i)
	return nil
}

func (r *fakeInvestorRepo) Update(_ context.Context, _ *entity.Investor) error {
	r.updates++
	return nil
}

func (r *fakeInvestorRepo) FindByEmail(_ context.Context, email string) (*entity.Investor, error) {
	for _, i := range r.investors {
		if strings.EqualFold(i.Email, email) {
			return i, nil
		}
	}
	return nil, nil
}

type fakeSubscriptionRepo struct {
	subscriptions []*entity.Subscription
	investors     *fakeInvestorRepo
}

func (r *fakeSubscriptionRepo) Create(_ context.Context, s *entity.Subscription) error {
	r.subscriptions = append(r.subscriptions, s)
	return nil
}

func (r *fakeSubscriptionRepo) FindByTrancheID(_ context.Context, trancheID uuid.UUID) ([]*entity.SubscriptionWithInvestor, error) {
	var out []*entity.SubscriptionWithInvestor
	for _, s := range r.subscriptions {
		if s.TrancheID != trancheID {
			continue
		}
		var investor *entity.Investor
		for _, i := range r.investors.investors {
			if i.ID == s.InvestorID {
				investor = i
			}
		}
		out = append(out, &entity.SubscriptionWithInvestor{Subscription: s, Investor: investor})
	}
	return out, nil
}

type fixture struct {
	tranche       *entity.Tranche
	tranches      *fakeTrancheRepo
	investors     *fakeInvestorRepo
	subscriptions *fakeSubscriptionRepo
}

func newFixture() *fixture {
	tranche := &entity.Tranche{ID: uuid.New(), Name: "A", Status: entity.TrancheStatusDraft}
	investors := &fakeInvestorRepo{}
	return &fixture{
		tranche:       tranche,
		tranches:      &fakeTrancheRepo{tranches: map[uuid.UUID]*entity.Tranche{tranche.ID: tranche}},
		investors:     investors,
		subscriptions: &fakeSubscriptionRepo{investors: investors},
	}
}

func (f *fixture) createUseCase() *CreateSubscriptionUseCase {
	return NewCreateSubscriptionUseCase(f.tranches, f.investors, f.subscriptions)
}

func individual(email string) InvestorInput {
	return InvestorInput{Type: "personne_physique", FirstName: "Jean", LastName: "Dupont", Email: email}
}

func TestCreateSubscriptionUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("creates investor and subscription", func(t *testing.T) {
		f := newFixture()

		out, err := f.createUseCase().Execute(ctx, CreateSubscriptionInput{
			TrancheID:    f.tranche.ID,
			Investor:     individual("Jean.Dupont@Example.com"),
			Amount:       decimal.NewFromInt(10000),
			SubscribedAt: "2025-01-10",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		sub := out.Subscription
		if sub.Investor.DisplayName() != "Jean Dupont" || sub.Investor.Email != "jean.dupont@example.com" {
			t.Errorf("unexpected investor: %+v", sub.Investor)
		}
		if sub.Subscription.InvestorID != sub.Investor.ID || sub.Subscription.TrancheID != f.tranche.ID {
			t.Errorf("subscription not linked: %+v", sub.Subscription)
		}
		if sub.Subscription.SubscribedAt.Format("2006-01-02") != "2025-01-10" {
			t.Errorf("unexpected subscription date %s", sub.Subscription.SubscribedAt)
		}
		if len(f.investors.investors) != 1 || len(f.subscriptions.subscriptions) != 1 {
			t.Error("expected one investor and one subscription stored")
		}
	})

	t.Run("reuses investor with the same email", func(t *testing.T) {
		f := newFixture()
		uc := f.createUseCase()

		first, err := uc.Execute(ctx, CreateSubscriptionInput{
			TrancheID: f.tranche.ID,
			Investor:  individual("jean@example.com"),
			Amount:    decimal.NewFromInt(1000),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		renamed := individual("JEAN@example.com")
		renamed.FirstName = "Jean-Pierre"
		second, err := uc.Execute(ctx, CreateSubscriptionInput{
			TrancheID: f.tranche.ID,
			Investor:  renamed,
			Amount:    decimal.NewFromInt(2000),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if first.Subscription.Investor.ID != second.Subscription.Investor.ID {
			t.Error("expected the same investor to be reused")
		}
		if len(f.investors.investors) != 1 || f.investors.updates != 1 {
			t.Errorf("expected one investor updated once, got %d investors and %d updates", len(f.investors.investors), f.investors.updates)
		}
		if second.Subscription.Investor.FirstName != "Jean-Pierre" {
			t.Errorf("expected investor details refreshed, got %q", second.Subscription.Investor.FirstName)
		}
	})

	t.Run("investors without email are always created", func(t *testing.T) {
		f := newFixture()
		uc := f.createUseCase()

		for i := 0; i < 2; i++ {
			if _, err := uc.Execute(ctx, CreateSubscriptionInput{
				TrancheID: f.tranche.ID,
				Investor:  individual(""),
				Amount:    decimal.NewFromInt(1000),
			}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if len(f.investors.investors) != 2 {
			t.Errorf("expected 2 investors, got %d", len(f.investors.investors))
		}
	})

	tests := []struct {
		name   string
		mutate func(*CreateSubscriptionInput, *fixture)
		target error
	}{
		{
			name:   "zero amount",
			mutate: func(in *CreateSubscriptionInput, _ *fixture) { in.Amount = decimal.Zero },
			target: domainerror.ErrInvalidAmount,
		},
		{
			name:   "negative amount",
			mutate: func(in *CreateSubscriptionInput, _ *fixture) { in.Amount = decimal.NewFromInt(-5) },
			target: domainerror.ErrInvalidAmount,
		},
		{
			name:   "unknown investor type",
			mutate: func(in *CreateSubscriptionInput, _ *fixture) { in.Investor.Type = "fonds" },
			target: domainerror.ErrInvalidInvestorType,
		},
		{
			name: "company without name",
			mutate: func(in *CreateSubscriptionInput, _ *fixture) {
				in.Investor = InvestorInput{Type: "personne_morale", Email: "finance@acme.fr"}
			},
			target: domainerror.ErrInvalidInvestorName,
		},
		{
			name:   "individual without last name",
			mutate: func(in *CreateSubscriptionInput, _ *fixture) { in.Investor.LastName = " " },
			target: domainerror.ErrInvalidInvestorName,
		},
		{
			name:   "malformed email",
			mutate: func(in *CreateSubscriptionInput, _ *fixture) { in.Investor.Email = "not-an-email" },
			target: domainerror.ErrInvalidInvestorEmail,
		},
		{
			name:   "unknown tranche",
			mutate: func(in *CreateSubscriptionInput, _ *fixture) { in.TrancheID = uuid.New() },
			target: domainerror.ErrTrancheNotFound,
		},
		{
			name:   "schedule already generated",
			mutate: func(_ *CreateSubscriptionInput, f *fixture) { f.tranche.Activate() },
			target: domainerror.ErrScheduleAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			input := CreateSubscriptionInput{
				TrancheID: f.tranche.ID,
				Investor:  individual("jean@example.com"),
				Amount:    decimal.NewFromInt(1000),
			}
			tt.mutate(&input, f)

			_, err := f.createUseCase().Execute(ctx, input)

			if !errors.Is(err, tt.target) {
				t.Errorf("expected %v, got %v", tt.target, err)
			}
			var projectErr *domainerror.ProjectError
			if !errors.As(err, &projectErr) {
				t.Errorf("expected a ProjectError, got %T", err)
			}
			if len(f.subscriptions.subscriptions) != 0 {
				t.Error("expected no subscription stored")
			}
		})
	}
}

func TestListSubscriptionsUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	create := f.createUseCase()

	for _, amount := range []int64{1000, 2500} {
		if _, err := create.Execute(ctx, CreateSubscriptionInput{
			TrancheID: f.tranche.ID,
			Investor:  individual(""),
			Amount:    decimal.NewFromInt(amount),
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	uc := NewListSubscriptionsUseCase(f.tranches, f.subscriptions)

	out, err := uc.Execute(ctx, ListSubscriptionsInput{TrancheID: f.tranche.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Subscriptions) != 2 {
		t.Fatalf("expected 2 subscriptions, got %d", len(out.Subscriptions))
	}
	if !out.TotalAmount.Equal(decimal.NewFromInt(3500)) {
		t.Errorf("expected total 3500, got %s", out.TotalAmount)
	}

	if _, err := uc.Execute(ctx, ListSubscriptionsInput{TrancheID: uuid.New()}); !errors.Is(err, domainerror.ErrTrancheNotFound) {
		t.Errorf("expected ErrTrancheNotFound, got %v", err)
	}
}
