package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newTestPayment(investor *Investor) *Payment {
	return &Payment{
		ID:         uuid.New(),
		EcheanceID: uuid.New(),
		InvestorID: investor.ID,
		Amount:     decimal.RequireFromString("140.00"),
		PaidAt:     time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestNewCouponNotice(t *testing.T) {
	jean := NewInvestor(InvestorTypeIndividual, "Jean", "Dupont", "", "Jean@Example.com")
	payment := newTestPayment(jean)

	n := NewCouponNotice(payment, jean, 2, "Parc Solaire", "Tranche A")

	if n == nil {
		t.Fatal("expected a notice")
	}
	if n.PaymentID != payment.ID || n.EcheanceID != payment.EcheanceID || n.InvestorID != jean.ID {
		t.Errorf("notice not linked to its payment: %+v", n)
	}
	if n.RecipientEmail != "jean@example.com" || n.RecipientName != "Jean Dupont" {
		t.Errorf("unexpected recipient %q <%s>", n.RecipientName, n.RecipientEmail)
	}
	if !n.Amount.Equal(payment.Amount) || !n.PaidAt.Equal(payment.PaidAt) || n.PeriodNumber != 2 {
		t.Errorf("payment details not carried over: %+v", n)
	}
	if n.Status != NoticeStatusPending || !n.IsDue(time.Now().UTC()) {
		t.Errorf("expected a pending notice due now, got %s", n.Status)
	}
	if n.Subject() != "Paiement de votre coupon - Parc Solaire" {
		t.Errorf("unexpected subject %q", n.Subject())
	}

	t.Run("investor without email", func(t *testing.T) {
		acme := NewInvestor(InvestorTypeCompany, "", "", "ACME SAS", "")
		if got := NewCouponNotice(newTestPayment(acme), acme, 1, "Parc Solaire", "Tranche A"); got != nil {
			t.Errorf("expected no notice, got %+v", got)
		}
	})
}

func TestCouponNotice_MarkFailed(t *testing.T) {
	jean := NewInvestor(InvestorTypeIndividual, "Jean", "Dupont", "", "jean@example.com")

	t.Run("temporary failures are retried with backoff", func(t *testing.T) {
		n := NewCouponNotice(newTestPayment(jean), jean, 1, "P", "A")

		n.MarkFailed(errors.New("429"), false)
		if n.Status != NoticeStatusPending || n.Attempts != 1 || n.LastError != "429" {
			t.Fatalf("expected pending retry, got %s after %d attempts", n.Status, n.Attempts)
		}
		if n.IsDue(time.Now().UTC()) {
			t.Error("expected the retry to wait a minute")
		}

		n.MarkFailed(errors.New("503"), false)
		n.MarkFailed(errors.New("503"), false)
		if n.Status != NoticeStatusFailed || n.Attempts != MaxNoticeAttempts {
			t.Errorf("expected failed after %d attempts, got %s / %d", MaxNoticeAttempts, n.Status, n.Attempts)
		}
	})

	t.Run("permanent failure stops at once", func(t *testing.T) {
		n := NewCouponNotice(newTestPayment(jean), jean, 1, "P", "A")

		n.MarkFailed(errors.New("422"), true)

		if n.Status != NoticeStatusFailed || n.Attempts != 1 {
			t.Errorf("expected failed after 1 attempt, got %s / %d", n.Status, n.Attempts)
		}
	})
}

func TestCouponNotice_MarkSent(t *testing.T) {
	jean := NewInvestor(InvestorTypeIndividual, "Jean", "Dupont", "", "jean@example.com")
	n := NewCouponNotice(newTestPayment(jean), jean, 1, "P", "A")

	n.MarkSending()
	n.MarkSent("re_123")

	if n.Status != NoticeStatusSent || n.ProviderID != "re_123" || n.SentAt == nil {
		t.Errorf("unexpected sent notice: %+v", n)
	}
	if n.IsDue(time.Now().UTC()) {
		t.Error("a sent notice is never due")
	}
}
