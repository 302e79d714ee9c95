package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coupon-desk/backoffice/internal/application/adapter"
	"github.com/coupon-desk/backoffice/internal/domain/entity"
	domainerror "github.com/coupon-desk/backoffice/internal/domain/error"
	"github.com/coupon-desk/backoffice/internal/domain/valueobject"
)

// Selection is a batch row the operator confirms.
type Selection struct {
	Index      int
	EcheanceID *uuid.UUID       // overrides the matched coupon
	Amount     *decimal.Decimal // overrides the extracted amount
}

// ConfirmPaymentBatchInput represents the input for confirming a payment batch.
type ConfirmPaymentBatchInput struct {
	BatchID     uuid.UUID
	Selections  []Selection
	ConfirmedBy uuid.UUID
}

// ConfirmPaymentBatchOutput represents the payments recorded on confirmation.
type ConfirmPaymentBatchOutput struct {
	Payments []*entity.PaymentWithInvestor
}

// ConfirmPaymentBatchUseCase records the payments an operator selected in a reviewed batch.
type ConfirmPaymentBatchUseCase struct {
	projectRepo  adapter.ProjectRepository
	trancheRepo  adapter.TrancheRepository
	echeanceRepo adapter.EcheanceRepository
	paymentRepo  adapter.PaymentRepository
	store        adapter.PaymentBatchStore
	notifier     adapter.CouponNotifier
}

// NewConfirmPaymentBatchUseCase creates a new ConfirmPaymentBatchUseCase instance.
// notifier may be nil, in which case no notice is queued.
func NewConfirmPaymentBatchUseCase(
	projectRepo adapter.ProjectRepository,
	trancheRepo adapter.TrancheRepository,
	echeanceRepo adapter.EcheanceRepository,
	paymentRepo adapter.PaymentRepository,
	store adapter.PaymentBatchStore,
	notifier adapter.CouponNotifier,
) *ConfirmPaymentBatchUseCase {
	return &ConfirmPaymentBatchUseCase{
		projectRepo:  projectRepo,
		trancheRepo:  trancheRepo,
		echeanceRepo: echeanceRepo,
		paymentRepo:  paymentRepo,
		store:        store,
		notifier:     notifier,
	}
}

// Execute performs the confirmation.
func (uc *ConfirmPaymentBatchUseCase) Execute(ctx context.Context, input ConfirmPaymentBatchInput) (*ConfirmPaymentBatchOutput, error) {
	if len(input.Selections) == 0 {
		return nil, invalidSelection("select at least one payment to confirm")
	}

	batch, err := loadBatch(ctx, uc.store, input.BatchID)
	if err != nil {
		return nil, err
	}

	targets, err := resolveTargets(batch, input.Selections)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(targets))
	for _, target := range targets {
		ids = append(ids, target.echeanceID)
	}
	found, err := uc.echeanceRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load echeances: %w", err)
	}
	echeances := make(map[uuid.UUID]*entity.EcheanceWithInvestor, len(found))
	for _, e := range found {
		echeances[e.Echeance.ID] = e
	}

	now := time.Now().UTC()
	payments := make([]*entity.Payment, 0, len(targets))
	confirmed := make([]*entity.PaymentWithInvestor, 0, len(targets))
	for _, target := range targets {
		e, ok := echeances[target.echeanceID]
		if !ok || e.Echeance.TrancheID != batch.TrancheID {
			return nil, domainerror.NewReconciliationError(
				domainerror.ErrCodeEcheanceNotFound,
				fmt.Sprintf("row %d: coupon not found in this tranche", target.index),
				domainerror.ErrEcheanceNotFound,
			)
		}
		if e.Echeance.IsPaid() {
			return nil, echeanceAlreadyPaid(fmt.Sprintf("row %d: coupon already paid", target.index))
		}

		payment := newPayment(batch, target, e.Echeance, input.ConfirmedBy, now)
		payments = append(payments, payment)
		confirmed = append(confirmed, &entity.PaymentWithInvestor{Payment: payment, Investor: e.Investor})
	}

	if err := uc.paymentRepo.ConfirmPayments(ctx, payments); err != nil {
		if errors.Is(err, domainerror.ErrEcheanceAlreadyPaid) {
			return nil, echeanceAlreadyPaid("a selected coupon was paid in the meantime")
		}
		return nil, fmt.Errorf("failed to confirm payments: %w", err)
	}

	slog.Info("Payment batch confirmed",
		"batch_id", batch.ID,
		"tranche_id", batch.TrancheID,
		"payments", len(payments),
		"confirmed_by", input.ConfirmedBy,
	)

	uc.queueNotices(ctx, batch.TrancheID, confirmed, echeances)

	if err := uc.store.Delete(ctx, batch.ID); err != nil {
		slog.Warn("Failed to invalidate confirmed payment batch", "batch_id", batch.ID, "error", err)
	}

	return &ConfirmPaymentBatchOutput{
		Payments: confirmed,
	}, nil
}

type selectionTarget struct {
	index      int
	result     valueobject.MatchResult
	echeanceID uuid.UUID
	amount     decimal.Decimal
}

// resolveTargets checks the selections against the batch and resolves the coupon and amount of each row.
func resolveTargets(batch *entity.PaymentBatch, selections []Selection) ([]selectionTarget, error) {
	seenRows := make(map[int]bool, len(selections))
	seenEcheances := make(map[uuid.UUID]bool, len(selections))
	targets := make([]selectionTarget, 0, len(selections))

	for _, s := range selections {
		if s.Index < 0 || s.Index >= len(batch.Results) {
			return nil, invalidSelection(fmt.Sprintf("row %d does not exist in this batch", s.Index))
		}
		if seenRows[s.Index] {
			return nil, duplicateSelection(fmt.Sprintf("row %d is selected twice", s.Index))
		}
		seenRows[s.Index] = true

		result := batch.Results[s.Index]

		var echeanceID uuid.UUID
		switch {
		case s.EcheanceID != nil:
			echeanceID = *s.EcheanceID
		case result.MatchedExpected != nil:
			echeanceID = result.MatchedExpected.EcheanceID
		default:
			return nil, invalidSelection(fmt.Sprintf("row %d has no matching coupon, choose one", s.Index))
		}
		if seenEcheances[echeanceID] {
			return nil, duplicateSelection(fmt.Sprintf("row %d: coupon already selected on another row", s.Index))
		}
		seenEcheances[echeanceID] = true

		amount := result.Payment.Amount
		if s.Amount != nil {
			amount = *s.Amount
		}
		if !amount.IsPositive() {
			return nil, invalidSelection(fmt.Sprintf("row %d: amount must be greater than zero", s.Index))
		}

		targets = append(targets, selectionTarget{
			index:      s.Index,
			result:     result,
			echeanceID: echeanceID,
			amount:     amount,
		})
	}
	return targets, nil
}

func newPayment(batch *entity.PaymentBatch, target selectionTarget, e *entity.Echeance, confirmedBy uuid.UUID, now time.Time) *entity.Payment {
	documents := batch.Documents
	if target.result.Payment.Document != "" {
		documents = []string{target.result.Payment.Document}
	}

	return &entity.Payment{
		ID:              uuid.New(),
		TrancheID:       batch.TrancheID,
		EcheanceID:      e.ID,
		SubscriptionID:  e.SubscriptionID,
		InvestorID:      e.InvestorID,
		BatchID:         batch.ID,
		Amount:          target.amount,
		PaidAt:          parsePaymentDate(target.result.Payment.Date, now),
		Beneficiary:     target.result.Payment.Beneficiary,
		Reference:       target.result.Payment.Reference,
		MatchStatus:     target.result.Status,
		Confidence:      target.result.Confidence,
		SourceDocuments: documents,
		ConfirmedBy:     confirmedBy,
		CreatedAt:       now,
	}
}

// queueNotices queues one coupon payment notice per payment. Failures are logged only.
func (uc *ConfirmPaymentBatchUseCase) queueNotices(
	ctx context.Context,
	trancheID uuid.UUID,
	confirmed []*entity.PaymentWithInvestor,
	echeances map[uuid.UUID]*entity.EcheanceWithInvestor,
) {
	if uc.notifier == nil {
		return
	}

	tranche, err := uc.trancheRepo.FindByID(ctx, trancheID)
	if err != nil {
		slog.Warn("Skipping coupon payment notices", "tranche_id", trancheID, "error", err)
		return
	}
	project, err := uc.projectRepo.FindByID(ctx, tranche.ProjectID)
	if err != nil {
		slog.Warn("Skipping coupon payment notices", "tranche_id", trancheID, "error", err)
		return
	}

	notices := make([]*entity.CouponNotice, 0, len(confirmed))
	for _, c := range confirmed {
		period := echeances[c.Payment.EcheanceID].Echeance.PeriodNumber
		if notice := entity.NewCouponNotice(c.Payment, c.Investor, period, project.Name, tranche.Name); notice != nil {
			notices = append(notices, notice)
		}
	}

	if err := uc.notifier.NotifyCouponsPaid(ctx, notices); err != nil {
		slog.Error("Failed to queue coupon payment notices",
			"tranche_id", trancheID,
			"notices", len(notices),
			"error", err,
		)
	}
}

func invalidSelection(message string) error {
	return domainerror.NewReconciliationError(domainerror.ErrCodeInvalidSelection, message, domainerror.ErrInvalidSelection)
}

func duplicateSelection(message string) error {
	return domainerror.NewReconciliationError(domainerror.ErrCodeDuplicateSelection, message, domainerror.ErrDuplicateSelection)
}

func echeanceAlreadyPaid(message string) error {
	return domainerror.NewReconciliationError(domainerror.ErrCodeEcheanceAlreadyPaid, message, domainerror.ErrEcheanceAlreadyPaid)
}
