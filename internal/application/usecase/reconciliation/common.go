// Package reconciliation contains payment reconciliation use cases.
package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/coupon-desk/backoffice/internal/application/adapter"
	"github.com/coupon-desk/backoffice/internal/domain/entity"
	domainerror "github.com/coupon-desk/backoffice/internal/domain/error"
)

// paymentDateLayouts lists the date formats found on French payment proofs.
var paymentDateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"02.01.2006",
}

// parsePaymentDate parses a date read on a proof, falling back to the given time.
func parsePaymentDate(value string, fallback time.Time) time.Time {
	value = strings.TrimSpace(value)
	for _, layout := range paymentDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return fallback
}

// parseDueDate parses an optional YYYY-MM-DD due date.
func parseDueDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	dueDate, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeInvalidDueDate,
			"due date must use the YYYY-MM-DD format",
			domainerror.ErrInvalidDueDate,
		)
	}
	return &dueDate, nil
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

func loadBatch(ctx context.Context, store adapter.PaymentBatchStore, id uuid.UUID) (*entity.PaymentBatch, error) {
	batch, err := store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domainerror.ErrPaymentBatchNotFound) {
			return nil, domainerror.NewReconciliationError(
				domainerror.ErrCodePaymentBatchNotFound,
				"payment batch not found or expired",
				domainerror.ErrPaymentBatchNotFound,
			)
		}
		return nil, storeError(err)
	}
	return batch, nil
}

func storeError(err error) *domainerror.ReconciliationError {
	recErr := domainerror.NewReconciliationError(
		domainerror.ErrCodeBatchStoreFailed,
		"payment batch storage is unavailable",
		fmt.Errorf("%w: %v", domainerror.ErrBatchStoreFailed, err),
	)
	recErr.Retryable = true
	return recErr
}
