package steps

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	"github.com/coupon-desk/backoffice/internal/domain/valueobject"
)

// registerReconciliationSteps registers payment proof, batch and email steps.
func registerReconciliationSteps(ctx *godog.ScenarioContext) {
	ctx.Given(`^the payment proof extractor returns:$`, thePaymentProofExtractorReturns)
	ctx.Given(`^the payment proof extractor is not configured$`, thePaymentProofExtractorIsNotConfigured)
	ctx.Given(`^the payment proof extractor fails with "([^"]*)"$`, thePaymentProofExtractorFailsWith)

	ctx.When(`^I upload the payment proofs "([^"]*)" to "([^"]*)"$`, iUploadThePaymentProofsTo)
	ctx.When(`^I upload the payment proofs "([^"]*)" to "([^"]*)" for due date "([^"]*)"$`, iUploadThePaymentProofsToForDueDate)
	ctx.When(`^the payment batch has expired$`, thePaymentBatchHasExpired)
	ctx.When(`^the email worker processes the queue$`, theEmailWorkerProcessesTheQueue)

	ctx.Then(`^the payment proof extractor should have read (\d+) documents?$`, thePaymentProofExtractorShouldHaveRead)
	ctx.Then(`^(\d+) coupon notices? should have been sent$`, couponNoticesShouldHaveBeenSent)
	ctx.Then(`^a coupon notice should have been sent to "([^"]*)"$`, aCouponNoticeShouldHaveBeenSentTo)
}

// thePaymentProofExtractorReturns reads a table with the columns
// beneficiary, amount, date and an optional reference.
func thePaymentProofExtractorReturns(ctx context.Context, table *godog.Table) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return errNoContext
	}
	if len(table.Rows) < 1 {
		return errors.New("the payments table needs a header row")
	}

	header := make(map[string]int, len(table.Rows[0].Cells))
	for i, cell := range table.Rows[0].Cells {
		header[cell.Value] = i
	}

	payments := make([]valueobject.ExtractedPayment, 0, len(table.Rows)-1)
	for _, row := range table.Rows[1:] {
		values := make([]string, len(row.Cells))
		for i, cell := range row.Cells {
			values[i] = strings.TrimSpace(cell.Value)
		}
		column := func(name string) string {
			if i, ok := header[name]; ok && i < len(values) {
				return values[i]
			}
			return ""
		}

		amount, err := decimal.NewFromString(column("amount"))
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", column("amount"), err)
		}

		payment := valueobject.ExtractedPayment{
			Beneficiary: column("beneficiary"),
			Amount:      amount,
			Date:        column("date"),
		}
		if reference := column("reference"); reference != "" {
			payment.Reference = &reference
		}
		payments = append(payments, payment)
	}

	tc.extractor.SetPayments(payments)
	return nil
}

func thePaymentProofExtractorIsNotConfigured(ctx context.Context) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return errNoContext
	}
	tc.extractor.SetAvailable(false)
	return nil
}

func thePaymentProofExtractorFailsWith(ctx context.Context, message string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return errNoContext
	}
	tc.extractor.SetError(errors.New(message))
	return nil
}

func iUploadThePaymentProofsTo(ctx context.Context, files, endpoint string) error {
	return uploadPaymentProofs(ctx, files, endpoint, "")
}

func iUploadThePaymentProofsToForDueDate(ctx context.Context, files, endpoint, dueDate string) error {
	return uploadPaymentProofs(ctx, files, endpoint, dueDate)
}

func uploadPaymentProofs(ctx context.Context, files, endpoint, dueDate string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return errNoContext
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, name := range strings.Split(files, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		part, err := writer.CreateFormFile("files[]", name)
		if err != nil {
			return fmt.Errorf("failed to add %s: %w", name, err)
		}
		if _, err := part.Write([]byte("%PDF-1.4 payment proof " + name)); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	if dueDate != "" {
		if err := writer.WriteField("due_date", dueDate); err != nil {
			return fmt.Errorf("failed to write due date: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close multipart body: %w", err)
	}

	return tc.executeRequest("POST", endpoint, body, writer.FormDataContentType())
}

func thePaymentBatchHasExpired(ctx context.Context) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return errNoContext
	}
	tc.redis.Server.FastForward(tc.cfg.Reconciliation.BatchTTL + time.Second)
	return nil
}

func theEmailWorkerProcessesTheQueue(ctx context.Context) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return errNoContext
	}
	tc.injector.EmailWorker.ProcessNow(context.Background())
	return nil
}

func thePaymentProofExtractorShouldHaveRead(ctx context.Context, count int) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return errNoContext
	}
	if calls := tc.extractor.Calls(); len(calls) != count {
		return fmt.Errorf("expected %d documents read, got %d: %v", count, len(calls), calls)
	}
	return nil
}

func couponNoticesShouldHaveBeenSent(ctx context.Context, count int) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return errNoContext
	}
	if sent := len(tc.emailSender.Sent()); sent != count {
		return fmt.Errorf("expected %d coupon notices, got %d", count, sent)
	}
	return nil
}

func aCouponNoticeShouldHaveBeenSentTo(ctx context.Context, recipient string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return errNoContext
	}
	for _, sent := range tc.emailSender.Sent() {
		if sent.To == recipient {
			if !strings.HasPrefix(sent.Subject, "Paiement de votre coupon") {
				return fmt.Errorf("unexpected subject %q", sent.Subject)
			}
			return nil
		}
	}
	return fmt.Errorf("no coupon notice sent to %s", recipient)
}
