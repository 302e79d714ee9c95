package reconciliation

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/coupon-desk/backoffice/internal/application/adapter"
	"github.com/coupon-desk/backoffice/internal/domain/entity"
	domainerror "github.com/coupon-desk/backoffice/internal/domain/error"
	"github.com/coupon-desk/backoffice/internal/domain/matching"
	"github.com/coupon-desk/backoffice/internal/domain/valueobject"
)

// SupportedDocumentTypes lists the MIME types accepted as payment proofs.
var SupportedDocumentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": true,
}

// AnalyzeConfig holds the limits applied to an analysis batch.
type AnalyzeConfig struct {
	MaxDocuments     int
	MaxDocumentBytes int64
	Concurrency      int
	BatchTTL         time.Duration
}

// AnalyzePaymentBatchInput represents the input for analyzing payment proofs.
type AnalyzePaymentBatchInput struct {
	TrancheID uuid.UUID
	DueDate   string // YYYY-MM-DD, earliest unpaid due date when empty
	Documents []adapter.Document
	CreatedBy uuid.UUID
}

// AnalyzePaymentBatchOutput represents the stored batch awaiting review.
type AnalyzePaymentBatchOutput struct {
	Batch   *entity.PaymentBatch
	Summary entity.BatchSummary
}

// AnalyzePaymentBatchUseCase reads payment proofs and matches them against the unpaid coupons of a tranche.
type AnalyzePaymentBatchUseCase struct {
	trancheRepo  adapter.TrancheRepository
	echeanceRepo adapter.EcheanceRepository
	extractor    adapter.PaymentExtractor
	store        adapter.PaymentBatchStore
	engine       *matching.Engine
	config       AnalyzeConfig
}

// NewAnalyzePaymentBatchUseCase creates a new AnalyzePaymentBatchUseCase instance.
func NewAnalyzePaymentBatchUseCase(
	trancheRepo adapter.TrancheRepository,
	echeanceRepo adapter.EcheanceRepository,
	extractor adapter.PaymentExtractor,
	store adapter.PaymentBatchStore,
	engine *matching.Engine,
	config AnalyzeConfig,
) *AnalyzePaymentBatchUseCase {
	if config.Concurrency < 1 {
		config.Concurrency = 1
	}
	return &AnalyzePaymentBatchUseCase{
		trancheRepo:  trancheRepo,
		echeanceRepo: echeanceRepo,
		extractor:    extractor,
		store:        store,
		engine:       engine,
		config:       config,
	}
}

// Execute performs the analysis. Nothing is written to the database.
func (uc *AnalyzePaymentBatchUseCase) Execute(ctx context.Context, input AnalyzePaymentBatchInput) (*AnalyzePaymentBatchOutput, error) {
	if uc.extractor == nil || !uc.extractor.IsAvailable() {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeExtractorNotConfigured,
			"payment proof extraction is not configured",
			domainerror.ErrExtractorUnavailable,
		)
	}

	if err := uc.validateDocuments(input.Documents); err != nil {
		return nil, err
	}

	dueDate, err := parseDueDate(input.DueDate)
	if err != nil {
		return nil, err
	}

	tranche, err := findTranche(ctx, uc.trancheRepo, input.TrancheID)
	if err != nil {
		return nil, err
	}

	echeances, err := uc.echeanceRepo.FindUnpaid(ctx, tranche.ID, dueDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list unpaid echeances: %w", err)
	}
	if len(echeances) == 0 {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeNoExpectedPayments,
			"no unpaid coupon for this tranche and due date",
			domainerror.ErrNoExpectedPayments,
		)
	}

	expected := make([]valueobject.ExpectedPayment, 0, len(echeances))
	for _, e := range echeances {
		expected = append(expected, e.ExpectedPayment())
	}
	batchDueDate := echeances[0].Echeance.DueDate

	payments, err := uc.extractAll(ctx, input.Documents)
	if err != nil {
		return nil, err
	}

	results := uc.engine.MatchAll(payments, expected)

	names := make([]string, 0, len(input.Documents))
	for _, d := range input.Documents {
		names = append(names, d.Name)
	}

	batch := entity.NewPaymentBatch(tranche.ID, &batchDueDate, names, expected, results, input.CreatedBy, uc.config.BatchTTL)
	if err := uc.store.Save(ctx, batch, uc.config.BatchTTL); err != nil {
		return nil, storeError(err)
	}

	summary := batch.Summary()
	slog.Info("Payment batch analyzed",
		"batch_id", batch.ID,
		"tranche_id", tranche.ID,
		"documents", len(input.Documents),
		"payments", summary.Total,
		"matched", summary.Matched,
		"partial", summary.Partial,
		"unmatched", summary.Unmatched,
	)

	return &AnalyzePaymentBatchOutput{
		Batch:   batch,
		Summary: summary,
	}, nil
}

func (uc *AnalyzePaymentBatchUseCase) validateDocuments(documents []adapter.Document) error {
	if len(documents) == 0 {
		return domainerror.NewReconciliationError(
			domainerror.ErrCodeNoDocuments,
			"at least one payment proof is required",
			domainerror.ErrNoDocuments,
		)
	}
	if uc.config.MaxDocuments > 0 && len(documents) > uc.config.MaxDocuments {
		return domainerror.NewReconciliationError(
			domainerror.ErrCodeTooManyDocuments,
			fmt.Sprintf("at most %d payment proofs can be analyzed at once", uc.config.MaxDocuments),
			domainerror.ErrTooManyDocuments,
		)
	}

	for _, d := range documents {
		if uc.config.MaxDocumentBytes > 0 && int64(len(d.Data)) > uc.config.MaxDocumentBytes {
			return domainerror.NewReconciliationError(
				domainerror.ErrCodeDocumentTooLarge,
				fmt.Sprintf("%s exceeds the maximum size of %d bytes", d.Name, uc.config.MaxDocumentBytes),
				domainerror.ErrDocumentTooLarge,
			)
		}
		if !SupportedDocumentTypes[normalizeMIMEType(d.MIMEType)] {
			return domainerror.NewReconciliationError(
				domainerror.ErrCodeUnsupportedDocumentType,
				fmt.Sprintf("%s: only JPEG, PNG, WebP images and PDF files are accepted", d.Name),
				domainerror.ErrUnsupportedDocumentType,
			)
		}
	}
	return nil
}

// extractAll reads every document with bounded concurrency and concatenates the
// payments in document order.
func (uc *AnalyzePaymentBatchUseCase) extractAll(ctx context.Context, documents []adapter.Document) ([]valueobject.ExtractedPayment, error) {
	perDocument := make([][]valueobject.ExtractedPayment, len(documents))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.config.Concurrency)

	for i, d := range documents {
		i, d := i, d
		g.Go(func() error {
			doc := d
			doc.MIMEType = normalizeMIMEType(d.MIMEType)

			payments, err := uc.extractor.Extract(gctx, doc)
			if err != nil {
				slog.Error("Payment extraction failed", "document", doc.Name, "error", err)
				return classifyExtractionError(doc.Name, err)
			}
			for j := range payments {
				payments[j].Document = doc.Name
			}
			perDocument[i] = payments
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []valueobject.ExtractedPayment
	for _, payments := range perDocument {
		all = append(all, payments...)
	}
	return all, nil
}

func normalizeMIMEType(value string) string {
	if mediaType, _, err := mime.ParseMediaType(value); err == nil {
		return mediaType
	}
	return strings.ToLower(strings.TrimSpace(value))
}
