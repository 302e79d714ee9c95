package controller

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/coupon-desk/backoffice/internal/application/adapter"
	"github.com/coupon-desk/backoffice/internal/application/usecase/reconciliation"
	"github.com/coupon-desk/backoffice/internal/domain/valueobject"
	"github.com/coupon-desk/backoffice/internal/integration/entrypoint/dto"
)

// ReconciliationController handles payment matching and payment batch endpoints.
type ReconciliationController struct {
	matchPaymentsUseCase       *reconciliation.MatchPaymentsUseCase
	analyzePaymentBatchUseCase *reconciliation.AnalyzePaymentBatchUseCase
	getPaymentBatchUseCase     *reconciliation.GetPaymentBatchUseCase
	confirmPaymentBatchUseCase *reconciliation.ConfirmPaymentBatchUseCase
	listPaymentsUseCase        *reconciliation.ListPaymentsUseCase
	maxUploadBytes             int64
}

// NewReconciliationController creates a new reconciliation controller instance.
// maxUploadBytes bounds the whole multipart body of an analysis request, 0 disables the bound.
func NewReconciliationController(
	matchPaymentsUseCase *reconciliation.MatchPaymentsUseCase,
	analyzePaymentBatchUseCase *reconciliation.AnalyzePaymentBatchUseCase,
	getPaymentBatchUseCase *reconciliation.GetPaymentBatchUseCase,
	confirmPaymentBatchUseCase *reconciliation.ConfirmPaymentBatchUseCase,
	listPaymentsUseCase *reconciliation.ListPaymentsUseCase,
	maxUploadBytes int64,
) *ReconciliationController {
	return &ReconciliationController{
		matchPaymentsUseCase:       matchPaymentsUseCase,
		analyzePaymentBatchUseCase: analyzePaymentBatchUseCase,
		getPaymentBatchUseCase:     getPaymentBatchUseCase,
		confirmPaymentBatchUseCase: confirmPaymentBatchUseCase,
		listPaymentsUseCase:        listPaymentsUseCase,
		maxUploadBytes:             maxUploadBytes,
	}
}

// Match handles POST /reconciliation/match requests.
func (c *ReconciliationController) Match(ctx *gin.Context) {
	var req dto.MatchRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	payments := make([]valueobject.ExtractedPayment, len(req.Payments))
	for i, p := range req.Payments {
		payments[i] = p.ToExtractedPayment()
	}
	expected := make([]valueobject.ExpectedPayment, len(req.Expected))
	for i, e := range req.Expected {
		expected[i] = e.ToExpectedPayment()
	}

	output, err := c.matchPaymentsUseCase.Execute(ctx.Request.Context(), reconciliation.MatchPaymentsInput{
		Payments: payments,
		Expected: expected,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MatchResponseDTO{
		Results: dto.ToMatchResultDTOs(output.Results),
		Summary: dto.ToBatchSummaryDTO(output.Summary),
	})
}

// Analyze handles POST /tranches/:id/payment-batches requests.
// The body is multipart with one or more files[] parts and an optional due_date field.
func (c *ReconciliationController) Analyze(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	trancheID, ok := parseIDParam(ctx, "tranche")
	if !ok {
		return
	}

	if c.maxUploadBytes > 0 {
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, c.maxUploadBytes)
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			ctx.JSON(http.StatusRequestEntityTooLarge, dto.ErrorResponse{
				Error: fmt.Sprintf("Upload exceeds %d bytes", maxBytesErr.Limit),
			})
			return
		}
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid multipart form: " + err.Error(),
		})
		return
	}

	files := form.File["files[]"]
	if len(files) == 0 {
		files = form.File["files"]
	}

	documents := make([]adapter.Document, 0, len(files))
	for _, header := range files {
		document, err := readDocument(header)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:   "Failed to read uploaded file",
				Details: err.Error(),
			})
			return
		}
		documents = append(documents, document)
	}

	dueDate := ""
	if values := form.Value["due_date"]; len(values) > 0 {
		dueDate = values[0]
	}

	output, err := c.analyzePaymentBatchUseCase.Execute(ctx.Request.Context(), reconciliation.AnalyzePaymentBatchInput{
		TrancheID: trancheID,
		DueDate:   dueDate,
		Documents: documents,
		CreatedBy: userID,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToPaymentBatchResponseDTO(output.Batch, output.Summary))
}

// GetBatch handles GET /payment-batches/:id requests.
func (c *ReconciliationController) GetBatch(ctx *gin.Context) {
	batchID, ok := parseIDParam(ctx, "payment batch")
	if !ok {
		return
	}

	output, err := c.getPaymentBatchUseCase.Execute(ctx.Request.Context(), reconciliation.GetPaymentBatchInput{
		BatchID: batchID,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPaymentBatchResponseDTO(output.Batch, output.Summary))
}

// ConfirmBatch handles POST /payment-batches/:id/confirm requests.
func (c *ReconciliationController) ConfirmBatch(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	batchID, ok := parseIDParam(ctx, "payment batch")
	if !ok {
		return
	}

	var req dto.ConfirmBatchRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	selections := make([]reconciliation.Selection, len(req.Selections))
	for i, s := range req.Selections {
		selections[i] = reconciliation.Selection{
			Index:      *s.Index,
			EcheanceID: s.EcheanceID,
			Amount:     s.Amount,
		}
	}

	output, err := c.confirmPaymentBatchUseCase.Execute(ctx.Request.Context(), reconciliation.ConfirmPaymentBatchInput{
		BatchID:     batchID,
		Selections:  selections,
		ConfirmedBy: userID,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ConfirmBatchResponseDTO{
		Payments: dto.ToPaymentResponseDTOs(output.Payments),
	})
}

// ListPayments handles GET /tranches/:id/payments requests.
func (c *ReconciliationController) ListPayments(ctx *gin.Context) {
	trancheID, ok := parseIDParam(ctx, "tranche")
	if !ok {
		return
	}

	output, err := c.listPaymentsUseCase.Execute(ctx.Request.Context(), reconciliation.ListPaymentsInput{
		TrancheID: trancheID,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.PaymentListResponseDTO{
		Payments:    dto.ToPaymentResponseDTOs(output.Payments),
		TotalAmount: output.TotalAmount.StringFixed(2),
	})
}

// readDocument reads one uploaded file. The MIME type falls back to the file
// extension, then to content sniffing.
func readDocument(header *multipart.FileHeader) (adapter.Document, error) {
	file, err := header.Open()
	if err != nil {
		return adapter.Document{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return adapter.Document{}, err
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = mime.TypeByExtension(filepath.Ext(header.Filename))
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	return adapter.Document{
		Name:     filepath.Base(header.Filename),
		MIMEType: mimeType,
		Data:     data,
	}, nil
}
