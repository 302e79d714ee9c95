package error

import "errors"

// Reconciliation domain errors.
var (
	// ErrPaymentBatchNotFound is returned when an analysis batch is unknown or has expired.
	ErrPaymentBatchNotFound = errors.New("payment batch not found")

	// ErrNoDocuments is returned when an analysis is requested without documents.
	ErrNoDocuments = errors.New("no documents provided")

	// ErrTooManyDocuments is returned when a batch exceeds the document limit.
	ErrTooManyDocuments = errors.New("too many documents")

	// ErrDocumentTooLarge is returned when a document exceeds the size limit.
	ErrDocumentTooLarge = errors.New("document too large")

	// ErrUnsupportedDocumentType is returned for documents that are neither images nor PDFs.
	ErrUnsupportedDocumentType = errors.New("unsupported document type")

	// ErrInvalidDueDate is returned when the due date filter is malformed.
	ErrInvalidDueDate = errors.New("invalid due date")

	// ErrNoExpectedPayments is returned when the tranche has nothing left to pay.
	ErrNoExpectedPayments = errors.New("no expected payments")

	// ErrExtractionFailed is returned when payments cannot be read from a document.
	ErrExtractionFailed = errors.New("payment extraction failed")

	// ErrExtractorUnavailable is returned when no extraction service is configured.
	ErrExtractorUnavailable = errors.New("payment extraction unavailable")

	// ErrBatchStoreFailed is returned when an analysis batch cannot be stored or read.
	ErrBatchStoreFailed = errors.New("payment batch store failed")

	// ErrInvalidSelection is returned when a confirmed row does not reference a batch result.
	ErrInvalidSelection = errors.New("invalid selection")

	// ErrDuplicateSelection is returned when the same row or coupon is confirmed twice.
	ErrDuplicateSelection = errors.New("duplicate selection")

	// ErrEcheanceNotFound is returned when a coupon is unknown or belongs to another tranche.
	ErrEcheanceNotFound = errors.New("echeance not found")

	// ErrEcheanceAlreadyPaid is returned when a coupon has already been paid.
	ErrEcheanceAlreadyPaid = errors.New("echeance already paid")
)

// ReconciliationErrorCode defines error codes for reconciliation errors.
// Format: REC-XXYYYY where XX is category and YYYY is specific error.
type ReconciliationErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeNoDocuments              ReconciliationErrorCode = "REC-010001"
	ErrCodeTooManyDocuments         ReconciliationErrorCode = "REC-010002"
	ErrCodeDocumentTooLarge         ReconciliationErrorCode = "REC-010003"
	ErrCodeUnsupportedDocumentType  ReconciliationErrorCode = "REC-010004"
	ErrCodeInvalidDueDate           ReconciliationErrorCode = "REC-010005"
	ErrCodeInvalidSelection         ReconciliationErrorCode = "REC-010006"
	ErrCodeDuplicateSelection       ReconciliationErrorCode = "REC-010007"
	ErrCodeMissingReconciliationArg ReconciliationErrorCode = "REC-010008"

	// Not found errors (02XXXX)
	ErrCodePaymentBatchNotFound ReconciliationErrorCode = "REC-020001"
	ErrCodeEcheanceNotFound     ReconciliationErrorCode = "REC-020002"
	ErrCodeNoExpectedPayments   ReconciliationErrorCode = "REC-020003"

	// State errors (03XXXX)
	ErrCodeEcheanceAlreadyPaid ReconciliationErrorCode = "REC-030001"

	// Extraction errors (04XXXX)
	ErrCodeExtractionTimeout      ReconciliationErrorCode = "REC-040001"
	ErrCodeExtractionRateLimited  ReconciliationErrorCode = "REC-040002"
	ErrCodeExtractionAuth         ReconciliationErrorCode = "REC-040003"
	ErrCodeExtractionUnavailable  ReconciliationErrorCode = "REC-040004"
	ErrCodeExtractionParse        ReconciliationErrorCode = "REC-040005"
	ErrCodeExtractionUnknown      ReconciliationErrorCode = "REC-040006"
	ErrCodeExtractorNotConfigured ReconciliationErrorCode = "REC-040007"

	// Storage errors (05XXXX)
	ErrCodeBatchStoreFailed ReconciliationErrorCode = "REC-050001"
)

// ReconciliationError represents a reconciliation error with code and message.
type ReconciliationError struct {
	Code      ReconciliationErrorCode
	Message   string
	Retryable bool
	Err       error
}

// Error implements the error interface.
func (e *ReconciliationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ReconciliationError) Unwrap() error {
	return e.Err
}

// NewReconciliationError creates a new ReconciliationError with the given code and message.
func NewReconciliationError(code ReconciliationErrorCode, message string, err error) *ReconciliationError {
	return &ReconciliationError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
