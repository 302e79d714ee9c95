package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domainerror "github.com/coupon-desk/backoffice/internal/domain/error"
)

// extractionMessages contains the French messages shown to operators for each extraction error.
var extractionMessages = map[domainerror.ReconciliationErrorCode]string{
	domainerror.ErrCodeExtractionTimeout:     "La lecture des justificatifs a pris trop de temps. Reessayez avec moins de documents.",
	domainerror.ErrCodeExtractionRateLimited: "Limite de requetes du service de lecture atteinte. Patientez quelques minutes puis reessayez.",
	domainerror.ErrCodeExtractionAuth:        "Erreur de configuration du service de lecture. Contactez le support.",
	domainerror.ErrCodeExtractionUnavailable: "Le service de lecture des justificatifs est temporairement indisponible. Reessayez plus tard.",
	domainerror.ErrCodeExtractionParse:       "La reponse du service de lecture est illisible. Reessayez.",
	domainerror.ErrCodeExtractionUnknown:     "Une erreur inattendue est survenue pendant la lecture des justificatifs. Reessayez.",
}

// classifyExtractionError converts an extractor failure into a ReconciliationError
// with its code, French message and retryable flag.
func classifyExtractionError(document string, err error) *domainerror.ReconciliationError {
	code, retryable := extractionErrorCode(err)

	message := extractionMessages[code]
	if document != "" {
		message += " (" + document + ")"
	}

	recErr := domainerror.NewReconciliationError(code, message, fmt.Errorf("%w: %w", domainerror.ErrExtractionFailed, err))
	recErr.Retryable = retryable
	return recErr
}

func extractionErrorCode(err error) (domainerror.ReconciliationErrorCode, bool) {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domainerror.ErrCodeExtractionTimeout, true
	}

	errStr := strings.ToLower(err.Error())

	if strings.Contains(errStr, "rate limit") || strings.Contains(errStr, "quota") ||
		strings.Contains(errStr, "429") || strings.Contains(errStr, "resource exhausted") {
		return domainerror.ErrCodeExtractionRateLimited, true
	}

	if strings.Contains(errStr, "401") || strings.Contains(errStr, "403") ||
		strings.Contains(errStr, "invalid api key") || strings.Contains(errStr, "unauthorized") ||
		strings.Contains(errStr, "authentication") {
		return domainerror.ErrCodeExtractionAuth, false
	}

	if strings.Contains(errStr, "connection") || strings.Contains(errStr, "network") ||
		strings.Contains(errStr, "dial") || strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "unavailable") || strings.Contains(errStr, "503") {
		return domainerror.ErrCodeExtractionUnavailable, true
	}

	if strings.Contains(errStr, "parse") || strings.Contains(errStr, "json") ||
		strings.Contains(errStr, "unmarshal") || strings.Contains(errStr, "decode") {
		return domainerror.ErrCodeExtractionParse, true
	}

	return domainerror.ErrCodeExtractionUnknown, true
}
