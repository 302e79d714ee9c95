package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainerror "github.com/coupon-desk/backoffice/internal/domain/error"
	"github.com/coupon-desk/backoffice/internal/integration/entrypoint/dto"
	"github.com/coupon-desk/backoffice/internal/integration/entrypoint/middleware"
)

// handleError writes the response for an error returned by a use case.
func handleError(ctx *gin.Context, err error) {
	var prjErr *domainerror.ProjectError
	if errors.As(err, &prjErr) {
		ctx.JSON(statusCodeForProjectError(prjErr.Code), dto.ErrorResponse{
			Error: prjErr.Message,
			Code:  string(prjErr.Code),
		})
		return
	}

	var recErr *domainerror.ReconciliationError
	if errors.As(err, &recErr) {
		status := statusCodeForReconciliationError(recErr.Code)
		if status >= http.StatusInternalServerError {
			slog.Error("Reconciliation request failed",
				"code", recErr.Code,
				"retryable", recErr.Retryable,
				"error", err,
			)
		}
		ctx.JSON(status, dto.ErrorResponse{
			Error:     recErr.Message,
			Code:      string(recErr.Code),
			Retryable: recErr.Retryable,
		})
		return
	}

	slog.Error("Unhandled request error",
		"path", ctx.FullPath(),
		"error", err,
	)

	// Generic server error
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// statusCodeForProjectError maps project error codes to HTTP status codes.
func statusCodeForProjectError(code domainerror.ProjectErrorCode) int {
	switch code {
	case domainerror.ErrCodeInvalidProjectName,
		domainerror.ErrCodeInvalidTrancheName,
		domainerror.ErrCodeInvalidRate,
		domainerror.ErrCodeInvalidPeriodicity,
		domainerror.ErrCodeInvalidDuration,
		domainerror.ErrCodeInvalidIssueDate,
		domainerror.ErrCodeInvalidAmount,
		domainerror.ErrCodeInvalidInvestorType,
		domainerror.ErrCodeInvalidInvestorName,
		domainerror.ErrCodeInvalidInvestorEmail,
		domainerror.ErrCodeMissingProjectFields:
		return http.StatusBadRequest
	case domainerror.ErrCodeProjectNotFound,
		domainerror.ErrCodeTrancheNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeScheduleAlreadyExists,
		domainerror.ErrCodeScheduleNotGenerated:
		return http.StatusConflict
	case domainerror.ErrCodeNoSubscriptions:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// statusCodeForReconciliationError maps reconciliation error codes to HTTP status codes.
func statusCodeForReconciliationError(code domainerror.ReconciliationErrorCode) int {
	switch code {
	case domainerror.ErrCodeNoDocuments,
		domainerror.ErrCodeTooManyDocuments,
		domainerror.ErrCodeInvalidDueDate,
		domainerror.ErrCodeInvalidSelection,
		domainerror.ErrCodeDuplicateSelection,
		domainerror.ErrCodeMissingReconciliationArg:
		return http.StatusBadRequest
	case domainerror.ErrCodeDocumentTooLarge:
		return http.StatusRequestEntityTooLarge
	case domainerror.ErrCodeUnsupportedDocumentType:
		return http.StatusUnsupportedMediaType
	case domainerror.ErrCodePaymentBatchNotFound,
		domainerror.ErrCodeEcheanceNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeNoExpectedPayments:
		return http.StatusUnprocessableEntity
	case domainerror.ErrCodeEcheanceAlreadyPaid:
		return http.StatusConflict
	case domainerror.ErrCodeExtractionTimeout,
		domainerror.ErrCodeExtractionRateLimited,
		domainerror.ErrCodeExtractionAuth,
		domainerror.ErrCodeExtractionUnavailable,
		domainerror.ErrCodeExtractionParse,
		domainerror.ErrCodeExtractionUnknown:
		return http.StatusBadGateway
	case domainerror.ErrCodeExtractorNotConfigured,
		domainerror.ErrCodeBatchStoreFailed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// parseIDParam parses the :id path parameter. It writes a 400 response when malformed.
func parseIDParam(ctx *gin.Context, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid " + what + " ID format",
		})
		return uuid.Nil, false
	}
	return id, true
}

// requireUserID reads the authenticated user. It writes a 401 response when missing.
func requireUserID(ctx *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return uuid.Nil, false
	}
	return userID, true
}
