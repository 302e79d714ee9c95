package controller

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/coupon-desk/backoffice/internal/application/usecase/reconciliation"
	"github.com/coupon-desk/backoffice/internal/domain/matching"
	domainerror "github.com/coupon-desk/backoffice/internal/domain/error"
	"github.com/coupon-desk/backoffice/internal/integration/entrypoint/dto"
	"github.com/coupon-desk/backoffice/internal/integration/entrypoint/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response %q: %v", w.Body.String(), err)
	}
	return resp
}

func TestHandleError(t *testing.T) {
	retryable := domainerror.NewReconciliationError(domainerror.ErrCodeExtractionTimeout, "payment proof extraction timed out", nil)
	retryable.Retryable = true

	tests := []struct {
		name          string
		err           error
		wantStatus    int
		wantCode      string
		wantRetryable bool
	}{
		{
			name:       "project validation",
			err:        domainerror.NewProjectError(domainerror.ErrCodeInvalidRate, "invalid rate", nil),
			wantStatus: http.StatusBadRequest,
			wantCode:   string(domainerror.ErrCodeInvalidRate),
		},
		{
			name:       "tranche not found",
			err:        domainerror.NewProjectError(domainerror.ErrCodeTrancheNotFound, "tranche not found", domainerror.ErrTrancheNotFound),
			wantStatus: http.StatusNotFound,
			wantCode:   string(domainerror.ErrCodeTrancheNotFound),
		},
		{
			name:       "schedule already generated",
			err:        domainerror.NewProjectError(domainerror.ErrCodeScheduleAlreadyExists, "schedule exists", nil),
			wantStatus: http.StatusConflict,
			wantCode:   string(domainerror.ErrCodeScheduleAlreadyExists),
		},
		{
			name:       "no subscriptions",
			err:        domainerror.NewProjectError(domainerror.ErrCodeNoSubscriptions, "no subscriptions", nil),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   string(domainerror.ErrCodeNoSubscriptions),
		},
		{
			name:       "document too large",
			err:        domainerror.NewReconciliationError(domainerror.ErrCodeDocumentTooLarge, "too large", nil),
			wantStatus: http.StatusRequestEntityTooLarge,
			wantCode:   string(domainerror.ErrCodeDocumentTooLarge),
		},
		{
			name:       "unsupported document",
			err:        domainerror.NewReconciliationError(domainerror.ErrCodeUnsupportedDocumentType, "unsupported", nil),
			wantStatus: http.StatusUnsupportedMediaType,
			wantCode:   string(domainerror.ErrCodeUnsupportedDocumentType),
		},
		{
			name:       "already paid",
			err:        domainerror.NewReconciliationError(domainerror.ErrCodeEcheanceAlreadyPaid, "already paid", domainerror.ErrEcheanceAlreadyPaid),
			wantStatus: http.StatusConflict,
			wantCode:   string(domainerror.ErrCodeEcheanceAlreadyPaid),
		},
		{
			name:          "extraction timeout is retryable",
			err:           retryable,
			wantStatus:    http.StatusBadGateway,
			wantCode:      string(domainerror.ErrCodeExtractionTimeout),
			wantRetryable: true,
		},
		{
			name:       "extractor not configured",
			err:        domainerror.NewReconciliationError(domainerror.ErrCodeExtractorNotConfigured, "not configured", nil),
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   string(domainerror.ErrCodeExtractorNotConfigured),
		},
		{
			name:       "unknown error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			ctx, _ := gin.CreateTestContext(w)

			handleError(ctx, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			resp := decodeError(t, w)
			if resp.Code != tt.wantCode {
				t.Errorf("expected code %q, got %q", tt.wantCode, resp.Code)
			}
			if resp.Retryable != tt.wantRetryable {
				t.Errorf("expected retryable %v, got %v", tt.wantRetryable, resp.Retryable)
			}
		})
	}
}

func TestHealthController_Check(t *testing.T) {
	up := func() bool { return true }
	down := func() bool { return false }

	tests := []struct {
		name          string
		db, redis     func() bool
		extractor     func() bool
		wantStatus    string
		wantExtractor string
	}{
		{name: "all up", db: up, redis: up, extractor: up, wantStatus: "ok", wantExtractor: "configured"},
		{name: "redis down", db: up, redis: down, extractor: up, wantStatus: "degraded", wantExtractor: "configured"},
		{name: "extractor missing is not degraded", db: up, redis: up, extractor: down, wantStatus: "ok", wantExtractor: "not_configured"},
		{name: "nil checkers", wantStatus: "degraded", wantExtractor: "not_configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/health", NewHealthController(tt.db, tt.redis, tt.extractor).Check)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", w.Code)
			}
			var resp HealthResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Status != tt.wantStatus {
				t.Errorf("expected status %q, got %q", tt.wantStatus, resp.Status)
			}
			if resp.Extractor != tt.wantExtractor {
				t.Errorf("expected extractor %q, got %q", tt.wantExtractor, resp.Extractor)
			}
		})
	}
}

func newTestReconciliationController(analyze *reconciliation.AnalyzePaymentBatchUseCase) *ReconciliationController {
	return NewReconciliationController(
		reconciliation.NewMatchPaymentsUseCase(matching.NewDefaultEngine()),
		analyze,
		nil,
		nil,
		nil,
		0,
	)
}

func TestReconciliationController_Match(t *testing.T) {
	c := newTestReconciliationController(nil)
	router := gin.New()
	router.POST("/reconciliation/match", c.Match)

	t.Run("matches payments in input order", func(t *testing.T) {
		body := `{
			"payments": [
				{"beneficiary": "DUPONT JEAN", "amount": "140.00", "date": "30/04/2025"},
				{"beneficiary": "Inconnu", "amount": "99.00", "date": "30/04/2025"}
			],
			"expected": [
				{"investor_name": "Jean Dupont", "expected_amount": "140.00"},
				{"investor_name": "ACME SAS", "expected_amount": "200.00"}
			]
		}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/reconciliation/match", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		var resp dto.MatchResponseDTO
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(resp.Results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(resp.Results))
		}

		first := resp.Results[0]
		if first.Index != 0 || first.Status != "correspondance" || first.Confidence != 100 {
			t.Errorf("unexpected first result: %+v", first)
		}
		if first.MatchedExpected == nil || first.MatchedExpected.InvestorName != "Jean Dupont" {
			t.Errorf("expected Jean Dupont as match, got %+v", first.MatchedExpected)
		}
		if first.AmountDeltaAbsolute != "0.00" {
			t.Errorf("expected no delta, got %s", first.AmountDeltaAbsolute)
		}

		if resp.Results[1].Index != 1 {
			t.Errorf("expected second result at index 1, got %d", resp.Results[1].Index)
		}
		if resp.Summary.Total != 2 || resp.Summary.Matched != 1 {
			t.Errorf("unexpected summary: %+v", resp.Summary)
		}
	})

	t.Run("no candidates leaves every payment unmatched", func(t *testing.T) {
		body := `{"payments": [{"beneficiary": "Jean Dupont", "amount": 140}], "expected": []}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/reconciliation/match", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		var resp dto.MatchResponseDTO
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Results[0].Status != "pas-de-correspondance" || resp.Results[0].MatchedExpected != nil {
			t.Errorf("expected unmatched result, got %+v", resp.Results[0])
		}
	})

	t.Run("matched candidate keeps its identifiers", func(t *testing.T) {
		first, second := uuid.New(), uuid.New()
		investor := uuid.New()
		body := `{
			"payments": [{"beneficiary": "Jean Dupont", "amount": "1000.00"}],
			"expected": [
				{"subscription_id": "` + first.String() + `", "investor_id": "` + investor.String() + `", "investor_name": "Jean Dupont", "expected_amount": "900.00"},
				{"subscription_id": "` + second.String() + `", "investor_id": "` + investor.String() + `", "investor_name": "Jean Dupont", "expected_amount": "1000.00"}
			]
		}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/reconciliation/match", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		var resp dto.MatchResponseDTO
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		matched := resp.Results[0].MatchedExpected
		if matched == nil {
			t.Fatal("expected a matched candidate")
		}
		if matched.SubscriptionID != second.String() {
			t.Errorf("expected subscription %s, got %q", second, matched.SubscriptionID)
		}
		if matched.InvestorID != investor.String() {
			t.Errorf("expected investor %s, got %q", investor, matched.InvestorID)
		}
	})

	t.Run("malformed candidate identifier is a bad request", func(t *testing.T) {
		body := `{
			"payments": [{"beneficiary": "Jean Dupont", "amount": "1000.00"}],
			"expected": [
				{"subscription_id": "sub-1", "investor_name": "Jean Dupont", "expected_amount": "1000.00"},
				{"subscription_id": "sub-2", "investor_name": "Jean Dupont", "expected_amount": "1000.00"}
			]
		}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/reconciliation/match", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("empty beneficiary is matched on amount", func(t *testing.T) {
		body := `{
			"payments": [{"beneficiary": "", "amount": "140.00"}],
			"expected": [{"investor_name": "Jean Dupont", "expected_amount": "140.00"}]
		}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/reconciliation/match", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		var resp dto.MatchResponseDTO
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(resp.Results) != 1 {
			t.Fatalf("expected 1 result, got %d", len(resp.Results))
		}
		got := resp.Results[0]
		if got.Status != "partielle" || got.Confidence != 30 || got.NameScore != 0 {
			t.Errorf("expected amount-only partial match, got %+v", got)
		}
	})

	t.Run("missing payments is a bad request", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/reconciliation/match", strings.NewReader(`{"expected": []}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})
}

func multipartProof(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("files[]", "virement.pdf")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write([]byte("%PDF-1.4 fake")); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestReconciliationController_Analyze(t *testing.T) {
	analyze := reconciliation.NewAnalyzePaymentBatchUseCase(nil, nil, nil, nil, matching.NewDefaultEngine(), reconciliation.AnalyzeConfig{})
	c := newTestReconciliationController(analyze)
	userID := uuid.New()

	authenticated := gin.New()
	authenticated.Use(func(ctx *gin.Context) {
		ctx.Set(string(middleware.UserIDKey), userID)
		ctx.Next()
	})
	authenticated.POST("/tranches/:id/payment-batches", c.Analyze)

	anonymous := gin.New()
	anonymous.POST("/tranches/:id/payment-batches", c.Analyze)

	t.Run("requires an authenticated user", func(t *testing.T) {
		body, contentType := multipartProof(t)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/tranches/"+uuid.NewString()+"/payment-batches", body)
		req.Header.Set("Content-Type", contentType)
		anonymous.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})

	t.Run("rejects a malformed tranche id", func(t *testing.T) {
		body, contentType := multipartProof(t)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/tranches/not-a-uuid/payment-batches", body)
		req.Header.Set("Content-Type", contentType)
		authenticated.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})

	t.Run("reports a missing extractor", func(t *testing.T) {
		body, contentType := multipartProof(t)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/tranches/"+uuid.NewString()+"/payment-batches", body)
		req.Header.Set("Content-Type", contentType)
		authenticated.ServeHTTP(w, req)

		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d: %s", w.Code, w.Body.String())
		}
		if resp := decodeError(t, w); resp.Code != string(domainerror.ErrCodeExtractorNotConfigured) {
			t.Errorf("expected code %s, got %s", domainerror.ErrCodeExtractorNotConfigured, resp.Code)
		}
	})

	t.Run("rejects a non multipart body", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/tranches/"+uuid.NewString()+"/payment-batches", strings.NewReader("{}"))
		req.Header.Set("Content-Type", "application/json")
		authenticated.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})
}

func TestParseIDParam(t *testing.T) {
	router := gin.New()
	router.GET("/projects/:id", func(ctx *gin.Context) {
		if _, ok := parseIDParam(ctx, "project"); ok {
			ctx.Status(http.StatusNoContent)
		}
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/projects/"+uuid.NewString(), nil))
	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204 for a valid id, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/projects/42", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a malformed id, got %d", w.Code)
	}
	if resp := decodeError(t, w); resp.Error != "Invalid project ID format" {
		t.Errorf("unexpected error message %q", resp.Error)
	}
}
