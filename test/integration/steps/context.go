// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/coupon-desk/backoffice/config"
	"github.com/coupon-desk/backoffice/internal/infra/db"
	"github.com/coupon-desk/backoffice/internal/infra/dependency"
	"github.com/coupon-desk/backoffice/internal/integration/email"
	"github.com/coupon-desk/backoffice/test/integration/mock"
)

// TestContext holds the test state for each scenario.
type TestContext struct {
	// HTTP
	server       *httptest.Server
	engine       *gin.Engine
	response     *http.Response
	responseBody []byte

	// Request building
	requestHeaders map[string]string

	// Auth
	accessToken string
	userID      uuid.UUID

	// Values captured from responses, substituted as {name}
	stored map[string]string

	// Dependencies
	cfg         *config.Config
	injector    *dependency.Injector
	database    *mock.Db
	redis       *mock.Redis
	extractor   *mock.Extractor
	emailSender *email.RecordingSender
}

// contextKey is used to store TestContext in context.Context.
type contextKey struct{}

// GetTestContext retrieves the TestContext from context.
func GetTestContext(ctx context.Context) *TestContext {
	if tc, ok := ctx.Value(contextKey{}).(*TestContext); ok {
		return tc
	}
	return nil
}

// SetTestContext stores the TestContext in context.
func SetTestContext(ctx context.Context, tc *TestContext) context.Context {
	return context.WithValue(ctx, contextKey{}, tc)
}

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)
		mock.NewDb(db.Models())
		mock.NewRedis()
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc, err := newTestContext()
		if err != nil {
			return ctx, err
		}
		return SetTestContext(ctx, tc), nil
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		tc := GetTestContext(ctx)
		if tc != nil && tc.server != nil {
			tc.server.Close()
		}
		return ctx, nil
	})

	registerAPISteps(ctx)
	registerResponseSteps(ctx)
	registerSeedSteps(ctx)
	registerReconciliationSteps(ctx)
}

func newTestContext() (*TestContext, error) {
	cfg := config.Load()
	cfg.Server.Environment = "test"
	cfg.Auth.JWTSecret = "integration-secret"
	cfg.Auth.Issuer = ""
	cfg.Reconciliation.BatchTTL = time.Hour

	database := mock.NewDb(db.Models())
	if err := database.ClearDB(); err != nil {
		return nil, fmt.Errorf("failed to clear database: %w", err)
	}
	redisMock := mock.NewRedis()
	if err := redisMock.ClearRedis(); err != nil {
		return nil, fmt.Errorf("failed to clear redis: %w", err)
	}

	extractor := mock.NewExtractor()
	emailSender := email.NewRecordingSender()

	injector, err := dependency.NewInjector(cfg, database.DbConn, redisMock.Client,
		dependency.WithPaymentExtractor(extractor),
		dependency.WithEmailSender(emailSender),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build dependencies: %w", err)
	}

	tc := &TestContext{
		requestHeaders: make(map[string]string),
		stored:         make(map[string]string),
		cfg:            cfg,
		injector:       injector,
		database:       database,
		redis:          redisMock,
		extractor:      extractor,
		emailSender:    emailSender,
	}
	tc.engine = injector.Router.Setup(cfg.Server.Environment)
	tc.server = httptest.NewServer(tc.engine)
	return tc, nil
}

// signToken issues an access token the way the hosted auth provider does.
func (tc *TestContext) signToken(userID uuid.UUID, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID.String(),
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(tc.cfg.Auth.JWTSecret))
}
