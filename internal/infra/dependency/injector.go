// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/coupon-desk/backoffice/config"
	"github.com/coupon-desk/backoffice/internal/application/adapter"
	"github.com/coupon-desk/backoffice/internal/application/usecase/project"
	"github.com/coupon-desk/backoffice/internal/application/usecase/reconciliation"
	"github.com/coupon-desk/backoffice/internal/application/usecase/schedule"
	"github.com/coupon-desk/backoffice/internal/application/usecase/subscription"
	"github.com/coupon-desk/backoffice/internal/domain/matching"
	"github.com/coupon-desk/backoffice/internal/infra/server/router"
	"github.com/coupon-desk/backoffice/internal/integration/adapters"
	"github.com/coupon-desk/backoffice/internal/integration/cache"
	"github.com/coupon-desk/backoffice/internal/integration/email"
	"github.com/coupon-desk/backoffice/internal/integration/email/templates"
	"github.com/coupon-desk/backoffice/internal/integration/entrypoint/controller"
	"github.com/coupon-desk/backoffice/internal/integration/entrypoint/middleware"
	"github.com/coupon-desk/backoffice/internal/integration/export"
	"github.com/coupon-desk/backoffice/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config      *config.Config
	DB          *gorm.DB
	Redis       redis.UniversalClient
	Router      *router.Router
	EmailWorker *email.Worker
	RateLimiter *middleware.RateLimiter
}

// Option overrides an external service, mostly for tests.
type Option func(*options)

type options struct {
	extractor   adapter.PaymentExtractor
	emailSender adapter.EmailSender
	tokens      adapter.TokenService
}

// WithPaymentExtractor replaces the Gemini extractor.
func WithPaymentExtractor(extractor adapter.PaymentExtractor) Option {
	return func(o *options) { o.extractor = extractor }
}

// WithEmailSender replaces the Resend client.
func WithEmailSender(sender adapter.EmailSender) Option {
	return func(o *options) { o.emailSender = sender }
}

// WithTokenService replaces the JWT token validator.
func WithTokenService(tokens adapter.TokenService) Option {
	return func(o *options) { o.tokens = tokens }
}

// NewInjector creates a new dependency injector with all dependencies wired.
func NewInjector(cfg *config.Config, db *gorm.DB, redisClient redis.UniversalClient, opts ...Option) (*Injector, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	// Create repositories
	projectRepo := persistence.NewProjectRepository(db)
	trancheRepo := persistence.NewTrancheRepository(db)
	investorRepo := persistence.NewInvestorRepository(db)
	subscriptionRepo := persistence.NewSubscriptionRepository(db)
	echeanceRepo := persistence.NewEcheanceRepository(db)
	paymentRepo := persistence.NewPaymentRepository(db)
	noticeRepo := persistence.NewCouponNoticeRepository(db)
	batchStore := cache.NewPaymentBatchStore(redisClient)

	// Create adapters/services
	extractor := o.extractor
	if extractor == nil {
		gemini := adapters.NewGeminiExtractor(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.Timeout)
		if !gemini.IsAvailable() {
			slog.Warn("Gemini API key not set, payment batch analysis is disabled")
		}
		extractor = gemini
	}

	tokenService := o.tokens
	if tokenService == nil {
		tokenService = adapters.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	}

	emailSender := o.emailSender
	if emailSender == nil {
		emailSender = email.NewResendClient(cfg.Email.ResendAPIKey, cfg.Email.FromName, cfg.Email.FromEmail)
	}
	emailService := email.NewService(noticeRepo)

	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, err
	}
	emailWorker := email.NewWorker(noticeRepo, emailSender, renderer, email.WorkerConfig{
		PollInterval: cfg.Email.PollInterval,
		BatchSize:    cfg.Email.BatchSize,
		PortalURL:    cfg.Email.AppBaseURL,
	})

	engine := matching.NewDefaultEngine()

	// Create project use cases
	createProjectUseCase := project.NewCreateProjectUseCase(projectRepo)
	listProjectsUseCase := project.NewListProjectsUseCase(projectRepo)
	getProjectUseCase := project.NewGetProjectUseCase(projectRepo, trancheRepo)
	createTrancheUseCase := project.NewCreateTrancheUseCase(projectRepo, trancheRepo)
	listTranchesUseCase := project.NewListTranchesUseCase(projectRepo, trancheRepo)

	// Create subscription use cases
	createSubscriptionUseCase := subscription.NewCreateSubscriptionUseCase(trancheRepo, investorRepo, subscriptionRepo)
	listSubscriptionsUseCase := subscription.NewListSubscriptionsUseCase(trancheRepo, subscriptionRepo)

	// Create schedule use cases
	generateScheduleUseCase := schedule.NewGenerateScheduleUseCase(
		trancheRepo,
		subscriptionRepo,
		echeanceRepo,
		decimal.NewFromFloat(cfg.Coupon.WithholdingRate),
	)
	listScheduleUseCase := schedule.NewListScheduleUseCase(trancheRepo, echeanceRepo)
	exportScheduleUseCase := schedule.NewExportScheduleUseCase(projectRepo, trancheRepo, echeanceRepo, export.NewXLSXExporter())
	listExpectedPaymentsUseCase := schedule.NewListExpectedPaymentsUseCase(trancheRepo, echeanceRepo)

	// Create reconciliation use cases
	matchPaymentsUseCase := reconciliation.NewMatchPaymentsUseCase(engine)
	analyzePaymentBatchUseCase := reconciliation.NewAnalyzePaymentBatchUseCase(
		trancheRepo,
		echeanceRepo,
		extractor,
		batchStore,
		engine,
		reconciliation.AnalyzeConfig{
			MaxDocuments:     cfg.Reconciliation.MaxDocuments,
			MaxDocumentBytes: cfg.Reconciliation.MaxDocumentBytes,
			Concurrency:      cfg.Reconciliation.ExtractionConcurrency,
			BatchTTL:         cfg.Reconciliation.BatchTTL,
		},
	)
	getPaymentBatchUseCase := reconciliation.NewGetPaymentBatchUseCase(batchStore)
	confirmPaymentBatchUseCase := reconciliation.NewConfirmPaymentBatchUseCase(
		projectRepo,
		trancheRepo,
		echeanceRepo,
		paymentRepo,
		batchStore,
		emailService,
	)
	listPaymentsUseCase := reconciliation.NewListPaymentsUseCase(trancheRepo, paymentRepo)

	// Create controllers
	healthController := controller.NewHealthController(
		func() bool {
			sqlDB, err := db.DB()
			if err != nil {
				return false
			}
			return sqlDB.Ping() == nil
		},
		func() bool {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return redisClient.Ping(ctx).Err() == nil
		},
		extractor.IsAvailable,
	)

	projectController := controller.NewProjectController(
		createProjectUseCase,
		listProjectsUseCase,
		getProjectUseCase,
		createTrancheUseCase,
		listTranchesUseCase,
	)

	subscriptionController := controller.NewSubscriptionController(
		createSubscriptionUseCase,
		listSubscriptionsUseCase,
	)

	scheduleController := controller.NewScheduleController(
		generateScheduleUseCase,
		listScheduleUseCase,
		exportScheduleUseCase,
		listExpectedPaymentsUseCase,
	)

	// The multipart body holds every document plus form overhead.
	maxUploadBytes := int64(cfg.Reconciliation.MaxDocuments)*cfg.Reconciliation.MaxDocumentBytes + 1<<20
	reconciliationController := controller.NewReconciliationController(
		matchPaymentsUseCase,
		analyzePaymentBatchUseCase,
		getPaymentBatchUseCase,
		confirmPaymentBatchUseCase,
		listPaymentsUseCase,
		maxUploadBytes,
	)

	// Create middleware
	// Use higher rate limits for E2E/test environments to prevent flaky tests
	var analysisRateLimiter *middleware.RateLimiter
	if cfg.Server.Environment == "e2e" || cfg.Server.Environment == "test" {
		analysisRateLimiter = middleware.NewRateLimiterWithConfig(1000, 1*time.Minute)
	} else {
		analysisRateLimiter = middleware.NewRateLimiterWithConfig(cfg.Reconciliation.AnalysisPerMinute, 1*time.Minute)
	}
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Create router
	r := router.NewRouter(
		healthController,
		projectController,
		subscriptionController,
		scheduleController,
		reconciliationController,
		analysisRateLimiter,
		authMiddleware,
		cfg.Reconciliation.MaxDocumentBytes,
	)

	return &Injector{
		Config:      cfg,
		DB:          db,
		Redis:       redisClient,
		Router:      r,
		EmailWorker: emailWorker,
		RateLimiter: analysisRateLimiter,
	}, nil
}
