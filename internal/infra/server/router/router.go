// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/coupon-desk/backoffice/internal/integration/entrypoint/controller"
	"github.com/coupon-desk/backoffice/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                   *gin.Engine
	healthController         *controller.HealthController
	projectController        *controller.ProjectController
	subscriptionController   *controller.SubscriptionController
	scheduleController       *controller.ScheduleController
	reconciliationController *controller.ReconciliationController
	analysisRateLimiter      *middleware.RateLimiter
	authMiddleware           *middleware.AuthMiddleware
	maxMultipartMemory       int64
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	projectController *controller.ProjectController,
	subscriptionController *controller.SubscriptionController,
	scheduleController *controller.ScheduleController,
	reconciliationController *controller.ReconciliationController,
	analysisRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
	maxMultipartMemory int64,
) *Router {
	return &Router{
		healthController:         healthController,
		projectController:        projectController,
		subscriptionController:   subscriptionController,
		scheduleController:       scheduleController,
		reconciliationController: reconciliationController,
		analysisRateLimiter:      analysisRateLimiter,
		authMiddleware:           authMiddleware,
		maxMultipartMemory:       maxMultipartMemory,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()
	if r.maxMultipartMemory > 0 {
		r.engine.MaxMultipartMemory = r.maxMultipartMemory
	}

	// Setup routes
	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes. Every route requires a bearer token.
func (r *Router) setupAPIRoutes() {
	if r.authMiddleware == nil {
		return
	}

	v1 := r.engine.Group("/api/v1")
	v1.Use(r.authMiddleware.Authenticate())

	if r.projectController != nil {
		projects := v1.Group("/projects")
		{
			projects.POST("", r.projectController.Create)
			projects.GET("", r.projectController.List)
			projects.GET("/:id", r.projectController.Get)
			projects.POST("/:id/tranches", r.projectController.CreateTranche)
			projects.GET("/:id/tranches", r.projectController.ListTranches)
		}
	}

	tranches := v1.Group("/tranches")

	if r.subscriptionController != nil {
		tranches.POST("/:id/subscriptions", r.subscriptionController.Create)
		tranches.GET("/:id/subscriptions", r.subscriptionController.List)
	}

	if r.scheduleController != nil {
		tranches.POST("/:id/schedule", r.scheduleController.Generate)
		tranches.GET("/:id/schedule", r.scheduleController.List)
		tranches.GET("/:id/schedule/export", r.scheduleController.Export)
		tranches.GET("/:id/expected-payments", r.scheduleController.ExpectedPayments)
	}

	if r.reconciliationController != nil {
		analyze := []gin.HandlerFunc{r.reconciliationController.Analyze}
		if r.analysisRateLimiter != nil {
			// vision extraction is billed per call
			analyze = append([]gin.HandlerFunc{r.analysisRateLimiter.Middleware()}, analyze...)
		}
		tranches.POST("/:id/payment-batches", analyze...)
		tranches.GET("/:id/payments", r.reconciliationController.ListPayments)

		batches := v1.Group("/payment-batches")
		{
			batches.GET("/:id", r.reconciliationController.GetBatch)
			batches.POST("/:id/confirm", r.reconciliationController.ConfirmBatch)
		}

		v1.POST("/reconciliation/match", r.reconciliationController.Match)
	}
}
