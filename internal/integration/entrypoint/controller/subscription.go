package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coupon-desk/backoffice/internal/application/usecase/subscription"
	"github.com/coupon-desk/backoffice/internal/integration/entrypoint/dto"
)

// SubscriptionController handles subscription endpoints.
type SubscriptionController struct {
	createSubscriptionUseCase *subscription.CreateSubscriptionUseCase
	listSubscriptionsUseCase  *subscription.ListSubscriptionsUseCase
}

// NewSubscriptionController creates a new subscription controller instance.
func NewSubscriptionController(
	createSubscriptionUseCase *subscription.CreateSubscriptionUseCase,
	listSubscriptionsUseCase *subscription.ListSubscriptionsUseCase,
) *SubscriptionController {
	return &SubscriptionController{
		createSubscriptionUseCase: createSubscriptionUseCase,
		listSubscriptionsUseCase:  listSubscriptionsUseCase,
	}
}

// Create handles POST /tranches/:id/subscriptions requests.
func (c *SubscriptionController) Create(ctx *gin.Context) {
	trancheID, ok := parseIDParam(ctx, "tranche")
	if !ok {
		return
	}

	var req dto.CreateSubscriptionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	output, err := c.createSubscriptionUseCase.Execute(ctx.Request.Context(), subscription.CreateSubscriptionInput{
		TrancheID: trancheID,
		Investor: subscription.InvestorInput{
			Type:        req.Investor.Type,
			FirstName:   req.Investor.FirstName,
			LastName:    req.Investor.LastName,
			CompanyName: req.Investor.CompanyName,
			Email:       req.Investor.Email,
		},
		Amount:       req.Amount,
		SubscribedAt: req.SubscribedAt,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToSubscriptionResponse(output.Subscription))
}

// List handles GET /tranches/:id/subscriptions requests.
func (c *SubscriptionController) List(ctx *gin.Context) {
	trancheID, ok := parseIDParam(ctx, "tranche")
	if !ok {
		return
	}

	output, err := c.listSubscriptionsUseCase.Execute(ctx.Request.Context(), subscription.ListSubscriptionsInput{
		TrancheID: trancheID,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSubscriptionListResponse(output.Subscriptions, output.TotalAmount))
}
