package dto

import (
	"github.com/shopspring/decimal"

	"github.com/coupon-desk/backoffice/internal/domain/entity"
)

// InvestorRequest represents the investor part of a subscription request.
type InvestorRequest struct {
	Type        string `json:"type" binding:"required"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	CompanyName string `json:"company_name"`
	Email       string `json:"email"`
}

// CreateSubscriptionRequest represents the request body for creating a subscription.
type CreateSubscriptionRequest struct {
	Investor     InvestorRequest `json:"investor" binding:"required"`
	Amount       decimal.Decimal `json:"amount"`
	SubscribedAt string          `json:"subscribed_at"`
}

// InvestorResponse represents an investor in API responses.
type InvestorResponse struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email,omitempty"`
}

// SubscriptionResponse represents a subscription in API responses.
type SubscriptionResponse struct {
	ID           string           `json:"id"`
	TrancheID    string           `json:"tranche_id"`
	Investor     InvestorResponse `json:"investor"`
	Amount       string           `json:"amount"`
	SubscribedAt string           `json:"subscribed_at"`
	Status       string           `json:"status"`
}

// SubscriptionListResponse represents the response for listing subscriptions.
type SubscriptionListResponse struct {
	Subscriptions []SubscriptionResponse `json:"subscriptions"`
	TotalAmount   string                 `json:"total_amount"`
}

// ToInvestorResponse converts a domain Investor entity to an InvestorResponse DTO.
func ToInvestorResponse(investor *entity.Investor) InvestorResponse {
	if investor == nil {
		return InvestorResponse{}
	}
	return InvestorResponse{
		ID:          investor.ID.String(),
		Type:        string(investor.Type),
		DisplayName: investor.DisplayName(),
		Email:       investor.Email,
	}
}

// ToSubscriptionResponse converts a subscription with its investor.
func ToSubscriptionResponse(s *entity.SubscriptionWithInvestor) SubscriptionResponse {
	return SubscriptionResponse{
		ID:           s.Subscription.ID.String(),
		TrancheID:    s.Subscription.TrancheID.String(),
		Investor:     ToInvestorResponse(s.Investor),
		Amount:       s.Subscription.Amount.StringFixed(2),
		SubscribedAt: s.Subscription.SubscribedAt.Format(dateLayout),
		Status:       string(s.Subscription.Status),
	}
}

// ToSubscriptionListResponse converts a slice of subscriptions and their total.
func ToSubscriptionListResponse(subscriptions []*entity.SubscriptionWithInvestor, total decimal.Decimal) SubscriptionListResponse {
	responses := make([]SubscriptionResponse, len(subscriptions))
	for i, s := range subscriptions {
		responses[i] = ToSubscriptionResponse(s)
	}
	return SubscriptionListResponse{
		Subscriptions: responses,
		TotalAmount:   total.StringFixed(2),
	}
}
