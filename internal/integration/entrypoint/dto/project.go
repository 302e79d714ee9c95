package dto

import (
	"github.com/shopspring/decimal"

	"github.com/coupon-desk/backoffice/internal/domain/entity"
)

// CreateProjectRequest represents the request body for creating a project.
type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Issuer      string `json:"issuer"`
	Description string `json:"description"`
}

// ProjectResponse represents a project in API responses.
type ProjectResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Issuer      string `json:"issuer"`
	Description string `json:"description"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// ProjectDetailResponse represents a project with its tranches.
type ProjectDetailResponse struct {
	ProjectResponse
	Tranches []TrancheResponse `json:"tranches"`
}

// ProjectListResponse represents the response for listing projects.
type ProjectListResponse struct {
	Projects []ProjectResponse `json:"projects"`
}

// CreateTrancheRequest represents the request body for creating a tranche.
type CreateTrancheRequest struct {
	Name           string          `json:"name" binding:"required"`
	AnnualRate     decimal.Decimal `json:"annual_rate"`
	Periodicity    string          `json:"periodicity" binding:"required"`
	DurationMonths int             `json:"duration_months"`
	IssueDate      string          `json:"issue_date" binding:"required"`
	TargetAmount   decimal.Decimal `json:"target_amount"`
}

// TrancheResponse represents a tranche in API responses.
type TrancheResponse struct {
	ID             string `json:"id"`
	ProjectID      string `json:"project_id"`
	Name           string `json:"name"`
	AnnualRate     string `json:"annual_rate"`
	Periodicity    string `json:"periodicity"`
	DurationMonths int    `json:"duration_months"`
	PeriodCount    int    `json:"period_count"`
	IssueDate      string `json:"issue_date"`
	TargetAmount   string `json:"target_amount"`
	Status         string `json:"status"`
	CreatedAt      string `json:"created_at"`
}

// TrancheListResponse represents the response for listing tranches.
type TrancheListResponse struct {
	Tranches []TrancheResponse `json:"tranches"`
}

// ToProjectResponse converts a domain Project entity to a ProjectResponse DTO.
func ToProjectResponse(project *entity.Project) ProjectResponse {
	return ProjectResponse{
		ID:          project.ID.String(),
		Name:        project.Name,
		Issuer:      project.Issuer,
		Description: project.Description,
		Status:      string(project.Status),
		CreatedAt:   project.CreatedAt.Format(timeLayout),
		UpdatedAt:   project.UpdatedAt.Format(timeLayout),
	}
}

// ToProjectDetailResponse converts a project and its tranches.
func ToProjectDetailResponse(project *entity.ProjectWithTranches) ProjectDetailResponse {
	return ProjectDetailResponse{
		ProjectResponse: ToProjectResponse(project.Project),
		Tranches:        ToTrancheResponses(project.Tranches),
	}
}

// ToProjectListResponse converts a slice of projects.
func ToProjectListResponse(projects []*entity.Project) ProjectListResponse {
	responses := make([]ProjectResponse, len(projects))
	for i, p := range projects {
		responses[i] = ToProjectResponse(p)
	}
	return ProjectListResponse{Projects: responses}
}

// ToTrancheResponse converts a domain Tranche entity to a TrancheResponse DTO.
func ToTrancheResponse(tranche *entity.Tranche) TrancheResponse {
	return TrancheResponse{
		ID:             tranche.ID.String(),
		ProjectID:      tranche.ProjectID.String(),
		Name:           tranche.Name,
		AnnualRate:     tranche.AnnualRate.String(),
		Periodicity:    string(tranche.Periodicity),
		DurationMonths: tranche.DurationMonths,
		PeriodCount:    tranche.PeriodCount(),
		IssueDate:      tranche.IssueDate.Format(dateLayout),
		TargetAmount:   tranche.TargetAmount.StringFixed(2),
		Status:         string(tranche.Status),
		CreatedAt:      tranche.CreatedAt.Format(timeLayout),
	}
}

// ToTrancheResponses converts a slice of tranches.
func ToTrancheResponses(tranches []*entity.Tranche) []TrancheResponse {
	responses := make([]TrancheResponse, len(tranches))
	for i, t := range tranches {
		responses[i] = ToTrancheResponse(t)
	}
	return responses
}
