package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coupon-desk/backoffice/internal/application/usecase/project"
	"github.com/coupon-desk/backoffice/internal/integration/entrypoint/dto"
)

// ProjectController handles project and tranche endpoints.
type ProjectController struct {
	createProjectUseCase *project.CreateProjectUseCase
	listProjectsUseCase  *project.ListProjectsUseCase
	getProjectUseCase    *project.GetProjectUseCase
	createTrancheUseCase *project.CreateTrancheUseCase
	listTranchesUseCase  *project.ListTranchesUseCase
}

// NewProjectController creates a new project controller instance.
func NewProjectController(
	createProjectUseCase *project.CreateProjectUseCase,
	listProjectsUseCase *project.ListProjectsUseCase,
	getProjectUseCase *project.GetProjectUseCase,
	createTrancheUseCase *project.CreateTrancheUseCase,
	listTranchesUseCase *project.ListTranchesUseCase,
) *ProjectController {
	return &ProjectController{
		createProjectUseCase: createProjectUseCase,
		listProjectsUseCase:  listProjectsUseCase,
		getProjectUseCase:    getProjectUseCase,
		createTrancheUseCase: createTrancheUseCase,
		listTranchesUseCase:  listTranchesUseCase,
	}
}

// Create handles POST /projects requests.
func (c *ProjectController) Create(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateProjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	output, err := c.createProjectUseCase.Execute(ctx.Request.Context(), project.CreateProjectInput{
		Name:        req.Name,
		Issuer:      req.Issuer,
		Description: req.Description,
		CreatedBy:   userID,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToProjectResponse(output.Project))
}

// List handles GET /projects requests.
func (c *ProjectController) List(ctx *gin.Context) {
	output, err := c.listProjectsUseCase.Execute(ctx.Request.Context())
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToProjectListResponse(output.Projects))
}

// Get handles GET /projects/:id requests.
func (c *ProjectController) Get(ctx *gin.Context) {
	projectID, ok := parseIDParam(ctx, "project")
	if !ok {
		return
	}

	output, err := c.getProjectUseCase.Execute(ctx.Request.Context(), project.GetProjectInput{
		ProjectID: projectID,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToProjectDetailResponse(output.Project))
}

// CreateTranche handles POST /projects/:id/tranches requests.
func (c *ProjectController) CreateTranche(ctx *gin.Context) {
	projectID, ok := parseIDParam(ctx, "project")
	if !ok {
		return
	}

	var req dto.CreateTrancheRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	output, err := c.createTrancheUseCase.Execute(ctx.Request.Context(), project.CreateTrancheInput{
		ProjectID:      projectID,
		Name:           req.Name,
		AnnualRate:     req.AnnualRate,
		Periodicity:    req.Periodicity,
		DurationMonths: req.DurationMonths,
		IssueDate:      req.IssueDate,
		TargetAmount:   req.TargetAmount,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToTrancheResponse(output.Tranche))
}

// ListTranches handles GET /projects/:id/tranches requests.
func (c *ProjectController) ListTranches(ctx *gin.Context) {
	projectID, ok := parseIDParam(ctx, "project")
	if !ok {
		return
	}

	output, err := c.listTranchesUseCase.Execute(ctx.Request.Context(), project.ListTranchesInput{
		ProjectID: projectID,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.TrancheListResponse{
		Tranches: dto.ToTrancheResponses(output.Tranches),
	})
}
