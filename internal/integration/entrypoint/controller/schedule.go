package controller

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/coupon-desk/backoffice/internal/application/usecase/schedule"
	"github.com/coupon-desk/backoffice/internal/integration/entrypoint/dto"
)

// ScheduleController handles coupon schedule endpoints.
type ScheduleController struct {
	generateScheduleUseCase     *schedule.GenerateScheduleUseCase
	listScheduleUseCase         *schedule.ListScheduleUseCase
	exportScheduleUseCase       *schedule.ExportScheduleUseCase
	listExpectedPaymentsUseCase *schedule.ListExpectedPaymentsUseCase
}

// NewScheduleController creates a new schedule controller instance.
func NewScheduleController(
	generateScheduleUseCase *schedule.GenerateScheduleUseCase,
	listScheduleUseCase *schedule.ListScheduleUseCase,
	exportScheduleUseCase *schedule.ExportScheduleUseCase,
	listExpectedPaymentsUseCase *schedule.ListExpectedPaymentsUseCase,
) *ScheduleController {
	return &ScheduleController{
		generateScheduleUseCase:     generateScheduleUseCase,
		listScheduleUseCase:         listScheduleUseCase,
		exportScheduleUseCase:       exportScheduleUseCase,
		listExpectedPaymentsUseCase: listExpectedPaymentsUseCase,
	}
}

// Generate handles POST /tranches/:id/schedule requests.
func (c *ScheduleController) Generate(ctx *gin.Context) {
	trancheID, ok := parseIDParam(ctx, "tranche")
	if !ok {
		return
	}

	output, err := c.generateScheduleUseCase.Execute(ctx.Request.Context(), schedule.GenerateScheduleInput{
		TrancheID: trancheID,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.GenerateScheduleResponse{
		Tranche:       dto.ToTrancheResponse(output.Tranche),
		EcheanceCount: len(output.Echeances),
		Totals:        toTotalsResponse(output.Totals),
	})
}

// List handles GET /tranches/:id/schedule requests.
func (c *ScheduleController) List(ctx *gin.Context) {
	trancheID, ok := parseIDParam(ctx, "tranche")
	if !ok {
		return
	}

	output, err := c.listScheduleUseCase.Execute(ctx.Request.Context(), schedule.ListScheduleInput{
		TrancheID: trancheID,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ScheduleResponse{
		Tranche:   dto.ToTrancheResponse(output.Tranche),
		Echeances: dto.ToEcheanceResponses(output.Echeances),
		Totals:    toTotalsResponse(output.Totals),
	})
}

// Export handles GET /tranches/:id/schedule/export requests.
func (c *ScheduleController) Export(ctx *gin.Context) {
	trancheID, ok := parseIDParam(ctx, "tranche")
	if !ok {
		return
	}

	output, err := c.exportScheduleUseCase.Execute(ctx.Request.Context(), schedule.ExportScheduleInput{
		TrancheID: trancheID,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, output.FileName))
	ctx.Data(http.StatusOK, output.ContentType, output.Data)
}

// ExpectedPayments handles GET /tranches/:id/expected-payments requests.
func (c *ScheduleController) ExpectedPayments(ctx *gin.Context) {
	trancheID, ok := parseIDParam(ctx, "tranche")
	if !ok {
		return
	}

	output, err := c.listExpectedPaymentsUseCase.Execute(ctx.Request.Context(), schedule.ListExpectedPaymentsInput{
		TrancheID: trancheID,
		DueDate:   ctx.Query("due_date"),
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	total := decimal.Zero
	for _, e := range output.Expected {
		total = total.Add(e.ExpectedAmount)
	}

	ctx.JSON(http.StatusOK, dto.ExpectedPaymentsResponse{
		DueDate:          dto.FormatDate(output.DueDate),
		ExpectedPayments: dto.ToExpectedPaymentDTOs(output.Expected),
		TotalAmount:      total.StringFixed(2),
	})
}

func toTotalsResponse(t schedule.Totals) dto.ScheduleTotalsResponse {
	return dto.ToScheduleTotalsResponse(t.GrossCoupon, t.Withholding, t.NetCoupon, t.Capital, t.AmountDue)
}
