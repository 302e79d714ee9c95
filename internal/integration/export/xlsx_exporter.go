// Package export renders coupon schedules as spreadsheets.
package export

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/coupon-desk/backoffice/internal/application/adapter"
	"github.com/coupon-desk/backoffice/internal/domain/entity"
)

const (
	// ScheduleSheet is the name of the worksheet holding the schedule.
	ScheduleSheet = "Echeancier"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	dateLayout      = "02/01/2006"

	// built-in number format "#,##0.00"
	amountNumFmt = 4
)

var scheduleHeader = []interface{}{
	"Date d'échéance",
	"Investisseur",
	"Coupon brut",
	"Prélèvement",
	"Coupon net",
	"Capital",
	"Montant dû",
	"Statut",
}

var statusLabels = map[entity.EcheanceStatus]string{
	entity.EcheanceStatusDue:  "À payer",
	entity.EcheanceStatusPaid: "Payé",
}

// XLSXExporter implements adapter.ScheduleExporter with excelize.
type XLSXExporter struct{}

// NewXLSXExporter creates a new XLSX schedule exporter.
func NewXLSXExporter() adapter.ScheduleExporter {
	return &XLSXExporter{}
}

// ContentType returns the MIME type of an XLSX workbook.
func (e *XLSXExporter) ContentType() string {
	return xlsxContentType
}

// FileExtension returns "xlsx".
func (e *XLSXExporter) FileExtension() string {
	return "xlsx"
}

// Export writes the header row, one row per coupon and a totals row.
func (e *XLSXExporter) Export(ctx context.Context, export adapter.ScheduleExport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ScheduleSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(ScheduleSheet, "A1", &scheduleHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	totals := make([]decimal.Decimal, 5)
	row := 2
	for _, item := range export.Echeances {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		echeance := item.Echeance
		amounts := []decimal.Decimal{
			echeance.GrossCoupon,
			echeance.Withholding,
			echeance.NetCoupon,
			echeance.Capital,
			echeance.AmountDue,
		}

		values := []interface{}{echeance.DueDate.Format(dateLayout), item.Investor.DisplayName()}
		for i, amount := range amounts {
			totals[i] = totals[i].Add(amount)
			values = append(values, amount.InexactFloat64())
		}
		values = append(values, statusLabel(echeance.Status))

		if err := f.SetSheetRow(ScheduleSheet, cellName(1, row), &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", row, err)
		}
		row++
	}

	totalRow := []interface{}{"Total", ""}
	for _, total := range totals {
		totalRow = append(totalRow, total.InexactFloat64())
	}
	if err := f.SetSheetRow(ScheduleSheet, cellName(1, row), &totalRow); err != nil {
		return nil, fmt.Errorf("failed to write totals: %w", err)
	}

	if err := applyStyles(f, row); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func applyStyles(f *excelize.File, lastRow int) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	amount, err := f.NewStyle(&excelize.Style{NumFmt: amountNumFmt})
	if err != nil {
		return fmt.Errorf("failed to create amount style: %w", err)
	}
	boldAmount, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, NumFmt: amountNumFmt})
	if err != nil {
		return fmt.Errorf("failed to create totals style: %w", err)
	}

	if err := f.SetCellStyle(ScheduleSheet, "A1", "H1", bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	if lastRow > 2 {
		if err := f.SetCellStyle(ScheduleSheet, "C2", cellName(7, lastRow-1), amount); err != nil {
			return fmt.Errorf("failed to style amounts: %w", err)
		}
	}
	if err := f.SetCellStyle(ScheduleSheet, cellName(1, lastRow), cellName(7, lastRow), boldAmount); err != nil {
		return fmt.Errorf("failed to style totals: %w", err)
	}

	if err := f.SetColWidth(ScheduleSheet, "A", "A", 16); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}
	if err := f.SetColWidth(ScheduleSheet, "B", "B", 32); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}
	if err := f.SetColWidth(ScheduleSheet, "C", "H", 14); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}
	return nil
}

func statusLabel(status entity.EcheanceStatus) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return string(status)
}

func cellName(col, row int) string {
	// col and row are always positive here
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
