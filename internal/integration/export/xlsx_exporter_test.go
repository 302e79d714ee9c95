package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/coupon-desk/backoffice/internal/application/adapter"
	"github.com/coupon-desk/backoffice/internal/domain/entity"
)

func scheduleFixture() adapter.ScheduleExport {
	due := time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)
	paidAt := due

	acme := entity.NewInvestor(entity.InvestorTypeCompany, "", "", "ACME SAS", "")
	marie := entity.NewInvestor(entity.InvestorTypeIndividual, "Marie", "Curie", "", "marie@example.com")

	return adapter.ScheduleExport{
		Project: &entity.Project{ID: uuid.New(), Name: "Parc Solaire"},
		Tranche: &entity.Tranche{ID: uuid.New(), Name: "A"},
		Echeances: []*entity.EcheanceWithInvestor{
			{
				Investor: acme,
				Echeance: &entity.Echeance{
					DueDate:     due,
					GrossCoupon: decimal.NewFromInt(40),
					Withholding: decimal.Zero,
					NetCoupon:   decimal.NewFromInt(40),
					Capital:     decimal.Zero,
					AmountDue:   decimal.NewFromInt(40),
					Status:      entity.EcheanceStatusPaid,
					PaidAt:      &paidAt,
				},
			},
			{
				Investor: marie,
				Echeance: &entity.Echeance{
					DueDate:     due,
					GrossCoupon: decimal.NewFromInt(20),
					Withholding: decimal.NewFromInt(6),
					NetCoupon:   decimal.NewFromInt(14),
					Capital:     decimal.NewFromInt(1000),
					AmountDue:   decimal.NewFromInt(1014),
					Status:      entity.EcheanceStatusDue,
				},
			},
		},
	}
}

func TestXLSXExporter_Export(t *testing.T) {
	exporter := NewXLSXExporter()

	data, err := exporter.Export(context.Background(), scheduleFixture())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(ScheduleSheet, excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("failed to read rows: %v", err)
	}

	if len(rows) != 4 {
		t.Fatalf("expected header, 2 rows and totals, got %d rows", len(rows))
	}

	if rows[0][0] != "Date d'échéance" || rows[0][7] != "Statut" {
		t.Errorf("unexpected header: %v", rows[0])
	}

	want := [][]string{
		{"15/04/2025", "ACME SAS", "40", "0", "40", "0", "40", "Payé"},
		{"15/04/2025", "Marie Curie", "20", "6", "14", "1000", "1014", "À payer"},
	}
	for i, expected := range want {
		got := rows[i+1]
		for col, value := range expected {
			if got[col] != value {
				t.Errorf("row %d col %d: got %q, want %q", i+2, col+1, got[col], value)
			}
		}
	}

	totals := rows[3]
	if totals[0] != "Total" || totals[2] != "60" || totals[3] != "6" || totals[6] != "1054" {
		t.Errorf("unexpected totals row: %v", totals)
	}
}

func TestXLSXExporter_EmptySchedule(t *testing.T) {
	exporter := NewXLSXExporter()

	data, err := exporter.Export(context.Background(), adapter.ScheduleExport{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(ScheduleSheet, excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("failed to read rows: %v", err)
	}
	if len(rows) != 2 || rows[1][0] != "Total" {
		t.Errorf("expected header and totals only, got %v", rows)
	}
}

func TestXLSXExporter_Metadata(t *testing.T) {
	exporter := NewXLSXExporter()

	if exporter.FileExtension() != "xlsx" {
		t.Errorf("unexpected extension %q", exporter.FileExtension())
	}
	if exporter.ContentType() != xlsxContentType {
		t.Errorf("unexpected content type %q", exporter.ContentType())
	}
}

func TestXLSXExporter_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewXLSXExporter().Export(ctx, scheduleFixture()); err == nil {
		t.Error("expected error for canceled context")
	}
}
