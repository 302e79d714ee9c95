// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/coupon-desk/backoffice/internal/domain/entity"
)

// ScheduleExport contains the data written to a schedule export.
type ScheduleExport struct {
	Project   *entity.Project
	Tranche   *entity.Tranche
	Echeances []*entity.EcheanceWithInvestor
}

// ScheduleExporter renders a coupon schedule as a spreadsheet.
type ScheduleExporter interface {
	// Export returns the encoded workbook.
	Export(ctx context.Context, export ScheduleExport) ([]byte, error)

	// ContentType returns the MIME type of the exported file.
	ContentType() string

	// FileExtension returns the file extension, without the dot.
	FileExtension() string
}
