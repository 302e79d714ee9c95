package schedule

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/coupon-desk/backoffice/internal/application/adapter"
	domainerror "github.com/coupon-desk/backoffice/internal/domain/error"
	"github.com/coupon-desk/backoffice/internal/domain/matching"
)

// ExportScheduleInput represents the input for exporting a schedule.
type ExportScheduleInput struct {
	TrancheID uuid.UUID
}

// ExportScheduleOutput represents the exported file.
type ExportScheduleOutput struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ExportScheduleUseCase renders the coupons of a tranche as a spreadsheet.
type ExportScheduleUseCase struct {
	projectRepo  adapter.ProjectRepository
	trancheRepo  adapter.TrancheRepository
	echeanceRepo adapter.EcheanceRepository
	exporter     adapter.ScheduleExporter
}

// NewExportScheduleUseCase creates a new ExportScheduleUseCase instance.
func NewExportScheduleUseCase(
	projectRepo adapter.ProjectRepository,
	trancheRepo adapter.TrancheRepository,
	echeanceRepo adapter.EcheanceRepository,
	exporter adapter.ScheduleExporter,
) *ExportScheduleUseCase {
	return &ExportScheduleUseCase{
		projectRepo:  projectRepo,
		trancheRepo:  trancheRepo,
		echeanceRepo: echeanceRepo,
		exporter:     exporter,
	}
}

// Execute performs the export.
func (uc *ExportScheduleUseCase) Execute(ctx context.Context, input ExportScheduleInput) (*ExportScheduleOutput, error) {
	tranche, err := findTranche(ctx, uc.trancheRepo, input.TrancheID)
	if err != nil {
		return nil, err
	}

	project, err := uc.projectRepo.FindByID(ctx, tranche.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	echeances, err := uc.echeanceRepo.FindByTrancheID(ctx, tranche.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedule: %w", err)
	}
	if len(echeances) == 0 {
		return nil, domainerror.NewProjectError(
			domainerror.ErrCodeScheduleNotGenerated,
			"no schedule was generated for this tranche",
			domainerror.ErrScheduleNotGenerated,
		)
	}

	data, err := uc.exporter.Export(ctx, adapter.ScheduleExport{
		Project:   project,
		Tranche:   tranche,
		Echeances: echeances,
	})
	if err != nil {
		return nil, domainerror.NewProjectError(
			domainerror.ErrCodeScheduleExportFailed,
			"failed to export schedule",
			fmt.Errorf("%w: %w", domainerror.ErrScheduleExportFailed, err),
		)
	}

	return &ExportScheduleOutput{
		FileName:    fmt.Sprintf("echeancier-%s-%s.%s", slug(project.Name), slug(tranche.Name), uc.exporter.FileExtension()),
		ContentType: uc.exporter.ContentType(),
		Data:        data,
	}, nil
}

// slug turns a name into a file-name-safe token ("Parc Solaire" -> "parc-solaire").
func slug(name string) string {
	words := strings.FieldsFunc(matching.NormalizeName(name), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return "sans-nom"
	}
	return strings.Join(words, "-")
}
