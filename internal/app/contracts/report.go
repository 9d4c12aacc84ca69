package contracts

import (
	"context"

	"medreport-service/internal/app/models"
	"medreport-service/internal/pkg/dto/requests"
)

type ReportUsecase interface {
	SubmitReport(ctx context.Context, request *requests.SubmitReport) (*models.PipelineResult, error)
	IngestText(ctx context.Context, request *requests.IngestText) (*models.PipelineResult, error)
	FindReportByID(ctx context.Context, request *requests.FindReportByID) (*models.PipelineResult, error)
}

// ReportRepository persists terminal results. Results are immutable, so the
// repository is insert-only.
type ReportRepository interface {
	InsertResult(ctx context.Context, result *models.PipelineResult) error
	FindByReportID(ctx context.Context, reportID string) (*models.PipelineResult, error)
}
