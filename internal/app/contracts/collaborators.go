package contracts

import (
	"context"

	"medreport-service/internal/app/models"
)

// OCRClient is the external OCR collaborator boundary.
type OCRClient interface {
	Recognize(ctx context.Context, objectURI string) (*models.OCRResult, error)
}

// ExtractionClient is the external structured-extractor boundary. It
// returns the raw response payload; the pipeline core owns parsing and
// scoring. Implementations apply the bounded wait.
type ExtractionClient interface {
	Extract(ctx context.Context, text, schema string) ([]byte, error)
}

// ObjectStorage stores raw uploaded report sources.
type ObjectStorage interface {
	UploadObject(ctx context.Context, objectName string, data []byte, contentType string) (string, error)
}

// EventPublisher announces accepted results to downstream consumers.
type EventPublisher interface {
	PublishAccepted(ctx context.Context, result *models.PipelineResult) error
}
