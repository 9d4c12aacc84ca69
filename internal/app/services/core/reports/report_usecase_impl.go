package reports

import (
	"encoding/base64"
	"sync"
	"time"

	"context"
	"medreport-service/internal/app/config"
	"medreport-service/internal/app/contracts"
	"medreport-service/internal/app/models"
	"medreport-service/internal/app/services/pipeline/orchestrator"
	"medreport-service/internal/pkg/constvars"
	"medreport-service/internal/pkg/dto/requests"
	"medreport-service/internal/pkg/exceptions"
	"medreport-service/internal/pkg/utils"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type reportUsecase struct {
	Orchestrator     *orchestrator.Orchestrator
	ReportRepository contracts.ReportRepository
	RedisRepository  contracts.RedisRepository
	ObjectStorage    contracts.ObjectStorage
	OCRClient        contracts.OCRClient
	EventPublisher   contracts.EventPublisher
	InternalConfig   *config.InternalConfig
	Log              *zap.Logger
}

var (
	reportUsecaseInstance contracts.ReportUsecase
	onceReportUsecase     sync.Once
)

func NewReportUsecase(
	pipelineOrchestrator *orchestrator.Orchestrator,
	reportRepository contracts.ReportRepository,
	redisRepository contracts.RedisRepository,
	objectStorage contracts.ObjectStorage,
	ocrClient contracts.OCRClient,
	eventPublisher contracts.EventPublisher,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.ReportUsecase {
	onceReportUsecase.Do(func() {
		instance := &reportUsecase{
			Orchestrator:     pipelineOrchestrator,
			ReportRepository: reportRepository,
			RedisRepository:  redisRepository,
			ObjectStorage:    objectStorage,
			OCRClient:        ocrClient,
			EventPublisher:   eventPublisher,
			InternalConfig:   internalConfig,
			Log:              logger,
		}
		reportUsecaseInstance = instance
	})
	return reportUsecaseInstance
}

// SubmitReport runs the full ingestion path: raw source to blob storage,
// OCR, then the decision pipeline. Resubmitting the same source for the
// same caller replays the cached terminal result instead of reprocessing.
func (uc *reportUsecase) SubmitReport(ctx context.Context, request *requests.SubmitReport) (*models.PipelineResult, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("reportUsecase.SubmitReport called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	var sourceBytes []byte
	var objectURI string
	if request.SourceData != "" {
		decoded, err := base64.StdEncoding.DecodeString(request.SourceData)
		if err != nil {
			return nil, exceptions.ErrCannotDecodeBase64(err)
		}
		sourceBytes = decoded
	} else {
		sourceBytes = []byte(request.SourceURI)
		objectURI = request.SourceURI
	}

	digest := utils.SubmissionDigest(request.PseudoID, sourceBytes)
	if cached, err := uc.findCachedResult(ctx, digest); err != nil {
		return nil, err
	} else if cached != nil {
		uc.Log.Info("reportUsecase.SubmitReport replaying cached result",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingReportIDKey, cached.ReportID),
		)
		return cached, nil
	}

	sourceFormat := request.SourceFormatHint
	if sourceFormat == "" {
		sourceFormat = constvars.SourceFormatUnknown
	}

	if objectURI == "" {
		objectName := utils.GenerateObjectName(request.PseudoID, extensionFor(sourceFormat))
		uploadedURI, err := uc.ObjectStorage.UploadObject(ctx, objectName, sourceBytes, contentTypeFor(sourceFormat))
		if err != nil {
			return nil, err
		}
		objectURI = uploadedURI
	}

	ocrResult, err := uc.OCRClient.Recognize(ctx, objectURI)
	if err != nil {
		return nil, err
	}

	result, err := uc.Orchestrator.Run(ctx, orchestrator.Submission{
		PseudoID:     request.PseudoID,
		SourceFormat: sourceFormat,
		Report: models.ReportText{
			Text:         ocrResult.Text,
			QualityScore: ocrResult.QualityScore,
		},
	})
	if err != nil {
		return nil, err
	}

	return uc.finishResult(ctx, digest, result)
}

// IngestText enters the pipeline directly with text the caller already
// holds. No blob storage and no OCR call are involved.
func (uc *reportUsecase) IngestText(ctx context.Context, request *requests.IngestText) (*models.PipelineResult, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("reportUsecase.IngestText called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	digest := utils.SubmissionDigest(request.PseudoID, []byte(request.Text))
	if cached, err := uc.findCachedResult(ctx, digest); err != nil {
		return nil, err
	} else if cached != nil {
		return cached, nil
	}

	sourceFormat := request.SourceFormatHint
	if sourceFormat == "" {
		sourceFormat = constvars.SourceFormatText
	}

	result, err := uc.Orchestrator.Run(ctx, orchestrator.Submission{
		PseudoID:     request.PseudoID,
		SourceFormat: sourceFormat,
		Report: models.ReportText{
			Text:         request.Text,
			QualityScore: request.QualityScore,
		},
	})
	if err != nil {
		return nil, err
	}

	return uc.finishResult(ctx, digest, result)
}

func (uc *reportUsecase) FindReportByID(ctx context.Context, request *requests.FindReportByID) (*models.PipelineResult, error) {
	result, err := uc.ReportRepository.FindByReportID(ctx, request.ReportID)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, exceptions.ErrReportNotFound(nil)
	}
	return result, nil
}

// finishResult caches the terminal result and, for accepted ones, persists
// it and announces it downstream. A publish failure does not fail the
// submission; the result is already durable at that point.
func (uc *reportUsecase) finishResult(ctx context.Context, digest string, result *models.PipelineResult) (*models.PipelineResult, error) {
	if result.Status == models.StatusAccepted {
		if err := uc.ReportRepository.InsertResult(ctx, result); err != nil {
			return nil, err
		}
		if err := uc.EventPublisher.PublishAccepted(ctx, result); err != nil {
			uc.Log.Warn("failed to publish accepted report event",
				zap.String(constvars.LoggingReportIDKey, result.ReportID),
				zap.Error(err),
			)
		}
	}

	ttl := time.Duration(uc.InternalConfig.App.ResultCacheTTLInMinutes) * time.Minute
	if err := uc.RedisRepository.Set(ctx, constvars.RedisKeySubmissionPrefix+digest, result, ttl); err != nil {
		uc.Log.Warn("failed to cache terminal result",
			zap.String(constvars.LoggingReportIDKey, result.ReportID),
			zap.Error(err),
		)
	}

	return result, nil
}

func (uc *reportUsecase) findCachedResult(ctx context.Context, digest string) (*models.PipelineResult, error) {
	data, err := uc.RedisRepository.Get(ctx, constvars.RedisKeySubmissionPrefix+digest)
	if err != nil {
		return nil, err
	}
	if data == "" {
		return nil, nil
	}

	var result models.PipelineResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, exceptions.ErrCannotParseJSON(err)
	}
	return &result, nil
}

func extensionFor(sourceFormat string) string {
	switch sourceFormat {
	case constvars.SourceFormatPDF:
		return ".pdf"
	case constvars.SourceFormatImage:
		return ".png"
	case constvars.SourceFormatText:
		return ".txt"
	default:
		return ".bin"
	}
}

func contentTypeFor(sourceFormat string) string {
	switch sourceFormat {
	case constvars.SourceFormatPDF:
		return "application/pdf"
	case constvars.SourceFormatImage:
		return "image/png"
	case constvars.SourceFormatText:
		return constvars.MIMETextPlain
	default:
		return constvars.MIMEOctetStream
	}
}
