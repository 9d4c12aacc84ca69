// Package orchestrator sequences the decision pipeline: classification,
// extraction, normalization, validation and interpretation, each behind a
// confidence gate. Every submission ends in exactly one terminal result,
// accepted or discarded, carrying the full audit trail. Run never returns
// a stage failure as an error; the only error it surfaces is context
// cancellation when the caller abandons the submission.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"medreport-service/internal/app/config"
	"medreport-service/internal/app/contracts"
	"medreport-service/internal/app/models"
	"medreport-service/internal/app/services/pipeline/classifier"
	"medreport-service/internal/app/services/pipeline/extraction"
	"medreport-service/internal/app/services/pipeline/interpreter"
	"medreport-service/internal/app/services/pipeline/normalizer"
	"medreport-service/internal/app/services/pipeline/registry"
	"medreport-service/internal/app/services/pipeline/validation"
	"medreport-service/internal/pkg/constvars"
	"medreport-service/internal/pkg/utils"

	"go.uber.org/zap"
)

// Submission is one report entering the pipeline. PseudoID is passed
// through unchanged; the pipeline never resolves identity.
type Submission struct {
	PseudoID     string
	SourceFormat string
	Report       models.ReportText
}

type Orchestrator struct {
	registry         *registry.Registry
	thresholds       config.Pipeline
	extractionClient contracts.ExtractionClient
	log              *zap.Logger
}

func NewOrchestrator(
	reg *registry.Registry,
	thresholds config.Pipeline,
	extractionClient contracts.ExtractionClient,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		registry:         reg,
		thresholds:       thresholds,
		extractionClient: extractionClient,
		log:              logger,
	}
}

// run holds the per-submission state. Each invocation owns its own run, so
// concurrent submissions share nothing.
type run struct {
	submission Submission
	reportID   string
	ingestedAt time.Time
	detection  models.TypeDetection
	audit      models.Audit
}

// Run executes the pipeline for one submission. It never panics: any
// unexpected failure inside a stage becomes a generic system_error discard.
func (o *Orchestrator) Run(ctx context.Context, submission Submission) (result *models.PipelineResult, err error) {
	r := &run{
		submission: submission,
		reportID:   utils.GenerateReportID(),
		ingestedAt: time.Now().UTC(),
	}
	r.audit.RulesTriggered = []string{}
	r.audit.UnitConversions = []models.UnitConversionRecord{}
	r.audit.ValidationFindings = []string{}

	defer func() {
		if recovered := recover(); recovered != nil {
			o.log.Error("pipeline stage panicked",
				zap.String(constvars.LoggingReportIDKey, r.reportID),
				zap.Any("panic", recovered),
			)
			result = o.discard(r, constvars.DiscardSystemError)
			err = nil
		}
	}()

	// Fast path: OCR quality below the floor discards before any stage runs.
	if submission.Report.QualityScore < o.thresholds.OCRQualityFloor {
		return o.discard(r, constvars.DiscardLowQualityOCR), nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Ingested -> Classified
	r.detection = classifier.Classify(submission.Report, o.registry.Heuristics, o.thresholds.TypeDetectionMin)
	r.audit.TypeClassifier = r.detection
	if r.detection.Label == constvars.ReportTypeOther {
		return o.discard(r, constvars.DiscardUnrecognizedType), nil
	}
	schema, supported := extraction.SchemaFor(r.detection.Label)
	if !supported {
		return o.discard(r, constvars.DiscardUnsupportedType), nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Classified -> Extracted. A collaborator failure, timeout included, is
	// an empty set with confidence 0, not a pipeline-level error.
	set := models.ObservationSet{}
	raw, extractErr := o.extractionClient.Extract(ctx, submission.Report.Text, schema)
	if extractErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && ctxErr == context.Canceled {
			return nil, ctxErr
		}
		o.log.Warn("extraction collaborator failed",
			zap.String(constvars.LoggingReportIDKey, r.reportID),
			zap.Error(extractErr),
		)
	} else {
		set = extraction.Parse(raw)
	}
	r.audit.ExtractionConfidence = extraction.Score(set)
	if r.audit.ExtractionConfidence < o.thresholds.ExtractionMin {
		return o.discard(r, constvars.DiscardPartialParse), nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Extracted -> Normalized
	normalized := normalizer.Normalize(set, o.registry.Conversions, o.registry.CanonicalUnits)
	r.audit.NormalizationConfidence = normalized.Confidence
	r.audit.UnitConversions = append(r.audit.UnitConversions, normalized.Records...)
	if normalized.Confidence < o.thresholds.NormalizationMin {
		return o.discard(r, constvars.DiscardUnitMismatch), nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Normalized -> Validated
	findings := validation.Check(normalized.Set, r.ingestedAt, o.registry.NumericUnits)
	for _, finding := range findings {
		r.audit.ValidationFindings = append(r.audit.ValidationFindings,
			fmt.Sprintf("%s: %s (%s)", finding.Outcome, finding.Message, finding.Field))
	}
	if validation.AnyFailure(findings) {
		return o.discard(r, constvars.DiscardImplausibleValues), nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Validated -> Interpreted
	outcome := interpreter.Interpret(normalized.Set, o.registry.AnalyteRules)
	r.audit.RulesTriggered = append(r.audit.RulesTriggered, outcome.RulesTriggered...)

	r.audit.OverallConfidence = minConfidence(
		r.detection.Confidence,
		r.audit.ExtractionConfidence,
		r.audit.NormalizationConfidence,
	)
	if r.audit.OverallConfidence < o.thresholds.OverallMin {
		return o.discard(r, constvars.DiscardLowConfidence), nil
	}

	o.log.Info("report accepted",
		zap.String(constvars.LoggingReportIDKey, r.reportID),
		zap.String("report_type", r.detection.Label),
		zap.Float64("overall_confidence", r.audit.OverallConfidence),
	)

	return &models.PipelineResult{
		ReportID:       r.reportID,
		ReportType:     r.detection.Label,
		SourceFormat:   submission.SourceFormat,
		IngestedAt:     r.ingestedAt,
		Patient:        models.PatientRef{PseudoID: submission.PseudoID},
		Data:           normalized.Set,
		Interpretation: outcome.Interpretation,
		Audit:          r.audit,
		References:     outcome.References,
		Status:         models.StatusAccepted,
	}, nil
}

// discard builds the fully-audited terminal result for a rejected
// submission. The user only ever sees the canned message for the reason.
func (o *Orchestrator) discard(r *run, reason constvars.DiscardReason) *models.PipelineResult {
	feedback, ok := constvars.DiscardFeedback[reason]
	if !ok {
		feedback = constvars.DiscardFeedback[constvars.DiscardSystemError]
	}

	o.log.Info("report discarded",
		zap.String(constvars.LoggingReportIDKey, r.reportID),
		zap.String(constvars.LoggingReasonKey, string(reason)),
	)

	// Overall confidence keeps its min-of-stages meaning even when later
	// stages never ran.
	r.audit.OverallConfidence = minConfidence(
		r.audit.TypeClassifier.Confidence,
		r.audit.ExtractionConfidence,
		r.audit.NormalizationConfidence,
	)

	return &models.PipelineResult{
		ReportID:       r.reportID,
		ReportType:     r.detection.Label,
		SourceFormat:   r.submission.SourceFormat,
		IngestedAt:     r.ingestedAt,
		Patient:        models.PatientRef{PseudoID: r.submission.PseudoID},
		Data:           models.ObservationSet{Observations: []models.Observation{}},
		Interpretation: models.Interpretation{Insights: []string{}, Caveats: []string{}, NextBestActions: []string{}},
		Audit:          r.audit,
		References:     []string{},
		Status:         models.StatusDiscarded,
		UserFeedback:   feedback,
	}
}

func minConfidence(values ...float64) float64 {
	min := 1.0
	for _, value := range values {
		if value < min {
			min = value
		}
	}
	return min
}
