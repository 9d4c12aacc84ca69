package models

import "time"

// ReportText is the output of the external OCR collaborator.
type ReportText struct {
	Text         string  `json:"text"`
	QualityScore float64 `json:"quality_score"`
}

// OCRResult is the full OCR collaborator response shape.
type OCRResult struct {
	Text         string  `json:"text"`
	QualityScore float64 `json:"quality_score"`
	Confidence   float64 `json:"confidence"`
}

// TypeDetection is the classifier verdict for a report.
type TypeDetection struct {
	Label      string  `json:"label" bson:"label"`
	Confidence float64 `json:"confidence" bson:"confidence"`
	Rationale  string  `json:"rationale" bson:"rationale"`
}

// UnitConversionRecord documents one applied unit conversion.
type UnitConversionRecord struct {
	Field  string  `json:"field" bson:"field"`
	From   string  `json:"from" bson:"from"`
	To     string  `json:"to" bson:"to"`
	Factor float64 `json:"factor" bson:"factor"`
}

type FindingOutcome string

const (
	FindingPass FindingOutcome = "pass"
	FindingWarn FindingOutcome = "warn"
	FindingFail FindingOutcome = "fail"
)

type ValidationFinding struct {
	Outcome FindingOutcome `json:"outcome" bson:"outcome"`
	Message string         `json:"message" bson:"message"`
	Field   string         `json:"field" bson:"field"`
}

type Category string

const (
	CategoryNormal        Category = "Normal"
	CategoryBorderline    Category = "Borderline"
	CategoryAbnormal      Category = "Abnormal"
	CategoryIndeterminate Category = "Indeterminate"
)

// Severity ranks categories for most-severe-wins escalation.
// Indeterminate never escalates over a concrete category.
func (c Category) Severity() int {
	switch c {
	case CategoryAbnormal:
		return 3
	case CategoryBorderline:
		return 2
	case CategoryNormal:
		return 1
	default:
		return 0
	}
}

type Interpretation struct {
	Category        Category `json:"category,omitempty" bson:"category,omitempty"`
	Insights        []string `json:"insights" bson:"insights"`
	Caveats         []string `json:"caveats" bson:"caveats"`
	NextBestActions []string `json:"nextBestActions" bson:"next_best_actions"`
}

// Audit is the accumulated trail attached to every result, accepted or
// discarded.
type Audit struct {
	TypeClassifier          TypeDetection          `json:"typeClassifier" bson:"type_classifier"`
	ExtractionConfidence    float64                `json:"extractionConfidence" bson:"extraction_confidence"`
	NormalizationConfidence float64                `json:"normalizationConfidence" bson:"normalization_confidence"`
	OverallConfidence       float64                `json:"overallConfidence" bson:"overall_confidence"`
	RulesTriggered          []string               `json:"rulesTriggered" bson:"rules_triggered"`
	UnitConversions         []UnitConversionRecord `json:"unitConversions" bson:"unit_conversions"`
	ValidationFindings      []string               `json:"validationFindings" bson:"validation_findings"`
}

// PatientRef carries only the caller-supplied opaque identifier. Identity
// resolution is out of scope, so dob and sexAtBirth are always null.
type PatientRef struct {
	PseudoID   string  `json:"pseudoId" bson:"pseudo_id"`
	DOB        *string `json:"dob" bson:"dob"`
	SexAtBirth *string `json:"sexAtBirth" bson:"sex_at_birth"`
}

type ReportStatus string

const (
	StatusAccepted  ReportStatus = "accepted"
	StatusDiscarded ReportStatus = "discarded"
)

// PipelineResult is the terminal, immutable outcome of one submission.
// A discarded result carries empty data and a user-facing explanation;
// both outcomes carry the full audit trail.
type PipelineResult struct {
	ReportID       string         `json:"reportId" bson:"report_id"`
	ReportType     string         `json:"reportType" bson:"report_type"`
	SourceFormat   string         `json:"sourceFormat" bson:"source_format"`
	IngestedAt     time.Time      `json:"ingestedAt" bson:"ingested_at"`
	Patient        PatientRef     `json:"patient" bson:"patient"`
	Data           ObservationSet `json:"data" bson:"data"`
	Interpretation Interpretation `json:"interpretation" bson:"interpretation"`
	Audit          Audit          `json:"audit" bson:"audit"`
	References     []string       `json:"references" bson:"references"`
	Status         ReportStatus   `json:"status" bson:"status"`
	UserFeedback   string         `json:"userFeedback,omitempty" bson:"user_feedback,omitempty"`
}
