package constvars

// Report type labels produced by the classifier. Only the blood test panel
// is wired to a working extractor; the rest route to an unsupported-type
// discard until their extractors land.
const (
	ReportTypeBloodTest        = "blood_test"
	ReportTypeImagingReport    = "imaging_report"
	ReportTypePrescription     = "prescription"
	ReportTypeDischargeSummary = "discharge_summary"
	ReportTypeOther            = "Other"
)

// Source formats accepted on submission.
const (
	SourceFormatPDF     = "pdf"
	SourceFormatImage   = "image"
	SourceFormatText    = "text"
	SourceFormatUnknown = "unknown"
)

// DiscardReason identifies why a submission terminated as discarded.
type DiscardReason string

const (
	DiscardLowQualityOCR     DiscardReason = "low_quality_ocr"
	DiscardUnrecognizedType  DiscardReason = "unrecognized_type"
	DiscardUnsupportedType   DiscardReason = "unsupported_type"
	DiscardPartialParse      DiscardReason = "partial_parse"
	DiscardUnitMismatch      DiscardReason = "unit_mismatch"
	DiscardImplausibleValues DiscardReason = "implausible_values"
	DiscardLowConfidence     DiscardReason = "low_confidence"
	DiscardSystemError       DiscardReason = "system_error"
)

// DiscardFeedback maps every discard reason to its canned, user-facing
// message. Raw internals never reach the caller.
var DiscardFeedback = map[DiscardReason]string{
	DiscardLowQualityOCR:     "the scan quality is too low to read reliably, please re-scan the document with better lighting",
	DiscardUnrecognizedType:  "we could not recognize what kind of medical report this is",
	DiscardUnsupportedType:   "this kind of report is not supported yet",
	DiscardPartialParse:      "we could not reliably read the measurements in this report",
	DiscardUnitMismatch:      "some measurement units in this report could not be verified",
	DiscardImplausibleValues: "some values in this report look implausible, so we did not process it",
	DiscardLowConfidence:     "we are not confident enough in the reading of this report to process it",
	DiscardSystemError:       "something went wrong on our side while processing this report, please try again",
}
