package requests

// SubmitReport uploads a scanned report for the full ingestion path:
// blob storage, OCR and the decision pipeline. Exactly one of SourceData
// (base64) and SourceURI must be set.
type SubmitReport struct {
	SourceData       string `json:"source_data,omitempty" validate:"required_without=SourceURI,omitempty,base64"`
	SourceURI        string `json:"source_uri,omitempty" validate:"required_without=SourceData,omitempty,url"`
	SourceFormatHint string `json:"source_format_hint,omitempty" validate:"omitempty,oneof=pdf image text"`
	UserRegion       string `json:"user_region,omitempty"`
	PreserveHighRes  bool   `json:"preserve_high_res,omitempty"`
	PseudoID         string `json:"pseudo_id" validate:"required,opaque_id"`
}

// IngestText submits text already extracted by the OCR collaborator,
// entering the pipeline directly.
type IngestText struct {
	Text             string  `json:"text" validate:"required"`
	QualityScore     float64 `json:"quality_score" validate:"gte=0,lte=1"`
	SourceFormatHint string  `json:"source_format_hint,omitempty" validate:"omitempty,oneof=pdf image text"`
	PseudoID         string  `json:"pseudo_id" validate:"required,opaque_id"`
}

type FindReportByID struct {
	ReportID string
}
