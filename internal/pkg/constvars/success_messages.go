package constvars

const (
	ResponseUnknown = "unknown"

	SubmitReportSuccessMessage = "report processed successfully"
	IngestTextSuccessMessage   = "report text processed successfully"
	FindReportSuccessMessage   = "get report successfully"
)
