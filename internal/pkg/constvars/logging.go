package constvars

const (
	LoggingRequestIDKey  = "request_id"
	LoggingReportIDKey   = "report_id"
	LoggingPseudoIDKey   = "pseudo_id"
	LoggingStageKey      = "stage"
	LoggingReasonKey     = "reason"
	LoggingMethodKey     = "method"
	LoggingEndpointKey   = "endpoint"
	LoggingRemoteAddrKey = "remote_addr"
	LoggingUserAgentKey  = "user_agent"
	LoggingQueryKey      = "query"
	LoggingStatusCodeKey = "status_code"
	LoggingDurationKey   = "duration"
	LoggingSuccessKey    = "success"
	LoggingOperationKey  = "operation"
)
