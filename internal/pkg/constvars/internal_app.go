package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
	CONTEXT_API_KEY_AUTH_KEY         ContextKey = "api_key_auth"
)

const (
	REQUEST_ID_PREFIX = "MDRPT_SVC_"
	REPORT_ID_PREFIX  = "RPT_"
)

const (
	MongoCollectionResults = "pipeline_results"
)

const (
	RedisKeySubmissionPrefix = "submission:"
)
