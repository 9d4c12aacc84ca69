package constvars

// Validation messages mapper
var CustomValidationErrorMessages = map[string]string{
	"required": "is required",
	"min":      "must be at least %s characters long",
	"max":      "maximum at %s characters long",
	"oneof":    "must be one of [%s]",
	"gte":      "must be greater than or equal to %s",
	"lte":      "must be less than or equal to %s",
	"base64":   "must be a valid base64 string",
	"url":      "must be a valid URL",
	"opaque_id": "must be an opaque identifier without whitespace",
}

// Tags that require parameter substitution
var TagsWithParams = map[string]bool{
	"min":   true,
	"max":   true,
	"oneof": true,
	"gte":   true,
	"lte":   true,
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientServerLongRespond             = "the app taking too long to respond"
	ErrClientNotAuthorized                 = "you can't access this feature"
	ErrClientReportNotFound                = "we could not find that report"
)

// Error messages for developers
const (
	ErrDevInvalidInput           = "invalid input"
	ErrDevValidationFailed       = "validation failed"
	ErrDevCannotParseJSON        = "cannot parse JSON into struct or other data types"
	ErrDevCannotMarshalJSON      = "cannot convert struct or other data types to JSON"
	ErrDevCannotDecodeBase64     = "cannot decode base64 source data"
	ErrDevMissingRequestID       = "request ID missing from context"
	ErrDevInvalidAPIKey          = "API key does not match"
	ErrDevServerProcess          = "failed while processing the request"
	ErrDevServerDeadlineExceeded = "deadline exceeded"

	// Collaborator messages
	ErrDevOCRServiceCall        = "failed to call the OCR collaborator"
	ErrDevOCRServiceBadResponse = "OCR collaborator returned an unusable response"

	// Database messages
	ErrDevDBFailedToInsertDocument = "failed to insert document into database"
	ErrDevDBFailedToFindDocument   = "failed when do find document on database"
	ErrDevDBDocumentNotFound       = "document not found"

	// Redis messages
	ErrDevRedisGetData    = "failed to get data from redis"
	ErrDevRedisSetData    = "failed to set data into redis"
	ErrDevRedisDeleteData = "failed to delete data from redis"

	// Minio messages
	ErrDevMinioFailedToCreateObject = "failed to create object inside bucket %s"

	// RabbitMQ messages
	ErrDevRabbitMQPublishMessage = "failed to publish message to queue %s"
)
