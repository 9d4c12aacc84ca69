package config

import (
	"medreport-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		MongoDB: MongoDB{
			Port:     utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:     utils.GetEnvString("MONGODB_HOST", "localhost"),
			DbName:   utils.GetEnvString("MONGODB_DB_NAME", "medreport"),
			Username: utils.GetEnvString("MONGODB_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MONGODB_PASSWORD", "defaultPassword"),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "defaultPassword"),
		},
		Minio: Minio{
			Port:     utils.GetEnvString("MINIO_PORT", "9000"),
			Host:     utils.GetEnvString("MINIO_HOST", "localhost"),
			Username: utils.GetEnvString("MINIO_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MINIO_PASSWORD", "defaultPassword"),
			UseSSL:   utils.GetEnvBool("MINIO_USE_SSL", false),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                        utils.GetEnvString("APP_ENV", "development"),
			Port:                       utils.GetEnvString("APP_PORT", ":8080"),
			Version:                    utils.GetEnvString("APP_VERSION", "v1"),
			Timezone:                   utils.GetEnvString("APP_TIMEZONE", "UTC"),
			EndpointPrefix:             utils.GetEnvString("APP_ENDPOINT_PREFIX", "api"),
			MaxRequests:                utils.GetEnvInt("APP_MAX_REQUESTS", 10),
			ShutdownTimeout:            utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT", 10),
			RequestBodyLimitInMegabyte: utils.GetEnvInt("APP_REQUEST_BODY_LIMIT_IN_MEGABYTE", 12),
			APIKeyHash:                 utils.GetEnvString("APP_API_KEY_HASH", ""),
			ResultCacheTTLInMinutes:    utils.GetEnvInt("APP_RESULT_CACHE_TTL_IN_MINUTES", 60),
		},
		Pipeline: Pipeline{
			OCRQualityFloor:  utils.GetEnvFloat("PIPELINE_OCR_QUALITY_FLOOR", 0.15),
			TypeDetectionMin: utils.GetEnvFloat("PIPELINE_TYPE_DETECTION_MIN", 0.5),
			ExtractionMin:    utils.GetEnvFloat("PIPELINE_EXTRACTION_MIN", 0.55),
			NormalizationMin: utils.GetEnvFloat("PIPELINE_NORMALIZATION_MIN", 0.6),
			OverallMin:       utils.GetEnvFloat("PIPELINE_OVERALL_MIN", 0.4),
		},
		OCR: OCR{
			BaseUrl:                 utils.GetEnvString("OCR_BASE_URL", "http://localhost:7001"),
			RequestTimeoutInSeconds: utils.GetEnvInt("OCR_REQUEST_TIMEOUT_IN_SECONDS", 30),
		},
		Extractor: Extractor{
			BaseUrl:                 utils.GetEnvString("EXTRACTOR_BASE_URL", "http://localhost:7002"),
			RequestTimeoutInSeconds: utils.GetEnvInt("EXTRACTOR_REQUEST_TIMEOUT_IN_SECONDS", 45),
			RequestsPerSecond:       utils.GetEnvFloat("EXTRACTOR_REQUESTS_PER_SECOND", 2),
			Burst:                   utils.GetEnvInt("EXTRACTOR_BURST", 4),
		},
		Storage: Storage{
			BucketName: utils.GetEnvString("MINIO_BUCKET_NAME", "report-uploads"),
		},
		Queue: Queue{
			SigningSecret: utils.GetEnvString("QUEUE_SIGNING_SECRET", "anysecret"),
		},
	}
}
