package config

type (
	DriverConfig struct {
		MongoDB  MongoDB
		Redis    Redis
		RabbitMQ RabbitMQ
		Minio    Minio
		Logger   Logger
	}
	MongoDB struct {
		Port     string
		Host     string
		DbName   string
		Username string
		Password string
	}
	Redis struct {
		Host     string
		Port     string
		Password string
	}
	RabbitMQ struct {
		Port     string
		Host     string
		Username string
		Password string
	}
	Minio struct {
		Port     string
		Host     string
		Username string
		Password string
		UseSSL   bool
	}
	Logger struct {
		Level               string
		OutputFileName      string
		OutputErrorFileName string
	}
)

type (
	InternalConfig struct {
		App       App
		Pipeline  Pipeline
		OCR       OCR
		Extractor Extractor
		Storage   Storage
		Queue     Queue
	}

	App struct {
		Env                        string
		Port                       string
		Version                    string
		Timezone                   string
		EndpointPrefix             string
		MaxRequests                int
		ShutdownTimeout            int
		RequestBodyLimitInMegabyte int
		APIKeyHash                 string
		ResultCacheTTLInMinutes    int
	}

	// Pipeline carries every confidence gate of the decision pipeline.
	// Observed threshold values have loosened between deployments, so all
	// of them are externally supplied and none of the defaults is
	// authoritative.
	Pipeline struct {
		OCRQualityFloor  float64
		TypeDetectionMin float64
		ExtractionMin    float64
		NormalizationMin float64
		OverallMin       float64
	}

	OCR struct {
		BaseUrl                 string
		RequestTimeoutInSeconds int
	}

	Extractor struct {
		BaseUrl                 string
		RequestTimeoutInSeconds int
		RequestsPerSecond       float64
		Burst                   int
	}

	Storage struct {
		BucketName string
	}

	Queue struct {
		SigningSecret string
	}
)
