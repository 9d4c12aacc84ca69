package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"context"
	"medreport-service/internal/app/config"
	"medreport-service/internal/app/delivery/http/controllers"
	"medreport-service/internal/app/delivery/http/middlewares"
	"medreport-service/internal/app/delivery/http/routers"
	"medreport-service/internal/app/drivers/database"
	"medreport-service/internal/app/drivers/logger"
	"medreport-service/internal/app/drivers/messaging"
	"medreport-service/internal/app/drivers/storage"
	"medreport-service/internal/app/services/core/reports"
	"medreport-service/internal/app/services/pipeline/orchestrator"
	"medreport-service/internal/app/services/pipeline/registry"
	"medreport-service/internal/app/services/shared/extractor"
	"medreport-service/internal/app/services/shared/ocr"
	"medreport-service/internal/app/services/shared/redis"
	"medreport-service/internal/app/services/shared/reportqueue"
	sharedstorage "medreport-service/internal/app/services/shared/storage"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	log := logger.NewLogrusLogger(internalConfig)

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		log.Fatalf("Error loading location: %v", err)
	}
	time.Local = location

	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)
	mongoDB := database.NewMongoDB(driverConfig)
	redisClient := database.NewRedisClient(driverConfig)
	minioClient := storage.NewMinio(driverConfig)
	rabbitMQ := messaging.NewRabbitMQ(driverConfig)
	chiRouter := chi.NewRouter()

	bootstrap := config.Bootstrap{
		Router:         chiRouter,
		MongoDB:        mongoDB,
		Redis:          redisClient,
		Minio:          minioClient,
		RabbitMQ:       rabbitMQ,
		Logger:         zapLogger,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}

	bootstrapingTheApp(bootstrap)

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: chiRouter,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	logrus.Println("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeout),
	)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Failed to close drivers cleanly: %v", err)
	}

	log.Println("Server exiting")
}

func bootstrapingTheApp(bootstrap config.Bootstrap) {
	// Redis
	redisRepository := redis.NewRedisRepository(bootstrap.Redis)

	// Middlewares
	appMiddlewares := &middlewares.Middlewares{
		Log:            bootstrap.Logger,
		InternalConfig: bootstrap.InternalConfig,
	}

	// Collaborators
	ocrClient := ocr.NewOCRClient(bootstrap.InternalConfig, bootstrap.Logger)
	extractorClient := extractor.NewExtractorClient(bootstrap.InternalConfig, bootstrap.Logger)
	objectStorage := sharedstorage.NewMinioStorage(bootstrap.Minio, bootstrap.InternalConfig.Storage.BucketName)
	eventPublisher, err := reportqueue.NewReportQueueService(bootstrap.RabbitMQ, bootstrap.Logger, bootstrap.InternalConfig.Queue.SigningSecret)
	if err != nil {
		logrus.Fatalf("Failed to initialize report queue: %v", err)
	}

	// Pipeline
	pipelineRegistry := registry.NewDefault()
	pipelineOrchestrator := orchestrator.NewOrchestrator(
		pipelineRegistry,
		bootstrap.InternalConfig.Pipeline,
		extractorClient,
		bootstrap.Logger,
	)

	// Reports
	reportMongoRepository := reports.NewReportMongoRepository(
		bootstrap.MongoDB,
		bootstrap.DriverConfig.MongoDB.DbName,
	)
	reportUsecase := reports.NewReportUsecase(
		pipelineOrchestrator,
		reportMongoRepository,
		redisRepository,
		objectStorage,
		ocrClient,
		eventPublisher,
		bootstrap.InternalConfig,
		bootstrap.Logger,
	)
	reportController := controllers.NewReportController(bootstrap.Logger, reportUsecase)

	routers.SetupRoutes(bootstrap.Router, bootstrap.InternalConfig, appMiddlewares, reportController)
}
