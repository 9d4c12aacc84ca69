package routers

import (
	"medreport-service/internal/app/delivery/http/controllers"
	"medreport-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachReportRoutes(router chi.Router, middlewares *middlewares.Middlewares, reportController *controllers.ReportController) {
	router.With(middlewares.APIKeyAuth).Post("/", reportController.SubmitReport)
	router.With(middlewares.APIKeyAuth).Post("/ingest-text", reportController.IngestText)
	router.With(middlewares.APIKeyAuth).Get("/{reportID}", reportController.FindReportByID)
}
