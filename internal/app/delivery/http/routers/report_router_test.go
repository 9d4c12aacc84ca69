package routers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"context"
	"medreport-service/internal/app/config"
	"medreport-service/internal/app/delivery/http/controllers"
	"medreport-service/internal/app/delivery/http/middlewares"
	"medreport-service/internal/app/models"
	"medreport-service/internal/pkg/constvars"
	"medreport-service/internal/pkg/dto/requests"
	"medreport-service/internal/pkg/dto/responses"
	"medreport-service/internal/pkg/exceptions"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type mockReportUsecase struct {
	mock.Mock
}

func (m *mockReportUsecase) SubmitReport(ctx context.Context, request *requests.SubmitReport) (*models.PipelineResult, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PipelineResult), args.Error(1)
}

func (m *mockReportUsecase) IngestText(ctx context.Context, request *requests.IngestText) (*models.PipelineResult, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PipelineResult), args.Error(1)
}

func (m *mockReportUsecase) FindReportByID(ctx context.Context, request *requests.FindReportByID) (*models.PipelineResult, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PipelineResult), args.Error(1)
}

const testAPIKey = "router-test-api-key"

func newTestRouter(t *testing.T, usecase *mockReportUsecase) *chi.Mux {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testAPIKey), bcrypt.MinCost)
	assert.NoError(t, err)

	internalConfig := &config.InternalConfig{
		App: config.App{
			EndpointPrefix: "api",
			Version:        "v1",
			MaxRequests:    100,
			APIKeyHash:     string(hash),
		},
	}

	logger := zap.NewNop()
	appMiddlewares := &middlewares.Middlewares{Log: logger, InternalConfig: internalConfig}
	// built directly so each subtest gets its own usecase
	reportController := &controllers.ReportController{Log: logger, ReportUsecase: usecase}

	router := chi.NewRouter()
	SetupRoutes(router, internalConfig, appMiddlewares, reportController)
	return router
}

func acceptedResult() *models.PipelineResult {
	return &models.PipelineResult{
		ReportID:   "RPT_test",
		ReportType: constvars.ReportTypeBloodTest,
		Status:     models.StatusAccepted,
		Patient:    models.PatientRef{PseudoID: "user-7f3a"},
	}
}

func TestReportRoutes(t *testing.T) {
	t.Run("ingest text succeeds with the response envelope", func(t *testing.T) {
		usecase := new(mockReportUsecase)
		usecase.On("IngestText", mock.Anything, mock.Anything).Return(acceptedResult(), nil)

		body, _ := json.Marshal(requests.IngestText{
			Text:         "glucose 98 mg/dL",
			QualityScore: 0.9,
			PseudoID:     "user-7f3a",
		})
		req := httptest.NewRequest("POST", "/api/v1/reports/ingest-text", bytes.NewReader(body))
		req.Header.Set(constvars.HeaderAPIKey, testAPIKey)
		rr := httptest.NewRecorder()

		newTestRouter(t, usecase).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var envelope responses.ResponseDTO
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
		assert.True(t, envelope.Success)
		assert.Equal(t, constvars.IngestTextSuccessMessage, envelope.Message)
		assert.NotEmpty(t, rr.Header().Get(constvars.HeaderXRequestID))
		usecase.AssertExpectations(t)
	})

	t.Run("missing api key is rejected before the usecase", func(t *testing.T) {
		usecase := new(mockReportUsecase)

		req := httptest.NewRequest("POST", "/api/v1/reports/ingest-text", bytes.NewReader([]byte(`{}`)))
		rr := httptest.NewRecorder()

		newTestRouter(t, usecase).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		usecase.AssertNotCalled(t, "IngestText", mock.Anything, mock.Anything)
	})

	t.Run("validation failure returns 400", func(t *testing.T) {
		usecase := new(mockReportUsecase)

		// pseudo_id missing
		body := []byte(`{"text": "glucose 98", "quality_score": 0.9}`)
		req := httptest.NewRequest("POST", "/api/v1/reports/ingest-text", bytes.NewReader(body))
		req.Header.Set(constvars.HeaderAPIKey, testAPIKey)
		rr := httptest.NewRecorder()

		newTestRouter(t, usecase).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		usecase.AssertNotCalled(t, "IngestText", mock.Anything, mock.Anything)
	})

	t.Run("submit rejects a body with neither source data nor uri", func(t *testing.T) {
		usecase := new(mockReportUsecase)

		body := []byte(`{"pseudo_id": "user-7f3a"}`)
		req := httptest.NewRequest("POST", "/api/v1/reports", bytes.NewReader(body))
		req.Header.Set(constvars.HeaderAPIKey, testAPIKey)
		rr := httptest.NewRecorder()

		newTestRouter(t, usecase).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		usecase.AssertNotCalled(t, "SubmitReport", mock.Anything, mock.Anything)
	})

	t.Run("find report passes the path parameter through", func(t *testing.T) {
		usecase := new(mockReportUsecase)
		usecase.On("FindReportByID", mock.Anything, mock.MatchedBy(func(request *requests.FindReportByID) bool {
			return request.ReportID == "RPT_test"
		})).Return(acceptedResult(), nil)

		req := httptest.NewRequest("GET", "/api/v1/reports/RPT_test", nil)
		req.Header.Set(constvars.HeaderAPIKey, testAPIKey)
		rr := httptest.NewRecorder()

		newTestRouter(t, usecase).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		usecase.AssertExpectations(t)
	})

	t.Run("unknown report returns 404 with the client message only", func(t *testing.T) {
		usecase := new(mockReportUsecase)
		usecase.On("FindReportByID", mock.Anything, mock.Anything).Return(nil, exceptions.ErrReportNotFound(nil))

		req := httptest.NewRequest("GET", "/api/v1/reports/RPT_missing", nil)
		req.Header.Set(constvars.HeaderAPIKey, testAPIKey)
		rr := httptest.NewRecorder()

		newTestRouter(t, usecase).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)

		var payload map[string]interface{}
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
		assert.Equal(t, false, payload["success"])
		assert.Equal(t, constvars.ErrClientReportNotFound, payload["message"])
	})
}
