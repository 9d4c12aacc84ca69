package controllers

import (
	"net/http"
	"sync"
	"time"

	"context"
	"medreport-service/internal/app/contracts"
	"medreport-service/internal/pkg/constvars"
	"medreport-service/internal/pkg/dto/requests"
	"medreport-service/internal/pkg/exceptions"
	"medreport-service/internal/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const submissionTimeout = 90 * time.Second

type ReportController struct {
	Log           *zap.Logger
	ReportUsecase contracts.ReportUsecase
}

var (
	reportControllerInstance *ReportController
	onceReportController     sync.Once
)

func NewReportController(logger *zap.Logger, reportUsecase contracts.ReportUsecase) *ReportController {
	onceReportController.Do(func() {
		instance := &ReportController{
			Log:           logger,
			ReportUsecase: reportUsecase,
		}
		reportControllerInstance = instance
	})
	return reportControllerInstance
}

func (ctrl *ReportController) SubmitReport(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("ReportController.SubmitReport requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}
	ctrl.Log.Info("ReportController.SubmitReport called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	request := new(requests.SubmitReport)
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		ctrl.Log.Error("ReportController.SubmitReport error decoding JSON",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	if err := utils.ValidateStruct(request); err != nil {
		ctrl.Log.Error("ReportController.SubmitReport validation error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	// OCR plus the extraction collaborator can be slow, so this endpoint
	// gets a longer deadline than the read paths.
	ctx, cancel := context.WithTimeout(r.Context(), submissionTimeout)
	defer cancel()

	response, err := ctrl.ReportUsecase.SubmitReport(ctx, request)
	if err != nil {
		ctrl.Log.Error("ReportController.SubmitReport error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("ReportController.SubmitReport succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingReportIDKey, response.ReportID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SubmitReportSuccessMessage, response)
}

func (ctrl *ReportController) IngestText(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("ReportController.IngestText requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}
	ctrl.Log.Info("ReportController.IngestText called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	request := new(requests.IngestText)
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		ctrl.Log.Error("ReportController.IngestText error decoding JSON",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	if err := utils.ValidateStruct(request); err != nil {
		ctrl.Log.Error("ReportController.IngestText validation error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), submissionTimeout)
	defer cancel()

	response, err := ctrl.ReportUsecase.IngestText(ctx, request)
	if err != nil {
		ctrl.Log.Error("ReportController.IngestText error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("ReportController.IngestText succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingReportIDKey, response.ReportID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.IngestTextSuccessMessage, response)
}

func (ctrl *ReportController) FindReportByID(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("ReportController.FindReportByID requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}
	ctrl.Log.Info("ReportController.FindReportByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	request := &requests.FindReportByID{
		ReportID: chi.URLParam(r, "reportID"),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	response, err := ctrl.ReportUsecase.FindReportByID(ctx, request)
	if err != nil {
		ctrl.Log.Error("ReportController.FindReportByID error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("ReportController.FindReportByID succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.FindReportSuccessMessage, response)
}
