package orchestrator

import (
	"errors"
	"testing"

	"context"
	"medreport-service/internal/app/config"
	"medreport-service/internal/app/models"
	"medreport-service/internal/app/services/pipeline/registry"
	"medreport-service/internal/pkg/constvars"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type mockExtractionClient struct {
	mock.Mock
}

func (m *mockExtractionClient) Extract(ctx context.Context, text, schema string) ([]byte, error) {
	args := m.Called(ctx, text, schema)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func testThresholds() config.Pipeline {
	return config.Pipeline{
		OCRQualityFloor:  0.15,
		TypeDetectionMin: 0.3,
		ExtractionMin:    0.55,
		NormalizationMin: 0.6,
		OverallMin:       0.4,
	}
}

func newTestOrchestrator(client *mockExtractionClient) *Orchestrator {
	return NewOrchestrator(registry.NewDefault(), testThresholds(), client, zap.NewNop())
}

const bloodTestText = "Specimen: serum. Reference range attached.\n" +
	"Glucose 98 mg/dL. Total cholesterol 190 mg/dL. LDL 160 mg/dL.\n" +
	"Hemoglobin 14.2 g/dL. Hematocrit 42%. Platelet count 250. HbA1c 5.4%. Creatinine 0.9 mg/dL."

const ldlPayload = `{
	"panelName": "Lipid Panel",
	"observations": [{
		"code": "ldl",
		"display": "LDL Cholesterol",
		"value": 160,
		"unit": "mg/dL",
		"referenceRange": {"low": 0, "high": 130, "unit": "mg/dL"},
		"collectedAt": "2026-08-20T09:30:00Z"
	}]
}`

func bloodTestSubmission(quality float64) Submission {
	return Submission{
		PseudoID:     "user-7f3a",
		SourceFormat: constvars.SourceFormatText,
		Report:       models.ReportText{Text: bloodTestText, QualityScore: quality},
	}
}

func TestRunAccepted(t *testing.T) {
	client := new(mockExtractionClient)
	client.On("Extract", mock.Anything, mock.Anything, "blood_test_panel_v1").Return([]byte(ldlPayload), nil)

	result, err := newTestOrchestrator(client).Run(context.Background(), bloodTestSubmission(0.95))

	assert.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, result.Status)
	assert.Equal(t, constvars.ReportTypeBloodTest, result.ReportType)
	assert.Equal(t, "user-7f3a", result.Patient.PseudoID)
	assert.Nil(t, result.Patient.DOB)
	assert.Nil(t, result.Patient.SexAtBirth)
	assert.Empty(t, result.UserFeedback)

	// LDL 160 mg/dL becomes 4.144 mmol/L, borderline band
	assert.Equal(t, models.CategoryBorderline, result.Interpretation.Category)
	assert.InDelta(t, 4.144, result.Data.Observations[0].Value.Number, 1e-6)
	assert.Equal(t, "mmol/l", result.Data.Observations[0].Unit)

	assert.Equal(t, []string{"ldl_cholesterol_decision"}, result.Audit.RulesTriggered)
	assert.Len(t, result.Audit.UnitConversions, 1)
	assert.NotEmpty(t, result.Audit.ValidationFindings)
	assert.InDelta(t, 1.0, result.Audit.ExtractionConfidence, 1e-9)
	assert.InDelta(t, 1.0, result.Audit.NormalizationConfidence, 1e-9)

	// overall confidence is the minimum of the three stage confidences
	expected := result.Audit.TypeClassifier.Confidence
	if result.Audit.ExtractionConfidence < expected {
		expected = result.Audit.ExtractionConfidence
	}
	if result.Audit.NormalizationConfidence < expected {
		expected = result.Audit.NormalizationConfidence
	}
	assert.InDelta(t, expected, result.Audit.OverallConfidence, 1e-9)

	client.AssertExpectations(t)
}

func TestRunIsDeterministic(t *testing.T) {
	client := new(mockExtractionClient)
	client.On("Extract", mock.Anything, mock.Anything, mock.Anything).Return([]byte(ldlPayload), nil)
	o := newTestOrchestrator(client)

	first, err := o.Run(context.Background(), bloodTestSubmission(0.95))
	assert.NoError(t, err)
	second, err := o.Run(context.Background(), bloodTestSubmission(0.95))
	assert.NoError(t, err)

	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.ReportType, second.ReportType)
	assert.Equal(t, first.Interpretation, second.Interpretation)
	assert.Equal(t, first.Audit.OverallConfidence, second.Audit.OverallConfidence)
	assert.NotEqual(t, first.ReportID, second.ReportID)
}

func TestRunDiscards(t *testing.T) {
	t.Run("quality below the floor skips every stage", func(t *testing.T) {
		client := new(mockExtractionClient)

		result, err := newTestOrchestrator(client).Run(context.Background(), bloodTestSubmission(0.1))

		assert.NoError(t, err)
		assert.Equal(t, models.StatusDiscarded, result.Status)
		assert.Equal(t, constvars.DiscardFeedback[constvars.DiscardLowQualityOCR], result.UserFeedback)
		assert.Empty(t, result.Data.Observations)
		assert.Empty(t, result.ReportType)
		client.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unrecognized text discards before extraction", func(t *testing.T) {
		client := new(mockExtractionClient)
		submission := Submission{
			PseudoID:     "user-7f3a",
			SourceFormat: constvars.SourceFormatText,
			Report:       models.ReportText{Text: "dear customer, your parcel has shipped", QualityScore: 0.9},
		}

		result, err := newTestOrchestrator(client).Run(context.Background(), submission)

		assert.NoError(t, err)
		assert.Equal(t, models.StatusDiscarded, result.Status)
		assert.Equal(t, constvars.DiscardFeedback[constvars.DiscardUnrecognizedType], result.UserFeedback)
		assert.Equal(t, constvars.ReportTypeOther, result.ReportType)
		client.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("classified type without an extractor discards as unsupported", func(t *testing.T) {
		client := new(mockExtractionClient)
		submission := Submission{
			PseudoID:     "user-7f3a",
			SourceFormat: constvars.SourceFormatText,
			Report: models.ReportText{
				Text:         "Radiograph of the chest. Impression: no acute findings. CT scan not required. Ultrasound follow-up. MRI unremarkable. Findings: clear. No contrast used.",
				QualityScore: 0.9,
			},
		}

		result, err := newTestOrchestrator(client).Run(context.Background(), submission)

		assert.NoError(t, err)
		assert.Equal(t, models.StatusDiscarded, result.Status)
		assert.Equal(t, constvars.DiscardFeedback[constvars.DiscardUnsupportedType], result.UserFeedback)
		assert.Equal(t, constvars.ReportTypeImagingReport, result.ReportType)
		client.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("extractor failure becomes a partial parse discard", func(t *testing.T) {
		client := new(mockExtractionClient)
		client.On("Extract", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("upstream timeout"))

		result, err := newTestOrchestrator(client).Run(context.Background(), bloodTestSubmission(0.95))

		assert.NoError(t, err)
		assert.Equal(t, models.StatusDiscarded, result.Status)
		assert.Equal(t, constvars.DiscardFeedback[constvars.DiscardPartialParse], result.UserFeedback)
		assert.Zero(t, result.Audit.ExtractionConfidence)
	})

	t.Run("empty observation set discards as partial parse", func(t *testing.T) {
		client := new(mockExtractionClient)
		client.On("Extract", mock.Anything, mock.Anything, mock.Anything).Return([]byte(`{"observations": []}`), nil)

		result, err := newTestOrchestrator(client).Run(context.Background(), bloodTestSubmission(0.95))

		assert.NoError(t, err)
		assert.Equal(t, models.StatusDiscarded, result.Status)
		assert.Equal(t, constvars.DiscardFeedback[constvars.DiscardPartialParse], result.UserFeedback)
	})

	t.Run("unconvertible units discard as unit mismatch", func(t *testing.T) {
		client := new(mockExtractionClient)
		payload := `{"observations": [{
			"code": "mystery", "display": "Mystery Analyte", "value": 12, "unit": "furlongs",
			"referenceRange": {"low": 1, "high": 20, "unit": "furlongs"},
			"collectedAt": "2026-08-20T09:30:00Z"
		}]}`
		client.On("Extract", mock.Anything, mock.Anything, mock.Anything).Return([]byte(payload), nil)

		result, err := newTestOrchestrator(client).Run(context.Background(), bloodTestSubmission(0.95))

		assert.NoError(t, err)
		assert.Equal(t, models.StatusDiscarded, result.Status)
		assert.Equal(t, constvars.DiscardFeedback[constvars.DiscardUnitMismatch], result.UserFeedback)
		assert.Zero(t, result.Audit.NormalizationConfidence)
	})

	t.Run("validation failure is a hard gate", func(t *testing.T) {
		client := new(mockExtractionClient)
		// collected in the future relative to ingestion
		payload := `{"observations": [{
			"code": "hba1c", "display": "HbA1c", "value": 5.9, "unit": "%",
			"referenceRange": {"low": 4, "high": 5.6, "unit": "%"},
			"collectedAt": "2096-01-01T00:00:00Z"
		}]}`
		client.On("Extract", mock.Anything, mock.Anything, mock.Anything).Return([]byte(payload), nil)

		result, err := newTestOrchestrator(client).Run(context.Background(), bloodTestSubmission(0.95))

		assert.NoError(t, err)
		assert.Equal(t, models.StatusDiscarded, result.Status)
		assert.Equal(t, constvars.DiscardFeedback[constvars.DiscardImplausibleValues], result.UserFeedback)
		assert.NotEmpty(t, result.Audit.ValidationFindings)
	})

	t.Run("every discard carries the audit trail and empty data", func(t *testing.T) {
		client := new(mockExtractionClient)
		client.On("Extract", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

		result, err := newTestOrchestrator(client).Run(context.Background(), bloodTestSubmission(0.95))

		assert.NoError(t, err)
		assert.Equal(t, models.StatusDiscarded, result.Status)
		assert.NotEmpty(t, result.UserFeedback)
		assert.NotEmpty(t, result.ReportID)
		assert.Empty(t, result.Data.Observations)
		assert.NotEmpty(t, result.Audit.TypeClassifier.Label)
		assert.NotNil(t, result.Audit.RulesTriggered)
		assert.NotNil(t, result.Audit.UnitConversions)
	})
}

func TestRunRecoversFromPanic(t *testing.T) {
	client := new(mockExtractionClient)
	client.On("Extract", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { panic("collaborator wrapper blew up") }).
		Return(nil, nil)

	result, err := newTestOrchestrator(client).Run(context.Background(), bloodTestSubmission(0.95))

	assert.NoError(t, err)
	assert.Equal(t, models.StatusDiscarded, result.Status)
	assert.Equal(t, constvars.DiscardFeedback[constvars.DiscardSystemError], result.UserFeedback)
}

func TestRunHonorsContext(t *testing.T) {
	client := new(mockExtractionClient)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := newTestOrchestrator(client).Run(ctx, bloodTestSubmission(0.95))

	assert.Nil(t, result)
	assert.ErrorIs(t, err, context.Canceled)
	client.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything, mock.Anything)
}
