package ocr

import (
	"bytes"
	"fmt"
	"net/http"
	"sync"
	"time"

	"context"
	"medreport-service/internal/app/config"
	"medreport-service/internal/app/contracts"
	"medreport-service/internal/app/models"
	"medreport-service/internal/pkg/constvars"
	"medreport-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type ocrClient struct {
	BaseUrl    string
	HttpClient *http.Client
	Log        *zap.Logger
}

var (
	ocrClientInstance contracts.OCRClient
	onceOCRClient     sync.Once
)

func NewOCRClient(internalConfig *config.InternalConfig, logger *zap.Logger) contracts.OCRClient {
	onceOCRClient.Do(func() {
		ocrClientInstance = &ocrClient{
			BaseUrl: internalConfig.OCR.BaseUrl,
			HttpClient: &http.Client{
				Timeout: time.Duration(internalConfig.OCR.RequestTimeoutInSeconds) * time.Second,
			},
			Log: logger,
		}
	})
	return ocrClientInstance
}

type recognizeRequest struct {
	ObjectURI string `json:"object_uri"`
}

type recognizeResponse struct {
	Text         string  `json:"text"`
	QualityScore float64 `json:"quality_score"`
	Confidence   float64 `json:"confidence"`
}

func (c *ocrClient) Recognize(ctx context.Context, objectURI string) (*models.OCRResult, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("ocrClient.Recognize called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	body, err := json.Marshal(recognizeRequest{ObjectURI: objectURI})
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseUrl+"/v1/recognize", bytes.NewReader(body))
	if err != nil {
		return nil, exceptions.ErrOCRService(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return nil, exceptions.ErrOCRService(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, exceptions.ErrOCRBadResponse(fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var decoded recognizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, exceptions.ErrOCRBadResponse(err)
	}
	if decoded.QualityScore < 0 || decoded.QualityScore > 1 {
		return nil, exceptions.ErrOCRBadResponse(fmt.Errorf("quality score %f outside [0,1]", decoded.QualityScore))
	}

	return &models.OCRResult{
		Text:         decoded.Text,
		QualityScore: decoded.QualityScore,
		Confidence:   decoded.Confidence,
	}, nil
}
