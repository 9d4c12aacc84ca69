// Package extractor wraps the external structured-extraction collaborator.
// The wrapper owns only transport concerns, the bounded wait and a request
// throttle; parsing and confidence scoring stay on the pipeline side.
package extractor

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"context"
	"medreport-service/internal/app/config"
	"medreport-service/internal/app/contracts"
	"medreport-service/internal/pkg/constvars"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type extractorClient struct {
	BaseUrl    string
	HttpClient *http.Client
	Limiter    *rate.Limiter
	Log        *zap.Logger
}

var (
	extractorClientInstance contracts.ExtractionClient
	onceExtractorClient     sync.Once
)

func NewExtractorClient(internalConfig *config.InternalConfig, logger *zap.Logger) contracts.ExtractionClient {
	onceExtractorClient.Do(func() {
		extractorClientInstance = &extractorClient{
			BaseUrl: internalConfig.Extractor.BaseUrl,
			HttpClient: &http.Client{
				Timeout: time.Duration(internalConfig.Extractor.RequestTimeoutInSeconds) * time.Second,
			},
			Limiter: rate.NewLimiter(rate.Limit(internalConfig.Extractor.RequestsPerSecond), internalConfig.Extractor.Burst),
			Log:     logger,
		}
	})
	return extractorClientInstance
}

type extractRequest struct {
	Text   string `json:"text"`
	Schema string `json:"schema"`
}

// Extract posts the report text against the named schema and returns the
// collaborator payload verbatim. Any transport failure, the bounded wait
// expiring included, surfaces as an error the caller treats as an empty
// extraction.
func (c *extractorClient) Extract(ctx context.Context, text, schema string) ([]byte, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("extractorClient.Extract called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	if err := c.Limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(extractRequest{Text: text, Schema: schema})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseUrl+"/v1/extract", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("extractor returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
