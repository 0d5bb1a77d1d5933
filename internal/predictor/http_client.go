package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourusername/edge-calibrator/internal/config"
	"github.com/yourusername/edge-calibrator/internal/models"
)

// HTTPSource queries a prediction service over HTTP with retries and a
// client-side rate limit.
type HTTPSource struct {
	client  *retryablehttp.Client
	limiter *rate.Limiter
	baseURL string
	apiKey  string
	logger  *logrus.Logger
}

// NewHTTPSource creates a probability source backed by the prediction
// service described in the config
func NewHTTPSource(cfg *config.PredictorConfig, logger *logrus.Logger) *HTTPSource {
	if logger == nil {
		logger = logrus.New()
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = 100 * time.Millisecond
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.Logger = nil

	limit := cfg.RateLimit
	if limit <= 0 {
		limit = 10.0
	}

	return &HTTPSource{
		client:  retryClient,
		limiter: rate.NewLimiter(rate.Limit(limit), 1),
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		logger:  logger,
	}
}

type probabilityRequest struct {
	RecordID   string `json:"record_id"`
	ExternalID string `json:"external_id,omitempty"`
	League     string `json:"league"`
	Market     string `json:"market"`
	HomeTeam   string `json:"home_team"`
	AwayTeam   string `json:"away_team"`
	Date       string `json:"date"`
}

type probabilityResponse struct {
	Probability *float64 `json:"probability"`
}

// WinProbability fetches the model probability for a record/market pair.
// A 404 or a null probability maps to ErrProbabilityUnavailable.
func (s *HTTPSource) WinProbability(ctx context.Context, record *models.HistoricalRecord, market models.MarketType) (float64, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	payload, err := json.Marshal(probabilityRequest{
		RecordID:   record.ID.String(),
		ExternalID: record.ExternalID,
		League:     record.League,
		Market:     string(market),
		HomeTeam:   record.HomeTeam,
		AwayTeam:   record.AwayTeam,
		Date:       record.Date.Format("2006-01-02"),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal probability request: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/probabilities", bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("failed to build probability request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("prediction service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return 0, ErrProbabilityUnavailable
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("prediction service returned %d: %s", resp.StatusCode, string(body))
	}

	var parsed probabilityResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("failed to decode probability response: %w", err)
	}
	if parsed.Probability == nil || *parsed.Probability <= 0 || *parsed.Probability >= 1 {
		return 0, ErrProbabilityUnavailable
	}

	s.logger.WithFields(logrus.Fields{
		"record": record.ID,
		"market": market,
	}).Debug("Fetched model probability")

	return *parsed.Probability, nil
}
