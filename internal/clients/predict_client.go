package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/spacesedan/factcheck/config"
	"github.com/spacesedan/factcheck/internal/models"
)

// PredictClient talks to the classification service over its JSON API.
type PredictClient struct {
	BaseURL string
	Client  *http.Client

	maxRetries     int
	initialBackoff time.Duration
}

func NewPredictClient(cfg config.PredictConfig) *PredictClient {
	httpClient := &http.Client{Timeout: cfg.Timeout}

	if cfg.OAuth.Enabled() {
		oauthConf := &clientcredentials.Config{
			ClientID:     cfg.OAuth.ClientID,
			ClientSecret: cfg.OAuth.ClientSecret,
			TokenURL:     cfg.OAuth.TokenURL,
			Scopes:       cfg.OAuth.Scopes,
			AuthStyle:    oauth2.AuthStyleInHeader,
		}
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: cfg.Timeout})
		httpClient = oauthConf.Client(ctx)
		httpClient.Timeout = cfg.Timeout
	}

	slog.Info("[PredictClient] Initializing Client",
		slog.String("base_url", cfg.BaseURL),
		slog.Duration("timeout", cfg.Timeout),
		slog.Bool("oauth", cfg.OAuth.Enabled()))

	return &PredictClient{
		BaseURL:        cfg.BaseURL,
		Client:         httpClient,
		maxRetries:     MAX_RETRIES,
		initialBackoff: INITIAL_BACKOFF,
	}
}

// Predict sends exactly one request to the prediction endpoint. Failures come
// back as *models.ServiceError or *models.TransportError.
func (c *PredictClient) Predict(ctx context.Context, in models.PredictionRequest) (*models.PredictionResponse, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+PREDICT_PATH, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	requestID := setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.Client.Do(req)
	if err != nil {
		slog.Error("[PredictClient] Prediction request failed",
			slog.String("request_id", requestID),
			slog.String("error", err.Error()))
		return nil, &models.TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, MAX_RESPONSE_BYTES))
	if err != nil {
		return nil, &models.ServiceError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("failed to read response: %w", err),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr models.ErrorResponse
		if err := json.Unmarshal(respBody, &apiErr); err != nil {
			slog.Warn("[PredictClient] Error body was not JSON",
				slog.String("request_id", requestID),
				slog.Int("status", resp.StatusCode),
				getPreview(respBody))
		}
		slog.Warn("[PredictClient] Prediction rejected",
			slog.String("request_id", requestID),
			slog.Int("status", resp.StatusCode),
			slog.String("error", apiErr.Error))
		return nil, &models.ServiceError{StatusCode: resp.StatusCode, Message: apiErr.Error}
	}

	var result models.PredictionResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		slog.Error("[PredictClient] Failed to unmarshal response",
			slog.String("request_id", requestID),
			slog.String("error", err.Error()),
			getPreview(respBody),
			slog.Int("raw_response_length", len(respBody)))
		return nil, &models.ServiceError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: %v", models.ErrUndecodableResponse, err),
		}
	}
	if result.Prediction == "" {
		return nil, &models.ServiceError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: missing prediction", models.ErrUndecodableResponse),
		}
	}

	slog.Info("[PredictClient] Prediction request successful",
		slog.String("request_id", requestID),
		slog.String("prediction", result.Prediction),
		slog.Duration("elapsed", time.Since(start)))

	return &result, nil
}

// Health probes the service, retrying transport errors and 5xx answers.
func (c *PredictClient) Health(ctx context.Context) (*models.HealthResponse, error) {
	resp, err := c.DoWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+HEALTH_PATH, http.NoBody)
		if err != nil {
			return nil, err
		}
		setHeaders(req)
		return req, nil
	})
	if err != nil {
		return nil, &models.TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &models.ServiceError{StatusCode: resp.StatusCode}
	}

	var result models.HealthResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, MAX_RESPONSE_BYTES)).Decode(&result); err != nil {
		return nil, &models.ServiceError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: %v", models.ErrUndecodableResponse, err),
		}
	}
	return &result, nil
}

// DoWithRetry builds a fresh request per attempt and backs off exponentially
// between attempts. A response below 500 is returned as is.
func (c *PredictClient) DoWithRetry(ctx context.Context, build func() (*http.Request, error)) (*http.Response, error) {
	var resp *http.Response
	var err error
	backoff := c.initialBackoff

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		var req *http.Request
		req, err = build()
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}

		resp, err = c.Client.Do(req)
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}
		if attempt == c.maxRetries-1 {
			break
		}

		slog.Warn("[PredictClient] Request failed, will retry",
			slog.Int("attempt", attempt+1),
			slog.String("error", errMsg(err, resp)))

		if resp != nil {
			resp.Body.Close()
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, MAX_BACKOFF)
	}

	if err == nil && resp == nil {
		err = errors.New("no attempts made")
	}
	return resp, err
}

func setHeaders(req *http.Request) string {
	requestID := uuid.NewString()
	req.Header.Set("User-Agent", USER_AGENT)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	return requestID
}

func getPreview(respBody []byte) slog.Attr {
	raw := string(respBody)
	if len(raw) > 50 {
		raw = raw[:50]
	}
	return slog.String("raw_response", raw)
}

func errMsg(err error, resp *http.Response) string {
	if err != nil {
		return err.Error()
	}
	if resp != nil {
		return fmt.Sprintf("status code %d", resp.StatusCode)
	}
	return "unknown error"
}
