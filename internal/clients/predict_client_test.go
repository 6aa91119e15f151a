package clients

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/factcheck/config"
	"github.com/spacesedan/factcheck/internal/models"
)

func newTestPredictClient(t *testing.T, handler http.HandlerFunc) *PredictClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewPredictClient(config.PredictConfig{BaseURL: srv.URL, Timeout: 2 * time.Second})
	c.initialBackoff = time.Millisecond
	return c
}

func TestPredictClient_Predict_Success(t *testing.T) {
	var gotBody models.PredictionRequest
	c := newTestPredictClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, PREDICT_PATH, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, USER_AGENT, r.Header.Get("User-Agent"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"prediction":"Fake News","confidence":77.5,"label":0}`))
	})

	resp, err := c.Predict(context.Background(), models.PredictionRequest{Text: "some long article text"})
	require.NoError(t, err)

	assert.Equal(t, "some long article text", gotBody.Text)
	assert.Equal(t, "Fake News", resp.Prediction)
	require.NotNil(t, resp.Confidence)
	assert.InDelta(t, 77.5, *resp.Confidence, 0.001)
	require.NotNil(t, resp.Label)
	assert.Equal(t, models.LABEL_FAKE, *resp.Label)
}

func TestPredictClient_Predict_MissingConfidence(t *testing.T) {
	c := newTestPredictClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"prediction":"REAL"}`))
	})

	resp, err := c.Predict(context.Background(), models.PredictionRequest{Text: "0123456789"})
	require.NoError(t, err)
	assert.Nil(t, resp.Confidence)
	assert.Nil(t, resp.Label)
}

func TestPredictClient_Predict_Failures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantMsg    string
		undecoded  bool
	}{
		{"error body", http.StatusBadRequest, `{"error":"bad input"}`, 400, "bad input", false},
		{"model not loaded", http.StatusServiceUnavailable, `{"error":"Model not loaded. Please retrain the model."}`, 503, "Model not loaded. Please retrain the model.", false},
		{"empty error body", http.StatusInternalServerError, `{}`, 500, models.MSG_SERVICE_FALLBACK, false},
		{"html error body", http.StatusBadGateway, `<html>bad gateway</html>`, 502, models.MSG_SERVICE_FALLBACK, false},
		{"undecodable success", http.StatusOK, `not json`, 200, models.MSG_SERVICE_FALLBACK, true},
		{"missing prediction", http.StatusOK, `{"confidence":50}`, 200, models.MSG_SERVICE_FALLBACK, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			c := newTestPredictClient(t, func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.Predict(context.Background(), models.PredictionRequest{Text: "0123456789"})
			require.Error(t, err)

			var serr *models.ServiceError
			require.True(t, errors.As(err, &serr), "want ServiceError, got %T", err)
			assert.Equal(t, tt.wantStatus, serr.StatusCode)
			assert.Equal(t, tt.wantMsg, models.UserMessage(err))
			assert.Equal(t, tt.undecoded, errors.Is(err, models.ErrUndecodableResponse))
			assert.Equal(t, int32(1), calls.Load(), "predict must not retry")
		})
	}
}

func TestPredictClient_Predict_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	c := NewPredictClient(config.PredictConfig{BaseURL: baseURL, Timeout: time.Second})
	_, err := c.Predict(context.Background(), models.PredictionRequest{Text: "0123456789"})

	var terr *models.TransportError
	require.True(t, errors.As(err, &terr), "want TransportError, got %T", err)
	assert.Equal(t, models.MSG_TRANSPORT_FALLBACK, models.UserMessage(err))
}

func TestPredictClient_Health_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestPredictClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, HEALTH_PATH, r.URL.Path)
		if calls.Add(1) < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"status":"healthy","model_loaded":true}`))
	})

	health, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", health.Status)
	assert.True(t, health.ModelLoaded)
	assert.Equal(t, int32(2), calls.Load())
}

func TestPredictClient_Health_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	c := newTestPredictClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.Health(context.Background())
	var serr *models.ServiceError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, http.StatusInternalServerError, serr.StatusCode)
	assert.Equal(t, int32(MAX_RETRIES), calls.Load())
}

func TestPredictClient_OAuthClientCredentials(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "client", user)
		assert.Equal(t, "secret", pass)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-123","token_type":"bearer","expires_in":3600}`))
	}))
	t.Cleanup(tokenSrv.Close)

	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"prediction":"Real News","confidence":99}`))
	}))
	t.Cleanup(apiSrv.Close)

	c := NewPredictClient(config.PredictConfig{
		BaseURL: apiSrv.URL,
		Timeout: 2 * time.Second,
		OAuth: config.OAuthConfig{
			ClientID:     "client",
			ClientSecret: "secret",
			TokenURL:     tokenSrv.URL,
		},
	})

	resp, err := c.Predict(context.Background(), models.PredictionRequest{Text: "0123456789"})
	require.NoError(t, err)
	assert.Equal(t, "Real News", resp.Prediction)
}
