package clients

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/factcheck/config"
	"github.com/spacesedan/factcheck/internal/models"
)

func chatCompletionBody(content string) string {
	body, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "gpt-test",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	})
	return string(body)
}

func newTestOpenAIClassifier(t *testing.T, handler http.HandlerFunc) *OpenAIClassifier {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOpenAIClassifier(config.OpenAIConfig{
		APIKey:  "sk-test",
		BaseURL: srv.URL + "/v1",
		Model:   "gpt-test",
	}, 2*time.Second)
}

func TestOpenAIClassifier_Predict(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantLabel string
		wantClass int
	}{
		{"fake", `{"prediction":"fake news","confidence":81}`, "Fake News", models.LABEL_FAKE},
		{"real", `{"prediction":"Real","confidence":64.5}`, "Real News", models.LABEL_REAL},
		{"false maps to fake", `{"prediction":"FALSE","confidence":70}`, "Fake News", models.LABEL_FAKE},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestOpenAIClassifier(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v1/chat/completions", r.URL.Path)
				assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

				var req map[string]any
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "gpt-test", req["model"])

				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(chatCompletionBody(tt.content)))
			})

			resp, err := c.Predict(context.Background(), models.PredictionRequest{Text: "an article about things"})
			require.NoError(t, err)
			assert.Equal(t, tt.wantLabel, resp.Prediction)
			require.NotNil(t, resp.Label)
			assert.Equal(t, tt.wantClass, *resp.Label)
			require.NotNil(t, resp.Confidence)
		})
	}
}

func TestOpenAIClassifier_UndecodableCompletion(t *testing.T) {
	c := newTestOpenAIClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chatCompletionBody("I think it is fake")))
	})

	_, err := c.Predict(context.Background(), models.PredictionRequest{Text: "0123456789"})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrUndecodableResponse)
	assert.Equal(t, models.MSG_SERVICE_FALLBACK, models.UserMessage(err))
}

func TestOpenAIClassifier_APIError(t *testing.T) {
	c := newTestOpenAIClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
	})

	_, err := c.Predict(context.Background(), models.PredictionRequest{Text: "0123456789"})

	var serr *models.ServiceError
	require.True(t, errors.As(err, &serr), "want ServiceError, got %T", err)
	assert.Equal(t, http.StatusUnauthorized, serr.StatusCode)
	assert.Equal(t, "Incorrect API key provided", models.UserMessage(err))
}
