package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/spacesedan/factcheck/config"
	"github.com/spacesedan/factcheck/internal/models"
)

const openAISystemPrompt = `You are a news credibility classifier.
Read the article the user sends and answer with a JSON object only:
{"prediction": "Fake News" or "Real News", "confidence": number between 0 and 100}`

// OpenAIClassifier answers prediction requests with a chat completion.
type OpenAIClassifier struct {
	Client *openai.Client
	Model  string
}

func NewOpenAIClassifier(cfg config.OpenAIConfig, timeout time.Duration) *OpenAIClassifier {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{Timeout: timeout}

	slog.Info("[OpenAIClassifier] OpenAI client initialized",
		slog.String("model", cfg.Model),
		slog.Duration("timeout", timeout))

	return &OpenAIClassifier{
		Client: openai.NewClientWithConfig(clientConfig),
		Model:  cfg.Model,
	}
}

func (o *OpenAIClassifier) Predict(ctx context.Context, in models.PredictionRequest) (*models.PredictionResponse, error) {
	start := time.Now()
	resp, err := o.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.Model,
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: openAISystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: in.Text},
		},
	})
	if err != nil {
		slog.Error("[OpenAIClassifier] Chat completion failed",
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(start)))
		return nil, openAIError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, &models.ServiceError{
			StatusCode: http.StatusOK,
			Err:        fmt.Errorf("%w: no choices", models.ErrUndecodableResponse),
		}
	}

	var result models.PredictionResponse
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &result); err != nil || result.Prediction == "" {
		if err == nil {
			err = errors.New("missing prediction")
		}
		slog.Error("[OpenAIClassifier] Failed to unmarshal completion",
			slog.String("error", err.Error()),
			getPreview([]byte(content)))
		return nil, &models.ServiceError{
			StatusCode: http.StatusOK,
			Err:        fmt.Errorf("%w: %v", models.ErrUndecodableResponse, err),
		}
	}

	normalizeOpenAIPrediction(&result)

	slog.Info("[OpenAIClassifier] Prediction request successful",
		slog.String("prediction", result.Prediction),
		slog.Duration("elapsed", time.Since(start)))
	return &result, nil
}

// normalizeOpenAIPrediction maps free-form model labels onto the two labels
// the prediction service uses.
func normalizeOpenAIPrediction(p *models.PredictionResponse) {
	raw := strings.ToLower(p.Prediction)
	label := models.LABEL_REAL
	p.Prediction = "Real News"
	if strings.Contains(raw, "fake") || strings.Contains(raw, "false") {
		label = models.LABEL_FAKE
		p.Prediction = "Fake News"
	}
	p.Label = &label
}

func openAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &models.ServiceError{StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &models.ServiceError{StatusCode: reqErr.HTTPStatusCode, Err: err}
	}
	return &models.TransportError{Err: err}
}
