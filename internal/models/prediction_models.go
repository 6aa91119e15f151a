package models

import "strings"

const (
	LABEL_FAKE = 0
	LABEL_REAL = 1
)

type PredictionRequest struct {
	Text string `json:"text"`
}

type PredictionResponse struct {
	Prediction string   `json:"prediction"`
	Confidence *float64 `json:"confidence,omitempty"`
	Label      *int     `json:"label,omitempty"`
}

// IsFake reports whether the prediction label names the fake class.
func (p PredictionResponse) IsFake() bool {
	return strings.Contains(strings.ToLower(p.Prediction), "fake")
}

type ErrorResponse struct {
	Error string `json:"error,omitempty"`
}

type HealthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}
