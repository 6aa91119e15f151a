package submission

import (
	"context"
	"sync"

	"github.com/spacesedan/factcheck/internal/models"
)

type fakeView struct {
	mu            sync.Mutex
	busy          []bool
	results       []RenderedResult
	notifications []Notification
	clears        int
	removals      int
}

func (v *fakeView) SetBusy(busy bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.busy = append(v.busy, busy)
}

func (v *fakeView) RenderResult(r RenderedResult) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.results = append(v.results, r)
}

func (v *fakeView) RenderError(n Notification) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.notifications = append(v.notifications, n)
}

func (v *fakeView) ClearInput() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.clears++
}

func (v *fakeView) RemoveResult() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.removals++
}

func (v *fakeView) snapshot() fakeView {
	v.mu.Lock()
	defer v.mu.Unlock()
	return fakeView{
		busy:          append([]bool(nil), v.busy...),
		results:       append([]RenderedResult(nil), v.results...),
		notifications: append([]Notification(nil), v.notifications...),
		clears:        v.clears,
		removals:      v.removals,
	}
}

type fakeClassifier struct {
	mu       sync.Mutex
	requests []models.PredictionRequest
	predict  func(ctx context.Context, in models.PredictionRequest) (*models.PredictionResponse, error)
}

func (f *fakeClassifier) Predict(ctx context.Context, in models.PredictionRequest) (*models.PredictionResponse, error) {
	f.mu.Lock()
	f.requests = append(f.requests, in)
	f.mu.Unlock()
	return f.predict(ctx, in)
}

func (f *fakeClassifier) calls() []models.PredictionRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.PredictionRequest(nil), f.requests...)
}

func respond(prediction string, confidence *float64) *fakeClassifier {
	return &fakeClassifier{predict: func(context.Context, models.PredictionRequest) (*models.PredictionResponse, error) {
		return &models.PredictionResponse{Prediction: prediction, Confidence: confidence}, nil
	}}
}

func fail(err error) *fakeClassifier {
	return &fakeClassifier{predict: func(context.Context, models.PredictionRequest) (*models.PredictionResponse, error) {
		return nil, err
	}}
}

type fakeEventSource struct {
	submit func(ctx context.Context, text string)
	reset  func()
}

func (s *fakeEventSource) OnSubmit(h func(ctx context.Context, text string)) { s.submit = h }
func (s *fakeEventSource) OnReset(h func())                                  { s.reset = h }

type fixedTone struct{}

func (fixedTone) Tone(string) (float64, string) { return -0.5, "negative" }

func ptr(f float64) *float64 { return &f }
