// Package submission validates user text, sends it to a classifier and
// drives a View with the outcome.
package submission

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/spacesedan/factcheck/internal/models"
)

// RESULT_REMOVAL_DELAY matches the exit transition of the result card.
const RESULT_REMOVAL_DELAY = 400 * time.Millisecond

// ErrSuperseded is returned to a submission whose response arrived after a
// newer submission was issued. Nothing is rendered for it.
var ErrSuperseded = errors.New("submission superseded by a newer one")

type Classifier interface {
	Predict(ctx context.Context, in models.PredictionRequest) (*models.PredictionResponse, error)
}

type ToneAnalyzer interface {
	Tone(text string) (float64, string)
}

type Option func(*Controller)

func WithRemovalDelay(d time.Duration) Option {
	return func(c *Controller) { c.removalDelay = d }
}

func WithToneAnalyzer(a ToneAnalyzer) Option {
	return func(c *Controller) { c.tone = a }
}

type Controller struct {
	classifier   Classifier
	view         View
	tone         ToneAnalyzer
	removalDelay time.Duration

	mu          sync.Mutex
	seq         uint64
	inflight    int
	state       State
	resultShown bool
	removal     *time.Timer
	removalGen  uint64
}

func NewController(classifier Classifier, view View, opts ...Option) *Controller {
	c := &Controller{
		classifier:   classifier,
		view:         view,
		removalDelay: RESULT_REMOVAL_DELAY,
		state:        StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Bind registers the controller's handlers on src.
func (c *Controller) Bind(src EventSource) {
	src.OnSubmit(func(ctx context.Context, text string) {
		if _, err := c.Submit(ctx, text); err != nil && !errors.Is(err, ErrSuperseded) {
			slog.Debug("[Submission] Submit finished with error", slog.String("error", err.Error()))
		}
	})
	src.OnReset(c.Reset)
}

// State reports the state of the most recent submission.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Submit validates rawText, asks the classifier once and renders the outcome.
// The busy indicator is cleared on every path.
func (c *Controller) Submit(ctx context.Context, rawText string) (*RenderedResult, error) {
	text := strings.TrimSpace(rawText)

	c.mu.Lock()
	c.state = StateValidating
	if n := utf8.RuneCountInString(text); n < models.MIN_TEXT_LENGTH {
		err := &models.ValidationError{MinLength: models.MIN_TEXT_LENGTH, Length: n}
		c.state = StateRejected
		c.view.RenderError(Notification{Kind: NotificationError, Message: err.UserMessage()})
		c.mu.Unlock()
		return nil, err
	}

	c.seq++
	seq := c.seq
	c.inflight++
	c.state = StatePending
	if c.inflight == 1 {
		c.view.SetBusy(true)
	}
	c.mu.Unlock()

	defer c.finish()

	slog.Info("[Submission] Sending text for prediction",
		slog.Uint64("seq", seq),
		slog.Int("length", len(text)))

	resp, err := c.classifier.Predict(ctx, models.PredictionRequest{Text: text})

	var result RenderedResult
	if err == nil {
		result = BuildResult(*resp)
		if c.tone != nil {
			result.ToneScore, result.Tone = c.tone.Tone(text)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		slog.Info("[Submission] Dropping stale response",
			slog.Uint64("seq", seq),
			slog.Uint64("latest", c.seq))
		return nil, ErrSuperseded
	}

	if err != nil {
		err = models.Classify(err)
		c.state = StateFailed
		c.view.RenderError(Notification{Kind: NotificationError, Message: models.UserMessage(err)})
		slog.Warn("[Submission] Prediction failed",
			slog.Uint64("seq", seq),
			slog.String("error", err.Error()))
		return nil, err
	}

	c.cancelRemovalLocked()
	c.state = StateRendered
	c.resultShown = true
	c.view.RenderResult(result)
	return &result, nil
}

func (c *Controller) finish() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--
	if c.inflight == 0 {
		c.view.SetBusy(false)
	}
}

// Reset clears the input and, if a result is shown, removes it after the
// transition delay. Calling it repeatedly is safe.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.view.ClearInput()
	if !c.resultShown {
		return
	}
	c.resultShown = false

	c.cancelRemovalLocked()
	gen := c.removalGen
	c.removal = time.AfterFunc(c.removalDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if gen != c.removalGen {
			return
		}
		c.removal = nil
		c.view.RemoveResult()
	})
}

// Close stops a pending result removal.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelRemovalLocked()
}

func (c *Controller) cancelRemovalLocked() {
	c.removalGen++
	if c.removal != nil {
		c.removal.Stop()
		c.removal = nil
	}
}
