package submission

import (
	"fmt"
	"math"

	"github.com/spacesedan/factcheck/internal/models"
)

const (
	DEFAULT_FAKE_CONFIDENCE = 85.0
	DEFAULT_REAL_CONFIDENCE = 92.0

	FAKE_DETAIL = "This article shows patterns commonly found in misleading content"
	REAL_DETAIL = "This article appears to be from a credible source"
)

type IconVariant string

const (
	IconFake IconVariant = "fake"
	IconReal IconVariant = "real"
)

type RenderedResult struct {
	Prediction string
	Confidence float64
	// ConfidenceDefaulted is set when the service sent no confidence.
	ConfidenceDefaulted bool
	Detail              string
	Icon                IconVariant
	// Label is the service's numeric class, nil when it sent none.
	Label *int

	Tone      string
	ToneScore float64
}

func (r RenderedResult) IsFake() bool {
	return r.Icon == IconFake
}

// ConfidenceText formats the confidence the way the result card shows it,
// e.g. "77.5%". Ties round up, so 88.25 reads "88.3%".
func (r RenderedResult) ConfidenceText() string {
	return fmt.Sprintf("%.1f%%", math.Floor(r.Confidence*10+0.5)/10)
}

// BuildResult turns a service response into what the view renders.
func BuildResult(resp models.PredictionResponse) RenderedResult {
	result := RenderedResult{
		Prediction: resp.Prediction,
		Icon:       IconReal,
		Detail:     REAL_DETAIL,
		Label:      resp.Label,
	}
	if resp.IsFake() {
		result.Icon = IconFake
		result.Detail = FAKE_DETAIL
	}

	switch {
	case resp.Confidence == nil:
		result.ConfidenceDefaulted = true
		result.Confidence = DEFAULT_REAL_CONFIDENCE
		if result.IsFake() {
			result.Confidence = DEFAULT_FAKE_CONFIDENCE
		}
	case *resp.Confidence < 0:
		result.Confidence = 0
	case *resp.Confidence > 100:
		result.Confidence = 100
	default:
		result.Confidence = *resp.Confidence
	}

	return result
}
