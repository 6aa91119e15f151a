// Package sentiment gives a quick tone reading of submitted text. It runs
// locally and only decorates a rendered result.
package sentiment

import (
	"html"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
)

const (
	TONE_POSITIVE = "positive"
	TONE_NEUTRAL  = "neutral"
	TONE_NEGATIVE = "negative"

	toneThreshold = 0.20
)

var (
	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
	tagPattern  = regexp.MustCompile(`<[^>]*>`)
)

type Analyzer struct {
	vader *govader.SentimentIntensityAnalyzer
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{vader: govader.NewSentimentIntensityAnalyzer()}
}

// Tone returns the VADER compound score and its label.
func (a *Analyzer) Tone(text string) (float64, string) {
	score := a.vader.PolarityScores(PlainText(text)).Compound

	switch {
	case score >= toneThreshold:
		return score, TONE_POSITIVE
	case score <= -toneThreshold:
		return score, TONE_NEGATIVE
	default:
		return score, TONE_NEUTRAL
	}
}

// PlainText renders markdown, drops the markup and links, and collapses whitespace.
func PlainText(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1")
	rendered := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	plain := html.UnescapeString(tagPattern.ReplaceAllString(string(rendered), ""))
	plain = urlPattern.ReplaceAllString(plain, "")
	return strings.Join(strings.Fields(plain), " ")
}
