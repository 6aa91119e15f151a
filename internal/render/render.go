// Package render writes submission outcomes to plain output streams for the
// one-shot CLI.
package render

import (
	"encoding/json"
	"fmt"
	"html"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/russross/blackfriday/v2"

	"github.com/spacesedan/factcheck/internal/submission"
)

type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
)

const barWidth = 20

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatMarkdown, FormatHTML, FormatJSON:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, markdown, html or json)", s)
	}
}

var (
	fakeStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#e53935"))
	realStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8a94a6"))
	cardStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffb300"))
)

// Writer is a submission.View that prints results to out and busy and
// notification lines to status.
type Writer struct {
	mu            sync.Mutex
	out           io.Writer
	status        io.Writer
	format        Format
	markdownStyle string
}

func NewWriter(out, status io.Writer, format Format, markdownStyle string) *Writer {
	if markdownStyle == "" {
		markdownStyle = "auto"
	}
	return &Writer{out: out, status: status, format: format, markdownStyle: markdownStyle}
}

func (w *Writer) SetBusy(busy bool) {
	if !busy || w.format == FormatJSON {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintln(w.status, mutedStyle.Render("Analyzing article..."))
}

func (w *Writer) RenderResult(r submission.RenderedResult) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var out string
	var err error
	switch w.format {
	case FormatMarkdown:
		out, err = w.glamour(Markdown(r))
	case FormatHTML:
		out = HTML(r)
	case FormatJSON:
		out, err = JSON(r)
	default:
		out = Text(r)
	}
	if err != nil {
		fmt.Fprintf(w.status, "render failed: %v\n", err)
		out = Markdown(r)
	}
	fmt.Fprintln(w.out, strings.TrimRight(out, "\n"))
}

func (w *Writer) RenderError(n submission.Notification) {
	w.mu.Lock()
	defer w.mu.Unlock()
	icon := "ℹ"
	if n.Kind == submission.NotificationError {
		icon = "⚠"
	}
	fmt.Fprintln(w.status, noticeStyle.Render(icon+" "+n.Message))
}

func (w *Writer) ClearInput()   {}
func (w *Writer) RemoveResult() {}

func (w *Writer) glamour(md string) (string, error) {
	opt := glamour.WithStandardStyle(w.markdownStyle)
	if w.markdownStyle == "auto" {
		opt = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(80))
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

func icon(r submission.RenderedResult) string {
	if r.IsFake() {
		return "✗"
	}
	return "✓"
}

func confidenceBar(confidence float64) string {
	filled := int(confidence/100*barWidth + 0.5)
	filled = max(0, min(barWidth, filled))
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

// Text renders a bordered result card for terminals.
func Text(r submission.RenderedResult) string {
	style := realStyle
	if r.IsFake() {
		style = fakeStyle
	}

	lines := []string{
		style.Render(icon(r) + " " + r.Prediction),
		fmt.Sprintf("Confidence %s %s", confidenceBar(r.Confidence), r.ConfidenceText()),
		r.Detail,
	}
	if r.Tone != "" {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("Tone: %s (%.2f)", r.Tone, r.ToneScore)))
	}
	return cardStyle.BorderForeground(style.GetForeground()).Render(strings.Join(lines, "\n"))
}

func Markdown(r submission.RenderedResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s %s\n\n", icon(r), r.Prediction)
	fmt.Fprintf(&b, "**Confidence:** %s", r.ConfidenceText())
	if r.ConfidenceDefaulted {
		b.WriteString(" _(default)_")
	}
	fmt.Fprintf(&b, "\n\n> %s\n", r.Detail)
	if r.Tone != "" {
		fmt.Fprintf(&b, "\n_Tone: %s (%.2f)_\n", r.Tone, r.ToneScore)
	}
	return b.String()
}

var htmlRenderer = blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
	Flags: blackfriday.CommonHTMLFlags | blackfriday.SkipHTML | blackfriday.Safelink,
})

// HTML renders the result card as an HTML fragment. The label and detail come
// from the service and are escaped, never interpreted as markup.
func HTML(r submission.RenderedResult) string {
	class := "result-card real-result"
	if r.IsFake() {
		class = "result-card fake-result"
	}

	r.Prediction = html.EscapeString(r.Prediction)
	r.Detail = html.EscapeString(r.Detail)
	body := blackfriday.Run([]byte(Markdown(r)), blackfriday.WithRenderer(htmlRenderer))
	return fmt.Sprintf("<div class=%q>\n%s</div>", class, body)
}

type jsonResult struct {
	Prediction          string  `json:"prediction"`
	Confidence          float64 `json:"confidence"`
	ConfidenceText      string  `json:"confidence_text"`
	ConfidenceDefaulted bool    `json:"confidence_defaulted"`
	Label               *int    `json:"label,omitempty"`
	Icon                string  `json:"icon"`
	Detail              string  `json:"detail"`
	Tone                string  `json:"tone,omitempty"`
	ToneScore           float64 `json:"tone_score,omitempty"`
}

func JSON(r submission.RenderedResult) (string, error) {
	data, err := json.MarshalIndent(jsonResult{
		Prediction:          r.Prediction,
		Confidence:          r.Confidence,
		ConfidenceText:      r.ConfidenceText(),
		ConfidenceDefaulted: r.ConfidenceDefaulted,
		Label:               r.Label,
		Icon:                string(r.Icon),
		Detail:              r.Detail,
		Tone:                r.Tone,
		ToneScore:           r.ToneScore,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}
	return string(data), nil
}
