// Package ui is the interactive terminal front end. Model is both the event
// source the submission controller binds to and, through ProgramView, the
// surface it renders on.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/spacesedan/factcheck/internal/monitoring"
	"github.com/spacesedan/factcheck/internal/submission"
)

// CONFIDENCE_REVEAL_DELAY staggers the confidence figure after the card appears.
const CONFIDENCE_REVEAL_DELAY = 100 * time.Millisecond

type (
	busyMsg         struct{ busy bool }
	resultMsg       struct{ result submission.RenderedResult }
	notifyMsg       struct{ notification submission.Notification }
	clearInputMsg   struct{}
	removeResultMsg struct{}
	revealMsg       struct{ gen int }
	dismissMsg      struct{ id int }

	// HealthMsg carries a new prediction service status into the program.
	HealthMsg monitoring.Status
)

type Model struct {
	ctx      context.Context
	textarea textarea.Model
	spinner  spinner.Model
	progress progress.Model
	printer  *message.Printer

	onSubmit func(ctx context.Context, text string)
	onReset  func()

	busy      bool
	result    *submission.RenderedResult
	revealed  bool
	revealGen int
	notice    *submission.Notification
	noticeID  int
	health    monitoring.Status
	width     int
}

type ModelOption func(*Model)

// WithDraft pre-fills the input, e.g. with a draft restored from the session store.
func WithDraft(draft string) ModelOption {
	return func(m *Model) { m.textarea.SetValue(draft) }
}

// WithHealth sets the initial service status, for backends that cannot be probed.
func WithHealth(status monitoring.Status) ModelOption {
	return func(m *Model) { m.health = status }
}

func NewModel(ctx context.Context, opts ...ModelOption) Model {
	ta := textarea.New()
	ta.Placeholder = "Paste a news article here (at least 10 characters)..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(76)
	ta.SetHeight(8)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(Success)

	m := Model{
		ctx:      ctx,
		textarea: ta,
		spinner:  sp,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40), progress.WithoutPercentage()),
		printer:  message.NewPrinter(language.English),
		width:    80,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func (m *Model) OnSubmit(handler func(ctx context.Context, text string)) { m.onSubmit = handler }
func (m *Model) OnReset(handler func())                                  { m.onReset = handler }

// Draft returns the current, unsent input.
func (m Model) Draft() string {
	return m.textarea.Value()
}

func (m Model) Busy() bool {
	return m.busy
}

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyCtrlS:
			return m, m.submit()
		case tea.KeyCtrlR:
			return m, m.reset()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.textarea.SetWidth(max(20, msg.Width-6))
		m.progress.Width = max(10, min(60, msg.Width-30))
		return m, nil

	case busyMsg:
		m.busy = msg.busy
		if m.busy {
			return m, m.spinner.Tick
		}
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case resultMsg:
		result := msg.result
		m.result = &result
		m.revealed = false
		m.revealGen++
		gen := m.revealGen
		return m, tea.Tick(CONFIDENCE_REVEAL_DELAY, func(time.Time) tea.Msg { return revealMsg{gen: gen} })

	case revealMsg:
		if msg.gen == m.revealGen {
			m.revealed = true
		}
		return m, nil

	case notifyMsg:
		n := msg.notification
		m.notice = &n
		m.noticeID++
		id := m.noticeID
		return m, tea.Tick(submission.NOTIFICATION_TTL, func(time.Time) tea.Msg { return dismissMsg{id: id} })

	case dismissMsg:
		if msg.id == m.noticeID {
			m.notice = nil
		}
		return m, nil

	case clearInputMsg:
		m.textarea.Reset()
		return m, m.textarea.Focus()

	case removeResultMsg:
		m.result = nil
		m.revealed = false
		return m, nil

	case HealthMsg:
		m.health = monitoring.Status(msg)
		return m, nil
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m Model) submit() tea.Cmd {
	if m.busy || m.onSubmit == nil {
		return nil
	}
	handler, ctx, text := m.onSubmit, m.ctx, m.textarea.Value()
	return func() tea.Msg {
		handler(ctx, text)
		return nil
	}
}

func (m Model) reset() tea.Cmd {
	if m.onReset == nil {
		return nil
	}
	handler := m.onReset
	return func() tea.Msg {
		handler()
		return nil
	}
}

// CharCount is the character count line, e.g. "1,234 characters".
func (m Model) CharCount() string {
	return m.printer.Sprintf("%d characters", utf8.RuneCountInString(m.textarea.Value()))
}

func (m Model) View() string {
	var b strings.Builder

	header := TitleStyle.Render("Fake News Detector")
	status := healthStyle(m.health == monitoring.StatusReady).Render("● " + m.health.String())
	gap := max(1, m.width-lipgloss.Width(header)-lipgloss.Width(status)-2)
	b.WriteString(header + strings.Repeat(" ", gap) + status + "\n\n")

	b.WriteString(InputStyle.Render(m.textarea.View()) + "\n")
	b.WriteString(MutedStyle.Render(m.CharCount()))
	if m.busy {
		b.WriteString("  " + m.spinner.View() + " Analyzing...")
	}
	b.WriteString("\n")

	if m.result != nil {
		b.WriteString(m.resultView(*m.result) + "\n")
	}

	if m.notice != nil {
		style, icon := InfoNoticeStyle, "ℹ"
		if m.notice.Kind == submission.NotificationError {
			style, icon = ErrorNoticeStyle, "⚠"
		}
		b.WriteString(style.Render(icon+" "+m.notice.Message) + "\n")
	}

	submitHelp := "ctrl+s analyze"
	if m.busy {
		submitHelp = "analyzing..."
	}
	b.WriteString("\n" + HelpStyle.Render(submitHelp+" • ctrl+r reset • esc quit"))
	return b.String()
}

func (m Model) resultView(r submission.RenderedResult) string {
	style, icon := RealStyle, "✓"
	if r.IsFake() {
		style, icon = FakeStyle, "✗"
	}

	confidence, pct := "0%", 0.0
	if m.revealed {
		confidence, pct = r.ConfidenceText(), r.Confidence/100
	}

	lines := []string{
		style.Render(icon + " " + r.Prediction),
		fmt.Sprintf("Confidence %s %s", m.progress.ViewAs(pct), confidence),
		r.Detail,
	}
	if r.Tone != "" {
		lines = append(lines, MutedStyle.Render(fmt.Sprintf("Tone: %s (%.2f)", r.Tone, r.ToneScore)))
	}
	return CardStyle.BorderForeground(style.GetForeground()).Render(strings.Join(lines, "\n"))
}
