package ui

import "github.com/charmbracelet/lipgloss"

var (
	Foreground  = lipgloss.AdaptiveColor{Light: "#101F38", Dark: "#f2f2f2"}
	Muted       = lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#8a94a6"}
	Border      = lipgloss.AdaptiveColor{Light: "#dce0e5", Dark: "#2a3850"}
	Destructive = lipgloss.Color("#e53935")
	Success     = lipgloss.Color("#8BC34A")
	Warning     = lipgloss.Color("#ffb300")
)

var (
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(Foreground)
	MutedStyle = lipgloss.NewStyle().Foreground(Muted)
	HelpStyle  = lipgloss.NewStyle().Foreground(Muted).Italic(true)

	InputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 1)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			MarginTop(1)

	FakeStyle = lipgloss.NewStyle().Bold(true).Foreground(Destructive)
	RealStyle = lipgloss.NewStyle().Bold(true).Foreground(Success)

	ErrorNoticeStyle = lipgloss.NewStyle().Foreground(Destructive).Bold(true).MarginTop(1)
	InfoNoticeStyle  = lipgloss.NewStyle().Foreground(Warning).MarginTop(1)
)

func healthStyle(ready bool) lipgloss.Style {
	if ready {
		return lipgloss.NewStyle().Foreground(Success)
	}
	return lipgloss.NewStyle().Foreground(Warning)
}
