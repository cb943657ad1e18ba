package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Colors follow the outcome of a tag rather than the widget they appear in
var (
	accentColor   = lipgloss.AdaptiveColor{Light: "#005F87", Dark: "#5FD7FF"}
	acceptedColor = lipgloss.AdaptiveColor{Light: "#00875F", Dark: "#87D787"}
	skippedColor  = lipgloss.AdaptiveColor{Light: "#767676", Dark: "#9E9E9E"}
	failedColor   = lipgloss.AdaptiveColor{Light: "#AF0000", Dark: "#FF5F5F"}
	warnColor     = lipgloss.AdaptiveColor{Light: "#AF5F00", Dark: "#FFAF5F"}
	mutedColor    = lipgloss.AdaptiveColor{Light: "#A8A8A8", Dark: "#585858"}
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(accentColor).Bold(true).Align(lipgloss.Center).MarginBottom(1)
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(mutedColor).Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(skippedColor)
	valueStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(mutedColor)

	acceptedStyle = lipgloss.NewStyle().Foreground(acceptedColor)
	skippedStyle  = lipgloss.NewStyle().Foreground(skippedColor)
	failedStyle   = lipgloss.NewStyle().Foreground(failedColor).Bold(true)
)

// outcomeStyle picks the style for a tag line
func outcomeStyle(line TagLine) lipgloss.Style {
	switch {
	case line.Failed:
		return failedStyle
	case line.Outcome == "accepted":
		return acceptedStyle
	default:
		return skippedStyle
	}
}

// levelColor maps a log level to its color
func levelColor(level string) lipgloss.TerminalColor {
	switch level {
	case "ERROR":
		return failedColor
	case "WARN":
		return warnColor
	case "SUCCESS":
		return acceptedColor
	case "INFO":
		return accentColor
	default:
		return skippedColor
	}
}
