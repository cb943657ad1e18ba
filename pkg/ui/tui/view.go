package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"tagscraper/pkg/ui"
)

// View renders the dashboard
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	width := m.width - 2
	sections := []string{
		headerStyle.Width(m.width).Render("tagscraper · danbooru tag descriptions"),
		m.renderProgressPanel(width),
		m.renderRecentPanel(width),
		m.renderLogsPanel(width),
	}

	if m.showHelp {
		sections = append(sections, m.renderHelp())
	} else {
		sections = append(sections, mutedStyle.Render("q quit · ? help"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderProgressPanel(width int) string {
	status := m.spinner.View() + " dispatching"
	if m.finished {
		status = acceptedStyle.Render("✓ finished")
	}

	title := titleStyle.Render("run " + m.runID)
	counts := fmt.Sprintf("%s %s   %s %s   %s %s   %s %s",
		labelStyle.Render("done"), valueStyle.Render(fmt.Sprintf("%d/%d", m.completed, m.total)),
		labelStyle.Render("accepted"), acceptedStyle.Render(fmt.Sprint(m.accepted)),
		labelStyle.Render("skipped"), skippedStyle.Render(fmt.Sprint(m.skipped)),
		labelStyle.Render("failed"), failedStyle.Render(fmt.Sprint(m.failed)),
	)
	timing := fmt.Sprintf("%s %s   %s %s   %s %s",
		labelStyle.Render("workers"), valueStyle.Render(fmt.Sprint(m.workers)),
		labelStyle.Render("elapsed"), valueStyle.Render(formatDuration(time.Since(m.startTime))),
		labelStyle.Render("eta"), valueStyle.Render(formatDuration(m.ETA())),
	)

	return panelStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left,
		title, status, m.progress.ViewAs(m.Percent()), counts, timing))
}

func (m *Model) renderRecentPanel(width int) string {
	title := titleStyle.Render("recent tags")
	if len(m.recent) == 0 {
		return panelStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, mutedStyle.Render("Waiting for results...")))
	}

	lines := make([]string, 0, len(m.recent))
	for _, line := range m.recent {
		text := ui.FormatProgressLine(line.N, m.total, line.Tag, line.Outcome)
		text = runewidth.Truncate(text, width-4, "…")
		lines = append(lines, outcomeStyle(line).Render(text))
	}
	return panelStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left,
		title, strings.Join(lines, "\n")))
}

func (m *Model) renderLogsPanel(width int) string {
	title := titleStyle.Render("log")

	start := len(m.logMessages) - 6
	if start < 0 {
		start = 0
	}

	var logs []string
	for _, log := range m.logMessages[start:] {
		timestamp := mutedStyle.Render(log.Time.Format("15:04:05"))
		level := lipgloss.NewStyle().Foreground(log.Color).Bold(true).Render(fmt.Sprintf("[%-7s]", log.Level))
		message := runewidth.Truncate(log.Message, width-25, "…")
		logs = append(logs, fmt.Sprintf("%s %s %s", timestamp, level, mutedStyle.Render(message)))
	}

	content := strings.Join(logs, "\n")
	if content == "" {
		content = mutedStyle.Render("No logs yet...")
	}
	return panelStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m *Model) renderHelp() string {
	help := `
  q/Q      - Stop submitting and quit
  ctrl+l   - Clear logs
  ?        - Toggle this help

  ` + acceptedStyle.Render("accepted") + `  - written to the descriptions file
  ` + skippedStyle.Render("skipped") + `   - written to the skipped file
  ` + failedStyle.Render("failed") + `    - task error, no output line
`
	return panelStyle.Width(m.width - 2).Render(help)
}

// formatDuration formats a duration as mm:ss or hh:mm:ss
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
