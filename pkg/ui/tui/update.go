package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"tagscraper/pkg/ui"
)

// RunStartedMsg is sent when dispatch begins
type RunStartedMsg struct {
	RunID   string
	Total   int
	Workers int
}

// TagCompletedMsg is sent for every tag outcome
type TagCompletedMsg struct {
	N       int
	Total   int
	Tag     string
	Outcome string
	Failed  bool
}

// RunFinishedMsg is sent once the run is over
type RunFinishedMsg struct {
	Stats ui.RunStats
}

// LogMsg is sent to add a log message
type LogMsg struct {
	Level   string
	Message string
}

// TickMsg is sent periodically to refresh elapsed time and ETA
type TickMsg time.Time

// Update handles all messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = progressWidth(msg.Width)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case TickMsg:
		if m.finished {
			return m, nil
		}
		return m, tickCmd()

	case RunStartedMsg:
		m.StartRun(msg.RunID, msg.Total, msg.Workers)
		return m, nil

	case TagCompletedMsg:
		m.CompleteTag(msg.N, msg.Total, msg.Tag, msg.Outcome, msg.Failed)
		return m, nil

	case RunFinishedMsg:
		m.FinishRun(msg.Stats)
		return m, tea.Quit

	case LogMsg:
		m.AddLogMessage(msg.Level, msg.Message)
		return m, nil
	}

	return m, nil
}

// handleKeyPress handles keyboard input
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q", "ctrl+c":
		if !m.finished && m.onQuit != nil {
			m.onQuit()
		}
		return m, tea.Quit

	case "?":
		m.showHelp = !m.showHelp
		return m, nil

	case "ctrl+l":
		m.logMessages = nil
		return m, nil
	}

	return m, nil
}

func progressWidth(termWidth int) int {
	w := termWidth - 10
	if w > 80 {
		w = 80
	}
	if w < 10 {
		w = 10
	}
	return w
}

// tickCmd returns a command that sends a tick message
func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*250, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
