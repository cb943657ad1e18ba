package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tagscraper/pkg/ui"
)

// TagLine is one completed tag shown in the recent list
type TagLine struct {
	N       int
	Tag     string
	Outcome string
	Failed  bool
}

// LogMessage represents a log entry
type LogMessage struct {
	Time    time.Time
	Level   string
	Message string
	Color   lipgloss.TerminalColor
}

// Model is the dashboard state. Bubble Tea serializes Update and View, so
// the model carries no lock.
type Model struct {
	spinner  spinner.Model
	progress progress.Model

	runID     string
	workers   int
	total     int
	completed int
	accepted  int
	skipped   int
	failed    int
	startTime time.Time

	recent    []TagLine
	maxRecent int

	logMessages    []LogMessage
	maxLogMessages int

	finished bool
	stats    ui.RunStats

	width    int
	height   int
	showHelp bool

	// onQuit runs when the user leaves before the run finishes
	onQuit func()
}

// NewModel creates a dashboard model
func NewModel(onQuit func()) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(accentColor)

	p := progress.New(progress.WithDefaultGradient())
	p.Width = 40

	return Model{
		spinner:        s,
		progress:       p,
		startTime:      time.Now(),
		maxRecent:      12,
		maxLogMessages: 50,
		onQuit:         onQuit,
	}
}

// Init starts the spinner
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tickCmd())
}

// StartRun resets counters for a new run
func (m *Model) StartRun(runID string, total, workers int) {
	m.runID = runID
	m.total = total
	m.workers = workers
	m.completed, m.accepted, m.skipped, m.failed = 0, 0, 0, 0
	m.recent = nil
	m.finished = false
	m.startTime = time.Now()
}

// CompleteTag records one finished tag
func (m *Model) CompleteTag(n, total int, tag, outcome string, failed bool) {
	m.completed = n
	if total > 0 {
		m.total = total
	}
	switch {
	case failed:
		m.failed++
	case outcome == "accepted":
		m.accepted++
	default:
		m.skipped++
	}

	m.recent = append(m.recent, TagLine{N: n, Tag: tag, Outcome: outcome, Failed: failed})
	if len(m.recent) > m.maxRecent {
		m.recent = m.recent[len(m.recent)-m.maxRecent:]
	}
}

// FinishRun stores the final tally
func (m *Model) FinishRun(stats ui.RunStats) {
	m.finished = true
	m.stats = stats
}

// AddLogMessage adds a log message
func (m *Model) AddLogMessage(level, message string) {
	m.logMessages = append(m.logMessages, LogMessage{
		Time:    time.Now(),
		Level:   level,
		Message: message,
		Color:   levelColor(level),
	})

	if len(m.logMessages) > m.maxLogMessages {
		m.logMessages = m.logMessages[len(m.logMessages)-m.maxLogMessages:]
	}
}

// Percent returns the completed fraction in [0, 1]
func (m *Model) Percent() float64 {
	if m.total <= 0 {
		return 0
	}
	p := float64(m.completed) / float64(m.total)
	if p > 1 {
		p = 1
	}
	return p
}

// Rate returns completed tags per second
func (m *Model) Rate() float64 {
	elapsed := time.Since(m.startTime).Seconds()
	if elapsed <= 0 || m.completed == 0 {
		return 0
	}
	return float64(m.completed) / elapsed
}

// ETA estimates the remaining time from the current rate
func (m *Model) ETA() time.Duration {
	rate := m.Rate()
	remaining := m.total - m.completed
	if rate <= 0 || remaining <= 0 {
		return 0
	}
	return time.Duration(float64(remaining) / rate * float64(time.Second))
}
