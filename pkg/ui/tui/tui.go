package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"tagscraper/pkg/ui"
)

// TUI is a full-screen dashboard that implements ui.Reporter
type TUI struct {
	program *tea.Program
	model   *Model
}

var _ ui.Reporter = (*TUI)(nil)

// NewTUI creates a dashboard. onQuit is called when the user quits before
// the run finishes; callers typically pass a context cancel func.
func NewTUI(onQuit func(), opts ...tea.ProgramOption) *TUI {
	model := NewModel(onQuit)
	if len(opts) == 0 {
		opts = []tea.ProgramOption{tea.WithAltScreen()}
	}
	program := tea.NewProgram(&model, opts...)

	return &TUI{
		program: program,
		model:   &model,
	}
}

// Start runs the dashboard until the run finishes or the user quits
func (t *TUI) Start() error {
	_, err := t.program.Run()
	return err
}

// Stop stops the TUI
func (t *TUI) Stop() {
	t.program.Quit()
}

// Send sends a message to the TUI. It is a no-op once the program exits.
func (t *TUI) Send(msg tea.Msg) {
	if t.program != nil {
		t.program.Send(msg)
	}
}

func (t *TUI) RunStarted(runID string, total, workers int) {
	t.Send(RunStartedMsg{RunID: runID, Total: total, Workers: workers})
}

func (t *TUI) TagCompleted(n, total int, tag, outcome string, failed bool) {
	t.Send(TagCompletedMsg{N: n, Total: total, Tag: tag, Outcome: outcome, Failed: failed})
}

func (t *TUI) RunFinished(stats ui.RunStats) {
	t.Send(RunFinishedMsg{Stats: stats})
}

// Log sends a log message to the TUI
func (t *TUI) Log(level, format string, args ...interface{}) {
	t.Send(LogMsg{Level: level, Message: fmt.Sprintf(format, args...)})
}

func (t *TUI) LogInfo(format string, args ...interface{}) {
	t.Log("INFO", format, args...)
}

func (t *TUI) LogWarning(format string, args ...interface{}) {
	t.Log("WARN", format, args...)
}

func (t *TUI) LogError(format string, args ...interface{}) {
	t.Log("ERROR", format, args...)
}
