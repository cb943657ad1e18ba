package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-runewidth"
)

// ProgressDisplay prints one line per completed tag followed by a summary
type ProgressDisplay struct {
	mu        sync.Mutex
	out       io.Writer
	width     int
	quiet     bool
	startTime time.Time
}

// NewProgressDisplay creates a progress display writing to out. Lines are
// truncated to width display columns; zero disables truncation.
func NewProgressDisplay(out io.Writer, width int, quiet bool) *ProgressDisplay {
	return &ProgressDisplay{
		out:       out,
		width:     width,
		quiet:     quiet,
		startTime: time.Now(),
	}
}

// NewTerminalProgressDisplay creates a display for the current terminal
func NewTerminalProgressDisplay() *ProgressDisplay {
	width := 0
	if IsTerminal(os.Stdout) {
		width = TerminalWidth(120)
	}
	return NewProgressDisplay(Output(), width, IsQuietMode())
}

// RunStarted prints the run header
func (p *ProgressDisplay) RunStarted(runID string, total, workers int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.startTime = time.Now()
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, "%s %d tags with %d workers %s\n",
		Cyan("Processing"), total, workers, Dim("(run "+runID+")"))
}

// TagCompleted prints the progress line for one tag
func (p *ProgressDisplay) TagCompleted(n, total int, tag, outcome string, failed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.quiet {
		return
	}

	line := FormatProgressLine(n, total, tag, outcome)
	if p.width > 0 {
		line = runewidth.Truncate(line, p.width, "…")
	}

	switch {
	case failed:
		line = Red(line)
	case strings.HasPrefix(outcome, "accepted"):
		line = Green(line)
	default:
		line = Dim(line)
	}
	fmt.Fprintln(p.out, line)
}

// FormatProgressLine renders "[n/total] tag → outcome"
func FormatProgressLine(n, total int, tag, outcome string) string {
	return fmt.Sprintf("[%d/%d] %s → %s", n, total, tag, outcome)
}

// RunFinished prints the final summary. It is printed even in quiet mode.
func (p *ProgressDisplay) RunFinished(stats RunStats) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.out, "\n%s Processed %d of %d tags in %s\n",
		Green("✓"), stats.Completed(), stats.Total, formatDuration(stats.Elapsed))
	fmt.Fprintf(p.out, "  %s accepted: %d → %s\n", Dim("•"), stats.Accepted, stats.AcceptedPath)
	fmt.Fprintf(p.out, "  %s skipped:  %d (category %d, no description %d) → %s\n",
		Dim("•"), stats.Skipped(), stats.SkippedCategory, stats.SkippedNoDescription, stats.SkippedPath)
	if stats.Failed > 0 {
		fmt.Fprintf(p.out, "  %s %s\n", Dim("•"), Red(fmt.Sprintf("failed: %d", stats.Failed)))
	}
}

func (p *ProgressDisplay) LogInfo(format string, args ...interface{}) {
	p.print(Cyan("•"), format, args...)
}

func (p *ProgressDisplay) LogWarning(format string, args ...interface{}) {
	p.print(Yellow("⚠"), format, args...)
}

func (p *ProgressDisplay) LogError(format string, args ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "%s %s\n", Red("✗"), fmt.Sprintf(format, args...))
}

func (p *ProgressDisplay) print(prefix, format string, args ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", prefix, fmt.Sprintf(format, args...))
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
	}
}
