package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatProgressLine(t *testing.T) {
	assert.Equal(t, "[3/10] 1girl → accepted", FormatProgressLine(3, 10, "1girl", "accepted"))
}

func TestProgressDisplayLines(t *testing.T) {
	SetColorEnabled(false)
	var buf bytes.Buffer
	p := NewProgressDisplay(&buf, 0, false)

	p.RunStarted("01HRUN", 2, 5)
	p.TagCompleted(1, 2, "1girl", "accepted", false)
	p.TagCompleted(2, 2, "some_nonexistent_tag_xyz", "skipped (no description)", false)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "2 tags with 5 workers")
	assert.Equal(t, "[1/2] 1girl → accepted", lines[1])
	assert.Equal(t, "[2/2] some_nonexistent_tag_xyz → skipped (no description)", lines[2])
}

func TestProgressDisplayTruncatesWideLines(t *testing.T) {
	SetColorEnabled(false)
	var buf bytes.Buffer
	p := NewProgressDisplay(&buf, 20, false)

	p.TagCompleted(1, 1, "初音ミク_very_long_tag_name", "skipped (category 4)", false)

	line := strings.TrimSuffix(buf.String(), "\n")
	assert.True(t, strings.HasSuffix(line, "…"))
	assert.LessOrEqual(t, runewidth.StringWidth(line), 20)
}

func TestProgressDisplayQuiet(t *testing.T) {
	SetColorEnabled(false)
	var buf bytes.Buffer
	p := NewProgressDisplay(&buf, 0, true)

	p.RunStarted("id", 1, 1)
	p.TagCompleted(1, 1, "tag", "accepted", false)
	p.LogInfo("hidden %d", 1)
	assert.Empty(t, buf.String())

	p.LogError("shown %s", "always")
	p.RunFinished(RunStats{Total: 1, Accepted: 1, AcceptedPath: "a.txt", SkippedPath: "s.txt"})
	out := buf.String()
	assert.Contains(t, out, "shown always")
	assert.Contains(t, out, "Processed 1 of 1 tags")
}

func TestProgressDisplaySummary(t *testing.T) {
	SetColorEnabled(false)
	var buf bytes.Buffer
	p := NewProgressDisplay(&buf, 0, false)

	p.RunFinished(RunStats{
		Total:                10,
		Accepted:             4,
		SkippedCategory:      3,
		SkippedNoDescription: 2,
		Failed:               1,
		AcceptedPath:         "outputs/general_tag_descriptions.txt",
		SkippedPath:          "outputs/skipped_tags.txt",
		Elapsed:              90 * time.Second,
	})

	out := buf.String()
	assert.Contains(t, out, "Processed 10 of 10 tags in 1m30s")
	assert.Contains(t, out, "accepted: 4 → outputs/general_tag_descriptions.txt")
	assert.Contains(t, out, "skipped:  5 (category 3, no description 2)")
	assert.Contains(t, out, "failed: 1")
}

func TestRunStats(t *testing.T) {
	s := RunStats{Accepted: 2, SkippedCategory: 1, SkippedNoDescription: 3, Failed: 1}
	assert.Equal(t, 4, s.Skipped())
	assert.Equal(t, 7, s.Completed())
}

func TestColorize(t *testing.T) {
	SetColorEnabled(true)
	defer SetColorEnabled(false)
	assert.Equal(t, "\033[32mok\033[0m", Green("ok"))

	SetColorEnabled(false)
	assert.Equal(t, "ok", Green("ok"))
}

func TestPrintHelpersRespectQuiet(t *testing.T) {
	SetColorEnabled(false)
	var buf bytes.Buffer
	prev := Output()
	SetOutput(&buf)
	defer SetOutput(prev)

	SetQuietMode(true)
	PrintInfo("label", "value")
	PrintSuccess("done")
	PrintError("failed", errors.New("boom"))
	SetQuietMode(false)
	PrintInfo("label", "value")

	assert.Equal(t, "failed: boom\nlabel: value\n", buf.String())
}

type recordingSender struct {
	titles   []string
	messages []string
}

func (r *recordingSender) Send(title, message string) error {
	r.titles = append(r.titles, title)
	r.messages = append(r.messages, message)
	return nil
}

func TestNotifier(t *testing.T) {
	sender := &recordingSender{}

	disabled := NewNotifierWithSender(sender, false)
	require.NoError(t, disabled.NotifyRunFinished(RunStats{Total: 1}))
	assert.Empty(t, sender.titles)

	enabled := NewNotifierWithSender(sender, true)
	require.NoError(t, enabled.NotifyRunFinished(RunStats{Total: 5, Accepted: 3, SkippedCategory: 1, Failed: 1}))
	require.Len(t, sender.titles, 1)
	assert.Equal(t, "tagscraper: run finished with failures", sender.titles[0])
	assert.Equal(t, "3 accepted, 1 skipped, 1 failed of 5 tags", sender.messages[0])

	var nilNotifier *Notifier
	assert.False(t, nilNotifier.Enabled())
}
