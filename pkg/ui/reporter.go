package ui

import "time"

// RunStats is the final tally of a scrape run
type RunStats struct {
	RunID                string
	Total                int
	Accepted             int
	SkippedCategory      int
	SkippedNoDescription int
	Failed               int
	AcceptedPath         string
	SkippedPath          string
	Elapsed              time.Duration
}

// Skipped returns the number of tags written to the skipped file
func (s RunStats) Skipped() int {
	return s.SkippedCategory + s.SkippedNoDescription
}

// Completed returns the number of tags that produced an outcome
func (s RunStats) Completed() int {
	return s.Accepted + s.Skipped() + s.Failed
}

// Reporter receives progress events from the dispatcher. Calls come from
// a single goroutine, in completion order.
type Reporter interface {
	RunStarted(runID string, total, workers int)
	TagCompleted(n, total int, tag, outcome string, failed bool)
	RunFinished(stats RunStats)
	LogInfo(format string, args ...interface{})
	LogWarning(format string, args ...interface{})
	LogError(format string, args ...interface{})
}
