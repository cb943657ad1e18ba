// Package scraper runs a tag list through the classifier on a bounded
// worker pool and writes every outcome to one of two output files.
//
// A run moves through the states Idle, Loading, Dispatching, Draining and
// Done:
//
//	s := scraper.NewFromConfig(cfg, log)
//	s.SetReporter(ui.NewTerminalProgressDisplay())
//
//	summary, err := s.Run(ctx, "tags.txt")
//	if err != nil && !errors.Is(err, context.Canceled) {
//	    log.Fatal(err.Error())
//	}
//
// Submission is paced by a token bucket and blocks while the job queue is
// full. Workers send results to a single collector goroutine, which owns
// both output files and the progress counter, so no locking is needed
// around them. Lines within a file follow completion order.
//
// Cancelling ctx stops submission. Tags already queued are still
// classified and written, then the files are closed and Run returns the
// partial summary with the context error.
//
// CheckTags is a lighter batch mode that only resolves categories and
// splits a list into general and non-general tags.
package scraper
