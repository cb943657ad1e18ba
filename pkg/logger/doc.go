// Package logger provides structured logging for the tag scraper.
//
// It wraps zerolog behind a small Logger interface so packages can accept
// a logger without depending on zerolog directly. Console output goes to
// stderr; when a log file is configured events are also appended there.
//
//	if err := logger.Initialize(&cfg.Logging); err != nil {
//	    return err
//	}
//	log := logger.GetLogger().WithField("component", "dispatcher")
//	log.InfoWithFields("Run started", map[string]interface{}{
//	    "workers": 5,
//	    "tags":    1200,
//	})
//
// Tests use NewTestLogger to capture messages or NewNopLogger to discard
// them.
package logger
