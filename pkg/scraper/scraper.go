package scraper

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"tagscraper/internal/worker"
	"tagscraper/pkg/classify"
	"tagscraper/pkg/config"
	"tagscraper/pkg/danbooru"
	"tagscraper/pkg/logger"
	"tagscraper/pkg/ratelimit"
	"tagscraper/pkg/storage"
	"tagscraper/pkg/ui"
)

// State is the dispatcher lifecycle stage
type State int

const (
	StateIdle State = iota
	StateLoading
	StateDispatching
	StateDraining
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateDispatching:
		return "dispatching"
	case StateDraining:
		return "draining"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Summary is the final tally of a run
type Summary = ui.RunStats

// Scraper reads a tag list, classifies every tag on a worker pool and
// writes the outcomes to the accepted and skipped files
type Scraper struct {
	classifier worker.Classifier
	config     *config.Config
	limiter    ratelimit.Limiter
	reporter   ui.Reporter
	notifier   *ui.Notifier
	logger     logger.Logger

	mu    sync.RWMutex
	state State
}

// New creates a Scraper that classifies tags with classifier
func New(cfg *config.Config, classifier worker.Classifier, log logger.Logger) *Scraper {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if log == nil {
		log = logger.GetLogger()
	}

	return &Scraper{
		classifier: classifier,
		config:     cfg,
		limiter:    ratelimit.NewTokenBucket(cfg.Dispatch.SubmitInterval, 1),
		reporter:   nopReporter{},
		notifier:   ui.NewNotifier(cfg.Notifications.Enabled),
		logger:     log.WithField("component", "scraper"),
	}
}

// NewFromConfig wires a Danbooru client and classifier from cfg
func NewFromConfig(cfg *config.Config, log logger.Logger) *Scraper {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	client := danbooru.NewClientFromConfig(&cfg.Danbooru, log)
	return New(cfg, classify.New(client), log)
}

// SetReporter sets where progress events go. A nil reporter discards them.
func (s *Scraper) SetReporter(r ui.Reporter) {
	if r == nil {
		r = nopReporter{}
	}
	s.reporter = r
}

// SetNotifier replaces the completion notifier
func (s *Scraper) SetNotifier(n *ui.Notifier) {
	s.notifier = n
}

// SetLimiter replaces the submission pacing limiter
func (s *Scraper) SetLimiter(l ratelimit.Limiter) {
	s.limiter = l
}

// State returns the current lifecycle stage
func (s *Scraper) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Scraper) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()

	s.logger.DebugWithFields("State changed", map[string]interface{}{
		"state": state.String(),
	})
}

// Run processes every tag in inputPath. A missing or unreadable input is
// returned before any output file is created. When ctx is cancelled no
// further tags are submitted, queued tags still complete and the summary
// is returned together with the context error.
func (s *Scraper) Run(ctx context.Context, inputPath string) (Summary, error) {
	start := time.Now()
	runID := NewRunID()
	log := s.logger.WithField("run_id", runID)

	summary := Summary{
		RunID:        runID,
		AcceptedPath: s.config.Output.AcceptedPath(),
		SkippedPath:  s.config.Output.SkippedPath(),
	}

	s.setState(StateLoading)
	tags, err := storage.LoadTags(inputPath)
	if err != nil {
		s.setState(StateIdle)
		return summary, fmt.Errorf("load tags: %w", err)
	}
	summary.Total = len(tags)

	manager, err := storage.NewManager(s.config.Output.Directory)
	if err != nil {
		s.setState(StateIdle)
		return summary, fmt.Errorf("prepare output directory: %w", err)
	}
	accepted, err := manager.CreateSink(s.config.Output.AcceptedFile, storage.AcceptedHeader)
	if err != nil {
		s.setState(StateIdle)
		return summary, err
	}
	skipped, err := manager.CreateSink(s.config.Output.SkippedFile, storage.SkippedHeader)
	if err != nil {
		accepted.Close()
		s.setState(StateIdle)
		return summary, err
	}

	pool := worker.NewPool(s.config.Dispatch.Workers, s.config.Dispatch.QueueCapacity(), s.classifier, log)

	log.InfoWithFields("Starting run", map[string]interface{}{
		"input":      inputPath,
		"tags":       len(tags),
		"workers":    pool.Workers(),
		"output_dir": manager.OutputDir(),
	})
	s.reporter.RunStarted(runID, len(tags), pool.Workers())

	s.setState(StateDispatching)
	pool.Start(ctx)

	var g errgroup.Group

	g.Go(func() error {
		defer func() {
			s.setState(StateDraining)
			pool.Close()
		}()
		return s.submitAll(ctx, pool, tags)
	})

	g.Go(func() error {
		s.collect(pool.Results(), accepted, skipped, &summary, log)
		return nil
	})

	runErr := g.Wait()

	for _, sink := range []*storage.Sink{accepted, skipped} {
		if err := sink.Close(); err != nil {
			log.WithError(err).WithField("path", sink.Path()).Error("Failed to close output file")
		}
	}

	summary.Elapsed = time.Since(start)
	s.setState(StateDone)

	logger.LogMetrics(log, "run", map[string]interface{}{
		"total":                  summary.Total,
		"completed":              summary.Completed(),
		"accepted":               summary.Accepted,
		"skipped_category":       summary.SkippedCategory,
		"skipped_no_description": summary.SkippedNoDescription,
		"failed":                 summary.Failed,
		"elapsed_ms":             summary.Elapsed.Milliseconds(),
	})
	s.reporter.RunFinished(summary)

	if s.config.Notifications.OnComplete {
		if err := s.notifier.NotifyRunFinished(summary); err != nil {
			log.WithError(err).Debug("Desktop notification failed")
		}
	}

	if runErr != nil {
		log.WithError(runErr).Warn("Run interrupted; queued tags were drained")
		s.reporter.LogWarning("Run interrupted after %d of %d tags", summary.Completed(), summary.Total)
	}
	return summary, runErr
}

// submitAll feeds tags to the pool, paced by the limiter. It stops at the
// first context error.
func (s *Scraper) submitAll(ctx context.Context, pool *worker.Pool, tags []string) error {
	for i, tag := range tags {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
		if err := pool.Submit(ctx, worker.Job{Index: i, Tag: tag}); err != nil {
			if errors.Is(err, worker.ErrPoolClosed) {
				return nil
			}
			return err
		}
	}
	return nil
}

// collect is the only goroutine that touches the sinks and the counters
func (s *Scraper) collect(results <-chan worker.Result, accepted, skipped *storage.Sink, summary *Summary, log logger.Logger) {
	completed := 0

	for result := range results {
		completed++
		tag := result.Job.Tag
		outcome := result.Decision.Outcome()
		failed := result.Failed()

		if failed {
			outcome = "failed"
			logger.LogDecision(log, tag, outcome, -1, result.Err)
		} else {
			entry, ok := storage.FormatDecision(result.Decision)
			sink := skipped
			if ok {
				sink = accepted
			}

			if err := sink.Append(entry); err != nil {
				failed = true
				outcome = "failed"
				logger.LogDecision(log, tag, outcome, -1, err)
			} else {
				category := -1
				if result.Decision.Kind == classify.KindSkippedCategory {
					category = result.Decision.Category
				}
				logger.LogDecision(log, tag, outcome, category, nil)
			}
		}

		switch {
		case failed:
			summary.Failed++
		case result.Decision.Kind == classify.KindAccepted:
			summary.Accepted++
		case result.Decision.Kind == classify.KindSkippedCategory:
			summary.SkippedCategory++
		default:
			summary.SkippedNoDescription++
		}

		s.reporter.TagCompleted(completed, summary.Total, tag, outcome, failed)
	}
}

var (
	entropyMu sync.Mutex
	entropy   io.Reader = ulid.Monotonic(rand.Reader, 0)
)

// NewRunID returns a new lexically sortable run identifier
func NewRunID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

type nopReporter struct{}

func (nopReporter) RunStarted(string, int, int)                {}
func (nopReporter) TagCompleted(int, int, string, string, bool) {}
func (nopReporter) RunFinished(ui.RunStats)                    {}
func (nopReporter) LogInfo(string, ...interface{})             {}
func (nopReporter) LogWarning(string, ...interface{})          {}
func (nopReporter) LogError(string, ...interface{})            {}
