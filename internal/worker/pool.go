package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"tagscraper/pkg/classify"
	"tagscraper/pkg/logger"
)

// MaxWorkers is the largest pool the dispatcher will run
const MaxWorkers = 20

// ErrPoolClosed is returned when submitting to a closed pool
var ErrPoolClosed = errors.New("worker pool is closed")

// Job represents a single classification task
type Job struct {
	Index int
	Tag   string
}

// Result represents the outcome of a job. Err is set when the task
// panicked, in which case Decision is the zero value.
type Result struct {
	Job      Job
	Decision classify.Decision
	Err      error
	Duration time.Duration
	WorkerID int
}

// Failed reports whether the task ended without a decision
func (r Result) Failed() bool {
	return r.Err != nil
}

// Classifier turns a tag into a decision
type Classifier interface {
	Classify(ctx context.Context, tag string) classify.Decision
}

// Pool runs a fixed number of workers over a bounded job queue
type Pool struct {
	numWorkers  int
	jobQueue    chan Job
	resultQueue chan Result
	wg          sync.WaitGroup
	classifier  Classifier
	logger      logger.Logger

	mu     sync.RWMutex
	closed bool
	once   sync.Once
}

// NewPool creates a worker pool. The worker count is clamped to
// [1, MaxWorkers]; a non-positive queue size means twice the worker count.
func NewPool(numWorkers, queueSize int, classifier Classifier, log logger.Logger) *Pool {
	if log == nil {
		log = logger.GetLogger()
	}
	if numWorkers < 1 {
		numWorkers = 1
	} else if numWorkers > MaxWorkers {
		numWorkers = MaxWorkers
	}
	if queueSize <= 0 {
		queueSize = numWorkers * 2
	}

	return &Pool{
		numWorkers:  numWorkers,
		jobQueue:    make(chan Job, queueSize),
		resultQueue: make(chan Result, numWorkers),
		classifier:  classifier,
		logger:      log.WithField("component", "worker_pool"),
	}
}

// Start launches the workers. Tasks run under a context detached from
// ctx's cancellation so queued work can still drain after an interrupt;
// every lookup is bounded by its own request timeout.
func (p *Pool) Start(ctx context.Context) {
	taskCtx := context.WithoutCancel(ctx)

	logger.LogComponentStart(p.logger, "worker_pool", map[string]interface{}{
		"num_workers": p.numWorkers,
		"queue_size":  cap(p.jobQueue),
	})

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(taskCtx, i)
	}
}

// Submit queues a job, blocking while the queue is full. It returns early
// if ctx is done or the pool has been closed.
func (p *Pool) Submit(ctx context.Context, job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.jobQueue <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting jobs, waits for queued jobs to finish and then
// closes the results channel. It is safe to call more than once.
func (p *Pool) Close() {
	p.once.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.jobQueue)
		p.mu.Unlock()

		p.wg.Wait()
		close(p.resultQueue)

		logger.LogComponentStop(p.logger, "worker_pool", "job queue drained")
	})
}

// Results returns the channel results are delivered on. It is closed once
// every submitted job has completed after Close.
func (p *Pool) Results() <-chan Result {
	return p.resultQueue
}

// Workers returns the number of workers
func (p *Pool) Workers() int {
	return p.numWorkers
}

func (p *Pool) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	for job := range p.jobQueue {
		p.resultQueue <- p.processJob(ctx, job, id)
	}

	p.logger.DebugWithFields("Worker stopping - job queue closed", map[string]interface{}{
		"worker_id": id,
	})
}

// processJob classifies one tag, converting a panic into a failed result
func (p *Pool) processJob(ctx context.Context, job Job, workerID int) (result Result) {
	start := time.Now()
	result = Result{Job: job, WorkerID: workerID}

	defer func() {
		result.Duration = time.Since(start)
		if r := recover(); r != nil {
			result.Decision = classify.Decision{}
			result.Err = fmt.Errorf("task panicked: %v", r)
			p.logger.ErrorWithFields("Task panicked", map[string]interface{}{
				"worker_id": workerID,
				"tag":       job.Tag,
				"panic":     fmt.Sprint(r),
				"stack":     string(debug.Stack()),
			})
		}
	}()

	result.Decision = p.classifier.Classify(ctx, job.Tag)

	p.logger.DebugWithFields("Worker completed job", map[string]interface{}{
		"worker_id": workerID,
		"tag":       job.Tag,
		"outcome":   result.Decision.Kind.String(),
	})

	return result
}
