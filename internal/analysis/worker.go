// Package analysis owns the asynchronous boundary between the
// interactive layer and the calculation core: a background worker that
// executes strategy calculations off the request path and hands results
// back through a polled queue.
package analysis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/topovision/topovision/internal/calculus"
	"github.com/topovision/topovision/internal/monitoring"
)

// Job is one queued calculation: a strategy name plus the data and
// parameters to pass through the dispatcher.
type Job struct {
	ID       string
	Strategy string
	Data     any
	Params   calculus.Params
}

// Outcome is the terminal state of a job. Exactly one of Result/Err is
// set; calculation errors and worker panics both arrive here rather than
// crashing the worker.
type Outcome struct {
	JobID    string
	Strategy string
	Result   calculus.Result
	Err      error
	Elapsed  time.Duration
}

// Worker runs calculations on a single background goroutine. Submissions
// queue up to the configured depth and are never silently dropped: a
// full queue is reported to the submitter. Results are delivered one at
// a time through Poll.
type Worker struct {
	jobs    chan Job
	results chan Outcome

	startOnce sync.Once
	stopOnce  sync.Once
	done      chan struct{}

	logf func(format string, v ...interface{})
}

// NewWorker returns a worker with the given submission queue depth.
func NewWorker(queueDepth int) *Worker {
	if queueDepth <= 0 {
		queueDepth = 8
	}
	return &Worker{
		jobs: make(chan Job, queueDepth),
		// Results buffer as deep as the job queue so a slow poller
		// cannot stall the calculation goroutine.
		results: make(chan Outcome, queueDepth),
		done:    make(chan struct{}),
		logf:    monitoring.Component("AnalysisWorker"),
	}
}

// Start launches the calculation goroutine. Cancelling ctx stops intake;
// the job in progress always runs to completion.
func (w *Worker) Start(ctx context.Context) {
	w.startOnce.Do(func() {
		go w.run(ctx)
	})
}

// Stop ends intake and lets the worker drain. Safe to call more than
// once.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.done) })
}

// Submit queues a job. It fails when the worker has stopped or the queue
// is full, so callers always learn the fate of a submission.
func (w *Worker) Submit(job Job) error {
	select {
	case <-w.done:
		return fmt.Errorf("worker stopped")
	default:
	}
	select {
	case w.jobs <- job:
		return nil
	default:
		return fmt.Errorf("analysis queue full (%d pending)", cap(w.jobs))
	}
}

// Poll returns the next buffered outcome, if any. Non-blocking; the
// interactive layer calls this periodically.
func (w *Worker) Poll() (Outcome, bool) {
	select {
	case out := <-w.results:
		return out, true
	default:
		return Outcome{}, false
	}
}

func (w *Worker) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case job := <-w.jobs:
			out := w.execute(job)
			if out.Err != nil {
				w.logf("job %s (%s) failed after %v: %v", job.ID, job.Strategy, out.Elapsed, out.Err)
			} else {
				w.logf("job %s (%s) completed in %v", job.ID, job.Strategy, out.Elapsed)
			}
			select {
			case w.results <- out:
			case <-ctx.Done():
				return
			case <-w.done:
				return
			}
		}
	}
}

// execute runs one job through a fresh dispatcher, converting panics in
// calculator code into failed outcomes.
func (w *Worker) execute(job Job) (out Outcome) {
	start := time.Now()
	out = Outcome{JobID: job.ID, Strategy: job.Strategy}
	defer func() {
		out.Elapsed = time.Since(start)
		if r := recover(); r != nil {
			out.Result = nil
			out.Err = fmt.Errorf("calculation panicked: %v", r)
		}
	}()

	ctx := calculus.NewAnalysisContext()
	if err := ctx.SetStrategy(job.Strategy); err != nil {
		out.Err = err
		return out
	}
	out.Result, out.Err = ctx.Calculate(job.Data, job.Params)
	return out
}
