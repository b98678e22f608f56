package jobs

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/serenity-app/serenity-backend/internal/logger"
	"github.com/serenity-app/serenity-backend/internal/utils"
)

// Runner executes fire-and-forget jobs with bounded concurrency. Callers do
// not await results; failures are logged and otherwise dropped.
type Runner struct {
	log     *logger.Logger
	sem     chan struct{}
	timeout time.Duration

	mu     sync.Mutex
	wg     sync.WaitGroup
	closed bool
}

func NewRunner(baseLog *logger.Logger) *Runner {
	log := baseLog.With("service", "JobRunner")
	concurrency := utils.GetEnvAsInt("WORKER_CONCURRENCY", 4, baseLog)
	if concurrency < 1 {
		concurrency = 1
	}
	timeoutMin := utils.GetEnvAsInt("JOB_TIMEOUT_MINUTES", 15, baseLog)
	return &Runner{
		log:     log,
		sem:     make(chan struct{}, concurrency),
		timeout: time.Duration(timeoutMin) * time.Minute,
	}
}

// Dispatch schedules fn on a worker goroutine. The job gets its own context
// detached from the caller's request, bounded by the runner timeout. Returns
// false if the runner is already closed.
func (r *Runner) Dispatch(name string, fn func(ctx context.Context) error) bool {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		r.log.Warn("Dispatch after close rejected", "job", name)
		return false
	}
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()
		r.sem <- struct{}{}
		defer func() { <-r.sem }()

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		start := time.Now()
		if err := r.invoke(ctx, fn); err != nil {
			r.log.Error("Job failed", "job", name, "duration", time.Since(start), "error", err)
			return
		}
		r.log.Info("Job finished", "job", name, "duration", time.Since(start))
	}()
	return true
}

func (r *Runner) invoke(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v\n%s", rec, debug.Stack())
		}
	}()
	return fn(ctx)
}

// Close stops accepting new jobs and waits for in-flight ones to drain.
func (r *Runner) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.wg.Wait()
}
