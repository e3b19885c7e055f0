// internal/app/system/workers/runner.go
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/patrohub/internal/app/system/metrics"
	"github.com/dalemusser/patrohub/internal/app/system/tasks"
	"go.uber.org/zap"
)

// Runner runs each job on its own ticker until Stop.
type Runner struct {
	jobs   []tasks.Job
	log    *zap.Logger
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRunner creates a runner for jobs. Jobs with a non-positive interval or
// nil Run are ignored.
func NewRunner(logger *zap.Logger, jobs ...tasks.Job) *Runner {
	var valid []tasks.Job
	for _, j := range jobs {
		if j.Interval <= 0 || j.Run == nil {
			logger.Warn("skipping invalid job", zap.String("job", j.Name))
			continue
		}
		valid = append(valid, j)
	}
	return &Runner{jobs: valid, log: logger}
}

// Start launches one goroutine per job.
func (w *Runner) Start(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	w.cancel = cancel
	for _, j := range w.jobs {
		w.wg.Add(1)
		go w.loop(ctx, j)
		w.log.Info("job started", zap.String("job", j.Name), zap.Duration("interval", j.Interval))
	}
}

// Stop cancels every job and waits for in-flight runs to return.
func (w *Runner) Stop() {
	if w.cancel == nil {
		return
	}
	w.cancel()
	w.wg.Wait()
	w.log.Info("job runner stopped")
}

func (w *Runner) loop(ctx context.Context, j tasks.Job) {
	defer w.wg.Done()

	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.runOnce(ctx, j)
		}
	}
}

func (w *Runner) runOnce(parent context.Context, j tasks.Job) {
	timeout := j.Timeout
	if timeout <= 0 {
		timeout = j.Interval
	}
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	metrics.JobRuns.WithLabelValues(j.Name).Inc()
	if err := j.Run(ctx); err != nil {
		metrics.JobErrors.WithLabelValues(j.Name).Inc()
		w.log.Error("job failed", zap.String("job", j.Name), zap.Error(err))
	}
}
