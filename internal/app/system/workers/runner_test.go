package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dalemusser/patrohub/internal/app/system/tasks"
	"go.uber.org/zap"
)

func TestRunner_RunsUntilStopped(t *testing.T) {
	var runs atomic.Int32
	r := NewRunner(zap.NewNop(), tasks.Job{
		Name:     "tick",
		Interval: 10 * time.Millisecond,
		Run: func(ctx context.Context) error {
			runs.Add(1)
			return nil
		},
	})

	r.Start(context.Background())
	deadline := time.Now().Add(2 * time.Second)
	for runs.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	r.Stop()

	if runs.Load() < 3 {
		t.Fatalf("job ran %d times, want at least 3", runs.Load())
	}
	after := runs.Load()
	time.Sleep(50 * time.Millisecond)
	if runs.Load() != after {
		t.Error("job kept running after Stop")
	}
}

func TestRunner_ErrorsDoNotStopJob(t *testing.T) {
	var runs atomic.Int32
	r := NewRunner(zap.NewNop(), tasks.Job{
		Name:     "flaky",
		Interval: 10 * time.Millisecond,
		Run: func(ctx context.Context) error {
			runs.Add(1)
			return errors.New("boom")
		},
	})
	r.Start(context.Background())
	deadline := time.Now().Add(2 * time.Second)
	for runs.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	r.Stop()
	if runs.Load() < 2 {
		t.Errorf("job ran %d times, want at least 2", runs.Load())
	}
}

func TestNewRunner_SkipsInvalidJobs(t *testing.T) {
	r := NewRunner(zap.NewNop(),
		tasks.Job{Name: "no-interval", Run: func(context.Context) error { return nil }},
		tasks.Job{Name: "no-run", Interval: time.Second},
	)
	if len(r.jobs) != 0 {
		t.Errorf("kept %d jobs, want 0", len(r.jobs))
	}
	r.Stop() // before Start is a no-op
}
