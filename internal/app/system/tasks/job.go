// internal/app/system/tasks/job.go
package tasks

import (
	"context"
	"time"
)

// Job is a periodic background task.
type Job struct {
	Name     string
	Interval time.Duration
	Timeout  time.Duration // per run; 0 means Interval
	Run      func(ctx context.Context) error
}
