package timeouts

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestConfigure_IgnoresZero(t *testing.T) {
	defer Reset()

	Configure(Config{Short: 7 * time.Second})
	if Short() != 7*time.Second {
		t.Errorf("Short: got %v, want 7s", Short())
	}
	if Medium() != DefaultMedium {
		t.Errorf("Medium: got %v, want default %v", Medium(), DefaultMedium)
	}
}

func TestReset(t *testing.T) {
	Configure(Config{Batch: time.Minute * 5})
	Reset()
	if Batch() != DefaultBatch {
		t.Errorf("Batch after Reset: got %v, want %v", Batch(), DefaultBatch)
	}
}

func TestWithTimeout_Expires(t *testing.T) {
	ctx, cancel := WithTimeout(context.Background(), time.Millisecond, zap.NewNop(), "test")
	defer cancel()
	<-ctx.Done()
	if ctx.Err() != context.DeadlineExceeded {
		t.Errorf("expected DeadlineExceeded, got %v", ctx.Err())
	}
}
