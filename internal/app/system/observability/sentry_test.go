package observability

import (
	"errors"
	"net/http/httptest"
	"testing"
)

func TestInitSentry_EmptyDSNIsNoop(t *testing.T) {
	flush, err := InitSentry("", "dev", "test")
	if err != nil {
		t.Fatalf("InitSentry: %v", err)
	}
	flush()

	// Capturing without a client must not panic.
	CaptureErr(errors.New("boom"))
	CaptureErr(nil)
	CaptureRequestErr(httptest.NewRequest("GET", "/api/children", nil), errors.New("boom"))
}

func TestInitSentry_BadDSN(t *testing.T) {
	if _, err := InitSentry("not a dsn", "dev", "test"); err == nil {
		t.Error("expected error for malformed DSN")
	}
}
