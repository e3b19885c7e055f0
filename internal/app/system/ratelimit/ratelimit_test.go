package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiter_Allow(t *testing.T) {
	l := New(2, time.Minute)
	defer l.Stop()

	if !l.Allow("a") || !l.Allow("a") {
		t.Fatal("first two requests should pass")
	}
	if l.Allow("a") {
		t.Error("third request should be refused")
	}
	if !l.Allow("b") {
		t.Error("other keys are independent")
	}
	if got := l.Remaining("a"); got != 0 {
		t.Errorf("Remaining: got %d, want 0", got)
	}
}

func TestLimiter_WindowExpires(t *testing.T) {
	l := New(1, time.Minute)
	defer l.Stop()
	now := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.Allow("a")
	if l.Allow("a") {
		t.Fatal("second request inside window should be refused")
	}
	now = now.Add(61 * time.Second)
	if !l.Allow("a") {
		t.Error("request after window should pass")
	}
}

func TestLimiter_Reset(t *testing.T) {
	l := New(1, time.Minute)
	defer l.Stop()
	l.Allow("a")
	l.Reset("a")
	if l.Remaining("a") != 1 {
		t.Error("Reset should restore the full allowance")
	}
}

func TestMiddleware(t *testing.T) {
	l := New(1, time.Minute)
	defer l.Stop()
	h := Middleware(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest("POST", "/api/inscriptions", nil)
	req.RemoteAddr = "10.0.0.1:4000"

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first: got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("second: got %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "60" {
		t.Errorf("Retry-After: got %q", rec.Header().Get("Retry-After"))
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		xff    string
		xri    string
		remote string
		want   string
	}{
		{"forwarded for", "1.2.3.4, 5.6.7.8", "", "9.9.9.9:1", "1.2.3.4"},
		{"real ip", "", "2.2.2.2", "9.9.9.9:1", "2.2.2.2"},
		{"remote addr", "", "", "9.9.9.9:1", "9.9.9.9"},
		{"remote without port", "", "", "9.9.9.9", "9.9.9.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}
			if got := ClientIP(r); got != tt.want {
				t.Errorf("ClientIP: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoginLimiter(t *testing.T) {
	ll := NewLoginLimiter(10, time.Minute)
	defer ll.Stop()

	req := httptest.NewRequest("POST", "/login", nil)
	for i := 0; i < 5; i++ {
		if ok, _ := ll.Check(req, "Admin@Patro.be"); !ok {
			t.Fatalf("attempt %d refused too early", i+1)
		}
	}
	if ok, msg := ll.Check(req, "admin@patro.be"); ok || msg == "" {
		t.Error("sixth attempt for the same email should be refused with a message")
	}
	ll.ResetEmail("ADMIN@patro.be")
	if ok, _ := ll.Check(req, "admin@patro.be"); !ok {
		t.Error("attempt after ResetEmail should pass")
	}
}
