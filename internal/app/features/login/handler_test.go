package login_test

import (
	"net/http"
	"testing"
	"time"

	uierrors "github.com/dalemusser/patrohub/internal/app/features/errors"
	"github.com/dalemusser/patrohub/internal/app/features/login"
	"github.com/dalemusser/patrohub/internal/app/store/audit"
	"github.com/dalemusser/patrohub/internal/app/system/auditlog"
	"github.com/dalemusser/patrohub/internal/app/system/auth"
	"github.com/dalemusser/patrohub/internal/app/system/ratelimit"
	"github.com/dalemusser/patrohub/internal/domain/models"
	"github.com/dalemusser/patrohub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, limiter *ratelimit.LoginLimiter) (*login.Handler, *testutil.Fixtures, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	sessionMgr, err := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "test-session", "", time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	al := auditlog.New(audit.New(db), logger, auditlog.Config{})
	handler := login.NewHandler(db, sessionMgr, limiter, uierrors.NewErrorLogger(logger), al, logger)
	return handler, testutil.NewFixtures(t, db), db
}

func post(t *testing.T, h *login.Handler, email, password string) *testutil.ResponseRecorder {
	t.Helper()
	rec := testutil.NewRecorder()
	req := testutil.NewJSONRequest(t, http.MethodPost, "/login", map[string]string{"email": email, "password": password})
	h.HandleLoginPost(rec, req)
	return rec
}

func TestHandleLoginPost_Success(t *testing.T) {
	h, fx, db := newTestHandler(t, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := models.GroupFilles
	fx.CreateUser(ctx, "presidente@patro.be", "s3cret-pass", models.RolePresidentFilles, &g)

	rec := post(t, h, "  Presidente@Patro.be ", "s3cret-pass")
	rec.AssertStatus(t, http.StatusOK)

	var got login.UserResponse
	rec.DecodeJSON(t, &got)
	if got.Email != "presidente@patro.be" || got.Role != models.RolePresidentFilles || got.Group == nil || *got.Group != g {
		t.Errorf("response = %+v", got)
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("expected a session cookie")
	}

	events, err := audit.New(db).Query(ctx, audit.QueryFilter{EventType: audit.EventLoginSuccess})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Errorf("login_success events = %d, want 1", len(events))
	}
}

func TestHandleLoginPost_Failures(t *testing.T) {
	h, fx, _ := newTestHandler(t, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateUser(ctx, "admin@patro.be", "right-password", models.RoleAdmin, nil)
	disabled := fx.CreateUser(ctx, "off@patro.be", "right-password", models.RoleAdmin, nil)
	if _, err := fx.DB().Collection("users").UpdateByID(ctx, disabled.ID,
		map[string]any{"$set": map[string]any{"status": models.UserStatusDisabled}}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		email    string
		password string
		status   int
	}{
		{"wrong password", "admin@patro.be", "nope", http.StatusUnauthorized},
		{"unknown user", "ghost@patro.be", "right-password", http.StatusUnauthorized},
		{"disabled", "off@patro.be", "right-password", http.StatusForbidden},
		{"invalid email", "not-an-email", "x", http.StatusBadRequest},
		{"missing password", "admin@patro.be", "", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, h, tt.email, tt.password)
			rec.AssertStatus(t, tt.status)
			if len(rec.Result().Cookies()) != 0 {
				t.Error("failed login must not set a session cookie")
			}
		})
	}
}

func TestHandleLoginPost_RateLimited(t *testing.T) {
	limiter := ratelimit.NewLoginLimiter(2, time.Minute)
	defer limiter.Stop()
	h, _, _ := newTestHandler(t, limiter)

	post(t, h, "x@patro.be", "a")
	post(t, h, "y@patro.be", "a")
	rec := post(t, h, "z@patro.be", "a")
	rec.AssertStatus(t, http.StatusTooManyRequests)
}
