package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/patrohub/internal/app/store/audit"
	"github.com/dalemusser/patrohub/internal/app/system/auditlog"
	"github.com/dalemusser/patrohub/internal/domain/models"
	"github.com/dalemusser/patrohub/internal/testutil"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func testAuditLogger(deps DBDeps) *auditlog.Logger {
	return auditlog.New(audit.New(deps.MongoDatabase), testLogger(), auditlog.Config{})
}

func TestEnsureAdmin_CreatesFirstAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoDatabase: db}
	if err := ensureAdmin(ctx, deps, "Admin@Patro.be", "s3cret-pass", testAuditLogger(deps), testLogger()); err != nil {
		t.Fatalf("ensureAdmin: %v", err)
	}

	var user models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"email": "admin@patro.be"}).Decode(&user); err != nil {
		t.Fatalf("find admin: %v", err)
	}
	if user.Role != models.RoleAdmin || user.Group != nil {
		t.Errorf("role = %q, group = %v", user.Role, user.Group)
	}
	if user.Status != models.UserStatusActive {
		t.Errorf("status = %q", user.Status)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret-pass")); err != nil {
		t.Errorf("password not hashed as expected: %v", err)
	}

	n, err := db.Collection("audit_events").CountDocuments(ctx, bson.M{"event_type": audit.EventAdminBootstrapped})
	if err != nil {
		t.Fatalf("count audit events: %v", err)
	}
	if n != 1 {
		t.Errorf("admin_bootstrapped events = %d, want 1", n)
	}
}

func TestEnsureAdmin_GoogleOnlyWithoutPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoDatabase: db}
	if err := ensureAdmin(ctx, deps, "admin@patro.be", "", testAuditLogger(deps), testLogger()); err != nil {
		t.Fatalf("ensureAdmin: %v", err)
	}

	var user models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"email": "admin@patro.be"}).Decode(&user); err != nil {
		t.Fatalf("find admin: %v", err)
	}
	if user.AuthMethod != models.AuthMethodGoogle || user.PasswordHash != "" {
		t.Errorf("auth method = %q, hash set = %v", user.AuthMethod, user.PasswordHash != "")
	}
}

func TestEnsureAdmin_SkipsWhenAccountsExist(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	filles := models.GroupFilles
	fx.CreateUser(ctx, "claire@test.be", "s3cret-pass", models.RolePresidentFilles, &filles)

	deps := DBDeps{MongoDatabase: db}
	if err := ensureAdmin(ctx, deps, "admin@patro.be", "s3cret-pass", testAuditLogger(deps), testLogger()); err != nil {
		t.Fatalf("ensureAdmin: %v", err)
	}

	n, err := db.Collection("users").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("users = %d, want the existing account only", n)
	}
}

func TestEnsureAdmin_NoEmailIsNoop(t *testing.T) {
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// No database needed: nothing is read without an email.
	if err := ensureAdmin(ctx, DBDeps{}, "", "", nil, testLogger()); err != nil {
		t.Fatalf("ensureAdmin: %v", err)
	}
}

func validConfig() AppConfig {
	return AppConfig{
		MongoURI:        "mongodb://localhost:27017",
		SessionKey:      "0123456789abcdef0123456789abcdef",
		RegistrationFee: 45,
		AuditLog:        auditlog.ModeAll,
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{"valid", "prod", func(*AppConfig) {}, false},
		{"bad mongo uri", "dev", func(c *AppConfig) { c.MongoURI = "postgres://nope" }, true},
		{"short key in prod", "prod", func(c *AppConfig) { c.SessionKey = "short" }, true},
		{"short key in dev", "dev", func(c *AppConfig) { c.SessionKey = "short" }, false},
		{"zero fee", "dev", func(c *AppConfig) { c.RegistrationFee = 0 }, true},
		{"unknown audit mode", "dev", func(c *AppConfig) { c.AuditLog = "syslog" }, true},
		{"half google config only warns", "dev", func(c *AppConfig) { c.GoogleClientID = "id" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := ValidateConfig(&config.CoreConfig{Env: tt.env}, cfg, testLogger())
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGoogleEnabled(t *testing.T) {
	c := AppConfig{GoogleClientID: "id"}
	if c.GoogleEnabled() {
		t.Error("client id alone should not enable Google sign-in")
	}
	c.GoogleClientSecret = "secret"
	if !c.GoogleEnabled() {
		t.Error("id and secret should enable Google sign-in")
	}
}

func TestBuildHandler_Routes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	deps := DBDeps{MongoClient: db.Client(), MongoDatabase: db}
	cfg := validConfig()
	cfg.MetricsEnabled = true
	cfg.SessionMaxAge = time.Hour
	cfg.LoginAttempts = 5
	cfg.LoginWindow = time.Minute
	cfg.FormSubmissions = 10
	cfg.FormWindow = time.Minute

	h, err := BuildHandler(&config.CoreConfig{Env: "dev"}, cfg, deps, testLogger())
	if err != nil {
		t.Fatalf("BuildHandler: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := testutil.TestContext()
		defer cancel()
		_ = Shutdown(ctx, nil, cfg, DBDeps{}, testLogger())
	})

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/api/me", http.StatusUnauthorized},
		{http.MethodGet, "/api/public/camps", http.StatusOK},
		{http.MethodGet, "/api/public/animateurs", http.StatusOK},
		{http.MethodGet, "/api/public/settings/FILLES", http.StatusOK},
		{http.MethodGet, "/api/camps", http.StatusUnauthorized},
		{http.MethodGet, "/api/dashboard/stats", http.StatusUnauthorized},
		{http.MethodGet, "/api/exports/children.csv", http.StatusUnauthorized},
		{http.MethodGet, "/api/audit", http.StatusUnauthorized},
		{http.MethodGet, "/auth/google", http.StatusNotFound},
		{http.MethodGet, "/nowhere", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body.String())
			}
		})
	}
}
