// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dalemusser/patrohub/internal/app/system/auditlog"
	"github.com/dalemusser/patrohub/internal/app/system/auth"
	"github.com/dalemusser/patrohub/internal/app/system/timeouts"
	"github.com/dalemusser/patrohub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// minSessionKeyLen is enforced in prod only.
const minSessionKeyLen = 32

// appConfigKeys are read from config files, PATROHUB_* environment
// variables and --flags, in increasing precedence.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "patrohub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 5, Desc: "MongoDB min connection pool size"},

	{Name: "session_key", Default: "", Desc: "Session signing key (at least 32 bytes in prod; random per run in dev when empty)"},
	{Name: "session_name", Default: "patrohub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "12h", Desc: "Session lifetime"},

	{Name: "registration_fee", Default: fmt.Sprint(models.DefaultRegistrationFee), Desc: "Yearly fee used until a group saves its settings"},

	{Name: "rate_limit_login_attempts", Default: 5, Desc: "Failed logins allowed per IP and email within the window"},
	{Name: "rate_limit_login_window", Default: "15m", Desc: "Login rate limit window"},
	{Name: "rate_limit_form_submissions", Default: 10, Desc: "Public form submissions allowed per IP within the window"},
	{Name: "rate_limit_form_window", Default: "1m", Desc: "Public form rate limit window"},

	{Name: "audit_log", Default: auditlog.ModeAll, Desc: "Audit trail destination: 'all' (db+log), 'db', 'log', or 'off'"},

	{Name: "sentry_dsn", Default: "", Desc: "Sentry DSN (blank disables error reporting)"},
	{Name: "release", Default: "dev", Desc: "Release name reported to Sentry"},
	{Name: "metrics_enabled", Default: true, Desc: "Expose Prometheus metrics at /metrics"},

	{Name: "google_client_id", Default: "", Desc: "Google OAuth2 client ID"},
	{Name: "google_client_secret", Default: "", Desc: "Google OAuth2 client secret"},
	{Name: "base_url", Default: "http://localhost:8080", Desc: "Public base URL, used for the OAuth callback"},

	{Name: "smtp_host", Default: "", Desc: "SMTP server host (blank disables emails)"},
	{Name: "smtp_port", Default: 587, Desc: "SMTP server port"},
	{Name: "smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@patrohub.be", Desc: "From email address"},
	{Name: "mail_from_name", Default: "Patro", Desc: "From display name"},

	{Name: "timeouts_ping", Default: "2s", Desc: "Health check deadline"},
	{Name: "timeouts_short", Default: "5s", Desc: "Single-document database deadline"},
	{Name: "timeouts_medium", Default: "10s", Desc: "List and recap deadline"},
	{Name: "timeouts_long", Default: "20s", Desc: "Multi-collection write deadline"},
	{Name: "timeouts_batch", Default: "60s", Desc: "Document generation and export deadline"},

	{Name: "bootstrap_admin_email", Default: "", Desc: "Email of the first admin, created when no account exists"},
	{Name: "bootstrap_admin_password", Default: "", Desc: "Password of the first admin"},
}

// LoadConfig loads WAFFLE core config and the patrohub keys, then applies
// the database deadlines.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, v, err := config.LoadWithAppConfig(logger, "PATROHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}
	fee, err := strconv.ParseFloat(v.String("registration_fee"), 64)
	if err != nil {
		return nil, AppConfig{}, fmt.Errorf("registration_fee: %w", err)
	}

	appCfg := AppConfig{
		MongoURI:         v.String("mongo_uri"),
		MongoDatabase:    v.String("mongo_database"),
		MongoMaxPoolSize: uint64(v.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(v.Int("mongo_min_pool_size")),

		SessionKey:    v.String("session_key"),
		SessionName:   v.String("session_name"),
		SessionDomain: v.String("session_domain"),
		SessionMaxAge: v.Duration("session_max_age", 12*time.Hour),

		RegistrationFee: fee,

		LoginAttempts:   v.Int("rate_limit_login_attempts"),
		LoginWindow:     v.Duration("rate_limit_login_window", 15*time.Minute),
		FormSubmissions: v.Int("rate_limit_form_submissions"),
		FormWindow:      v.Duration("rate_limit_form_window", time.Minute),

		AuditLog: v.String("audit_log"),

		SentryDSN:      v.String("sentry_dsn"),
		Release:        v.String("release"),
		MetricsEnabled: v.Bool("metrics_enabled"),

		GoogleClientID:     v.String("google_client_id"),
		GoogleClientSecret: v.String("google_client_secret"),
		BaseURL:            v.String("base_url"),

		SMTPHost:     v.String("smtp_host"),
		SMTPPort:     v.Int("smtp_port"),
		SMTPUser:     v.String("smtp_user"),
		SMTPPass:     v.String("smtp_pass"),
		MailFrom:     v.String("mail_from"),
		MailFromName: v.String("mail_from_name"),

		TimeoutPing:   v.Duration("timeouts_ping", timeouts.DefaultPing),
		TimeoutShort:  v.Duration("timeouts_short", timeouts.DefaultShort),
		TimeoutMedium: v.Duration("timeouts_medium", timeouts.DefaultMedium),
		TimeoutLong:   v.Duration("timeouts_long", timeouts.DefaultLong),
		TimeoutBatch:  v.Duration("timeouts_batch", timeouts.DefaultBatch),

		BootstrapAdminEmail:    v.String("bootstrap_admin_email"),
		BootstrapAdminPassword: v.String("bootstrap_admin_password"),
	}

	timeouts.Configure(timeouts.Config{
		Ping:   appCfg.TimeoutPing,
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
		Batch:  appCfg.TimeoutBatch,
	})

	if appCfg.SessionKey == "" && coreCfg.Env != "prod" {
		appCfg.SessionKey = auth.GenerateDevKey()
		logger.Warn("session_key not set; using a random key, sessions end on restart")
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig rejects configurations that cannot run. A half-configured
// Google sign-in is only a warning: the routes stay unmounted.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if coreCfg.Env == "prod" && len(appCfg.SessionKey) < minSessionKeyLen {
		return fmt.Errorf("session_key must be at least %d bytes in prod", minSessionKeyLen)
	}
	if appCfg.RegistrationFee <= 0 {
		return fmt.Errorf("registration_fee must be positive, got %v", appCfg.RegistrationFee)
	}
	switch appCfg.AuditLog {
	case auditlog.ModeAll, auditlog.ModeDB, auditlog.ModeLog, auditlog.ModeOff:
	default:
		return fmt.Errorf("audit_log must be all, db, log or off, got %q", appCfg.AuditLog)
	}
	if (appCfg.GoogleClientID == "") != (appCfg.GoogleClientSecret == "") {
		logger.Warn("google sign-in partially configured; disabled",
			zap.Bool("client_id_set", appCfg.GoogleClientID != ""),
			zap.Bool("client_secret_set", appCfg.GoogleClientSecret != ""))
	}
	if appCfg.BootstrapAdminEmail != "" && appCfg.BootstrapAdminPassword == "" && !appCfg.GoogleEnabled() {
		logger.Warn("bootstrap admin has no password and Google sign-in is disabled; it will not be able to sign in")
	}
	return nil
}
