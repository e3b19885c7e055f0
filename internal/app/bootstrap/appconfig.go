// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds the patrohub-specific configuration. WAFFLE's CoreConfig
// covers the HTTP server, logging and CORS; everything the application
// itself needs lives here and is loaded in LoadConfig.
type AppConfig struct {
	// MongoDB
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Staff sessions
	SessionKey    string // signs the session cookie; at least 32 bytes in prod
	SessionName   string
	SessionDomain string // blank means current host
	SessionMaxAge time.Duration

	// Default yearly registration fee when a group has no settings yet.
	RegistrationFee float64

	// Rate limits
	LoginAttempts   int
	LoginWindow     time.Duration
	FormSubmissions int // public inscriptions, sign-ups and lookups per IP
	FormWindow      time.Duration

	// Audit trail destination: all | db | log | off
	AuditLog string

	// Observability
	SentryDSN      string
	Release        string
	MetricsEnabled bool

	// Google sign-in; disabled unless both values are set.
	GoogleClientID     string
	GoogleClientSecret string
	BaseURL            string // e.g. "https://patro.example.be"

	// Confirmation emails; an empty host disables delivery.
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPass     string
	MailFrom     string
	MailFromName string

	// Database deadlines, see system/timeouts.
	TimeoutPing   time.Duration
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration
	TimeoutBatch  time.Duration

	// First admin, created on startup when no account exists.
	BootstrapAdminEmail    string
	BootstrapAdminPassword string
}

// GoogleEnabled reports whether Google sign-in is fully configured.
func (c AppConfig) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}
