// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"sync"

	"github.com/dalemusser/patrohub/internal/app/store/audit"
	"github.com/dalemusser/patrohub/internal/app/store/oauthstate"
	userstore "github.com/dalemusser/patrohub/internal/app/store/users"
	"github.com/dalemusser/patrohub/internal/app/system/auditlog"
	"github.com/dalemusser/patrohub/internal/app/system/observability"
	"github.com/dalemusser/patrohub/internal/app/system/tasks"
	"github.com/dalemusser/patrohub/internal/app/system/timeouts"
	"github.com/dalemusser/patrohub/internal/app/system/workers"
	"github.com/dalemusser/patrohub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// running holds what Startup and BuildHandler start and Shutdown stops.
var running struct {
	mu       sync.Mutex
	runner   *workers.Runner
	flush    func()
	stoppers []func()
}

func onShutdown(stop func()) {
	running.mu.Lock()
	defer running.mu.Unlock()
	running.stoppers = append(running.stoppers, stop)
}

// Startup reports errors to Sentry, bootstraps the first admin and starts
// the background jobs.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	flush, err := observability.InitSentry(appCfg.SentryDSN, coreCfg.Env, appCfg.Release)
	if err != nil {
		logger.Error("sentry init failed", zap.Error(err))
		return err
	}

	t := timeouts.Current()
	logger.Info("database timeouts",
		zap.Duration("ping", t.Ping), zap.Duration("short", t.Short), zap.Duration("medium", t.Medium),
		zap.Duration("long", t.Long), zap.Duration("batch", t.Batch))

	al := newAuditLogger(appCfg, deps, logger)
	if err := ensureAdmin(ctx, deps, appCfg.BootstrapAdminEmail, appCfg.BootstrapAdminPassword, al, logger); err != nil {
		flush()
		return err
	}

	runner := workers.NewRunner(logger,
		tasks.OAuthStateCleanupJob(oauthstate.New(deps.MongoDatabase), logger),
	)
	runner.Start(context.Background())

	running.mu.Lock()
	running.runner = runner
	running.flush = flush
	running.mu.Unlock()
	return nil
}

func newAuditLogger(appCfg AppConfig, deps DBDeps, logger *zap.Logger) *auditlog.Logger {
	mode := appCfg.AuditLog
	return auditlog.New(audit.New(deps.MongoDatabase), logger, auditlog.Config{
		Auth:         mode,
		Admin:        mode,
		Registration: mode,
	})
}

// ensureAdmin creates an admin account from config when the users
// collection is empty. With accounts present, or without an email, it does
// nothing.
func ensureAdmin(ctx context.Context, deps DBDeps, email, password string, al *auditlog.Logger, logger *zap.Logger) error {
	if email == "" {
		return nil
	}
	users := userstore.New(deps.MongoDatabase)

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	n, err := users.Count(ctx)
	if err != nil {
		logger.Error("count users failed", zap.Error(err))
		return err
	}
	if n > 0 {
		logger.Debug("users present; admin bootstrap skipped", zap.Int64("count", n))
		return nil
	}

	u := models.User{FullName: "Administrateur", Email: email, Role: models.RoleAdmin}
	if password == "" {
		u.AuthMethod = models.AuthMethodGoogle
	}
	created, err := users.Create(ctx, u, password)
	if errors.Is(err, userstore.ErrDuplicateEmail) {
		return nil
	}
	if err != nil {
		logger.Error("admin bootstrap failed", zap.Error(err))
		return err
	}

	id := created.ID
	al.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventAdminBootstrapped,
		UserID:    &id,
		Success:   true,
		Details:   map[string]string{"email": created.Email},
	})
	logger.Info("bootstrapped admin account", zap.String("email", created.Email))
	return nil
}
