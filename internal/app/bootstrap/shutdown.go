// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown stops the jobs and rate limiters, flushes Sentry and closes the
// MongoDB client.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	running.mu.Lock()
	runner, flush, stoppers := running.runner, running.flush, running.stoppers
	running.runner, running.flush, running.stoppers = nil, nil, nil
	running.mu.Unlock()

	if runner != nil {
		runner.Stop()
	}
	for _, stop := range stoppers {
		stop()
	}
	if flush != nil {
		flush()
	}

	if deps.MongoClient != nil {
		logger.Info("disconnecting MongoDB client")
		if err := deps.MongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}
