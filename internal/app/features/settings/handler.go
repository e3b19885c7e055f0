// internal/app/features/settings/handler.go
package settings

import (
	uierrors "github.com/dalemusser/patrohub/internal/app/features/errors"
	settingsstore "github.com/dalemusser/patrohub/internal/app/store/settings"
	"github.com/dalemusser/patrohub/internal/app/system/auditlog"
	"go.uber.org/zap"
)

// Handler owns the per-group settings endpoints.
type Handler struct {
	Settings *settingsstore.Store
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
}

// NewHandler shares the settings store with the registration features so
// fee and bank details stay consistent.
func NewHandler(store *settingsstore.Store, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Settings: store,
		Log:      logger,
		ErrLog:   errLog,
		AuditLog: audit,
	}
}
