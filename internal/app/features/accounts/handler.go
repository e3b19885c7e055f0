package accounts

import (
	uierrors "github.com/dalemusser/patrohub/internal/app/features/errors"
	userstore "github.com/dalemusser/patrohub/internal/app/store/users"
	"github.com/dalemusser/patrohub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler manages staff accounts. Every route is admin-only.
type Handler struct {
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Users    *userstore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:      logger,
		ErrLog:   errLog,
		AuditLog: audit,
		Users:    userstore.New(db),
	}
}
