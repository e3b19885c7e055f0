package auditlog

import (
	uierrors "github.com/dalemusser/patrohub/internal/app/features/errors"
	"github.com/dalemusser/patrohub/internal/app/store/audit"
	userstore "github.com/dalemusser/patrohub/internal/app/store/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the audit trail to admins and presidents.
type Handler struct {
	Events *audit.Store
	Users  *userstore.Store
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Events: audit.New(db),
		Users:  userstore.New(db),
		Log:    logger,
		ErrLog: errLog,
	}
}
