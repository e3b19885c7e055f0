// internal/app/features/children/handler.go
package children

import (
	uierrors "github.com/dalemusser/patrohub/internal/app/features/errors"
	childstore "github.com/dalemusser/patrohub/internal/app/store/children"
	parentstore "github.com/dalemusser/patrohub/internal/app/store/parents"
	registrationstore "github.com/dalemusser/patrohub/internal/app/store/registrations"
	"github.com/dalemusser/patrohub/internal/app/system/auditlog"
	"github.com/dalemusser/patrohub/internal/app/system/schoolyear"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the staff view of members and their yearly registrations.
type Handler struct {
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger

	Children *childstore.Store
	Parents  *parentstore.Store
	Regs     *registrationstore.Store

	Now schoolyear.Clock
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:      logger,
		ErrLog:   errLog,
		AuditLog: audit,
		Children: childstore.New(db),
		Parents:  parentstore.New(db),
		Regs:     registrationstore.New(db),
		Now:      schoolyear.SystemClock,
	}
}
