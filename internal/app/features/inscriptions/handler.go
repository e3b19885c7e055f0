// internal/app/features/inscriptions/handler.go
package inscriptions

import (
	uierrors "github.com/dalemusser/patrohub/internal/app/features/errors"
	childstore "github.com/dalemusser/patrohub/internal/app/store/children"
	parentstore "github.com/dalemusser/patrohub/internal/app/store/parents"
	registrationstore "github.com/dalemusser/patrohub/internal/app/store/registrations"
	settingsstore "github.com/dalemusser/patrohub/internal/app/store/settings"
	"github.com/dalemusser/patrohub/internal/app/system/auditlog"
	"github.com/dalemusser/patrohub/internal/app/system/mailer"
	"github.com/dalemusser/patrohub/internal/app/system/schoolyear"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the public yearly registration form.
type Handler struct {
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Mailer   mailer.Sender

	Parents  *parentstore.Store
	Children *childstore.Store
	Regs     *registrationstore.Store
	Settings *settingsstore.Store

	// Now is the reference clock for school-year and section placement.
	Now schoolyear.Clock
}

func NewHandler(db *mongo.Database, settings *settingsstore.Store, m mailer.Sender, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:      logger,
		ErrLog:   errLog,
		AuditLog: audit,
		Mailer:   m,
		Parents:  parentstore.New(db),
		Children: childstore.New(db),
		Regs:     registrationstore.New(db),
		Settings: settings,
		Now:      schoolyear.SystemClock,
	}
}
