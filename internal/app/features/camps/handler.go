// internal/app/features/camps/handler.go
package camps

import (
	uierrors "github.com/dalemusser/patrohub/internal/app/features/errors"
	campregstore "github.com/dalemusser/patrohub/internal/app/store/campregistrations"
	campstore "github.com/dalemusser/patrohub/internal/app/store/camps"
	childstore "github.com/dalemusser/patrohub/internal/app/store/children"
	parentstore "github.com/dalemusser/patrohub/internal/app/store/parents"
	settingsstore "github.com/dalemusser/patrohub/internal/app/store/settings"
	"github.com/dalemusser/patrohub/internal/app/system/auditlog"
	"github.com/dalemusser/patrohub/internal/app/system/mailer"
	"github.com/dalemusser/patrohub/internal/app/system/schoolyear"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves camps to families (public list and sign-up) and to staff
// (management, registrations, recaps).
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Mailer   mailer.Sender

	Camps    *campstore.Store
	CampRegs *campregstore.Store
	Children *childstore.Store
	Parents  *parentstore.Store
	Settings *settingsstore.Store

	Now schoolyear.Clock
}

func NewHandler(db *mongo.Database, settings *settingsstore.Store, m mailer.Sender, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		AuditLog: audit,
		Mailer:   m,
		Camps:    campstore.New(db),
		CampRegs: campregstore.New(db, logger),
		Children: childstore.New(db),
		Parents:  parentstore.New(db),
		Settings: settings,
		Now:      schoolyear.SystemClock,
	}
}
