// internal/app/features/dashboard/handler.go
package dashboard

import (
	uierrors "github.com/dalemusser/patrohub/internal/app/features/errors"
	campstore "github.com/dalemusser/patrohub/internal/app/store/camps"
	registrationstore "github.com/dalemusser/patrohub/internal/app/store/registrations"
	"github.com/dalemusser/patrohub/internal/app/system/schoolyear"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
	Regs   *registrationstore.Store
	Camps  *campstore.Store
	Now    schoolyear.Clock
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:    logger,
		ErrLog: errLog,
		Regs:   registrationstore.New(db),
		Camps:  campstore.New(db),
		Now:    schoolyear.SystemClock,
	}
}
