// internal/app/features/documents/handler.go
package documents

import (
	uierrors "github.com/dalemusser/patrohub/internal/app/features/errors"
	"github.com/dalemusser/patrohub/internal/app/system/schoolyear"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler renders the printable documents of the current school year:
// medical sheets and the medical recap.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
	Now    schoolyear.Clock
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger, ErrLog: errLog, Now: schoolyear.SystemClock}
}
