package exports

import (
	uierrors "github.com/dalemusser/patrohub/internal/app/features/errors"
	"github.com/dalemusser/patrohub/internal/app/system/schoolyear"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler produces the spreadsheet exports of the registered children.
// Both formats carry the same columns; the workbook splits rows into one
// sheet per section.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
	Now    schoolyear.Clock
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger, ErrLog: errLog, Now: schoolyear.SystemClock}
}
