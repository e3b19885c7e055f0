// internal/app/features/errors/errors.go
package errors

import (
	"errors"
	"net/http"

	"github.com/dalemusser/patrohub/internal/app/features/shared/httpjson"
	"github.com/dalemusser/patrohub/internal/app/system/authz"
	"github.com/dalemusser/patrohub/internal/app/system/inputval"
	"github.com/dalemusser/patrohub/internal/app/system/observability"
	"go.uber.org/zap"
)

// ErrorLogger writes JSON error responses and logs the ones worth logging.
// Server errors also go to Sentry when it is configured.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger}
}

func (e *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	fs := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
	if err != nil {
		fs = append(fs, zap.Error(err))
	}
	return fs
}

// LogServerError logs msg and err, reports err to Sentry and answers 500
// with userMsg.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string) {
	e.Log.Error(msg, e.fields(r, err)...)
	observability.CaptureRequestErr(r, err)
	if userMsg == "" {
		userMsg = "Une erreur interne est survenue."
	}
	httpjson.Error(w, http.StatusInternalServerError, userMsg)
}

// LogBadRequest logs at warn and answers 400 with userMsg.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string) {
	e.Log.Warn(msg, e.fields(r, err)...)
	httpjson.Error(w, http.StatusBadRequest, userMsg)
}

// Invalid answers 400 with the field errors of res.
func (e *ErrorLogger) Invalid(w http.ResponseWriter, r *http.Request, res *inputval.Result) {
	e.Log.Debug("validation failed", append(e.fields(r, nil), zap.String("errors", res.All()))...)
	httpjson.Invalid(w, res)
}

// Forbidden answers 403.
func (e *ErrorLogger) Forbidden(w http.ResponseWriter, r *http.Request, userMsg string) {
	if userMsg == "" {
		userMsg = "Accès refusé."
	}
	e.Log.Info("forbidden", e.fields(r, nil)...)
	httpjson.Error(w, http.StatusForbidden, userMsg)
}

// NotFound answers 404.
func (e *ErrorLogger) NotFound(w http.ResponseWriter, userMsg string) {
	httpjson.Error(w, http.StatusNotFound, userMsg)
}

// Conflict answers 409.
func (e *ErrorLogger) Conflict(w http.ResponseWriter, userMsg string) {
	httpjson.Error(w, http.StatusConflict, userMsg)
}

// Unauthorized answers 401.
func (e *ErrorLogger) Unauthorized(w http.ResponseWriter) {
	httpjson.Error(w, http.StatusUnauthorized, "Authentification requise.")
}

// Policy answers 403 for authz.ErrForbidden and 500 for anything else.
// It reports whether it wrote a response, so callers can write
//
//	if h.ErrLog.Policy(w, r, authz.RequireEdit(s, g)) { return }
func (e *ErrorLogger) Policy(w http.ResponseWriter, r *http.Request, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, authz.ErrForbidden) {
		e.Forbidden(w, r, "")
		return true
	}
	e.LogServerError(w, r, "policy check failed", err, "")
	return true
}
