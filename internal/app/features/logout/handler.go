// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/dalemusser/patrohub/internal/app/system/auditlog"
	"github.com/dalemusser/patrohub/internal/app/system/auth"
	"github.com/dalemusser/patrohub/internal/app/system/authz"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	AuditLog   *auditlog.Logger
	SessionMgr *auth.SessionManager
}

func NewHandler(sessionMgr *auth.SessionManager, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		AuditLog:   audit,
		SessionMgr: sessionMgr,
	}
}

// ServeLogout handles POST /logout. It always answers 204, signed in or not.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	if s, ok := authz.SubjectFromRequest(r); ok {
		h.AuditLog.Logout(r.Context(), r, s.UserID)
	}
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Error("logout: save session", zap.Error(err))
	}
	w.WriteHeader(http.StatusNoContent)
}
