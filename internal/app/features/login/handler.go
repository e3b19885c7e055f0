// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/patrohub/internal/app/features/errors"
	"github.com/dalemusser/patrohub/internal/app/features/shared/httpjson"
	"github.com/dalemusser/patrohub/internal/app/store/audit"
	userstore "github.com/dalemusser/patrohub/internal/app/store/users"
	"github.com/dalemusser/patrohub/internal/app/system/auditlog"
	"github.com/dalemusser/patrohub/internal/app/system/auth"
	"github.com/dalemusser/patrohub/internal/app/system/inputval"
	"github.com/dalemusser/patrohub/internal/app/system/normalize"
	"github.com/dalemusser/patrohub/internal/app/system/ratelimit"
	"github.com/dalemusser/patrohub/internal/app/system/timeouts"
	"github.com/dalemusser/patrohub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const badCredentials = "Adresse e-mail ou mot de passe incorrect."

type Handler struct {
	Log        *zap.Logger
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	SessionMgr *auth.SessionManager
	Users      *userstore.Store
	Limiter    *ratelimit.LoginLimiter
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, limiter *ratelimit.LoginLimiter, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		ErrLog:     errLog,
		AuditLog:   audit,
		SessionMgr: sessionMgr,
		Users:      userstore.New(db),
		Limiter:    limiter,
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email" label:"Adresse e-mail"`
	Password string `json:"password" validate:"required" label:"Mot de passe"`
}

// UserResponse is the signed-in user as returned by /login and /api/me.
type UserResponse struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Email  string         `json:"email"`
	Role   models.Role    `json:"role"`
	Group  *models.Group  `json:"group,omitempty"`
	Groups []models.Group `json:"groups,omitempty"`
}

// HandleLoginPost handles POST /login with {email, password}.
func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode login body failed", err, "Requête invalide.")
		return
	}
	req.Email = normalize.Email(req.Email)
	if res := inputval.Validate(req); res.HasErrors() {
		h.ErrLog.Invalid(w, r, res)
		return
	}

	if h.Limiter != nil {
		if ok, msg := h.Limiter.Check(r, req.Email); !ok {
			h.AuditLog.LoginFailed(r.Context(), r, req.Email, audit.EventLoginFailedRateLimit, "rate limited")
			httpjson.Error(w, http.StatusTooManyRequests, msg)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	switch {
	case errors.Is(err, userstore.ErrNotFound):
		h.AuditLog.LoginFailed(ctx, r, req.Email, audit.EventLoginFailedUserNotFound, "user not found")
		httpjson.Error(w, http.StatusUnauthorized, badCredentials)
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "find user failed", err, "")
		return
	}

	if u.Status != models.UserStatusActive {
		h.AuditLog.LoginFailed(ctx, r, req.Email, audit.EventLoginFailedUserDisabled, "user disabled")
		httpjson.Error(w, http.StatusForbidden, "Ce compte est désactivé. Contactez un administrateur.")
		return
	}

	if u.PasswordHash == "" || !userstore.CheckPassword(u.PasswordHash, req.Password) {
		h.AuditLog.LoginFailed(ctx, r, req.Email, audit.EventLoginFailedWrongPassword, "wrong password")
		httpjson.Error(w, http.StatusUnauthorized, badCredentials)
		return
	}

	if err := h.SessionMgr.SignIn(w, r, u.ID.Hex()); err != nil {
		h.ErrLog.LogServerError(w, r, "save session failed", err, "Impossible d'ouvrir la session.")
		return
	}
	if h.Limiter != nil {
		h.Limiter.ResetEmail(req.Email)
	}
	if err := h.Users.TouchLastLogin(ctx, u.ID); err != nil {
		h.Log.Warn("touch last login failed", zap.Error(err), zap.String("user_id", u.ID.Hex()))
	}
	h.AuditLog.LoginSuccess(ctx, r, u.ID, models.AuthMethodPassword, u.Email)

	httpjson.OK(w, UserResponse{
		ID:    u.ID.Hex(),
		Name:  u.FullName,
		Email: u.Email,
		Role:  u.Role,
		Group: u.Group,
	})
}
