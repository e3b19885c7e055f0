package profile

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/patrohub/internal/app/features/shared/httpjson"
	"github.com/dalemusser/patrohub/internal/app/store/audit"
	userstore "github.com/dalemusser/patrohub/internal/app/store/users"
	"github.com/dalemusser/patrohub/internal/app/system/authz"
	"github.com/dalemusser/patrohub/internal/app/system/inputval"
	"github.com/dalemusser/patrohub/internal/app/system/timeouts"
	"github.com/dalemusser/patrohub/internal/domain/models"
)

type passwordRequest struct {
	Current string `json:"currentPassword" validate:"required" label:"Mot de passe actuel"`
	New     string `json:"newPassword" validate:"required,min=8,max=72,nefield=Current" label:"Nouveau mot de passe"`
}

// ServeChangePassword handles PUT /api/profile/password.
//
// Google-only accounts have no password to change and get 400. A wrong
// current password answers 403 and is audited like a failed login.
func (h *Handler) ServeChangePassword(w http.ResponseWriter, r *http.Request) {
	s, ok := authz.SubjectFromRequest(r)
	if !ok {
		h.ErrLog.Unauthorized(w)
		return
	}
	var in passwordRequest
	if err := httpjson.Decode(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode password body failed", err, "Requête invalide.")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		h.ErrLog.Invalid(w, r, res)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, s.UserID)
	if errors.Is(err, userstore.ErrNotFound) {
		h.ErrLog.Unauthorized(w)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading account", err, "")
		return
	}
	if u.AuthMethod != models.AuthMethodPassword || u.PasswordHash == "" {
		h.ErrLog.LogBadRequest(w, r, "password change on google account", nil, "Ce compte se connecte avec Google.")
		return
	}
	if !userstore.CheckPassword(u.PasswordHash, in.Current) {
		h.AuditLog.LoginFailed(ctx, r, u.Email, audit.EventLoginFailedWrongPassword, "wrong current password on password change")
		h.ErrLog.Forbidden(w, r, "Mot de passe actuel incorrect.")
		return
	}

	if err := h.Users.SetPassword(ctx, u.ID, in.New); err != nil {
		h.ErrLog.LogServerError(w, r, "database error changing password", err, "Impossible de modifier le mot de passe.")
		return
	}
	h.AuditLog.Admin(ctx, r, s, "", audit.EventPasswordChanged, map[string]string{"user_id": u.ID.Hex()})
	w.WriteHeader(http.StatusNoContent)
}
