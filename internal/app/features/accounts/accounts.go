package accounts

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/patrohub/internal/app/features/shared/httpjson"
	"github.com/dalemusser/patrohub/internal/app/store/audit"
	userstore "github.com/dalemusser/patrohub/internal/app/store/users"
	"github.com/dalemusser/patrohub/internal/app/system/authz"
	"github.com/dalemusser/patrohub/internal/app/system/inputval"
	"github.com/dalemusser/patrohub/internal/app/system/normalize"
	"github.com/dalemusser/patrohub/internal/app/system/timeouts"
	"github.com/dalemusser/patrohub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// View is the wire form of a staff account. The password hash never leaves
// the store.
type View struct {
	ID          string        `json:"id"`
	FullName    string        `json:"fullName"`
	Email       string        `json:"email"`
	Role        models.Role   `json:"role"`
	Group       *models.Group `json:"group,omitempty"`
	AuthMethod  string        `json:"authMethod"`
	Status      string        `json:"status"`
	LastLoginAt *time.Time    `json:"lastLoginAt,omitempty"`
}

func view(u models.User) View {
	return View{
		ID:          u.ID.Hex(),
		FullName:    u.FullName,
		Email:       u.Email,
		Role:        u.Role,
		Group:       u.Group,
		AuthMethod:  u.AuthMethod,
		Status:      u.Status,
		LastLoginAt: u.LastLoginAt,
	}
}

// admin resolves the caller and requires the admin role. It writes the
// error response and reports false when the caller should stop.
func (h *Handler) admin(w http.ResponseWriter, r *http.Request) (authz.Subject, bool) {
	s, ok := authz.SubjectFromRequest(r)
	if !ok {
		h.ErrLog.Unauthorized(w)
		return s, false
	}
	if h.ErrLog.Policy(w, r, authz.RequireAdmin(s)) {
		return s, false
	}
	return s, true
}

// ServeList handles GET /api/accounts?status=active|disabled.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.admin(w, r); !ok {
		return
	}
	status := normalize.Status(query.Get(r, "status"))
	if status != "" && status != models.UserStatusActive && status != models.UserStatusDisabled {
		h.ErrLog.LogBadRequest(w, r, "unknown status filter", nil, "Statut inconnu.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	users, err := h.Users.List(ctx, status)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error listing accounts", err, "Impossible de charger les comptes.")
		return
	}
	out := make([]View, 0, len(users))
	for _, u := range users {
		out = append(out, view(u))
	}
	httpjson.OK(w, map[string]any{"accounts": out})
}

type createRequest struct {
	FullName   string `json:"fullName" validate:"required,min=2,max=100" label:"Nom complet"`
	Email      string `json:"email" validate:"required,email" label:"E-mail"`
	Role       string `json:"role" validate:"required,patrorole" label:"Rôle"`
	AuthMethod string `json:"authMethod" validate:"omitempty,authmethod" label:"Méthode de connexion"`
	Password   string `json:"password" validate:"omitempty,min=8,max=72" label:"Mot de passe"`
}

func (in *createRequest) validate() *inputval.Result {
	in.FullName = normalize.Name(in.FullName)
	in.Email = normalize.Email(in.Email)
	in.Role = normalize.Role(in.Role)
	in.AuthMethod = strings.ToLower(strings.TrimSpace(in.AuthMethod))
	if in.AuthMethod == "" {
		in.AuthMethod = models.AuthMethodPassword
	}

	res := inputval.Validate(in)
	switch {
	case in.AuthMethod == models.AuthMethodPassword && in.Password == "":
		res.Errors = append(res.Errors, inputval.FieldError{
			Field:   "Password",
			Message: "Mot de passe est obligatoire pour une connexion par mot de passe.",
		})
	case in.AuthMethod == models.AuthMethodGoogle && in.Password != "":
		res.Errors = append(res.Errors, inputval.FieldError{
			Field:   "Password",
			Message: "Un compte Google n'a pas de mot de passe.",
		})
	}
	return res
}

// ServeCreate handles POST /api/accounts. The group follows from the role.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	s, ok := h.admin(w, r)
	if !ok {
		return
	}
	var in createRequest
	if err := httpjson.Decode(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode account body failed", err, "Requête invalide.")
		return
	}
	if res := in.validate(); res.HasErrors() {
		h.ErrLog.Invalid(w, r, res)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.Create(ctx, models.User{
		FullName:   in.FullName,
		Email:      in.Email,
		Role:       models.Role(in.Role),
		AuthMethod: in.AuthMethod,
	}, in.Password)
	if errors.Is(err, userstore.ErrDuplicateEmail) {
		h.ErrLog.Conflict(w, "Un compte existe déjà pour cette adresse e-mail.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error creating account", err, "Impossible de créer le compte.")
		return
	}

	var group models.Group
	if u.Group != nil {
		group = *u.Group
	}
	h.AuditLog.Admin(ctx, r, s, group, audit.EventUserCreated, map[string]string{
		"user_id": u.ID.Hex(),
		"email":   u.Email,
		"role":    string(u.Role),
	})
	httpjson.Created(w, view(u))
}

// accountID parses {id}; it answers 404 on a malformed id.
func (h *Handler) accountID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.NotFound(w, "Compte introuvable.")
		return id, false
	}
	return id, true
}

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=active disabled" label:"Statut"`
}

// ServeSetStatus handles PATCH /api/accounts/{id}/status. Admins cannot
// disable their own account.
func (h *Handler) ServeSetStatus(w http.ResponseWriter, r *http.Request) {
	s, ok := h.admin(w, r)
	if !ok {
		return
	}
	id, ok := h.accountID(w, r)
	if !ok {
		return
	}
	var in statusRequest
	if err := httpjson.Decode(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode status body failed", err, "Requête invalide.")
		return
	}
	in.Status = normalize.Status(in.Status)
	if res := inputval.Validate(in); res.HasErrors() {
		h.ErrLog.Invalid(w, r, res)
		return
	}
	if id == s.UserID && in.Status == models.UserStatusDisabled {
		h.ErrLog.LogBadRequest(w, r, "self disable refused", nil, "Vous ne pouvez pas désactiver votre propre compte.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Users.SetStatus(ctx, id, in.Status); err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			h.ErrLog.NotFound(w, "Compte introuvable.")
			return
		}
		h.ErrLog.LogServerError(w, r, "database error setting account status", err, "Impossible de modifier le compte.")
		return
	}
	h.AuditLog.Admin(ctx, r, s, "", audit.EventUserStatusChanged, map[string]string{
		"user_id": id.Hex(),
		"status":  in.Status,
	})
	h.Log.Info("account status changed", zap.String("user_id", id.Hex()), zap.String("status", in.Status))
	w.WriteHeader(http.StatusNoContent)
}

type passwordRequest struct {
	Password string `json:"password" validate:"required,min=8,max=72" label:"Mot de passe"`
}

// ServeResetPassword handles PUT /api/accounts/{id}/password.
func (h *Handler) ServeResetPassword(w http.ResponseWriter, r *http.Request) {
	s, ok := h.admin(w, r)
	if !ok {
		return
	}
	id, ok := h.accountID(w, r)
	if !ok {
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

	if err := h.Users.SetPassword(ctx, id, in.Password); err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			h.ErrLog.NotFound(w, "Compte introuvable.")
			return
		}
		h.ErrLog.LogServerError(w, r, "database error resetting password", err, "Impossible de modifier le mot de passe.")
		return
	}
	h.AuditLog.Admin(ctx, r, s, "", audit.EventPasswordReset, map[string]string{"user_id": id.Hex()})
	w.WriteHeader(http.StatusNoContent)
}
