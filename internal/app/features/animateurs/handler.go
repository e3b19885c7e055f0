// internal/app/features/animateurs/handler.go
package animateurs

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/patrohub/internal/app/features/errors"
	"github.com/dalemusser/patrohub/internal/app/features/shared/httpjson"
	animateurstore "github.com/dalemusser/patrohub/internal/app/store/animateurs"
	"github.com/dalemusser/patrohub/internal/app/store/audit"
	"github.com/dalemusser/patrohub/internal/app/system/auditlog"
	"github.com/dalemusser/patrohub/internal/app/system/authz"
	"github.com/dalemusser/patrohub/internal/app/system/inputval"
	"github.com/dalemusser/patrohub/internal/app/system/normalize"
	"github.com/dalemusser/patrohub/internal/app/system/phone"
	"github.com/dalemusser/patrohub/internal/app/system/timeouts"
	"github.com/dalemusser/patrohub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Animateurs *animateurstore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		ErrLog:     errLog,
		AuditLog:   audit,
		Animateurs: animateurstore.New(db),
	}
}

// View is the wire form of a roster entry. Phone is formatted for display.
type View struct {
	ID          string       `json:"id"`
	FirstName   string       `json:"firstName"`
	LastName    string       `json:"lastName"`
	Phone       string       `json:"phone,omitempty"`
	Email       string       `json:"email,omitempty"`
	Group       models.Group `json:"group"`
	Function    string       `json:"function,omitempty"`
	ShowContact bool         `json:"showContact"`
}

func view(a models.Animateur) View {
	return View{
		ID:          a.ID.Hex(),
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		Phone:       phone.Format(a.Phone),
		Email:       a.Email,
		Group:       a.Group,
		Function:    a.Function,
		ShowContact: a.ShowContact,
	}
}

type animateurRequest struct {
	FirstName   string `json:"firstName" validate:"required,min=2,max=50" label:"Prénom"`
	LastName    string `json:"lastName" validate:"required,min=2,max=50" label:"Nom"`
	Phone       string `json:"phone" validate:"omitempty,phonebe" label:"Téléphone"`
	Email       string `json:"email" validate:"omitempty,email" label:"E-mail"`
	Group       string `json:"group" validate:"required,patrogroup" label:"Groupe"`
	Function    string `json:"function" validate:"max=100" label:"Fonction"`
	ShowContact bool   `json:"showContact"`
}

func (in *animateurRequest) validate() *inputval.Result {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.TrimSpace(in.Email)
	in.Group = normalize.Group(in.Group)
	in.Function = strings.TrimSpace(in.Function)
	return inputval.Validate(in)
}

func (in *animateurRequest) model() models.Animateur {
	return models.Animateur{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Phone:       in.Phone,
		Email:       in.Email,
		Group:       models.Group(in.Group),
		Function:    in.Function,
		ShowContact: in.ShowContact,
	}
}

// ServeList handles GET /api/animateurs?group=.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	s, ok := authz.SubjectFromRequest(r)
	if !ok {
		h.ErrLog.Unauthorized(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	list, err := h.Animateurs.List(ctx, authz.ScopeGroups(s, normalize.Group(query.Get(r, "group"))))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error listing animateurs", err, "Impossible de charger les animateurs.")
		return
	}
	out := make([]View, 0, len(list))
	for _, a := range list {
		out = append(out, view(a))
	}
	httpjson.OK(w, map[string]any{"animateurs": out})
}

// ServePublicList handles GET /api/public/animateurs?group=. Contact fields
// are only shown for entries that agreed to it.
func (h *Handler) ServePublicList(w http.ResponseWriter, r *http.Request) {
	groups := models.AllGroups
	if raw := normalize.Group(query.Get(r, "group")); raw != "" {
		g, ok := models.ParseGroup(raw)
		if !ok {
			h.ErrLog.LogBadRequest(w, r, "unknown group filter", nil, "Groupe inconnu.")
			return
		}
		groups = []models.Group{g}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	list, err := h.Animateurs.List(ctx, groups)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error listing animateurs", err, "Impossible de charger les animateurs.")
		return
	}
	out := make([]View, 0, len(list))
	for _, a := range list {
		out = append(out, view(animateurstore.Public(a)))
	}
	httpjson.OK(w, map[string]any{"animateurs": out})
}

// ServeCreate handles POST /api/animateurs.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	s, ok := authz.SubjectFromRequest(r)
	if !ok {
		h.ErrLog.Unauthorized(w)
		return
	}
	var in animateurRequest
	if err := httpjson.Decode(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode animateur body failed", err, "Requête invalide.")
		return
	}
	if res := in.validate(); res.HasErrors() {
		h.ErrLog.Invalid(w, r, res)
		return
	}
	a := in.model()
	if h.ErrLog.Policy(w, r, authz.RequireStaffManagement(s, a.Group)) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	a, err := h.Animateurs.Create(ctx, a)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error creating animateur", err, "Impossible d'ajouter l'animateur.")
		return
	}
	h.AuditLog.Admin(ctx, r, s, a.Group, audit.EventAnimateurCreated, map[string]string{
		"animateur_id": a.ID.Hex(),
		"name":         a.FirstName + " " + a.LastName,
	})
	httpjson.Created(w, view(a))
}

// load resolves {id}. It writes the error response and returns nil on
// failure.
func (h *Handler) load(ctx context.Context, w http.ResponseWriter, r *http.Request) *models.Animateur {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.NotFound(w, "Animateur introuvable.")
		return nil
	}
	a, err := h.Animateurs.GetByID(ctx, id)
	if errors.Is(err, animateurstore.ErrNotFound) {
		h.ErrLog.NotFound(w, "Animateur introuvable.")
		return nil
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading animateur", err, "Impossible de charger l'animateur.")
		return nil
	}
	return a
}

// ServeUpdate handles PUT /api/animateurs/{id}.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	s, ok := authz.SubjectFromRequest(r)
	if !ok {
		h.ErrLog.Unauthorized(w)
		return
	}
	var in animateurRequest
	if err := httpjson.Decode(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode animateur body failed", err, "Requête invalide.")
		return
	}
	if res := in.validate(); res.HasErrors() {
		h.ErrLog.Invalid(w, r, res)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	current := h.load(ctx, w, r)
	if current == nil {
		return
	}
	next := in.model()
	if h.ErrLog.Policy(w, r, authz.RequireStaffManagement(s, current.Group)) ||
		h.ErrLog.Policy(w, r, authz.RequireStaffManagement(s, next.Group)) {
		return
	}
	next.ID = current.ID

	updated, err := h.Animateurs.Update(ctx, next)
	if errors.Is(err, animateurstore.ErrNotFound) {
		h.ErrLog.NotFound(w, "Animateur introuvable.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error updating animateur", err, "Impossible de modifier l'animateur.")
		return
	}
	h.AuditLog.Admin(ctx, r, s, updated.Group, audit.EventAnimateurUpdated, map[string]string{
		"animateur_id": updated.ID.Hex(),
	})
	httpjson.OK(w, view(*updated))
}

// ServeDelete handles DELETE /api/animateurs/{id}.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	s, ok := authz.SubjectFromRequest(r)
	if !ok {
		h.ErrLog.Unauthorized(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	a := h.load(ctx, w, r)
	if a == nil {
		return
	}
	if h.ErrLog.Policy(w, r, authz.RequireStaffManagement(s, a.Group)) {
		return
	}
	if err := h.Animateurs.Delete(ctx, a.ID); err != nil && !errors.Is(err, animateurstore.ErrNotFound) {
		h.ErrLog.LogServerError(w, r, "database error deleting animateur", err, "Impossible de supprimer l'animateur.")
		return
	}
	h.AuditLog.Admin(ctx, r, s, a.Group, audit.EventAnimateurDeleted, map[string]string{
		"animateur_id": a.ID.Hex(),
		"name":         a.FirstName + " " + a.LastName,
	})
	w.WriteHeader(http.StatusNoContent)
}
