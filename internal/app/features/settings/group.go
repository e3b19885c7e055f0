// internal/app/features/settings/group.go
package settings

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/patrohub/internal/app/features/shared/httpjson"
	"github.com/dalemusser/patrohub/internal/app/store/audit"
	"github.com/dalemusser/patrohub/internal/app/system/authz"
	"github.com/dalemusser/patrohub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/patrohub/internal/app/system/inputval"
	"github.com/dalemusser/patrohub/internal/app/system/normalize"
	"github.com/dalemusser/patrohub/internal/app/system/timeouts"
	"github.com/dalemusser/patrohub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SettingsView is the wire form of group settings. Bank fields are empty in
// the public variant.
type SettingsView struct {
	Group           models.Group `json:"group"`
	RegistrationFee float64      `json:"registrationFee"`
	ContactEmail    string       `json:"contactEmail,omitempty"`
	Address         string       `json:"address,omitempty"`
	Schedule        string       `json:"schedule,omitempty"`
	IBAN            string       `json:"iban,omitempty"`
	BIC             string       `json:"bic,omitempty"`
	Beneficiary     string       `json:"beneficiary,omitempty"`
	UpdatedAt       *time.Time   `json:"updatedAt,omitempty"`
	UpdatedByName   string       `json:"updatedByName,omitempty"`
}

func view(gs models.GroupSettings) SettingsView {
	return SettingsView{
		Group:           gs.Group,
		RegistrationFee: gs.RegistrationFee,
		ContactEmail:    gs.ContactEmail,
		Address:         gs.Address,
		Schedule:        gs.Schedule,
		IBAN:            gs.IBAN,
		BIC:             gs.BIC,
		Beneficiary:     gs.Beneficiary,
		UpdatedAt:       gs.UpdatedAt,
		UpdatedByName:   gs.UpdatedByName,
	}
}

func publicView(gs models.GroupSettings) SettingsView {
	v := view(gs)
	v.IBAN, v.BIC, v.Beneficiary = "", "", ""
	v.UpdatedByName = ""
	return v
}

// groupParam parses {group}. It writes a 404 and returns false when the
// group is unknown.
func (h *Handler) groupParam(w http.ResponseWriter, r *http.Request) (models.Group, bool) {
	g, ok := models.ParseGroup(normalize.Group(chi.URLParam(r, "group")))
	if !ok {
		h.ErrLog.NotFound(w, "Groupe inconnu.")
	}
	return g, ok
}

// ServeGet handles GET /api/settings/{group}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	s, ok := authz.SubjectFromRequest(r)
	if !ok {
		h.ErrLog.Unauthorized(w)
		return
	}
	g, ok := h.groupParam(w, r)
	if !ok {
		return
	}
	if h.ErrLog.Policy(w, r, authz.RequireView(s, g)) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	gs, err := h.Settings.Get(ctx, g)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading settings", err, "Impossible de charger les paramètres.")
		return
	}
	httpjson.OK(w, view(gs))
}

// ServePublic handles GET /api/public/settings/{group}.
func (h *Handler) ServePublic(w http.ResponseWriter, r *http.Request) {
	g, ok := h.groupParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	gs, err := h.Settings.Get(ctx, g)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading settings", err, "Impossible de charger les paramètres.")
		return
	}
	httpjson.OK(w, publicView(gs))
}

type settingsRequest struct {
	RegistrationFee float64 `json:"registrationFee" validate:"gt=0,lte=1000" label:"Cotisation"`
	ContactEmail    string  `json:"contactEmail" validate:"omitempty,email" label:"E-mail de contact"`
	Address         string  `json:"address" validate:"max=300" label:"Adresse"`
	Schedule        string  `json:"schedule" validate:"max=1000" label:"Horaire"`
	IBAN            string  `json:"iban" validate:"omitempty,min=15,max=34" label:"IBAN"`
	BIC             string  `json:"bic" validate:"omitempty,min=8,max=11" label:"BIC"`
	Beneficiary     string  `json:"beneficiary" validate:"required_with=IBAN,max=70" label:"Bénéficiaire"`
}

// ServeUpdate handles PUT /api/settings/{group}.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	s, ok := authz.SubjectFromRequest(r)
	if !ok {
		h.ErrLog.Unauthorized(w)
		return
	}
	g, ok := h.groupParam(w, r)
	if !ok {
		return
	}
	if h.ErrLog.Policy(w, r, authz.RequireConfigure(s, g)) {
		return
	}

	var in settingsRequest
	if err := httpjson.Decode(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode settings body failed", err, "Requête invalide.")
		return
	}
	in.ContactEmail = normalize.Email(in.ContactEmail)
	in.Address = strings.TrimSpace(in.Address)
	in.Schedule = strings.TrimSpace(in.Schedule)
	in.IBAN = normalize.IBAN(in.IBAN)
	in.BIC = strings.ToUpper(strings.TrimSpace(in.BIC))
	in.Beneficiary = strings.TrimSpace(in.Beneficiary)
	if res := inputval.Validate(&in); res.HasErrors() {
		h.ErrLog.Invalid(w, r, res)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id := s.UserID
	saved, err := h.Settings.Save(ctx, models.GroupSettings{
		Group:           g,
		RegistrationFee: in.RegistrationFee,
		ContactEmail:    in.ContactEmail,
		Address:         htmlsanitize.PlainText(in.Address),
		Schedule:        htmlsanitize.PlainText(in.Schedule),
		IBAN:            in.IBAN,
		BIC:             in.BIC,
		Beneficiary:     htmlsanitize.PlainText(in.Beneficiary),
		UpdatedByID:     &id,
		UpdatedByName:   s.Name,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error saving settings", err, "Impossible d'enregistrer les paramètres.")
		return
	}

	h.AuditLog.Admin(ctx, r, s, g, audit.EventSettingsUpdated, map[string]string{
		"registration_fee": fmt.Sprintf("%.2f", saved.RegistrationFee),
	})
	h.Log.Info("group settings updated", zap.String("group", string(g)), zap.String("by", s.Name))
	httpjson.OK(w, view(saved))
}
