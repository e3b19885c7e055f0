// internal/app/features/camps/dashboard.go
package camps

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/patrohub/internal/app/features/shared/httpjson"
	"github.com/dalemusser/patrohub/internal/app/store/audit"
	campregstore "github.com/dalemusser/patrohub/internal/app/store/campregistrations"
	campstore "github.com/dalemusser/patrohub/internal/app/store/camps"
	"github.com/dalemusser/patrohub/internal/app/store/queries/rosterqueries"
	"github.com/dalemusser/patrohub/internal/app/system/authz"
	"github.com/dalemusser/patrohub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/patrohub/internal/app/system/inputval"
	"github.com/dalemusser/patrohub/internal/app/system/normalize"
	"github.com/dalemusser/patrohub/internal/app/system/phone"
	"github.com/dalemusser/patrohub/internal/app/system/recaps"
	"github.com/dalemusser/patrohub/internal/app/system/schoolyear"
	"github.com/dalemusser/patrohub/internal/app/system/sections"
	"github.com/dalemusser/patrohub/internal/app/system/timeouts"
	"github.com/dalemusser/patrohub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// campRequest is the body of POST and PUT /api/camps.
type campRequest struct {
	Name            string   `json:"name" validate:"required,min=2,max=100" label:"Nom du camp"`
	Description     string   `json:"description" validate:"max=5000" label:"Description"`
	Location        string   `json:"location" validate:"required,min=2,max=200" label:"Lieu"`
	StartDate       string   `json:"startDate" validate:"required,isodate" label:"Date de début"`
	EndDate         string   `json:"endDate" validate:"required,isodate" label:"Date de fin"`
	StartTime       string   `json:"startTime" validate:"omitempty,datetime=15:04" label:"Heure de début"`
	EndTime         string   `json:"endTime" validate:"omitempty,datetime=15:04" label:"Heure de fin"`
	Price           float64  `json:"price" validate:"gte=0" label:"Prix"`
	IBAN            string   `json:"iban" validate:"omitempty,min=15,max=34" label:"IBAN"`
	BIC             string   `json:"bic" validate:"omitempty,min=8,max=11" label:"BIC"`
	Beneficiary     string   `json:"beneficiary" validate:"omitempty,max=70" label:"Bénéficiaire"`
	Group           string   `json:"group" validate:"required,patrogroup" label:"Groupe"`
	Sections        []string `json:"sections" validate:"dive,patrosection" label:"Sections"`
	AnimatorIDs     []string `json:"animatorIds" validate:"dive,objectid" label:"Animateurs"`
	MaxParticipants *int     `json:"maxParticipants" validate:"omitempty,gte=1" label:"Nombre maximum de participants"`
	IsPublic        bool     `json:"isPublic"`
}

func (in *campRequest) validate() *inputval.Result {
	in.Name = strings.TrimSpace(in.Name)
	in.Location = strings.TrimSpace(in.Location)
	in.StartDate = strings.TrimSpace(in.StartDate)
	in.EndDate = strings.TrimSpace(in.EndDate)
	in.Group = normalize.Group(in.Group)
	in.IBAN = normalize.IBAN(in.IBAN)
	in.BIC = strings.ToUpper(strings.TrimSpace(in.BIC))
	in.Beneficiary = strings.TrimSpace(in.Beneficiary)
	for i := range in.Sections {
		in.Sections[i] = normalize.Section(in.Sections[i])
	}

	res := inputval.Validate(in)
	if res.HasErrors() {
		return res
	}
	start, _ := time.Parse(inputval.DateLayout, in.StartDate)
	end, _ := time.Parse(inputval.DateLayout, in.EndDate)
	if end.Before(start) {
		res.Errors = append(res.Errors, inputval.FieldError{
			Field:   "EndDate",
			Message: "La date de fin doit suivre la date de début.",
		})
	}
	for _, raw := range in.Sections {
		if g, _ := sections.GroupOf(models.Section(raw)); string(g) != in.Group {
			res.Errors = append(res.Errors, inputval.FieldError{
				Field:   "Sections",
				Message: "La section " + sections.Label(models.Section(raw)) + " n'appartient pas à ce groupe.",
			})
		}
	}
	if (in.IBAN == "") != (in.Beneficiary == "") {
		res.Errors = append(res.Errors, inputval.FieldError{
			Field:   "IBAN",
			Message: "L'IBAN et le bénéficiaire vont de pair.",
		})
	}
	return res
}

// camp converts a validated request.
func (in *campRequest) camp() models.Camp {
	start, _ := time.Parse(inputval.DateLayout, in.StartDate)
	end, _ := time.Parse(inputval.DateLayout, in.EndDate)
	c := models.Camp{
		Name:            htmlsanitize.PlainText(in.Name),
		Description:     htmlsanitize.Sanitize(in.Description),
		Location:        htmlsanitize.PlainText(in.Location),
		StartDate:       start,
		EndDate:         end,
		StartTime:       in.StartTime,
		EndTime:         in.EndTime,
		Price:           in.Price,
		IBAN:            in.IBAN,
		BIC:             in.BIC,
		Beneficiary:     htmlsanitize.PlainText(in.Beneficiary),
		Group:           models.Group(in.Group),
		Sections:        make([]models.Section, 0, len(in.Sections)),
		MaxParticipants: in.MaxParticipants,
		IsPublic:        in.IsPublic,
	}
	for _, s := range in.Sections {
		c.Sections = append(c.Sections, models.Section(s))
	}
	for _, raw := range in.AnimatorIDs {
		if id, err := primitive.ObjectIDFromHex(raw); err == nil {
			c.AnimatorIDs = append(c.AnimatorIDs, id)
		}
	}
	return c
}

// ServeList handles GET /api/camps?group=.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	s, ok := authz.SubjectFromRequest(r)
	if !ok {
		h.ErrLog.Unauthorized(w)
		return
	}
	groups := authz.ScopeGroups(s, normalize.Group(query.Get(r, "group")))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	camps, err := h.Camps.List(ctx, groups)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error listing camps", err, "Impossible de charger les camps.")
		return
	}
	counts, err := h.CampRegs.CountByCamps(ctx, campIDs(camps))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error counting camp registrations", err, "Impossible de charger les camps.")
		return
	}
	out := make([]CampView, 0, len(camps))
	for _, c := range camps {
		out = append(out, campView(c, counts[c.ID]))
	}
	httpjson.OK(w, map[string]any{"camps": out})
}

// ServeCreate handles POST /api/camps.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	s, ok := authz.SubjectFromRequest(r)
	if !ok {
		h.ErrLog.Unauthorized(w)
		return
	}
	var in campRequest
	if err := httpjson.Decode(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode camp body failed", err, "Requête invalide.")
		return
	}
	if res := in.validate(); res.HasErrors() {
		h.ErrLog.Invalid(w, r, res)
		return
	}
	c := in.camp()
	if h.ErrLog.Policy(w, r, authz.RequireEdit(s, c.Group)) {
		return
	}
	c.CreatedByID = s.UserID
	c.CreatedByName = s.Name

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, err := h.Camps.Create(ctx, c)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error creating camp", err, "Impossible de créer le camp.")
		return
	}
	h.AuditLog.Admin(ctx, r, s, c.Group, audit.EventCampCreated, map[string]string{
		"camp_id": c.ID.Hex(),
		"name":    c.Name,
	})
	httpjson.Created(w, campView(c, 0))
}

// loadCamp resolves {id} and checks that s may view its group. It writes
// the error response and returns nil on failure.
func (h *Handler) loadCamp(ctx context.Context, w http.ResponseWriter, r *http.Request, s authz.Subject) *models.Camp {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.NotFound(w, "Camp introuvable.")
		return nil
	}
	c, err := h.Camps.GetByID(ctx, id)
	if errors.Is(err, campstore.ErrNotFound) {
		h.ErrLog.NotFound(w, "Camp introuvable.")
		return nil
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading camp", err, "Impossible de charger le camp.")
		return nil
	}
	if h.ErrLog.Policy(w, r, authz.RequireView(s, c.Group)) {
		return nil
	}
	return c
}

// ServeUpdate handles PUT /api/camps/{id}. Moving a camp to another group
// requires edit rights on both, and is refused (409) once children are
// registered: they belong to the camp's group.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	s, ok := authz.SubjectFromRequest(r)
	if !ok {
		h.ErrLog.Unauthorized(w)
		return
	}
	var in campRequest
	if err := httpjson.Decode(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode camp body failed", err, "Requête invalide.")
		return
	}
	if res := in.validate(); res.HasErrors() {
		h.ErrLog.Invalid(w, r, res)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	current := h.loadCamp(ctx, w, r, s)
	if current == nil {
		return
	}
	next := in.camp()
	if h.ErrLog.Policy(w, r, authz.RequireEdit(s, current.Group)) ||
		h.ErrLog.Policy(w, r, authz.RequireEdit(s, next.Group)) {
		return
	}
	next.ID = current.ID
	if next.Group != current.Group {
		n, err := h.CampRegs.CountByCamp(ctx, current.ID)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "database error counting camp registrations", err, "Impossible de modifier le camp.")
			return
		}
		if n > 0 {
			h.ErrLog.Conflict(w, "Ce camp a déjà des inscrits : il ne peut pas changer de patro.")
			return
		}
	}

	updated, err := h.Camps.Update(ctx, next)
	if errors.Is(err, campstore.ErrNotFound) {
		h.ErrLog.NotFound(w, "Camp introuvable.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error updating camp", err, "Impossible de modifier le camp.")
		return
	}
	n, err := h.CampRegs.CountByCamp(ctx, updated.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error counting camp registrations", err, "Impossible de modifier le camp.")
		return
	}
	h.AuditLog.Admin(ctx, r, s, updated.Group, audit.EventCampUpdated, map[string]string{
		"camp_id": updated.ID.Hex(),
		"name":    updated.Name,
	})
	httpjson.OK(w, campView(*updated, n))
}

// ServeDelete handles DELETE /api/camps/{id}. Registrations go with it.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	s, ok := authz.SubjectFromRequest(r)
	if !ok {
		h.ErrLog.Unauthorized(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	c := h.loadCamp(ctx, w, r, s)
	if c == nil {
		return
	}
	if h.ErrLog.Policy(w, r, authz.RequireEdit(s, c.Group)) {
		return
	}
	if err := h.Camps.Delete(ctx, c.ID); err != nil && !errors.Is(err, campstore.ErrNotFound) {
		h.ErrLog.LogServerError(w, r, "database error deleting camp", err, "Impossible de supprimer le camp.")
		return
	}
	h.AuditLog.Admin(ctx, r, s, c.Group, audit.EventCampDeleted, map[string]string{
		"camp_id": c.ID.Hex(),
		"name":    c.Name,
	})
	w.WriteHeader(http.StatusNoContent)
}

// RegistrationView is one line of the camp detail.
type RegistrationView struct {
	ID                 string              `json:"id"`
	ChildID            string              `json:"childId"`
	FirstName          string              `json:"firstName"`
	LastName           string              `json:"lastName"`
	Age                int                 `json:"age"`
	SectionLabel       string              `json:"sectionLabel"`
	ParentName         string              `json:"parentName,omitempty"`
	ParentPhone        string              `json:"parentPhone,omitempty"`
	ParentEmail        string              `json:"parentEmail,omitempty"`
	MedicalInfoUpdated bool                `json:"medicalInfoUpdated"`
	MedicalInfo        *models.MedicalInfo `json:"medicalInfo,omitempty"`
	Remarks            string              `json:"remarks,omitempty"`
	PaidAmount         float64             `json:"paidAmount"`
	IsPaid             bool                `json:"isPaid"`
	PaidAt             *time.Time          `json:"paidAt,omitempty"`
	PaymentReference   string              `json:"paymentReference"`
	CreatedAt          time.Time           `json:"createdAt"`
}

type detailResponse struct {
	Camp          CampView           `json:"camp"`
	Registrations []RegistrationView `json:"registrations"`
	PaidTotal     float64            `json:"paidTotal"`
	UnpaidTotal   float64            `json:"unpaidTotal"`
}

// ServeDetail handles GET /api/camps/{id}.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	s, ok := authz.SubjectFromRequest(r)
	if !ok {
		h.ErrLog.Unauthorized(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	c := h.loadCamp(ctx, w, r, s)
	if c == nil {
		return
	}
	now := h.Now()
	members, err := rosterqueries.Camp(ctx, h.DB, c.ID, schoolyear.Label(now))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading camp registrations", err, "Impossible de charger le camp.")
		return
	}

	resp := detailResponse{
		Camp:          campView(*c, int64(len(members))),
		Registrations: make([]RegistrationView, 0, len(members)),
	}
	for _, m := range members {
		cr := m.Registration
		age := schoolyear.Age(m.Child.BirthDate, now)
		v := RegistrationView{
			ID:                 cr.ID.Hex(),
			ChildID:            m.Child.ID.Hex(),
			FirstName:          m.Child.FirstName,
			LastName:           m.Child.LastName,
			Age:                age,
			SectionLabel:       recaps.SectionLabel(m.Child, age),
			MedicalInfoUpdated: cr.MedicalInfoUpdated,
			MedicalInfo:        m.Medical(),
			Remarks:            cr.Remarks,
			PaidAmount:         cr.PaidAmount,
			IsPaid:             cr.IsPaid,
			PaidAt:             cr.PaidAt,
			PaymentReference:   cr.PaymentReference,
			CreatedAt:          cr.CreatedAt,
		}
		if p := m.Parent1; p != nil {
			v.ParentName = p.FullName()
			v.ParentPhone = phone.Format(p.Phone)
			v.ParentEmail = p.Email
		}
		if cr.IsPaid {
			resp.PaidTotal += cr.PaidAmount
		} else {
			resp.UnpaidTotal += cr.PaidAmount
		}
		resp.Registrations = append(resp.Registrations, v)
	}
	httpjson.OK(w, resp)
}

type paymentRequest struct {
	IsPaid *bool `json:"isPaid" validate:"required" label:"Statut de paiement"`
}

// ServeSetPayment handles PATCH /api/camp-registrations/{id}/payment.
func (h *Handler) ServeSetPayment(w http.ResponseWriter, r *http.Request) {
	s, ok := authz.SubjectFromRequest(r)
	if !ok {
		h.ErrLog.Unauthorized(w)
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.NotFound(w, "Inscription introuvable.")
		return
	}
	var in paymentRequest
	if err := httpjson.Decode(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode payment body failed", err, "Requête invalide.")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		h.ErrLog.Invalid(w, r, res)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	cr, err := h.CampRegs.GetByID(ctx, id)
	if errors.Is(err, campregstore.ErrNotFound) {
		h.ErrLog.NotFound(w, "Inscription introuvable.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading camp registration", err, "Impossible de modifier le paiement.")
		return
	}
	if h.ErrLog.Policy(w, r, authz.RequireEdit(s, cr.Group)) {
		return
	}
	updated, err := h.CampRegs.SetPayment(ctx, id, *in.IsPaid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error updating camp payment", err, "Impossible de modifier le paiement.")
		return
	}
	h.AuditLog.Admin(ctx, r, s, cr.Group, audit.EventPaymentStatusChanged, map[string]string{
		"camp_registration_id": id.Hex(),
		"is_paid":              strconv.FormatBool(*in.IsPaid),
	})
	h.Log.Info("camp payment updated", zap.String("camp_registration_id", id.Hex()), zap.Bool("is_paid", *in.IsPaid))
	httpjson.OK(w, map[string]any{
		"id":     updated.ID.Hex(),
		"isPaid": updated.IsPaid,
		"paidAt": updated.PaidAt,
	})
}
