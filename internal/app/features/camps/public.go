// internal/app/features/camps/public.go
package camps

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dalemusser/patrohub/internal/app/features/shared/httpjson"
	"github.com/dalemusser/patrohub/internal/app/features/shared/medicalform"
	campregstore "github.com/dalemusser/patrohub/internal/app/store/campregistrations"
	campstore "github.com/dalemusser/patrohub/internal/app/store/camps"
	childstore "github.com/dalemusser/patrohub/internal/app/store/children"
	"github.com/dalemusser/patrohub/internal/app/system/epcqr"
	"github.com/dalemusser/patrohub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/patrohub/internal/app/system/inputval"
	"github.com/dalemusser/patrohub/internal/app/system/mailer"
	"github.com/dalemusser/patrohub/internal/app/system/metrics"
	"github.com/dalemusser/patrohub/internal/app/system/normalize"
	"github.com/dalemusser/patrohub/internal/app/system/payref"
	"github.com/dalemusser/patrohub/internal/app/system/timeouts"
	"github.com/dalemusser/patrohub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServePublicList handles GET /api/public/camps?group=.
func (h *Handler) ServePublicList(w http.ResponseWriter, r *http.Request) {
	var group *models.Group
	if raw := normalize.Group(query.Get(r, "group")); raw != "" {
		g, ok := models.ParseGroup(raw)
		if !ok {
			h.ErrLog.LogBadRequest(w, r, "unknown group filter", nil, "Groupe inconnu.")
			return
		}
		group = &g
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	camps, err := h.Camps.ListPublic(ctx, group)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error listing public camps", err, "Impossible de charger les camps.")
		return
	}
	counts, err := h.CampRegs.CountByCamps(ctx, campIDs(camps))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error counting camp registrations", err, "Impossible de charger les camps.")
		return
	}

	out := make([]CampView, 0, len(camps))
	for _, c := range camps {
		out = append(out, publicView(c, counts[c.ID]))
	}
	httpjson.OK(w, map[string]any{"camps": out})
}

func campIDs(cs []models.Camp) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(cs))
	for _, c := range cs {
		ids = append(ids, c.ID)
	}
	return ids
}

type signupRequest struct {
	CampID             string            `json:"campId" validate:"required,objectid" label:"Camp"`
	ChildID            string            `json:"childId" validate:"required,objectid" label:"Enfant"`
	MedicalInfoUpdated bool              `json:"medicalInfoUpdated"`
	MedicalInfo        *medicalform.Form `json:"medicalInfo" validate:"-"`
	Remarks            string            `json:"remarks" validate:"max=2000" label:"Remarques"`
}

func (in *signupRequest) validate() *inputval.Result {
	in.CampID = strings.TrimSpace(in.CampID)
	in.ChildID = strings.TrimSpace(in.ChildID)
	in.Remarks = strings.TrimSpace(in.Remarks)
	res := inputval.Validate(in)
	if !in.MedicalInfoUpdated {
		return res
	}
	if in.MedicalInfo == nil {
		res.Errors = append(res.Errors, inputval.FieldError{
			Field:   "MedicalInfo",
			Message: "La fiche médicale mise à jour est obligatoire.",
		})
		return res
	}
	in.MedicalInfo.Trim()
	res.Errors = append(res.Errors, inputval.Validate(in.MedicalInfo).Errors...)
	return res
}

// SignupResponse is returned with 201.
type SignupResponse struct {
	ID               string  `json:"id"`
	CampID           string  `json:"campId"`
	ChildID          string  `json:"childId"`
	PaidAmount       float64 `json:"paidAmount"`
	PaymentReference string  `json:"paymentReference"`
	IBAN             string  `json:"iban,omitempty"`
	Beneficiary      string  `json:"beneficiary,omitempty"`
}

// ServePublicRegister handles POST /api/public/camp-registrations.
func (h *Handler) ServePublicRegister(w http.ResponseWriter, r *http.Request) {
	var in signupRequest
	if err := httpjson.Decode(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode camp registration body failed", err, "Requête invalide.")
		return
	}
	if res := in.validate(); res.HasErrors() {
		h.ErrLog.Invalid(w, r, res)
		return
	}
	campID, _ := primitive.ObjectIDFromHex(in.CampID)
	childID, _ := primitive.ObjectIDFromHex(in.ChildID)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	camp, err := h.Camps.GetByID(ctx, campID)
	if errors.Is(err, campstore.ErrNotFound) {
		h.ErrLog.NotFound(w, "Camp introuvable.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading camp", err, "Erreur lors de l'inscription.")
		return
	}
	if !camp.IsPublic {
		h.ErrLog.Forbidden(w, r, "Ce camp n'est pas ouvert aux inscriptions.")
		return
	}

	child, err := h.Children.GetByID(ctx, childID)
	if errors.Is(err, childstore.ErrNotFound) {
		h.ErrLog.NotFound(w, "Enfant introuvable.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading child", err, "Erreur lors de l'inscription.")
		return
	}
	if child.Group != camp.Group || !camp.AcceptsSection(child.Section) {
		metrics.CampRegistrations.WithLabelValues(string(camp.Group), "refused").Inc()
		h.ErrLog.Forbidden(w, r, "Cet enfant ne peut pas s'inscrire à ce camp.")
		return
	}

	cr := models.CampRegistration{
		CampID:             camp.ID,
		ChildID:            child.ID,
		Group:              camp.Group,
		MedicalInfoUpdated: in.MedicalInfoUpdated,
		Remarks:            htmlsanitize.PlainText(in.Remarks),
		PaidAmount:         camp.Price,
		PaymentReference:   payref.Camp(camp.Name, child.FirstName, child.LastName, uuid.New()),
	}
	if in.MedicalInfoUpdated {
		med := in.MedicalInfo.Model()
		cr.MedicalInfo = &med
	}

	cr, err = h.CampRegs.Create(ctx, cr, camp.MaxParticipants)
	switch {
	case errors.Is(err, campregstore.ErrCampFull):
		metrics.CampRegistrations.WithLabelValues(string(camp.Group), "full").Inc()
		h.ErrLog.Conflict(w, "Ce camp est complet.")
		return
	case errors.Is(err, campregstore.ErrDuplicateCampRegistration):
		metrics.CampRegistrations.WithLabelValues(string(camp.Group), "duplicate").Inc()
		h.ErrLog.Conflict(w, "Cet enfant est déjà inscrit à ce camp.")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "database error creating camp registration", err, "Erreur lors de l'inscription.")
		return
	}

	iban, beneficiary, _ := h.bankDetails(ctx, *camp)
	h.sendConfirmation(ctx, *camp, *child, cr, iban, beneficiary)
	h.AuditLog.CampRegistrationCreated(ctx, r, cr)
	metrics.CampRegistrations.WithLabelValues(string(camp.Group), "created").Inc()
	h.Log.Info("camp registration created",
		zap.String("camp_registration_id", cr.ID.Hex()),
		zap.String("camp_id", camp.ID.Hex()))

	httpjson.Created(w, SignupResponse{
		ID:               cr.ID.Hex(),
		CampID:           camp.ID.Hex(),
		ChildID:          child.ID.Hex(),
		PaidAmount:       cr.PaidAmount,
		PaymentReference: cr.PaymentReference,
		IBAN:             iban,
		Beneficiary:      beneficiary,
	})
}

// bankDetails returns the camp's account, or the group's when the camp has
// none.
func (h *Handler) bankDetails(ctx context.Context, c models.Camp) (iban, beneficiary, bic string) {
	if c.IBAN != "" && c.Beneficiary != "" {
		return c.IBAN, c.Beneficiary, c.BIC
	}
	if h.Settings == nil {
		return "", "", ""
	}
	gs, err := h.Settings.Get(ctx, c.Group)
	if err != nil {
		h.Log.Warn("group settings unavailable for camp payment", zap.Error(err), zap.String("camp_id", c.ID.Hex()))
		return "", "", ""
	}
	return gs.IBAN, gs.Beneficiary, gs.BIC
}

// sendConfirmation mails parent 1. Failures are logged only.
func (h *Handler) sendConfirmation(ctx context.Context, c models.Camp, child models.Child, cr models.CampRegistration, iban, beneficiary string) {
	if h.Mailer == nil {
		return
	}
	p, err := h.Parents.GetByID(ctx, child.Parent1ID)
	if err != nil || p.Email == "" {
		return
	}
	email := mailer.BuildCampEmail(mailer.CampEmailData{
		CampName:         c.Name,
		ChildName:        child.FullName(),
		Dates:            dates(c),
		Location:         c.Location,
		Description:      c.Description,
		Amount:           cr.PaidAmount,
		PaymentReference: cr.PaymentReference,
		IBAN:             iban,
		Beneficiary:      beneficiary,
	})
	email.To = p.Email
	if err := h.Mailer.Send(email); err != nil {
		h.Log.Warn("camp confirmation not sent", zap.Error(err), zap.String("camp_registration_id", cr.ID.Hex()))
	}
}

// ServePublicPaymentQR handles
// GET /api/public/camp-registrations/{id}/payment-qr.png.
func (h *Handler) ServePublicPaymentQR(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.NotFound(w, "Inscription introuvable.")
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
		h.ErrLog.LogServerError(w, r, "database error loading camp registration", err, "Impossible de générer le code QR.")
		return
	}
	if cr.IsPaid || cr.PaidAmount <= 0 {
		h.ErrLog.NotFound(w, "Aucun paiement en attente.")
		return
	}
	camp, err := h.Camps.GetByID(ctx, cr.CampID)
	if err != nil {
		h.ErrLog.NotFound(w, "Camp introuvable.")
		return
	}
	iban, beneficiary, bic := h.bankDetails(ctx, *camp)
	if iban == "" || beneficiary == "" {
		h.ErrLog.NotFound(w, "Aucun compte bancaire n'est configuré.")
		return
	}

	png, err := epcqr.PNG(epcqr.Transfer{
		BIC:         bic,
		Beneficiary: beneficiary,
		IBAN:        iban,
		Amount:      cr.PaidAmount,
		Reference:   cr.PaymentReference,
	}, 320)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "render camp payment qr failed", err, "Impossible de générer le code QR.")
		return
	}
	metrics.DocumentsRendered.WithLabelValues("payment_qr").Inc()

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", fmt.Sprint(len(png)))
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}
