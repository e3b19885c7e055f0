// internal/app/features/inscriptions/create.go
package inscriptions

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/patrohub/internal/app/features/shared/httpjson"
	"github.com/dalemusser/patrohub/internal/app/features/shared/medicalform"
	childstore "github.com/dalemusser/patrohub/internal/app/store/children"
	parentstore "github.com/dalemusser/patrohub/internal/app/store/parents"
	registrationstore "github.com/dalemusser/patrohub/internal/app/store/registrations"
	"github.com/dalemusser/patrohub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/patrohub/internal/app/system/inputval"
	"github.com/dalemusser/patrohub/internal/app/system/mailer"
	"github.com/dalemusser/patrohub/internal/app/system/metrics"
	"github.com/dalemusser/patrohub/internal/app/system/payref"
	"github.com/dalemusser/patrohub/internal/app/system/recaps"
	"github.com/dalemusser/patrohub/internal/app/system/schoolyear"
	"github.com/dalemusser/patrohub/internal/app/system/sections"
	"github.com/dalemusser/patrohub/internal/app/system/timeouts"
	"github.com/dalemusser/patrohub/internal/domain/models"
	"go.uber.org/zap"
)

// inscriptionRequest is the flat form posted by families.
type inscriptionRequest struct {
	ChildFirstName string `json:"childFirstName" validate:"required,min=2,max=50" label:"Prénom de l'enfant"`
	ChildLastName  string `json:"childLastName" validate:"required,min=2,max=50" label:"Nom de l'enfant"`
	ChildBirthDate string `json:"childBirthDate" validate:"required,isodate,pastdate" label:"Date de naissance"`
	PatroGroup     string `json:"patroGroup" validate:"required,patrogroup" label:"Patro"`

	Address    string `json:"address" validate:"required,min=5,max=200" label:"Adresse"`
	City       string `json:"city" validate:"required,min=2,max=100" label:"Localité"`
	PostalCode string `json:"postalCode" validate:"required,min=4,max=10" label:"Code postal"`

	Parent1FirstName    string `json:"parent1FirstName" validate:"required,min=2,max=50" label:"Prénom du parent 1"`
	Parent1LastName     string `json:"parent1LastName" validate:"required,min=2,max=50" label:"Nom du parent 1"`
	Parent1Relationship string `json:"parent1Relationship" validate:"required,max=30" label:"Lien du parent 1"`
	Parent1Phone        string `json:"parent1Phone" validate:"required,phonebe" label:"Téléphone du parent 1"`
	Parent1Email        string `json:"parent1Email" validate:"required,email" label:"E-mail du parent 1"`

	Parent2FirstName    string `json:"parent2FirstName" validate:"omitempty,min=2,max=50" label:"Prénom du parent 2"`
	Parent2LastName     string `json:"parent2LastName" validate:"omitempty,min=2,max=50" label:"Nom du parent 2"`
	Parent2Relationship string `json:"parent2Relationship" validate:"omitempty,max=30" label:"Lien du parent 2"`
	Parent2Phone        string `json:"parent2Phone" validate:"omitempty,phonebe" label:"Téléphone du parent 2"`

	medicalform.Form
}

func (in *inscriptionRequest) trim() {
	for _, p := range []*string{
		&in.ChildFirstName, &in.ChildLastName, &in.ChildBirthDate, &in.PatroGroup,
		&in.Address, &in.City, &in.PostalCode,
		&in.Parent1FirstName, &in.Parent1LastName, &in.Parent1Relationship, &in.Parent1Phone, &in.Parent1Email,
		&in.Parent2FirstName, &in.Parent2LastName, &in.Parent2Relationship, &in.Parent2Phone,
	} {
		*p = strings.TrimSpace(*p)
	}
	in.PatroGroup = strings.ToUpper(in.PatroGroup)
	in.Form.Trim()
}

func (in *inscriptionRequest) hasParent2() bool {
	return in.Parent2Phone != ""
}

// validate runs the tag rules, then requires a name for a second parent
// given by phone.
func (in *inscriptionRequest) validate() *inputval.Result {
	res := inputval.Validate(in)
	if in.hasParent2() && (in.Parent2FirstName == "" || in.Parent2LastName == "") {
		res.Errors = append(res.Errors, inputval.FieldError{
			Field:   "Parent2LastName",
			Message: "Le nom et le prénom du parent 2 sont obligatoires.",
		})
	}
	return res
}

// CreateResponse is returned with 201.
type CreateResponse struct {
	RegistrationID   string          `json:"registrationId"`
	ChildID          string          `json:"childId"`
	Section          *models.Section `json:"section"`
	SectionLabel     string          `json:"sectionLabel"`
	SchoolYear       string          `json:"schoolYear"`
	Amount           float64         `json:"amount"`
	PaymentReference string          `json:"paymentReference"`
}

// ServeCreate handles POST /api/inscriptions.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	var in inscriptionRequest
	if err := httpjson.Decode(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode inscription body failed", err, "Requête invalide.")
		return
	}
	in.trim()
	if res := in.validate(); res.HasErrors() {
		h.ErrLog.Invalid(w, r, res)
		return
	}
	birth, _ := time.Parse(inputval.DateLayout, in.ChildBirthDate)
	group := models.Group(in.PatroGroup)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p1, _, err := h.Parents.Ensure(ctx, models.Parent{
		FirstName:    htmlsanitize.PlainText(in.Parent1FirstName),
		LastName:     htmlsanitize.PlainText(in.Parent1LastName),
		Relationship: htmlsanitize.PlainText(in.Parent1Relationship),
		Phone:        in.Parent1Phone,
		Email:        in.Parent1Email,
	}, true)
	if err != nil {
		h.parentError(w, r, err)
		return
	}

	var p2 *models.Parent
	if in.hasParent2() {
		got, _, err := h.Parents.Ensure(ctx, models.Parent{
			FirstName:    htmlsanitize.PlainText(in.Parent2FirstName),
			LastName:     htmlsanitize.PlainText(in.Parent2LastName),
			Relationship: htmlsanitize.PlainText(in.Parent2Relationship),
			Phone:        in.Parent2Phone,
			Email:        p1.Email,
		}, false)
		if err != nil {
			h.parentError(w, r, err)
			return
		}
		if got.ID != p1.ID {
			p2 = &got
		}
	}

	now := h.Now()
	child, err := h.ensureChild(ctx, in, birth, group, now, &p1, p2)
	if errors.Is(err, errOtherGroup) {
		h.ErrLog.LogBadRequest(w, r, "returning child posted to the other group", err, "Cet enfant est déjà connu dans l'autre patro.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error saving child", err, "Impossible d'enregistrer l'inscription.")
		return
	}

	group = child.Group
	settings, err := h.Settings.Get(ctx, group)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading settings", err, "Impossible d'enregistrer l'inscription.")
		return
	}

	year := schoolyear.Label(now)
	reg, err := h.Regs.Create(ctx, models.Registration{
		ChildID:          child.ID,
		Group:            group,
		SchoolYear:       year,
		MedicalInfo:      in.Form.Model(),
		Amount:           settings.RegistrationFee,
		PaymentReference: payref.Inscription(year, child.FirstName, child.LastName),
	})
	if errors.Is(err, registrationstore.ErrDuplicateRegistration) {
		h.ErrLog.Conflict(w, "Cet enfant est déjà inscrit pour cette année.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error creating registration", err, "Impossible d'enregistrer l'inscription.")
		return
	}

	label := recaps.UnsetLabel
	if child.Section != nil {
		label = sections.Label(*child.Section)
	}

	h.sendConfirmation(p1.Email, child, reg, label, settings)
	h.AuditLog.InscriptionCreated(ctx, r, reg)
	metrics.Inscriptions.WithLabelValues(string(group)).Inc()
	h.Log.Info("inscription created",
		zap.String("registration_id", reg.ID.Hex()),
		zap.String("group", string(group)),
		zap.String("school_year", year))

	httpjson.Created(w, CreateResponse{
		RegistrationID:   reg.ID.Hex(),
		ChildID:          child.ID.Hex(),
		Section:          child.Section,
		SectionLabel:     label,
		SchoolYear:       year,
		Amount:           reg.Amount,
		PaymentReference: reg.PaymentReference,
	})
}

// errOtherGroup refuses to register a known child under the group it does
// not belong to.
var errOtherGroup = errors.New("child belongs to the other group")

// ensureChild returns the known child of these parents, refreshing its
// address, or creates it placed in the section of its school-year age.
func (h *Handler) ensureChild(ctx context.Context, in inscriptionRequest, birth time.Time, group models.Group, now time.Time, p1, p2 *models.Parent) (models.Child, error) {
	ids, err := parentstore.IDsOf(p1, p2)
	if err != nil {
		return models.Child{}, err
	}
	first := htmlsanitize.PlainText(in.ChildFirstName)
	last := htmlsanitize.PlainText(in.ChildLastName)
	address := htmlsanitize.PlainText(in.Address)
	city := htmlsanitize.PlainText(in.City)

	existing, err := h.Children.FindExisting(ctx, first, last, birth, ids)
	switch {
	case err == nil:
		if existing.Group != group {
			return models.Child{}, errOtherGroup
		}
		if err := h.Children.UpdateAddress(ctx, existing.ID, address, city, in.PostalCode); err != nil {
			return models.Child{}, err
		}
		return *existing, nil
	case !errors.Is(err, childstore.ErrNotFound):
		return models.Child{}, err
	}

	c := models.Child{
		FirstName:  first,
		LastName:   last,
		BirthDate:  birth,
		Group:      group,
		Section:    sections.ClassifyBirthDate(birth, group, now).SectionPtr(),
		Address:    address,
		City:       city,
		PostalCode: in.PostalCode,
		Parent1ID:  p1.ID,
	}
	if p2 != nil {
		id := p2.ID
		c.Parent2ID = &id
	}
	return h.Children.Create(ctx, c)
}

func (h *Handler) parentError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, parentstore.ErrBadPhone) {
		h.ErrLog.LogBadRequest(w, r, "invalid parent phone", err, "Numéro de téléphone invalide.")
		return
	}
	h.ErrLog.LogServerError(w, r, "database error saving parent", err, "Impossible d'enregistrer l'inscription.")
}

// sendConfirmation mails the payment instructions. Failures are logged and
// never fail the inscription.
func (h *Handler) sendConfirmation(to string, child models.Child, reg models.Registration, sectionLabel string, gs models.GroupSettings) {
	if h.Mailer == nil || to == "" {
		return
	}
	email := mailer.BuildInscriptionEmail(mailer.InscriptionEmailData{
		GroupName:        "Patro " + reg.Group.Label(),
		ChildName:        child.FullName(),
		SectionLabel:     sectionLabel,
		SchoolYear:       reg.SchoolYear,
		Amount:           reg.Amount,
		PaymentReference: reg.PaymentReference,
		IBAN:             gs.IBAN,
		Beneficiary:      gs.Beneficiary,
		ContactEmail:     gs.ContactEmail,
	})
	email.To = to
	if err := h.Mailer.Send(email); err != nil {
		h.Log.Warn("inscription confirmation not sent",
			zap.Error(err),
			zap.String("registration_id", reg.ID.Hex()))
	}
}
