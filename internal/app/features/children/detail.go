// internal/app/features/children/detail.go
package children

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/patrohub/internal/app/features/shared/httpjson"
	childstore "github.com/dalemusser/patrohub/internal/app/store/children"
	registrationstore "github.com/dalemusser/patrohub/internal/app/store/registrations"
	"github.com/dalemusser/patrohub/internal/app/system/authz"
	"github.com/dalemusser/patrohub/internal/app/system/phone"
	"github.com/dalemusser/patrohub/internal/app/system/schoolyear"
	"github.com/dalemusser/patrohub/internal/app/system/sections"
	"github.com/dalemusser/patrohub/internal/app/system/timeouts"
	"github.com/dalemusser/patrohub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ParentView is a parent as shown to staff.
type ParentView struct {
	ID           string `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Relationship string `json:"relationship,omitempty"`
	Phone        string `json:"phone"`
	Email        string `json:"email,omitempty"`
}

func parentView(p *models.Parent) *ParentView {
	if p == nil {
		return nil
	}
	return &ParentView{
		ID:           p.ID.Hex(),
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Relationship: p.Relationship,
		Phone:        phone.Format(p.Phone),
		Email:        p.Email,
	}
}

// PlacementView is the section classification at today's school age.
type PlacementView struct {
	Kind    string          `json:"kind"`
	Section *models.Section `json:"section,omitempty"`
	Label   string          `json:"label"`
}

// RegistrationView is the current school year's registration.
type RegistrationView struct {
	ID               string             `json:"id"`
	SchoolYear       string             `json:"schoolYear"`
	Amount           float64            `json:"amount"`
	IsPaid           bool               `json:"isPaid"`
	PaidAt           *time.Time         `json:"paidAt,omitempty"`
	PaymentReference string             `json:"paymentReference"`
	MedicalInfo      models.MedicalInfo `json:"medicalInfo"`
	CreatedAt        time.Time          `json:"createdAt"`
}

// Detail is the body of GET /api/children/{id}.
type Detail struct {
	ID                  string            `json:"id"`
	FirstName           string            `json:"firstName"`
	LastName            string            `json:"lastName"`
	BirthDate           string            `json:"birthDate"`
	Age                 int               `json:"age"`
	Group               models.Group      `json:"group"`
	Section             *models.Section   `json:"section,omitempty"`
	Placement           PlacementView     `json:"placement"`
	Address             string            `json:"address"`
	City                string            `json:"city"`
	PostalCode          string            `json:"postalCode"`
	Parent1             *ParentView       `json:"parent1"`
	Parent2             *ParentView       `json:"parent2,omitempty"`
	CurrentRegistration *RegistrationView `json:"currentRegistration"`
}

// ServeDetail handles GET /api/children/{id}.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	s, ok := authz.SubjectFromRequest(r)
	if !ok {
		h.ErrLog.Unauthorized(w)
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.NotFound(w, "Membre introuvable.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, err := h.Children.GetByID(ctx, id)
	if errors.Is(err, childstore.ErrNotFound) {
		h.ErrLog.NotFound(w, "Membre introuvable.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading child", err, "Impossible de charger le membre.")
		return
	}
	if h.ErrLog.Policy(w, r, authz.RequireView(s, c.Group)) {
		return
	}

	now := h.Now()
	ids := []primitive.ObjectID{c.Parent1ID}
	if c.Parent2ID != nil {
		ids = append(ids, *c.Parent2ID)
	}
	parents, err := h.Parents.GetMany(ctx, ids)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading parents", err, "Impossible de charger le membre.")
		return
	}

	placement := sections.ClassifyBirthDate(c.BirthDate, c.Group, now)
	out := Detail{
		ID:         c.ID.Hex(),
		FirstName:  c.FirstName,
		LastName:   c.LastName,
		BirthDate:  c.BirthDate.UTC().Format("2006-01-02"),
		Age:        schoolyear.Age(c.BirthDate, now),
		Group:      c.Group,
		Section:    c.Section,
		Address:    c.Address,
		City:       c.City,
		PostalCode: c.PostalCode,
		Placement: PlacementView{
			Kind:    placement.Kind.String(),
			Section: placement.SectionPtr(),
			Label:   placement.DisplayLabel(),
		},
	}
	if p, ok := parents[c.Parent1ID]; ok {
		out.Parent1 = parentView(&p)
	}
	if c.Parent2ID != nil {
		if p, ok := parents[*c.Parent2ID]; ok {
			out.Parent2 = parentView(&p)
		}
	}

	reg, err := h.Regs.GetForChild(ctx, c.ID, schoolyear.Label(now))
	switch {
	case err == nil:
		out.CurrentRegistration = &RegistrationView{
			ID:               reg.ID.Hex(),
			SchoolYear:       reg.SchoolYear,
			Amount:           reg.Amount,
			IsPaid:           reg.IsPaid,
			PaidAt:           reg.PaidAt,
			PaymentReference: reg.PaymentReference,
			MedicalInfo:      reg.MedicalInfo,
			CreatedAt:        reg.CreatedAt,
		}
	case !errors.Is(err, registrationstore.ErrNotFound):
		h.Log.Warn("current registration unavailable", zap.Error(err), zap.String("child_id", c.ID.Hex()))
	}
	httpjson.OK(w, out)
}
