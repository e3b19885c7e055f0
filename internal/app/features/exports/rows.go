package exports

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dalemusser/patrohub/internal/app/store/queries/rosterqueries"
	"github.com/dalemusser/patrohub/internal/app/system/authz"
	"github.com/dalemusser/patrohub/internal/app/system/normalize"
	"github.com/dalemusser/patrohub/internal/app/system/phone"
	"github.com/dalemusser/patrohub/internal/app/system/recaps"
	"github.com/dalemusser/patrohub/internal/app/system/schoolyear"
	"github.com/dalemusser/patrohub/internal/app/system/timeouts"
	"github.com/dalemusser/patrohub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
)

var header = []string{
	"Nom", "Prénom", "Date de naissance", "Âge", "Groupe", "Section",
	"Adresse", "Code postal", "Localité",
	"Parent 1", "Téléphone 1", "E-mail 1",
	"Parent 2", "Téléphone 2", "E-mail 2",
	"Montant", "Payé", "Référence",
}

// roster is the export input: the visible groups and their members for
// the current school year.
type roster struct {
	year    string
	groups  []models.Group
	members []rosterqueries.Member
	now     time.Time
}

// load resolves the caller's groups and runs the year query. It writes the
// error response itself and reports false when the caller should stop.
func (h *Handler) load(w http.ResponseWriter, r *http.Request) (roster, bool) {
	s, ok := authz.SubjectFromRequest(r)
	if !ok {
		h.ErrLog.Unauthorized(w)
		return roster{}, false
	}
	now := h.Now()
	ro := roster{
		year:   schoolyear.Label(now),
		groups: authz.ScopeGroups(s, normalize.Group(query.Get(r, "group"))),
		now:    now,
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	members, err := rosterqueries.Year(ctx, h.DB, rosterqueries.YearFilter{
		SchoolYear: ro.year,
		Groups:     ro.groups,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading export", err, "Impossible de générer l'export.")
		return roster{}, false
	}
	ro.members = members
	return ro, true
}

func record(m rosterqueries.Member, now time.Time) []string {
	c := m.Child
	age := schoolyear.Age(c.BirthDate, now)
	paid := "Non"
	if m.Registration.IsPaid {
		paid = "Oui"
	}
	out := []string{
		c.LastName, c.FirstName, c.BirthDate.Format("02/01/2006"), strconv.Itoa(age),
		c.Group.Label(), recaps.SectionLabel(c, age),
		c.Address, c.PostalCode, c.City,
	}
	out = append(out, parentCells(m.Parent1)...)
	out = append(out, parentCells(m.Parent2)...)
	return append(out,
		fmt.Sprintf("%.2f", m.Registration.Amount), paid, m.Registration.PaymentReference,
	)
}

func parentCells(p *models.Parent) []string {
	if p == nil {
		return []string{"", "", ""}
	}
	return []string{p.FullName(), phone.Format(p.Phone), p.Email}
}
