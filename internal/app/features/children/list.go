// internal/app/features/children/list.go
package children

import (
	"context"
	"net/http"

	"github.com/dalemusser/patrohub/internal/app/features/shared/httpjson"
	childstore "github.com/dalemusser/patrohub/internal/app/store/children"
	registrationstore "github.com/dalemusser/patrohub/internal/app/store/registrations"
	"github.com/dalemusser/patrohub/internal/app/system/authz"
	"github.com/dalemusser/patrohub/internal/app/system/normalize"
	"github.com/dalemusser/patrohub/internal/app/system/paging"
	"github.com/dalemusser/patrohub/internal/app/system/recaps"
	"github.com/dalemusser/patrohub/internal/app/system/schoolyear"
	"github.com/dalemusser/patrohub/internal/app/system/sections"
	"github.com/dalemusser/patrohub/internal/app/system/timeouts"
	"github.com/dalemusser/patrohub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
)

// Row is one line of the child list.
type Row struct {
	ID           string       `json:"id"`
	FirstName    string       `json:"firstName"`
	LastName     string       `json:"lastName"`
	BirthDate    string       `json:"birthDate"`
	Age          int          `json:"age"`
	Group        models.Group `json:"group"`
	SectionLabel string       `json:"sectionLabel"`
	Registered   bool         `json:"registered"`
	IsPaid       bool         `json:"isPaid"`
}

type listResponse struct {
	SchoolYear string `json:"schoolYear"`
	Children   []Row  `json:"children"`
	paging.Result
	PrevCursor string `json:"prevCursor,omitempty"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// ServeList handles GET /api/children?group=&section=&q=&after=&before=.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	s, ok := authz.SubjectFromRequest(r)
	if !ok {
		h.ErrLog.Unauthorized(w)
		return
	}
	f := childstore.ListFilter{
		Groups: authz.ScopeGroups(s, normalize.Group(query.Get(r, "group"))),
		Query:  query.Get(r, "q"),
		Before: query.Get(r, "before"),
		After:  query.Get(r, "after"),
	}
	if raw := normalize.Section(query.Get(r, "section")); raw != "" {
		sec, ok := sections.Parse(raw)
		if !ok {
			h.ErrLog.LogBadRequest(w, r, "unknown section filter", nil, "Section inconnue.")
			return
		}
		f.Section = &sec
	}
	now := h.Now()
	year := schoolyear.Label(now)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	page, err := h.Children.List(ctx, f)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error listing children", err, "Impossible de charger les membres.")
		return
	}
	regs, err := h.Regs.ListForYear(ctx, year, f.Groups)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error listing registrations", err, "Impossible de charger les membres.")
		return
	}
	byChild := registrationstore.ByChild(regs)

	out := listResponse{
		SchoolYear: year,
		Children:   make([]Row, 0, len(page.Children)),
		Result:     page.Result,
		PrevCursor: page.PrevCursor,
		NextCursor: page.NextCursor,
	}
	for _, c := range page.Children {
		age := schoolyear.Age(c.BirthDate, now)
		reg, registered := byChild[c.ID]
		out.Children = append(out.Children, Row{
			ID:           c.ID.Hex(),
			FirstName:    c.FirstName,
			LastName:     c.LastName,
			BirthDate:    c.BirthDate.UTC().Format("2006-01-02"),
			Age:          age,
			Group:        c.Group,
			SectionLabel: recaps.SectionLabel(c, age),
			Registered:   registered,
			IsPaid:       registered && reg.IsPaid,
		})
	}
	httpjson.OK(w, out)
}
