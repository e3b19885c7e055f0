// internal/app/features/dashboard/stats.go
package dashboard

import (
	"context"
	"net/http"

	"github.com/dalemusser/patrohub/internal/app/features/shared/httpjson"
	registrationstore "github.com/dalemusser/patrohub/internal/app/store/registrations"
	"github.com/dalemusser/patrohub/internal/app/system/authz"
	"github.com/dalemusser/patrohub/internal/app/system/normalize"
	"github.com/dalemusser/patrohub/internal/app/system/recaps"
	"github.com/dalemusser/patrohub/internal/app/system/schoolyear"
	"github.com/dalemusser/patrohub/internal/app/system/sections"
	"github.com/dalemusser/patrohub/internal/app/system/timeouts"
	"github.com/dalemusser/patrohub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
)

// SectionCount is one row of a group's breakdown.
type SectionCount struct {
	Section   models.Section `json:"section"`
	Label     string         `json:"label"`
	AgeRange  string         `json:"ageRange,omitempty"`
	Count     int64          `json:"count"`
	PaidCount int64          `json:"paidCount"`
}

// GroupStats sums a group's registrations for the school year.
type GroupStats struct {
	Group         models.Group   `json:"group"`
	Label         string         `json:"label"`
	Sections      []SectionCount `json:"sections"`
	Total         int64          `json:"total"`
	PaidCount     int64          `json:"paidCount"`
	PaidTotal     float64        `json:"paidTotal"`
	UnpaidTotal   float64        `json:"unpaidTotal"`
	UpcomingCamps int            `json:"upcomingCamps"`
}

type statsResponse struct {
	SchoolYear string       `json:"schoolYear"`
	Groups     []GroupStats `json:"groups"`
}

// ServeStats handles GET /api/dashboard/stats?group=.
func (h *Handler) ServeStats(w http.ResponseWriter, r *http.Request) {
	s, ok := authz.SubjectFromRequest(r)
	if !ok {
		h.ErrLog.Unauthorized(w)
		return
	}
	groups := authz.ScopeGroups(s, normalize.Group(query.Get(r, "group")))
	now := h.Now()
	year := schoolyear.Label(now)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, err := h.Regs.Stats(ctx, year, groups)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error computing stats", err, "Impossible de charger les statistiques.")
		return
	}
	camps, err := h.Camps.List(ctx, groups)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error listing camps", err, "Impossible de charger les statistiques.")
		return
	}

	out := statsResponse{SchoolYear: year, Groups: make([]GroupStats, 0, len(groups))}
	for _, g := range groups {
		gs := build(g, rows)
		for _, c := range camps {
			if c.Group == g && !c.EndDate.Before(now) {
				gs.UpcomingCamps++
			}
		}
		out.Groups = append(out.Groups, gs)
	}
	httpjson.OK(w, out)
}

// build lays out every section of g, in age order, with zero counts where
// nobody is registered. Rows without a section come last.
func build(g models.Group, rows []registrationstore.SectionStat) GroupStats {
	gs := GroupStats{Group: g, Label: g.Label()}
	index := map[models.Section]int{}
	for _, sec := range sections.ForGroup(g) {
		index[sec] = len(gs.Sections)
		gs.Sections = append(gs.Sections, SectionCount{
			Section:  sec,
			Label:    sections.Label(sec),
			AgeRange: sections.AgeRange(sec),
		})
	}
	for _, row := range rows {
		if row.Group != g {
			continue
		}
		i, ok := index[row.Section]
		if !ok {
			index[row.Section] = len(gs.Sections)
			i = len(gs.Sections)
			gs.Sections = append(gs.Sections, SectionCount{Section: row.Section, Label: recaps.UnsetLabel})
		}
		gs.Sections[i].Count += row.Count
		gs.Sections[i].PaidCount += row.PaidCount
		gs.Total += row.Count
		gs.PaidCount += row.PaidCount
		gs.PaidTotal += row.PaidTotal
		gs.UnpaidTotal += row.UnpaidTotal
	}
	return gs
}
