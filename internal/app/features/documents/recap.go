// internal/app/features/documents/recap.go
package documents

import (
	"bytes"
	"context"
	"net/http"

	"github.com/dalemusser/patrohub/internal/app/store/queries/rosterqueries"
	"github.com/dalemusser/patrohub/internal/app/system/authz"
	"github.com/dalemusser/patrohub/internal/app/system/metrics"
	"github.com/dalemusser/patrohub/internal/app/system/normalize"
	"github.com/dalemusser/patrohub/internal/app/system/pdfdoc"
	"github.com/dalemusser/patrohub/internal/app/system/recaps"
	"github.com/dalemusser/patrohub/internal/app/system/schoolyear"
	"github.com/dalemusser/patrohub/internal/app/system/sections"
	"github.com/dalemusser/patrohub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
)

// ServeRecapPDF handles GET /api/documents/recaps.pdf?group=&section=&animateurs=.
func (h *Handler) ServeRecapPDF(w http.ResponseWriter, r *http.Request) {
	s, ok := authz.SubjectFromRequest(r)
	if !ok {
		h.ErrLog.Unauthorized(w)
		return
	}
	f, ok := recaps.ParseFilter(query.Get(r, "section"), query.Get(r, "animateurs"))
	if !ok {
		h.ErrLog.LogBadRequest(w, r, "unknown section filter", nil, "Section inconnue.")
		return
	}
	now := h.Now()
	year := schoolyear.Label(now)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	members, err := rosterqueries.Year(ctx, h.DB, rosterqueries.YearFilter{
		SchoolYear: year,
		Groups:     authz.ScopeGroups(s, normalize.Group(query.Get(r, "group"))),
		Section:    f.Section,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading recap", err, "Impossible de générer le récapitulatif.")
		return
	}

	title := "Récapitulatif médical " + year
	name := "recap-medical-" + year
	switch {
	case f.Section != nil:
		title += " - " + sections.Label(*f.Section)
		name += "-" + slug(sections.Label(*f.Section))
	case f.Animateurs:
		title += " - Animateurs"
		name += "-animateurs"
	}

	var buf bytes.Buffer
	if err := pdfdoc.Recap(&buf, title, recaps.Build(rosterqueries.Entries(members), f, now), now); err != nil {
		h.ErrLog.LogServerError(w, r, "render recap pdf failed", err, "Impossible de générer le récapitulatif.")
		return
	}
	metrics.DocumentsRendered.WithLabelValues("recap_pdf").Inc()
	download(w, "application/pdf", name+".pdf", buf.Bytes())
}
