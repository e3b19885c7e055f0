// internal/app/features/camps/recaps.go
package camps

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/dalemusser/patrohub/internal/app/features/shared/httpjson"
	"github.com/dalemusser/patrohub/internal/app/store/queries/rosterqueries"
	"github.com/dalemusser/patrohub/internal/app/system/authz"
	"github.com/dalemusser/patrohub/internal/app/system/metrics"
	"github.com/dalemusser/patrohub/internal/app/system/pdfdoc"
	"github.com/dalemusser/patrohub/internal/app/system/recaps"
	"github.com/dalemusser/patrohub/internal/app/system/schoolyear"
	"github.com/dalemusser/patrohub/internal/app/system/timeouts"
	"github.com/dalemusser/patrohub/internal/domain/models"
)

type campRecapResponse struct {
	CampID      string                 `json:"campId"`
	CampName    string                 `json:"campName"`
	Allergies   []recaps.AllergyRow    `json:"allergies"`
	Diets       []recaps.DietRow       `json:"diets"`
	Medications []recaps.MedicationRow `json:"medications"`
}

// campRecap loads the recap of every registrant of the {id} camp, using the
// medical form that applies at the camp.
func (h *Handler) campRecap(ctx context.Context, w http.ResponseWriter, r *http.Request) (*models.Camp, recaps.Recap, bool) {
	s, ok := authz.SubjectFromRequest(r)
	if !ok {
		h.ErrLog.Unauthorized(w)
		return nil, recaps.Recap{}, false
	}
	c := h.loadCamp(ctx, w, r, s)
	if c == nil {
		return nil, recaps.Recap{}, false
	}
	now := h.Now()
	members, err := rosterqueries.Camp(ctx, h.DB, c.ID, schoolyear.Label(now))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading camp registrations", err, "Impossible de charger le récapitulatif.")
		return nil, recaps.Recap{}, false
	}
	return c, recaps.Build(rosterqueries.CampEntries(members), recaps.Filter{All: true}, now), true
}

// ServeRecaps handles GET /api/camps/{id}/recaps.
func (h *Handler) ServeRecaps(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	c, rc, ok := h.campRecap(ctx, w, r)
	if !ok {
		return
	}
	httpjson.OK(w, campRecapResponse{
		CampID:      c.ID.Hex(),
		CampName:    c.Name,
		Allergies:   rc.Allergies,
		Diets:       rc.Diets,
		Medications: rc.Medications,
	})
}

// ServeRecapsPDF handles GET /api/camps/{id}/recaps.pdf.
func (h *Handler) ServeRecapsPDF(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	c, rc, ok := h.campRecap(ctx, w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := pdfdoc.Recap(&buf, "Récapitulatif médical - "+c.Name, rc, h.Now()); err != nil {
		h.ErrLog.LogServerError(w, r, "render camp recap pdf failed", err, "Impossible de générer le PDF.")
		return
	}
	metrics.DocumentsRendered.WithLabelValues("recap_pdf").Inc()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="recap-camp-%s.pdf"`, c.ID.Hex()))
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	_, _ = w.Write(buf.Bytes())
}
