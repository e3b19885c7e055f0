// internal/app/features/documents/medical.go
package documents

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

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
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Selection types of GET /api/documents/medical.
const (
	typeSingle     = "single"
	typeAll        = "all"
	typeSection    = "section"
	typeAnimateurs = "animateurs"

	modeCombined   = "combined"
	modeIndividual = "individual"
)

// ServeMedical handles
// GET /api/documents/medical?type=&id=&section=&group=&mode=.
//
// "all" covers the children below staff age. The combined mode returns one
// PDF; the individual mode a zip holding one PDF per member.
func (h *Handler) ServeMedical(w http.ResponseWriter, r *http.Request) {
	s, ok := authz.SubjectFromRequest(r)
	if !ok {
		h.ErrLog.Unauthorized(w)
		return
	}
	typ := strings.ToLower(query.Get(r, "type"))
	if typ == "" {
		typ = typeAll
	}
	mode := strings.ToLower(query.Get(r, "mode"))
	if mode == "" {
		mode = modeCombined
	}
	if mode != modeCombined && mode != modeIndividual {
		h.ErrLog.LogBadRequest(w, r, "unknown document mode", nil, "Mode inconnu.")
		return
	}

	now := h.Now()
	year := schoolyear.Label(now)
	yf := rosterqueries.YearFilter{
		SchoolYear: year,
		Groups:     authz.ScopeGroups(s, normalize.Group(query.Get(r, "group"))),
	}
	var keep recaps.Filter
	name := "fiches-medicales"

	switch typ {
	case typeSingle:
		id, err := primitive.ObjectIDFromHex(query.Get(r, "id"))
		if err != nil {
			h.ErrLog.LogBadRequest(w, r, "bad child id", err, "Identifiant invalide.")
			return
		}
		yf.ChildID = &id
		keep.All = true
	case typeAll:
	case typeSection:
		sec, ok := sections.Parse(normalize.Section(query.Get(r, "section")))
		if !ok {
			h.ErrLog.LogBadRequest(w, r, "unknown section", nil, "Section inconnue.")
			return
		}
		yf.Section = &sec
		keep.Section = &sec
		name += "-" + slug(sections.Label(sec))
	case typeAnimateurs:
		keep.Animateurs = true
		name += "-animateurs"
	default:
		h.ErrLog.LogBadRequest(w, r, "unknown document type", nil, "Type de document inconnu.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	members, err := rosterqueries.Year(ctx, h.DB, yf)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading medical sheets", err, "Impossible de générer les fiches.")
		return
	}

	sheets := make([]pdfdoc.Sheet, 0, len(members))
	for _, m := range members {
		age := schoolyear.Age(m.Child.BirthDate, now)
		if !keep.Keep(m.Child, age) {
			continue
		}
		med := m.Registration.MedicalInfo
		sheets = append(sheets, pdfdoc.Sheet{
			Child:        m.Child,
			Parent1:      m.Parent1,
			Parent2:      m.Parent2,
			Medical:      &med,
			Age:          age,
			SectionLabel: recaps.SectionLabel(m.Child, age),
			SchoolYear:   year,
		})
	}
	if len(sheets) == 0 {
		h.ErrLog.NotFound(w, "Aucune fiche médicale pour cette sélection.")
		return
	}
	if typ == typeSingle {
		name += "-" + slug(sheets[0].Child.FullName())
	}

	var buf bytes.Buffer
	if mode == modeIndividual {
		err = zipSheets(&buf, sheets, now)
	} else {
		err = pdfdoc.MedicalSheets(&buf, sheets, now)
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "render medical sheets failed", err, "Impossible de générer les fiches.")
		return
	}
	metrics.DocumentsRendered.WithLabelValues("medical_" + mode).Inc()
	h.Log.Info("medical sheets rendered",
		zap.String("type", typ), zap.String("mode", mode), zap.Int("sheets", len(sheets)))

	if mode == modeIndividual {
		download(w, "application/zip", name+".zip", buf.Bytes())
		return
	}
	download(w, "application/pdf", name+".pdf", buf.Bytes())
}

// zipSheets writes one PDF per sheet. Homonyms get a numeric suffix.
func zipSheets(buf *bytes.Buffer, sheets []pdfdoc.Sheet, now time.Time) error {
	zw := zip.NewWriter(buf)
	seen := map[string]int{}
	for _, s := range sheets {
		base := slug(s.Child.LastName + " " + s.Child.FirstName)
		seen[base]++
		if n := seen[base]; n > 1 {
			base = fmt.Sprintf("%s-%d", base, n)
		}
		f, err := zw.Create(base + ".pdf")
		if err != nil {
			return err
		}
		if err := pdfdoc.MedicalSheets(f, []pdfdoc.Sheet{s}, now); err != nil {
			return err
		}
	}
	return zw.Close()
}
