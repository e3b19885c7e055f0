package exports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dalemusser/patrohub/internal/app/system/metrics"
	"github.com/dalemusser/patrohub/internal/app/system/recaps"
	"github.com/dalemusser/patrohub/internal/app/system/schoolyear"
	"github.com/dalemusser/patrohub/internal/app/system/sections"
	"go.uber.org/zap"
)

const (
	xlsxType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	staffSheet = "Animateurs"
)

// ServeXLSX handles GET /api/exports/children.xlsx?group=.
//
// One sheet per section of the visible groups, in section order, then an
// "Animateurs" sheet for members of staff age. Children with no stored
// section get a trailing "Non défini" sheet when there are any.
func (h *Handler) ServeXLSX(w http.ResponseWriter, r *http.Request) {
	ro, ok := h.load(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := writeWorkbook(&buf, ro.sheets()); err != nil {
		h.ErrLog.LogServerError(w, r, "render xlsx failed", err, "Impossible de générer l'export.")
		return
	}
	metrics.DocumentsRendered.WithLabelValues("xlsx").Inc()
	attach(w, xlsxType, "inscrits-"+ro.year+".xlsx")
	_, _ = w.Write(buf.Bytes())
}

func (ro roster) sheets() []sheetSpec {
	var specs []sheetSpec
	index := map[string]int{}
	add := func(title string) {
		index[title] = len(specs)
		specs = append(specs, sheetSpec{Title: title, Header: header})
	}

	for _, sec := range sections.ForGroups(ro.groups) {
		add(sections.Label(sec))
	}
	add(staffSheet)

	for _, m := range ro.members {
		c := m.Child
		age := schoolyear.Age(c.BirthDate, ro.now)
		var title string
		switch {
		case sections.IsStaffAge(age):
			title = staffSheet
		case c.Section == nil:
			title = recaps.UnsetLabel
		default:
			title = sections.Label(*c.Section)
		}
		i, ok := index[title]
		if !ok {
			add(title)
			i = index[title]
		}
		specs[i].Rows = append(specs[i].Rows, record(m, ro.now))
	}
	return specs
}

// ServeCSV handles GET /api/exports/children.csv?group=. Rows follow the
// roster order with the section as a column.
func (h *Handler) ServeCSV(w http.ResponseWriter, r *http.Request) {
	ro, ok := h.load(w, r)
	if !ok {
		return
	}

	attach(w, "text/csv; charset=utf-8", "inscrits-"+ro.year+".csv")

	// UTF-8 BOM so spreadsheet apps pick the right encoding for accents.
	_, _ = w.Write([]byte{0xEF, 0xBB, 0xBF})

	cw := csv.NewWriter(w)
	cw.Comma = ';'
	_ = cw.Write(header)
	for _, m := range ro.members {
		_ = cw.Write(record(m, ro.now))
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		h.Log.Warn("csv export write failed", zap.Error(err))
		return
	}
	metrics.DocumentsRendered.WithLabelValues("csv").Inc()
}

func attach(w http.ResponseWriter, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(filename)))
	w.Header().Set("Cache-Control", "no-store")
}
