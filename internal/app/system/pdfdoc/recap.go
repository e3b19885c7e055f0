// internal/app/system/pdfdoc/recap.go
package pdfdoc

import (
	"fmt"
	"io"
	"time"

	"github.com/dalemusser/patrohub/internal/app/system/recaps"
)

// Recap renders the three recap lists under title. An empty list is kept
// only when all three are empty, so the reader sees what was checked.
func Recap(w io.Writer, title string, r recaps.Recap, created time.Time) error {
	d := newDoc(title, created)
	d.pdf.AddPage()
	d.title(title, "")

	none := r.Len(recaps.KindAllergies)+r.Len(recaps.KindDiets)+r.Len(recaps.KindMedications) == 0

	if len(r.Allergies) > 0 || none {
		d.heading(fmt.Sprintf("%s (%d)", recaps.KindAllergies.Title(), len(r.Allergies)), red)
		if len(r.Allergies) == 0 {
			d.text("I", "Aucune allergie déclarée", subtle)
		}
		for _, a := range r.Allergies {
			d.recapRow(a.Row)
			d.text("", "Allergènes : "+a.List, ink)
			if a.Consequences != "" {
				d.text("", "Conséquences : "+a.Consequences, ink)
			}
			d.contact(a.Row)
		}
	}

	if len(r.Diets) > 0 || none {
		d.heading(fmt.Sprintf("%s (%d)", recaps.KindDiets.Title(), len(r.Diets)), amber)
		if len(r.Diets) == 0 {
			d.text("I", "Aucun régime spécifique", subtle)
		}
		for _, x := range r.Diets {
			d.recapRow(x.Row)
			d.text("", "Régime : "+x.Details, ink)
			d.contact(x.Row)
		}
	}

	if len(r.Medications) > 0 || none {
		d.heading(fmt.Sprintf("%s (%d)", recaps.KindMedications.Title(), len(r.Medications)), blue)
		if len(r.Medications) == 0 {
			d.text("I", "Aucun médicament", subtle)
		}
		for _, m := range r.Medications {
			d.recapRow(m.Row)
			d.text("", "Médicament(s) : "+m.Details, ink)
			autonomy := "Aide nécessaire"
			if m.Autonomous {
				autonomy = "Autonome"
			}
			d.text("", "Autonomie : "+autonomy, ink)
			d.contact(m.Row)
		}
	}
	return d.output(w)
}

func (d *doc) recapRow(r recaps.Row) {
	d.font("B", bodySize, ink)
	d.pdf.CellFormat(0, lineH, d.tr(r.FirstName+" "+r.LastName), "", 1, "L", false, 0, "")
	d.text("", fmt.Sprintf("%d ans - %s", r.Age, r.SectionLabel), subtle)
}

func (d *doc) contact(r recaps.Row) {
	if r.ParentName != "" {
		d.text("I", "Contact : "+r.ParentName+" - "+r.ParentPhone, subtle)
	}
	d.pdf.Ln(2)
}
