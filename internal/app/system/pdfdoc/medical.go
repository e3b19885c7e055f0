// internal/app/system/pdfdoc/medical.go
package pdfdoc

import (
	"fmt"
	"io"
	"time"

	"github.com/dalemusser/patrohub/internal/app/system/phone"
	"github.com/dalemusser/patrohub/internal/domain/models"
)

// Sheet is the data of one medical sheet. Medical is nil when no form is
// on file for the year.
type Sheet struct {
	Child        models.Child
	Parent1      *models.Parent
	Parent2      *models.Parent
	Medical      *models.MedicalInfo
	Age          int
	SectionLabel string
	SchoolYear   string
}

// MedicalSheets renders one page per sheet into w.
func MedicalSheets(w io.Writer, sheets []Sheet, created time.Time) error {
	d := newDoc("Fiches médicales", created)
	for _, s := range sheets {
		d.pdf.AddPage()
		d.sheet(s)
	}
	return d.output(w)
}

func (d *doc) sheet(s Sheet) {
	c := s.Child
	d.title(c.FullName(), fmt.Sprintf("%d ans - %s - Patro %s - %s", s.Age, s.SectionLabel, c.Group.Label(), s.SchoolYear))

	d.heading("Informations générales", grey)
	d.field("Date de naissance", c.BirthDate.UTC().Format("02/01/2006"))
	d.field("Adresse", fmt.Sprintf("%s, %s %s", c.Address, c.PostalCode, c.City))
	d.pdf.Ln(2)

	d.heading("Contacts", grey)
	d.parent("Parent 1", s.Parent1)
	if s.Parent2 != nil {
		d.parent("Parent 2", s.Parent2)
	}
	d.pdf.Ln(2)

	m := s.Medical
	if m == nil {
		d.text("I", "Aucune fiche médicale pour cette année.", subtle)
		return
	}
	if m.SecondaryEmail != "" {
		d.field("E-mail secondaire", m.SecondaryEmail)
	}

	d.heading("Fiche médicale", grey)
	d.field("Médecin", fmt.Sprintf("%s (%s)", m.DoctorName, phone.Format(m.DoctorPhone)))
	d.field("Poids", m.Weight)
	d.field("Peut participer", participation(m))
	d.field("Natation", swimLabel(m.CanSwim))
	d.field("Vaccin tétanos", tetanusLabel(m.TetanusVaccine))
	d.field("Droit à l'image", photoLabel(m))
	d.field("Soins d'urgence", yesNo(m.EmergencyMedicalConsent))
	if m.MedicalHistory != "" {
		d.field("Antécédents", m.MedicalHistory)
	}
	d.pdf.Ln(2)

	if m.Allergies.Has {
		body := "Allergènes : " + m.Allergies.List
		if m.Allergies.Consequences != "" {
			body += "\nConséquences : " + m.Allergies.Consequences
		}
		d.box("Allergies", body, red)
	}
	if m.Diet.Has {
		d.box("Régime alimentaire", m.Diet.Details, amber)
	}
	if m.Medications.Takes {
		autonomy := "Aide nécessaire"
		if m.Medications.Autonomous {
			autonomy = "Autonome"
		}
		d.box("Médicaments", m.Medications.Details+"\nAutonomie : "+autonomy, blue)
	}
	if m.ImportantMedicalInfo != "" {
		d.box("Données médicales importantes", m.ImportantMedicalInfo, red)
	}
	if m.OtherInfo != "" {
		d.box("Autres informations", m.OtherInfo, grey)
	}
}

func (d *doc) parent(label string, p *models.Parent) {
	if p == nil {
		d.field(label, "")
		return
	}
	v := fmt.Sprintf("%s (%s) - %s", p.FullName(), p.Relationship, phone.Format(p.Phone))
	if p.Email != "" {
		v += " - " + p.Email
	}
	d.field(label, v)
}

func participation(m *models.MedicalInfo) string {
	if m.CanParticipate {
		return "Oui"
	}
	if m.Restrictions != "" {
		return "Non : " + m.Restrictions
	}
	return "Non"
}

func swimLabel(s string) string {
	switch s {
	case models.SwimYes:
		return "Sait nager"
	case models.SwimNo:
		return "Ne sait pas nager"
	case models.SwimALittle:
		return "Un peu"
	}
	return ""
}

func tetanusLabel(ok bool) string {
	if ok {
		return "En ordre"
	}
	return "Pas en ordre"
}

func photoLabel(m *models.MedicalInfo) string {
	switch m.PhotoConsent {
	case models.PhotoConsentFull:
		return "Accepté"
	case models.PhotoConsentBackground:
		return "Uniquement en arrière-plan"
	case models.PhotoConsentNone:
		return "Refusé"
	}
	return m.PhotoConsent
}
