// internal/app/system/recaps/recaps.go
package recaps

import (
	"sort"
	"strings"
	"time"

	"github.com/dalemusser/patrohub/internal/app/system/phone"
	"github.com/dalemusser/patrohub/internal/app/system/schoolyear"
	"github.com/dalemusser/patrohub/internal/app/system/sections"
	"github.com/dalemusser/patrohub/internal/domain/models"
)

// Kind selects one recap list.
type Kind string

const (
	KindAllergies   Kind = "allergies"
	KindDiets       Kind = "diets"
	KindMedications Kind = "medications"
)

// ParseKind accepts "allergies", "diets" or "medications".
func ParseKind(s string) (Kind, bool) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindAllergies, KindDiets, KindMedications:
		return k, true
	}
	return "", false
}

// Title is the French heading used in documents.
func (k Kind) Title() string {
	switch k {
	case KindAllergies:
		return "Allergies"
	case KindDiets:
		return "Régimes alimentaires"
	case KindMedications:
		return "Médicaments"
	}
	return string(k)
}

// UnsetLabel is shown for a member with no stored section.
const UnsetLabel = "Non défini"

// Entry is one member with the medical form that applies.
// Medical is nil when no form is on file.
type Entry struct {
	Child   models.Child
	Parent  *models.Parent
	Medical *models.MedicalInfo
}

// Filter narrows the population. With no field set only children (below
// staff age) are kept. All keeps everyone, as camp recaps do.
type Filter struct {
	Section    *models.Section
	Animateurs bool
	All        bool
}

// ParseFilter reads the section and animateurs query values. A section wins
// over animateurs; ok is false for an unknown section.
func ParseFilter(section, animateurs string) (f Filter, ok bool) {
	if section = strings.TrimSpace(section); section != "" {
		s, ok := sections.Parse(strings.ToUpper(section))
		if !ok {
			return Filter{}, false
		}
		return Filter{Section: &s}, true
	}
	switch strings.ToLower(strings.TrimSpace(animateurs)) {
	case "true", "1", "yes":
		f.Animateurs = true
	}
	return f, true
}

type Row struct {
	ID           string `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Age          int    `json:"age"`
	SectionLabel string `json:"sectionLabel"`
	ParentName   string `json:"parentName"`
	ParentPhone  string `json:"parentPhone"`
}

type AllergyRow struct {
	Row
	List         string `json:"allergyList"`
	Consequences string `json:"allergyConsequences,omitempty"`
}

type DietRow struct {
	Row
	Details string `json:"dietDetails"`
}

type MedicationRow struct {
	Row
	Details    string `json:"medicationDetails"`
	Autonomous bool   `json:"isAutonomous"`
}

// Recap holds the three lists, each sorted by last then first name.
type Recap struct {
	Allergies   []AllergyRow    `json:"allergies"`
	Diets       []DietRow       `json:"diets"`
	Medications []MedicationRow `json:"medications"`
}

// Len returns the number of rows of kind k.
func (r Recap) Len(k Kind) int {
	switch k {
	case KindAllergies:
		return len(r.Allergies)
	case KindDiets:
		return len(r.Diets)
	case KindMedications:
		return len(r.Medications)
	}
	return 0
}

// Keep reports whether a member of the given school age passes f.
func (f Filter) Keep(c models.Child, age int) bool {
	staff := sections.IsStaffAge(age)
	switch {
	case f.All:
		return true
	case f.Animateurs:
		return staff
	case f.Section != nil:
		return c.Section != nil && *c.Section == *f.Section
	default:
		return !staff
	}
}

// Build extracts the recap lists from entries as of now.
func Build(entries []Entry, f Filter, now time.Time) Recap {
	sorted := append([]Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Child, sorted[j].Child
		if a.LastNameCI != b.LastNameCI {
			return a.LastNameCI < b.LastNameCI
		}
		return a.FirstNameCI < b.FirstNameCI
	})

	out := Recap{
		Allergies:   []AllergyRow{},
		Diets:       []DietRow{},
		Medications: []MedicationRow{},
	}
	for _, e := range sorted {
		if e.Medical == nil {
			continue
		}
		age := schoolyear.Age(e.Child.BirthDate, now)
		if !f.Keep(e.Child, age) {
			continue
		}
		base := baseRow(e, age)
		m := e.Medical

		if m.Allergies.Has {
			out.Allergies = append(out.Allergies, AllergyRow{
				Row:          base,
				List:         orUnset(m.Allergies.List),
				Consequences: m.Allergies.Consequences,
			})
		}
		if m.Diet.Has {
			out.Diets = append(out.Diets, DietRow{Row: base, Details: orUnset(m.Diet.Details)})
		}
		if m.Medications.Takes {
			out.Medications = append(out.Medications, MedicationRow{
				Row:        base,
				Details:    orUnset(m.Medications.Details),
				Autonomous: m.Medications.Autonomous,
			})
		}
	}
	return out
}

// SectionLabel is "Animateur" at staff age, else the stored section's label.
func SectionLabel(c models.Child, age int) string {
	if sections.IsStaffAge(age) {
		return sections.StaffLabel
	}
	if c.Section == nil {
		return UnsetLabel
	}
	return sections.Label(*c.Section)
}

func baseRow(e Entry, age int) Row {
	r := Row{
		ID:           e.Child.ID.Hex(),
		FirstName:    e.Child.FirstName,
		LastName:     e.Child.LastName,
		Age:          age,
		SectionLabel: SectionLabel(e.Child, age),
	}
	if e.Parent != nil {
		r.ParentName = e.Parent.FullName()
		r.ParentPhone = phone.Format(e.Parent.Phone)
	}
	return r
}

func orUnset(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Non spécifié"
	}
	return s
}
