// internal/app/system/sections/meta.go
package sections

import "github.com/dalemusser/patrohub/internal/domain/models"

// StaffLabel is displayed instead of a section for members of staff age.
const StaffLabel = "Animateur"

type meta struct {
	label    string
	ageRange string
	group    models.Group
}

var metas = map[models.Section]meta{
	models.SectionPoussinsG:   {"Poussins (Garçons)", "4-6 ans", models.GroupGarcons},
	models.SectionBenjamins:   {"Benjamins", "6-9 ans", models.GroupGarcons},
	models.SectionChevaliers:  {"Chevaliers", "9-12 ans", models.GroupGarcons},
	models.SectionConquerants: {"Conquérants", "12-15 ans", models.GroupGarcons},
	models.SectionBrothers:    {"Brothers", "15-17 ans", models.GroupGarcons},

	models.SectionPoussinsF:  {"Poussins (Filles)", "4-6 ans", models.GroupFilles},
	models.SectionBenjamines: {"Benjamines", "6-9 ans", models.GroupFilles},
	models.SectionEtincelles: {"Étincelles", "9-12 ans", models.GroupFilles},
	models.SectionAlpines:    {"Alpines", "12-15 ans", models.GroupFilles},
	models.SectionGrandes:    {"Grandes", "15-17 ans", models.GroupFilles},
}

// Label returns the display name of s, or the raw value if unknown.
func Label(s models.Section) string {
	if m, ok := metas[s]; ok {
		return m.label
	}
	return string(s)
}

// AgeRange returns the age range shown next to s, e.g. "9-12 ans".
func AgeRange(s models.Section) string {
	return metas[s].ageRange
}

// GroupOf returns the group owning s.
func GroupOf(s models.Section) (models.Group, bool) {
	m, ok := metas[s]
	return m.group, ok
}

// ForGroup lists the sections of g, youngest first.
func ForGroup(g models.Group) []models.Section {
	bs := bands[g]
	out := make([]models.Section, 0, len(bs))
	for _, b := range bs {
		out = append(out, b.section)
	}
	return out
}

// ForGroups concatenates ForGroup over gs.
func ForGroups(gs []models.Group) []models.Section {
	var out []models.Section
	for _, g := range gs {
		out = append(out, ForGroup(g)...)
	}
	return out
}

// Parse accepts the stored form of a section.
func Parse(s string) (models.Section, bool) {
	sec := models.Section(s)
	_, ok := metas[sec]
	return sec, ok
}
