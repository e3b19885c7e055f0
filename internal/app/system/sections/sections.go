// internal/app/system/sections/sections.go
package sections

import (
	"time"

	"github.com/dalemusser/patrohub/internal/app/system/schoolyear"
	"github.com/dalemusser/patrohub/internal/domain/models"
)

const (
	// MinAge is the youngest school-year age placed in a section.
	MinAge = 4
	// StaffAge is the school-year age from which a member counts as staff.
	StaffAge = 18
)

// Kind tags the outcome of a classification.
type Kind int

const (
	KindUnassigned Kind = iota // too young, or unknown group
	KindSection                // placed in one of the group's bands
	KindStaff                  // old enough to be an animateur
)

func (k Kind) String() string {
	switch k {
	case KindSection:
		return "section"
	case KindStaff:
		return "staff"
	}
	return "unassigned"
}

// Placement is the result of classifying a member.
//
// For KindStaff, Section holds the oldest band of the group. That is the
// value historically stored on members of staff age.
type Placement struct {
	Kind    Kind
	Section models.Section
	Age     int
}

// band is a half-open interval [lo, hi) of school-year ages.
type band struct {
	lo, hi  int
	section models.Section
}

var bands = map[models.Group][]band{
	models.GroupGarcons: {
		{4, 6, models.SectionPoussinsG},
		{6, 9, models.SectionBenjamins},
		{9, 12, models.SectionChevaliers},
		{12, 15, models.SectionConquerants},
		{15, 18, models.SectionBrothers},
	},
	models.GroupFilles: {
		{4, 6, models.SectionPoussinsF},
		{6, 9, models.SectionBenjamines},
		{9, 12, models.SectionEtincelles},
		{12, 15, models.SectionAlpines},
		{15, 18, models.SectionGrandes},
	},
}

// Classify places a school-year age within group. It is total.
func Classify(age int, group models.Group) Placement {
	bs, ok := bands[group]
	if !ok || age < MinAge {
		return Placement{Kind: KindUnassigned, Age: age}
	}
	if age >= StaffAge {
		return Placement{Kind: KindStaff, Section: bs[len(bs)-1].section, Age: age}
	}
	for _, b := range bs {
		if age >= b.lo && age < b.hi {
			return Placement{Kind: KindSection, Section: b.section, Age: age}
		}
	}
	return Placement{Kind: KindUnassigned, Age: age}
}

// ClassifyBirthDate computes the school-year age at now and classifies it.
func ClassifyBirthDate(birth time.Time, group models.Group, now time.Time) Placement {
	return Classify(schoolyear.Age(birth, now), group)
}

// LegacySection is the section stored on a member record: the band for
// members in a section, the oldest band for staff, and none otherwise.
func (p Placement) LegacySection() (models.Section, bool) {
	if p.Kind == KindUnassigned {
		return "", false
	}
	return p.Section, true
}

// SectionPtr is LegacySection shaped for optional model fields.
func (p Placement) SectionPtr() *models.Section {
	s, ok := p.LegacySection()
	if !ok {
		return nil
	}
	return &s
}

// DisplayLabel is "Animateur" for staff, the section label for members in a
// section, and "" when unassigned.
func (p Placement) DisplayLabel() string {
	switch p.Kind {
	case KindStaff:
		return StaffLabel
	case KindSection:
		return Label(p.Section)
	}
	return ""
}

// IsStaffAge reports whether a school-year age counts as staff.
func IsStaffAge(age int) bool {
	return age >= StaffAge
}
