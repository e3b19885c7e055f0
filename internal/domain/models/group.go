// internal/domain/models/group.go
package models

// Group is one of the two top-level divisions of the patro.
type Group string

const (
	GroupGarcons Group = "GARCONS"
	GroupFilles  Group = "FILLES"
)

// AllGroups lists every group in display order.
var AllGroups = []Group{GroupGarcons, GroupFilles}

// Valid reports whether g is a known group.
func (g Group) Valid() bool {
	return g == GroupGarcons || g == GroupFilles
}

// Label returns the French display name of the group.
func (g Group) Label() string {
	switch g {
	case GroupGarcons:
		return "Garçons"
	case GroupFilles:
		return "Filles"
	}
	return ""
}

// ParseGroup accepts the stored form of a group. Unknown values return false.
func ParseGroup(s string) (Group, bool) {
	g := Group(s)
	return g, g.Valid()
}
