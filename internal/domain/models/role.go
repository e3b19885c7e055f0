// internal/domain/models/role.go
package models

// Role is the permission level of a staff account.
type Role string

const (
	RoleAdmin            Role = "ADMIN"
	RolePresidentGarcons Role = "PRESIDENT_GARCONS"
	RolePresidentFilles  Role = "PRESIDENT_FILLES"
	RoleAnimateurGarcons Role = "ANIMATEUR_GARCONS"
	RoleAnimateurFilles  Role = "ANIMATEUR_FILLES"
)

// AllRoles lists every role.
var AllRoles = []Role{
	RoleAdmin,
	RolePresidentGarcons,
	RolePresidentFilles,
	RoleAnimateurGarcons,
	RoleAnimateurFilles,
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	for _, x := range AllRoles {
		if x == r {
			return true
		}
	}
	return false
}

// IsPresident reports whether r is one of the president roles.
func (r Role) IsPresident() bool {
	return r == RolePresidentGarcons || r == RolePresidentFilles
}

// HomeGroup returns the group implied by a group-scoped role.
// Admins have no implied group.
func (r Role) HomeGroup() (Group, bool) {
	switch r {
	case RolePresidentGarcons, RoleAnimateurGarcons:
		return GroupGarcons, true
	case RolePresidentFilles, RoleAnimateurFilles:
		return GroupFilles, true
	}
	return "", false
}
