// internal/app/system/authz/authz.go
package authz

import (
	"errors"
	"net/http"

	"github.com/dalemusser/patrohub/internal/app/system/auth"
	"github.com/dalemusser/patrohub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrForbidden is returned by the Require helpers when the subject may not
// act on the requested group.
var ErrForbidden = errors.New("forbidden")

// Subject is who is asking. Group is nil for admins and for accounts that
// were never assigned one.
type Subject struct {
	UserID primitive.ObjectID
	Name   string
	Role   models.Role
	Group  *models.Group
}

// IsAdmin reports whether s holds the admin role.
func (s Subject) IsAdmin() bool { return s.Role == models.RoleAdmin }

// SubjectFromRequest builds the Subject for the signed-in user.
// ok is false for anonymous requests and malformed sessions.
func SubjectFromRequest(r *http.Request) (Subject, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return Subject{}, false
	}
	id, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		// Malformed user ID in session; fail closed.
		return Subject{}, false
	}
	s := Subject{UserID: id, Name: u.Name, Role: models.Role(u.Role)}
	if g, ok := models.ParseGroup(u.Group); ok {
		s.Group = &g
	}
	return s, true
}

// Policy answers group-level permission questions for a Subject.
type Policy interface {
	VisibleGroups(s Subject) []models.Group
	CanView(s Subject, g models.Group) bool
	CanEdit(s Subject, g models.Group) bool
	CanManageStaff(s Subject, g models.Group) bool
	CanConfigure(s Subject, g models.Group) bool
}

// GroupPolicy is the default Policy: admins see both groups, everyone else
// sees only the group on their account.
type GroupPolicy struct{}

// Default is the Policy handlers use.
var Default Policy = GroupPolicy{}

// VisibleGroups returns the groups s may read.
func (GroupPolicy) VisibleGroups(s Subject) []models.Group {
	if s.IsAdmin() {
		return []models.Group{models.GroupGarcons, models.GroupFilles}
	}
	if s.Group == nil || !s.Group.Valid() {
		return []models.Group{}
	}
	return []models.Group{*s.Group}
}

// CanView reports whether g is among the visible groups of s.
func (p GroupPolicy) CanView(s Subject, g models.Group) bool {
	for _, v := range p.VisibleGroups(s) {
		if v == g {
			return true
		}
	}
	return false
}

// CanEdit mirrors CanView.
func (p GroupPolicy) CanEdit(s Subject, g models.Group) bool {
	return p.CanView(s, g)
}

// CanManageStaff governs the animateur roster: admins anywhere, presidents
// in their own group.
func (p GroupPolicy) CanManageStaff(s Subject, g models.Group) bool {
	if s.IsAdmin() {
		return true
	}
	return s.Role.IsPresident() && p.CanEdit(s, g)
}

// CanConfigure governs group settings. Same rule as the roster.
func (p GroupPolicy) CanConfigure(s Subject, g models.Group) bool {
	return p.CanManageStaff(s, g)
}

// RequireView returns ErrForbidden unless s may view g.
func RequireView(s Subject, g models.Group) error {
	if !Default.CanView(s, g) {
		return ErrForbidden
	}
	return nil
}

// RequireEdit returns ErrForbidden unless s may edit g.
func RequireEdit(s Subject, g models.Group) error {
	if !Default.CanEdit(s, g) {
		return ErrForbidden
	}
	return nil
}

// RequireStaffManagement returns ErrForbidden unless s may manage g's roster.
func RequireStaffManagement(s Subject, g models.Group) error {
	if !Default.CanManageStaff(s, g) {
		return ErrForbidden
	}
	return nil
}

// RequireConfigure returns ErrForbidden unless s may change g's settings.
func RequireConfigure(s Subject, g models.Group) error {
	if !Default.CanConfigure(s, g) {
		return ErrForbidden
	}
	return nil
}

// RequireAdmin returns ErrForbidden unless s is an admin.
func RequireAdmin(s Subject) error {
	if !s.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// ScopeGroups narrows the visible groups of s to want when it is set.
// An invisible want yields an empty slice.
func ScopeGroups(s Subject, want string) []models.Group {
	visible := Default.VisibleGroups(s)
	if want == "" {
		return visible
	}
	for _, g := range visible {
		if string(g) == want {
			return []models.Group{g}
		}
	}
	return []models.Group{}
}
