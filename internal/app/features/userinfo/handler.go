// internal/app/features/userinfo/handler.go
package userinfo

import (
	"net/http"

	"github.com/dalemusser/patrohub/internal/app/features/shared/httpjson"
	"github.com/dalemusser/patrohub/internal/app/system/auth"
	"github.com/dalemusser/patrohub/internal/app/system/authz"
	"github.com/dalemusser/patrohub/internal/app/system/sections"
	"github.com/dalemusser/patrohub/internal/domain/models"
)

// Handler serves the identity of the signed-in user.
type Handler struct{}

// NewHandler creates a new userinfo handler.
func NewHandler() *Handler {
	return &Handler{}
}

type groupAccess struct {
	Group          models.Group     `json:"group"`
	Sections       []sectionSummary `json:"sections"`
	CanEdit        bool             `json:"canEdit"`
	CanManageStaff bool             `json:"canManageStaff"`
	CanConfigure   bool             `json:"canConfigure"`
}

type sectionSummary struct {
	Section  models.Section `json:"section"`
	Label    string         `json:"label"`
	AgeRange string         `json:"ageRange"`
}

type meResponse struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Email  string        `json:"email"`
	Role   string        `json:"role"`
	Group  string        `json:"group,omitempty"`
	Groups []groupAccess `json:"groups"`
}

// ServeMe handles GET /api/me. Anonymous requests get 401.
//
//	{ "id":"…", "name":"…", "role":"PRESIDENT_FILLES", "group":"FILLES",
//	  "groups":[{"group":"FILLES","sections":[…],"canEdit":true,…}] }
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	s, ok := authz.SubjectFromRequest(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	resp := meResponse{
		ID:     user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
		Group:  user.Group,
		Groups: []groupAccess{},
	}
	for _, g := range authz.Default.VisibleGroups(s) {
		ga := groupAccess{
			Group:          g,
			Sections:       []sectionSummary{},
			CanEdit:        authz.Default.CanEdit(s, g),
			CanManageStaff: authz.Default.CanManageStaff(s, g),
			CanConfigure:   authz.Default.CanConfigure(s, g),
		}
		for _, sec := range sections.ForGroup(g) {
			ga.Sections = append(ga.Sections, sectionSummary{
				Section:  sec,
				Label:    sections.Label(sec),
				AgeRange: sections.AgeRange(sec),
			})
		}
		resp.Groups = append(resp.Groups, ga)
	}

	httpjson.OK(w, resp)
}
