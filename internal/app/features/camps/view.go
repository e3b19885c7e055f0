// internal/app/features/camps/view.go
package camps

import (
	"time"

	"github.com/dalemusser/patrohub/internal/app/system/inputval"
	"github.com/dalemusser/patrohub/internal/app/system/sections"
	"github.com/dalemusser/patrohub/internal/domain/models"
)

// CampView is the wire form of a camp. Staff-only fields are empty on the
// public list.
type CampView struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Description     string           `json:"description,omitempty"`
	Location        string           `json:"location"`
	StartDate       string           `json:"startDate"`
	EndDate         string           `json:"endDate"`
	StartTime       string           `json:"startTime,omitempty"`
	EndTime         string           `json:"endTime,omitempty"`
	Price           float64          `json:"price"`
	IBAN            string           `json:"iban,omitempty"`
	BIC             string           `json:"bic,omitempty"`
	Beneficiary     string           `json:"beneficiary,omitempty"`
	Group           models.Group     `json:"group"`
	Sections        []models.Section `json:"sections"`
	SectionLabels   []string         `json:"sectionLabels"`
	AnimatorIDs     []string         `json:"animatorIds,omitempty"`
	MaxParticipants *int             `json:"maxParticipants"`
	IsPublic        bool             `json:"isPublic"`
	Registered      int64            `json:"registeredCount"`
	RemainingPlaces *int64           `json:"remainingPlaces"`
	CreatedByName   string           `json:"createdByName,omitempty"`
}

func dateString(t time.Time) string {
	return t.UTC().Format(inputval.DateLayout)
}

func campView(c models.Camp, registered int64) CampView {
	v := CampView{
		ID:              c.ID.Hex(),
		Name:            c.Name,
		Description:     c.Description,
		Location:        c.Location,
		StartDate:       dateString(c.StartDate),
		EndDate:         dateString(c.EndDate),
		StartTime:       c.StartTime,
		EndTime:         c.EndTime,
		Price:           c.Price,
		IBAN:            c.IBAN,
		BIC:             c.BIC,
		Beneficiary:     c.Beneficiary,
		Group:           c.Group,
		Sections:        c.Sections,
		SectionLabels:   make([]string, 0, len(c.Sections)),
		MaxParticipants: c.MaxParticipants,
		IsPublic:        c.IsPublic,
		Registered:      registered,
		CreatedByName:   c.CreatedByName,
	}
	if v.Sections == nil {
		v.Sections = []models.Section{}
	}
	for _, s := range c.Sections {
		v.SectionLabels = append(v.SectionLabels, sections.Label(s))
	}
	for _, id := range c.AnimatorIDs {
		v.AnimatorIDs = append(v.AnimatorIDs, id.Hex())
	}
	if c.MaxParticipants != nil {
		left := int64(*c.MaxParticipants) - registered
		if left < 0 {
			left = 0
		}
		v.RemainingPlaces = &left
	}
	return v
}

// publicView drops what only staff needs.
func publicView(c models.Camp, registered int64) CampView {
	v := campView(c, registered)
	v.AnimatorIDs = nil
	v.CreatedByName = ""
	return v
}

// dates formats the camp span for emails: "12/07/2026 - 19/07/2026".
func dates(c models.Camp) string {
	return c.StartDate.UTC().Format("02/01/2006") + " - " + c.EndDate.UTC().Format("02/01/2006")
}
