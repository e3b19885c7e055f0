// internal/domain/models/camp.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Camp is a stay organized for one group. MaxParticipants, when set,
// bounds the number of its registrations.
type Camp struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Location    string             `bson:"location" json:"location"`

	StartDate time.Time `bson:"start_date" json:"start_date"`
	EndDate   time.Time `bson:"end_date" json:"end_date"`
	StartTime string    `bson:"start_time,omitempty" json:"start_time,omitempty"` // "HH:MM"
	EndTime   string    `bson:"end_time,omitempty" json:"end_time,omitempty"`

	Price       float64 `bson:"price" json:"price"`
	IBAN        string  `bson:"iban,omitempty" json:"iban,omitempty"`
	BIC         string  `bson:"bic,omitempty" json:"bic,omitempty"`
	Beneficiary string  `bson:"beneficiary,omitempty" json:"beneficiary,omitempty"`

	Group           Group                `bson:"group" json:"group"`
	Sections        []Section            `bson:"sections" json:"sections"`
	AnimatorIDs     []primitive.ObjectID `bson:"animator_ids,omitempty" json:"animator_ids,omitempty"`
	MaxParticipants *int                 `bson:"max_participants,omitempty" json:"max_participants,omitempty"`
	IsPublic        bool                 `bson:"is_public" json:"is_public"`

	CreatedByID   primitive.ObjectID `bson:"created_by_id" json:"created_by_id"`
	CreatedByName string             `bson:"created_by_name" json:"created_by_name"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}

// AcceptsSection reports whether s is among the camp's eligible sections.
// A camp with no sections listed accepts every child of its group; a camp
// that lists sections refuses a child without one (nil).
func (c Camp) AcceptsSection(s *Section) bool {
	if len(c.Sections) == 0 {
		return true
	}
	if s == nil {
		return false
	}
	for _, x := range c.Sections {
		if x == *s {
			return true
		}
	}
	return false
}
