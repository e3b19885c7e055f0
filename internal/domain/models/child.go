// internal/domain/models/child.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Child is a member of the patro. It is created on the first registration
// and refreshed by later ones.
type Child struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName   string             `bson:"first_name" json:"first_name"`
	LastName    string             `bson:"last_name" json:"last_name"`
	FirstNameCI string             `bson:"first_name_ci" json:"-"`
	LastNameCI  string             `bson:"last_name_ci" json:"-"`
	BirthDate   time.Time          `bson:"birth_date" json:"birth_date"`
	Group       Group              `bson:"group" json:"group"`
	Section     *Section           `bson:"section,omitempty" json:"section,omitempty"`

	Address    string `bson:"address" json:"address"`
	City       string `bson:"city" json:"city"`
	PostalCode string `bson:"postal_code" json:"postal_code"`

	Parent1ID primitive.ObjectID  `bson:"parent1_id" json:"parent1_id"`
	Parent2ID *primitive.ObjectID `bson:"parent2_id,omitempty" json:"parent2_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// FullName returns "First Last".
func (c Child) FullName() string {
	return c.FirstName + " " + c.LastName
}
