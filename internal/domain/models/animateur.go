// internal/domain/models/animateur.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Animateur is an entry of the staff roster shown to families.
// It is independent from login accounts.
type Animateur struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	LastName    string             `bson:"last_name" json:"last_name"`
	FirstName   string             `bson:"first_name" json:"first_name"`
	LastNameCI  string             `bson:"last_name_ci" json:"-"`
	Phone       string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Email       string             `bson:"email,omitempty" json:"email,omitempty"`
	Group       Group              `bson:"group" json:"group"`
	Function    string             `bson:"function,omitempty" json:"function,omitempty"`
	ShowContact bool               `bson:"show_contact" json:"show_contact"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
