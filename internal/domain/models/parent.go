// internal/domain/models/parent.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Parent is a guardian. Phone holds the canonical digits and is unique.
type Parent struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName    string             `bson:"first_name" json:"first_name"`
	LastName     string             `bson:"last_name" json:"last_name"`
	Relationship string             `bson:"relationship" json:"relationship"`
	Phone        string             `bson:"phone" json:"phone"`
	Email        string             `bson:"email" json:"email"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// FullName returns "First Last".
func (p Parent) FullName() string {
	return p.FirstName + " " + p.LastName
}
