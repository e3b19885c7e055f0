// internal/domain/models/registration.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultRegistrationFee is the yearly fee in euros when settings are absent.
const DefaultRegistrationFee = 45.0

// Registration enrolls a child for one school year. There is at most one
// per (child, school year).
type Registration struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ChildID    primitive.ObjectID `bson:"child_id" json:"child_id"`
	Group      Group              `bson:"group" json:"group"`
	SchoolYear string             `bson:"school_year" json:"school_year"` // e.g. "2025-2026"

	MedicalInfo MedicalInfo `bson:"medical_info" json:"medical_info"`

	Amount           float64    `bson:"amount" json:"amount"`
	IsPaid           bool       `bson:"is_paid" json:"is_paid"`
	PaidAt           *time.Time `bson:"paid_at,omitempty" json:"paid_at,omitempty"`
	PaymentReference string     `bson:"payment_reference" json:"payment_reference"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
