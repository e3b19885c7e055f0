// internal/domain/models/campregistration.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CampRegistration links a child to a camp. There is at most one per
// (camp, child), and the child's group matches the camp's group.
type CampRegistration struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CampID  primitive.ObjectID `bson:"camp_id" json:"camp_id"`
	ChildID primitive.ObjectID `bson:"child_id" json:"child_id"`
	Group   Group              `bson:"group" json:"group"`

	MedicalInfoUpdated bool         `bson:"medical_info_updated" json:"medical_info_updated"`
	MedicalInfo        *MedicalInfo `bson:"medical_info,omitempty" json:"medical_info,omitempty"`
	Remarks            string       `bson:"remarks,omitempty" json:"remarks,omitempty"`

	PaidAmount       float64    `bson:"paid_amount" json:"paid_amount"`
	IsPaid           bool       `bson:"is_paid" json:"is_paid"`
	PaidAt           *time.Time `bson:"paid_at,omitempty" json:"paid_at,omitempty"`
	PaymentReference string     `bson:"payment_reference" json:"payment_reference"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
