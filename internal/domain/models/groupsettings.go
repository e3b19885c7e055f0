// internal/domain/models/groupsettings.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GroupSettings is the per-group configuration edited from the dashboard.
// There is one document per group.
type GroupSettings struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Group Group              `bson:"group" json:"group"`

	RegistrationFee float64 `bson:"registration_fee" json:"registration_fee"`
	ContactEmail    string  `bson:"contact_email,omitempty" json:"contact_email,omitempty"`
	Address         string  `bson:"address,omitempty" json:"address,omitempty"`
	Schedule        string  `bson:"schedule,omitempty" json:"schedule,omitempty"`

	IBAN        string `bson:"iban,omitempty" json:"iban,omitempty"`
	BIC         string `bson:"bic,omitempty" json:"bic,omitempty"`
	Beneficiary string `bson:"beneficiary,omitempty" json:"beneficiary,omitempty"`

	UpdatedAt     *time.Time          `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
	UpdatedByID   *primitive.ObjectID `bson:"updated_by_id,omitempty" json:"updated_by_id,omitempty"`
	UpdatedByName string              `bson:"updated_by_name,omitempty" json:"updated_by_name,omitempty"`
}

// HasBankDetails reports whether payments can be requested for the group.
func (s GroupSettings) HasBankDetails() bool {
	return s.IBAN != "" && s.Beneficiary != ""
}
