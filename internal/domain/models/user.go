// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a staff account able to sign in to the dashboard.
//
// NOTE:
//   - Group is nil for admins. Every other role carries its group.
//   - PasswordHash is empty for accounts that only sign in with Google.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName     string             `bson:"full_name" json:"full_name"`
	FullNameCI   string             `bson:"full_name_ci" json:"-"`
	Email        string             `bson:"email" json:"email"` // lowercase
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`
	AuthMethod   string             `bson:"auth_method" json:"auth_method"` // password | google
	Role         Role               `bson:"role" json:"role"`
	Group        *Group             `bson:"group,omitempty" json:"group,omitempty"`
	Status       string             `bson:"status" json:"status"` // active | disabled

	LastLoginAt *time.Time `bson:"last_login_at,omitempty" json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
}

const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"

	AuthMethodPassword = "password"
	AuthMethodGoogle   = "google"
)
