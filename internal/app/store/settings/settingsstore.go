// internal/app/store/settings/settingsstore.go
package settingsstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/patrohub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the group_settings collection.
// Each group has its own settings document.
type Store struct {
	c          *mongo.Collection
	defaultFee float64
}

// New creates a settings store. defaultFee applies to groups that have no
// settings document yet; a non-positive value means the built-in default.
func New(db *mongo.Database, defaultFee float64) *Store {
	if defaultFee <= 0 {
		defaultFee = models.DefaultRegistrationFee
	}
	return &Store{c: db.Collection("group_settings"), defaultFee: defaultFee}
}

// Get returns the settings of group, or defaults when none are saved.
func (s *Store) Get(ctx context.Context, group models.Group) (models.GroupSettings, error) {
	var gs models.GroupSettings
	err := s.c.FindOne(ctx, bson.M{"group": group}).Decode(&gs)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return s.Defaults(group), nil
	}
	if err != nil {
		return models.GroupSettings{}, err
	}
	if gs.RegistrationFee <= 0 {
		gs.RegistrationFee = s.defaultFee
	}
	return gs, nil
}

// Defaults are the settings of a group that was never configured.
func (s *Store) Defaults(group models.Group) models.GroupSettings {
	return models.GroupSettings{Group: group, RegistrationFee: s.defaultFee}
}

// Save upserts the settings of gs.Group and returns the stored document.
func (s *Store) Save(ctx context.Context, gs models.GroupSettings) (models.GroupSettings, error) {
	now := time.Now().UTC()
	set := bson.M{
		"group":            gs.Group,
		"registration_fee": gs.RegistrationFee,
		"contact_email":    gs.ContactEmail,
		"address":          gs.Address,
		"schedule":         gs.Schedule,
		"iban":             gs.IBAN,
		"bic":              gs.BIC,
		"beneficiary":      gs.Beneficiary,
		"updated_at":       now,
		"updated_by_name":  gs.UpdatedByName,
	}
	if gs.UpdatedByID != nil {
		set["updated_by_id"] = *gs.UpdatedByID
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var out models.GroupSettings
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"group": gs.Group}, bson.M{"$set": set}, opts).Decode(&out); err != nil {
		return models.GroupSettings{}, err
	}
	return out, nil
}
