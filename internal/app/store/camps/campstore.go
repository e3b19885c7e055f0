// internal/app/store/camps/campstore.go
package campstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/patrohub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("camp not found")

type Store struct {
	c    *mongo.Collection
	regs *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:    db.Collection("camps"),
		regs: db.Collection("camp_registrations"),
	}
}

// Create inserts a camp. Sections is never nil in storage.
func (s *Store) Create(ctx context.Context, c models.Camp) (models.Camp, error) {
	c.ID = primitive.NewObjectID()
	c.Name = strings.TrimSpace(c.Name)
	c.NameCI = text.Fold(c.Name)
	if c.Sections == nil {
		c.Sections = []models.Section{}
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.Camp{}, err
	}
	return c, nil
}

// Update replaces the editable fields of a camp. Creator and creation time
// are preserved.
func (s *Store) Update(ctx context.Context, c models.Camp) (*models.Camp, error) {
	if c.Sections == nil {
		c.Sections = []models.Section{}
	}
	set := bson.M{
		"name":         strings.TrimSpace(c.Name),
		"name_ci":      text.Fold(strings.TrimSpace(c.Name)),
		"description":  c.Description,
		"location":     c.Location,
		"start_date":   c.StartDate,
		"end_date":     c.EndDate,
		"start_time":   c.StartTime,
		"end_time":     c.EndTime,
		"price":        c.Price,
		"iban":         c.IBAN,
		"bic":          c.BIC,
		"beneficiary":  c.Beneficiary,
		"group":        c.Group,
		"sections":     c.Sections,
		"animator_ids": c.AnimatorIDs,
		"is_public":    c.IsPublic,
		"updated_at":   time.Now().UTC(),
	}
	update := bson.M{"$set": set}
	if c.MaxParticipants != nil {
		set["max_participants"] = *c.MaxParticipants
	} else {
		update["$unset"] = bson.M{"max_participants": ""}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var out models.Camp
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": c.ID}, update, opts).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

// Delete removes a camp and its registrations.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	_, err = s.regs.DeleteMany(ctx, bson.M{"camp_id": id})
	return err
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Camp, error) {
	var c models.Camp
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// List returns the camps of groups, most recent first.
func (s *Store) List(ctx context.Context, groups []models.Group) ([]models.Camp, error) {
	return s.find(ctx, bson.M{"group": bson.M{"$in": groups}},
		bson.D{{Key: "start_date", Value: -1}, {Key: "_id", Value: -1}})
}

// ListPublic returns public camps in chronological order, optionally
// restricted to one group.
func (s *Store) ListPublic(ctx context.Context, group *models.Group) ([]models.Camp, error) {
	filter := bson.M{"is_public": true}
	if group != nil {
		filter["group"] = *group
	}
	return s.find(ctx, filter, bson.D{{Key: "start_date", Value: 1}, {Key: "_id", Value: 1}})
}

func (s *Store) find(ctx context.Context, filter bson.M, sort bson.D) ([]models.Camp, error) {
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Camp{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
