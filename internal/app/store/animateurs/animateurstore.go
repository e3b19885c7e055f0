// internal/app/store/animateurs/animateurstore.go
package animateurstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/patrohub/internal/app/system/normalize"
	"github.com/dalemusser/patrohub/internal/app/system/phone"
	"github.com/dalemusser/patrohub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("animateur not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("animateurs")}
}

func clean(a *models.Animateur) {
	a.FirstName = normalize.Name(a.FirstName)
	a.LastName = normalize.Name(a.LastName)
	a.LastNameCI = text.Fold(a.LastName)
	a.Email = normalize.Email(a.Email)
	if a.Phone != "" {
		a.Phone = phone.Normalize(a.Phone)
	}
	a.Function = normalize.Name(a.Function)
}

func (s *Store) Create(ctx context.Context, a models.Animateur) (models.Animateur, error) {
	clean(&a)
	a.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Animateur{}, err
	}
	return a, nil
}

func (s *Store) Update(ctx context.Context, a models.Animateur) (*models.Animateur, error) {
	clean(&a)
	set := bson.M{
		"first_name":   a.FirstName,
		"last_name":    a.LastName,
		"last_name_ci": a.LastNameCI,
		"phone":        a.Phone,
		"email":        a.Email,
		"group":        a.Group,
		"function":     a.Function,
		"show_contact": a.ShowContact,
		"updated_at":   time.Now().UTC(),
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var out models.Animateur
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": a.ID}, bson.M{"$set": set}, opts).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Animateur, error) {
	var a models.Animateur
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// List returns the roster of groups ordered by last name.
func (s *Store) List(ctx context.Context, groups []models.Group) ([]models.Animateur, error) {
	opts := options.Find().SetSort(bson.D{{Key: "group", Value: 1}, {Key: "last_name_ci", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"group": bson.M{"$in": groups}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Animateur{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Public returns a copy of a without contact details unless the animateur
// agreed to show them.
func Public(a models.Animateur) models.Animateur {
	if !a.ShowContact {
		a.Phone = ""
		a.Email = ""
	}
	return a
}
