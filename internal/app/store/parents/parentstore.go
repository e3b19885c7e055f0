// internal/app/store/parents/parentstore.go
package parentstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/patrohub/internal/app/system/normalize"
	"github.com/dalemusser/patrohub/internal/app/system/phone"
	"github.com/dalemusser/patrohub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound  = errors.New("parent not found")
	ErrBadPhone  = errors.New("parent phone is not a valid number")
	errNoParents = errors.New("no parent ids")
)

// Store provides access to the parents collection. Parents are keyed by
// their canonical phone number (unique index).
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("parents")}
}

// GetByID loads a parent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Parent, error) {
	var p models.Parent
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetByPhone looks a parent up by any spelling of their phone number.
func (s *Store) GetByPhone(ctx context.Context, raw string) (*models.Parent, error) {
	canon := phone.Normalize(raw)
	if canon == "" {
		return nil, ErrNotFound
	}
	var p models.Parent
	if err := s.c.FindOne(ctx, bson.M{"phone": canon}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetMany loads parents by id, keyed by id. Unknown ids are skipped.
func (s *Store) GetMany(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Parent, error) {
	out := make(map[primitive.ObjectID]models.Parent, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var p models.Parent
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, cur.Err()
}

// Ensure returns the parent with p's phone, creating it from p when
// absent. For an existing parent, refreshEmail replaces the stored email
// with p.Email (when non-empty); names are never overwritten.
//
// Two concurrent inscriptions for the same new phone race on the unique
// index; the loser re-reads the winner's document.
func (s *Store) Ensure(ctx context.Context, p models.Parent, refreshEmail bool) (models.Parent, bool, error) {
	p.Phone = phone.Normalize(p.Phone)
	if !phone.Valid(p.Phone) {
		return models.Parent{}, false, ErrBadPhone
	}
	p.FirstName = normalize.Name(p.FirstName)
	p.LastName = normalize.Name(p.LastName)
	p.Email = normalize.Email(p.Email)

	existing, err := s.GetByPhone(ctx, p.Phone)
	switch {
	case err == nil:
		if refreshEmail && p.Email != "" && p.Email != existing.Email {
			if err := s.setEmail(ctx, existing.ID, p.Email); err != nil {
				return models.Parent{}, false, err
			}
			existing.Email = p.Email
		}
		return *existing, false, nil
	case !errors.Is(err, ErrNotFound):
		return models.Parent{}, false, err
	}

	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			winner, gerr := s.GetByPhone(ctx, p.Phone)
			if gerr != nil {
				return models.Parent{}, false, gerr
			}
			return *winner, false, nil
		}
		return models.Parent{}, false, err
	}
	return p, true, nil
}

func (s *Store) setEmail(ctx context.Context, id primitive.ObjectID, email string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"email":      email,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// IDsOf returns the non-nil ids, for OR-ing parent links.
func IDsOf(ps ...*models.Parent) ([]primitive.ObjectID, error) {
	var ids []primitive.ObjectID
	for _, p := range ps {
		if p != nil && !p.ID.IsZero() {
			ids = append(ids, p.ID)
		}
	}
	if len(ids) == 0 {
		return nil, errNoParents
	}
	return ids, nil
}
