// internal/app/store/children/childstore.go
package childstore

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/dalemusser/patrohub/internal/app/system/normalize"
	"github.com/dalemusser/patrohub/internal/app/system/paging"
	"github.com/dalemusser/patrohub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("child not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("children")}
}

// GetByID loads a child.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Child, error) {
	var c models.Child
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// GetMany loads children by id, keyed by id.
func (s *Store) GetMany(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Child, error) {
	out := make(map[primitive.ObjectID]models.Child, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var c models.Child
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		out[c.ID] = c
	}
	return out, cur.Err()
}

// FindExisting returns the child with these names and birth date linked
// (as first or second parent) to any of parentIDs.
func (s *Store) FindExisting(ctx context.Context, first, last string, birth time.Time, parentIDs []primitive.ObjectID) (*models.Child, error) {
	filter := bson.M{
		"first_name_ci": text.Fold(normalize.Name(first)),
		"last_name_ci":  text.Fold(normalize.Name(last)),
		"birth_date":    birth.UTC(),
		"$or": bson.A{
			bson.M{"parent1_id": bson.M{"$in": parentIDs}},
			bson.M{"parent2_id": bson.M{"$in": parentIDs}},
		},
	}
	var c models.Child
	if err := s.c.FindOne(ctx, filter).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Create inserts a child after normalizing names.
func (s *Store) Create(ctx context.Context, c models.Child) (models.Child, error) {
	c.ID = primitive.NewObjectID()
	c.FirstName = normalize.Name(c.FirstName)
	c.LastName = normalize.Name(c.LastName)
	c.FirstNameCI = text.Fold(c.FirstName)
	c.LastNameCI = text.Fold(c.LastName)
	c.BirthDate = c.BirthDate.UTC()
	c.PostalCode = normalize.Postal(c.PostalCode)
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.Child{}, err
	}
	return c, nil
}

// UpdateAddress refreshes the postal address of a returning child.
func (s *Store) UpdateAddress(ctx context.Context, id primitive.ObjectID, address, city, postal string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"address":     normalize.Name(address),
		"city":        normalize.Name(city),
		"postal_code": normalize.Postal(postal),
		"updated_at":  time.Now().UTC(),
	}})
	return err
}

// ListByParent returns the children linked to parentID, by last name.
func (s *Store) ListByParent(ctx context.Context, parentID primitive.ObjectID) ([]models.Child, error) {
	return s.find(ctx, bson.M{"$or": bson.A{
		bson.M{"parent1_id": parentID},
		bson.M{"parent2_id": parentID},
	}})
}

// SearchByBirth returns the children born on day. A non-empty lastName
// narrows the match (case and accent insensitive).
func (s *Store) SearchByBirth(ctx context.Context, day time.Time, lastName string) ([]models.Child, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	filter := bson.M{"birth_date": bson.M{"$gte": start, "$lt": start.AddDate(0, 0, 1)}}
	if ln := normalize.Name(lastName); ln != "" {
		filter["last_name_ci"] = text.Fold(ln)
	}
	return s.find(ctx, filter)
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Child, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "last_name_ci", Value: 1},
		{Key: "first_name_ci", Value: 1},
	})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Child{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListFilter selects a page of the dashboard child list.
type ListFilter struct {
	Groups  []models.Group
	Section *models.Section
	Query   string // prefix of first or last name
	Before  string
	After   string
}

// Page is one keyset page ordered by case-folded last name.
type Page struct {
	Children []models.Child
	paging.Result
	PrevCursor string
	NextCursor string
}

// List returns one page of children.
func (s *Store) List(ctx context.Context, f ListFilter) (Page, error) {
	base := bson.M{"group": bson.M{"$in": f.Groups}}
	if f.Section != nil {
		base["section"] = *f.Section
	}
	if q := text.Fold(normalize.QueryParam(f.Query)); q != "" {
		prefix := primitive.Regex{Pattern: "^" + regexp.QuoteMeta(q)}
		base["$or"] = bson.A{
			bson.M{"last_name_ci": prefix},
			bson.M{"first_name_ci": prefix},
		}
	}

	ks := paging.ConfigureKeyset(f.Before, f.After)
	filter := base
	if w := ks.Window("last_name_ci"); w != nil {
		filter = bson.M{"$and": bson.A{base, w}}
	}

	find := options.Find()
	ks.ApplyToFind(find, "last_name_ci")

	cur, err := s.c.Find(ctx, filter, find)
	if err != nil {
		return Page{}, err
	}
	defer cur.Close(ctx)

	rows := []models.Child{}
	if err := cur.All(ctx, &rows); err != nil {
		return Page{}, err
	}

	res := paging.TrimPage(&rows, f.Before, f.After)
	if ks.Backward {
		paging.Reverse(rows)
	}
	prev, next := paging.BuildCursors(rows,
		func(c models.Child) string { return c.LastNameCI },
		func(c models.Child) primitive.ObjectID { return c.ID })

	return Page{Children: rows, Result: res, PrevCursor: prev, NextCursor: next}, nil
}
