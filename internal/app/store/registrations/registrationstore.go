// internal/app/store/registrations/registrationstore.go
package registrationstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/patrohub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound = errors.New("registration not found")
	// ErrDuplicateRegistration means the child is already registered for the school year.
	ErrDuplicateRegistration = errors.New("child already registered for this school year")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("registrations")}
}

// Create inserts an unpaid registration. The unique (child_id, school_year)
// index turns a second registration into ErrDuplicateRegistration.
func (s *Store) Create(ctx context.Context, reg models.Registration) (models.Registration, error) {
	reg.ID = primitive.NewObjectID()
	reg.IsPaid = false
	reg.PaidAt = nil
	now := time.Now().UTC()
	reg.CreatedAt = now
	reg.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, reg); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Registration{}, ErrDuplicateRegistration
		}
		return models.Registration{}, err
	}
	return reg, nil
}

// GetByID loads a registration.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Registration, error) {
	var r models.Registration
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

// GetForChild returns the child's registration for schoolYear.
func (s *Store) GetForChild(ctx context.Context, childID primitive.ObjectID, schoolYear string) (*models.Registration, error) {
	var r models.Registration
	err := s.c.FindOne(ctx, bson.M{"child_id": childID, "school_year": schoolYear}).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListForYear returns the registrations of schoolYear in groups.
func (s *Store) ListForYear(ctx context.Context, schoolYear string, groups []models.Group) ([]models.Registration, error) {
	cur, err := s.c.Find(ctx, bson.M{
		"school_year": schoolYear,
		"group":       bson.M{"$in": groups},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Registration{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ByChild indexes ListForYear results by child id.
func ByChild(regs []models.Registration) map[primitive.ObjectID]models.Registration {
	out := make(map[primitive.ObjectID]models.Registration, len(regs))
	for _, r := range regs {
		out[r.ChildID] = r
	}
	return out
}

// SetPayment marks a registration paid or unpaid and returns the result.
func (s *Store) SetPayment(ctx context.Context, id primitive.ObjectID, paid bool) (*models.Registration, error) {
	now := time.Now().UTC()
	update := bson.M{"$set": bson.M{"is_paid": paid, "updated_at": now}}
	if paid {
		update["$set"].(bson.M)["paid_at"] = now
	} else {
		update["$unset"] = bson.M{"paid_at": ""}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var r models.Registration
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&r); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

// SectionStat aggregates one (group, section) cell of the dashboard.
// Section is "" for children without a section.
type SectionStat struct {
	Group       models.Group   `bson:"group" json:"group"`
	Section     models.Section `bson:"section" json:"section"`
	Count       int64          `bson:"count" json:"count"`
	PaidCount   int64          `bson:"paid_count" json:"paid_count"`
	PaidTotal   float64        `bson:"paid_total" json:"paid_total"`
	UnpaidTotal float64        `bson:"unpaid_total" json:"unpaid_total"`
}

// Stats counts the registrations of schoolYear per group and child section.
func (s *Store) Stats(ctx context.Context, schoolYear string, groups []models.Group) ([]SectionStat, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"school_year": schoolYear, "group": bson.M{"$in": groups}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "children",
			"localField":   "child_id",
			"foreignField": "_id",
			"as":           "child",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$child", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$group", Value: bson.M{
			"_id":          bson.M{"group": "$group", "section": bson.M{"$ifNull": bson.A{"$child.section", ""}}},
			"count":        bson.M{"$sum": 1},
			"paid_count":   bson.M{"$sum": bson.M{"$cond": bson.A{"$is_paid", 1, 0}}},
			"paid_total":   bson.M{"$sum": bson.M{"$cond": bson.A{"$is_paid", "$amount", 0}}},
			"unpaid_total": bson.M{"$sum": bson.M{"$cond": bson.A{"$is_paid", 0, "$amount"}}},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id": 0, "group": "$_id.group", "section": "$_id.section",
			"count": 1, "paid_count": 1, "paid_total": 1, "unpaid_total": 1,
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "group", Value: 1}, {Key: "section", Value: 1}}}},
	}

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []SectionStat{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
