// internal/app/store/campregistrations/campregstore.go
package campregstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/patrohub/internal/app/system/txn"
	"github.com/dalemusser/patrohub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

var (
	ErrNotFound                  = errors.New("camp registration not found")
	ErrDuplicateCampRegistration = errors.New("child already registered for this camp")
	ErrCampFull                  = errors.New("camp is full")
)

type Store struct {
	client *mongo.Client
	c      *mongo.Collection
	camps  *mongo.Collection
	log    *zap.Logger
}

func New(db *mongo.Database, logger *zap.Logger) *Store {
	return &Store{
		client: db.Client(),
		c:      db.Collection("camp_registrations"),
		camps:  db.Collection("camps"),
		log:    logger,
	}
}

// Create registers a child for a camp. With maxParticipants set, the count
// check and the insert share a transaction that also bumps the camp's
// registration_seq, so concurrent sign-ups for one camp conflict and are
// retried. On servers without transactions an insert that overshoots the
// limit is deleted again before ErrCampFull is returned.
func (s *Store) Create(ctx context.Context, cr models.CampRegistration, maxParticipants *int) (models.CampRegistration, error) {
	cr.ID = primitive.NewObjectID()
	cr.IsPaid = false
	cr.PaidAt = nil
	cr.CreatedAt = time.Now().UTC()
	if !cr.MedicalInfoUpdated {
		cr.MedicalInfo = nil
	}

	err := txn.Run(ctx, s.client, s.log, func(ctx context.Context) error {
		if maxParticipants != nil {
			if _, err := s.camps.UpdateOne(ctx, bson.M{"_id": cr.CampID},
				bson.M{"$inc": bson.M{"registration_seq": 1}}); err != nil {
				return err
			}
			n, err := s.CountByCamp(ctx, cr.CampID)
			if err != nil {
				return err
			}
			if n >= int64(*maxParticipants) {
				return ErrCampFull
			}
		}

		if _, err := s.c.InsertOne(ctx, cr); err != nil {
			if wafflemongo.IsDup(err) {
				return ErrDuplicateCampRegistration
			}
			return err
		}

		if maxParticipants == nil {
			return nil
		}
		n, err := s.CountByCamp(ctx, cr.CampID)
		if err != nil {
			return err
		}
		if n > int64(*maxParticipants) {
			if _, err := s.c.DeleteOne(ctx, bson.M{"_id": cr.ID}); err != nil {
				return err
			}
			return ErrCampFull
		}
		return nil
	})
	if err != nil {
		return models.CampRegistration{}, err
	}
	return cr, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.CampRegistration, error) {
	var cr models.CampRegistration
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&cr); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cr, nil
}

// CountByCamp returns the number of registrations of a camp.
func (s *Store) CountByCamp(ctx context.Context, campID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"camp_id": campID})
}

// CountByCamps returns registration counts keyed by camp id. Camps without
// registrations are absent from the map.
func (s *Store) CountByCamps(ctx context.Context, campIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error) {
	out := make(map[primitive.ObjectID]int64, len(campIDs))
	if len(campIDs) == 0 {
		return out, nil
	}
	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"camp_id": bson.M{"$in": campIDs}}}},
		{{Key: "$group", Value: bson.M{"_id": "$camp_id", "n": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var row struct {
			ID primitive.ObjectID `bson:"_id"`
			N  int64              `bson:"n"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out[row.ID] = row.N
	}
	return out, cur.Err()
}

// SetPayment marks a camp registration paid or unpaid.
func (s *Store) SetPayment(ctx context.Context, id primitive.ObjectID, paid bool) (*models.CampRegistration, error) {
	update := bson.M{"$set": bson.M{"is_paid": paid}}
	if paid {
		update["$set"].(bson.M)["paid_at"] = time.Now().UTC()
	} else {
		update["$unset"] = bson.M{"paid_at": ""}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var cr models.CampRegistration
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&cr); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cr, nil
}
