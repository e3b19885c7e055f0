// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/patrohub/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates the collections (if missing) and attaches JSON-Schema
// validators. Deployments without collMod support are logged and skipped.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure("parents", parentsSchema())
	ensure("children", childrenSchema())
	ensure("registrations", registrationsSchema())
	ensure("camps", campsSchema())
	ensure("camp_registrations", campRegistrationsSchema())
	ensure("users", usersSchema())
	ensure("animateurs", animateursSchema())
	ensure("group_settings", groupSettingsSchema())

	ensure("audit_events", nil)
	ensure("oauth_states", nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// ensureCollection idempotently makes sure <name> exists.
// Returns created==true only if we actually created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		zap.L().Info("collection exists", zap.String("collection", name))
		return false, nil
	}
	// If listing failed, fall back to create-and-handle-race.
	if err := db.CreateCollection(ctx, name); err != nil {
		// NamespaceExists / already exists is fine (race or prior run).
		if isNamespaceExistsErr(err) {
			zap.L().Info("collection exists", zap.String("collection", name))
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

/* ------------------------------ validators ------------------------------- */

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func isNamespaceExistsErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 48 || strings.Contains(strings.ToLower(ce.Message), "already exists")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

func isNoSuchCommand(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || strings.Contains(strings.ToLower(ce.Message), "no such command")) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 115 ||
		strings.Contains(strings.ToLower(ce.Message), "not implemented") ||
		strings.Contains(strings.ToLower(ce.Message), "not supported")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

var nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}

func groupEnum() bson.M {
	vals := bson.A{}
	for _, g := range models.AllGroups {
		vals = append(vals, string(g))
	}
	return bson.M{"enum": vals}
}

func sectionEnum() bson.A {
	vals := bson.A{}
	for _, s := range models.AllSections {
		vals = append(vals, string(s))
	}
	return vals
}

func roleEnum() bson.M {
	vals := bson.A{}
	for _, r := range models.AllRoles {
		vals = append(vals, string(r))
	}
	return bson.M{"enum": vals}
}

func parentsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"first_name", "last_name", "phone"},
			"properties": bson.M{
				"first_name": nonBlank,
				"last_name":  nonBlank,
				"phone":      bson.M{"bsonType": "string", "pattern": "^[0-9]{9,15}$"},
				"email":      bson.M{"bsonType": bson.A{"string", "null"}},
			},
		},
	}
}

func childrenSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"first_name", "last_name", "birth_date", "group", "parent1_id"},
			"properties": bson.M{
				"first_name": nonBlank,
				"last_name":  nonBlank,
				"birth_date": bson.M{"bsonType": "date"},
				"group":      groupEnum(),
				"section":    bson.M{"enum": append(sectionEnum(), nil)},
				"parent1_id": bson.M{"bsonType": "objectId"},
				"parent2_id": bson.M{"bsonType": bson.A{"objectId", "null"}},
			},
		},
	}
}

func registrationsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"child_id", "group", "school_year", "amount", "is_paid"},
			"properties": bson.M{
				"child_id":    bson.M{"bsonType": "objectId"},
				"group":       groupEnum(),
				"school_year": bson.M{"bsonType": "string", "pattern": "^[0-9]{4}-[0-9]{4}$"},
				"amount":      bson.M{"bsonType": bson.A{"double", "int", "long", "decimal"}, "minimum": 0},
				"is_paid":     bson.M{"bsonType": "bool"},
			},
		},
	}
}

func campsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "location", "start_date", "end_date", "group", "price"},
			"properties": bson.M{
				"name":             nonBlank,
				"location":         nonBlank,
				"start_date":       bson.M{"bsonType": "date"},
				"end_date":         bson.M{"bsonType": "date"},
				"group":            groupEnum(),
				"price":            bson.M{"bsonType": bson.A{"double", "int", "long", "decimal"}, "minimum": 0},
				"sections":         bson.M{"bsonType": bson.A{"array", "null"}, "items": bson.M{"enum": sectionEnum()}},
				"max_participants": bson.M{"bsonType": bson.A{"int", "long", "null"}, "minimum": 1},
			},
		},
	}
}

func campRegistrationsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"camp_id", "child_id", "group"},
			"properties": bson.M{
				"camp_id":  bson.M{"bsonType": "objectId"},
				"child_id": bson.M{"bsonType": "objectId"},
				"group":    groupEnum(),
			},
		},
	}
}

func usersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"full_name", "email", "role", "status", "auth_method"},
			"properties": bson.M{
				"full_name":   nonBlank,
				"email":       nonBlank,
				"role":        roleEnum(),
				"group":       bson.M{"enum": bson.A{string(models.GroupGarcons), string(models.GroupFilles), nil}},
				"status":      bson.M{"enum": bson.A{models.UserStatusActive, models.UserStatusDisabled}},
				"auth_method": bson.M{"enum": bson.A{models.AuthMethodPassword, models.AuthMethodGoogle}},
			},
		},
	}
}

func animateursSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"first_name", "last_name", "group"},
			"properties": bson.M{
				"first_name": nonBlank,
				"last_name":  nonBlank,
				"group":      groupEnum(),
			},
		},
	}
}

func groupSettingsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"group", "registration_fee"},
			"properties": bson.M{
				"group":            groupEnum(),
				"registration_fee": bson.M{"bsonType": bson.A{"double", "int", "long", "decimal"}, "minimum": 0},
			},
		},
	}
}
