// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Every collection's index set is reconciled
idempotently; problems are aggregated so startup fails with all of them.

The unique indexes carry the storage-level invariants:
  - parents.phone: one guardian per canonical phone
  - registrations(child_id, school_year): one registration per child and year
  - camp_registrations(camp_id, child_id): one sign-up per camp and child
  - users.email, group_settings.group
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string
	for _, spec := range desired() {
		if err := ensureIndexSet(ctx, db.Collection(spec.collection), spec.models); err != nil {
			problems = append(problems, spec.collection+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

type collectionSpec struct {
	collection string
	models     []mongo.IndexModel
}

func idx(name string, unique bool, keys ...bson.E) mongo.IndexModel {
	opts := options.Index().SetName(name)
	if unique {
		opts.SetUnique(true)
	}
	return mongo.IndexModel{Keys: bson.D(keys), Options: opts}
}

func asc(k string) bson.E  { return bson.E{Key: k, Value: 1} }
func desc(k string) bson.E { return bson.E{Key: k, Value: -1} }

func desired() []collectionSpec {
	return []collectionSpec{
		{"parents", []mongo.IndexModel{
			idx("uniq_parents_phone", true, asc("phone")),
		}},
		{"children", []mongo.IndexModel{
			idx("idx_children_group_lastname", false, asc("group"), asc("last_name_ci"), asc("_id")),
			idx("idx_children_group_section", false, asc("group"), asc("section")),
			idx("idx_children_identity", false, asc("last_name_ci"), asc("first_name_ci"), asc("birth_date")),
			idx("idx_children_parent1", false, asc("parent1_id")),
			idx("idx_children_parent2", false, asc("parent2_id")),
			idx("idx_children_birth_date", false, asc("birth_date")),
		}},
		{"registrations", []mongo.IndexModel{
			idx("uniq_registrations_child_year", true, asc("child_id"), asc("school_year")),
			idx("idx_registrations_year_group", false, asc("school_year"), asc("group")),
		}},
		{"camps", []mongo.IndexModel{
			idx("idx_camps_group_start", false, asc("group"), desc("start_date")),
			idx("idx_camps_public_start", false, asc("is_public"), asc("start_date")),
		}},
		{"camp_registrations", []mongo.IndexModel{
			idx("uniq_campregs_camp_child", true, asc("camp_id"), asc("child_id")),
			idx("idx_campregs_child", false, asc("child_id")),
		}},
		{"users", []mongo.IndexModel{
			idx("uniq_users_email", true, asc("email")),
			idx("idx_users_status_name", false, asc("status"), asc("full_name_ci"), asc("_id")),
		}},
		{"animateurs", []mongo.IndexModel{
			idx("idx_animateurs_group_lastname", false, asc("group"), asc("last_name_ci")),
		}},
		{"group_settings", []mongo.IndexModel{
			idx("uniq_group_settings_group", true, asc("group")),
		}},
		{"audit_events", []mongo.IndexModel{
			idx("idx_audit_timestamp", false, desc("timestamp")),
			idx("idx_audit_group_time", false, asc("group"), desc("timestamp")),
			idx("idx_audit_category_type_time", false, asc("category"), asc("event_type"), desc("timestamp")),
		}},
		{"oauth_states", []mongo.IndexModel{
			idx("uniq_oauth_state", true, asc("state")),
			{
				Keys:    bson.D{asc("expires_at")},
				Options: options.Index().SetName("ttl_oauth_expires").SetExpireAfterSeconds(0),
			},
		}},
	}
}

/* -------------------------------------------------------------------------- */
/* Reconcile a set of desired indexes for one collection                      */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func boolVal(b *bool) bool { return b != nil && *b }

// isDuplicateKeyErr detects E11000 across driver error shapes.
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

func listExisting(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := map[string]existingIndex{}
	for cur.Next(ctx) {
		var ix existingIndex
		if err := cur.Decode(&ix); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()), zap.Error(err))
			continue
		}
		out[keySig(ix.Key)] = ix
	}
	return out, cur.Err()
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	existing, err := listExisting(ctx, coll)
	if err != nil {
		// Collection may not exist yet; every index is created below.
		existing = map[string]existingIndex{}
	}

	var errs []string
	for _, m := range models {
		name := *m.Options.Name
		unique := boolVal(m.Options.Unique)
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()

		if ex, ok := existing[sig]; ok {
			if boolVal(ex.Unique) == unique && ex.Name == name {
				zap.L().Debug("reusing existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", name))
				continue
			}
			// Same keys with a different name or uniqueness: drop & recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), name, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if unique && isDuplicateKeyErr(err) {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index on {%s}, duplicates present", coll.Name(), name, sig))
			} else {
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
			}
			continue
		}
		zap.L().Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", unique),
			zap.Duration("took", time.Since(start)))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
