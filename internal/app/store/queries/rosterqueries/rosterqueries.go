// Package rosterqueries provides read-only joins of registrations with the
// children and parents they concern. Recaps, medical sheets, exports and
// camp views are built from these rows.
package rosterqueries

import (
	"context"

	"github.com/dalemusser/patrohub/internal/app/system/recaps"
	"github.com/dalemusser/patrohub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Member is a child registered for the school year.
type Member struct {
	Registration models.Registration
	Child        models.Child
	Parent1      *models.Parent
	Parent2      *models.Parent
}

// Entry is the recap input of m.
func (m Member) Entry() recaps.Entry {
	med := m.Registration.MedicalInfo
	return recaps.Entry{Child: m.Child, Parent: m.Parent1, Medical: &med}
}

// CampMember is a camp registration with its child. YearMedical is the
// form of the school-year registration, nil when there is none.
type CampMember struct {
	Registration models.CampRegistration
	Child        models.Child
	Parent1      *models.Parent
	Parent2      *models.Parent
	YearMedical  *models.MedicalInfo
}

// Medical is the form that applies at the camp: the one given at sign-up
// when the family updated it, else the school-year one.
func (m CampMember) Medical() *models.MedicalInfo {
	if m.Registration.MedicalInfoUpdated && m.Registration.MedicalInfo != nil {
		return m.Registration.MedicalInfo
	}
	return m.YearMedical
}

// Entry is the recap input of m.
func (m CampMember) Entry() recaps.Entry {
	return recaps.Entry{Child: m.Child, Parent: m.Parent1, Medical: m.Medical()}
}

// YearFilter selects Year rows. Zero fields are ignored except Groups,
// which must list the visible groups.
type YearFilter struct {
	SchoolYear string
	Groups     []models.Group
	Section    *models.Section
	ChildID    *primitive.ObjectID
}

var parentLookups = []bson.M{
	{"$lookup": bson.M{
		"from":         "parents",
		"localField":   "child.parent1_id",
		"foreignField": "_id",
		"as":           "parent1",
	}},
	{"$lookup": bson.M{
		"from":         "parents",
		"localField":   "child.parent2_id",
		"foreignField": "_id",
		"as":           "parent2",
	}},
}

// Year returns the registrations of f.SchoolYear with their child and
// parents, ordered by case-folded last then first name.
func Year(ctx context.Context, db *mongo.Database, f YearFilter) ([]Member, error) {
	out := []Member{}
	if len(f.Groups) == 0 {
		return out, nil
	}

	match := bson.M{"school_year": f.SchoolYear, "group": bson.M{"$in": f.Groups}}
	if f.ChildID != nil {
		match["child_id"] = *f.ChildID
	}
	pipeline := []bson.M{
		{"$match": match},
		{"$lookup": bson.M{
			"from":         "children",
			"localField":   "child_id",
			"foreignField": "_id",
			"as":           "child",
		}},
		{"$unwind": "$child"},
	}
	if f.Section != nil {
		pipeline = append(pipeline, bson.M{"$match": bson.M{"child.section": *f.Section}})
	}
	pipeline = append(pipeline, parentLookups...)
	pipeline = append(pipeline, bson.M{"$sort": bson.D{
		{Key: "child.last_name_ci", Value: 1},
		{Key: "child.first_name_ci", Value: 1},
		{Key: "_id", Value: 1},
	}})

	cur, err := db.Collection("registrations").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var row struct {
			models.Registration `bson:",inline"`
			Child               models.Child    `bson:"child"`
			Parent1             []models.Parent `bson:"parent1"`
			Parent2             []models.Parent `bson:"parent2"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out = append(out, Member{
			Registration: row.Registration,
			Child:        row.Child,
			Parent1:      first(row.Parent1),
			Parent2:      first(row.Parent2),
		})
	}
	return out, cur.Err()
}

// Camp returns the registrations of campID in sign-up order, each with the
// child's form for schoolYear.
func Camp(ctx context.Context, db *mongo.Database, campID primitive.ObjectID, schoolYear string) ([]CampMember, error) {
	pipeline := []bson.M{
		{"$match": bson.M{"camp_id": campID}},
		{"$lookup": bson.M{
			"from":         "children",
			"localField":   "child_id",
			"foreignField": "_id",
			"as":           "child",
		}},
		{"$unwind": "$child"},
	}
	pipeline = append(pipeline, parentLookups...)
	pipeline = append(pipeline,
		bson.M{"$lookup": bson.M{
			"from": "registrations",
			"let":  bson.M{"cid": "$child_id"},
			"pipeline": bson.A{
				bson.M{"$match": bson.M{
					"$expr":       bson.M{"$eq": bson.A{"$child_id", "$$cid"}},
					"school_year": schoolYear,
				}},
				bson.M{"$project": bson.M{"medical_info": 1}},
			},
			"as": "year_reg",
		}},
		bson.M{"$sort": bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}},
	)

	cur, err := db.Collection("camp_registrations").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []CampMember{}
	for cur.Next(ctx) {
		var row struct {
			models.CampRegistration `bson:",inline"`
			Child                   models.Child    `bson:"child"`
			Parent1                 []models.Parent `bson:"parent1"`
			Parent2                 []models.Parent `bson:"parent2"`
			YearReg                 []struct {
				MedicalInfo models.MedicalInfo `bson:"medical_info"`
			} `bson:"year_reg"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		m := CampMember{
			Registration: row.CampRegistration,
			Child:        row.Child,
			Parent1:      first(row.Parent1),
			Parent2:      first(row.Parent2),
		}
		if len(row.YearReg) > 0 {
			med := row.YearReg[0].MedicalInfo
			m.YearMedical = &med
		}
		out = append(out, m)
	}
	return out, cur.Err()
}

// Entries maps members to recap inputs.
func Entries(ms []Member) []recaps.Entry {
	out := make([]recaps.Entry, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.Entry())
	}
	return out
}

// CampEntries maps camp members to recap inputs.
func CampEntries(ms []CampMember) []recaps.Entry {
	out := make([]recaps.Entry, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.Entry())
	}
	return out
}

func first(ps []models.Parent) *models.Parent {
	if len(ps) == 0 {
		return nil
	}
	p := ps[0]
	return &p
}
