package recaps

import (
	"testing"
	"time"

	"github.com/dalemusser/patrohub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var now = time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

func child(first, last string, birthYear int, sec *models.Section) models.Child {
	return models.Child{
		ID:          primitive.NewObjectID(),
		FirstName:   first,
		LastName:    last,
		FirstNameCI: first,
		LastNameCI:  last,
		BirthDate:   time.Date(birthYear, 3, 1, 0, 0, 0, 0, time.UTC),
		Group:       models.GroupGarcons,
		Section:     sec,
	}
}

func secPtr(s models.Section) *models.Section { return &s }

func TestBuild(t *testing.T) {
	parent := &models.Parent{FirstName: "Anne", LastName: "Dupont", Phone: "32477123456"}
	allergic := &models.MedicalInfo{Allergies: models.Allergies{Has: true, List: "Arachides", Consequences: "Oedème"}}
	everything := &models.MedicalInfo{
		Allergies:   models.Allergies{Has: true},
		Diet:        models.Diet{Has: true, Details: "Sans gluten"},
		Medications: models.Medications{Takes: true, Details: "Ventolin", Autonomous: true},
	}

	entries := []Entry{
		{Child: child("Zoé", "Zeller", 2015, secPtr(models.SectionChevaliers)), Parent: parent, Medical: allergic},
		{Child: child("Lucas", "Dupont", 2014, secPtr(models.SectionChevaliers)), Parent: parent, Medical: everything},
		{Child: child("Max", "Adam", 2000, secPtr(models.SectionBrothers)), Parent: parent, Medical: everything},
		{Child: child("Noé", "Blanc", 2016, nil), Parent: parent, Medical: nil},
	}

	got := Build(entries, Filter{}, now)

	if len(got.Allergies) != 2 {
		t.Fatalf("allergies = %d, want 2 (staff excluded)", len(got.Allergies))
	}
	if got.Allergies[0].LastName != "Dupont" || got.Allergies[1].LastName != "Zeller" {
		t.Errorf("allergies not sorted by last name: %+v", got.Allergies)
	}
	if got.Allergies[0].List != "Non spécifié" {
		t.Errorf("empty allergy list = %q, want placeholder", got.Allergies[0].List)
	}
	if got.Allergies[1].ParentPhone != "+32 477 12 34 56" {
		t.Errorf("parent phone = %q", got.Allergies[1].ParentPhone)
	}
	if got.Allergies[1].SectionLabel != "Chevaliers" {
		t.Errorf("section label = %q", got.Allergies[1].SectionLabel)
	}
	if len(got.Diets) != 1 || len(got.Medications) != 1 || !got.Medications[0].Autonomous {
		t.Errorf("diets/medications = %+v / %+v", got.Diets, got.Medications)
	}
}

func TestBuild_Animateurs(t *testing.T) {
	med := &models.MedicalInfo{Diet: models.Diet{Has: true, Details: "Végétarien"}}
	entries := []Entry{
		{Child: child("Max", "Adam", 2000, secPtr(models.SectionBrothers)), Medical: med},
		{Child: child("Lucas", "Dupont", 2014, secPtr(models.SectionChevaliers)), Medical: med},
	}
	got := Build(entries, Filter{Animateurs: true}, now)
	if len(got.Diets) != 1 || got.Diets[0].SectionLabel != "Animateur" {
		t.Errorf("diets = %+v, want the staff member only", got.Diets)
	}
	if got.Diets[0].ParentName != "" {
		t.Error("no parent given, parent name should be empty")
	}
}

func TestBuild_SectionFilter(t *testing.T) {
	med := &models.MedicalInfo{Diet: models.Diet{Has: true}}
	entries := []Entry{
		{Child: child("A", "A", 2014, secPtr(models.SectionChevaliers)), Medical: med},
		{Child: child("B", "B", 2019, secPtr(models.SectionPoussinsG)), Medical: med},
	}
	got := Build(entries, Filter{Section: secPtr(models.SectionPoussinsG)}, now)
	if len(got.Diets) != 1 || got.Diets[0].FirstName != "B" {
		t.Errorf("diets = %+v, want only the poussin", got.Diets)
	}
}

func TestBuild_All(t *testing.T) {
	med := &models.MedicalInfo{Diet: models.Diet{Has: true}}
	entries := []Entry{
		{Child: child("Max", "Adam", 2000, secPtr(models.SectionBrothers)), Medical: med},
		{Child: child("Lucas", "Dupont", 2014, secPtr(models.SectionChevaliers)), Medical: med},
	}
	if got := Build(entries, Filter{All: true}, now); len(got.Diets) != 2 {
		t.Errorf("diets = %d, want 2", len(got.Diets))
	}
}

func TestParseKind(t *testing.T) {
	for _, s := range []string{"allergies", "DIETS", " medications "} {
		if _, ok := ParseKind(s); !ok {
			t.Errorf("ParseKind(%q) rejected", s)
		}
	}
	if _, ok := ParseKind("regimes"); ok {
		t.Error("ParseKind(regimes) accepted")
	}
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		section, animateurs string
		want                Filter
		ok                  bool
	}{
		{"", "", Filter{}, true},
		{"", "true", Filter{Animateurs: true}, true},
		{"chevaliers", "true", Filter{Section: secPtr(models.SectionChevaliers)}, true},
		{"LOUVETEAUX", "", Filter{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseFilter(tt.section, tt.animateurs)
		if ok != tt.ok || got.Animateurs != tt.want.Animateurs ||
			(got.Section == nil) != (tt.want.Section == nil) ||
			(got.Section != nil && *got.Section != *tt.want.Section) {
			t.Errorf("ParseFilter(%q, %q) = %+v, %v", tt.section, tt.animateurs, got, ok)
		}
	}
}
