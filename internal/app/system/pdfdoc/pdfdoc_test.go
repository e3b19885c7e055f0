package pdfdoc

import (
	"bytes"
	"testing"
	"time"

	"github.com/dalemusser/patrohub/internal/app/system/recaps"
	"github.com/dalemusser/patrohub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var created = time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC)

func TestMedicalSheets(t *testing.T) {
	child := models.Child{
		ID:         primitive.NewObjectID(),
		FirstName:  "Léa",
		LastName:   "Dupont",
		BirthDate:  time.Date(2014, 6, 1, 0, 0, 0, 0, time.UTC),
		Group:      models.GroupFilles,
		Address:    "Rue des Écoles 12",
		City:       "Namur",
		PostalCode: "5000",
	}
	p1 := &models.Parent{FirstName: "Marie", LastName: "Dupont", Relationship: "Mère", Phone: "32477123456"}
	med := &models.MedicalInfo{
		DoctorName:  "Dr Maes",
		DoctorPhone: "3281223344",
		CanSwim:     models.SwimALittle,
		Allergies:   models.Allergies{Has: true, List: "Arachides", Consequences: "Œdème"},
		Medications: models.Medications{Takes: true, Details: "Ventolin", Autonomous: true},
	}

	sheets := []Sheet{
		{Child: child, Parent1: p1, Medical: med, Age: 11, SectionLabel: "Étincelles", SchoolYear: "2025-2026"},
		{Child: child, Parent1: p1, Age: 11, SectionLabel: "Étincelles", SchoolYear: "2025-2026"},
	}
	var buf bytes.Buffer
	if err := MedicalSheets(&buf, sheets, created); err != nil {
		t.Fatalf("MedicalSheets: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatal("output is not a PDF")
	}
	if n := bytes.Count(buf.Bytes(), []byte("/Type /Page\n")); n != 2 {
		t.Errorf("pages = %d, want 2", n)
	}
}

func TestRecap(t *testing.T) {
	row := recaps.Row{FirstName: "Tom", LastName: "Lejeune", Age: 10, SectionLabel: "Chevaliers", ParentName: "Anne Lejeune", ParentPhone: "+32 478 00 00 00"}
	r := recaps.Recap{
		Allergies:   []recaps.AllergyRow{{Row: row, List: "Lactose"}},
		Diets:       []recaps.DietRow{},
		Medications: []recaps.MedicationRow{{Row: row, Details: "Rilatine"}},
	}
	var buf bytes.Buffer
	if err := Recap(&buf, "Récapitulatif 2025-2026", r, created); err != nil {
		t.Fatalf("Recap: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatal("output is not a PDF")
	}

	buf.Reset()
	if err := Recap(&buf, "Vide", recaps.Recap{}, created); err != nil {
		t.Fatalf("Recap empty: %v", err)
	}
}

func TestLabels(t *testing.T) {
	if swimLabel(models.SwimNo) != "Ne sait pas nager" {
		t.Error("swim label")
	}
	m := &models.MedicalInfo{CanParticipate: false, Restrictions: "pas de sport intense"}
	if got := participation(m); got != "Non : pas de sport intense" {
		t.Errorf("participation = %q", got)
	}
	if photoLabel(&models.MedicalInfo{PhotoConsent: models.PhotoConsentBackground}) != "Uniquement en arrière-plan" {
		t.Error("photo label")
	}
}
