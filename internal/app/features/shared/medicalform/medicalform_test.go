package medicalform

import (
	"testing"

	"github.com/dalemusser/patrohub/internal/app/system/inputval"
)

func valid() Form {
	return Form{
		PhotoConsent:            "full",
		DoctorName:              "Dr Maes",
		DoctorPhone:             "081 22 33 44",
		CanParticipate:          true,
		CanSwim:                 "yes",
		Weight:                  "32 kg",
		EmergencyMedicalConsent: true,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Form)
		wantErr bool
	}{
		{"valid", func(*Form) {}, false},
		{"no emergency consent", func(f *Form) { f.EmergencyMedicalConsent = false }, true},
		{"bad photo consent", func(f *Form) { f.PhotoConsent = "maybe" }, true},
		{"allergies without list", func(f *Form) { f.HasAllergies = true }, true},
		{"allergies with list", func(f *Form) { f.HasAllergies = true; f.AllergyList = "arachides" }, false},
		{"medication without details", func(f *Form) { f.TakesMedication = true }, true},
		{"bad secondary email", func(f *Form) { f.SecondaryEmail = "nope" }, true},
		{"bad doctor phone", func(f *Form) { f.DoctorPhone = "12" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid()
			tt.mutate(&f)
			res := inputval.Validate(f)
			if res.HasErrors() != tt.wantErr {
				t.Errorf("HasErrors = %v, want %v (%s)", res.HasErrors(), tt.wantErr, res.All())
			}
		})
	}
}

func TestModel(t *testing.T) {
	f := valid()
	f.HasAllergies = true
	f.AllergyList = "<b>arachides</b>"
	f.DietDetails = "ignored because HasDiet is false"
	f.TakesMedication = true
	f.MedicationDetails = "Ventolin"
	f.MedicationAutonomous = true

	m := f.Model()
	if !m.Allergies.Has || m.Allergies.List != "arachides" {
		t.Errorf("allergies = %+v", m.Allergies)
	}
	if m.Diet.Has || m.Diet.Details != "" {
		t.Errorf("diet = %+v", m.Diet)
	}
	if !m.Medications.Autonomous || m.Medications.Details != "Ventolin" {
		t.Errorf("medications = %+v", m.Medications)
	}
	if m.DoctorPhone != "3281223344" {
		t.Errorf("doctor phone = %q", m.DoctorPhone)
	}
}
