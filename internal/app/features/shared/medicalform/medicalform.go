// internal/app/features/shared/medicalform/medicalform.go
package medicalform

import (
	"strings"

	"github.com/dalemusser/patrohub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/patrohub/internal/app/system/normalize"
	"github.com/dalemusser/patrohub/internal/app/system/phone"
	"github.com/dalemusser/patrohub/internal/domain/models"
)

// Form is the medical sheet as posted by families. It is embedded flat in
// the inscription payload and nested in camp sign-ups.
type Form struct {
	PhotoConsent string `json:"photoConsent" validate:"required,oneof=full background none" label:"Droit à l'image"`
	PhotoUsage   bool   `json:"photoUsage"`
	PhotoArchive bool   `json:"photoArchive"`

	DoctorName  string `json:"doctorName" validate:"required,min=2,max=100" label:"Nom du médecin"`
	DoctorPhone string `json:"doctorPhone" validate:"required,phonebe" label:"Téléphone du médecin"`

	CanParticipate            bool   `json:"canParticipate"`
	ParticipationRestrictions string `json:"participationRestrictions" validate:"max=2000" label:"Restrictions"`
	CanSwim                   string `json:"canSwim" validate:"required,oneof=yes no alittle" label:"Natation"`

	ImportantMedicalInfo string `json:"importantMedicalInfo" validate:"max=2000" label:"Informations médicales importantes"`
	MedicalHistory       string `json:"medicalHistory" validate:"max=2000" label:"Antécédents médicaux"`
	TetanusVaccine       bool   `json:"tetanusVaccine"`

	HasAllergies        bool   `json:"hasAllergies"`
	AllergyList         string `json:"allergyList" validate:"required_if=HasAllergies true,max=1000" label:"Liste des allergies"`
	AllergyConsequences string `json:"allergyConsequences" validate:"max=1000" label:"Conséquences des allergies"`

	HasDiet     bool   `json:"hasDiet"`
	DietDetails string `json:"dietDetails" validate:"required_if=HasDiet true,max=1000" label:"Régime alimentaire"`

	TakesMedication      bool   `json:"takesMedication"`
	MedicationDetails    string `json:"medicationDetails" validate:"required_if=TakesMedication true,max=1000" label:"Médicaments"`
	MedicationAutonomous bool   `json:"medicationAutonomous"`

	OtherInfo string `json:"otherInfo" validate:"max=2000" label:"Autres informations"`
	Weight    string `json:"weight" validate:"required,max=20" label:"Poids"`

	EmergencyMedicalConsent bool   `json:"emergencyMedicalConsent" validate:"eq=true" label:"L'autorisation médicale d'urgence"`
	SecondaryEmail          string `json:"secondaryEmail" validate:"omitempty,email" label:"E-mail secondaire"`
}

// Trim removes surrounding blanks so length rules see the real text.
func (f *Form) Trim() {
	for _, p := range []*string{
		&f.PhotoConsent, &f.DoctorName, &f.DoctorPhone, &f.ParticipationRestrictions,
		&f.CanSwim, &f.ImportantMedicalInfo, &f.MedicalHistory, &f.AllergyList,
		&f.AllergyConsequences, &f.DietDetails, &f.MedicationDetails, &f.OtherInfo,
		&f.Weight, &f.SecondaryEmail,
	} {
		*p = strings.TrimSpace(*p)
	}
}

// Model converts a validated form. Free text is stripped of markup and the
// details of unchecked sections are dropped.
func (f Form) Model() models.MedicalInfo {
	m := models.MedicalInfo{
		PhotoConsent:            f.PhotoConsent,
		PhotoUsage:              f.PhotoUsage,
		PhotoArchive:            f.PhotoArchive,
		DoctorName:              normalize.Name(htmlsanitize.PlainText(f.DoctorName)),
		DoctorPhone:             phone.Normalize(f.DoctorPhone),
		CanParticipate:          f.CanParticipate,
		CanSwim:                 f.CanSwim,
		ImportantMedicalInfo:    htmlsanitize.PlainText(f.ImportantMedicalInfo),
		MedicalHistory:          htmlsanitize.PlainText(f.MedicalHistory),
		TetanusVaccine:          f.TetanusVaccine,
		OtherInfo:               htmlsanitize.PlainText(f.OtherInfo),
		Weight:                  htmlsanitize.PlainText(f.Weight),
		EmergencyMedicalConsent: f.EmergencyMedicalConsent,
		SecondaryEmail:          normalize.Email(f.SecondaryEmail),
	}
	if !f.CanParticipate {
		m.Restrictions = htmlsanitize.PlainText(f.ParticipationRestrictions)
	}
	if f.HasAllergies {
		m.Allergies = models.Allergies{
			Has:          true,
			List:         htmlsanitize.PlainText(f.AllergyList),
			Consequences: htmlsanitize.PlainText(f.AllergyConsequences),
		}
	}
	if f.HasDiet {
		m.Diet = models.Diet{Has: true, Details: htmlsanitize.PlainText(f.DietDetails)}
	}
	if f.TakesMedication {
		m.Medications = models.Medications{
			Takes:      true,
			Details:    htmlsanitize.PlainText(f.MedicationDetails),
			Autonomous: f.MedicationAutonomous,
		}
	}
	return m
}
