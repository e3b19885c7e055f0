// internal/domain/models/medical.go
package models

// Photo consent levels.
const (
	PhotoConsentFull       = "full"
	PhotoConsentBackground = "background"
	PhotoConsentNone       = "none"
)

// Swim abilities.
const (
	SwimYes     = "yes"
	SwimNo      = "no"
	SwimALittle = "alittle"
)

// MedicalInfo is the medical form filled in with every registration.
// Camp registrations may carry an updated copy.
type MedicalInfo struct {
	PhotoConsent string `bson:"photo_consent" json:"photo_consent"`
	PhotoUsage   bool   `bson:"photo_usage" json:"photo_usage"`
	PhotoArchive bool   `bson:"photo_archive" json:"photo_archive"`

	DoctorName  string `bson:"doctor_name" json:"doctor_name"`
	DoctorPhone string `bson:"doctor_phone" json:"doctor_phone"`

	CanParticipate bool   `bson:"can_participate" json:"can_participate"`
	Restrictions   string `bson:"restrictions,omitempty" json:"restrictions,omitempty"`
	CanSwim        string `bson:"can_swim" json:"can_swim"`

	ImportantMedicalInfo string `bson:"important_medical_info,omitempty" json:"important_medical_info,omitempty"`
	MedicalHistory       string `bson:"medical_history,omitempty" json:"medical_history,omitempty"`
	TetanusVaccine       bool   `bson:"tetanus_vaccine" json:"tetanus_vaccine"`

	Allergies   Allergies   `bson:"allergies" json:"allergies"`
	Diet        Diet        `bson:"diet" json:"diet"`
	Medications Medications `bson:"medications" json:"medications"`

	OtherInfo string `bson:"other_info,omitempty" json:"other_info,omitempty"`
	Weight    string `bson:"weight,omitempty" json:"weight,omitempty"`

	EmergencyMedicalConsent bool   `bson:"emergency_medical_consent" json:"emergency_medical_consent"`
	SecondaryEmail          string `bson:"secondary_email,omitempty" json:"secondary_email,omitempty"`
}

type Allergies struct {
	Has          bool   `bson:"has" json:"has"`
	List         string `bson:"list,omitempty" json:"list,omitempty"`
	Consequences string `bson:"consequences,omitempty" json:"consequences,omitempty"`
}

type Diet struct {
	Has     bool   `bson:"has" json:"has"`
	Details string `bson:"details,omitempty" json:"details,omitempty"`
}

type Medications struct {
	Takes      bool   `bson:"takes" json:"takes"`
	Details    string `bson:"details,omitempty" json:"details,omitempty"`
	Autonomous bool   `bson:"autonomous" json:"autonomous"`
}
