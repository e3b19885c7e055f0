// internal/domain/models/section.go
package models

// Section is one of the ten age cohorts members are classified into.
// Five belong to each group.
type Section string

const (
	SectionPoussinsG   Section = "POUSSINS_G"
	SectionBenjamins   Section = "BENJAMINS"
	SectionChevaliers  Section = "CHEVALIERS"
	SectionConquerants Section = "CONQUERANTS"
	SectionBrothers    Section = "BROTHERS"

	SectionPoussinsF  Section = "POUSSINS_F"
	SectionBenjamines Section = "BENJAMINES"
	SectionEtincelles Section = "ETINCELLES"
	SectionAlpines    Section = "ALPINES"
	SectionGrandes    Section = "GRANDES"
)

// AllSections lists every section, garçons first, youngest first.
var AllSections = []Section{
	SectionPoussinsG, SectionBenjamins, SectionChevaliers, SectionConquerants, SectionBrothers,
	SectionPoussinsF, SectionBenjamines, SectionEtincelles, SectionAlpines, SectionGrandes,
}
