package models

import "time"

// PhaseType identifies a renovation phase template.
type PhaseType string

const (
	PhaseTypeDesign             PhaseType = "design"
	PhaseTypeDemolition         PhaseType = "demolition"
	PhaseTypePlumbingElectrical PhaseType = "plumbing_electrical"
	PhaseTypeWaterproofing      PhaseType = "waterproofing"
	PhaseTypeMasonry            PhaseType = "masonry"
	PhaseTypeCarpentry          PhaseType = "carpentry"
	PhaseTypePainting           PhaseType = "painting"
	PhaseTypeInstallation       PhaseType = "installation"
	PhaseTypeFurnishing         PhaseType = "furnishing"
	PhaseTypeCleaning           PhaseType = "cleaning"
	PhaseTypeCustom             PhaseType = "custom"
)

type phaseTemplate struct {
	displayName  string
	durationDays int
	sortOrder    int
}

// phaseTemplates only seed new phases. Once a phase exists its own sort
// order and dates win.
var phaseTemplates = map[PhaseType]phaseTemplate{
	PhaseTypeDesign:             {"Design", 14, 1},
	PhaseTypeDemolition:         {"Demolition", 7, 2},
	PhaseTypePlumbingElectrical: {"Plumbing & Electrical", 15, 3},
	PhaseTypeWaterproofing:      {"Waterproofing", 5, 4},
	PhaseTypeMasonry:            {"Masonry & Tiling", 20, 5},
	PhaseTypeCarpentry:          {"Carpentry", 15, 6},
	PhaseTypePainting:           {"Painting", 12, 7},
	PhaseTypeInstallation:       {"Installation", 10, 8},
	PhaseTypeFurnishing:         {"Furnishing", 7, 9},
	PhaseTypeCleaning:           {"Cleaning", 3, 10},
	PhaseTypeCustom:             {"Custom", 7, 99},
}

// AllPhaseTypes returns every phase type ordered by default sort order.
func AllPhaseTypes() []PhaseType {
	return []PhaseType{
		PhaseTypeDesign,
		PhaseTypeDemolition,
		PhaseTypePlumbingElectrical,
		PhaseTypeWaterproofing,
		PhaseTypeMasonry,
		PhaseTypeCarpentry,
		PhaseTypePainting,
		PhaseTypeInstallation,
		PhaseTypeFurnishing,
		PhaseTypeCleaning,
		PhaseTypeCustom,
	}
}

// Valid reports whether t is a known phase type.
func (t PhaseType) Valid() bool {
	_, ok := phaseTemplates[t]
	return ok
}

func (t PhaseType) template() phaseTemplate {
	if tpl, ok := phaseTemplates[t]; ok {
		return tpl
	}
	return phaseTemplates[PhaseTypeCustom]
}

// DisplayName returns the default phase name.
func (t PhaseType) DisplayName() string { return t.template().displayName }

// DefaultDurationDays returns the planned length used for generated phases.
func (t PhaseType) DefaultDurationDays() int { return t.template().durationDays }

// DefaultSortOrder returns the position used for generated phases.
func (t PhaseType) DefaultSortOrder() int { return t.template().sortOrder }

// DefaultPhasePlan lays out one enabled phase per built-in type, back to back
// from start, using each type's default duration. Custom is skipped.
func DefaultPhasePlan(start time.Time) []*Phase {
	var phases []*Phase
	cursor := startOfDay(start)
	for _, t := range AllPhaseTypes() {
		if t == PhaseTypeCustom {
			continue
		}
		end := cursor.AddDate(0, 0, t.DefaultDurationDays())
		phases = append(phases, NewPhase(t.DisplayName(), t, t.DefaultSortOrder(), cursor, end))
		cursor = end
	}
	return phases
}
