package models

import (
	"sort"
	"time"
)

// HouseType describes the kind of dwelling being renovated.
type HouseType string

const (
	HouseTypeApartment HouseType = "apartment"
	HouseTypeHouse     HouseType = "house"
	HouseTypeVilla     HouseType = "villa"
	HouseTypeTownhouse HouseType = "townhouse"
	HouseTypeOther     HouseType = "other"
)

// Valid reports whether h is a known house type.
func (h HouseType) Valid() bool {
	switch h {
	case HouseTypeApartment, HouseTypeHouse, HouseTypeVilla, HouseTypeTownhouse, HouseTypeOther:
		return true
	}
	return false
}

// Project is the root of the renovation graph. It owns an optional budget and
// an ordered set of phases.
type Project struct {
	Base
	Name                  string    `gorm:"not null" json:"name"`
	HouseType             HouseType `gorm:"not null" json:"house_type"`
	FloorArea             float64   `json:"floor_area"`
	StartDate             time.Time `gorm:"not null" json:"start_date"`
	EstimatedDurationDays int       `gorm:"not null" json:"estimated_duration_days"`
	Notes                 string    `json:"notes"`
	IsActive              bool      `gorm:"not null" json:"is_active"`

	// Relationships
	Budget *Budget `gorm:"foreignKey:ProjectID" json:"budget,omitempty"`
	Phases []Phase `gorm:"foreignKey:ProjectID" json:"phases,omitempty"`
}

// AddPhase appends ph and points its back-reference at p in one step.
func (p *Project) AddPhase(ph *Phase) *Phase {
	p.ensureID()
	ph.ProjectID = p.ID
	p.Phases = append(p.Phases, *ph)
	return &p.Phases[len(p.Phases)-1]
}

// SetBudget attaches b as the project's budget.
func (p *Project) SetBudget(b *Budget) {
	p.ensureID()
	b.ProjectID = p.ID
	p.Budget = b
}

// SortedPhases returns the phases ordered by their stored sort order, then
// planned start.
func (p *Project) SortedPhases() []Phase {
	out := make([]Phase, len(p.Phases))
	copy(out, p.Phases)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].PlannedStartDate.Before(out[j].PlannedStartDate)
	})
	return out
}

// EnabledPhaseCount counts phases that take part in progress math.
func (p *Project) EnabledPhaseCount() int {
	n := 0
	for i := range p.Phases {
		if p.Phases[i].IsEnabled {
			n++
		}
	}
	return n
}

// CompletedPhaseCount counts enabled, completed phases.
func (p *Project) CompletedPhaseCount() int {
	n := 0
	for i := range p.Phases {
		if p.Phases[i].IsEnabled && p.Phases[i].IsCompleted {
			n++
		}
	}
	return n
}

// OverallProgress is completed enabled phases over enabled phases. Disabled
// phases are ignored entirely. Zero when nothing is enabled.
func (p *Project) OverallProgress() float64 {
	enabled := p.EnabledPhaseCount()
	if enabled == 0 {
		return 0
	}
	return float64(p.CompletedPhaseCount()) / float64(enabled)
}

// ActualDaysUsed is the number of calendar days since the start date, never negative.
func (p *Project) ActualDaysUsed(now time.Time) int {
	days := daysBetween(p.StartDate, now)
	if days < 0 {
		return 0
	}
	return days
}

// IsDelayed reports a project that is over its estimated duration and still
// not finished. A project finished late is not delayed.
func (p *Project) IsDelayed(now time.Time) bool {
	return p.ActualDaysUsed(now) > p.EstimatedDurationDays && p.OverallProgress() < 1
}

// RemainingDays is the estimated duration minus days used, never negative.
func (p *Project) RemainingDays(now time.Time) int {
	remaining := p.EstimatedDurationDays - p.ActualDaysUsed(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// EstimatedEndDate is the start date plus the estimated duration.
func (p *Project) EstimatedEndDate() time.Time {
	return p.StartDate.AddDate(0, 0, p.EstimatedDurationDays)
}

// DelayedPhaseCount counts enabled phases that are behind plan. A completed
// phase counts only when it finished after its planned end.
func (p *Project) DelayedPhaseCount(now time.Time) int {
	n := 0
	for i := range p.Phases {
		ph := &p.Phases[i]
		if !ph.IsEnabled {
			continue
		}
		if ph.IsCompleted {
			if ph.ActualEndDate != nil && ph.ActualEndDate.After(ph.PlannedEndDate) {
				n++
			}
			continue
		}
		if ph.IsDelayed(now) {
			n++
		}
	}
	return n
}

// TaskCounts sums the task counts of enabled phases.
func (p *Project) TaskCounts() (completed, total int) {
	for i := range p.Phases {
		completed += p.Phases[i].CompletedTaskCount()
		total += p.Phases[i].TotalTaskCount()
	}
	return completed, total
}
