package models

import (
	"sort"
	"time"
)

// PhaseStatus is the display state derived from a phase's dates and flags.
type PhaseStatus string

const (
	PhaseStatusDisabled   PhaseStatus = "disabled"
	PhaseStatusNotStarted PhaseStatus = "not_started"
	PhaseStatusInProgress PhaseStatus = "in_progress"
	PhaseStatusDelayed    PhaseStatus = "delayed"
	PhaseStatusCompleted  PhaseStatus = "completed"
)

// Phase is a scheduled stage of a project. It owns its tasks.
type Phase struct {
	Base
	ProjectID        string     `gorm:"type:uuid;not null;index" json:"project_id"`
	Name             string     `gorm:"not null" json:"name"`
	Type             PhaseType  `gorm:"not null" json:"type"`
	SortOrder        int        `gorm:"not null" json:"sort_order"`
	PlannedStartDate time.Time  `gorm:"not null" json:"planned_start_date"`
	PlannedEndDate   time.Time  `gorm:"not null" json:"planned_end_date"`
	ActualStartDate  *time.Time `json:"actual_start_date,omitempty"`
	ActualEndDate    *time.Time `json:"actual_end_date,omitempty"`
	IsCompleted      bool       `gorm:"not null" json:"is_completed"`
	IsEnabled        bool       `gorm:"not null" json:"is_enabled"`
	Notes            string     `json:"notes"`

	// Relationships
	Tasks []Task `gorm:"foreignKey:PhaseID" json:"tasks"`
}

// NewPhase returns an enabled, not started phase.
func NewPhase(name string, phaseType PhaseType, sortOrder int, plannedStart, plannedEnd time.Time) *Phase {
	return &Phase{
		Name:             name,
		Type:             phaseType,
		SortOrder:        sortOrder,
		PlannedStartDate: plannedStart,
		PlannedEndDate:   plannedEnd,
		IsEnabled:        true,
		Tasks:            []Task{},
	}
}

// AddTask appends t and points its back-reference at p in one step. The task
// goes to the end of the phase's order.
func (p *Phase) AddTask(t *Task) *Task {
	p.ensureID()
	t.PhaseID = p.ID
	t.SortOrder = 0
	if n := len(p.Tasks); n > 0 {
		t.SortOrder = p.Tasks[n-1].SortOrder + 1
	}
	p.Tasks = append(p.Tasks, *t)
	return &p.Tasks[len(p.Tasks)-1]
}

// RemoveTask detaches the task with the given id. It reports whether one was found.
func (p *Phase) RemoveTask(id string) bool {
	for i := range p.Tasks {
		if p.Tasks[i].ID == id {
			p.Tasks = append(p.Tasks[:i], p.Tasks[i+1:]...)
			return true
		}
	}
	return false
}

// Task returns the owned task with the given id.
func (p *Phase) Task(id string) *Task {
	for i := range p.Tasks {
		if p.Tasks[i].ID == id {
			return &p.Tasks[i]
		}
	}
	return nil
}

// SortTasks orders tasks by sort order, then creation time.
func (p *Phase) SortTasks() {
	sort.SliceStable(p.Tasks, func(i, j int) bool {
		if p.Tasks[i].SortOrder != p.Tasks[j].SortOrder {
			return p.Tasks[i].SortOrder < p.Tasks[j].SortOrder
		}
		return p.Tasks[i].CreatedAt.Before(p.Tasks[j].CreatedAt)
	})
}

// TotalTaskCount is zero for a disabled phase.
func (p *Phase) TotalTaskCount() int {
	if !p.IsEnabled {
		return 0
	}
	return len(p.Tasks)
}

// CompletedTaskCount is zero for a disabled phase.
func (p *Phase) CompletedTaskCount() int {
	if !p.IsEnabled {
		return 0
	}
	n := 0
	for i := range p.Tasks {
		if p.Tasks[i].Status == TaskStatusCompleted {
			n++
		}
	}
	return n
}

// Progress returns the completed fraction of tasks in [0,1]. A phase without
// tasks is 1 when completed and 0 otherwise.
func (p *Phase) Progress() float64 {
	if !p.IsEnabled {
		return 0
	}
	total := p.TotalTaskCount()
	if total == 0 {
		if p.IsCompleted {
			return 1
		}
		return 0
	}
	return float64(p.CompletedTaskCount()) / float64(total)
}

// IsStarted reports whether the phase has an actual start date.
func (p *Phase) IsStarted() bool {
	return p.ActualStartDate != nil
}

// Start records the actual start. It only ever happens once.
func (p *Phase) Start(at time.Time) bool {
	if p.ActualStartDate != nil {
		return false
	}
	started := at
	p.ActualStartDate = &started
	p.touch(at)
	return true
}

// Complete closes the phase and force-completes every task that is not
// already completed, using the same date. It does nothing on a completed phase.
func (p *Phase) Complete(at time.Time) bool {
	if p.IsCompleted {
		return false
	}
	ended := at
	p.ActualEndDate = &ended
	p.IsCompleted = true
	for i := range p.Tasks {
		if p.Tasks[i].Status != TaskStatusCompleted {
			p.Tasks[i].Complete(at)
		}
	}
	p.touch(at)
	return true
}

// reopen clears completion without touching tasks.
func (p *Phase) reopen(now time.Time) {
	p.IsCompleted = false
	p.ActualEndDate = nil
	p.touch(now)
}

// SyncStatusFromTasks reconciles the phase with its tasks:
//  1. at least one task and all completed: Complete(now), stop
//  2. otherwise a completed phase with an unfinished task is reopened
//  3. any task in progress or completed: Start(now)
//
// It reports whether the phase changed.
func (p *Phase) SyncStatusFromTasks(now time.Time) bool {
	if len(p.Tasks) > 0 && p.allTasksCompleted() {
		return p.Complete(now)
	}

	changed := false
	if p.IsCompleted && !p.allTasksCompleted() {
		p.reopen(now)
		changed = true
	}

	for i := range p.Tasks {
		s := p.Tasks[i].Status
		if s == TaskStatusInProgress || s == TaskStatusCompleted {
			if p.Start(now) {
				changed = true
			}
			break
		}
	}
	return changed
}

func (p *Phase) allTasksCompleted() bool {
	for i := range p.Tasks {
		if p.Tasks[i].Status != TaskStatusCompleted {
			return false
		}
	}
	return true
}

// IsDelayed reports whether the phase is behind its plan as of now:
// not started past the planned start, finished after the planned end, or
// still open past the planned end.
func (p *Phase) IsDelayed(now time.Time) bool {
	if p.ActualStartDate == nil {
		return now.After(p.PlannedStartDate)
	}
	if p.IsCompleted && p.ActualEndDate != nil {
		return p.ActualEndDate.After(p.PlannedEndDate)
	}
	return now.After(p.PlannedEndDate)
}

// DelayedDays is the number of calendar days between the planned end and
// the actual end (or now while open). Zero when not delayed.
func (p *Phase) DelayedDays(now time.Time) int {
	if !p.IsDelayed(now) {
		return 0
	}
	ref := now
	if p.IsCompleted && p.ActualEndDate != nil {
		ref = *p.ActualEndDate
	}
	days := daysBetween(p.PlannedEndDate, ref)
	if days < 0 {
		return 0
	}
	return days
}

// PlannedDurationDays is the planned length in calendar days.
func (p *Phase) PlannedDurationDays() int {
	days := daysBetween(p.PlannedStartDate, p.PlannedEndDate)
	if days < 0 {
		return 0
	}
	return days
}

// Status derives the display state.
func (p *Phase) Status(now time.Time) PhaseStatus {
	switch {
	case !p.IsEnabled:
		return PhaseStatusDisabled
	case p.IsCompleted:
		return PhaseStatusCompleted
	case p.IsDelayed(now):
		return PhaseStatusDelayed
	case p.IsStarted():
		return PhaseStatusInProgress
	default:
		return PhaseStatusNotStarted
	}
}

// OverdueTasks returns the unfinished tasks past their planned end.
func (p *Phase) OverdueTasks(now time.Time) []Task {
	var out []Task
	for i := range p.Tasks {
		if p.Tasks[i].IsOverdue(now) {
			out = append(out, p.Tasks[i])
		}
	}
	return out
}
