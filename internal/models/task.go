package models

import "time"

// TaskStatus is a task's lifecycle state.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusIssue      TaskStatus = "issue"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusIssue, TaskStatusCancelled:
		return true
	}
	return false
}

// IsFinal reports whether no further transition is expected in normal flow.
// Nothing prevents leaving a final state through MarkAsIssue, Cancel or Reset.
func (s TaskStatus) IsFinal() bool {
	return s == TaskStatusCompleted || s == TaskStatusCancelled
}

// Task is a single checklist item owned by a phase.
type Task struct {
	Base
	PhaseID              string     `gorm:"type:uuid;not null;index" json:"phase_id"`
	Title                string     `gorm:"not null" json:"title"`
	Description          string     `json:"description"`
	Status               TaskStatus `gorm:"not null;default:pending" json:"status"`
	AssigneeName         string     `json:"assignee_name"`
	AssigneeContact      string     `json:"assignee_contact"`
	PlannedStartDate     *time.Time `json:"planned_start_date,omitempty"`
	PlannedEndDate       *time.Time `json:"planned_end_date,omitempty"`
	ActualCompletionDate *time.Time `json:"actual_completion_date,omitempty"`
	Photos               PhotoList  `gorm:"type:text" json:"photos"`
	SortOrder            int        `gorm:"not null;default:0" json:"sort_order"`
}

// NewTask returns a pending task. It is not attached to a phase until
// Phase.AddTask is called.
func NewTask(title string) *Task {
	return &Task{
		Title:  title,
		Status: TaskStatusPending,
		Photos: PhotoList{},
	}
}

// Start moves a pending task to in progress. Any other state is left alone
// and false is returned.
func (t *Task) Start(now time.Time) bool {
	if t.Status != TaskStatusPending {
		return false
	}
	t.Status = TaskStatusInProgress
	t.touch(now)
	return true
}

// Complete marks the task completed at 'at' from any state. Completing an
// already completed task overwrites the completion date.
func (t *Task) Complete(at time.Time) {
	t.Status = TaskStatusCompleted
	completed := at
	t.ActualCompletionDate = &completed
	t.touch(at)
}

// MarkAsIssue flags a problem. Allowed from every state, including completed.
func (t *Task) MarkAsIssue(now time.Time) {
	t.Status = TaskStatusIssue
	t.touch(now)
}

// Cancel is allowed from every state.
func (t *Task) Cancel(now time.Time) {
	t.Status = TaskStatusCancelled
	t.touch(now)
}

// Reset returns the task to pending and forgets its completion date.
func (t *Task) Reset(now time.Time) {
	t.Status = TaskStatusPending
	t.ActualCompletionDate = nil
	t.touch(now)
}

// IsOverdue reports whether an unfinished task is past its planned end.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.Status == TaskStatusCompleted || t.PlannedEndDate == nil {
		return false
	}
	return t.PlannedEndDate.Before(now)
}

// TaskAction names a state transition that callers can request.
type TaskAction string

const (
	TaskActionStart    TaskAction = "start"
	TaskActionComplete TaskAction = "complete"
	TaskActionIssue    TaskAction = "issue"
	TaskActionCancel   TaskAction = "cancel"
	TaskActionReset    TaskAction = "reset"
)

// Valid reports whether a is a known action.
func (a TaskAction) Valid() bool {
	switch a {
	case TaskActionStart, TaskActionComplete, TaskActionIssue, TaskActionCancel, TaskActionReset:
		return true
	}
	return false
}

// Apply runs the transition named by a and reports whether the task's status
// or completion date changed. Unknown actions change nothing.
func (t *Task) Apply(a TaskAction, now time.Time) bool {
	before, beforeDate := t.Status, t.ActualCompletionDate
	switch a {
	case TaskActionStart:
		return t.Start(now)
	case TaskActionComplete:
		t.Complete(now)
	case TaskActionIssue:
		t.MarkAsIssue(now)
	case TaskActionCancel:
		t.Cancel(now)
	case TaskActionReset:
		t.Reset(now)
	default:
		return false
	}
	return t.Status != before || !sameInstant(beforeDate, t.ActualCompletionDate)
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
