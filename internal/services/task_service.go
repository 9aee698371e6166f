package services

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "renovo/internal/errors"
	"renovo/internal/logger"
	"renovo/internal/models"
)

// taskService handles task-related business logic. Every operation that
// changes a phase's task set or a task's status reconciles the owning phase
// afterwards and stores both in one transaction.
type taskService struct {
	db  *gorm.DB
	now Clock
}

// NewTaskService creates a new TaskServicer.
func NewTaskService(db *gorm.DB, now Clock) TaskServicer {
	return &taskService{db: db, now: now.orDefault()}
}

// CreateTask appends a pending task to a phase. Adding a task to a completed
// phase reopens it.
func (s *taskService) CreateTask(phaseID string, in TaskInput) (*models.Task, error) {
	if !validOptionalDates(in.PlannedStartDate, in.PlannedEndDate) {
		return nil, apperrors.ErrInvalidDates
	}

	phase, err := loadPhase(s.db, phaseID)
	if err != nil {
		return nil, err
	}

	task := models.NewTask(in.Title)
	task.Description = in.Description
	task.AssigneeName = in.AssigneeName
	task.AssigneeContact = in.AssigneeContact
	task.PlannedStartDate = in.PlannedStartDate
	task.PlannedEndDate = in.PlannedEndDate
	if in.Photos != nil {
		task.Photos = models.PhotoList(in.Photos)
	}
	task = phase.AddTask(task)

	phaseChanged := phase.SyncStatusFromTasks(s.now())
	if err := s.db.Transaction(func(tx *gorm.DB) error { return savePhaseGraph(tx, phase) }); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if phaseChanged {
		logger.Get().Infow("phase reconciled after task added", "phase_id", phase.ID, "task_id", task.ID)
	}
	return task, nil
}

// GetPhaseTasks returns a phase's tasks in display order.
func (s *taskService) GetPhaseTasks(phaseID string) ([]models.Task, error) {
	phase, err := loadPhase(s.db, phaseID)
	if err != nil {
		return nil, err
	}
	return phase.Tasks, nil
}

// GetTaskByID returns a task by ID.
func (s *taskService) GetTaskByID(taskID string) (*models.Task, error) {
	var task models.Task
	if err := s.db.Where("id = ?", taskID).First(&task).Error; err != nil {
		return nil, lookupError(err, apperrors.ErrTaskNotFound)
	}
	return &task, nil
}

// UpdateTask updates a task's descriptive fields.
func (s *taskService) UpdateTask(taskID string, in TaskUpdate) (*models.Task, error) {
	task, err := s.GetTaskByID(taskID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		task.Title = *in.Title
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.AssigneeName != nil {
		task.AssigneeName = *in.AssigneeName
	}
	if in.AssigneeContact != nil {
		task.AssigneeContact = *in.AssigneeContact
	}
	if in.ClearPlannedStartDate {
		task.PlannedStartDate = nil
	}
	if in.ClearPlannedEndDate {
		task.PlannedEndDate = nil
	}
	if in.PlannedStartDate != nil {
		task.PlannedStartDate = in.PlannedStartDate
	}
	if in.PlannedEndDate != nil {
		task.PlannedEndDate = in.PlannedEndDate
	}
	if in.Photos != nil {
		task.Photos = models.PhotoList(in.Photos)
	}
	if in.SortOrder != nil {
		task.SortOrder = *in.SortOrder
	}
	if !validOptionalDates(task.PlannedStartDate, task.PlannedEndDate) {
		return nil, apperrors.ErrInvalidDates
	}

	task.UpdatedAt = s.now()
	if err := s.db.Omit(clause.Associations).Save(task).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return task, nil
}

// DeleteTask soft-deletes a task and reconciles its phase. Removing the last
// unfinished task completes the phase.
func (s *taskService) DeleteTask(taskID string) error {
	task, err := s.GetTaskByID(taskID)
	if err != nil {
		return err
	}
	phase, err := loadPhase(s.db, task.PhaseID)
	if err != nil {
		return err
	}

	phase.RemoveTask(task.ID)
	phaseChanged := phase.SyncStatusFromTasks(s.now())

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(task).Error; err != nil {
			return err
		}
		if !phaseChanged {
			return nil
		}
		return savePhaseGraph(tx, phase)
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// TransitionTask applies action to the task, then reconciles the owning
// phase. at overrides the completion time for the complete action.
func (s *taskService) TransitionTask(taskID string, action models.TaskAction, at *time.Time) (*TaskTransition, error) {
	if !action.Valid() {
		return nil, apperrors.ErrInvalidTaskAction
	}

	stored, err := s.GetTaskByID(taskID)
	if err != nil {
		return nil, err
	}
	phase, err := loadPhase(s.db, stored.PhaseID)
	if err != nil {
		return nil, err
	}
	task := phase.Task(stored.ID)
	if task == nil {
		return nil, apperrors.ErrTaskNotFound
	}

	now := s.now()
	when := now
	if at != nil && action == models.TaskActionComplete {
		when = *at
	}

	changed := task.Apply(action, when)
	phaseChanged := phase.SyncStatusFromTasks(now)

	if changed || phaseChanged {
		if err := s.db.Transaction(func(tx *gorm.DB) error { return savePhaseGraph(tx, phase) }); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	logger.Get().Infow("task transition",
		"task_id", task.ID,
		"action", action,
		"status", task.Status,
		"changed", changed,
		"phase_id", phase.ID,
		"phase_changed", phaseChanged,
	)

	return &TaskTransition{
		Task:         task,
		Changed:      changed,
		Phase:        phase,
		PhaseChanged: phaseChanged,
	}, nil
}
