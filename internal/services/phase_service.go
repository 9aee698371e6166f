package services

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "renovo/internal/errors"
	"renovo/internal/logger"
	"renovo/internal/models"
)

// phaseService handles phase-related business logic.
type phaseService struct {
	db  *gorm.DB
	now Clock
}

// NewPhaseService creates a new PhaseServicer.
func NewPhaseService(db *gorm.DB, now Clock) PhaseServicer {
	return &phaseService{db: db, now: now.orDefault()}
}

// CreatePhase adds a phase to a project.
func (s *phaseService) CreatePhase(projectID string, in PhaseInput) (*models.Phase, error) {
	if !in.Type.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Unknown phase type")
	}
	if !validDates(in.PlannedStartDate, in.PlannedEndDate) {
		return nil, apperrors.ErrInvalidDates
	}

	project, err := findProject(s.db, projectID)
	if err != nil {
		return nil, err
	}

	var sortOrder int
	if in.SortOrder != nil {
		sortOrder = *in.SortOrder
	} else {
		var last int
		err := s.db.Model(&models.Phase{}).
			Select("COALESCE(MAX(sort_order), -1)").
			Where("project_id = ?", project.ID).
			Scan(&last).Error
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		sortOrder = last + 1
	}

	name := in.Name
	if name == "" {
		name = in.Type.DisplayName()
	}
	phase := models.NewPhase(name, in.Type, sortOrder, in.PlannedStartDate, in.PlannedEndDate)
	phase.Notes = in.Notes
	phase = project.AddPhase(phase)

	if err := s.db.Create(phase).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return phase, nil
}

// GetProjectPhases returns a project's phases with their tasks, in display order.
func (s *phaseService) GetProjectPhases(projectID string) ([]models.Phase, error) {
	if _, err := findProject(s.db, projectID); err != nil {
		return nil, err
	}

	var phases []models.Phase
	err := s.db.Preload("Tasks", orderBySort).
		Where("project_id = ?", projectID).
		Scopes(orderBySort).
		Find(&phases).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return phases, nil
}

// GetPhaseByID returns a phase with its tasks.
func (s *phaseService) GetPhaseByID(phaseID string) (*models.Phase, error) {
	return loadPhase(s.db, phaseID)
}

// UpdatePhase updates an existing phase's fields. Completion state is only
// changed through the transition operations.
func (s *phaseService) UpdatePhase(phaseID string, in PhaseUpdate) (*models.Phase, error) {
	phase, err := loadPhase(s.db, phaseID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		phase.Name = *in.Name
	}
	if in.SortOrder != nil {
		phase.SortOrder = *in.SortOrder
	}
	if in.PlannedStartDate != nil {
		phase.PlannedStartDate = *in.PlannedStartDate
	}
	if in.PlannedEndDate != nil {
		phase.PlannedEndDate = *in.PlannedEndDate
	}
	if in.IsEnabled != nil {
		phase.IsEnabled = *in.IsEnabled
	}
	if in.Notes != nil {
		phase.Notes = *in.Notes
	}
	if !validDates(phase.PlannedStartDate, phase.PlannedEndDate) {
		return nil, apperrors.ErrInvalidDates
	}

	phase.UpdatedAt = s.now()
	if err := s.db.Omit(clause.Associations).Save(phase).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return phase, nil
}

// DeletePhase soft-deletes a phase and its tasks.
func (s *phaseService) DeletePhase(phaseID string) error {
	phase, err := loadPhase(s.db, phaseID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("phase_id = ?", phase.ID).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		return tx.Delete(phase).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Get().Infow("phase deleted", "phase_id", phase.ID, "tasks", len(phase.Tasks))
	return nil
}

// StartPhase records the phase's actual start. A phase that has already
// started is returned unchanged.
func (s *phaseService) StartPhase(phaseID string, at *time.Time) (*models.Phase, bool, error) {
	phase, err := loadPhase(s.db, phaseID)
	if err != nil {
		return nil, false, err
	}

	if !phase.Start(s.at(at)) {
		return phase, false, nil
	}
	if err := s.db.Omit(clause.Associations).Save(phase).Error; err != nil {
		return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return phase, true, nil
}

// CompletePhase completes the phase and every unfinished task in it. The
// cascade is stored in one transaction.
func (s *phaseService) CompletePhase(phaseID string, at *time.Time) (*models.Phase, bool, error) {
	phase, err := loadPhase(s.db, phaseID)
	if err != nil {
		return nil, false, err
	}

	if !phase.Complete(s.at(at)) {
		return phase, false, nil
	}
	if err := s.db.Transaction(func(tx *gorm.DB) error { return savePhaseGraph(tx, phase) }); err != nil {
		return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Get().Infow("phase completed", "phase_id", phase.ID, "tasks", len(phase.Tasks))
	return phase, true, nil
}

// SyncPhase reconciles the phase's state with its tasks.
func (s *phaseService) SyncPhase(phaseID string) (*models.Phase, bool, error) {
	phase, err := loadPhase(s.db, phaseID)
	if err != nil {
		return nil, false, err
	}

	if !phase.SyncStatusFromTasks(s.now()) {
		return phase, false, nil
	}
	if err := s.db.Transaction(func(tx *gorm.DB) error { return savePhaseGraph(tx, phase) }); err != nil {
		return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return phase, true, nil
}

func (s *phaseService) at(t *time.Time) time.Time {
	if t != nil {
		return *t
	}
	return s.now()
}
