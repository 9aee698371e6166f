package services

import (
	"sort"

	"gorm.io/gorm"

	apperrors "renovo/internal/errors"
	"renovo/internal/logger"
	"renovo/internal/models"
	"renovo/internal/pagination"
)

// projectService handles project-related business logic.
type projectService struct {
	db               *gorm.DB
	now              Clock
	defaultThreshold float64
}

// NewProjectService creates a new ProjectServicer. defaultThreshold is used
// for budgets created without an explicit warning threshold.
func NewProjectService(db *gorm.DB, now Clock, defaultThreshold float64) ProjectServicer {
	return &projectService{db: db, now: now.orDefault(), defaultThreshold: defaultThreshold}
}

// CreateProject creates a project, optionally with the default phase plan and
// a budget, in one transaction.
func (s *projectService) CreateProject(in ProjectInput) (*models.Project, error) {
	if !in.HouseType.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Unknown house type")
	}
	if in.EstimatedDurationDays < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Estimated duration must not be negative")
	}
	if in.BudgetTotal != nil && in.BudgetTotal.IsNegative() {
		return nil, apperrors.ErrInvalidAmount
	}

	project := &models.Project{
		Name:                  in.Name,
		HouseType:             in.HouseType,
		FloorArea:             in.FloorArea,
		StartDate:             in.StartDate,
		EstimatedDurationDays: in.EstimatedDurationDays,
		Notes:                 in.Notes,
		IsActive:              true,
	}

	if in.GeneratePhases {
		for _, phase := range models.DefaultPhasePlan(in.StartDate) {
			project.AddPhase(phase)
		}
	}

	if in.BudgetTotal != nil {
		threshold := s.defaultThreshold
		if in.WarningThreshold != nil {
			threshold = *in.WarningThreshold
		}
		project.SetBudget(models.NewBudget(*in.BudgetTotal, threshold))
	}

	if err := s.db.Create(project).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Get().Infow("project created",
		"project_id", project.ID,
		"phases", len(project.Phases),
		"with_budget", project.Budget != nil,
	)
	return project, nil
}

// GetProjects returns a paginated list of projects, newest first.
func (s *projectService) GetProjects(page pagination.PageRequest, isActive *bool) (*pagination.PageResponse[models.Project], error) {
	page.Defaults()

	base := s.db.Model(&models.Project{})
	if isActive != nil {
		base = base.Where("is_active = ?", *isActive)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var projects []models.Project
	if err := base.Order("created_at DESC").Scopes(pagination.Paginate(page)).Find(&projects).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(projects, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetProjectByID returns a project with its whole graph.
func (s *projectService) GetProjectByID(projectID string) (*models.Project, error) {
	return loadProject(s.db, projectID)
}

// UpdateProject updates an existing project's fields.
func (s *projectService) UpdateProject(projectID string, in ProjectUpdate) (*models.Project, error) {
	project, err := findProject(s.db, projectID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.HouseType != nil {
		if !in.HouseType.Valid() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Unknown house type")
		}
		updates["house_type"] = *in.HouseType
	}
	if in.FloorArea != nil {
		updates["floor_area"] = *in.FloorArea
	}
	if in.StartDate != nil {
		updates["start_date"] = *in.StartDate
	}
	if in.EstimatedDurationDays != nil {
		if *in.EstimatedDurationDays < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Estimated duration must not be negative")
		}
		updates["estimated_duration_days"] = *in.EstimatedDurationDays
	}
	if in.Notes != nil {
		updates["notes"] = *in.Notes
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(project).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return loadProject(s.db, projectID)
}

// DeleteProject soft-deletes a project together with everything it owns.
func (s *projectService) DeleteProject(projectID string) error {
	project, err := findProject(s.db, projectID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		phaseIDs := tx.Model(&models.Phase{}).Select("id").Where("project_id = ?", project.ID)
		if err := tx.Where("phase_id IN (?)", phaseIDs).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Phase{}).Error; err != nil {
			return err
		}
		budgetIDs := tx.Model(&models.Budget{}).Select("id").Where("project_id = ?", project.ID)
		if err := tx.Where("budget_id IN (?)", budgetIDs).Delete(&models.Expense{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Budget{}).Error; err != nil {
			return err
		}
		return tx.Delete(project).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Get().Infow("project deleted", "project_id", project.ID)
	return nil
}

// GetProjectSummary computes the project rollup as of now.
func (s *projectService) GetProjectSummary(projectID string) (*ProjectSummary, error) {
	project, err := loadProject(s.db, projectID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	completedTasks, totalTasks := project.TaskCounts()

	summary := &ProjectSummary{
		ProjectID:           project.ID,
		Name:                project.Name,
		OverallProgress:     project.OverallProgress(),
		ActualDaysUsed:      project.ActualDaysUsed(now),
		RemainingDays:       project.RemainingDays(now),
		EstimatedEndDate:    project.EstimatedEndDate(),
		IsDelayed:           project.IsDelayed(now),
		EnabledPhaseCount:   project.EnabledPhaseCount(),
		CompletedPhaseCount: project.CompletedPhaseCount(),
		DelayedPhaseCount:   project.DelayedPhaseCount(now),
		CompletedTaskCount:  completedTasks,
		TotalTaskCount:      totalTasks,
		Phases:              make([]PhaseSummary, 0, len(project.Phases)),
	}

	for _, phase := range project.SortedPhases() {
		summary.Phases = append(summary.Phases, PhaseSummary{
			ID:             phase.ID,
			Name:           phase.Name,
			Type:           phase.Type,
			Status:         phase.Status(now),
			IsEnabled:      phase.IsEnabled,
			Progress:       phase.Progress(),
			CompletedTasks: phase.CompletedTaskCount(),
			TotalTasks:     phase.TotalTaskCount(),
			DelayedDays:    phase.DelayedDays(now),
		})
		if phase.IsEnabled {
			summary.OverdueTaskCount += len(phase.OverdueTasks(now))
		}
	}

	if project.Budget != nil {
		summary.Budget = summarizeBudget(project.Budget, now)
	}

	return summary, nil
}

// GenerateDefaultPhases adds the default phase plan to a project, laid out
// from its start date. Phase types the project already has are skipped, so
// calling it twice adds nothing the second time.
func (s *projectService) GenerateDefaultPhases(projectID string) ([]models.Phase, error) {
	project, err := loadProject(s.db, projectID)
	if err != nil {
		return nil, err
	}

	existing := make(map[models.PhaseType]bool, len(project.Phases))
	next := 0
	for i := range project.Phases {
		existing[project.Phases[i].Type] = true
		if so := project.Phases[i].SortOrder; so >= next {
			next = so + 1
		}
	}

	// Appended after any phases already on the project, in plan order.
	var created []models.Phase
	for _, phase := range models.DefaultPhasePlan(project.StartDate) {
		if existing[phase.Type] {
			continue
		}
		if len(project.Phases) > 0 {
			phase.SortOrder = next
			next++
		}
		project.AddPhase(phase)
		created = append(created, *phase)
	}

	if len(created) == 0 {
		return []models.Phase{}, nil
	}

	if err := s.db.Create(&created).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Get().Infow("default phases generated", "project_id", project.ID, "count", len(created))
	return created, nil
}

// GetOverdueTasks lists the unfinished tasks of enabled phases that are past
// their planned end, earliest deadline first.
func (s *projectService) GetOverdueTasks(projectID string) ([]models.Task, error) {
	project, err := loadProject(s.db, projectID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	overdue := []models.Task{}
	for i := range project.Phases {
		if project.Phases[i].IsEnabled {
			overdue = append(overdue, project.Phases[i].OverdueTasks(now)...)
		}
	}

	sort.SliceStable(overdue, func(i, j int) bool {
		return overdue[i].PlannedEndDate.Before(*overdue[j].PlannedEndDate)
	})
	return overdue, nil
}
