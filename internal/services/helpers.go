package services

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "renovo/internal/errors"
	"renovo/internal/models"
)

// Clock returns the current time. Services read "now" only through it.
type Clock func() time.Time

func (c Clock) orDefault() Clock {
	if c == nil {
		return time.Now
	}
	return c
}

// lookupError maps a record-not-found error to notFound and anything else to
// an internal error.
func lookupError(err error, notFound *apperrors.AppError) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}

func orderBySort(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC, created_at ASC")
}

func orderByDate(db *gorm.DB) *gorm.DB {
	return db.Order("date ASC, created_at ASC")
}

// findProject loads a project row without its graph.
func findProject(db *gorm.DB, projectID string) (*models.Project, error) {
	var project models.Project
	if err := db.Where("id = ?", projectID).First(&project).Error; err != nil {
		return nil, lookupError(err, apperrors.ErrProjectNotFound)
	}
	return &project, nil
}

// loadProject loads a project with its budget, expenses, phases and tasks.
func loadProject(db *gorm.DB, projectID string) (*models.Project, error) {
	var project models.Project
	err := db.
		Preload("Budget").
		Preload("Budget.Expenses", orderByDate).
		Preload("Phases", orderBySort).
		Preload("Phases.Tasks", orderBySort).
		Where("id = ?", projectID).
		First(&project).Error
	if err != nil {
		return nil, lookupError(err, apperrors.ErrProjectNotFound)
	}
	return &project, nil
}

// loadPhase loads a phase with its tasks in display order.
func loadPhase(db *gorm.DB, phaseID string) (*models.Phase, error) {
	var phase models.Phase
	if err := db.Preload("Tasks", orderBySort).Where("id = ?", phaseID).First(&phase).Error; err != nil {
		return nil, lookupError(err, apperrors.ErrPhaseNotFound)
	}
	return &phase, nil
}

// loadBudget loads the project's budget with its expenses. A missing project
// and a project without a budget are reported separately.
func loadBudget(db *gorm.DB, projectID string, withExpenses bool) (*models.Budget, error) {
	if _, err := findProject(db, projectID); err != nil {
		return nil, err
	}

	q := db.Where("project_id = ?", projectID)
	if withExpenses {
		q = q.Preload("Expenses", orderByDate)
	}
	var budget models.Budget
	if err := q.First(&budget).Error; err != nil {
		return nil, lookupError(err, apperrors.ErrBudgetNotFound)
	}
	return &budget, nil
}

// savePhaseGraph persists a phase and every task it owns. Callers run it
// inside a transaction so a cascade is stored all or nothing.
func savePhaseGraph(tx *gorm.DB, phase *models.Phase) error {
	if err := tx.Omit(clause.Associations).Save(phase).Error; err != nil {
		return err
	}
	for i := range phase.Tasks {
		if err := tx.Omit(clause.Associations).Save(&phase.Tasks[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// summarizeBudget computes a BudgetSummary as of now, bucketing months in
// now's location.
func summarizeBudget(budget *models.Budget, now time.Time) *BudgetSummary {
	return &BudgetSummary{
		BudgetID:             budget.ID,
		TotalAmount:          budget.TotalAmount,
		TotalExpenses:        budget.TotalExpenses(),
		RemainingBudget:      budget.RemainingBudget(),
		UsagePercentage:      budget.UsagePercentage(),
		WarningThreshold:     budget.WarningThreshold,
		IsOverBudget:         budget.IsOverBudget(),
		HasReachedWarning:    budget.HasReachedWarningThreshold(),
		EstimatedOverage:     budget.EstimatedOverage(),
		CurrentMonthExpenses: models.SumExpenses(budget.CurrentMonthExpenses(now)),
		ExpenseCount:         len(budget.Expenses),
		ByCategory:           budget.CategoryTable(),
		ByParentCategory:     budget.ExpensesByParentCategory(),
		ByMonth:              budget.MonthTable(now.Location()),
	}
}

func validDates(start, end time.Time) bool {
	return !end.Before(start)
}

func validOptionalDates(start, end *time.Time) bool {
	if start == nil || end == nil {
		return true
	}
	return validDates(*start, *end)
}
