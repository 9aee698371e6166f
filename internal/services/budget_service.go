package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "renovo/internal/errors"
	"renovo/internal/logger"
	"renovo/internal/models"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db               *gorm.DB
	now              Clock
	defaultThreshold float64
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB, now Clock, defaultThreshold float64) BudgetServicer {
	return &budgetService{db: db, now: now.orDefault(), defaultThreshold: defaultThreshold}
}

// SetBudget creates the project's budget, or replaces the total (and the
// threshold when given) of the existing one.
func (s *budgetService) SetBudget(projectID string, total decimal.Decimal, warningThreshold *float64) (*models.Budget, error) {
	if total.IsNegative() {
		return nil, apperrors.ErrInvalidAmount
	}

	existing, err := loadBudget(s.db, projectID, false)
	switch {
	case err == nil:
		now := s.now()
		existing.UpdateTotalAmount(total, now)
		if warningThreshold != nil {
			existing.UpdateWarningThreshold(*warningThreshold, now)
		}
		if err := s.db.Omit(clause.Associations).Save(existing).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return loadBudget(s.db, projectID, true)
	case !errors.Is(err, apperrors.ErrBudgetNotFound):
		return nil, err
	}

	project, err := findProject(s.db, projectID)
	if err != nil {
		return nil, err
	}

	threshold := s.defaultThreshold
	if warningThreshold != nil {
		threshold = *warningThreshold
	}
	budget := models.NewBudget(total, threshold)
	project.SetBudget(budget)

	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Get().Infow("budget created", "project_id", project.ID, "budget_id", budget.ID)
	return budget, nil
}

// GetBudget returns the project's budget with its expenses.
func (s *budgetService) GetBudget(projectID string) (*models.Budget, error) {
	return loadBudget(s.db, projectID, true)
}

// UpdateTotalAmount replaces the budget total.
func (s *budgetService) UpdateTotalAmount(projectID string, total decimal.Decimal) (*models.Budget, error) {
	if total.IsNegative() {
		return nil, apperrors.ErrInvalidAmount
	}

	budget, err := loadBudget(s.db, projectID, true)
	if err != nil {
		return nil, err
	}

	budget.UpdateTotalAmount(total, s.now())
	if err := s.db.Omit(clause.Associations).Save(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budget, nil
}

// UpdateWarningThreshold stores a new warning threshold, clamped to [0,1].
func (s *budgetService) UpdateWarningThreshold(projectID string, threshold float64) (*models.Budget, error) {
	budget, err := loadBudget(s.db, projectID, true)
	if err != nil {
		return nil, err
	}

	budget.UpdateWarningThreshold(threshold, s.now())
	if err := s.db.Omit(clause.Associations).Save(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budget, nil
}

// GetBudgetSummary computes the budget's totals and breakdowns as of now.
func (s *budgetService) GetBudgetSummary(projectID string) (*BudgetSummary, error) {
	budget, err := loadBudget(s.db, projectID, true)
	if err != nil {
		return nil, err
	}
	return summarizeBudget(budget, s.now()), nil
}
