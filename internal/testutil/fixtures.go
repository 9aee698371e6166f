package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"renovo/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// FixedNow is the reference "today" used by fixtures and test clocks.
var FixedNow = time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)

// Clock returns a clock frozen at t.
func Clock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// CreateTestProject creates an active 90-day project starting ten days before FixedNow.
func CreateTestProject(t *testing.T, db *gorm.DB) *models.Project {
	t.Helper()

	project := &models.Project{
		Name:                  fmt.Sprintf("Test Project %d", nextID()),
		HouseType:             models.HouseTypeApartment,
		FloorArea:             85,
		StartDate:             FixedNow.AddDate(0, 0, -10),
		EstimatedDurationDays: 90,
		IsActive:              true,
	}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("failed to create test project: %v", err)
	}
	return project
}

// CreateTestPhase creates an enabled phase planned from FixedNow-5d to FixedNow+5d.
func CreateTestPhase(t *testing.T, db *gorm.DB, projectID string) *models.Phase {
	t.Helper()

	n := nextID()
	phase := models.NewPhase(fmt.Sprintf("Test Phase %d", n), models.PhaseTypeCustom, int(n),
		FixedNow.AddDate(0, 0, -5), FixedNow.AddDate(0, 0, 5))
	phase.ProjectID = projectID
	if err := db.Create(phase).Error; err != nil {
		t.Fatalf("failed to create test phase: %v", err)
	}
	return phase
}

// CreateTestTask creates a task in the given status.
func CreateTestTask(t *testing.T, db *gorm.DB, phaseID string, status models.TaskStatus) *models.Task {
	t.Helper()

	task := models.NewTask(fmt.Sprintf("Test Task %d", nextID()))
	task.PhaseID = phaseID
	task.Status = status
	task.SortOrder = int(nextID())
	if status == models.TaskStatusCompleted {
		done := FixedNow.AddDate(0, 0, -1)
		task.ActualCompletionDate = &done
	}
	if err := db.Create(task).Error; err != nil {
		t.Fatalf("failed to create test task: %v", err)
	}
	return task
}

// CreateTestBudget creates a budget with the given total and a 0.8 warning threshold.
func CreateTestBudget(t *testing.T, db *gorm.DB, projectID string, total int64) *models.Budget {
	t.Helper()

	budget := models.NewBudget(decimal.NewFromInt(total), models.DefaultWarningThreshold)
	budget.ProjectID = projectID
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestExpense creates an expense dated FixedNow.
func CreateTestExpense(t *testing.T, db *gorm.DB, budgetID string, amount int64, category models.ExpenseCategory) *models.Expense {
	t.Helper()
	return CreateTestExpenseOn(t, db, budgetID, amount, category, FixedNow)
}

// CreateTestExpenseOn creates an expense on the given date.
func CreateTestExpenseOn(t *testing.T, db *gorm.DB, budgetID string, amount int64, category models.ExpenseCategory, date time.Time) *models.Expense {
	t.Helper()

	expense := models.NewExpense(decimal.NewFromInt(amount), category, date)
	expense.BudgetID = budgetID
	expense.VendorName = fmt.Sprintf("Vendor %d", nextID())
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}
