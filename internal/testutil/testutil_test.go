package testutil_test

import (
	"testing"

	"renovo/internal/errors"
	"renovo/internal/models"
	"renovo/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{"projects", "budgets", "expenses", "phases", "tasks", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	project := testutil.CreateTestProject(t, db)
	if project.ID == "" {
		t.Fatal("project should have an ID")
	}

	phase := testutil.CreateTestPhase(t, db, project.ID)
	if !phase.IsEnabled {
		t.Error("expected phase to be enabled")
	}

	task := testutil.CreateTestTask(t, db, phase.ID, models.TaskStatusCompleted)
	if task.ActualCompletionDate == nil {
		t.Error("completed fixture should carry a completion date")
	}

	budget := testutil.CreateTestBudget(t, db, project.ID, 10000)
	testutil.AssertAmount(t, "10000", budget.TotalAmount)

	expense := testutil.CreateTestExpense(t, db, budget.ID, 250, models.CategoryTiles)
	testutil.AssertAmount(t, "250", expense.Amount)

	var stored models.Expense
	if err := db.First(&stored, "id = ?", expense.ID).Error; err != nil {
		t.Fatalf("failed to reload expense: %v", err)
	}
	testutil.AssertAmount(t, "250", stored.Amount)
	if stored.PaymentType != models.PaymentTypeFull {
		t.Errorf("expected full payment, got %s", stored.PaymentType)
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrTaskNotFound, "custom message")
	testutil.AssertAppError(t, err, "TASK_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
