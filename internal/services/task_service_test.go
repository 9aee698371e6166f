package services

import (
	"testing"
	"time"

	"renovo/internal/models"
	"renovo/internal/testutil"
)

func TestCreateTask(t *testing.T) {
	t.Run("appends_and_links", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTaskService(db, testutil.Clock(testutil.FixedNow))
		phase := testutil.CreateTestPhase(t, db, testutil.CreateTestProject(t, db).ID)

		end := testutil.FixedNow.AddDate(0, 0, 3)
		first, err := svc.CreateTask(phase.ID, TaskInput{Title: "Strip wallpaper", PlannedEndDate: &end, Photos: []string{"before.jpg"}})
		testutil.AssertNoError(t, err)
		second, err := svc.CreateTask(phase.ID, TaskInput{Title: "Prime walls"})
		testutil.AssertNoError(t, err)

		if first.PhaseID != phase.ID {
			t.Errorf("expected phase %s, got %s", phase.ID, first.PhaseID)
		}
		if first.Status != models.TaskStatusPending {
			t.Errorf("expected pending, got %s", first.Status)
		}
		if second.SortOrder != first.SortOrder+1 {
			t.Errorf("expected second task after first, got %d then %d", first.SortOrder, second.SortOrder)
		}

		stored, err := svc.GetTaskByID(first.ID)
		testutil.AssertNoError(t, err)
		if len(stored.Photos) != 1 || stored.Photos[0] != "before.jpg" {
			t.Errorf("expected photos to round trip, got %v", stored.Photos)
		}
	})

	t.Run("reopens_completed_phase", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTaskService(db, testutil.Clock(testutil.FixedNow))
		phases := NewPhaseService(db, testutil.Clock(testutil.FixedNow))

		phase := testutil.CreateTestPhase(t, db, testutil.CreateTestProject(t, db).ID)
		testutil.CreateTestTask(t, db, phase.ID, models.TaskStatusCompleted)
		if _, _, err := phases.CompletePhase(phase.ID, nil); err != nil {
			t.Fatalf("failed to complete phase: %v", err)
		}

		_, err := svc.CreateTask(phase.ID, TaskInput{Title: "Touch up"})
		testutil.AssertNoError(t, err)

		reloaded, err := phases.GetPhaseByID(phase.ID)
		testutil.AssertNoError(t, err)
		if reloaded.IsCompleted || reloaded.ActualEndDate != nil {
			t.Error("expected phase to be reopened by a new pending task")
		}
	})

	t.Run("invalid_dates", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTaskService(db, testutil.Clock(testutil.FixedNow))
		phase := testutil.CreateTestPhase(t, db, testutil.CreateTestProject(t, db).ID)

		start := testutil.FixedNow
		end := start.AddDate(0, 0, -1)
		_, err := svc.CreateTask(phase.ID, TaskInput{Title: "Backwards", PlannedStartDate: &start, PlannedEndDate: &end})
		testutil.AssertAppError(t, err, "INVALID_DATES")
	})

	t.Run("phase_not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTaskService(db, testutil.Clock(testutil.FixedNow))

		_, err := svc.CreateTask("0190f5a4-0000-7000-8000-000000000000", TaskInput{Title: "Orphan"})
		testutil.AssertAppError(t, err, "PHASE_NOT_FOUND")
	})
}

func TestUpdateTask(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewTaskService(db, testutil.Clock(testutil.FixedNow))
	phase := testutil.CreateTestPhase(t, db, testutil.CreateTestProject(t, db).ID)
	task := testutil.CreateTestTask(t, db, phase.ID, models.TaskStatusInProgress)

	t.Run("fields", func(t *testing.T) {
		assignee := "Ivan's crew"
		updated, err := svc.UpdateTask(task.ID, TaskUpdate{AssigneeName: &assignee})
		testutil.AssertNoError(t, err)
		if updated.AssigneeName != assignee {
			t.Errorf("expected assignee %q, got %q", assignee, updated.AssigneeName)
		}
		if updated.Status != models.TaskStatusInProgress {
			t.Errorf("update must not change status, got %s", updated.Status)
		}
	})

	t.Run("clear_planned_dates", func(t *testing.T) {
		projects := NewProjectService(db, testutil.Clock(testutil.FixedNow), models.DefaultWarningThreshold)
		start := testutil.FixedNow.AddDate(0, 0, -10)
		end := testutil.FixedNow.AddDate(0, 0, -2)
		_, err := svc.UpdateTask(task.ID, TaskUpdate{PlannedStartDate: &start, PlannedEndDate: &end})
		testutil.AssertNoError(t, err)

		overdue, err := projects.GetOverdueTasks(phase.ProjectID)
		testutil.AssertNoError(t, err)
		if len(overdue) != 1 {
			t.Fatalf("expected the task to be overdue, got %d tasks", len(overdue))
		}

		_, err = svc.UpdateTask(task.ID, TaskUpdate{ClearPlannedEndDate: true})
		testutil.AssertNoError(t, err)

		reloaded, err := svc.GetTaskByID(task.ID)
		testutil.AssertNoError(t, err)
		if reloaded.PlannedEndDate != nil {
			t.Errorf("expected planned end to be cleared, got %v", reloaded.PlannedEndDate)
		}
		if reloaded.PlannedStartDate == nil || !reloaded.PlannedStartDate.Equal(start) {
			t.Errorf("expected planned start to be kept, got %v", reloaded.PlannedStartDate)
		}

		overdue, err = projects.GetOverdueTasks(phase.ProjectID)
		testutil.AssertNoError(t, err)
		if len(overdue) != 0 {
			t.Errorf("expected no overdue tasks once the deadline is cleared, got %d", len(overdue))
		}
	})

	t.Run("not_found", func(t *testing.T) {
		title := "x"
		_, err := svc.UpdateTask("0190f5a4-0000-7000-8000-000000000000", TaskUpdate{Title: &title})
		testutil.AssertAppError(t, err, "TASK_NOT_FOUND")
	})
}

func TestDeleteTask(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewTaskService(db, testutil.Clock(testutil.FixedNow))
	phases := NewPhaseService(db, testutil.Clock(testutil.FixedNow))

	phase := testutil.CreateTestPhase(t, db, testutil.CreateTestProject(t, db).ID)
	testutil.CreateTestTask(t, db, phase.ID, models.TaskStatusCompleted)
	open := testutil.CreateTestTask(t, db, phase.ID, models.TaskStatusPending)

	testutil.AssertNoError(t, svc.DeleteTask(open.ID))

	_, err := svc.GetTaskByID(open.ID)
	testutil.AssertAppError(t, err, "TASK_NOT_FOUND")

	reloaded, err := phases.GetPhaseByID(phase.ID)
	testutil.AssertNoError(t, err)
	if !reloaded.IsCompleted {
		t.Error("removing the last open task should complete the phase")
	}
}

func TestTransitionTask(t *testing.T) {
	setup := func(t *testing.T) (TaskServicer, PhaseServicer, *models.Phase, func()) {
		db := testutil.SetupTestDB(t)
		phase := testutil.CreateTestPhase(t, db, testutil.CreateTestProject(t, db).ID)
		return NewTaskService(db, testutil.Clock(testutil.FixedNow)),
			NewPhaseService(db, testutil.Clock(testutil.FixedNow)),
			phase,
			func() { testutil.TeardownTestDB(t, db) }
	}

	t.Run("start_starts_phase", func(t *testing.T) {
		svc, _, phase, done := setup(t)
		defer done()
		task, err := svc.CreateTask(phase.ID, TaskInput{Title: "Demolish wall"})
		testutil.AssertNoError(t, err)

		result, err := svc.TransitionTask(task.ID, models.TaskActionStart, nil)
		testutil.AssertNoError(t, err)

		if !result.Changed || result.Task.Status != models.TaskStatusInProgress {
			t.Errorf("expected task in progress, got %s (changed=%v)", result.Task.Status, result.Changed)
		}
		if !result.PhaseChanged || result.Phase.ActualStartDate == nil {
			t.Error("expected phase to be started")
		}
	})

	t.Run("start_twice_is_noop", func(t *testing.T) {
		svc, _, phase, done := setup(t)
		defer done()
		task, err := svc.CreateTask(phase.ID, TaskInput{Title: "Demolish wall"})
		testutil.AssertNoError(t, err)

		_, err = svc.TransitionTask(task.ID, models.TaskActionStart, nil)
		testutil.AssertNoError(t, err)
		result, err := svc.TransitionTask(task.ID, models.TaskActionStart, nil)
		testutil.AssertNoError(t, err)

		if result.Changed || result.PhaseChanged {
			t.Error("expected second start to change nothing")
		}
	})

	t.Run("complete_last_completes_phase", func(t *testing.T) {
		svc, phases, phase, done := setup(t)
		defer done()
		a, err := svc.CreateTask(phase.ID, TaskInput{Title: "Lay tiles"})
		testutil.AssertNoError(t, err)
		b, err := svc.CreateTask(phase.ID, TaskInput{Title: "Grout"})
		testutil.AssertNoError(t, err)

		at := testutil.FixedNow.Add(-3 * time.Hour)
		first, err := svc.TransitionTask(a.ID, models.TaskActionComplete, &at)
		testutil.AssertNoError(t, err)
		if first.Phase.IsCompleted {
			t.Error("phase should stay open while a task is pending")
		}
		if !first.Task.ActualCompletionDate.Equal(at) {
			t.Errorf("expected completion at %v, got %v", at, first.Task.ActualCompletionDate)
		}

		second, err := svc.TransitionTask(b.ID, models.TaskActionComplete, nil)
		testutil.AssertNoError(t, err)
		if !second.PhaseChanged || !second.Phase.IsCompleted {
			t.Error("expected phase to complete with its last task")
		}

		reloaded, err := phases.GetPhaseByID(phase.ID)
		testutil.AssertNoError(t, err)
		if !reloaded.IsCompleted || reloaded.ActualEndDate == nil {
			t.Error("expected completion to be persisted")
		}
	})

	t.Run("reset_reopens_phase", func(t *testing.T) {
		svc, _, phase, done := setup(t)
		defer done()
		task, err := svc.CreateTask(phase.ID, TaskInput{Title: "Paint ceiling"})
		testutil.AssertNoError(t, err)
		_, err = svc.TransitionTask(task.ID, models.TaskActionComplete, nil)
		testutil.AssertNoError(t, err)

		result, err := svc.TransitionTask(task.ID, models.TaskActionReset, nil)
		testutil.AssertNoError(t, err)

		if result.Task.Status != models.TaskStatusPending || result.Task.ActualCompletionDate != nil {
			t.Error("expected reset task to be pending without completion date")
		}
		if result.Phase.IsCompleted || result.Phase.ActualEndDate != nil {
			t.Error("expected phase to be reopened")
		}
	})

	t.Run("cancel_from_completed", func(t *testing.T) {
		svc, _, phase, done := setup(t)
		defer done()
		task, err := svc.CreateTask(phase.ID, TaskInput{Title: "Hang doors"})
		testutil.AssertNoError(t, err)
		_, err = svc.TransitionTask(task.ID, models.TaskActionComplete, nil)
		testutil.AssertNoError(t, err)

		result, err := svc.TransitionTask(task.ID, models.TaskActionCancel, nil)
		testutil.AssertNoError(t, err)
		if !result.Changed || result.Task.Status != models.TaskStatusCancelled {
			t.Errorf("expected cancelled, got %s", result.Task.Status)
		}
	})

	t.Run("invalid_action", func(t *testing.T) {
		svc, _, phase, done := setup(t)
		defer done()
		task, err := svc.CreateTask(phase.ID, TaskInput{Title: "Anything"})
		testutil.AssertNoError(t, err)

		_, err = svc.TransitionTask(task.ID, "archive", nil)
		testutil.AssertAppError(t, err, "INVALID_TASK_ACTION")
	})

	t.Run("not_found", func(t *testing.T) {
		svc, _, _, done := setup(t)
		defer done()

		_, err := svc.TransitionTask("0190f5a4-0000-7000-8000-000000000000", models.TaskActionStart, nil)
		testutil.AssertAppError(t, err, "TASK_NOT_FOUND")
	})
}
