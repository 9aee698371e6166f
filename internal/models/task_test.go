package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	day0 = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	day1 = day0.AddDate(0, 0, 1)
	day2 = day0.AddDate(0, 0, 2)
)

func taskIn(status TaskStatus) *Task {
	t := NewTask("Lay tiles")
	t.Status = status
	return t
}

func TestTaskStart(t *testing.T) {
	t.Run("pending starts", func(t *testing.T) {
		task := taskIn(TaskStatusPending)
		assert.True(t, task.Start(day1))
		assert.Equal(t, TaskStatusInProgress, task.Status)
		assert.Equal(t, day1, task.UpdatedAt)
	})

	for _, status := range []TaskStatus{TaskStatusInProgress, TaskStatusCompleted, TaskStatusIssue, TaskStatusCancelled} {
		t.Run(string(status)+" is a no-op", func(t *testing.T) {
			task := taskIn(status)
			task.UpdatedAt = day0
			assert.False(t, task.Start(day1))
			assert.Equal(t, status, task.Status)
			assert.Equal(t, day0, task.UpdatedAt)
		})
	}
}

func TestTaskCompleteFromAnyState(t *testing.T) {
	for _, status := range []TaskStatus{TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusIssue, TaskStatusCancelled} {
		t.Run(string(status), func(t *testing.T) {
			task := taskIn(status)
			task.Complete(day1)
			assert.Equal(t, TaskStatusCompleted, task.Status)
			require.NotNil(t, task.ActualCompletionDate)
			assert.Equal(t, day1, *task.ActualCompletionDate)
		})
	}
}

func TestTaskRecompleteOverwritesDate(t *testing.T) {
	task := NewTask("Paint ceiling")
	task.Complete(day1)
	task.Complete(day2)
	require.NotNil(t, task.ActualCompletionDate)
	assert.Equal(t, day2, *task.ActualCompletionDate)
}

func TestTaskIssueAndCancelArePermissive(t *testing.T) {
	for _, status := range []TaskStatus{TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusIssue, TaskStatusCancelled} {
		t.Run("issue from "+string(status), func(t *testing.T) {
			task := taskIn(status)
			task.MarkAsIssue(day1)
			assert.Equal(t, TaskStatusIssue, task.Status)
		})
		t.Run("cancel from "+string(status), func(t *testing.T) {
			task := taskIn(status)
			task.Cancel(day1)
			assert.Equal(t, TaskStatusCancelled, task.Status)
		})
	}
}

func TestTaskFullCycleReset(t *testing.T) {
	task := NewTask("Install sink")
	fresh := *NewTask("Install sink")

	require.True(t, task.Start(day0))
	task.Complete(day1)
	task.Reset(day2)

	assert.Equal(t, TaskStatusPending, task.Status)
	assert.Nil(t, task.ActualCompletionDate)
	assert.Equal(t, fresh.Status, task.Status)
	assert.Equal(t, fresh.ActualCompletionDate, task.ActualCompletionDate)
	assert.True(t, task.Start(day2), "reset task should be startable again")
}

func TestTaskIsOverdue(t *testing.T) {
	past := day0
	future := day2

	cases := []struct {
		name   string
		status TaskStatus
		end    *time.Time
		want   bool
	}{
		{"no planned end", TaskStatusPending, nil, false},
		{"future end", TaskStatusInProgress, &future, false},
		{"past end pending", TaskStatusPending, &past, true},
		{"past end issue", TaskStatusIssue, &past, true},
		{"past end cancelled", TaskStatusCancelled, &past, true},
		{"past end completed", TaskStatusCompleted, &past, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			task := taskIn(tc.status)
			task.PlannedEndDate = tc.end
			assert.Equal(t, tc.want, task.IsOverdue(day1))
		})
	}
}

func TestTaskStatusIsFinal(t *testing.T) {
	assert.True(t, TaskStatusCompleted.IsFinal())
	assert.True(t, TaskStatusCancelled.IsFinal())
	assert.False(t, TaskStatusPending.IsFinal())
	assert.False(t, TaskStatusInProgress.IsFinal())
	assert.False(t, TaskStatusIssue.IsFinal())
	assert.False(t, TaskStatus("done").Valid())
}

func TestTaskApply(t *testing.T) {
	task := NewTask("Hang doors")

	assert.True(t, task.Apply(TaskActionStart, day0))
	assert.False(t, task.Apply(TaskActionStart, day0), "second start is a no-op")
	assert.True(t, task.Apply(TaskActionComplete, day1))
	assert.False(t, task.Apply(TaskActionComplete, day1), "same completion date changes nothing")
	assert.True(t, task.Apply(TaskActionComplete, day2), "new completion date is a change")
	assert.True(t, task.Apply(TaskActionIssue, day2))
	assert.True(t, task.Apply(TaskActionCancel, day2))
	assert.True(t, task.Apply(TaskActionReset, day2))
	assert.False(t, task.Apply(TaskAction("explode"), day2))
	assert.Equal(t, TaskStatusPending, task.Status)
}
