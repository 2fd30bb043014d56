package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTaskOverdue(t *testing.T) {
	today := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)
	laterToday := time.Date(2025, 3, 10, 1, 0, 0, 0, time.UTC)

	task := &Task{Status: TaskTodo, DueDate: &yesterday}
	assert.True(t, task.Overdue(today))

	task.Status = TaskCompleted
	assert.False(t, task.Overdue(today), "completed tasks are never overdue")

	task = &Task{Status: TaskInProgress, DueDate: &laterToday}
	assert.False(t, task.Overdue(today), "due today is not overdue")

	task = &Task{Status: TaskTodo}
	assert.False(t, task.Overdue(today))
}

func TestTaskSetStatus_MaintainsCompletedAt(t *testing.T) {
	now := time.Now().UTC()
	task := &Task{Status: TaskTodo}

	task.SetStatus(TaskCompleted, now)
	assert.NotNil(t, task.CompletedAt)

	task.SetStatus(TaskReview, now)
	assert.Nil(t, task.CompletedAt)
}

func TestTaskIsAssignedTo(t *testing.T) {
	u := "u1"
	task := &Task{AssigneeID: &u}
	assert.True(t, task.IsAssignedTo("u1"))
	assert.False(t, task.IsAssignedTo("u2"))
	assert.False(t, (&Task{}).IsAssignedTo("u1"))
}

func TestTaskValidate(t *testing.T) {
	ok := &Task{ProjectID: "p", Title: "Pour slab", Status: TaskTodo, Priority: PriorityHigh}
	assert.NoError(t, ok.Validate())

	bad := *ok
	bad.Priority = "critical"
	assert.Error(t, bad.Validate())

	bad = *ok
	bad.Title = " "
	assert.Error(t, bad.Validate())
}
