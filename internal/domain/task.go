package domain

import (
	"fmt"
	"strings"
	"time"
)

type Task struct {
	ID             string
	ProjectID      string
	AssigneeID     *string
	Title          string
	Description    string
	Status         TaskStatus
	Priority       TaskPriority
	DueDate        *time.Time
	CompletedAt    *time.Time
	EstimatedHours *int
	ActualHours    *int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (t *Task) OwningProjectID() string { return t.ProjectID }

func (t *Task) IsAssignedTo(userID string) bool {
	return userID != "" && t.AssigneeID != nil && *t.AssigneeID == userID
}

func (t *Task) IsCompleted() bool { return t.Status == TaskCompleted }

// IsActive reports whether the task is still being worked on.
func (t *Task) IsActive() bool {
	return t.Status == TaskTodo || t.Status == TaskInProgress || t.Status == TaskReview
}

// Overdue reports whether the due date lies before today and the task is not
// completed.
func (t *Task) Overdue(today time.Time) bool {
	return t.DueDate != nil && Day(*t.DueDate).Before(Day(today)) && !t.IsCompleted()
}

// SetStatus moves the task to s and maintains CompletedAt.
func (t *Task) SetStatus(s TaskStatus, now time.Time) {
	t.Status = s
	if s == TaskCompleted {
		if t.CompletedAt == nil {
			t.CompletedAt = &now
		}
	} else {
		t.CompletedAt = nil
	}
	t.UpdatedAt = now
}

func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("task title is required")
	}
	if len(t.Title) > 200 {
		return fmt.Errorf("task title is limited to 200 characters")
	}
	if len(t.Description) > 2000 {
		return fmt.Errorf("task description is limited to 2000 characters")
	}
	if t.ProjectID == "" {
		return fmt.Errorf("task project is required")
	}
	if !ValidTaskStatuses[t.Status] {
		return fmt.Errorf("task status %q is invalid", t.Status)
	}
	if !ValidTaskPriorities[t.Priority] {
		return fmt.Errorf("task priority %q is invalid", t.Priority)
	}
	return nil
}
