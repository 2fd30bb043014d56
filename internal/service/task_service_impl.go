package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lani-platform/lani/internal/db"
	"github.com/lani-platform/lani/internal/domain"
	"github.com/lani-platform/lani/internal/policy"
)

type taskService struct {
	base
}

func NewTaskService(uow db.UnitOfWork, opts ...Option) TaskService {
	return &taskService{base: newBase(uow, opts)}
}

func (s *taskService) Create(ctx context.Context, actor *domain.User, t *domain.Task) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"project_id": t.ProjectID, "task": t.Title}
	defer func() { s.observe(ctx, "task.create", startedAt, fields, err) }()

	return s.within(ctx, func(ctx context.Context, w *work) error {
		p, err := w.Projects.GetByID(ctx, t.ProjectID)
		if err != nil {
			return err
		}
		target := policy.KindTarget(domain.KindTask, p)
		if err := w.authorize(ctx, actor, policy.ActionCreate, target); err != nil {
			return err
		}
		if t.AssigneeID != nil {
			if err := w.authorize(ctx, actor, policy.ActionAssign, target); err != nil {
				return err
			}
			if _, err := w.Users.GetByID(ctx, *t.AssigneeID); err != nil {
				return fmt.Errorf("assignee: %w", err)
			}
		}

		if t.ID == "" {
			t.ID = uuid.New().String()
		}
		if t.Priority == "" {
			t.Priority = domain.PriorityMedium
		}
		now := s.now()
		status := t.Status
		if status == "" {
			status = domain.TaskTodo
		}
		t.SetStatus(status, now)
		t.CreatedAt = now
		if err := t.Validate(); err != nil {
			return err
		}
		fields["task_id"] = t.ID
		return w.Tasks.Create(ctx, t)
	})
}

func (s *taskService) Get(ctx context.Context, actor *domain.User, id string) (*domain.Task, error) {
	var t *domain.Task
	err := s.within(ctx, func(ctx context.Context, w *work) error {
		var err error
		t, err = w.task(ctx, actor, policy.ActionShow, id)
		return err
	})
	return t, err
}

func (s *taskService) List(ctx context.Context, actor *domain.User, projectID string) ([]*domain.Task, error) {
	var out []*domain.Task
	err := s.within(ctx, func(ctx context.Context, w *work) error {
		var parent *domain.Project
		if projectID != "" {
			var err error
			if parent, err = w.Projects.GetByID(ctx, projectID); err != nil {
				return err
			}
		}
		if err := w.authorize(ctx, actor, policy.ActionIndex, policy.KindTarget(domain.KindTask, parent)); err != nil {
			return err
		}
		var err error
		out, err = w.Tasks.List(ctx, policy.Scope(actor, domain.KindTask), projectID)
		return err
	})
	return out, err
}

func (s *taskService) Update(ctx context.Context, actor *domain.User, id string, changes TaskChanges) (task *domain.Task, err error) {
	startedAt := time.Now()
	fields := map[string]any{"task_id": id}
	defer func() { s.observe(ctx, "task.update", startedAt, fields, err) }()

	err = s.within(ctx, func(ctx context.Context, w *work) error {
		t, err := w.task(ctx, actor, policy.ActionUpdate, id)
		if err != nil {
			return err
		}
		now := s.now()
		if changes.Title != nil {
			t.Title = *changes.Title
		}
		if changes.Description != nil {
			t.Description = *changes.Description
		}
		if changes.Priority != nil {
			t.Priority = *changes.Priority
		}
		if changes.DueDate != nil {
			if *changes.DueDate == "" {
				t.DueDate = nil
			} else {
				d, err := domain.ParseDay(*changes.DueDate)
				if err != nil {
					return fmt.Errorf("due date %q: expected YYYY-MM-DD", *changes.DueDate)
				}
				t.DueDate = &d
			}
		}
		if changes.EstimatedHours != nil {
			t.EstimatedHours = changes.EstimatedHours
		}
		if changes.ActualHours != nil {
			t.ActualHours = changes.ActualHours
		}
		if changes.Status != nil {
			fields["status"] = string(*changes.Status)
			t.SetStatus(*changes.Status, now)
		}
		t.UpdatedAt = now
		if err := t.Validate(); err != nil {
			return err
		}
		if err := w.Tasks.Update(ctx, t); err != nil {
			return err
		}
		task = t
		return nil
	})
	return task, err
}

func (s *taskService) Assign(ctx context.Context, actor *domain.User, id string, assigneeID *string) (task *domain.Task, err error) {
	startedAt := time.Now()
	fields := map[string]any{"task_id": id}
	if assigneeID != nil {
		fields["assignee_id"] = *assigneeID
	}
	defer func() { s.observe(ctx, "task.assign", startedAt, fields, err) }()

	err = s.within(ctx, func(ctx context.Context, w *work) error {
		t, err := w.task(ctx, actor, policy.ActionAssign, id)
		if err != nil {
			return err
		}
		if assigneeID != nil {
			if _, err := w.Users.GetByID(ctx, *assigneeID); err != nil {
				return fmt.Errorf("assignee: %w", err)
			}
		}
		t.AssigneeID = assigneeID
		t.UpdatedAt = s.now()
		if err := w.Tasks.Update(ctx, t); err != nil {
			return err
		}
		task = t
		return nil
	})
	return task, err
}

func (s *taskService) Delete(ctx context.Context, actor *domain.User, id string) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"task_id": id}
	defer func() { s.observe(ctx, "task.delete", startedAt, fields, err) }()

	return s.within(ctx, func(ctx context.Context, w *work) error {
		if _, err := w.task(ctx, actor, policy.ActionDestroy, id); err != nil {
			return err
		}
		return w.Tasks.Delete(ctx, id)
	})
}

// Overdue lists open tasks past their due date across every project the
// actor may list.
func (s *taskService) Overdue(ctx context.Context, actor *domain.User) ([]*domain.Task, error) {
	var out []*domain.Task
	err := s.within(ctx, func(ctx context.Context, w *work) error {
		var err error
		out, err = w.Tasks.ListOverdue(ctx, policy.Scope(actor, domain.KindTask), s.today())
		return err
	})
	return out, err
}

func (w *work) task(ctx context.Context, actor *domain.User, action policy.Action, id string) (*domain.Task, error) {
	t, err := w.Tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := w.authorize(ctx, actor, action, policy.TaskTarget(t)); err != nil {
		return nil, err
	}
	return t, nil
}
