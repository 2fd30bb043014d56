package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lani-platform/lani/internal/db"
	"github.com/lani-platform/lani/internal/domain"
	"github.com/lani-platform/lani/internal/policy"
)

type projectService struct {
	base
}

func NewProjectService(uow db.UnitOfWork, opts ...Option) ProjectService {
	return &projectService{base: newBase(uow, opts)}
}

// Create stores p with the actor as owner.
func (s *projectService) Create(ctx context.Context, actor *domain.User, p *domain.Project) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"project": p.Name}
	defer func() { s.observe(ctx, "project.create", startedAt, fields, err) }()

	return s.within(ctx, func(ctx context.Context, w *work) error {
		if err := w.authorize(ctx, actor, policy.ActionCreate, policy.KindTarget(domain.KindProject, nil)); err != nil {
			return err
		}
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		if p.Status == "" {
			p.Status = domain.ProjectPlanning
		}
		p.OwnerID = actor.ID
		now := s.now()
		p.CreatedAt, p.UpdatedAt = now, now
		if err := p.Validate(); err != nil {
			return err
		}
		fields["project_id"] = p.ID
		return w.Projects.Create(ctx, p)
	})
}

func (s *projectService) Get(ctx context.Context, actor *domain.User, id string) (*domain.Project, error) {
	var p *domain.Project
	err := s.within(ctx, func(ctx context.Context, w *work) error {
		var err error
		p, err = w.project(ctx, actor, policy.ActionShow, id)
		return err
	})
	return p, err
}

func (s *projectService) List(ctx context.Context, actor *domain.User) ([]*domain.Project, error) {
	var out []*domain.Project
	err := s.within(ctx, func(ctx context.Context, w *work) error {
		if err := w.authorize(ctx, actor, policy.ActionIndex, policy.KindTarget(domain.KindProject, nil)); err != nil {
			return err
		}
		var err error
		out, err = w.Projects.List(ctx, policy.Scope(actor, domain.KindProject))
		return err
	})
	return out, err
}

// Update copies the editable fields of p onto the stored project. Ownership
// changes go through UserService.TransferOwnership.
func (s *projectService) Update(ctx context.Context, actor *domain.User, p *domain.Project) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"project_id": p.ID}
	defer func() { s.observe(ctx, "project.update", startedAt, fields, err) }()

	return s.within(ctx, func(ctx context.Context, w *work) error {
		existing, err := w.project(ctx, actor, policy.ActionUpdate, p.ID)
		if err != nil {
			return err
		}
		existing.Name = p.Name
		existing.Description = p.Description
		existing.Status = p.Status
		existing.Latitude, existing.Longitude = p.Latitude, p.Longitude
		existing.LocationName = p.LocationName
		existing.StartDate, existing.EndDate = p.StartDate, p.EndDate
		existing.UpdatedAt = s.now()
		if err := existing.Validate(); err != nil {
			return err
		}
		if err := w.Projects.Update(ctx, existing); err != nil {
			return err
		}
		*p = *existing
		return nil
	})
}

// Delete removes the project with its tasks, budgets, transactions and
// memberships.
func (s *projectService) Delete(ctx context.Context, actor *domain.User, id string) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"project_id": id}
	defer func() { s.observe(ctx, "project.delete", startedAt, fields, err) }()

	return s.within(ctx, func(ctx context.Context, w *work) error {
		if _, err := w.project(ctx, actor, policy.ActionDestroy, id); err != nil {
			return err
		}
		return w.Projects.Delete(ctx, id)
	})
}

// Progress is the percentage of the project's tasks that are completed.
func (s *projectService) Progress(ctx context.Context, actor *domain.User, id string) (float64, error) {
	var pct float64
	err := s.within(ctx, func(ctx context.Context, w *work) error {
		if _, err := w.project(ctx, actor, policy.ActionShow, id); err != nil {
			return err
		}
		tasks, err := w.Tasks.List(ctx, allRows(domain.KindTask), id)
		if err != nil {
			return err
		}
		pct = aggregateProjectMetrics(tasks, s.today()).ProgressPct
		return nil
	})
	return pct, err
}
