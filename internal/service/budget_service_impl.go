package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lani-platform/lani/internal/budget"
	"github.com/lani-platform/lani/internal/db"
	"github.com/lani-platform/lani/internal/domain"
	"github.com/lani-platform/lani/internal/policy"
)

type budgetService struct {
	base
}

func NewBudgetService(uow db.UnitOfWork, opts ...Option) BudgetService {
	return &budgetService{base: newBase(uow, opts)}
}

func (s *budgetService) Create(ctx context.Context, actor *domain.User, b *domain.Budget) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"project_id": b.ProjectID, "category": string(b.Category)}
	defer func() { s.observe(ctx, "budget.create", startedAt, fields, err) }()

	return s.within(ctx, func(ctx context.Context, w *work) error {
		p, err := w.Projects.GetByID(ctx, b.ProjectID)
		if err != nil {
			return err
		}
		if err := w.authorize(ctx, actor, policy.ActionCreate, policy.KindTarget(domain.KindBudget, p)); err != nil {
			return err
		}
		if b.ID == "" {
			b.ID = uuid.New().String()
		}
		if b.Amount.Currency == "" {
			b.Amount.Currency = s.currency
		}
		b.PeriodStart, b.PeriodEnd = domain.Day(b.PeriodStart), domain.Day(b.PeriodEnd)
		now := s.now()
		b.CreatedAt, b.UpdatedAt = now, now
		if err := b.Validate(); err != nil {
			return err
		}
		fields["budget_id"] = b.ID
		return w.Budgets.Create(ctx, b)
	})
}

func (s *budgetService) Get(ctx context.Context, actor *domain.User, id string) (*domain.Budget, error) {
	var b *domain.Budget
	err := s.within(ctx, func(ctx context.Context, w *work) error {
		var err error
		b, err = w.budget(ctx, actor, policy.ActionShow, id)
		return err
	})
	return b, err
}

func (s *budgetService) ListByProject(ctx context.Context, actor *domain.User, projectID string) ([]*domain.Budget, error) {
	var out []*domain.Budget
	err := s.within(ctx, func(ctx context.Context, w *work) error {
		p, err := w.Projects.GetByID(ctx, projectID)
		if err != nil {
			return err
		}
		if err := w.authorize(ctx, actor, policy.ActionIndex, policy.KindTarget(domain.KindBudget, p)); err != nil {
			return err
		}
		out, err = w.Budgets.ListByProject(ctx, projectID)
		return err
	})
	return out, err
}

// List returns the budgets of every project the actor may list.
func (s *budgetService) List(ctx context.Context, actor *domain.User) ([]*domain.Budget, error) {
	var out []*domain.Budget
	err := s.within(ctx, func(ctx context.Context, w *work) error {
		var err error
		out, err = w.Budgets.List(ctx, policy.Scope(actor, domain.KindBudget))
		return err
	})
	return out, err
}

// Update copies the editable fields of b onto the stored budget. The
// currency cannot change once transactions reference the budget.
func (s *budgetService) Update(ctx context.Context, actor *domain.User, b *domain.Budget) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"budget_id": b.ID}
	defer func() { s.observe(ctx, "budget.update", startedAt, fields, err) }()

	return s.within(ctx, func(ctx context.Context, w *work) error {
		existing, err := w.budget(ctx, actor, policy.ActionUpdate, b.ID)
		if err != nil {
			return err
		}
		if b.Amount.Currency == "" {
			b.Amount.Currency = existing.Amount.Currency
		}
		if b.Amount.Currency != existing.Amount.Currency {
			txs, err := w.Transactions.ListByBudget(ctx, existing.ID)
			if err != nil {
				return err
			}
			if len(txs) > 0 {
				return fmt.Errorf("budget %s has %d transactions in %s: currency cannot change",
					existing.ID, len(txs), existing.Amount.Currency)
			}
		}
		existing.Name = b.Name
		existing.Description = b.Description
		existing.Amount = b.Amount
		existing.Category = b.Category
		existing.PeriodStart, existing.PeriodEnd = domain.Day(b.PeriodStart), domain.Day(b.PeriodEnd)
		existing.UpdatedAt = s.now()
		if err := existing.Validate(); err != nil {
			return err
		}
		if err := w.Budgets.Update(ctx, existing); err != nil {
			return err
		}
		*b = *existing
		return nil
	})
}

// Delete removes the budget and the transactions recorded against it.
func (s *budgetService) Delete(ctx context.Context, actor *domain.User, id string) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"budget_id": id}
	defer func() { s.observe(ctx, "budget.delete", startedAt, fields, err) }()

	return s.within(ctx, func(ctx context.Context, w *work) error {
		if _, err := w.budget(ctx, actor, policy.ActionDestroy, id); err != nil {
			return err
		}
		return w.Budgets.Delete(ctx, id)
	})
}

// Summary computes the budget's spend figures from one snapshot.
func (s *budgetService) Summary(ctx context.Context, actor *domain.User, id string) (budget.Summary, error) {
	var sum budget.Summary
	err := s.within(ctx, func(ctx context.Context, w *work) error {
		if _, err := w.budget(ctx, actor, policy.ActionShow, id); err != nil {
			return err
		}
		var err error
		sum, err = s.aggregator().SummaryFrom(ctx, w.Store, id)
		return err
	})
	return sum, err
}

func (w *work) budget(ctx context.Context, actor *domain.User, action policy.Action, id string) (*domain.Budget, error) {
	b, err := w.Budgets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := w.authorize(ctx, actor, action, policy.BudgetTarget(b)); err != nil {
		return nil, err
	}
	return b, nil
}
