package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lani-platform/lani/internal/budget"
	"github.com/lani-platform/lani/internal/db"
	"github.com/lani-platform/lani/internal/domain"
	"github.com/lani-platform/lani/internal/policy"
)

const portfolioParallelism = 4

type reportService struct {
	base
}

func NewReportService(uow db.UnitOfWork, opts ...Option) ReportService {
	return &reportService{base: newBase(uow, opts)}
}

func (s *reportService) ProjectFinancials(ctx context.Context, actor *domain.User, projectID string) (budget.Financials, error) {
	var fin budget.Financials
	err := s.within(ctx, func(ctx context.Context, w *work) error {
		p, err := w.project(ctx, actor, policy.ActionShow, projectID)
		if err != nil {
			return err
		}
		if err := w.authorize(ctx, actor, policy.ActionIndex, policy.KindTarget(domain.KindBudget, p)); err != nil {
			return err
		}
		fin, err = s.aggregator().FinancialsFrom(ctx, w.Store, projectID)
		return err
	})
	return fin, err
}

// Portfolio lists the actor's projects, then builds each line from its own
// snapshot concurrently. Financials are filled in only where the actor may
// read the project's budgets.
func (s *reportService) Portfolio(ctx context.Context, actor *domain.User, projectIDs ...string) (lines []PortfolioLine, err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer func() { s.observe(ctx, "report.portfolio", startedAt, fields, err) }()

	var projects []*domain.Project
	err = s.within(ctx, func(ctx context.Context, w *work) error {
		if err := w.authorize(ctx, actor, policy.ActionIndex, policy.KindTarget(domain.KindProject, nil)); err != nil {
			return err
		}
		var err error
		projects, err = w.Projects.List(ctx, policy.Scope(actor, domain.KindProject))
		return err
	})
	if err != nil {
		return nil, err
	}
	projects = filterProjectsByID(projects, projectIDs)

	results := make([]*PortfolioLine, len(projects))
	agg := s.aggregator()
	today := s.today()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(portfolioParallelism)
	for i, p := range projects {
		i, p := i, p
		g.Go(func() error {
			return s.within(gctx, func(ctx context.Context, w *work) error {
				line := &PortfolioLine{Project: p}
				ledger, err := w.engine.Can(ctx, actor, policy.ActionIndex, policy.KindTarget(domain.KindBudget, p))
				if err != nil {
					return err
				}
				if ledger {
					fin, err := agg.FinancialsFrom(ctx, w.Store, p.ID)
					if err != nil {
						return fmt.Errorf("project %s: %w", p.ID, err)
					}
					line.Financials = &fin
				}
				tasks, err := w.Tasks.List(ctx, allRows(domain.KindTask), p.ID)
				if err != nil {
					return fmt.Errorf("project %s: %w", p.ID, err)
				}
				m := aggregateProjectMetrics(tasks, today)
				line.Progress, line.Overdue = m.ProgressPct, m.OverdueCount
				results[i] = line
				return nil
			})
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	lines = make([]PortfolioLine, 0, len(results))
	for _, r := range results {
		lines = append(lines, *r)
	}
	fields["projects"] = len(lines)
	return lines, nil
}

func (s *reportService) BudgetSnapshot(ctx context.Context) (lines []BudgetSnapshotLine, err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer func() { s.observe(ctx, "report.budget_snapshot", startedAt, fields, err) }()

	agg := s.aggregator()
	err = s.within(ctx, func(ctx context.Context, w *work) error {
		budgets, err := w.Budgets.List(ctx, allRows(domain.KindBudget))
		if err != nil {
			return err
		}
		lines = make([]BudgetSnapshotLine, 0, len(budgets))
		for _, b := range budgets {
			sum, err := agg.SummaryFrom(ctx, w.Store, b.ID)
			if err != nil {
				return fmt.Errorf("budget %s: %w", b.ID, err)
			}
			lines = append(lines, BudgetSnapshotLine{Budget: b, Summary: sum})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["budgets"] = len(lines)
	return lines, nil
}

// Can answers whether actor may perform action on the kind/id pair. For
// index and create on tasks, budgets and transactions, id names the parent
// project; an empty id asks without a parent.
func (s *reportService) Can(ctx context.Context, actor *domain.User, action policy.Action, kind domain.Kind, id string) (bool, error) {
	if _, err := policy.ParseKind(string(kind)); err != nil {
		return false, err
	}
	var allowed bool
	err := s.within(ctx, func(ctx context.Context, w *work) error {
		target, err := w.target(ctx, action, kind, id)
		if err != nil {
			return err
		}
		allowed, err = w.engine.Can(ctx, actor, action, target)
		return err
	})
	return allowed, err
}

func (w *work) target(ctx context.Context, action policy.Action, kind domain.Kind, id string) (policy.Target, error) {
	if id == "" {
		return policy.KindTarget(kind, nil), nil
	}
	collection := action == policy.ActionIndex || action == policy.ActionCreate
	if kind == domain.KindProject || collection {
		p, err := w.Projects.GetByID(ctx, id)
		if err != nil {
			return policy.Target{}, err
		}
		if kind == domain.KindProject {
			return policy.ProjectTarget(p), nil
		}
		return policy.KindTarget(kind, p), nil
	}
	switch kind {
	case domain.KindTask:
		t, err := w.Tasks.GetByID(ctx, id)
		if err != nil {
			return policy.Target{}, err
		}
		return policy.TaskTarget(t), nil
	case domain.KindBudget:
		b, err := w.Budgets.GetByID(ctx, id)
		if err != nil {
			return policy.Target{}, err
		}
		return policy.BudgetTarget(b), nil
	default:
		tx, err := w.Transactions.GetByID(ctx, id)
		if err != nil {
			return policy.Target{}, err
		}
		return policy.TransactionTarget(tx), nil
	}
}
