package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lani-platform/lani/internal/budget"
	"github.com/lani-platform/lani/internal/db"
	"github.com/lani-platform/lani/internal/domain"
	"github.com/lani-platform/lani/internal/graph"
	"github.com/lani-platform/lani/internal/money"
	"github.com/lani-platform/lani/internal/notify"
	"github.com/lani-platform/lani/internal/policy"
	"github.com/lani-platform/lani/internal/repository"
)

// ErrForbidden is returned when the policy engine denies an action.
var ErrForbidden = errors.New("forbidden")

func forbidden(action policy.Action, target policy.Target) error {
	if id := target.ResourceID(); id != "" {
		return fmt.Errorf("%s %s %s: %w", action, target.Kind, id, ErrForbidden)
	}
	return fmt.Errorf("%s %s: %w", action, target.Kind, ErrForbidden)
}

// base carries the collaborators every service shares.
type base struct {
	uow       db.UnitOfWork
	decisions policy.DecisionObserver
	observers []UseCaseObserver
	observer  UseCaseObserver
	clock     func() time.Time
	currency  money.Currency
	alerts    notify.Publisher
	logger    *slog.Logger
}

type Option func(*base)

// WithDecisionObserver receives every policy decision made by the service.
func WithDecisionObserver(o policy.DecisionObserver) Option {
	return func(b *base) { b.decisions = o }
}

// WithUseCaseObserver adds an observer. It may be given more than once.
func WithUseCaseObserver(o UseCaseObserver) Option {
	return func(b *base) { b.observers = append(b.observers, o) }
}

func WithClock(clock func() time.Time) Option {
	return func(b *base) { b.clock = clock }
}

// WithCurrency sets the currency used when a request names none.
func WithCurrency(c money.Currency) Option {
	return func(b *base) { b.currency = c }
}

func WithAlertPublisher(p notify.Publisher) Option {
	return func(b *base) { b.alerts = p }
}

func WithLogger(l *slog.Logger) Option {
	return func(b *base) { b.logger = l }
}

func newBase(uow db.UnitOfWork, opts []Option) base {
	b := base{
		uow:      uow,
		clock:    time.Now,
		currency: money.USD,
		alerts:   notify.NewNoopPublisher(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(&b)
	}
	b.observer = useCaseObserverOrNoop(b.observers)
	return b
}

func (b *base) now() time.Time { return b.clock().UTC() }

func (b *base) today() time.Time { return domain.Day(b.clock()) }

func (b *base) aggregator() *budget.Aggregator {
	return budget.NewAggregator(b.uow, repository.Loader,
		budget.WithClock(b.clock),
		budget.WithCurrency(b.currency),
	)
}

func (b *base) observe(ctx context.Context, name string, startedAt time.Time, fields map[string]any, err error) {
	b.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
	})
}

// work is one unit of work: repositories and a policy engine reading the
// same transaction.
type work struct {
	*repository.Store
	engine *policy.Engine
}

func (b *base) within(ctx context.Context, fn func(ctx context.Context, w *work) error) error {
	return b.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		store := repository.NewStore(tx)
		engine := policy.NewEngine(graph.NewReader(store), policy.WithDecisionObserver(b.decisions))
		return fn(ctx, &work{Store: store, engine: engine})
	})
}

func (w *work) authorize(ctx context.Context, actor *domain.User, action policy.Action, target policy.Target) error {
	ok, err := w.engine.Can(ctx, actor, action, target)
	if err != nil {
		return fmt.Errorf("authorizing %s %s: %w", action, target.Kind, err)
	}
	if !ok {
		return forbidden(action, target)
	}
	return nil
}

// project loads a project and checks action on it.
func (w *work) project(ctx context.Context, actor *domain.User, action policy.Action, id string) (*domain.Project, error) {
	p, err := w.Projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := w.authorize(ctx, actor, action, policy.ProjectTarget(p)); err != nil {
		return nil, err
	}
	return p, nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("seed validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
