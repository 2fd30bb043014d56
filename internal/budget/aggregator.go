package budget

import (
	"context"
	"fmt"
	"time"

	"github.com/lani-platform/lani/internal/db"
	"github.com/lani-platform/lani/internal/domain"
	"github.com/lani-platform/lani/internal/graph"
	"github.com/lani-platform/lani/internal/money"
)

// Loader is the read side the aggregator needs: the graph source plus the
// two project-wide listings used by rollups.
type Loader interface {
	graph.Source
	ListBudgetsForProject(ctx context.Context, projectID string) ([]*domain.Budget, error)
	ListTransactionsForProject(ctx context.Context, projectID string) ([]*domain.Transaction, error)
}

// LoaderFunc builds a Loader bound to one transaction.
type LoaderFunc func(tx db.DBTX) Loader

// Aggregator loads budgets and transactions from a single transaction so a
// summary never mixes rows from before and after a concurrent write.
type Aggregator struct {
	uow      db.UnitOfWork
	loader   LoaderFunc
	clock    func() time.Time
	currency money.Currency
}

type Option func(*Aggregator)

func WithClock(clock func() time.Time) Option {
	return func(a *Aggregator) { a.clock = clock }
}

// WithCurrency sets the currency of empty project rollups.
func WithCurrency(c money.Currency) Option {
	return func(a *Aggregator) { a.currency = c }
}

func NewAggregator(uow db.UnitOfWork, loader LoaderFunc, opts ...Option) *Aggregator {
	a := &Aggregator{uow: uow, loader: loader, clock: time.Now, currency: money.USD}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Aggregator) BudgetSummary(ctx context.Context, budgetID string) (Summary, error) {
	var s Summary
	err := a.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		s, err = a.SummaryFrom(ctx, a.loader(tx), budgetID)
		return err
	})
	return s, err
}

// SummaryFrom summarizes a budget through src. Callers already inside a
// transaction use it to avoid opening a second one.
func (a *Aggregator) SummaryFrom(ctx context.Context, src graph.Source, budgetID string) (Summary, error) {
	b, txs, err := graph.NewReader(src).BudgetTransactions(ctx, budgetID)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(b, txs, a.clock())
}

func (a *Aggregator) ProjectFinancials(ctx context.Context, projectID string) (Financials, error) {
	var f Financials
	err := a.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		f, err = a.FinancialsFrom(ctx, a.loader(tx), projectID)
		return err
	})
	return f, err
}

func (a *Aggregator) FinancialsFrom(ctx context.Context, src Loader, projectID string) (Financials, error) {
	if _, err := src.FindProject(ctx, projectID); err != nil {
		return Financials{}, err
	}
	budgets, err := src.ListBudgetsForProject(ctx, projectID)
	if err != nil {
		return Financials{}, fmt.Errorf("listing budgets of project %s: %w", projectID, err)
	}
	txs, err := src.ListTransactionsForProject(ctx, projectID)
	if err != nil {
		return Financials{}, fmt.Errorf("listing transactions of project %s: %w", projectID, err)
	}
	cur := a.currency
	switch {
	case len(budgets) > 0:
		cur = budgets[0].Amount.Currency
	case len(txs) > 0:
		cur = txs[0].Amount.Currency
	}
	return ProjectFinancials(projectID, cur, budgets, txs)
}
