package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lani-platform/lani/internal/budget"
	"github.com/lani-platform/lani/internal/db"
	"github.com/lani-platform/lani/internal/domain"
	"github.com/lani-platform/lani/internal/graph"
	"github.com/lani-platform/lani/internal/metrics"
	"github.com/lani-platform/lani/internal/money"
	"github.com/lani-platform/lani/internal/notify"
	"github.com/lani-platform/lani/internal/policy"
)

type transactionService struct {
	base
}

// NewTransactionService returns the transaction use cases. Writes that push a
// budget into a worse status publish a notify.BudgetAlert after commit.
func NewTransactionService(uow db.UnitOfWork, opts ...Option) TransactionService {
	return &transactionService{base: newBase(uow, opts)}
}

// Record stores tx with the actor as recorder. The date defaults to today and
// the currency to the budget's.
func (s *transactionService) Record(ctx context.Context, actor *domain.User, tx *domain.Transaction) (res *RecordResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"project_id": tx.ProjectID, "type": string(tx.Type)}
	defer func() { s.observe(ctx, "transaction.record", startedAt, fields, err) }()

	var pending *notify.BudgetAlert
	res = &RecordResult{Transaction: tx}
	err = s.within(ctx, func(ctx context.Context, w *work) error {
		p, err := w.Projects.GetByID(ctx, tx.ProjectID)
		if err != nil {
			return err
		}
		if err := w.authorize(ctx, actor, policy.ActionCreate, policy.KindTarget(domain.KindTransaction, p)); err != nil {
			return err
		}
		b, err := w.budgetInProject(ctx, tx.BudgetID, p.ID)
		if err != nil {
			return err
		}

		if tx.ID == "" {
			tx.ID = uuid.New().String()
		}
		tx.UserID = actor.ID
		if tx.Date.IsZero() {
			tx.Date = s.today()
		}
		tx.Date = domain.Day(tx.Date)
		s.defaultCurrency(tx, b)
		now := s.now()
		tx.CreatedAt, tx.UpdatedAt = now, now
		if err := tx.Validate(); err != nil {
			return err
		}
		if err := checkCurrency(tx, b); err != nil {
			return err
		}
		fields["transaction_id"] = tx.ID

		return s.trackBudget(ctx, w, b, tx, res, &pending, func() error {
			return w.Transactions.Create(ctx, tx)
		})
	})
	if err != nil {
		return nil, err
	}
	res.Alert = s.raise(ctx, pending)
	if res.Alert != nil {
		fields["alert"] = string(res.Alert.Current)
	}
	return res, nil
}

func (s *transactionService) Get(ctx context.Context, actor *domain.User, id string) (*domain.Transaction, error) {
	var tx *domain.Transaction
	err := s.within(ctx, func(ctx context.Context, w *work) error {
		var err error
		tx, err = w.transaction(ctx, actor, policy.ActionShow, id)
		return err
	})
	return tx, err
}

func (s *transactionService) ListByProject(ctx context.Context, actor *domain.User, projectID string) ([]*domain.Transaction, error) {
	var out []*domain.Transaction
	err := s.within(ctx, func(ctx context.Context, w *work) error {
		p, err := w.Projects.GetByID(ctx, projectID)
		if err != nil {
			return err
		}
		if err := w.authorize(ctx, actor, policy.ActionIndex, policy.KindTarget(domain.KindTransaction, p)); err != nil {
			return err
		}
		out, err = w.Transactions.ListByProject(ctx, projectID)
		return err
	})
	return out, err
}

// List returns the transactions of every project the actor may list.
func (s *transactionService) List(ctx context.Context, actor *domain.User) ([]*domain.Transaction, error) {
	var out []*domain.Transaction
	err := s.within(ctx, func(ctx context.Context, w *work) error {
		var err error
		out, err = w.Transactions.List(ctx, policy.Scope(actor, domain.KindTransaction))
		return err
	})
	return out, err
}

// Update copies the editable fields of tx onto the stored transaction. The
// project and recorder never change.
func (s *transactionService) Update(ctx context.Context, actor *domain.User, tx *domain.Transaction) (res *RecordResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"transaction_id": tx.ID}
	defer func() { s.observe(ctx, "transaction.update", startedAt, fields, err) }()

	var pending *notify.BudgetAlert
	err = s.within(ctx, func(ctx context.Context, w *work) error {
		existing, err := w.transaction(ctx, actor, policy.ActionUpdate, tx.ID)
		if err != nil {
			return err
		}
		b, err := w.budgetInProject(ctx, tx.BudgetID, existing.ProjectID)
		if err != nil {
			return err
		}
		existing.BudgetID = tx.BudgetID
		existing.Description = tx.Description
		existing.Amount = tx.Amount
		existing.Type = tx.Type
		if !tx.Date.IsZero() {
			existing.Date = domain.Day(tx.Date)
		}
		existing.Notes = tx.Notes
		s.defaultCurrency(existing, b)
		existing.UpdatedAt = s.now()
		if err := existing.Validate(); err != nil {
			return err
		}
		if err := checkCurrency(existing, b); err != nil {
			return err
		}

		res = &RecordResult{Transaction: existing}
		return s.trackBudget(ctx, w, b, existing, res, &pending, func() error {
			return w.Transactions.Update(ctx, existing)
		})
	})
	if err != nil {
		return nil, err
	}
	*tx = *res.Transaction
	res.Alert = s.raise(ctx, pending)
	return res, nil
}

func (s *transactionService) Delete(ctx context.Context, actor *domain.User, id string) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"transaction_id": id}
	defer func() { s.observe(ctx, "transaction.delete", startedAt, fields, err) }()

	return s.within(ctx, func(ctx context.Context, w *work) error {
		if _, err := w.transaction(ctx, actor, policy.ActionDestroy, id); err != nil {
			return err
		}
		return w.Transactions.Delete(ctx, id)
	})
}

func (s *transactionService) OverBudgetImpact(ctx context.Context, actor *domain.User, id string) (money.Amount, error) {
	var impact money.Amount
	err := s.within(ctx, func(ctx context.Context, w *work) error {
		tx, err := w.transaction(ctx, actor, policy.ActionShow, id)
		if err != nil {
			return err
		}
		if tx.BudgetID == nil {
			impact = money.Zero(tx.Amount.Currency)
			return nil
		}
		b, txs, err := graph.NewReader(w.Store).BudgetTransactions(ctx, *tx.BudgetID)
		if err != nil {
			return err
		}
		impact, err = budget.OverBudgetImpact(tx, b, txs)
		return err
	})
	return impact, err
}

// trackBudget runs write and, when tx counts against b, summarizes b before
// and after it. An escalation is left in pending for publication after
// commit.
func (s *transactionService) trackBudget(ctx context.Context, w *work, b *domain.Budget, tx *domain.Transaction,
	res *RecordResult, pending **notify.BudgetAlert, write func() error) error {
	if b == nil || !tx.AffectsBudget() {
		return write()
	}
	agg := s.aggregator()
	before, err := agg.SummaryFrom(ctx, w.Store, b.ID)
	if err != nil {
		return err
	}
	if err := write(); err != nil {
		return err
	}
	after, err := agg.SummaryFrom(ctx, w.Store, b.ID)
	if err != nil {
		return err
	}
	res.Summary = &after
	if alert, ok := notify.NewBudgetAlert(b.ProjectID, before, after, s.now()); ok {
		alert.TransactionID = tx.ID
		*pending = &alert
	}
	return nil
}

// raise publishes a committed alert. A publish failure is logged, not
// returned: the write it reports on has already committed.
func (s *transactionService) raise(ctx context.Context, alert *notify.BudgetAlert) *BudgetAlertInfo {
	if alert == nil {
		return nil
	}
	metrics.RecordBudgetAlert(string(alert.Current))
	info := &BudgetAlertInfo{BudgetID: alert.BudgetID, Previous: alert.Previous, Current: alert.Current}
	if err := s.alerts.PublishBudgetAlert(ctx, *alert); err != nil {
		s.logger.WarnContext(ctx, "budget_alert_publish_failed",
			"budget_id", alert.BudgetID,
			"status", string(alert.Current),
			"error", err.Error(),
		)
		return info
	}
	info.Published = true
	return info
}

func (s *transactionService) defaultCurrency(tx *domain.Transaction, b *domain.Budget) {
	if tx.Amount.Currency != "" {
		return
	}
	if b != nil {
		tx.Amount.Currency = b.Amount.Currency
		return
	}
	tx.Amount.Currency = s.currency
}

func checkCurrency(tx *domain.Transaction, b *domain.Budget) error {
	if b != nil && tx.Amount.Currency != b.Amount.Currency {
		return &money.CurrencyMismatchError{Left: b.Amount.Currency, Right: tx.Amount.Currency}
	}
	return nil
}

// budgetInProject loads the budget id refers to, if any, and checks that it
// belongs to projectID. Call it only after the actor is authorized on
// projectID; the error does not name the budget's real project.
func (w *work) budgetInProject(ctx context.Context, id *string, projectID string) (*domain.Budget, error) {
	if id == nil {
		return nil, nil
	}
	b, err := w.Budgets.GetByID(ctx, *id)
	if err != nil {
		return nil, err
	}
	if b.ProjectID != projectID {
		return nil, fmt.Errorf("budget %s is not part of project %s", b.ID, projectID)
	}
	return b, nil
}

func (w *work) transaction(ctx context.Context, actor *domain.User, action policy.Action, id string) (*domain.Transaction, error) {
	tx, err := w.Transactions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := w.authorize(ctx, actor, action, policy.TransactionTarget(tx)); err != nil {
		return nil, err
	}
	return tx, nil
}
