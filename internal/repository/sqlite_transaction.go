package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lani-platform/lani/internal/db"
	"github.com/lani-platform/lani/internal/domain"
	"github.com/lani-platform/lani/internal/money"
	"github.com/lani-platform/lani/internal/policy"
)

type SQLiteTransactionRepo struct {
	db db.DBTX
}

func NewSQLiteTransactionRepo(db db.DBTX) *SQLiteTransactionRepo {
	return &SQLiteTransactionRepo{db: db}
}

type transactionRow struct {
	ID              string         `db:"id"`
	ProjectID       string         `db:"project_id"`
	BudgetID        sql.NullString `db:"budget_id"`
	UserID          string         `db:"user_id"`
	Description     string         `db:"description"`
	AmountCents     int64          `db:"amount_cents"`
	Currency        string         `db:"currency"`
	TransactionType string         `db:"transaction_type"`
	TransactionDate string         `db:"transaction_date"`
	Notes           string         `db:"notes"`
	CreatedAt       string         `db:"created_at"`
	UpdatedAt       string         `db:"updated_at"`
}

func (r transactionRow) toDomain() (*domain.Transaction, error) {
	t := &domain.Transaction{
		ID:          r.ID,
		ProjectID:   r.ProjectID,
		BudgetID:    nullableString(r.BudgetID),
		UserID:      r.UserID,
		Description: r.Description,
		Amount:      money.New(r.AmountCents, money.Currency(r.Currency)),
		Type:        domain.TransactionType(r.TransactionType),
		Notes:       r.Notes,
	}
	var err error
	if t.Date, err = domain.ParseDay(r.TransactionDate); err != nil {
		return nil, fmt.Errorf("parsing transaction_date: %w", err)
	}
	if t.CreatedAt, err = parseTime(r.CreatedAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if t.UpdatedAt, err = parseTime(r.UpdatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return t, nil
}

func transactionsFromRows(rows []transactionRow) ([]*domain.Transaction, error) {
	out := make([]*domain.Transaction, 0, len(rows))
	for _, row := range rows {
		t, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

const transactionColumns = `x.id, x.project_id, x.budget_id, x.user_id, x.description, x.amount_cents, x.currency,
	x.transaction_type, x.transaction_date, x.notes, x.created_at, x.updated_at`

// Most recent first, as ledgers are read.
const transactionOrder = ` ORDER BY x.transaction_date DESC, x.created_at DESC, x.id`

func (r *SQLiteTransactionRepo) Create(ctx context.Context, t *domain.Transaction) error {
	query := `INSERT INTO transactions (id, project_id, budget_id, user_id, description, amount_cents, currency,
		transaction_type, transaction_date, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.ProjectID,
		nullableStringToValue(t.BudgetID),
		t.UserID,
		t.Description,
		t.Amount.Cents,
		string(t.Amount.Currency),
		string(t.Type),
		domain.Day(t.Date).Format(dateLayout),
		t.Notes,
		formatTime(t.CreatedAt),
		formatTime(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting transaction: %w", err)
	}
	return nil
}

func (r *SQLiteTransactionRepo) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	row, err := getRow[transactionRow](ctx, r.db, "transaction", id,
		`SELECT `+transactionColumns+` FROM transactions x WHERE x.id = ?`, id)
	if err != nil {
		return nil, err
	}
	return row.toDomain()
}

func (r *SQLiteTransactionRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Transaction, error) {
	rows, err := selectRows[transactionRow](ctx, r.db,
		`SELECT `+transactionColumns+` FROM transactions x WHERE x.project_id = ?`+transactionOrder, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	return transactionsFromRows(rows)
}

func (r *SQLiteTransactionRepo) ListByBudget(ctx context.Context, budgetID string) ([]*domain.Transaction, error) {
	rows, err := selectRows[transactionRow](ctx, r.db,
		`SELECT `+transactionColumns+` FROM transactions x WHERE x.budget_id = ?`+transactionOrder, budgetID)
	if err != nil {
		return nil, fmt.Errorf("listing budget transactions: %w", err)
	}
	return transactionsFromRows(rows)
}

// ListByBudgets loads the transactions of several budgets in one query.
func (r *SQLiteTransactionRepo) ListByBudgets(ctx context.Context, budgetIDs []string) ([]*domain.Transaction, error) {
	if len(budgetIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(
		`SELECT `+transactionColumns+` FROM transactions x WHERE x.budget_id IN (?)`+transactionOrder, budgetIDs)
	if err != nil {
		return nil, fmt.Errorf("building budget transactions query: %w", err)
	}
	rows, err := selectRows[transactionRow](ctx, r.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing budget transactions: %w", err)
	}
	return transactionsFromRows(rows)
}

func (r *SQLiteTransactionRepo) List(ctx context.Context, scope policy.QueryFilter) ([]*domain.Transaction, error) {
	where, args := scopeClause(scope, "")
	rows, err := selectRows[transactionRow](ctx, r.db,
		`SELECT `+transactionColumns+` FROM transactions x JOIN projects p ON p.id = x.project_id
		WHERE `+where+transactionOrder, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	return transactionsFromRows(rows)
}

func (r *SQLiteTransactionRepo) Update(ctx context.Context, t *domain.Transaction) error {
	query := `UPDATE transactions SET budget_id = ?, description = ?, amount_cents = ?, currency = ?,
		transaction_type = ?, transaction_date = ?, notes = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		nullableStringToValue(t.BudgetID),
		t.Description,
		t.Amount.Cents,
		string(t.Amount.Currency),
		string(t.Type),
		domain.Day(t.Date).Format(dateLayout),
		t.Notes,
		formatTime(t.UpdatedAt),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating transaction: %w", err)
	}
	return requireAffected(res, "transaction", t.ID)
}

func (r *SQLiteTransactionRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}
	return requireAffected(res, "transaction", id)
}
