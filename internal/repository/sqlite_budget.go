package repository

import (
	"context"
	"fmt"

	"github.com/lani-platform/lani/internal/db"
	"github.com/lani-platform/lani/internal/domain"
	"github.com/lani-platform/lani/internal/money"
	"github.com/lani-platform/lani/internal/policy"
)

type SQLiteBudgetRepo struct {
	db db.DBTX
}

func NewSQLiteBudgetRepo(db db.DBTX) *SQLiteBudgetRepo {
	return &SQLiteBudgetRepo{db: db}
}

type budgetRow struct {
	ID          string `db:"id"`
	ProjectID   string `db:"project_id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	AmountCents int64  `db:"amount_cents"`
	Currency    string `db:"currency"`
	Category    string `db:"category"`
	PeriodStart string `db:"period_start"`
	PeriodEnd   string `db:"period_end"`
	CreatedAt   string `db:"created_at"`
	UpdatedAt   string `db:"updated_at"`
}

func (r budgetRow) toDomain() (*domain.Budget, error) {
	b := &domain.Budget{
		ID:          r.ID,
		ProjectID:   r.ProjectID,
		Name:        r.Name,
		Description: r.Description,
		Amount:      money.New(r.AmountCents, money.Currency(r.Currency)),
		Category:    domain.BudgetCategory(r.Category),
	}
	var err error
	if b.PeriodStart, err = domain.ParseDay(r.PeriodStart); err != nil {
		return nil, fmt.Errorf("parsing period_start: %w", err)
	}
	if b.PeriodEnd, err = domain.ParseDay(r.PeriodEnd); err != nil {
		return nil, fmt.Errorf("parsing period_end: %w", err)
	}
	if b.CreatedAt, err = parseTime(r.CreatedAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if b.UpdatedAt, err = parseTime(r.UpdatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return b, nil
}

func budgetsFromRows(rows []budgetRow) ([]*domain.Budget, error) {
	out := make([]*domain.Budget, 0, len(rows))
	for _, row := range rows {
		b, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

const budgetColumns = `b.id, b.project_id, b.name, b.description, b.amount_cents, b.currency, b.category,
	b.period_start, b.period_end, b.created_at, b.updated_at`

func (r *SQLiteBudgetRepo) Create(ctx context.Context, b *domain.Budget) error {
	query := `INSERT INTO budgets (id, project_id, name, description, amount_cents, currency, category,
		period_start, period_end, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		b.ID,
		b.ProjectID,
		b.Name,
		b.Description,
		b.Amount.Cents,
		string(b.Amount.Currency),
		string(b.Category),
		domain.Day(b.PeriodStart).Format(dateLayout),
		domain.Day(b.PeriodEnd).Format(dateLayout),
		formatTime(b.CreatedAt),
		formatTime(b.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting budget: %w", err)
	}
	return nil
}

func (r *SQLiteBudgetRepo) GetByID(ctx context.Context, id string) (*domain.Budget, error) {
	row, err := getRow[budgetRow](ctx, r.db, "budget", id,
		`SELECT `+budgetColumns+` FROM budgets b WHERE b.id = ?`, id)
	if err != nil {
		return nil, err
	}
	return row.toDomain()
}

func (r *SQLiteBudgetRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Budget, error) {
	rows, err := selectRows[budgetRow](ctx, r.db,
		`SELECT `+budgetColumns+` FROM budgets b WHERE b.project_id = ? ORDER BY b.period_start, b.name`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing budgets: %w", err)
	}
	return budgetsFromRows(rows)
}

func (r *SQLiteBudgetRepo) List(ctx context.Context, scope policy.QueryFilter) ([]*domain.Budget, error) {
	where, args := scopeClause(scope, "")
	rows, err := selectRows[budgetRow](ctx, r.db,
		`SELECT `+budgetColumns+` FROM budgets b JOIN projects p ON p.id = b.project_id
		WHERE `+where+` ORDER BY b.period_start, b.name`, args...)
	if err != nil {
		return nil, fmt.Errorf("listing budgets: %w", err)
	}
	return budgetsFromRows(rows)
}

func (r *SQLiteBudgetRepo) Update(ctx context.Context, b *domain.Budget) error {
	query := `UPDATE budgets SET name = ?, description = ?, amount_cents = ?, currency = ?, category = ?,
		period_start = ?, period_end = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		b.Name,
		b.Description,
		b.Amount.Cents,
		string(b.Amount.Currency),
		string(b.Category),
		domain.Day(b.PeriodStart).Format(dateLayout),
		domain.Day(b.PeriodEnd).Format(dateLayout),
		formatTime(b.UpdatedAt),
		b.ID,
	)
	if err != nil {
		return fmt.Errorf("updating budget: %w", err)
	}
	return requireAffected(res, "budget", b.ID)
}

// Delete removes the budget and, by cascade, its linked transactions.
func (r *SQLiteBudgetRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting budget: %w", err)
	}
	return requireAffected(res, "budget", id)
}
