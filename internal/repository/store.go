package repository

import (
	"context"

	"github.com/lani-platform/lani/internal/budget"
	"github.com/lani-platform/lani/internal/db"
	"github.com/lani-platform/lani/internal/domain"
	"github.com/lani-platform/lani/internal/graph"
)

// Store groups the repositories bound to one DBTX. Built from a *sql.Tx it
// gives every read in a unit of work the same snapshot.
type Store struct {
	Users        *SQLiteUserRepo
	Projects     *SQLiteProjectRepo
	Memberships  *SQLiteMembershipRepo
	Tasks        *SQLiteTaskRepo
	Budgets      *SQLiteBudgetRepo
	Transactions *SQLiteTransactionRepo
}

var (
	_ graph.Source  = (*Store)(nil)
	_ budget.Loader = (*Store)(nil)

	_ UserRepo        = (*SQLiteUserRepo)(nil)
	_ ProjectRepo     = (*SQLiteProjectRepo)(nil)
	_ MembershipRepo  = (*SQLiteMembershipRepo)(nil)
	_ TaskRepo        = (*SQLiteTaskRepo)(nil)
	_ BudgetRepo      = (*SQLiteBudgetRepo)(nil)
	_ TransactionRepo = (*SQLiteTransactionRepo)(nil)
)

func NewStore(q db.DBTX) *Store {
	return &Store{
		Users:        NewSQLiteUserRepo(q),
		Projects:     NewSQLiteProjectRepo(q),
		Memberships:  NewSQLiteMembershipRepo(q),
		Tasks:        NewSQLiteTaskRepo(q),
		Budgets:      NewSQLiteBudgetRepo(q),
		Transactions: NewSQLiteTransactionRepo(q),
	}
}

// Loader adapts NewStore to budget.LoaderFunc.
func Loader(q db.DBTX) budget.Loader {
	return NewStore(q)
}

func (s *Store) FindProject(ctx context.Context, id string) (*domain.Project, error) {
	return s.Projects.GetByID(ctx, id)
}

func (s *Store) FindBudget(ctx context.Context, id string) (*domain.Budget, error) {
	return s.Budgets.GetByID(ctx, id)
}

func (s *Store) ListTransactionsForBudget(ctx context.Context, budgetID string) ([]*domain.Transaction, error) {
	return s.Transactions.ListByBudget(ctx, budgetID)
}

func (s *Store) ListMembershipsForProject(ctx context.Context, projectID string) ([]*domain.Membership, error) {
	return s.Memberships.ListByProject(ctx, projectID)
}

func (s *Store) IsProjectOwner(ctx context.Context, userID, projectID string) (bool, error) {
	return s.Projects.IsOwner(ctx, userID, projectID)
}

func (s *Store) ListBudgetsForProject(ctx context.Context, projectID string) ([]*domain.Budget, error) {
	return s.Budgets.ListByProject(ctx, projectID)
}

func (s *Store) ListTransactionsForProject(ctx context.Context, projectID string) ([]*domain.Transaction, error) {
	return s.Transactions.ListByProject(ctx, projectID)
}
