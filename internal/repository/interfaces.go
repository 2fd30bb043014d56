package repository

import (
	"context"
	"time"

	"github.com/lani-platform/lani/internal/domain"
	"github.com/lani-platform/lani/internal/policy"
)

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id string) error
}

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, scope policy.QueryFilter) ([]*domain.Project, error)
	ListOwnedBy(ctx context.Context, userID string) ([]*domain.Project, error)
	CountOwnedBy(ctx context.Context, userID string) (int, error)
	IsOwner(ctx context.Context, userID, projectID string) (bool, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

type MembershipRepo interface {
	Create(ctx context.Context, m *domain.Membership) error
	Get(ctx context.Context, userID, projectID string) (*domain.Membership, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Membership, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Membership, error)
	UpdateRole(ctx context.Context, userID, projectID string, role domain.MembershipRole) error
	Delete(ctx context.Context, userID, projectID string) error
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, scope policy.QueryFilter, projectID string) ([]*domain.Task, error)
	ListOverdue(ctx context.Context, scope policy.QueryFilter, today time.Time) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
}

type BudgetRepo interface {
	Create(ctx context.Context, b *domain.Budget) error
	GetByID(ctx context.Context, id string) (*domain.Budget, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Budget, error)
	List(ctx context.Context, scope policy.QueryFilter) ([]*domain.Budget, error)
	Update(ctx context.Context, b *domain.Budget) error
	Delete(ctx context.Context, id string) error
}

type TransactionRepo interface {
	Create(ctx context.Context, t *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Transaction, error)
	ListByBudget(ctx context.Context, budgetID string) ([]*domain.Transaction, error)
	ListByBudgets(ctx context.Context, budgetIDs []string) ([]*domain.Transaction, error)
	List(ctx context.Context, scope policy.QueryFilter) ([]*domain.Transaction, error)
	Update(ctx context.Context, t *domain.Transaction) error
	Delete(ctx context.Context, id string) error
}
