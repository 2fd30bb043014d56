package service

import (
	"context"

	"github.com/lani-platform/lani/internal/budget"
	"github.com/lani-platform/lani/internal/domain"
	"github.com/lani-platform/lani/internal/importer"
	"github.com/lani-platform/lani/internal/money"
	"github.com/lani-platform/lani/internal/policy"
)

// Every method taking an actor authorizes through the policy engine and
// returns an error wrapping ErrForbidden on deny. A nil actor is anonymous.

type ProjectService interface {
	Create(ctx context.Context, actor *domain.User, p *domain.Project) error
	Get(ctx context.Context, actor *domain.User, id string) (*domain.Project, error)
	List(ctx context.Context, actor *domain.User) ([]*domain.Project, error)
	Update(ctx context.Context, actor *domain.User, p *domain.Project) error
	Delete(ctx context.Context, actor *domain.User, id string) error
	Progress(ctx context.Context, actor *domain.User, id string) (float64, error)
}

// TaskChanges lists the task fields an update may change. Nil fields are
// left alone.
type TaskChanges struct {
	Title          *string
	Description    *string
	Status         *domain.TaskStatus
	Priority       *domain.TaskPriority
	DueDate        *string // "" clears
	EstimatedHours *int
	ActualHours    *int
}

type TaskService interface {
	Create(ctx context.Context, actor *domain.User, t *domain.Task) error
	Get(ctx context.Context, actor *domain.User, id string) (*domain.Task, error)
	// List returns the actor's visible tasks, limited to projectID when set.
	List(ctx context.Context, actor *domain.User, projectID string) ([]*domain.Task, error)
	Update(ctx context.Context, actor *domain.User, id string, changes TaskChanges) (*domain.Task, error)
	// Assign sets or, with a nil assigneeID, clears the task's assignee.
	Assign(ctx context.Context, actor *domain.User, id string, assigneeID *string) (*domain.Task, error)
	Delete(ctx context.Context, actor *domain.User, id string) error
	Overdue(ctx context.Context, actor *domain.User) ([]*domain.Task, error)
}

type BudgetService interface {
	Create(ctx context.Context, actor *domain.User, b *domain.Budget) error
	Get(ctx context.Context, actor *domain.User, id string) (*domain.Budget, error)
	ListByProject(ctx context.Context, actor *domain.User, projectID string) ([]*domain.Budget, error)
	List(ctx context.Context, actor *domain.User) ([]*domain.Budget, error)
	Update(ctx context.Context, actor *domain.User, b *domain.Budget) error
	Delete(ctx context.Context, actor *domain.User, id string) error
	Summary(ctx context.Context, actor *domain.User, id string) (budget.Summary, error)
}

// RecordResult is the outcome of a transaction write. Alert is set when the
// write escalated its budget's status.
type RecordResult struct {
	Transaction *domain.Transaction
	Summary     *budget.Summary
	Alert       *BudgetAlertInfo
}

// BudgetAlertInfo summarizes a raised budget alert for callers.
type BudgetAlertInfo struct {
	BudgetID  string
	Previous  budget.Status
	Current   budget.Status
	Published bool
}

type TransactionService interface {
	Record(ctx context.Context, actor *domain.User, tx *domain.Transaction) (*RecordResult, error)
	Get(ctx context.Context, actor *domain.User, id string) (*domain.Transaction, error)
	ListByProject(ctx context.Context, actor *domain.User, projectID string) ([]*domain.Transaction, error)
	List(ctx context.Context, actor *domain.User) ([]*domain.Transaction, error)
	Update(ctx context.Context, actor *domain.User, tx *domain.Transaction) (*RecordResult, error)
	Delete(ctx context.Context, actor *domain.User, id string) error
	// OverBudgetImpact is how far the transaction's budget is overspent.
	OverBudgetImpact(ctx context.Context, actor *domain.User, id string) (money.Amount, error)
}

type MembershipService interface {
	Add(ctx context.Context, actor *domain.User, projectID, userID string, role domain.MembershipRole) (*domain.Membership, error)
	Remove(ctx context.Context, actor *domain.User, projectID, userID string) error
	SetRole(ctx context.Context, actor *domain.User, projectID, userID string, role domain.MembershipRole) error
	List(ctx context.Context, actor *domain.User, projectID string) ([]*domain.Membership, error)
}

type UserService interface {
	Create(ctx context.Context, actor *domain.User, u *domain.User) error
	Get(ctx context.Context, id string) (*domain.User, error)
	ByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, actor *domain.User) ([]*domain.User, error)
	Delete(ctx context.Context, actor *domain.User, id string) error
	TransferOwnership(ctx context.Context, actor *domain.User, projectID, newOwnerID string) error
}

// PortfolioLine is one project's row in a portfolio report. Financials is
// nil when the actor may see the project but not its budgets.
type PortfolioLine struct {
	Project    *domain.Project
	Financials *budget.Financials
	Progress   float64
	Overdue    int
}

type ReportService interface {
	ProjectFinancials(ctx context.Context, actor *domain.User, projectID string) (budget.Financials, error)
	// Portfolio reports on every project the actor may see, or only on
	// projectIDs when given.
	Portfolio(ctx context.Context, actor *domain.User, projectIDs ...string) ([]PortfolioLine, error)
	// Can answers an authorization question without performing the action.
	Can(ctx context.Context, actor *domain.User, action policy.Action, kind domain.Kind, id string) (bool, error)
	// BudgetSnapshot summarizes every budget from one consistent read. It is
	// an operator view for the metrics exporter and takes no actor.
	BudgetSnapshot(ctx context.Context) ([]BudgetSnapshotLine, error)
}

// BudgetSnapshotLine is one budget with its computed summary.
type BudgetSnapshotLine struct {
	Budget  *domain.Budget
	Summary budget.Summary
}

// SeedResult counts the rows a seed created.
type SeedResult struct {
	Users        int
	Projects     int
	Memberships  int
	Tasks        int
	Budgets      int
	Transactions int
}

type SeedService interface {
	SeedFile(ctx context.Context, path string) (*SeedResult, error)
	Seed(ctx context.Context, seed *importer.SeedFile) (*SeedResult, error)
}
