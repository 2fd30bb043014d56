package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/lani-platform/lani/internal/domain"
	"github.com/lani-platform/lani/internal/money"
)

func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// User options
type UserOption func(*domain.User)

func WithRole(r domain.Role) UserOption {
	return func(u *domain.User) {
		u.Role = r
	}
}

func WithName(first, last string) UserOption {
	return func(u *domain.User) {
		u.FirstName = first
		u.LastName = last
	}
}

func NewTestUser(email string, opts ...UserOption) *domain.User {
	ts := now()
	u := &domain.User{
		ID:        uuid.New().String(),
		Email:     email,
		Role:      domain.RoleMember,
		Active:    true,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Project options
type ProjectOption func(*domain.Project)

func WithProjectStatus(s domain.ProjectStatus) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

func WithLocation(lat, lng float64, name string) ProjectOption {
	return func(p *domain.Project) {
		p.Latitude = &lat
		p.Longitude = &lng
		p.LocationName = name
	}
}

func WithProjectDates(start, end time.Time) ProjectOption {
	return func(p *domain.Project) {
		s, e := domain.Day(start), domain.Day(end)
		p.StartDate = &s
		p.EndDate = &e
	}
}

func NewTestProject(ownerID, name string, opts ...ProjectOption) *domain.Project {
	ts := now()
	p := &domain.Project{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Name:      name,
		Status:    domain.ProjectActive,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func NewTestMembership(userID, projectID string, role domain.MembershipRole) *domain.Membership {
	ts := now()
	return &domain.Membership{
		ID:        uuid.New().String(),
		UserID:    userID,
		ProjectID: projectID,
		Role:      role,
		JoinedAt:  ts,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

// Task options
type TaskOption func(*domain.Task)

func WithAssignee(userID string) TaskOption {
	return func(t *domain.Task) {
		t.AssigneeID = &userID
	}
}

func WithTaskDueDate(d time.Time) TaskOption {
	return func(t *domain.Task) {
		day := domain.Day(d)
		t.DueDate = &day
	}
}

func WithTaskStatus(s domain.TaskStatus) TaskOption {
	return func(t *domain.Task) {
		t.SetStatus(s, now())
	}
}

func WithPriority(p domain.TaskPriority) TaskOption {
	return func(t *domain.Task) {
		t.Priority = p
	}
}

func WithEstimate(hours int) TaskOption {
	return func(t *domain.Task) {
		t.EstimatedHours = &hours
	}
}

func NewTestTask(projectID, title string, opts ...TaskOption) *domain.Task {
	ts := now()
	t := &domain.Task{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Title:     title,
		Status:    domain.TaskTodo,
		Priority:  domain.PriorityMedium,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Budget options
type BudgetOption func(*domain.Budget)

func WithCategory(c domain.BudgetCategory) BudgetOption {
	return func(b *domain.Budget) {
		b.Category = c
	}
}

func WithPeriod(start, end time.Time) BudgetOption {
	return func(b *domain.Budget) {
		b.PeriodStart = domain.Day(start)
		b.PeriodEnd = domain.Day(end)
	}
}

func WithBudgetCurrency(c money.Currency) BudgetOption {
	return func(b *domain.Budget) {
		b.Amount.Currency = c
	}
}

// NewTestBudget creates a USD materials budget whose period spans the
// current year.
func NewTestBudget(projectID, name string, cents int64, opts ...BudgetOption) *domain.Budget {
	ts := now()
	year := ts.Year()
	b := &domain.Budget{
		ID:          uuid.New().String(),
		ProjectID:   projectID,
		Name:        name,
		Amount:      money.New(cents, money.USD),
		Category:    domain.CategoryMaterials,
		PeriodStart: time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC),
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Transaction options
type TransactionOption func(*domain.Transaction)

func InBudget(budgetID string) TransactionOption {
	return func(t *domain.Transaction) {
		t.BudgetID = &budgetID
	}
}

func AsIncome() TransactionOption {
	return func(t *domain.Transaction) {
		t.Type = domain.TransactionIncome
	}
}

func OnDate(d time.Time) TransactionOption {
	return func(t *domain.Transaction) {
		t.Date = domain.Day(d)
	}
}

func WithTransactionCurrency(c money.Currency) TransactionOption {
	return func(t *domain.Transaction) {
		t.Amount.Currency = c
	}
}

// NewTestTransaction creates a USD expense dated today.
func NewTestTransaction(projectID, userID string, cents int64, opts ...TransactionOption) *domain.Transaction {
	ts := now()
	t := &domain.Transaction{
		ID:          uuid.New().String(),
		ProjectID:   projectID,
		UserID:      userID,
		Description: "Test transaction",
		Amount:      money.New(cents, money.USD),
		Type:        domain.TransactionExpense,
		Date:        domain.Day(ts),
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}
