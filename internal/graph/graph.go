// Package graph reads the project relationships that authorization decisions
// depend on. It never mutates anything.
package graph

import (
	"context"
	"fmt"

	"github.com/lani-platform/lani/internal/domain"
)

// Source is the persistence collaborator. Implementations must return an
// error wrapping domain.ErrNotFound for missing rows.
type Source interface {
	FindProject(ctx context.Context, id string) (*domain.Project, error)
	FindBudget(ctx context.Context, id string) (*domain.Budget, error)
	ListTransactionsForBudget(ctx context.Context, budgetID string) ([]*domain.Transaction, error)
	ListMembershipsForProject(ctx context.Context, projectID string) ([]*domain.Membership, error)
	IsProjectOwner(ctx context.Context, userID, projectID string) (bool, error)
}

// Resource is any entity that belongs to exactly one project.
type Resource interface {
	OwningProjectID() string
}

var (
	_ Resource = (*domain.Project)(nil)
	_ Resource = (*domain.Task)(nil)
	_ Resource = (*domain.Budget)(nil)
	_ Resource = (*domain.Transaction)(nil)
)

// Facts is what the graph knows about one user's relation to one project.
type Facts struct {
	UserID         string
	ProjectID      string
	Owner          bool
	Member         bool // explicit membership or owner
	MembershipRole domain.MembershipRole
}

// IsMembershipManager reports a project_manager membership row.
func (f Facts) IsMembershipManager() bool {
	return f.MembershipRole == domain.MembershipProjectManager
}

type Reader struct {
	src Source
}

func NewReader(src Source) *Reader {
	return &Reader{src: src}
}

// ProjectOf returns the project that owns res. A transaction without a
// project reference is resolved through its budget.
func (r *Reader) ProjectOf(ctx context.Context, res Resource) (*domain.Project, error) {
	switch v := res.(type) {
	case *domain.Project:
		return v, nil
	case *domain.Transaction:
		if v.ProjectID == "" && v.BudgetID != nil {
			b, err := r.src.FindBudget(ctx, *v.BudgetID)
			if err != nil {
				return nil, fmt.Errorf("resolving budget of transaction %s: %w", v.ID, err)
			}
			return r.src.FindProject(ctx, b.ProjectID)
		}
	}
	return r.src.FindProject(ctx, res.OwningProjectID())
}

// MemberIDs returns the owner followed by every explicit member, without
// duplicates.
func (r *Reader) MemberIDs(ctx context.Context, p *domain.Project) ([]string, error) {
	memberships, err := r.src.ListMembershipsForProject(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("listing memberships of project %s: %w", p.ID, err)
	}
	seen := map[string]bool{p.OwnerID: true}
	ids := []string{p.OwnerID}
	for _, m := range memberships {
		if seen[m.UserID] {
			continue
		}
		seen[m.UserID] = true
		ids = append(ids, m.UserID)
	}
	return ids, nil
}

// Facts resolves userID's relation to project p. The owner is always a
// member, with or without a membership row.
func (r *Reader) Facts(ctx context.Context, userID string, p *domain.Project) (Facts, error) {
	f := Facts{UserID: userID, ProjectID: p.ID}
	if userID == "" {
		return f, nil
	}
	owner, err := r.src.IsProjectOwner(ctx, userID, p.ID)
	if err != nil {
		return Facts{}, fmt.Errorf("checking owner of project %s: %w", p.ID, err)
	}
	f.Owner = owner
	f.Member = owner

	memberships, err := r.src.ListMembershipsForProject(ctx, p.ID)
	if err != nil {
		return Facts{}, fmt.Errorf("listing memberships of project %s: %w", p.ID, err)
	}
	for _, m := range memberships {
		if m.UserID == userID {
			f.Member = true
			f.MembershipRole = m.Role
			break
		}
	}
	return f, nil
}

// IsMember reports whether userID owns p or holds a membership row for it.
func (r *Reader) IsMember(ctx context.Context, userID string, p *domain.Project) (bool, error) {
	f, err := r.Facts(ctx, userID, p)
	if err != nil {
		return false, err
	}
	return f.Member, nil
}

// BudgetTransactions loads a budget and its linked transactions.
func (r *Reader) BudgetTransactions(ctx context.Context, budgetID string) (*domain.Budget, []*domain.Transaction, error) {
	b, err := r.src.FindBudget(ctx, budgetID)
	if err != nil {
		return nil, nil, err
	}
	txs, err := r.src.ListTransactionsForBudget(ctx, budgetID)
	if err != nil {
		return nil, nil, fmt.Errorf("listing transactions of budget %s: %w", budgetID, err)
	}
	return b, txs, nil
}

func IsOwner(userID string, p *domain.Project) bool {
	return p != nil && p.IsOwnedBy(userID)
}

func IsAssignee(userID string, t *domain.Task) bool {
	return t != nil && t.IsAssignedTo(userID)
}

func IsRecorder(userID string, tx *domain.Transaction) bool {
	return tx != nil && tx.RecordedBy(userID)
}
