package testutil

import (
	"context"
	"sync"

	"github.com/lani-platform/lani/internal/domain"
	"github.com/lani-platform/lani/internal/graph"
)

// MemorySource is a map-backed graph.Source for tests that need the
// policy engine or aggregator without a database.
type MemorySource struct {
	mu           sync.RWMutex
	projects     map[string]*domain.Project
	budgets      map[string]*domain.Budget
	transactions []*domain.Transaction
	memberships  []*domain.Membership
}

var _ graph.Source = (*MemorySource)(nil)

func NewMemorySource() *MemorySource {
	return &MemorySource{
		projects: make(map[string]*domain.Project),
		budgets:  make(map[string]*domain.Budget),
	}
}

func (m *MemorySource) AddProject(p *domain.Project) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.projects[p.ID] = p
}

func (m *MemorySource) AddBudget(b *domain.Budget) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.budgets[b.ID] = b
}

func (m *MemorySource) AddTransaction(t *domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions = append(m.transactions, t)
}

// AddMembership inserts ms, replacing any existing row for the same
// (user, project) pair.
func (m *MemorySource) AddMembership(ms *domain.Membership) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.memberships {
		if existing.UserID == ms.UserID && existing.ProjectID == ms.ProjectID {
			m.memberships[i] = ms
			return
		}
	}
	m.memberships = append(m.memberships, ms)
}

func (m *MemorySource) RemoveMembership(userID, projectID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.memberships[:0]
	for _, ms := range m.memberships {
		if ms.UserID == userID && ms.ProjectID == projectID {
			continue
		}
		kept = append(kept, ms)
	}
	m.memberships = kept
}

func (m *MemorySource) FindProject(_ context.Context, id string) (*domain.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.projects[id]
	if !ok {
		return nil, domain.NotFound("project", id)
	}
	return p, nil
}

func (m *MemorySource) FindBudget(_ context.Context, id string) (*domain.Budget, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.budgets[id]
	if !ok {
		return nil, domain.NotFound("budget", id)
	}
	return b, nil
}

func (m *MemorySource) ListTransactionsForBudget(_ context.Context, budgetID string) ([]*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Transaction
	for _, t := range m.transactions {
		if t.InBudget(budgetID) {
			out = append(out, t)
		}
	}
	return out, nil
}

// ListTransactionsForProject is not part of Source; the aggregator uses it
// for project rollups.
func (m *MemorySource) ListTransactionsForProject(_ context.Context, projectID string) ([]*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Transaction
	for _, t := range m.transactions {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *MemorySource) ListBudgetsForProject(_ context.Context, projectID string) ([]*domain.Budget, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Budget
	for _, b := range m.budgets {
		if b.ProjectID == projectID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *MemorySource) ListMembershipsForProject(_ context.Context, projectID string) ([]*domain.Membership, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Membership
	for _, ms := range m.memberships {
		if ms.ProjectID == projectID {
			out = append(out, ms)
		}
	}
	return out, nil
}

func (m *MemorySource) IsProjectOwner(_ context.Context, userID, projectID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.projects[projectID]
	return ok && p.IsOwnedBy(userID), nil
}
