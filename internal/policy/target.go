package policy

import (
	"github.com/lani-platform/lani/internal/domain"
	"github.com/lani-platform/lani/internal/graph"
)

// Target is what an action is performed on: a resource instance, or a kind
// plus an optional parent project for index and create.
type Target struct {
	Kind     domain.Kind
	Resource graph.Resource
	// Parent is the owning project when already loaded. The engine fills it
	// in from Resource otherwise.
	Parent *domain.Project
}

func ProjectTarget(p *domain.Project) Target {
	return Target{Kind: domain.KindProject, Resource: p, Parent: p}
}

func TaskTarget(t *domain.Task) Target {
	return Target{Kind: domain.KindTask, Resource: t}
}

func BudgetTarget(b *domain.Budget) Target {
	return Target{Kind: domain.KindBudget, Resource: b}
}

func TransactionTarget(tx *domain.Transaction) Target {
	return Target{Kind: domain.KindTransaction, Resource: tx}
}

// KindTarget targets a resource type without an instance. parent may be nil
// (listing every task the actor can see, for example).
func KindTarget(kind domain.Kind, parent *domain.Project) Target {
	return Target{Kind: kind, Parent: parent}
}

// WithParent returns a copy of t whose parent project is p.
func (t Target) WithParent(p *domain.Project) Target {
	t.Parent = p
	return t
}

// ResourceID is the instance ID, or empty for kind targets.
func (t Target) ResourceID() string {
	switch r := t.Resource.(type) {
	case *domain.Project:
		if r != nil {
			return r.ID
		}
	case *domain.Task:
		if r != nil {
			return r.ID
		}
	case *domain.Budget:
		if r != nil {
			return r.ID
		}
	case *domain.Transaction:
		if r != nil {
			return r.ID
		}
	}
	return ""
}

func (t Target) hasResource() bool {
	switch r := t.Resource.(type) {
	case *domain.Project:
		return r != nil
	case *domain.Task:
		return r != nil
	case *domain.Budget:
		return r != nil
	case *domain.Transaction:
		return r != nil
	}
	return t.Resource != nil
}

func (t Target) task() *domain.Task {
	task, _ := t.Resource.(*domain.Task)
	return task
}

func (t Target) transaction() *domain.Transaction {
	tx, _ := t.Resource.(*domain.Transaction)
	return tx
}
