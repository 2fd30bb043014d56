package policy

import (
	"testing"

	"github.com/lani-platform/lani/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestEvaluate_PureCapabilities(t *testing.T) {
	parent := &domain.Project{ID: "p1"}
	manager := Capabilities{UserID: "u", Authenticated: true, ProjectMember: true, MembershipManager: true}

	assert.True(t, Evaluate(manager, ActionDestroy, TaskTarget(&domain.Task{ID: "t", ProjectID: "p1"})))
	assert.False(t, Evaluate(manager, ActionDestroy, ProjectTarget(parent)))

	// A global project manager may view any project and task but is not a
	// membership-level manager.
	gpm := Capabilities{UserID: "u", Authenticated: true, GlobalProjectManager: true}
	assert.True(t, Evaluate(gpm, ActionCreate, KindTarget(domain.KindProject, nil)))
	assert.False(t, Evaluate(gpm, ActionUpdate, ProjectTarget(parent)))
	assert.False(t, Evaluate(gpm, ActionShow, BudgetTarget(&domain.Budget{ID: "b", ProjectID: "p1"})))
	assert.True(t, Evaluate(gpm, ActionShow, ProjectTarget(parent)))
	assert.True(t, Evaluate(gpm, ActionShow, TaskTarget(&domain.Task{ID: "t", ProjectID: "p1"})))

	assert.False(t, Evaluate(Capabilities{}, ActionIndex, KindTarget(domain.KindProject, nil)))
	assert.True(t, Evaluate(Capabilities{UserID: "a", Authenticated: true, Admin: true}, ActionAssign, ProjectTarget(parent)))
}

func TestEvaluate_ActionNotApplicableToKind(t *testing.T) {
	owner := Capabilities{UserID: "u", Authenticated: true, ProjectOwner: true, ProjectMember: true}
	assert.False(t, Evaluate(owner, ActionAssign, ProjectTarget(&domain.Project{ID: "p"})))
	assert.False(t, Evaluate(owner, ActionManageMembers, BudgetTarget(&domain.Budget{ID: "b"})))
}
