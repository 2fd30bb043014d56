package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lani-platform/lani/internal/db"
	"github.com/lani-platform/lani/internal/domain"
	"github.com/lani-platform/lani/internal/repository"
	"github.com/lani-platform/lani/internal/testutil"
)

// fixture is one project with an actor in every relationship the rules
// distinguish.
type fixture struct {
	db    *sql.DB
	uow   db.UnitOfWork
	store *repository.Store

	admin    *domain.User
	owner    *domain.User // global project manager, owns project
	globalPM *domain.User // global project manager, no relation to project
	manager  *domain.User // membership-level project manager
	member   *domain.User
	assignee *domain.User // not a member, assigned a task
	outsider *domain.User

	project *domain.Project
	task    *domain.Task
	budget  *domain.Budget
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	f := &fixture{db: database, uow: testutil.NewTestUoW(database), store: repository.NewStore(database)}
	ctx := context.Background()

	f.admin = f.user(t, "admin@lani.test", domain.RoleAdmin)
	f.owner = f.user(t, "owner@lani.test", domain.RoleProjectManager)
	f.globalPM = f.user(t, "pm@lani.test", domain.RoleProjectManager)
	f.manager = f.user(t, "manager@lani.test", domain.RoleMember)
	f.member = f.user(t, "member@lani.test", domain.RoleMember)
	f.assignee = f.user(t, "assignee@lani.test", domain.RoleMember)
	f.outsider = f.user(t, "outsider@lani.test", domain.RoleViewer)

	f.project = testutil.NewTestProject(f.owner.ID, "Riverside Clinic")
	require.NoError(t, f.store.Projects.Create(ctx, f.project))
	require.NoError(t, f.store.Memberships.Create(ctx,
		testutil.NewTestMembership(f.manager.ID, f.project.ID, domain.MembershipProjectManager)))
	require.NoError(t, f.store.Memberships.Create(ctx,
		testutil.NewTestMembership(f.member.ID, f.project.ID, domain.MembershipMember)))

	f.task = testutil.NewTestTask(f.project.ID, "Pour foundation", testutil.WithAssignee(f.assignee.ID))
	require.NoError(t, f.store.Tasks.Create(ctx, f.task))

	f.budget = testutil.NewTestBudget(f.project.ID, "Materials", 100000)
	require.NoError(t, f.store.Budgets.Create(ctx, f.budget))
	return f
}

func (f *fixture) user(t *testing.T, email string, role domain.Role) *domain.User {
	t.Helper()
	u := testutil.NewTestUser(email, testutil.WithRole(role))
	require.NoError(t, f.store.Users.Create(context.Background(), u))
	return u
}
