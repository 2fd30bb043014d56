package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lani-platform/lani/internal/domain"
	"github.com/lani-platform/lani/internal/testutil"
)

func TestUserService_Create_FirstUserMayBeAdmin(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewUserService(testutil.NewTestUoW(database))
	ctx := context.Background()

	root := &domain.User{Email: " root@lani.test ", Role: domain.RoleAdmin}
	require.NoError(t, svc.Create(ctx, nil, root))
	assert.Equal(t, "root@lani.test", root.Email)
	assert.True(t, root.Active)

	err := svc.Create(ctx, nil, &domain.User{Email: "sneaky@lani.test", Role: domain.RoleAdmin})
	assert.ErrorIs(t, err, ErrForbidden)

	pm := &domain.User{Email: "pm@lani.test", Role: domain.RoleProjectManager}
	require.NoError(t, svc.Create(ctx, root, pm))

	plain := &domain.User{Email: "plain@lani.test"}
	require.NoError(t, svc.Create(ctx, nil, plain))
	assert.Equal(t, domain.RoleMember, plain.Role)
}

func TestUserService_ByEmail(t *testing.T) {
	f := setupFixture(t)
	u, err := NewUserService(f.uow).ByEmail(context.Background(), "member@lani.test")
	require.NoError(t, err)
	assert.Equal(t, f.member.ID, u.ID)
}

func TestUserService_List_RequiresActor(t *testing.T) {
	f := setupFixture(t)
	svc := NewUserService(f.uow)

	_, err := svc.List(context.Background(), nil)
	assert.ErrorIs(t, err, ErrForbidden)

	users, err := svc.List(context.Background(), f.outsider)
	require.NoError(t, err)
	assert.Len(t, users, 7)
}

func TestUserService_Delete(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	svc := NewUserService(f.uow)

	assert.ErrorIs(t, svc.Delete(ctx, f.member, f.outsider.ID), ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, f.admin, f.owner.ID), domain.ErrUserOwnsProjects)

	require.NoError(t, svc.Delete(ctx, f.outsider, f.outsider.ID))
	require.NoError(t, svc.Delete(ctx, f.admin, f.assignee.ID))

	task, err := f.store.Tasks.GetByID(ctx, f.task.ID)
	require.NoError(t, err)
	assert.Nil(t, task.AssigneeID, "deleting the assignee unassigns the task")
}

func TestUserService_TransferOwnership(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	svc := NewUserService(f.uow)

	assert.ErrorIs(t, svc.TransferOwnership(ctx, f.manager, f.project.ID, f.manager.ID), ErrForbidden)
	require.NoError(t, svc.TransferOwnership(ctx, f.owner, f.project.ID, f.manager.ID))

	p, err := f.store.Projects.GetByID(ctx, f.project.ID)
	require.NoError(t, err)
	assert.Equal(t, f.manager.ID, p.OwnerID)

	_, err = f.store.Memberships.Get(ctx, f.manager.ID, f.project.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "the new owner needs no membership row")

	prev, err := f.store.Memberships.Get(ctx, f.owner.ID, f.project.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MembershipProjectManager, prev.Role)

	// The previous owner can still see the project but no longer delete it.
	projects := NewProjectService(f.uow)
	_, err = projects.Get(ctx, f.owner, f.project.ID)
	assert.NoError(t, err)
	assert.ErrorIs(t, projects.Delete(ctx, f.owner, f.project.ID), ErrForbidden)
}
