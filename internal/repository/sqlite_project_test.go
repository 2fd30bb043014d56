package repository

import (
	"context"
	"testing"
	"time"

	"github.com/lani-platform/lani/internal/domain"
	"github.com/lani-platform/lani/internal/policy"
	"github.com/lani-platform/lani/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture is a small world shared by the repository tests: two projects,
// an owner for each, one explicit member and an outsider.
type fixture struct {
	store    *Store
	owner    *domain.User
	other    *domain.User
	member   *domain.User
	outsider *domain.User
	depot    *domain.Project
	bridge   *domain.Project
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := NewStore(testutil.NewTestDB(t))
	ctx := context.Background()

	f := &fixture{
		store:    s,
		owner:    testutil.NewTestUser("owner@example.com"),
		other:    testutil.NewTestUser("other@example.com"),
		member:   testutil.NewTestUser("member@example.com"),
		outsider: testutil.NewTestUser("outsider@example.com", testutil.WithRole(domain.RoleViewer)),
	}
	for _, u := range []*domain.User{f.owner, f.other, f.member, f.outsider} {
		require.NoError(t, s.Users.Create(ctx, u))
	}
	f.depot = testutil.NewTestProject(f.owner.ID, "Depot", testutil.WithLocation(19.43, -99.13, "CDMX"))
	f.bridge = testutil.NewTestProject(f.other.ID, "Bridge")
	f.bridge.CreatedAt = f.depot.CreatedAt.Add(time.Second)
	require.NoError(t, s.Projects.Create(ctx, f.depot))
	require.NoError(t, s.Projects.Create(ctx, f.bridge))
	require.NoError(t, s.Memberships.Create(ctx, testutil.NewTestMembership(f.member.ID, f.bridge.ID, domain.MembershipMember)))
	return f
}

func projectNames(ps []*domain.Project) []string {
	names := make([]string, 0, len(ps))
	for _, p := range ps {
		names = append(names, p.Name)
	}
	return names
}

func TestProjectRepo_CreateAndGetByID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	fetched, err := f.store.Projects.GetByID(ctx, f.depot.ID)
	require.NoError(t, err)
	assert.Equal(t, "Depot", fetched.Name)
	assert.Equal(t, f.owner.ID, fetched.OwnerID)
	assert.Equal(t, domain.ProjectActive, fetched.Status)
	require.True(t, fetched.HasLocation())
	assert.Equal(t, []float64{-99.13, 19.43}, fetched.Coordinates())
	assert.Nil(t, fetched.StartDate)

	_, err = f.store.Projects.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProjectRepo_ListScoped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		actor *domain.User
		want  []string
	}{
		{"owner sees owned", f.owner, []string{"Depot"}},
		{"member sees joined", f.member, []string{"Bridge"}},
		{"outsider sees nothing", f.outsider, []string{}},
		{"anonymous sees nothing", nil, []string{}},
		{"global pm sees all", testutil.NewTestUser("pm@example.com", testutil.WithRole(domain.RoleProjectManager)), []string{"Depot", "Bridge"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ps, err := f.store.Projects.List(ctx, policy.Scope(tc.actor, domain.KindProject))
			require.NoError(t, err)
			assert.Equal(t, tc.want, projectNames(ps))
		})
	}
}

func TestProjectRepo_OwnershipQueries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	n, err := f.store.Projects.CountOwnedBy(ctx, f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	owned, err := f.store.Projects.ListOwnedBy(ctx, f.other.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bridge"}, projectNames(owned))

	ok, err := f.store.IsProjectOwner(ctx, f.owner.ID, f.depot.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = f.store.IsProjectOwner(ctx, f.member.ID, f.bridge.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProjectRepo_UpdateTransfersOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC)
	f.depot.OwnerID = f.other.ID
	f.depot.Status = domain.ProjectOnHold
	f.depot.StartDate = &start
	f.depot.EndDate = &end
	require.NoError(t, f.store.Projects.Update(ctx, f.depot))

	fetched, err := f.store.Projects.GetByID(ctx, f.depot.ID)
	require.NoError(t, err)
	assert.Equal(t, f.other.ID, fetched.OwnerID)
	assert.Equal(t, domain.ProjectOnHold, fetched.Status)
	require.NotNil(t, fetched.EndDate)
	assert.Equal(t, "2025-09-30", fetched.EndDate.Format(domain.DateLayout))

	missing := testutil.NewTestProject(f.owner.ID, "Ghost")
	assert.ErrorIs(t, f.store.Projects.Update(ctx, missing), domain.ErrNotFound)
}

func TestProjectRepo_OwnerCannotBeDeleted(t *testing.T) {
	f := newFixture(t)
	assert.Error(t, f.store.Users.Delete(context.Background(), f.owner.ID))
}
