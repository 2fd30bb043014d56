package graph_test

import (
	"context"
	"testing"

	"github.com/lani-platform/lani/internal/domain"
	"github.com/lani-platform/lani/internal/graph"
	"github.com/lani-platform/lani/internal/money"
	"github.com/lani-platform/lani/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed() (*testutil.MemorySource, *domain.Project) {
	src := testutil.NewMemorySource()
	p := &domain.Project{ID: "p1", OwnerID: "owner", Name: "Depot", Status: domain.ProjectActive}
	src.AddProject(p)
	src.AddMembership(&domain.Membership{ID: "m1", UserID: "alice", ProjectID: "p1", Role: domain.MembershipMember})
	src.AddMembership(&domain.Membership{ID: "m2", UserID: "bob", ProjectID: "p1", Role: domain.MembershipProjectManager})
	return src, p
}

func TestMemberIDs_IncludesOwnerWithoutMembershipRow(t *testing.T) {
	src, p := seed()
	r := graph.NewReader(src)

	ids, err := r.MemberIDs(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, []string{"owner", "alice", "bob"}, ids)
}

func TestMemberIDs_OwnerWithMembershipRowNotDuplicated(t *testing.T) {
	src, p := seed()
	src.AddMembership(&domain.Membership{ID: "m3", UserID: "owner", ProjectID: "p1", Role: domain.MembershipMember})
	r := graph.NewReader(src)

	ids, err := r.MemberIDs(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, []string{"owner", "alice", "bob"}, ids)
}

func TestFacts(t *testing.T) {
	src, p := seed()
	r := graph.NewReader(src)
	ctx := context.Background()

	owner, err := r.Facts(ctx, "owner", p)
	require.NoError(t, err)
	assert.True(t, owner.Owner)
	assert.True(t, owner.Member)
	assert.False(t, owner.IsMembershipManager())

	bob, err := r.Facts(ctx, "bob", p)
	require.NoError(t, err)
	assert.False(t, bob.Owner)
	assert.True(t, bob.Member)
	assert.True(t, bob.IsMembershipManager())

	stranger, err := r.Facts(ctx, "carol", p)
	require.NoError(t, err)
	assert.False(t, stranger.Member)

	anon, err := r.Facts(ctx, "", p)
	require.NoError(t, err)
	assert.False(t, anon.Member)
}

func TestProjectOf_Traversal(t *testing.T) {
	src, p := seed()
	budgetID := "b1"
	src.AddBudget(&domain.Budget{ID: budgetID, ProjectID: p.ID, Amount: money.New(100, money.USD)})
	r := graph.NewReader(src)
	ctx := context.Background()

	got, err := r.ProjectOf(ctx, &domain.Task{ID: "t1", ProjectID: p.ID})
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	got, err = r.ProjectOf(ctx, &domain.Transaction{ID: "x1", BudgetID: &budgetID})
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID, "transaction resolves through its budget")

	_, err = r.ProjectOf(ctx, &domain.Task{ID: "t2", ProjectID: "missing"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRelationshipHelpers(t *testing.T) {
	_, p := seed()
	assignee := "alice"
	assert.True(t, graph.IsOwner("owner", p))
	assert.False(t, graph.IsOwner("alice", p))
	assert.True(t, graph.IsAssignee("alice", &domain.Task{AssigneeID: &assignee}))
	assert.False(t, graph.IsAssignee("bob", &domain.Task{AssigneeID: &assignee}))
	assert.True(t, graph.IsRecorder("bob", &domain.Transaction{UserID: "bob"}))
	assert.False(t, graph.IsRecorder("", &domain.Transaction{UserID: ""}))
}
