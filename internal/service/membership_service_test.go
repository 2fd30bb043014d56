package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lani-platform/lani/internal/domain"
)

func TestMembershipService_Add(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	svc := NewMembershipService(f.uow)

	m, err := svc.Add(ctx, f.manager, f.project.ID, f.outsider.ID, "")
	require.NoError(t, err)
	assert.Equal(t, domain.MembershipMember, m.Role)

	_, err = svc.Add(ctx, f.manager, f.project.ID, f.outsider.ID, domain.MembershipMember)
	assert.ErrorIs(t, err, ErrAlreadyMember)

	_, err = svc.Add(ctx, f.owner, f.project.ID, f.owner.ID, domain.MembershipMember)
	assert.ErrorIs(t, err, ErrAlreadyMember, "the owner is implicitly a member")

	_, err = svc.Add(ctx, f.member, f.project.ID, f.globalPM.ID, domain.MembershipMember)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Add(ctx, f.owner, f.project.ID, f.globalPM.ID, "lead")
	assert.ErrorContains(t, err, "invalid")
}

func TestMembershipService_SetRoleAndRemove(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	svc := NewMembershipService(f.uow)

	require.NoError(t, svc.SetRole(ctx, f.owner, f.project.ID, f.member.ID, domain.MembershipProjectManager))
	m, err := f.store.Memberships.Get(ctx, f.member.ID, f.project.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MembershipProjectManager, m.Role)

	// Promoted, the member can now manage members.
	require.NoError(t, svc.Remove(ctx, f.member, f.project.ID, f.manager.ID))

	members, err := svc.List(ctx, f.member, f.project.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, f.member.ID, members[0].UserID)

	_, err = svc.List(ctx, f.outsider, f.project.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}
