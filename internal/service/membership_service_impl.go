package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lani-platform/lani/internal/db"
	"github.com/lani-platform/lani/internal/domain"
	"github.com/lani-platform/lani/internal/policy"
)

// ErrAlreadyMember is returned when adding a user who already belongs to the
// project, as owner or member.
var ErrAlreadyMember = errors.New("already a member")

type membershipService struct {
	base
}

func NewMembershipService(uow db.UnitOfWork, opts ...Option) MembershipService {
	return &membershipService{base: newBase(uow, opts)}
}

func validMembershipRole(role domain.MembershipRole) error {
	if role != domain.MembershipMember && role != domain.MembershipProjectManager {
		return fmt.Errorf("membership role %q is invalid", role)
	}
	return nil
}

func (s *membershipService) Add(ctx context.Context, actor *domain.User, projectID, userID string, role domain.MembershipRole) (m *domain.Membership, err error) {
	startedAt := time.Now()
	fields := map[string]any{"project_id": projectID, "user_id": userID, "role": string(role)}
	defer func() { s.observe(ctx, "membership.add", startedAt, fields, err) }()

	if role == "" {
		role = domain.MembershipMember
	}
	if err := validMembershipRole(role); err != nil {
		return nil, err
	}
	err = s.within(ctx, func(ctx context.Context, w *work) error {
		p, err := w.project(ctx, actor, policy.ActionManageMembers, projectID)
		if err != nil {
			return err
		}
		if _, err := w.Users.GetByID(ctx, userID); err != nil {
			return err
		}
		if p.IsOwnedBy(userID) {
			return fmt.Errorf("user %s owns project %s: %w", userID, projectID, ErrAlreadyMember)
		}
		if _, err := w.Memberships.Get(ctx, userID, projectID); err == nil {
			return fmt.Errorf("user %s on project %s: %w", userID, projectID, ErrAlreadyMember)
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		now := s.now()
		m = &domain.Membership{
			ID:        uuid.New().String(),
			UserID:    userID,
			ProjectID: projectID,
			Role:      role,
			JoinedAt:  now,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return w.Memberships.Create(ctx, m)
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *membershipService) Remove(ctx context.Context, actor *domain.User, projectID, userID string) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"project_id": projectID, "user_id": userID}
	defer func() { s.observe(ctx, "membership.remove", startedAt, fields, err) }()

	return s.within(ctx, func(ctx context.Context, w *work) error {
		if _, err := w.project(ctx, actor, policy.ActionManageMembers, projectID); err != nil {
			return err
		}
		return w.Memberships.Delete(ctx, userID, projectID)
	})
}

func (s *membershipService) SetRole(ctx context.Context, actor *domain.User, projectID, userID string, role domain.MembershipRole) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"project_id": projectID, "user_id": userID, "role": string(role)}
	defer func() { s.observe(ctx, "membership.set_role", startedAt, fields, err) }()

	if err := validMembershipRole(role); err != nil {
		return err
	}
	return s.within(ctx, func(ctx context.Context, w *work) error {
		if _, err := w.project(ctx, actor, policy.ActionManageMembers, projectID); err != nil {
			return err
		}
		return w.Memberships.UpdateRole(ctx, userID, projectID, role)
	})
}

func (s *membershipService) List(ctx context.Context, actor *domain.User, projectID string) ([]*domain.Membership, error) {
	var out []*domain.Membership
	err := s.within(ctx, func(ctx context.Context, w *work) error {
		if _, err := w.project(ctx, actor, policy.ActionShow, projectID); err != nil {
			return err
		}
		var err error
		out, err = w.Memberships.ListByProject(ctx, projectID)
		return err
	})
	return out, err
}
