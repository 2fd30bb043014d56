package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lani-platform/lani/internal/db"
	"github.com/lani-platform/lani/internal/domain"
	"github.com/lani-platform/lani/internal/policy"
)

type userService struct {
	base
}

func NewUserService(uow db.UnitOfWork, opts ...Option) UserService {
	return &userService{base: newBase(uow, opts)}
}

// Create registers u. The first user may take any role; after that only
// admins may grant project_manager or admin, and everyone else registers as
// viewer or member.
func (s *userService) Create(ctx context.Context, actor *domain.User, u *domain.User) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"email": u.Email, "role": string(u.Role)}
	defer func() { s.observe(ctx, "user.create", startedAt, fields, err) }()

	return s.within(ctx, func(ctx context.Context, w *work) error {
		if u.Role == "" {
			u.Role = domain.RoleMember
		}
		if u.Role == domain.RoleAdmin || u.Role == domain.RoleProjectManager {
			existing, err := w.Users.List(ctx)
			if err != nil {
				return err
			}
			if len(existing) > 0 && !actor.IsAdmin() {
				return fmt.Errorf("granting role %s: %w", u.Role, ErrForbidden)
			}
		}
		if u.ID == "" {
			u.ID = uuid.New().String()
		}
		u.Email = strings.TrimSpace(u.Email)
		u.Active = true
		now := s.now()
		u.CreatedAt, u.UpdatedAt = now, now
		if err := u.Validate(); err != nil {
			return err
		}
		fields["user_id"] = u.ID
		return w.Users.Create(ctx, u)
	})
}

func (s *userService) Get(ctx context.Context, id string) (*domain.User, error) {
	var u *domain.User
	err := s.within(ctx, func(ctx context.Context, w *work) error {
		var err error
		u, err = w.Users.GetByID(ctx, id)
		return err
	})
	return u, err
}

// ByEmail resolves a user by email, ignoring case.
func (s *userService) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u *domain.User
	err := s.within(ctx, func(ctx context.Context, w *work) error {
		var err error
		u, err = w.Users.GetByEmail(ctx, strings.TrimSpace(email))
		return err
	})
	return u, err
}

func (s *userService) List(ctx context.Context, actor *domain.User) ([]*domain.User, error) {
	if actor == nil {
		return nil, fmt.Errorf("listing users: %w", ErrForbidden)
	}
	var out []*domain.User
	err := s.within(ctx, func(ctx context.Context, w *work) error {
		var err error
		out, err = w.Users.List(ctx)
		return err
	})
	return out, err
}

// Delete removes a user. Admins may delete anyone, others only themselves.
// A user who still owns projects is refused with domain.ErrUserOwnsProjects.
func (s *userService) Delete(ctx context.Context, actor *domain.User, id string) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"user_id": id}
	defer func() { s.observe(ctx, "user.delete", startedAt, fields, err) }()

	if actor == nil || (!actor.IsAdmin() && actor.ID != id) {
		return fmt.Errorf("deleting user %s: %w", id, ErrForbidden)
	}
	return s.within(ctx, func(ctx context.Context, w *work) error {
		if _, err := w.Users.GetByID(ctx, id); err != nil {
			return err
		}
		owned, err := w.Projects.CountOwnedBy(ctx, id)
		if err != nil {
			return err
		}
		if owned > 0 {
			fields["owned_projects"] = owned
			return fmt.Errorf("user %s owns %d projects: %w", id, owned, domain.ErrUserOwnsProjects)
		}
		return w.Users.Delete(ctx, id)
	})
}

// TransferOwnership hands a project to newOwnerID. It needs the same rights
// as deleting the project. The previous owner stays on as a membership-level
// project manager; the new owner's membership row, if any, is dropped since
// ownership implies membership.
func (s *userService) TransferOwnership(ctx context.Context, actor *domain.User, projectID, newOwnerID string) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"project_id": projectID, "new_owner_id": newOwnerID}
	defer func() { s.observe(ctx, "project.transfer", startedAt, fields, err) }()

	return s.within(ctx, func(ctx context.Context, w *work) error {
		p, err := w.project(ctx, actor, policy.ActionDestroy, projectID)
		if err != nil {
			return err
		}
		if p.OwnerID == newOwnerID {
			return nil
		}
		if _, err := w.Users.GetByID(ctx, newOwnerID); err != nil {
			return err
		}
		previous := p.OwnerID
		fields["previous_owner_id"] = previous

		for _, uid := range []string{newOwnerID, previous} {
			if err := w.Memberships.Delete(ctx, uid, projectID); err != nil && !errors.Is(err, domain.ErrNotFound) {
				return err
			}
		}
		p.OwnerID = newOwnerID
		now := s.now()
		p.UpdatedAt = now
		if err := w.Projects.Update(ctx, p); err != nil {
			return err
		}
		return w.Memberships.Create(ctx, &domain.Membership{
			ID:        uuid.New().String(),
			UserID:    previous,
			ProjectID: projectID,
			Role:      domain.MembershipProjectManager,
			JoinedAt:  now,
			CreatedAt: now,
			UpdatedAt: now,
		})
	})
}
