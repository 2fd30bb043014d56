package domain

import "time"

// Membership links a user to a project. It is unique per (UserID, ProjectID).
// Role is independent of the user's global role.
type Membership struct {
	ID        string
	UserID    string
	ProjectID string
	Role      MembershipRole
	JoinedAt  time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (m *Membership) IsManager() bool {
	return m != nil && m.Role == MembershipProjectManager
}
