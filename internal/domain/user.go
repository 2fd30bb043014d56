package domain

import (
	"fmt"
	"strings"
	"time"
)

type User struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	Role      Role
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// IsProjectManager reports the global project_manager role. Admins count as
// project managers.
func (u *User) IsProjectManager() bool {
	return u != nil && (u.Role == RoleProjectManager || u.IsAdmin())
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// DisplayName prefers the full name and falls back to the email address.
func (u *User) DisplayName() string {
	if name := u.FullName(); name != "" {
		return name
	}
	return u.Email
}

func (u *User) Validate() error {
	if strings.TrimSpace(u.Email) == "" || !strings.Contains(u.Email, "@") {
		return fmt.Errorf("email %q is invalid", u.Email)
	}
	if !ValidRoles[u.Role] {
		return fmt.Errorf("role %q is invalid", u.Role)
	}
	if len(u.FirstName) > 50 || len(u.LastName) > 50 {
		return fmt.Errorf("names are limited to 50 characters")
	}
	return nil
}
