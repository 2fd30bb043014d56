package policy

import (
	"fmt"
	"slices"

	"github.com/lani-platform/lani/internal/domain"
)

// QueryFilter is the abstract predicate a persistence layer applies when
// listing rows of Kind for one actor. Exactly one of Unrestricted, None, or
// a UserID-based restriction is in effect.
type QueryFilter struct {
	Kind         domain.Kind
	Unrestricted bool
	None         bool
	// UserID restricts rows to projects the user owns or holds a
	// membership on.
	UserID string
	// IncludeAssigned additionally admits tasks assigned to UserID.
	IncludeAssigned bool
}

// ScopeRow is the minimum a caller must know about a row to filter it in
// memory.
type ScopeRow struct {
	ProjectOwnerID string
	MemberIDs      []string // explicit membership rows only
	AssigneeID     string
}

// Scope returns the filter for actor listing rows of kind. It panics with
// *InvalidResourceTypeError for an unknown kind.
func Scope(actor *domain.User, kind domain.Kind) QueryFilter {
	mustKnowKind(kind)
	f := QueryFilter{Kind: kind}
	switch {
	case actor == nil || actor.ID == "":
		f.None = true
	case actor.IsAdmin() || actor.IsProjectManager():
		f.Unrestricted = true
	default:
		f.UserID = actor.ID
		f.IncludeAssigned = kind == domain.KindTask
	}
	return f
}

// Matches applies the filter to one row.
func (f QueryFilter) Matches(row ScopeRow) bool {
	switch {
	case f.None:
		return false
	case f.Unrestricted:
		return true
	}
	if row.ProjectOwnerID == f.UserID {
		return true
	}
	if slices.Contains(row.MemberIDs, f.UserID) {
		return true
	}
	return f.IncludeAssigned && row.AssigneeID != "" && row.AssigneeID == f.UserID
}

func (f QueryFilter) String() string {
	switch {
	case f.None:
		return "none"
	case f.Unrestricted:
		return "all"
	}
	s := fmt.Sprintf("owner_id = %s OR project_id IN (memberships of %s)", f.UserID, f.UserID)
	if f.IncludeAssigned {
		s += fmt.Sprintf(" OR assignee_id = %s", f.UserID)
	}
	return s
}
