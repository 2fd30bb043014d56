package repository

import (
	"github.com/lani-platform/lani/internal/policy"
)

// scopeClause renders f as a SQL predicate over a query that has the owning
// project joined as p. assigneeCol names the task assignee column and is
// only used when the filter admits assignees.
func scopeClause(f policy.QueryFilter, assigneeCol string) (string, []any) {
	switch {
	case f.None:
		return "1 = 0", nil
	case f.Unrestricted:
		return "1 = 1", nil
	}
	clause := `(p.owner_id = ? OR p.id IN (SELECT project_id FROM project_memberships WHERE user_id = ?)`
	args := []any{f.UserID, f.UserID}
	if f.IncludeAssigned && assigneeCol != "" {
		clause += " OR " + assigneeCol + " = ?"
		args = append(args, f.UserID)
	}
	return clause + ")", args
}
