package policy

import (
	"github.com/lani-platform/lani/internal/domain"
	"github.com/lani-platform/lani/internal/graph"
)

// Evaluate applies the rules for target's kind to one resolved capability
// set. It is pure; Engine.Can is the entry point that resolves caps first.
// Evaluate panics with *InvalidResourceTypeError for an unknown kind.
func Evaluate(caps Capabilities, action Action, target Target) bool {
	mustKnowKind(target.Kind)
	if !caps.Authenticated {
		return false
	}
	if caps.Admin {
		return true
	}
	switch target.Kind {
	case domain.KindProject:
		return projectRule(caps, action)
	case domain.KindTask:
		return taskRule(caps, action, target)
	case domain.KindBudget:
		return ledgerRule(caps, action, target, false)
	default:
		return ledgerRule(caps, action, target, true)
	}
}

func projectRule(caps Capabilities, action Action) bool {
	switch action {
	case ActionIndex:
		return true
	case ActionShow:
		return caps.ProjectOwner || caps.ProjectMember || caps.GlobalProjectManager
	case ActionCreate:
		return caps.GlobalProjectManager
	case ActionUpdate:
		return caps.ProjectOwner || caps.MembershipManager
	case ActionDestroy:
		return caps.ProjectOwner
	case ActionManageMembers:
		return caps.ProjectOwner || caps.MembershipManager
	}
	return false
}

func taskRule(caps Capabilities, action Action, target Target) bool {
	assignee := graph.IsAssignee(caps.UserID, target.task())
	switch action {
	case ActionIndex:
		if target.Parent == nil {
			return true
		}
		return projectRule(caps, ActionShow)
	case ActionShow:
		return projectRule(caps, ActionShow) || assignee
	case ActionCreate:
		return target.Parent != nil && projectRule(caps, ActionUpdate)
	case ActionUpdate:
		return caps.ProjectOwner || assignee || caps.MembershipManager
	case ActionDestroy:
		return caps.ProjectOwner || (caps.MembershipManager && projectRule(caps, ActionUpdate))
	case ActionAssign:
		return caps.ProjectOwner || caps.MembershipManager
	}
	return false
}

// ledgerRule covers budgets and transactions. Reads and creates are open to
// any project member, and a global project manager does not count as one; writes need the owner, a membership-level project
// manager, or (transactions only) the recorder.
func ledgerRule(caps Capabilities, action Action, target Target, isTransaction bool) bool {
	if target.Parent == nil && !target.hasResource() {
		return false
	}
	switch action {
	case ActionIndex, ActionShow, ActionCreate:
		return caps.ProjectMember || caps.ProjectOwner
	case ActionUpdate, ActionDestroy:
		if isTransaction && graph.IsRecorder(caps.UserID, target.transaction()) {
			return true
		}
		return caps.MembershipManager || caps.ProjectOwner
	}
	return false
}
