package policy

import "fmt"

// Action is one of the verbs the engine decides on.
type Action string

const (
	ActionIndex   Action = "index"
	ActionShow    Action = "show"
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDestroy Action = "destroy"

	// ActionManageMembers applies to projects only.
	ActionManageMembers Action = "manage_members"
	// ActionAssign applies to tasks only.
	ActionAssign Action = "assign"
)

// Actions lists every action in a stable order.
var Actions = []Action{
	ActionIndex, ActionShow, ActionCreate, ActionUpdate, ActionDestroy,
	ActionManageMembers, ActionAssign,
}

func ParseAction(s string) (Action, error) {
	for _, a := range Actions {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown action %q", s)
}
