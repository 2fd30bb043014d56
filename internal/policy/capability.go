package policy

import (
	"context"

	"github.com/lani-platform/lani/internal/domain"
	"github.com/lani-platform/lani/internal/graph"
)

// Capabilities is everything the rules need to know about an actor,
// resolved against one project. The zero value is an anonymous actor.
type Capabilities struct {
	UserID               string
	Authenticated        bool
	Admin                bool
	GlobalProjectManager bool

	// Per-project facts. All false when no project is in play.
	ProjectOwner      bool
	ProjectMember     bool
	MembershipManager bool
}

// Resolve builds the capability set for actor on project. project may be
// nil, in which case only the global facts are filled in.
func Resolve(ctx context.Context, r *graph.Reader, actor *domain.User, project *domain.Project) (Capabilities, error) {
	if actor == nil || actor.ID == "" {
		return Capabilities{}, nil
	}
	caps := Capabilities{
		UserID:               actor.ID,
		Authenticated:        true,
		Admin:                actor.IsAdmin(),
		GlobalProjectManager: actor.IsProjectManager(),
	}
	if project == nil {
		return caps, nil
	}
	facts, err := r.Facts(ctx, actor.ID, project)
	if err != nil {
		return Capabilities{}, err
	}
	caps.ProjectOwner = facts.Owner
	caps.ProjectMember = facts.Member
	caps.MembershipManager = facts.IsMembershipManager()
	return caps, nil
}
