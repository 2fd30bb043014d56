// Package policy decides whether an actor may perform an action on a
// project, task, budget or transaction, and which rows an actor may list.
//
// A deny is a normal answer: Can returns (false, nil). Errors come only from
// the persistence collaborator behind the graph reader.
package policy

import (
	"context"
	"log/slog"
	"time"

	"github.com/lani-platform/lani/internal/domain"
	"github.com/lani-platform/lani/internal/graph"
)

// Decision describes one answered Can call.
type Decision struct {
	ActorID    string
	Action     Action
	Kind       domain.Kind
	ResourceID string
	Allowed    bool
	Duration   time.Duration
}

// DecisionObserver receives every decision the engine makes.
type DecisionObserver interface {
	ObserveDecision(ctx context.Context, d Decision)
}

type noopDecisionObserver struct{}

func (noopDecisionObserver) ObserveDecision(context.Context, Decision) {}

// LogDecisionObserver logs denials at debug level.
type LogDecisionObserver struct {
	logger *slog.Logger
}

func NewLogDecisionObserver(logger *slog.Logger) *LogDecisionObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogDecisionObserver{logger: logger}
}

func (o *LogDecisionObserver) ObserveDecision(ctx context.Context, d Decision) {
	if d.Allowed {
		return
	}
	o.logger.DebugContext(ctx, "policy_denied",
		"actor_id", d.ActorID,
		"action", string(d.Action),
		"kind", string(d.Kind),
		"resource_id", d.ResourceID,
	)
}

// MultiObserver fans a decision out to several observers.
type MultiObserver []DecisionObserver

func (m MultiObserver) ObserveDecision(ctx context.Context, d Decision) {
	for _, o := range m {
		if o != nil {
			o.ObserveDecision(ctx, d)
		}
	}
}

type Engine struct {
	reader   *graph.Reader
	observer DecisionObserver
	now      func() time.Time
}

type EngineOption func(*Engine)

func WithDecisionObserver(o DecisionObserver) EngineOption {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

func NewEngine(reader *graph.Reader, opts ...EngineOption) *Engine {
	e := &Engine{reader: reader, observer: noopDecisionObserver{}, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Can reports whether actor may perform action on target. A nil actor is
// anonymous and is denied everything. Capabilities are resolved fresh on
// every call.
func (e *Engine) Can(ctx context.Context, actor *domain.User, action Action, target Target) (bool, error) {
	mustKnowKind(target.Kind)
	start := e.now()

	allowed, err := e.can(ctx, actor, action, target)
	if err != nil {
		return false, err
	}

	d := Decision{
		Action:     action,
		Kind:       target.Kind,
		ResourceID: target.ResourceID(),
		Allowed:    allowed,
		Duration:   e.now().Sub(start),
	}
	if actor != nil {
		d.ActorID = actor.ID
	}
	e.observer.ObserveDecision(ctx, d)
	return allowed, nil
}

func (e *Engine) can(ctx context.Context, actor *domain.User, action Action, target Target) (bool, error) {
	if actor == nil || actor.ID == "" {
		return false, nil
	}
	if actor.IsAdmin() {
		return true, nil
	}

	project, err := e.projectFor(ctx, target)
	if err != nil {
		return false, err
	}
	target.Parent = project

	caps, err := Resolve(ctx, e.reader, actor, project)
	if err != nil {
		return false, err
	}
	if !Evaluate(caps, action, target) {
		return false, nil
	}

	// A membership-level manager deleting a task must still hold update
	// rights on the project at this moment, so ask again from scratch.
	if target.Kind == domain.KindTask && action == ActionDestroy && !caps.ProjectOwner {
		if project == nil {
			return false, nil
		}
		return e.can(ctx, actor, ActionUpdate, ProjectTarget(project))
	}
	return true, nil
}

func (e *Engine) projectFor(ctx context.Context, target Target) (*domain.Project, error) {
	if target.Parent != nil {
		return target.Parent, nil
	}
	if !target.hasResource() {
		return nil, nil
	}
	return e.reader.ProjectOf(ctx, target.Resource)
}

// Scope returns the list filter for actor over kind.
func (e *Engine) Scope(actor *domain.User, kind domain.Kind) QueryFilter {
	return Scope(actor, kind)
}
