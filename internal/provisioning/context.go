package provisioning

import (
	"context"

	"github.com/go-logr/logr"

	"github.com/imamik/stackplan/internal/bootstrap"
	"github.com/imamik/stackplan/internal/config"
	"github.com/imamik/stackplan/internal/graph"
	"github.com/imamik/stackplan/internal/plan"
	"github.com/imamik/stackplan/internal/security"
	"github.com/imamik/stackplan/internal/state"
)

// State holds the shared results of pipeline phases.
// It is progressively populated as each phase completes.
type State struct {
	// Graph is declared by the topology phase and frozen by finalize.
	Graph *graph.Graph

	// Programs holds the assembled boot program per instance id.
	Programs map[string]*bootstrap.Program

	// Security is the binder's result.
	Security *security.Result

	// Plan is set by the emit phase.
	Plan *plan.Plan
}

// NewState creates an empty pipeline state.
func NewState() *State {
	return &State{
		Graph:    graph.New(),
		Programs: make(map[string]*bootstrap.Program),
	}
}

// Context wraps all dependencies and state needed for a pipeline phase.
type Context struct {
	context.Context
	Config   *config.Config
	State    *State
	Source   bootstrap.Source
	Snapshot *state.Snapshot
	Observer Observer
}

// NewContext creates a pipeline context. The observer logs through the
// logger carried by ctx.
func NewContext(ctx context.Context, cfg *config.Config, src bootstrap.Source, snapshot *state.Snapshot) *Context {
	return &Context{
		Context:  ctx,
		Config:   cfg,
		State:    NewState(),
		Source:   src,
		Snapshot: snapshot,
		Observer: NewLogrObserver(logr.FromContextOrDiscard(ctx)),
	}
}
