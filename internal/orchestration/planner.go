package orchestration

import (
	"context"

	"github.com/imamik/stackplan/internal/bootstrap"
	"github.com/imamik/stackplan/internal/config"
	"github.com/imamik/stackplan/internal/graph"
	"github.com/imamik/stackplan/internal/plan"
	"github.com/imamik/stackplan/internal/provisioning"
	"github.com/imamik/stackplan/internal/security"
	"github.com/imamik/stackplan/internal/state"
	"github.com/imamik/stackplan/internal/topology"
)

// Planner runs the planning pipeline for one configuration.
type Planner struct {
	config   *config.Config
	source   bootstrap.Source
	snapshot *state.Snapshot
	metrics  *plan.Metrics
}

// Option configures a Planner.
type Option func(*Planner)

// WithMetrics records the emitted plan in m.
func WithMetrics(m *plan.Metrics) Option {
	return func(p *Planner) { p.metrics = m }
}

// NewPlanner creates a planner. src provides the artifacts that boot programs
// embed; snapshot may be nil for a stack that was never applied.
func NewPlanner(cfg *config.Config, src bootstrap.Source, snapshot *state.Snapshot, opts ...Option) *Planner {
	p := &Planner{
		config:   cfg,
		source:   src,
		snapshot: snapshot,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Result holds everything a run produced. Fields of phases that did not run
// are nil.
type Result struct {
	Stack    *topology.Stack
	Graph    *graph.Graph
	Programs map[string]*bootstrap.Program
	Security *security.Result
	Plan     *plan.Plan
}

// Plan runs every phase and returns the emitted plan.
func (p *Planner) Plan(ctx context.Context) (*Result, error) {
	r := &run{planner: p}
	return r.execute(ctx, []provisioning.Phase{
		provisioning.NewValidationPhase(),
		r.topologyPhase(),
		r.bootstrapPhase(),
		r.securityPhase(),
		r.finalizePhase(),
		r.emitPhase(),
	})
}

// Graph builds and finalizes the dependency graph without reading any
// artifacts or emitting a plan.
func (p *Planner) Graph(ctx context.Context) (*Result, error) {
	r := &run{planner: p}
	return r.execute(ctx, []provisioning.Phase{
		provisioning.NewValidationPhase(),
		r.topologyPhase(),
		r.securityPhase(),
		r.finalizePhase(),
	})
}

// Bootstrap assembles the boot programs only.
func (p *Planner) Bootstrap(ctx context.Context) (*Result, error) {
	r := &run{planner: p}
	return r.execute(ctx, []provisioning.Phase{
		provisioning.NewValidationPhase(),
		r.topologyPhase(),
		r.bootstrapPhase(),
	})
}

// run carries the state of a single pipeline execution.
type run struct {
	planner *Planner
	stack   *topology.Stack
}

func (r *run) execute(ctx context.Context, phases []provisioning.Phase) (*Result, error) {
	pCtx := provisioning.NewContext(ctx, r.planner.config, r.planner.source, r.planner.snapshot)
	if err := provisioning.RunPhases(pCtx, phases); err != nil {
		return nil, err
	}

	st := pCtx.State
	res := &Result{
		Stack:    r.stack,
		Graph:    st.Graph,
		Security: st.Security,
		Plan:     st.Plan,
	}
	if len(st.Programs) > 0 {
		res.Programs = st.Programs
	}
	return res, nil
}
