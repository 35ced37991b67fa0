package orchestration

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/imamik/stackplan/internal/bootstrap"
	"github.com/imamik/stackplan/internal/plan"
	"github.com/imamik/stackplan/internal/provisioning"
	"github.com/imamik/stackplan/internal/resource"
	"github.com/imamik/stackplan/internal/security"
	"github.com/imamik/stackplan/internal/topology"
	"github.com/imamik/stackplan/internal/util/async"
	"github.com/imamik/stackplan/internal/util/labels"
)

const (
	phaseTopology  = "topology"
	phaseBootstrap = "bootstrap"
	phaseSecurity  = "security"
	phaseFinalize  = "finalize"
	phaseEmit      = "emit"
)

func (r *run) topologyPhase() provisioning.Phase {
	return provisioning.PhaseFunc{PhaseName: phaseTopology, Fn: func(ctx *provisioning.Context) error {
		stack, err := topology.Build(ctx.Config)
		if err != nil {
			return err
		}
		if err := stack.Declare(ctx.State.Graph); err != nil {
			return err
		}
		for _, n := range stack.Nodes {
			provisioning.LogResourceDeclared(ctx.Observer, phaseTopology, string(n.Kind), n.ID)
		}
		r.stack = stack
		ctx.Observer.Printf("Declared %d resources for stack %s", len(stack.Nodes), stack.Name)
		return nil
	}}
}

// bootstrapPhase assembles every instance concurrently. Sources are only
// read here.
func (r *run) bootstrapPhase() provisioning.Phase {
	return provisioning.PhaseFunc{PhaseName: phaseBootstrap, Fn: func(ctx *provisioning.Context) error {
		ids := make([]string, 0, len(r.stack.Boot))
		for id := range r.stack.Boot {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		assembler := bootstrap.NewAssembler(ctx.Source)
		programs := make([]*bootstrap.Program, len(ids))
		tasks := make([]async.Task, len(ids))
		for i, id := range ids {
			node, ok := ctx.State.Graph.Node(id)
			if !ok {
				return fmt.Errorf("boot steps declared for unknown node %s", id)
			}
			steps := r.stack.Boot[id]
			tasks[i] = async.Task{
				Name: "assemble " + id,
				Func: func(c context.Context) error {
					p, err := assembler.Assemble(c, node, steps)
					programs[i] = p
					return err
				},
			}
		}
		if err := async.RunParallel(ctx, tasks); err != nil {
			return err
		}

		for i, id := range ids {
			p := programs[i]
			if err := ctx.State.Graph.SetAttribute(id, resource.AttrBootstrap, p.Script()); err != nil {
				return err
			}
			if err := ctx.State.Graph.SetAttribute(id, resource.AttrBootstrapDigest, p.Digest()); err != nil {
				return err
			}
			ctx.State.Programs[id] = p
			provisioning.LogResourceBound(ctx.Observer, phaseBootstrap, id,
				fmt.Sprintf("assembled %d directives", p.Len()))
		}
		return nil
	}}
}

func (r *run) securityPhase() provisioning.Phase {
	return provisioning.PhaseFunc{PhaseName: phaseSecurity, Fn: func(ctx *provisioning.Context) error {
		tags := labels.NewBuilder(ctx.Config.Stack).
			Merge(ctx.Config.Tags).
			WithComponent(labels.ComponentIdentity).
			Build()
		res, err := security.NewBinder(tags).Bind(ctx, ctx.State.Graph)
		if err != nil {
			return err
		}
		for _, id := range res.SecurityGroups {
			provisioning.LogResourceBound(ctx.Observer, phaseSecurity, id,
				fmt.Sprintf("%d ingress rules", len(res.Ingress[id])))
		}
		for _, g := range res.Grants {
			provisioning.LogResourceBound(ctx.Observer, phaseSecurity, g.NodeID(),
				fmt.Sprintf("grant %s on %s", strings.Join(g.Actions, ","), g.ResourceClass))
		}
		ctx.State.Security = res
		return nil
	}}
}

func (r *run) finalizePhase() provisioning.Phase {
	return provisioning.PhaseFunc{PhaseName: phaseFinalize, Fn: func(ctx *provisioning.Context) error {
		return ctx.State.Graph.Finalize()
	}}
}

func (r *run) emitPhase() provisioning.Phase {
	return provisioning.PhaseFunc{PhaseName: phaseEmit, Fn: func(ctx *provisioning.Context) error {
		p, err := plan.EmitContext(ctx, ctx.State.Graph, ctx.Snapshot)
		if err != nil {
			return err
		}
		p.Stack = r.stack.Name
		if m := r.planner.metrics; m != nil {
			m.Observe(p)
		}
		s := p.Summary()
		ctx.Observer.Printf("Plan %s: %d to create, %d to update, %d pending outputs",
			p.ID, s.Creates, s.Updates, s.PendingOutputs)
		ctx.State.Plan = p
		return nil
	}}
}
