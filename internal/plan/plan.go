package plan

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/imamik/stackplan/internal/graph"
	"github.com/imamik/stackplan/internal/resource"
	"github.com/imamik/stackplan/internal/state"
)

// Action is what the executor must do with a resource.
type Action string

const (
	ActionCreate Action = "Create"
	ActionUpdate Action = "Update"
)

// Operation is one step of a plan.
type Operation struct {
	NodeID     string         `json:"nodeId"`
	Kind       resource.Kind  `json:"kind"`
	Action     Action         `json:"action"`
	DependsOn  []string       `json:"dependsOn,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// OutputBinding exposes an attribute of a created resource under a name.
// Value stays empty while Pending is true.
type OutputBinding struct {
	Name            string `json:"name"`
	SourceNodeID    string `json:"sourceNodeId"`
	SourceAttribute string `json:"sourceAttribute"`
	Value           string `json:"value,omitempty"`
	Pending         bool   `json:"pending"`
}

// Plan is the ordered result of Emit.
type Plan struct {
	ID         string          `json:"id"`
	Stack      string          `json:"stack,omitempty"`
	Operations []Operation     `json:"operations"`
	Outputs    []OutputBinding `json:"outputs,omitempty"`
}

// planNamespace scopes plan ids so they cannot collide with other UUIDv5 users.
var planNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/imamik/stackplan/plan"))

// Emit produces the plan for a finalized graph. Nodes already present in the
// snapshot with the same kind become updates, the rest creates. A nil
// snapshot means nothing has been provisioned yet.
func Emit(g *graph.Graph, snapshot *state.Snapshot) (*Plan, error) {
	return EmitContext(context.Background(), g, snapshot)
}

// EmitContext is Emit with a context carrying the logger.
func EmitContext(ctx context.Context, g *graph.Graph, snapshot *state.Snapshot) (*Plan, error) {
	logger := logr.FromContextOrDiscard(ctx)

	if !g.Finalized() {
		return nil, &InvalidGraphError{Reason: "graph is not finalized"}
	}
	if err := g.Err(); err != nil {
		return nil, &InvalidGraphError{Reason: "finalization failed", Err: err}
	}
	order, err := g.TopoOrder()
	if err != nil {
		return nil, &InvalidGraphError{Reason: "no topological order", Err: err}
	}

	nodes := make([]resource.Node, 0, len(order))
	for _, id := range order {
		n, ok := g.Node(id)
		if !ok {
			return nil, &InvalidGraphError{Reason: fmt.Sprintf("node %s vanished", id)}
		}
		if known, ok := snapshot.Lookup(id); ok && known.Kind != n.Kind {
			return nil, &ResourceKindConflictError{NodeID: id, Declared: n.Kind, Existing: known.Kind}
		}
		nodes = append(nodes, n)
	}

	p := &Plan{Operations: make([]Operation, 0, len(nodes))}
	for _, n := range nodes {
		action := ActionCreate
		if _, ok := snapshot.Lookup(n.ID); ok {
			action = ActionUpdate
		}
		deps, err := g.Dependencies(n.ID)
		if err != nil {
			return nil, &InvalidGraphError{Reason: "dependency lookup failed", Err: err}
		}
		p.Operations = append(p.Operations, Operation{
			NodeID:     n.ID,
			Kind:       n.Kind,
			Action:     action,
			DependsOn:  deps,
			Attributes: renderAttributes(n.Attributes),
		})

		if n.Kind == resource.KindOutput {
			b, err := bindingFor(n)
			if err != nil {
				return nil, err
			}
			if v, ok := snapshot.Attribute(b.SourceNodeID, b.SourceAttribute); ok {
				b.Value = v
				b.Pending = false
			}
			p.Outputs = append(p.Outputs, b)
		}
	}

	id, err := fingerprint(p.Operations)
	if err != nil {
		return nil, err
	}
	p.ID = id

	logger.V(1).Info("emitted plan", "id", p.ID, "operations", len(p.Operations), "outputs", len(p.Outputs))
	return p, nil
}

func renderAttributes(attrs map[string]any) map[string]any {
	if len(attrs) == 0 {
		return nil
	}
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		out[k] = resource.RenderValue(v)
	}
	return out
}

func bindingFor(n resource.Node) (OutputBinding, error) {
	name, _ := n.Attributes[resource.AttrOutputName].(string)
	if name == "" {
		name = n.ID
	}
	var ref resource.Ref
	switch v := n.Attributes[resource.AttrOutputValue].(type) {
	case resource.Ref:
		ref = v
	case string:
		parsed, ok := resource.ParseRef(v)
		if !ok {
			return OutputBinding{}, &InvalidGraphError{Reason: fmt.Sprintf("output %s: value %q is not a reference", n.ID, v)}
		}
		ref = parsed
	default:
		return OutputBinding{}, &InvalidGraphError{Reason: fmt.Sprintf("output %s has no value reference", n.ID)}
	}
	return OutputBinding{
		Name:            name,
		SourceNodeID:    ref.ID,
		SourceAttribute: ref.Attribute,
		Pending:         true,
	}, nil
}

// fingerprint derives a stable id from the canonical operation list.
// encoding/json sorts map keys, so equal plans marshal identically.
func fingerprint(ops []Operation) (string, error) {
	data, err := json.Marshal(ops)
	if err != nil {
		return "", fmt.Errorf("failed to fingerprint plan: %w", err)
	}
	return uuid.NewSHA1(planNamespace, data).String(), nil
}

// Resolve fills output bindings from executor results keyed by node id and
// attribute. Bindings without a result stay pending. It returns the number
// of bindings still pending.
func (p *Plan) Resolve(results map[string]map[string]string) int {
	pending := 0
	for i := range p.Outputs {
		b := &p.Outputs[i]
		if attrs, ok := results[b.SourceNodeID]; ok {
			if v, ok := attrs[b.SourceAttribute]; ok {
				b.Value = v
				b.Pending = false
			}
		}
		if b.Pending {
			pending++
		}
	}
	return pending
}

// Output returns the binding with the given name.
func (p *Plan) Output(name string) (OutputBinding, bool) {
	for _, b := range p.Outputs {
		if b.Name == name {
			return b, true
		}
	}
	return OutputBinding{}, false
}

// Summary counts operations by action and kind.
type Summary struct {
	Creates        int
	Updates        int
	Grants         int
	PendingOutputs int
}

// Summary returns operation counts for reporting.
func (p *Plan) Summary() Summary {
	var s Summary
	for _, op := range p.Operations {
		switch op.Action {
		case ActionCreate:
			s.Creates++
		case ActionUpdate:
			s.Updates++
		}
		if op.Kind == resource.KindPolicyGrant {
			s.Grants++
		}
	}
	for _, b := range p.Outputs {
		if b.Pending {
			s.PendingOutputs++
		}
	}
	return s
}
