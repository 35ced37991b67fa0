package graph

import (
	"fmt"
	"slices"
	"sync"

	"github.com/imamik/stackplan/internal/resource"
)

// Graph is a set of resource nodes and explicit edges. It exclusively owns
// its nodes: callers only ever receive copies.
type Graph struct {
	mu sync.RWMutex

	nodes map[string]*resource.Node
	// order is the insertion order of node ids.
	order []string
	// edges are explicit AddEdge edges keyed by target: edges[to] = froms.
	edges map[string][]string

	finalized bool
	err       error
}

// New returns an empty, mutable graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*resource.Node),
		edges: make(map[string][]string),
	}
}

// AddNode adds a copy of n. Its DependsOn may name nodes added later;
// dangling ids are reported by Validate and Finalize.
func (g *Graph) AddNode(n resource.Node) error {
	if err := n.Validate(); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.finalized {
		return &GraphFinalizedError{Op: "add node " + n.ID}
	}
	if _, ok := g.nodes[n.ID]; ok {
		return &DuplicateIDError{ID: n.ID}
	}

	c := n.Clone()
	if c.Attributes == nil {
		c.Attributes = map[string]any{}
	}
	g.nodes[n.ID] = &c
	g.order = append(g.order, n.ID)
	return nil
}

// AddEdge records that from must exist before to.
func (g *Graph) AddEdge(from, to string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.finalized {
		return &GraphFinalizedError{Op: fmt.Sprintf("add edge %s -> %s", from, to)}
	}
	if _, ok := g.nodes[from]; !ok {
		return &UnknownNodeError{ID: from}
	}
	if _, ok := g.nodes[to]; !ok {
		return &UnknownNodeError{ID: to}
	}
	if from == to {
		return &CycleError{Members: []string{from}}
	}
	if !slices.Contains(g.edges[to], from) {
		g.edges[to] = append(g.edges[to], from)
	}
	return nil
}

// SetAttribute sets a copy of value as an attribute of an existing node. A
// Ref inside value becomes a dependency of the node.
func (g *Graph) SetAttribute(id, key string, value any) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.finalized {
		return &GraphFinalizedError{Op: fmt.Sprintf("set %s.%s", id, key)}
	}
	n, ok := g.nodes[id]
	if !ok {
		return &UnknownNodeError{ID: id}
	}
	n.Attributes[key] = resource.CloneValue(value)
	for _, ref := range resource.Refs(map[string]any{key: value}) {
		if !n.DependsOnID(ref.ID) {
			n.DependsOn = append(n.DependsOn, ref.ID)
		}
	}
	return nil
}

// Node returns a copy of the node with the given id.
func (g *Graph) Node(id string) (resource.Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return resource.Node{}, false
	}
	return n.Clone(), true
}

// Nodes returns copies of all nodes in insertion order.
func (g *Graph) Nodes() []resource.Node {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]resource.Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id].Clone())
	}
	return out
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.order)
}

// Dependencies returns the ids that id directly depends on, in insertion
// order of the dependencies.
func (g *Graph) Dependencies(id string) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if _, ok := g.nodes[id]; !ok {
		return nil, &UnknownNodeError{ID: id}
	}
	return g.predecessors(id), nil
}

// Dependents returns the ids that directly depend on id, in insertion order.
func (g *Graph) Dependents(id string) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if _, ok := g.nodes[id]; !ok {
		return nil, &UnknownNodeError{ID: id}
	}
	var out []string
	for _, other := range g.order {
		if slices.Contains(g.predecessors(other), id) {
			out = append(out, other)
		}
	}
	return out, nil
}

// Finalized reports whether the graph is frozen.
func (g *Graph) Finalized() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.finalized
}

// Err returns the validation error recorded by Finalize, if any.
func (g *Graph) Err() error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.err
}

// Finalize validates the graph and freezes it. The graph is frozen even when
// validation fails; the error is kept and returned by Err.
func (g *Graph) Finalize() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.finalized {
		return g.err
	}
	g.finalized = true
	if err := g.validate(); err != nil {
		g.err = err
		return err
	}
	return nil
}

// Validate runs all cross-node checks without freezing the graph.
func (g *Graph) Validate() error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.validate()
}

func (g *Graph) validate() error {
	for _, id := range g.order {
		n := g.nodes[id]
		for _, dep := range n.DependsOn {
			if _, ok := g.nodes[dep]; !ok {
				return &UnknownNodeError{ID: dep, Referrer: id}
			}
		}
		for _, key := range resource.SortedKeys(n.Attributes) {
			for _, ref := range resource.Refs(map[string]any{key: n.Attributes[key]}) {
				if !n.DependsOnID(ref.ID) {
					return &UndeclaredReferenceError{NodeID: id, Attribute: key, Target: ref.ID}
				}
			}
		}
	}
	_, err := g.topoOrder()
	return err
}

// predecessors returns the direct dependencies of id: DependsOn first, then
// explicit edges, without duplicates. Callers hold the lock.
func (g *Graph) predecessors(id string) []string {
	n := g.nodes[id]
	out := make([]string, 0, len(n.DependsOn)+len(g.edges[id]))
	out = append(out, n.DependsOn...)
	for _, from := range g.edges[id] {
		if !slices.Contains(out, from) {
			out = append(out, from)
		}
	}
	return out
}
