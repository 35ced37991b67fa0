package graph

import (
	"fmt"
	"strings"

	"github.com/imamik/stackplan/internal/resource"
)

// SnapshotNode is a node as shown in a graph export.
type SnapshotNode struct {
	ID   string        `json:"id"`
	Kind resource.Kind `json:"kind"`
}

// SnapshotEdge means From must exist before To.
type SnapshotEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Snapshot is a serializable view of the graph structure.
type Snapshot struct {
	Nodes     []SnapshotNode `json:"nodes"`
	Edges     []SnapshotEdge `json:"edges"`
	TopoOrder []string       `json:"topoOrder"`
}

// Export returns the graph structure. TopoOrder is empty when the graph has
// a cycle or dangling reference.
func (g *Graph) Export() Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var s Snapshot
	for _, id := range g.order {
		n := g.nodes[id]
		s.Nodes = append(s.Nodes, SnapshotNode{ID: id, Kind: n.Kind})
		for _, from := range g.inInsertionOrder(g.predecessors(id)) {
			s.Edges = append(s.Edges, SnapshotEdge{From: from, To: id})
		}
	}
	if order, err := g.topoOrder(); err == nil {
		s.TopoOrder = order
	}
	return s
}

// DOT renders the snapshot as Graphviz DOT.
func (s Snapshot) DOT() string {
	var b strings.Builder
	b.WriteString("digraph stack {\n")
	b.WriteString("  rankdir=LR;\n")

	aliases := make(map[string]string, len(s.Nodes))
	for i, n := range s.Nodes {
		alias := fmt.Sprintf("n%d", i)
		aliases[n.ID] = alias
		fmt.Fprintf(&b, "  %s [label=\"%s\\n(%s)\"];\n", alias, escapeQuotes(n.ID), escapeQuotes(string(n.Kind)))
	}
	for _, e := range s.Edges {
		from, okFrom := aliases[e.From]
		to, okTo := aliases[e.To]
		if !okFrom || !okTo {
			continue
		}
		fmt.Fprintf(&b, "  %s -> %s;\n", from, to)
	}
	b.WriteString("}\n")
	return b.String()
}

// Mermaid renders the snapshot as a Mermaid flowchart.
func (s Snapshot) Mermaid() string {
	var b strings.Builder
	b.WriteString("graph TD\n")

	aliases := make(map[string]string, len(s.Nodes))
	for i, n := range s.Nodes {
		alias := fmt.Sprintf("n%d", i)
		aliases[n.ID] = alias
		fmt.Fprintf(&b, "    %s[\"%s<br/>(%s)\"]\n", alias, escapeQuotes(n.ID), escapeQuotes(string(n.Kind)))
	}
	for _, e := range s.Edges {
		from, okFrom := aliases[e.From]
		to, okTo := aliases[e.To]
		if !okFrom || !okTo {
			continue
		}
		fmt.Fprintf(&b, "    %s --> %s\n", from, to)
	}
	return b.String()
}

func escapeQuotes(s string) string {
	return strings.ReplaceAll(s, "\"", "\\\"")
}
