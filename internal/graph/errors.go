package graph

import (
	"fmt"
	"strings"
)

// DuplicateIDError means a node with the same id was already added.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate resource id: %s", e.ID)
}

// UnknownNodeError means an edge or dependency names an id that is not in
// the graph. Referrer is empty for direct AddEdge calls.
type UnknownNodeError struct {
	ID       string
	Referrer string
}

func (e *UnknownNodeError) Error() string {
	if e.Referrer != "" {
		return fmt.Sprintf("unknown resource %s referenced by %s", e.ID, e.Referrer)
	}
	return fmt.Sprintf("unknown resource: %s", e.ID)
}

// CycleError lists every node on a dependency cycle in traversal order.
type CycleError struct {
	Members []string
}

func (e *CycleError) Error() string {
	if len(e.Members) == 0 {
		return "dependency cycle detected"
	}
	path := append(append([]string(nil), e.Members...), e.Members[0])
	return "dependency cycle detected: " + strings.Join(path, " -> ")
}

// GraphFinalizedError means a mutation was attempted on a frozen graph.
type GraphFinalizedError struct {
	Op string
}

func (e *GraphFinalizedError) Error() string {
	return fmt.Sprintf("graph is finalized: %s not allowed", e.Op)
}

// UndeclaredReferenceError means an attribute references a node that is not
// listed in the referrer's DependsOn.
type UndeclaredReferenceError struct {
	NodeID    string
	Attribute string
	Target    string
}

func (e *UndeclaredReferenceError) Error() string {
	return fmt.Sprintf("resource %s: attribute %q references %s which is not in dependsOn",
		e.NodeID, e.Attribute, e.Target)
}
