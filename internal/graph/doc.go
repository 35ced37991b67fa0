// Package graph holds resource nodes and their "must exist before" edges.
//
// A Graph is populated by a single builder (AddNode, AddEdge, SetAttribute),
// then frozen with Finalize. Finalize validates the whole graph: every
// referenced id must exist, every attribute reference must be declared in
// DependsOn, and the edges must be acyclic. A graph that fails Finalize stays
// frozen and invalid; callers build a corrected graph instead of patching it.
//
// TopoOrder is deterministic: nodes with no ordering constraint between them
// keep their insertion order, so identical input always yields identical plans.
package graph
