// Package orchestration coordinates a planning run.
//
// The Planner executes the provisioning phases in order, sharing results
// through provisioning.State:
//  1. Validation - configuration errors and warnings
//  2. Topology - declare the stream stack's nodes in the graph
//  3. Bootstrap - assemble each instance's boot program into its attributes
//  4. Security - deduplicate ingress and attach least-privilege grants
//  5. Finalize - reject undeclared references and cycles
//  6. Emit - produce the ordered plan against the state snapshot
//
// # Usage
//
//	planner := orchestration.NewPlanner(cfg, source, snapshot)
//	result, err := planner.Plan(ctx)
//
// Planning is pure: the same configuration, artifacts and snapshot yield a
// plan with the same id.
package orchestration
