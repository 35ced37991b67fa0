// Package provisioning provides the shared types that run a planning
// pipeline.
//
// # Core Types
//
// Context carries the configuration, the artifact source, the executor
// snapshot and an Observer. Phase defines a pipeline step with Name() and
// Provision() methods. State accumulates the results of each phase: the
// declared graph, the assembled boot programs, the security bindings and
// finally the plan.
package provisioning
