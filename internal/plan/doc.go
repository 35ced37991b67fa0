// Package plan turns a finalized resource graph into an ordered list of
// create/update operations for an external executor, together with the
// output bindings the executor fills in once resources exist.
//
// Emission is all-or-nothing: a plan is either complete or not produced.
package plan
