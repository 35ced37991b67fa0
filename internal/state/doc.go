// Package state holds the executor's last-known view of provisioned
// resources. The plan emitter reads it to choose between create and update;
// the executor writes it back after applying a plan.
package state
