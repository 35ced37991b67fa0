// Package naming provides consistent cloud-side names for stack resources.
//
// Names follow the pattern {stack}-{purpose}. Node ids inside the graph are
// fixed; these names are what the executor creates, so two stacks never
// collide in one account.
package naming
