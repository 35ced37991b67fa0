// Package labels builds the tag sets attached to every declared resource.
//
// Keys use the "stackplan:" prefix so the executor and operators can find
// everything a stack owns.
package labels
