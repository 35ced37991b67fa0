// Package security computes the network ingress and permission closure of a
// stack.
//
// Ingress rules are validated when they are declared and deduplicated per
// security group. Permission grants are derived from the access intents that
// principal nodes (instances and functions) declare: one grant per principal
// and resource class, with the actions of every intent for that pair merged.
// A principal with no intents gets no grants.
package security
