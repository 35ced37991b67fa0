// Package resource defines the declarative unit of a stack topology.
//
// A Node is one piece of infrastructure (network, bucket, instance, ...)
// identified by a stack-unique ID. Nodes reference each other by ID only:
// either through DependsOn or through Ref attribute values, which name an
// attribute of another node that is only known after that node is created.
package resource
