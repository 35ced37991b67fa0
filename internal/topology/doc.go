// Package topology declares the stream-ingest stack as resource nodes.
//
// The stack is a single stream server on a public subnet with a static
// address, a managed video stream, a frames bucket whose uploads trigger an
// analysis function, and an alert topic. Cloud-side names come from
// internal/util/naming and tags from internal/util/labels.
package topology
