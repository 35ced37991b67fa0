package labels

import "sort"

const (
	// KeyStack identifies which stack a resource belongs to.
	KeyStack = "stackplan:stack"

	// KeyComponent groups resources by function (ingest, analysis, network).
	KeyComponent = "stackplan:component"

	// KeyManagedBy identifies the management system.
	KeyManagedBy = "stackplan:managed-by"
)

// Component values.
const (
	ComponentNetwork  = "network"
	ComponentIngest   = "ingest"
	ComponentStorage  = "storage"
	ComponentAnalysis = "analysis"
	ComponentIdentity = "identity"
)

// ManagedByStackplan is the default KeyManagedBy value.
const ManagedByStackplan = "stackplan"

// Builder provides a fluent interface for building resource tags.
type Builder struct {
	tags map[string]string
}

// NewBuilder creates a builder with the stack and manager preset.
func NewBuilder(stack string) *Builder {
	return &Builder{
		tags: map[string]string{
			KeyStack:     stack,
			KeyManagedBy: ManagedByStackplan,
		},
	}
}

// WithComponent sets the component tag.
func (b *Builder) WithComponent(component string) *Builder {
	b.tags[KeyComponent] = component
	return b
}

// Merge adds user tags. Reserved keys keep their builder values.
func (b *Builder) Merge(extra map[string]string) *Builder {
	for k, v := range extra {
		if k == KeyStack || k == KeyManagedBy {
			continue
		}
		b.tags[k] = v
	}
	return b
}

// Build returns a copy of the tags.
func (b *Builder) Build() map[string]string {
	out := make(map[string]string, len(b.tags))
	for k, v := range b.tags {
		out[k] = v
	}
	return out
}

// Pairs returns "key=value" strings sorted by key.
func Pairs(tags map[string]string) []string {
	out := make([]string, 0, len(tags))
	for k, v := range tags {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}
