package testing

import (
	"maps"
	"slices"

	"github.com/imamik/stackplan/internal/config"
	"github.com/imamik/stackplan/internal/resource"
	"github.com/imamik/stackplan/internal/state"
)

// DefaultStack is the stack name used by builders.
const DefaultStack = "camera-feed"

// ConfigBuilder provides a fluent interface for constructing test configs.
// Each method returns a new builder (immutable) for chaining.
type ConfigBuilder struct {
	cfg config.Config
}

// NewConfigBuilder creates a new ConfigBuilder with every default applied.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{cfg: *config.Default(DefaultStack)}
}

// WithStack sets the stack name.
func (b *ConfigBuilder) WithStack(name string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Stack = name
	return newBuilder
}

// WithRegion sets the region.
func (b *ConfigBuilder) WithRegion(region string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Region = region
	return newBuilder
}

// WithTags adds user tags.
func (b *ConfigBuilder) WithTags(tags map[string]string) *ConfigBuilder {
	newBuilder := b.clone()
	if newBuilder.cfg.Tags == nil {
		newBuilder.cfg.Tags = map[string]string{}
	}
	maps.Copy(newBuilder.cfg.Tags, tags)
	return newBuilder
}

// WithPorts replaces the stream server's ports.
func (b *ConfigBuilder) WithPorts(ports ...config.PortConfig) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Server.Ports = slices.Clone(ports)
	return newBuilder
}

// WithPublicKey imports an SSH public key for the key pair.
func (b *ConfigBuilder) WithPublicKey(authorized string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Server.PublicKey = authorized
	return newBuilder
}

// WithoutAnalysis disables the frame analysis pipeline.
func (b *ConfigBuilder) WithoutAnalysis() *ConfigBuilder {
	newBuilder := b.clone()
	disabled := false
	newBuilder.cfg.Analysis.Enabled = &disabled
	return newBuilder
}

// Build returns the configuration.
func (b *ConfigBuilder) Build() *config.Config {
	cfg := b.clone().cfg
	return &cfg
}

func (b *ConfigBuilder) clone() *ConfigBuilder {
	c := b.cfg
	c.Tags = maps.Clone(b.cfg.Tags)
	c.Server.Ports = slices.Clone(b.cfg.Server.Ports)
	if b.cfg.Analysis.Enabled != nil {
		enabled := *b.cfg.Analysis.Enabled
		c.Analysis.Enabled = &enabled
	}
	if b.cfg.Frames.Defaults.AutoDeleteObjects != nil {
		autoDelete := *b.cfg.Frames.Defaults.AutoDeleteObjects
		c.Frames.Defaults.AutoDeleteObjects = &autoDelete
	}
	return &ConfigBuilder{cfg: c}
}

// SnapshotBuilder builds state snapshots of applied resources.
type SnapshotBuilder struct {
	snapshot *state.Snapshot
}

// NewSnapshotBuilder starts an empty snapshot for DefaultStack.
func NewSnapshotBuilder() *SnapshotBuilder {
	return &SnapshotBuilder{snapshot: state.New(DefaultStack)}
}

// With sets the record of a resource, replacing any earlier one.
func (b *SnapshotBuilder) With(id string, kind resource.Kind, attrs map[string]string) *SnapshotBuilder {
	r := state.Record{Kind: kind, Attributes: make(map[string]string, len(attrs))}
	for k, v := range attrs {
		r.Attributes[k] = v
	}
	b.snapshot.Resources[id] = r
	return b
}

// Build returns the snapshot.
func (b *SnapshotBuilder) Build() *state.Snapshot {
	return b.snapshot
}
