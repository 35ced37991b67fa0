package labels

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBuilder(t *testing.T) {
	t.Parallel()
	tags := NewBuilder("camera-feed").Build()
	assert.Equal(t, map[string]string{
		KeyStack:     "camera-feed",
		KeyManagedBy: ManagedByStackplan,
	}, tags)
}

func TestBuilder_WithComponent(t *testing.T) {
	t.Parallel()
	tags := NewBuilder("s").WithComponent(ComponentIngest).Build()
	assert.Equal(t, ComponentIngest, tags[KeyComponent])
}

func TestBuilder_MergeKeepsReservedKeys(t *testing.T) {
	t.Parallel()
	tags := NewBuilder("s").Merge(map[string]string{
		KeyStack:     "other",
		KeyManagedBy: "terraform",
		"team":       "video",
	}).Build()

	assert.Equal(t, "s", tags[KeyStack])
	assert.Equal(t, ManagedByStackplan, tags[KeyManagedBy])
	assert.Equal(t, "video", tags["team"])
}

func TestBuilder_BuildReturnsCopy(t *testing.T) {
	t.Parallel()
	b := NewBuilder("s")
	tags := b.Build()
	tags["mutated"] = "yes"
	assert.NotContains(t, b.Build(), "mutated")
}

func TestPairs(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"a=1", "b=2"}, Pairs(map[string]string{"b": "2", "a": "1"}))
	assert.Empty(t, Pairs(nil))
}
