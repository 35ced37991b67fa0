package resource

import (
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"sort"
)

// Well-known attribute keys shared by the packages that read them.
const (
	AttrTags            = "tags"
	AttrAccess          = "access"
	AttrIngress         = "ingress"
	AttrBootstrap       = "bootstrap"
	AttrBootstrapDigest = "bootstrapDigest"
	AttrOutputName      = "name"
	AttrOutputValue     = "value"
)

var idPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

// Node is a single declared infrastructure resource.
type Node struct {
	ID         string         `json:"id" yaml:"id"`
	Kind       Kind           `json:"kind" yaml:"kind"`
	Attributes map[string]any `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	DependsOn  []string       `json:"dependsOn,omitempty" yaml:"dependsOn,omitempty"`
}

// New creates a node and adds every node referenced from attrs to DependsOn,
// so that attribute references and declared dependencies always agree.
func New(id string, kind Kind, attrs map[string]any, dependsOn ...string) Node {
	n := Node{
		ID:         id,
		Kind:       kind,
		Attributes: attrs,
		DependsOn:  append([]string(nil), dependsOn...),
	}
	if n.Attributes == nil {
		n.Attributes = map[string]any{}
	}
	for _, ref := range Refs(attrs) {
		n.DependsOn = append(n.DependsOn, ref.ID)
	}
	n.DependsOn = uniqueStrings(n.DependsOn)
	return n
}

// Validate checks the node's own fields. Cross-node checks belong to the graph.
func (n Node) Validate() error {
	if !idPattern.MatchString(n.ID) {
		return fmt.Errorf("invalid resource id %q: must be lowercase alphanumeric with dashes", n.ID)
	}
	if !n.Kind.Valid() {
		return fmt.Errorf("resource %s: unknown kind %q", n.ID, n.Kind)
	}
	if slices.Contains(n.DependsOn, n.ID) {
		return fmt.Errorf("resource %s: depends on itself", n.ID)
	}
	return nil
}

// DependsOnID reports whether id is a declared dependency.
func (n Node) DependsOnID(id string) bool {
	return slices.Contains(n.DependsOn, id)
}

// Clone returns a deep copy of the node.
func (n Node) Clone() Node {
	return Node{
		ID:         n.ID,
		Kind:       n.Kind,
		Attributes: cloneMap(n.Attributes),
		DependsOn:  append([]string(nil), n.DependsOn...),
	}
}

// String returns "Kind/id".
func (n Node) String() string {
	return string(n.Kind) + "/" + n.ID
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

// CloneValue returns a deep copy of an attribute value.
func CloneValue(v any) any {
	return cloneValue(v)
}

// cloneValue deep-copies an attribute value. Typed slices, maps, pointers
// and structs are copied reflectively; unexported struct fields are copied
// shallowly.
func cloneValue(v any) any {
	switch val := v.(type) {
	case nil, string, bool, int, int64, float64, Ref:
		return v
	case map[string]any:
		return cloneMap(val)
	case []any:
		out := make([]any, len(val))
		for i := range val {
			out[i] = cloneValue(val[i])
		}
		return out
	}
	return deepCopy(reflect.ValueOf(v)).Interface()
}

func deepCopy(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type().Elem())
		out.Elem().Set(deepCopy(v.Elem()))
		return out
	case reflect.Interface:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type()).Elem()
		out.Set(deepCopy(v.Elem()))
		return out
	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := range v.Len() {
			out.Index(i).Set(deepCopy(v.Index(i)))
		}
		return out
	case reflect.Array:
		out := reflect.New(v.Type()).Elem()
		for i := range v.Len() {
			out.Index(i).Set(deepCopy(v.Index(i)))
		}
		return out
	case reflect.Map:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), deepCopy(iter.Value()))
		}
		return out
	case reflect.Struct:
		out := reflect.New(v.Type()).Elem()
		out.Set(v)
		for i := range v.NumField() {
			if v.Type().Field(i).IsExported() {
				out.Field(i).Set(deepCopy(v.Field(i)))
			}
		}
		return out
	default:
		return v
	}
}

func uniqueStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// SortedKeys returns the keys of m in lexical order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
