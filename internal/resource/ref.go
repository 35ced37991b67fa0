package resource

import (
	"fmt"
	"reflect"
	"strings"
)

// Ref points at an attribute of another node. Its value is only known after
// the referenced node has been created by the executor.
type Ref struct {
	ID        string `json:"id" yaml:"id"`
	Attribute string `json:"attribute" yaml:"attribute"`
}

// RefTo builds a reference to id's attribute.
func RefTo(id, attribute string) Ref {
	return Ref{ID: id, Attribute: attribute}
}

// String renders the reference as "${id.attribute}".
func (r Ref) String() string {
	return fmt.Sprintf("${%s.%s}", r.ID, r.Attribute)
}

// ParseRef parses the "${id.attribute}" form produced by String.
func ParseRef(s string) (Ref, bool) {
	if !strings.HasPrefix(s, "${") || !strings.HasSuffix(s, "}") {
		return Ref{}, false
	}
	id, attr, ok := strings.Cut(s[2:len(s)-1], ".")
	if !ok || id == "" || attr == "" {
		return Ref{}, false
	}
	return Ref{ID: id, Attribute: attr}, true
}

// Refs walks an attribute tree and returns every Ref it contains, in key
// order so the result is stable.
func Refs(attrs map[string]any) []Ref {
	var out []Ref
	for _, k := range SortedKeys(attrs) {
		out = collectRefs(attrs[k], out)
	}
	return out
}

func collectRefs(v any, out []Ref) []Ref {
	switch val := v.(type) {
	case nil:
		return out
	case Ref:
		return append(out, val)
	case *Ref:
		if val != nil {
			out = append(out, *val)
		}
		return out
	case []Ref:
		return append(out, val...)
	case map[string]any:
		for _, k := range SortedKeys(val) {
			out = collectRefs(val[k], out)
		}
		return out
	case []any:
		for _, item := range val {
			out = collectRefs(item, out)
		}
		return out
	}

	// Typed slices and structs holding refs (e.g. []SomeStruct) are walked
	// reflectively.
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			out = collectRefs(rv.Index(i).Interface(), out)
		}
	case reflect.Struct:
		for i := 0; i < rv.NumField(); i++ {
			if rv.Type().Field(i).IsExported() {
				out = collectRefs(rv.Field(i).Interface(), out)
			}
		}
	}
	return out
}

// RenderValue replaces refs in v with their "${id.attribute}" form so the
// value can be serialized for an executor.
func RenderValue(v any) any {
	switch val := v.(type) {
	case Ref:
		return val.String()
	case []Ref:
		out := make([]string, len(val))
		for i := range val {
			out[i] = val[i].String()
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = RenderValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i := range val {
			out[i] = RenderValue(val[i])
		}
		return out
	default:
		return v
	}
}
