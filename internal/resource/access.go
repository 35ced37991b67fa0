package resource

import "fmt"

// AccessLevel is the coarse access a principal needs on a target.
type AccessLevel string

// Access levels understood by the security binder.
const (
	AccessRead      AccessLevel = "read"
	AccessWrite     AccessLevel = "write"
	AccessReadWrite AccessLevel = "readwrite"
	AccessPublish   AccessLevel = "publish"
	AccessInvoke    AccessLevel = "invoke"
)

// Wildcard targets every resource of a service.
const Wildcard = "*"

// Access is a declared intent of a principal node to use another resource.
// Target is a node id, or Wildcard together with Service.
type Access struct {
	Target  string      `json:"target" yaml:"target"`
	Service string      `json:"service,omitempty" yaml:"service,omitempty"`
	Level   AccessLevel `json:"level,omitempty" yaml:"level,omitempty"`
	// Actions are literal extra actions merged into the derived grant.
	Actions []string `json:"actions,omitempty" yaml:"actions,omitempty"`
}

// Validate checks the intent in isolation.
func (a Access) Validate() error {
	if a.Target == "" {
		return fmt.Errorf("access intent has no target")
	}
	if a.Target == Wildcard && a.Service == "" {
		return fmt.Errorf("wildcard access intent requires a service")
	}
	if a.Level == "" && len(a.Actions) == 0 {
		return fmt.Errorf("access intent on %s has neither level nor actions", a.Target)
	}
	return nil
}

// Intents returns the access intents declared on the node.
func (n Node) Intents() []Access {
	switch v := n.Attributes[AttrAccess].(type) {
	case []Access:
		return v
	case Access:
		return []Access{v}
	default:
		return nil
	}
}

// WithAccess returns a copy of attrs with the intents appended.
func WithAccess(attrs map[string]any, intents ...Access) map[string]any {
	out := cloneMap(attrs)
	if out == nil {
		out = map[string]any{}
	}
	existing, _ := out[AttrAccess].([]Access)
	out[AttrAccess] = append(append([]Access(nil), existing...), intents...)
	return out
}
