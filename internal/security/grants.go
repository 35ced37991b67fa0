package security

import (
	"fmt"
	"sort"
	"strings"

	"github.com/imamik/stackplan/internal/graph"
	"github.com/imamik/stackplan/internal/resource"
)

// Grant is the merged set of actions a principal may perform on resources of
// one class.
type Grant struct {
	Principal     string   `json:"principal" yaml:"principal"`
	ResourceClass string   `json:"resourceClass" yaml:"resourceClass"`
	Actions       []string `json:"actions" yaml:"actions"`
	// Resources are target node ids, or just "*".
	Resources []string `json:"resources" yaml:"resources"`
}

// NodeID is the id of the PolicyGrant node that carries the grant.
func (g Grant) NodeID() string {
	return fmt.Sprintf("%s-%s-grant", g.Principal, classSlug(g.ResourceClass))
}

// Wildcard reports whether the grant applies to every resource of its class.
func (g Grant) Wildcard() bool {
	return len(g.Resources) == 1 && g.Resources[0] == resource.Wildcard
}

func classSlug(class string) string {
	var b strings.Builder
	for i, r := range class {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

type grantKey struct {
	principal string
	class     string
}

// ComputeGrants derives one grant per (principal, resource class) pair from
// the access intents of principal nodes. Grants are ordered by principal
// insertion order, then by class.
func ComputeGrants(g *graph.Graph) ([]Grant, error) {
	type acc struct {
		actions   map[string]bool
		resources map[string]bool
	}
	merged := make(map[grantKey]*acc)
	var keys []grantKey

	nodes := g.Nodes()
	for _, n := range nodes {
		intents := n.Intents()
		if len(intents) == 0 {
			continue
		}
		if !n.Kind.IsPrincipal() {
			return nil, fmt.Errorf("resource %s declares access intents but %s cannot hold permissions", n.ID, n.Kind)
		}

		var principalKeys []grantKey
		for _, in := range intents {
			if err := in.Validate(); err != nil {
				return nil, fmt.Errorf("resource %s: %w", n.ID, err)
			}
			class, err := intentClass(g, in)
			if err != nil {
				return nil, fmt.Errorf("resource %s: %w", n.ID, err)
			}

			actions := append([]string(nil), in.Actions...)
			if in.Level != "" {
				derived, ok := actionsFor(class, in.Level)
				if !ok {
					return nil, fmt.Errorf("resource %s: access level %q is not defined for %s", n.ID, in.Level, class)
				}
				actions = append(actions, derived...)
			}

			k := grantKey{principal: n.ID, class: class}
			a, ok := merged[k]
			if !ok {
				a = &acc{actions: map[string]bool{}, resources: map[string]bool{}}
				merged[k] = a
				principalKeys = append(principalKeys, k)
			}
			for _, act := range actions {
				a.actions[act] = true
			}
			a.resources[in.Target] = true
		}
		sort.Slice(principalKeys, func(i, j int) bool { return principalKeys[i].class < principalKeys[j].class })
		keys = append(keys, principalKeys...)
	}

	grants := make([]Grant, 0, len(keys))
	for _, k := range keys {
		a := merged[k]
		resources := resource.SortedKeys(a.resources)
		if a.resources[resource.Wildcard] {
			resources = []string{resource.Wildcard}
		}
		grants = append(grants, Grant{
			Principal:     k.principal,
			ResourceClass: k.class,
			Actions:       resource.SortedKeys(a.actions),
			Resources:     resources,
		})
	}
	return grants, nil
}

// intentClass resolves the resource class of an intent: the kind of its
// target node, or its service for wildcard intents.
func intentClass(g *graph.Graph, in resource.Access) (string, error) {
	if in.Target == resource.Wildcard {
		return in.Service, nil
	}
	target, ok := g.Node(in.Target)
	if !ok {
		return "", &graph.UnknownNodeError{ID: in.Target}
	}
	if in.Service != "" && in.Service != string(target.Kind) {
		return "", fmt.Errorf("access intent on %s names service %q but target is a %s", in.Target, in.Service, target.Kind)
	}
	return string(target.Kind), nil
}
