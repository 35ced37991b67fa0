package security

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/imamik/stackplan/internal/graph"
	"github.com/imamik/stackplan/internal/resource"
)

// Result summarizes what the binder attached.
type Result struct {
	Grants []Grant
	// Ingress holds the deduplicated rules per security group id.
	Ingress map[string][]IngressRule
	// SecurityGroups lists the keys of Ingress in graph order.
	SecurityGroups []string
}

// Binder attaches the computed ingress and grants to a graph before it is
// finalized.
type Binder struct {
	// Tags are copied onto every PolicyGrant node.
	Tags map[string]string
}

// NewBinder returns a binder that tags grant nodes with tags.
func NewBinder(tags map[string]string) *Binder {
	return &Binder{Tags: tags}
}

// Bind rewrites the ingress attribute of every security group with its
// deduplicated rules and adds one PolicyGrant node per computed grant. Each
// grant node depends on its principal and on every concrete target.
func (b *Binder) Bind(ctx context.Context, g *graph.Graph) (*Result, error) {
	log := logr.FromContextOrDiscard(ctx)
	res := &Result{Ingress: map[string][]IngressRule{}}

	for _, n := range g.Nodes() {
		if n.Kind != resource.KindSecurityGroup {
			continue
		}
		declared, err := ingressRules(n)
		if err != nil {
			return nil, err
		}
		rules, err := ComputeIngress(n.ID, declared)
		if err != nil {
			return nil, err
		}
		if err := g.SetAttribute(n.ID, resource.AttrIngress, rules); err != nil {
			return nil, err
		}
		res.Ingress[n.ID] = rules
		res.SecurityGroups = append(res.SecurityGroups, n.ID)
		log.V(1).Info("computed ingress", "securityGroup", n.ID, "declared", len(declared), "rules", len(rules))
	}

	grants, err := ComputeGrants(g)
	if err != nil {
		return nil, err
	}
	for _, gr := range grants {
		attrs := map[string]any{
			"principal":     resource.RefTo(gr.Principal, "roleArn"),
			"resourceClass": gr.ResourceClass,
			"actions":       append([]string(nil), gr.Actions...),
		}
		if gr.Wildcard() {
			attrs["resources"] = []string{resource.Wildcard}
		} else {
			refs := make([]resource.Ref, 0, len(gr.Resources))
			for _, id := range gr.Resources {
				refs = append(refs, resource.RefTo(id, "arn"))
			}
			attrs["resources"] = refs
		}
		if len(b.Tags) > 0 {
			attrs[resource.AttrTags] = copyTags(b.Tags)
		}
		if err := g.AddNode(resource.New(gr.NodeID(), resource.KindPolicyGrant, attrs)); err != nil {
			return nil, fmt.Errorf("attach grant for %s: %w", gr.Principal, err)
		}
		log.V(1).Info("attached grant", "node", gr.NodeID(), "actions", len(gr.Actions))
	}
	res.Grants = grants
	return res, nil
}

func ingressRules(n resource.Node) ([]IngressRule, error) {
	switch v := n.Attributes[resource.AttrIngress].(type) {
	case nil:
		return nil, nil
	case []IngressRule:
		return v, nil
	default:
		return nil, fmt.Errorf("security group %s: ingress attribute has type %T", n.ID, v)
	}
}

func copyTags(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
