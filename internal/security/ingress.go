package security

import (
	"fmt"
	"net/netip"
	"strings"
)

// Protocol is a transport protocol for ingress rules.
type Protocol string

// Supported protocols.
const (
	TCP Protocol = "tcp"
	UDP Protocol = "udp"
)

// AnyIPv4 is the CIDR matching every IPv4 source.
const AnyIPv4 = "0.0.0.0/0"

// IngressRule allows inbound traffic to a security group.
type IngressRule struct {
	Protocol    Protocol `json:"protocol" yaml:"protocol"`
	Port        int      `json:"port" yaml:"port"`
	SourceCIDR  string   `json:"sourceCidr" yaml:"sourceCidr"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// InvalidIngressError reports a syntactically invalid rule.
type InvalidIngressError struct {
	Rule   IngressRule
	Reason string
}

func (e *InvalidIngressError) Error() string {
	return fmt.Sprintf("invalid ingress rule %s/%d from %q: %s", e.Rule.Protocol, e.Rule.Port, e.Rule.SourceCIDR, e.Reason)
}

// ParseIngress builds and validates a rule. The protocol is case-insensitive
// and the CIDR is normalized to its masked form.
func ParseIngress(protocol string, port int, cidr, description string) (IngressRule, error) {
	r := IngressRule{
		Protocol:    Protocol(strings.ToLower(protocol)),
		Port:        port,
		SourceCIDR:  cidr,
		Description: description,
	}
	if err := r.normalize(); err != nil {
		return IngressRule{}, err
	}
	return r, nil
}

// AllowTCPFromAnyIPv4 is the rule used for public service ports.
func AllowTCPFromAnyIPv4(port int, description string) (IngressRule, error) {
	return ParseIngress(string(TCP), port, AnyIPv4, description)
}

// Validate checks the rule without modifying it.
func (r IngressRule) Validate() error {
	c := r
	return c.normalize()
}

func (r *IngressRule) normalize() error {
	if r.Protocol != TCP && r.Protocol != UDP {
		return &InvalidIngressError{Rule: *r, Reason: "protocol must be tcp or udp"}
	}
	if r.Port < 0 || r.Port > 65535 {
		return &InvalidIngressError{Rule: *r, Reason: "port must be in [0, 65535]"}
	}
	prefix, err := netip.ParsePrefix(r.SourceCIDR)
	if err != nil {
		return &InvalidIngressError{Rule: *r, Reason: err.Error()}
	}
	r.SourceCIDR = prefix.Masked().String()
	return nil
}

type ingressKey struct {
	protocol Protocol
	port     int
	cidr     string
}

func (r IngressRule) key() ingressKey {
	return ingressKey{protocol: r.Protocol, port: r.Port, cidr: r.SourceCIDR}
}

// ComputeIngress validates rules for the security group sgID and removes
// duplicate (protocol, port, source) tuples. The first occurrence wins,
// including its description, and the declared order is kept.
func ComputeIngress(sgID string, rules []IngressRule) ([]IngressRule, error) {
	seen := make(map[ingressKey]bool, len(rules))
	out := make([]IngressRule, 0, len(rules))
	for _, r := range rules {
		if err := r.normalize(); err != nil {
			return nil, fmt.Errorf("security group %s: %w", sgID, err)
		}
		if seen[r.key()] {
			continue
		}
		seen[r.key()] = true
		out = append(out, r)
	}
	return out, nil
}
