package resource

import "fmt"

// Kind is the type of a resource node. It is fixed once the node is added
// to a graph.
type Kind string

// Supported resource kinds.
const (
	KindNetwork            Kind = "Network"
	KindSubnet             Kind = "Subnet"
	KindSecurityGroup      Kind = "SecurityGroup"
	KindKeyPair            Kind = "KeyPair"
	KindVolume             Kind = "Volume"
	KindComputeInstance    Kind = "ComputeInstance"
	KindBucket             Kind = "Bucket"
	KindManagedStream      Kind = "ManagedStream"
	KindFunction           Kind = "Function"
	KindTopic              Kind = "Topic"
	KindPolicyGrant        Kind = "PolicyGrant"
	KindOutput             Kind = "Output"
	KindEventTrigger       Kind = "EventTrigger"
	KindStaticAddress      Kind = "StaticAddress"
	KindAddressAssociation Kind = "AddressAssociation"
)

var knownKinds = map[Kind]bool{
	KindNetwork:            true,
	KindSubnet:             true,
	KindSecurityGroup:      true,
	KindKeyPair:            true,
	KindVolume:             true,
	KindComputeInstance:    true,
	KindBucket:             true,
	KindManagedStream:      true,
	KindFunction:           true,
	KindTopic:              true,
	KindPolicyGrant:        true,
	KindOutput:             true,
	KindEventTrigger:       true,
	KindStaticAddress:      true,
	KindAddressAssociation: true,
}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	return knownKinds[k]
}

// IsPrincipal reports whether nodes of this kind can hold permissions.
func (k Kind) IsPrincipal() bool {
	return k == KindComputeInstance || k == KindFunction
}

// ParseKind converts a string into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown resource kind %q", s)
	}
	return k, nil
}
