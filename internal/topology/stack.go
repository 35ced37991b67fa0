package topology

import (
	"fmt"
	"strconv"

	"github.com/imamik/stackplan/internal/bootstrap"
	"github.com/imamik/stackplan/internal/config"
	"github.com/imamik/stackplan/internal/graph"
	"github.com/imamik/stackplan/internal/resource"
	"github.com/imamik/stackplan/internal/security"
	"github.com/imamik/stackplan/internal/util/keygen"
	"github.com/imamik/stackplan/internal/util/labels"
	"github.com/imamik/stackplan/internal/util/naming"
)

// Stack is the declared topology: nodes in declaration order plus the boot
// steps of every compute instance.
type Stack struct {
	Name  string
	Nodes []resource.Node
	Boot  map[string][]bootstrap.Step
	// Tags is the stack-wide tag set, used for derived nodes.
	Tags map[string]string
}

// Build declares the stream stack described by cfg.
func Build(cfg *config.Config) (*Stack, error) {
	b := &builder{
		cfg: cfg,
		stack: &Stack{
			Name: cfg.Stack,
			Boot: map[string][]bootstrap.Step{},
			Tags: labels.NewBuilder(cfg.Stack).Merge(cfg.Tags).Build(),
		},
	}

	b.storage()
	b.network()
	if err := b.server(); err != nil {
		return nil, err
	}
	if cfg.Analysis.IsEnabled() {
		b.analysis()
	}
	b.outputs()
	return b.stack, nil
}

// Declare adds every node to g in declaration order.
func (s *Stack) Declare(g *graph.Graph) error {
	for _, n := range s.Nodes {
		if err := g.AddNode(n); err != nil {
			return fmt.Errorf("declare %s: %w", n, err)
		}
	}
	return nil
}

// Node returns the declared node with id.
func (s *Stack) Node(id string) (resource.Node, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return resource.Node{}, false
}

type builder struct {
	cfg   *config.Config
	stack *Stack
}

func (b *builder) add(id string, kind resource.Kind, component string, attrs map[string]any) {
	attrs[resource.AttrTags] = labels.NewBuilder(b.cfg.Stack).
		Merge(b.cfg.Tags).
		WithComponent(component).
		Build()
	b.stack.Nodes = append(b.stack.Nodes, resource.New(id, kind, attrs))
}

func (b *builder) storage() {
	d := b.cfg.Frames.Defaults
	b.add(FramesBucket, resource.KindBucket, labels.ComponentStorage, map[string]any{
		"name":              naming.Bucket(b.cfg.Stack, "frames"),
		"autoDeleteObjects": d.AutoDelete(),
		"removalPolicy":     d.RemovalPolicy,
		"versioned":         d.Versioned,
	})
	b.add(VideoStream, resource.KindManagedStream, labels.ComponentIngest, map[string]any{
		"name":                 naming.VideoStream(b.cfg.Stack),
		"dataRetentionInHours": b.cfg.Stream.RetentionHours,
	})
}

func (b *builder) network() {
	stack := b.cfg.Stack
	b.add(Network, resource.KindNetwork, labels.ComponentNetwork, map[string]any{
		"name": naming.Network(stack),
		"cidr": b.cfg.Network.CIDR,
	})
	b.add(PublicSubnet, resource.KindSubnet, labels.ComponentNetwork, map[string]any{
		"name":                naming.PublicSubnet(stack),
		"network":             resource.RefTo(Network, "id"),
		"cidr":                b.cfg.Network.PublicSubnetCIDR,
		"mapPublicIpOnLaunch": true,
	})
	b.add(StaticAddress, resource.KindStaticAddress, labels.ComponentNetwork, map[string]any{
		"name": naming.StaticAddress(stack),
	})
}

func (b *builder) server() error {
	cfg := b.cfg
	stack := cfg.Stack

	keyAttrs := map[string]any{"keyName": naming.KeyPair(stack)}
	if cfg.Server.PublicKey != "" {
		info, err := keygen.ParsePublicKey(cfg.Server.PublicKey)
		if err != nil {
			return fmt.Errorf("server public key: %w", err)
		}
		keyAttrs["publicKeyMaterial"] = cfg.Server.PublicKey
		keyAttrs["fingerprint"] = info.Fingerprint
	}
	b.add(KeyPair, resource.KindKeyPair, labels.ComponentIngest, keyAttrs)

	rules, err := ingressRules(cfg.Server.Ports)
	if err != nil {
		return err
	}
	b.add(SecurityGroup, resource.KindSecurityGroup, labels.ComponentNetwork, map[string]any{
		"name":               naming.SecurityGroup(stack),
		"network":            resource.RefTo(Network, "id"),
		"allowAllOutbound":   true,
		resource.AttrIngress: rules,
	})

	b.add(RootVolume, resource.KindVolume, labels.ComponentIngest, map[string]any{
		"sizeGiB":             cfg.Server.RootVolumeGiB,
		"deleteOnTermination": true,
	})

	attrs := resource.WithAccess(map[string]any{
		"name":           naming.StreamServer(stack),
		"instanceType":   cfg.Server.InstanceType,
		"image":          cfg.Server.Image,
		"role":           naming.Role(stack, StreamServer),
		"subnet":         resource.RefTo(PublicSubnet, "id"),
		"securityGroups": []resource.Ref{resource.RefTo(SecurityGroup, "id")},
		"keyName":        resource.RefTo(KeyPair, "keyName"),
		"blockDevices": []any{
			map[string]any{
				"deviceName": cfg.Server.RootDevice,
				"volume":     resource.RefTo(RootVolume, "id"),
			},
		},
	},
		resource.Access{Target: FramesBucket, Level: resource.AccessWrite},
		resource.Access{Target: VideoStream, Level: resource.AccessWrite},
	)
	b.add(StreamServer, resource.KindComputeInstance, labels.ComponentIngest, attrs)
	b.stack.Boot[StreamServer] = ServerBootSteps(cfg.Server)

	b.add(AddressAssociation, resource.KindAddressAssociation, labels.ComponentNetwork, map[string]any{
		"address":  resource.RefTo(StaticAddress, "allocationId"),
		"instance": resource.RefTo(StreamServer, "instanceId"),
	})
	return nil
}

// ingressRules declares each port twice: once as an explicit group rule and
// once as an instance connection. The binder collapses the duplicates.
func ingressRules(ports []config.PortConfig) ([]security.IngressRule, error) {
	rules := make([]security.IngressRule, 0, 2*len(ports))
	for _, p := range ports {
		r, err := security.ParseIngress(p.Protocol, p.Port, p.CIDR, "allow port "+strconv.Itoa(p.Port)+" open")
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	for _, p := range ports {
		desc := p.Description
		if desc == "" {
			desc = "port " + strconv.Itoa(p.Port)
		}
		r, err := security.ParseIngress(p.Protocol, p.Port, p.CIDR, "allow "+desc+" from anywhere")
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

func (b *builder) analysis() {
	cfg := b.cfg
	stack := cfg.Stack

	b.add(AlertTopic, resource.KindTopic, labels.ComponentAnalysis, map[string]any{
		"name": naming.Topic(stack),
	})

	env := map[string]any{
		"TOPIC_ARN":          resource.RefTo(AlertTopic, "arn"),
		"OBJECT_OF_INTEREST": cfg.Analysis.ObjectOfInterest,
		"MIN_CONFIDENCE":     strconv.FormatFloat(cfg.Analysis.MinConfidence, 'f', -1, 64),
	}
	if cfg.Analysis.ModelARN != "" {
		env["MODEL_ARN"] = cfg.Analysis.ModelARN
	}
	attrs := resource.WithAccess(map[string]any{
		"name":           naming.Function(stack),
		"runtime":        cfg.Analysis.Runtime,
		"handler":        cfg.Analysis.Handler,
		"codeDir":        cfg.Analysis.CodeDir,
		"timeoutSeconds": cfg.Analysis.TimeoutSeconds,
		"role":           naming.Role(stack, AnalysisFunction),
		"environment":    env,
	},
		resource.Access{Target: FramesBucket, Level: resource.AccessRead},
		resource.Access{Target: AlertTopic, Level: resource.AccessPublish},
		resource.Access{Target: resource.Wildcard, Service: "rekognition", Level: resource.AccessRead},
	)
	b.add(AnalysisFunction, resource.KindFunction, labels.ComponentAnalysis, attrs)

	b.add(FramesTrigger, resource.KindEventTrigger, labels.ComponentAnalysis, map[string]any{
		"source":   resource.RefTo(FramesBucket, "arn"),
		"function": resource.RefTo(AnalysisFunction, "arn"),
		"events":   []string{"ObjectCreated"},
		"suffix":   cfg.Frames.Suffix,
	})
}

func (b *builder) outputs() {
	b.stack.Nodes = append(b.stack.Nodes,
		resource.New(OutputPublicIP, resource.KindOutput, map[string]any{
			resource.AttrOutputName:  OutputNamePublicIP,
			resource.AttrOutputValue: resource.RefTo(StreamServer, "publicIp"),
		}),
		resource.New(OutputStreamName, resource.KindOutput, map[string]any{
			resource.AttrOutputName:  OutputNameStreamName,
			resource.AttrOutputValue: resource.RefTo(VideoStream, "arn"),
		}),
	)
}
