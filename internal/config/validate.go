package config

import (
	"errors"
	"fmt"
	"net/netip"
	"regexp"
	"strings"

	"github.com/imamik/stackplan/internal/util/keygen"
)

var stackNamePattern = regexp.MustCompile(`^[a-z][a-z0-9-]{0,38}[a-z0-9]$`)

// ValidateStackName checks a stack name on its own.
func ValidateStackName(name string) error {
	if name == "" {
		return errors.New("stack is required")
	}
	if !stackNamePattern.MatchString(name) {
		return fmt.Errorf("stack %q must be 2-40 lowercase letters, digits or dashes and start with a letter", name)
	}
	return nil
}

// Validate checks the configuration and returns every problem found.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if err := ValidateStackName(c.Stack); err != nil {
		errs = append(errs, err)
	}
	if c.Region == "" {
		add("region is required")
	}

	errs = append(errs, c.validateNetwork()...)
	errs = append(errs, c.validateServer()...)

	if c.Stream.RetentionHours < 0 {
		add("stream.retentionHours must not be negative")
	}
	if !strings.HasPrefix(c.Frames.Suffix, ".") {
		add("frames.suffix %q must start with a dot", c.Frames.Suffix)
	}
	switch c.Frames.Defaults.RemovalPolicy {
	case RemovalDestroy, RemovalRetain:
	default:
		add("frames.defaults.removalPolicy must be %q or %q, got %q", RemovalDestroy, RemovalRetain, c.Frames.Defaults.RemovalPolicy)
	}

	if c.Analysis.IsEnabled() {
		if c.Analysis.MinConfidence <= 0 || c.Analysis.MinConfidence > 100 {
			add("analysis.minConfidence must be in (0, 100], got %v", c.Analysis.MinConfidence)
		}
		if c.Analysis.TimeoutSeconds < 1 || c.Analysis.TimeoutSeconds > 900 {
			add("analysis.timeoutSeconds must be between 1 and 900, got %d", c.Analysis.TimeoutSeconds)
		}
		if !strings.Contains(c.Analysis.Handler, ".") {
			add("analysis.handler %q must be module.function", c.Analysis.Handler)
		}
	}

	if c.Artifacts.Source == "" {
		add("artifacts.source is required")
	}
	if isS3(c.Artifacts.Source) {
		if _, _, ok := splitS3(c.Artifacts.Source); !ok {
			add("artifacts.source %q must be s3://bucket/prefix", c.Artifacts.Source)
		}
	}
	if isS3(c.State.Location) {
		if _, key, ok := splitS3(c.State.Location); !ok || key == "" {
			add("state.location %q must be s3://bucket/key", c.State.Location)
		}
	}

	return errors.Join(errs...)
}

func (c *Config) validateNetwork() []error {
	var errs []error
	network, err := parsePrefix(c.Network.CIDR)
	if err != nil {
		return []error{fmt.Errorf("network.cidr: %w", err)}
	}
	subnet, err := parsePrefix(c.Network.PublicSubnetCIDR)
	if err != nil {
		return []error{fmt.Errorf("network.publicSubnetCidr: %w", err)}
	}
	if subnet.Bits() < network.Bits() || !network.Masked().Contains(subnet.Addr()) {
		errs = append(errs, fmt.Errorf("network.publicSubnetCidr %s is not inside %s", subnet, network))
	}
	return errs
}

func (c *Config) validateServer() []error {
	var errs []error
	s := c.Server
	if s.InstanceType == "" {
		errs = append(errs, fmt.Errorf("server.instanceType is required"))
	}
	if s.RootVolumeGiB < 8 || s.RootVolumeGiB > 16384 {
		errs = append(errs, fmt.Errorf("server.rootVolumeGiB must be between 8 and 16384, got %d", s.RootVolumeGiB))
	}
	if !strings.HasPrefix(s.RootDevice, "/dev/") {
		errs = append(errs, fmt.Errorf("server.rootDevice %q must be a /dev path", s.RootDevice))
	}
	if !strings.HasPrefix(s.ProxyCodeDir, "/") {
		errs = append(errs, fmt.Errorf("server.proxyCodeDir %q must be absolute", s.ProxyCodeDir))
	}
	if s.PublicKey != "" {
		if _, err := keygen.ParsePublicKey(s.PublicKey); err != nil {
			errs = append(errs, fmt.Errorf("server.publicKey: %w", err))
		}
	}
	for i, p := range s.Ports {
		if p.Port < 0 || p.Port > 65535 {
			errs = append(errs, fmt.Errorf("server.ports[%d]: port %d out of range", i, p.Port))
		}
		if p.Protocol != "tcp" && p.Protocol != "udp" {
			errs = append(errs, fmt.Errorf("server.ports[%d]: protocol %q must be tcp or udp", i, p.Protocol))
		}
		if _, err := parsePrefix(p.CIDR); err != nil {
			errs = append(errs, fmt.Errorf("server.ports[%d]: %w", i, err))
		}
	}
	return errs
}

func parsePrefix(cidr string) (netip.Prefix, error) {
	p, err := netip.ParsePrefix(cidr)
	if err != nil {
		return netip.Prefix{}, fmt.Errorf("invalid CIDR %q", cidr)
	}
	if !p.Addr().Is4() {
		return netip.Prefix{}, fmt.Errorf("only IPv4 is supported, got %q", cidr)
	}
	return p, nil
}

func splitS3(loc string) (bucket, rest string, ok bool) {
	trimmed := strings.TrimPrefix(loc, "s3://")
	bucket, rest, _ = strings.Cut(trimmed, "/")
	return bucket, rest, bucket != ""
}
