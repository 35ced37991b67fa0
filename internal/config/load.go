package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default returns a complete configuration for stack.
func Default(stack string) *Config {
	cfg := &Config{Stack: stack}
	cfg.ApplyDefaults()
	return cfg
}

// LoadFile reads, defaults and validates a configuration file. Relative
// paths inside the file resolve against the file's directory.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.resolvePaths(filepath.Dir(path))

	if cfg.Server.PublicKey == "" && cfg.Server.PublicKeyFile != "" {
		// #nosec G304
		key, err := os.ReadFile(cfg.Server.PublicKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read public key file: %w", err)
		}
		cfg.Server.PublicKey = strings.TrimSpace(string(key))
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Parse decodes YAML and applies defaults. Unknown fields are rejected. The
// result is not validated.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return buf.Bytes(), nil
}

// ApplyDefaults fills every unset field.
func (c *Config) ApplyDefaults() {
	if c.Region == "" {
		c.Region = DefaultRegion
	}

	if c.Network.CIDR == "" {
		c.Network.CIDR = DefaultNetworkCIDR
	}
	if c.Network.PublicSubnetCIDR == "" {
		// An unparsable CIDR is left for Validate to report.
		if subnet, err := firstSubnet(c.Network.CIDR); err == nil {
			c.Network.PublicSubnetCIDR = subnet
		}
	}

	s := &c.Server
	if s.InstanceType == "" {
		s.InstanceType = DefaultInstanceType
	}
	if s.Image == "" {
		s.Image = DefaultImage
	}
	if s.RootVolumeGiB == 0 {
		s.RootVolumeGiB = DefaultRootVolumeGiB
	}
	if s.RootDevice == "" {
		s.RootDevice = DefaultRootDevice
	}
	if s.User == "" {
		s.User = DefaultUser
	}
	if len(s.Ports) == 0 {
		s.Ports = DefaultPorts()
	}
	for i := range s.Ports {
		if s.Ports[i].Protocol == "" {
			s.Ports[i].Protocol = "tcp"
		}
		if s.Ports[i].CIDR == "" {
			s.Ports[i].CIDR = "0.0.0.0/0"
		}
	}
	if s.ComposeURL == "" {
		s.ComposeURL = DefaultComposeURL
	}
	if s.ProxyCodeDir == "" {
		s.ProxyCodeDir = "/home/" + s.User + "/rtsp-proxy-code"
	}

	if c.Stream.RetentionHours == 0 {
		c.Stream.RetentionHours = DefaultRetentionHours
	}

	if c.Frames.Suffix == "" {
		c.Frames.Suffix = DefaultFramesSuffix
	}
	if c.Frames.Defaults.RemovalPolicy == "" {
		c.Frames.Defaults.RemovalPolicy = RemovalDestroy
	}

	a := &c.Analysis
	if a.Runtime == "" {
		a.Runtime = DefaultRuntime
	}
	if a.Handler == "" {
		a.Handler = DefaultHandler
	}
	if a.CodeDir == "" {
		a.CodeDir = DefaultCodeDir
	}
	if a.ObjectOfInterest == "" {
		a.ObjectOfInterest = DefaultObjectOfInterest
	}
	if a.MinConfidence == 0 {
		a.MinConfidence = DefaultMinConfidence
	}
	if a.TimeoutSeconds == 0 {
		a.TimeoutSeconds = DefaultFunctionTimeout
	}

	if c.Artifacts.Source == "" {
		c.Artifacts.Source = DefaultArtifactsSource
	}
	if c.State.Location == "" {
		c.State.Location = DefaultStateLocation
	}
}

func firstSubnet(cidr string) (string, error) {
	network, err := parsePrefix(cidr)
	if err != nil {
		return "", err
	}
	if network.Bits() >= 24 {
		return network.Masked().String(), nil
	}
	return CIDRSubnet(cidr, 24-network.Bits(), 0)
}

// resolvePaths makes local paths relative to the config file's directory.
func (c *Config) resolvePaths(dir string) {
	resolve := func(p string) string {
		if p == "" || isS3(p) || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	c.Artifacts.Source = resolve(c.Artifacts.Source)
	c.Analysis.CodeDir = resolve(c.Analysis.CodeDir)
	c.State.Location = resolve(c.State.Location)
	c.Server.PublicKeyFile = resolve(c.Server.PublicKeyFile)
}

func isS3(loc string) bool {
	return strings.HasPrefix(loc, "s3://")
}
