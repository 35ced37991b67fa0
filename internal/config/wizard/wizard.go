package wizard

import (
	"context"
	"fmt"
	"net/netip"
	"slices"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/imamik/stackplan/internal/config"
)

// Result holds the answers of the init wizard.
type Result struct {
	Stack        string
	Region       string
	InstanceType string

	// Ports are the selected entries of config.DefaultPorts.
	Ports       []int
	SSHCIDR     string
	GenerateKey bool

	Analysis         bool
	ObjectOfInterest string
	MinConfidence    float64

	ArtifactsSource string
	StateLocation   string
}

// Defaults returns the answers preselected in the form.
func Defaults(stack string) *Result {
	var ports []int
	for _, p := range config.DefaultPorts() {
		ports = append(ports, p.Port)
	}
	return &Result{
		Stack:            stack,
		Region:           config.DefaultRegion,
		InstanceType:     config.DefaultInstanceType,
		Ports:            ports,
		SSHCIDR:          "0.0.0.0/0",
		Analysis:         true,
		ObjectOfInterest: config.DefaultObjectOfInterest,
		MinConfidence:    config.DefaultMinConfidence,
		ArtifactsSource:  config.DefaultArtifactsSource,
		StateLocation:    config.DefaultStateLocation,
	}
}

// Run shows the form prefilled with defaults and returns the answers.
// The context is used for cancellation support (e.g., Ctrl+C).
func Run(ctx context.Context, defaults *Result) (*Result, error) {
	result := *defaults
	result.Ports = slices.Clone(defaults.Ports)

	if err := NewForm(&result).RunWithContext(ctx); err != nil {
		return nil, fmt.Errorf("wizard canceled: %w", err)
	}
	return &result, nil
}

// NewForm builds the wizard form writing its answers into result.
func NewForm(result *Result) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Stack Name").
				Description("Prefix of every resource name (lowercase letters, digits, dashes)").
				Placeholder("harbour-cam").
				Value(&result.Stack).
				Validate(config.ValidateStackName),
			huh.NewSelect[string]().
				Title("Region").
				Description("AWS region the stack is deployed to").
				Options(RegionsToOptions()...).
				Value(&result.Region),
		).Title("Stack"),

		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Instance Type").
				Description("Runs the RTSP/RTMP proxy containers").
				Options(InstanceTypesToOptions()...).
				Value(&result.InstanceType),
			huh.NewMultiSelect[int]().
				Title("Public Ports").
				Options(PortOptions()...).
				Value(&result.Ports).
				Validate(validatePorts),
			huh.NewInput().
				Title("SSH Source CIDR").
				Description("Who may reach port 22").
				Value(&result.SSHCIDR).
				Validate(validateCIDR),
			huh.NewConfirm().
				Title("Generate SSH Key Pair").
				Description("Write a key pair next to the configuration and import its public key").
				Value(&result.GenerateKey),
		).Title("Stream Server"),

		huh.NewGroup(
			huh.NewConfirm().
				Title("Analyse Frames").
				Description("Run a detection function on every uploaded frame and alert on matches").
				Value(&result.Analysis),
		).Title("Frame Analysis"),

		huh.NewGroup(
			huh.NewInput().
				Title("Object of Interest").
				Description("Label that raises an alert").
				Value(&result.ObjectOfInterest).
				Validate(validateObject),
			huh.NewSelect[float64]().
				Title("Minimum Confidence").
				Options(ConfidenceOptions...).
				Value(&result.MinConfidence),
		).Title("Detection").WithHideFunc(func() bool { return !result.Analysis }),

		huh.NewGroup(
			huh.NewInput().
				Title("Proxy Code Source").
				Description("Local directory or s3://bucket/prefix").
				Value(&result.ArtifactsSource).
				Validate(validateSource),
			huh.NewInput().
				Title("State Location").
				Description("File path or s3://bucket/key").
				Value(&result.StateLocation).
				Validate(validateStateLocation),
		).Title("Artifacts and State"),
	)
}

// ToConfig builds a defaulted configuration from the answers.
func (r *Result) ToConfig() *config.Config {
	cfg := config.Default(r.Stack)
	cfg.Region = r.Region
	cfg.Server.InstanceType = r.InstanceType

	var ports []config.PortConfig
	for _, p := range cfg.Server.Ports {
		if !slices.Contains(r.Ports, p.Port) {
			continue
		}
		if p.Port == 22 && r.SSHCIDR != "" {
			p.CIDR = r.SSHCIDR
		}
		ports = append(ports, p)
	}
	cfg.Server.Ports = ports

	analysis := r.Analysis
	cfg.Analysis.Enabled = &analysis
	if r.Analysis {
		cfg.Analysis.ObjectOfInterest = r.ObjectOfInterest
		cfg.Analysis.MinConfidence = r.MinConfidence
	}

	cfg.Artifacts.Source = r.ArtifactsSource
	cfg.State.Location = r.StateLocation
	return cfg
}

func validatePorts(ports []int) error {
	if len(ports) == 0 {
		return errPortsRequired
	}
	return nil
}

// validateCIDR validates an IPv4 CIDR.
func validateCIDR(s string) error {
	if s == "" {
		return errCIDRRequired
	}
	p, err := netip.ParsePrefix(s)
	if err != nil || !p.Addr().Is4() {
		return errCIDRInvalid
	}
	return nil
}

func validateObject(s string) error {
	if strings.TrimSpace(s) == "" {
		return errObjectRequired
	}
	return nil
}

func validateSource(s string) error {
	if s == "" {
		return errSourceRequired
	}
	if rest, ok := strings.CutPrefix(s, "s3://"); ok {
		if bucket, _, _ := strings.Cut(rest, "/"); bucket == "" {
			return errS3Bucket
		}
	}
	return nil
}

func validateStateLocation(s string) error {
	if s == "" {
		return errLocationRequired
	}
	if rest, ok := strings.CutPrefix(s, "s3://"); ok {
		bucket, key, _ := strings.Cut(rest, "/")
		if bucket == "" {
			return errS3Bucket
		}
		if key == "" {
			return errS3Key
		}
	}
	return nil
}
