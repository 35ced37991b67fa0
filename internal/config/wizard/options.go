package wizard

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/imamik/stackplan/internal/config"
)

// RegionOption is an AWS region offered by the wizard.
type RegionOption struct {
	Value       string
	Description string
}

// InstanceTypeOption is a stream server size offered by the wizard.
type InstanceTypeOption struct {
	Value       string
	Description string
}

// Regions are the regions that carry every service the stack uses.
var Regions = []RegionOption{
	{Value: "us-east-1", Description: "N. Virginia"},
	{Value: "us-west-2", Description: "Oregon"},
	{Value: "eu-west-1", Description: "Ireland"},
	{Value: "eu-central-1", Description: "Frankfurt"},
	{Value: "ap-southeast-2", Description: "Sydney"},
	{Value: "ap-northeast-1", Description: "Tokyo"},
}

// InstanceTypes are the recommended stream server sizes.
var InstanceTypes = []InstanceTypeOption{
	{Value: "t3.large", Description: "2 vCPU, 8GB RAM (burstable)"},
	{Value: config.DefaultInstanceType, Description: "4 vCPU, 16GB RAM (burstable)"},
	{Value: "m5.xlarge", Description: "4 vCPU, 16GB RAM"},
	{Value: "c5.2xlarge", Description: "8 vCPU, 16GB RAM (compute optimized)"},
}

// ConfidenceOptions are the detection thresholds offered for analysis.
var ConfidenceOptions = []huh.Option[float64]{
	huh.NewOption("80% (more alerts)", 80.0),
	huh.NewOption("90%", 90.0),
	huh.NewOption("95% (Recommended)", 95.0),
	huh.NewOption("99% (fewer alerts)", 99.0),
}

// RegionsToOptions converts Regions to huh options.
func RegionsToOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(Regions))
	for i, r := range Regions {
		opts[i] = huh.NewOption(r.Value+" - "+r.Description, r.Value)
	}
	return opts
}

// InstanceTypesToOptions converts InstanceTypes to huh options.
func InstanceTypesToOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(InstanceTypes))
	for i, it := range InstanceTypes {
		opts[i] = huh.NewOption(it.Value+" - "+it.Description, it.Value)
	}
	return opts
}

// PortOptions offers the stream server's default ports.
func PortOptions() []huh.Option[int] {
	ports := config.DefaultPorts()
	opts := make([]huh.Option[int], len(ports))
	for i, p := range ports {
		opts[i] = huh.NewOption(fmt.Sprintf("%d (%s)", p.Port, p.Description), p.Port)
	}
	return opts
}
