package handlers

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/imamik/stackplan/internal/topology"
)

// BootstrapOptions are the inputs of the bootstrap command.
type BootstrapOptions struct {
	ConfigPath string
	NodeID     string
	Format     string // script or yaml
	OutputPath string
}

// Bootstrap prints the assembled boot program of one instance.
func Bootstrap(ctx context.Context, opts BootstrapOptions) error {
	cfg, err := loadConfigFile(configPathOrDefault(opts.ConfigPath))
	if err != nil {
		return err
	}

	s := &stores{region: cfg.Region}
	source, err := s.openSource(ctx, cfg.Artifacts.Source)
	if err != nil {
		return err
	}

	res, err := newPlanner(cfg, source, nil).Bootstrap(ctx)
	if err != nil {
		return err
	}

	nodeID := opts.NodeID
	if nodeID == "" {
		nodeID = topology.StreamServer
	}
	program, ok := res.Programs[nodeID]
	if !ok {
		known := make([]string, 0, len(res.Programs))
		for id := range res.Programs {
			known = append(known, id)
		}
		sort.Strings(known)
		return fmt.Errorf("no bootstrap program for %q (instances: %s)", nodeID, strings.Join(known, ", "))
	}

	var data []byte
	switch opts.Format {
	case "script", "":
		data = []byte(program.Script())
	case "yaml":
		data, err = yaml.Marshal(program)
		if err != nil {
			return fmt.Errorf("failed to marshal program: %w", err)
		}
	default:
		return fmt.Errorf("unsupported bootstrap format %q (use script or yaml)", opts.Format)
	}
	return writeOutput(opts.OutputPath, data)
}
