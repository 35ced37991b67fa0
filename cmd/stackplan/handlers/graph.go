package handlers

import (
	"context"
	"encoding/json"
	"fmt"
)

// Graph formats.
const (
	GraphFormatDOT     = "dot"
	GraphFormatMermaid = "mermaid"
	GraphFormatJSON    = "json"
)

// Graph renders the finalized dependency graph. Artifacts and state are not
// read.
func Graph(ctx context.Context, configPath, format, outputPath string) error {
	cfg, err := loadConfigFile(configPathOrDefault(configPath))
	if err != nil {
		return err
	}

	res, err := newPlanner(cfg, nil, nil).Graph(ctx)
	if err != nil {
		return err
	}
	snapshot := res.Graph.Export()

	var data []byte
	switch format {
	case GraphFormatDOT, "":
		data = []byte(snapshot.DOT())
	case GraphFormatMermaid:
		data = []byte(snapshot.Mermaid())
	case GraphFormatJSON:
		data, err = json.MarshalIndent(snapshot, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal graph: %w", err)
		}
		data = append(data, '\n')
	default:
		return fmt.Errorf("unsupported graph format %q (use dot, mermaid or json)", format)
	}
	return writeOutput(outputPath, data)
}
