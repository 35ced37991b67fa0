package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/stackplan/cmd/stackplan/handlers"
)

// Graph returns the command for rendering the dependency graph.
func Graph() *cobra.Command {
	var configPath, format, outputPath string

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the resource dependency graph",
		Long: `Render the finalized resource dependency graph, including derived
policy grants. An edge A -> B means A is created before B.

Examples:
  stackplan graph | dot -Tsvg > stack.svg
  stackplan graph --format mermaid`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Graph(cmd.Context(), configPath, format, outputPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: stackplan.yaml)")
	cmd.Flags().StringVar(&format, "format", handlers.GraphFormatDOT, "Output format: dot, mermaid or json")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default: stdout)")

	return cmd
}
