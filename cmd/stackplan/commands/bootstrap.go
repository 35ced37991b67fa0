package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/stackplan/cmd/stackplan/handlers"
)

// Bootstrap returns the command for printing an instance's boot program.
func Bootstrap() *cobra.Command {
	var opts handlers.BootstrapOptions

	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Print the boot program of an instance",
		Long: `Assemble and print the boot program of a compute instance: the
ordered shell commands followed by every proxy code file written inline.

Examples:
  stackplan bootstrap > user-data.sh
  stackplan bootstrap --format yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Bootstrap(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration file (default: stackplan.yaml)")
	cmd.Flags().StringVar(&opts.NodeID, "node", "stream-server", "Instance id")
	cmd.Flags().StringVar(&opts.Format, "format", "script", "Output format: script or yaml")
	cmd.Flags().StringVarP(&opts.OutputPath, "output", "o", "", "Output file (default: stdout)")

	return cmd
}
