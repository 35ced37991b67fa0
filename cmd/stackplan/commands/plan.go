package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/stackplan/cmd/stackplan/handlers"
)

// Plan returns the command for computing a provisioning plan.
//
// Optional flags:
//
//	--config, -c: Path to configuration YAML file (default: stackplan.yaml)
//	--state: State location, a file path or s3://bucket/key
//	--output, -o: Plan file (default: stdout)
//	--format: json or yaml
//	--metrics-file: Write plan gauges in the Prometheus text format
//
// Environment variables:
//
//	STACKPLAN_S3_*: Object storage settings for s3:// state and artifacts
func Plan() *cobra.Command {
	var opts handlers.PlanOptions

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Compute the ordered provisioning plan",
		Long: `Compute the ordered provisioning plan for a stack.

The plan lists one operation per resource in dependency order, each marked
create or update against the recorded state, followed by the output
bindings. The plan id changes whenever any operation changes.

Examples:
  # Plan using stackplan.yaml and print JSON
  stackplan plan

  # Write a YAML plan and metrics for node-exporter
  stackplan plan -o plan.yaml --format yaml --metrics-file /var/lib/node_exporter/stackplan.prom

  # Plan against remote state
  stackplan plan --state s3://infra-state/harbour-cam/state.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Plan(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration file (default: stackplan.yaml)")
	cmd.Flags().StringVar(&opts.StatePath, "state", "", "State location (default: state.location from the config)")
	cmd.Flags().StringVarP(&opts.OutputPath, "output", "o", "", "Plan output file (default: stdout)")
	cmd.Flags().StringVar(&opts.Format, "format", "json", "Plan format: json or yaml")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "Write plan metrics to this textfile")

	return cmd
}
