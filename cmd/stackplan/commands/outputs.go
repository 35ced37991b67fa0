package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/stackplan/cmd/stackplan/handlers"
)

// Outputs returns the command for resolving a plan's outputs.
func Outputs() *cobra.Command {
	var opts handlers.OutputsOptions

	cmd := &cobra.Command{
		Use:   "outputs",
		Short: "Resolve plan outputs from executor results",
		Long: `Resolve the output bindings of a plan from the attributes an executor
reported, given as YAML mapping resource id to attribute values:

  stream-server:
    publicIp: 203.0.113.7

With --state the results are recorded, so the next plan updates those
resources instead of creating them.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Outputs(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.PlanPath, "plan", "p", "plan.json", "Plan file")
	cmd.Flags().StringVarP(&opts.ResultsPath, "results", "r", "", "Executor results file")
	cmd.Flags().StringVar(&opts.StatePath, "state", "", "Record results in this state location")
	cmd.Flags().StringVar(&opts.Stack, "stack", "", "Stack the results belong to (defaults to the plan's stack)")

	return cmd
}
