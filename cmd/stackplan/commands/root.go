// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"os"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/imamik/stackplan/cmd/stackplan/handlers"
)

// Root returns the root command for the stackplan CLI.
//
// The root command installs the logger for every subcommand: -v shows
// resource events, -vv also shows retries and assembly details.
func Root() *cobra.Command {
	var verbosity int

	cmd := &cobra.Command{
		Use:           "stackplan",
		Short:         "Plan a video stream stack as an ordered resource graph",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logger := handlers.NewLogger(os.Stderr, verbosity).WithName("stackplan")
			cmd.SetContext(logr.NewContext(cmd.Context(), logger))
		},
	}

	cmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (repeatable)")

	// Core commands
	cmd.AddCommand(Init())
	cmd.AddCommand(Validate())
	cmd.AddCommand(Plan())
	cmd.AddCommand(Outputs())

	// Inspection commands
	cmd.AddCommand(Graph())
	cmd.AddCommand(Bootstrap())
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
