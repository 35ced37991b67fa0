package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/stackplan/cmd/stackplan/handlers"
)

// Init returns the command for writing a starter configuration.
//
// Flags:
//
//	--output, -o: Path to output file (default "stackplan.yaml")
//	--stack, -s: Stack name used for every resource name; without it an
//	  interactive wizard asks for the stack's settings
//	--force: Overwrite an existing file
//	--generate-key: Write an SSH key pair and reference its public key
func Init() *cobra.Command {
	var opts handlers.InitOptions

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a stack configuration with defaults",
		Long: `Create a stack configuration file with every default spelled out.

Without --stack an interactive wizard asks for the stack name, region,
server size and exposure, frame analysis, and artifact and state locations.

The generated stack has a public stream server (RTSP/RTMP proxy), a managed
video stream, a frames bucket and a frame analysis function that publishes
alerts to a topic. Edit the file, then run 'stackplan plan'.

Examples:
  # Answer a few questions
  stackplan init

  # Create stackplan.yaml for the stack "harbour-cam" with defaults
  stackplan init -s harbour-cam

  # Also generate an SSH key pair for the stream server
  stackplan init -s harbour-cam --generate-key`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.OutputPath, "output", "o", "stackplan.yaml", "Output file path")
	cmd.Flags().StringVarP(&opts.Stack, "stack", "s", "", "Stack name (skips the wizard)")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Overwrite an existing file")
	cmd.Flags().BoolVar(&opts.GenerateKey, "generate-key", false, "Generate an SSH key pair for the stream server")

	return cmd
}
