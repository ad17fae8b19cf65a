package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/gearpump-broker/cmd/gearpump-broker/handlers"
)

// Doctor returns the command for checking the broker's environment.
func Doctor(opts *handlers.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, tools and backend connectivity",
		Long: `Doctor checks that the broker can run:
  - Validates the configuration file
  - Looks for the scheduler command and java
  - Probes the credential bucket, identity provider and catalog

Example:
  gearpump-broker doctor -c broker.yaml`,
		PreRunE: requireConfig(opts),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Doctor(cmd.Context(), *opts, cmd.OutOrStdout())
		},
	}
}
