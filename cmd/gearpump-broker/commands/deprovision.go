package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/gearpump-broker/cmd/gearpump-broker/handlers"
)

// Deprovision returns the deprovision command.
func Deprovision(opts *handlers.Options) *cobra.Command {
	var instanceID string

	cmd := &cobra.Command{
		Use:   "deprovision",
		Short: "Tear down a Gearpump cluster and its dashboard",
		Long: `Deprovision kills the YARN job of an instance, removes its dashboard and
OAuth client, and deletes the stored credentials.

The credentials are kept when the dashboard cannot be removed, so the
command can be retried.

Example:
  gearpump-broker deprovision -c broker.yaml --instance-id svc1`,
		PreRunE: requireConfig(opts),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Deprovision(cmd.Context(), *opts, instanceID, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&instanceID, "instance-id", "", "Service instance id (required)")
	_ = cmd.MarkFlagRequired("instance-id")

	return cmd
}
