package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/gearpump-broker/cmd/gearpump-broker/handlers"
)

// Credentials returns the credentials command.
func Credentials(opts *handlers.Options) *cobra.Command {
	var instanceID string
	var showSecrets bool

	cmd := &cobra.Command{
		Use:     "credentials",
		Short:   "Show the stored credentials of an instance",
		PreRunE: requireConfig(opts),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Credentials(cmd.Context(), *opts, instanceID, showSecrets, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&instanceID, "instance-id", "", "Service instance id (required)")
	cmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "Print the dashboard password")
	_ = cmd.MarkFlagRequired("instance-id")

	return cmd
}
