package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/gearpump-broker/cmd/gearpump-broker/handlers"
	"github.com/imamik/gearpump-broker/internal/provisioning"
)

// Provision returns the provision command.
//
// Required flags:
//
//	--instance-id: Service instance id the credentials are stored under
//
// Optional flags:
//
//	--space-id, --org-id: Space and organization the dashboard is created in
//	--plan: Service plan selecting the worker count
func Provision(opts *handlers.Options) *cobra.Command {
	var req provisioning.Request

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Provision a Gearpump cluster and its dashboard",
		Long: `Provision launches a Gearpump cluster on YARN, deploys its dashboard and
stores the resulting credentials.

If the dashboard cannot be deployed the YARN job is killed again. If the
credentials cannot be stored the whole instance is torn down.

Example:
  gearpump-broker provision -c broker.yaml --instance-id svc1 --plan gearpump-small`,
		PreRunE: requireConfig(opts),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Provision(cmd.Context(), *opts, req, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&req.InstanceID, "instance-id", "", "Service instance id (required)")
	cmd.Flags().StringVar(&req.SpaceID, "space-id", "", "Space the dashboard is created in")
	cmd.Flags().StringVar(&req.OrgID, "org-id", "", "Organization the dashboard is created in")
	cmd.Flags().StringVar(&req.PlanID, "plan", "", "Service plan id")
	_ = cmd.MarkFlagRequired("instance-id")

	return cmd
}
