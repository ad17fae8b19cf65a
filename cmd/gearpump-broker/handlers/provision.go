package handlers

import (
	"context"
	"fmt"
	"io"

	"github.com/go-logr/logr"

	"github.com/imamik/gearpump-broker/internal/provisioning"
)

// Provision handles the provision command.
//
// It makes sure the credential bucket exists, provisions a cluster with its
// dashboard and prints the stored credential record.
func Provision(ctx context.Context, opts Options, req provisioning.Request, out io.Writer) error {
	return run(ctx, opts, func(ctx context.Context, app *App, log logr.Logger) error {
		if err := app.Bucket.CreateBucket(ctx); err != nil {
			return fmt.Errorf("failed to prepare credential bucket: %w", err)
		}

		creds, err := app.Service.CreateInstance(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to provision instance %s: %w", req.InstanceID, err)
		}

		log.Info("instance provisioned", "instanceId", req.InstanceID, "dashboardUrl", creds.DashboardURL)
		return writeJSON(out, creds)
	})
}
