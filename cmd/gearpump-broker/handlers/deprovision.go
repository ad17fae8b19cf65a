package handlers

import (
	"context"
	"fmt"
	"io"

	"github.com/go-logr/logr"
)

// Deprovision handles the deprovision command.
func Deprovision(ctx context.Context, opts Options, instanceID string, out io.Writer) error {
	return run(ctx, opts, func(ctx context.Context, app *App, _ logr.Logger) error {
		if err := app.Service.DeleteInstance(ctx, instanceID); err != nil {
			return fmt.Errorf("failed to deprovision instance %s: %w", instanceID, err)
		}
		_, err := fmt.Fprintf(out, "Instance %s deprovisioned\n", instanceID)
		return err
	})
}
