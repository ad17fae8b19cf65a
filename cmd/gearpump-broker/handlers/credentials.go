package handlers

import (
	"context"
	"io"

	"github.com/go-logr/logr"

	"github.com/imamik/gearpump-broker/internal/credentials"
	"github.com/imamik/gearpump-broker/internal/platform/yarn"
)

// CredentialsView is the output of the credentials command.
type CredentialsView struct {
	Credentials credentials.ClusterCredentials `json:"credentials"`
	JobState    string                         `json:"jobState,omitempty"`
}

// Credentials handles the credentials command.
//
// It prints the stored record of an instance together with the current
// state of its YARN job. The dashboard password is masked unless
// showSecrets is set.
func Credentials(ctx context.Context, opts Options, instanceID string, showSecrets bool, out io.Writer) error {
	return run(ctx, opts, func(ctx context.Context, app *App, log logr.Logger) error {
		creds, err := app.Service.Credentials(ctx, instanceID)
		if err != nil {
			return err
		}

		view := CredentialsView{Credentials: *creds}
		if !showSecrets {
			view.Credentials = creds.Redacted()
		}
		view.JobState = jobState(ctx, app.Jobs, creds.JobID, log)

		return writeJSON(out, view)
	})
}

func jobState(ctx context.Context, jobs JobInspector, jobID string, log logr.Logger) string {
	if jobs == nil || jobID == "" {
		return ""
	}
	id, err := yarn.ParseApplicationID(jobID)
	if err != nil {
		log.Error(err, "stored job id is malformed", "jobId", jobID)
		return ""
	}
	state, err := jobs.ApplicationState(ctx, id)
	if err != nil {
		log.Error(err, "failed to query job state", "jobId", jobID)
		return ""
	}
	return state
}
