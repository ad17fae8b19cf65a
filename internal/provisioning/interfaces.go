package provisioning

import (
	"context"

	"github.com/imamik/gearpump-broker/internal/launcher"
)

// ClusterLauncher starts and kills Gearpump clusters.
type ClusterLauncher interface {
	Launch(ctx context.Context, workers int) launcher.SpawnResult
	Terminate(ctx context.Context, jobID string)
}

// PlanResolver maps a service plan to a worker count.
type PlanResolver interface {
	WorkerCount(planID string) int
}

// Authenticator establishes the broker's session with the scheduler before a launch.
type Authenticator interface {
	Login(ctx context.Context) error
}

// SecretFunc returns a fresh random secret.
type SecretFunc func() (string, error)

type noopAuthenticator struct{}

func (noopAuthenticator) Login(context.Context) error { return nil }
