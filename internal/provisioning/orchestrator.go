package provisioning

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/imamik/gearpump-broker/internal/credentials"
	"github.com/imamik/gearpump-broker/internal/dashboard"
	"github.com/imamik/gearpump-broker/internal/launcher"
	"github.com/imamik/gearpump-broker/internal/util/keygen"
	"github.com/imamik/gearpump-broker/internal/util/naming"
)

// Request identifies the service instance to provision.
type Request struct {
	InstanceID string
	SpaceID    string
	OrgID      string
	PlanID     string
}

// Orchestrator runs the provision and deprovision sagas.
type Orchestrator struct {
	launcher ClusterLauncher
	deployer dashboard.Deployer
	plans    PlanResolver
	auth     Authenticator
	secret   SecretFunc
	metrics  *Metrics
	log      logr.Logger
	now      func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithAuthenticator sets the login performed before each launch.
func WithAuthenticator(a Authenticator) Option {
	return func(o *Orchestrator) {
		o.auth = a
	}
}

// WithSecretFunc replaces the generator for dashboard passwords and OAuth client names.
func WithSecretFunc(fn SecretFunc) Option {
	return func(o *Orchestrator) {
		o.secret = fn
	}
}

// WithMetrics records saga outcomes in m.
func WithMetrics(m *Metrics) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(l ClusterLauncher, d dashboard.Deployer, plans PlanResolver, log logr.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		launcher: l,
		deployer: d,
		plans:    plans,
		auth:     noopAuthenticator{},
		secret:   keygen.Secret,
		log:      log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ProvisionInstance launches a cluster and deploys its dashboard. On failure
// a launched job is killed and the original error is returned. The returned
// credentials are not persisted.
func (o *Orchestrator) ProvisionInstance(ctx context.Context, req Request) (creds *credentials.ClusterCredentials, err error) {
	log := o.log.WithValues("runId", uuid.NewString(), "instanceId", req.InstanceID, "planId", req.PlanID)
	start := o.now()
	defer func() {
		o.metrics.RecordSaga(OperationProvision, err, o.now().Sub(start))
	}()

	log.Info("provisioning instance")

	if err := o.auth.Login(ctx); err != nil {
		return nil, fmt.Errorf("failed to log in to scheduler: %w", err)
	}

	workers := o.plans.WorkerCount(req.PlanID)
	res := o.launcher.Launch(ctx, workers)
	cluster := res.Credentials
	if res.Status != launcher.StatusOK {
		log.Error(res.Err, "cluster launch failed", "jobId", cluster.JobID)
		o.compensate(ctx, log, cluster.JobID, ReasonLaunchFailed)
		return nil, res.Err
	}
	log.Info("cluster launched", "jobId", cluster.JobID, "workers", workers)

	deployReq, err := o.deployRequest(req, cluster.ClusterEndpoint)
	if err != nil {
		o.compensate(ctx, log, cluster.JobID, ReasonDeployFailed)
		return nil, err
	}

	ui, err := o.deployer.Deploy(ctx, deployReq)
	if err != nil {
		log.Error(err, "dashboard deployment failed", "jobId", cluster.JobID)
		o.compensate(ctx, log, cluster.JobID, ReasonDeployFailed)
		return nil, err
	}

	result := cluster.WithDashboard(ui)
	log.Info("instance provisioned",
		"jobId", result.JobID,
		"dashboardInstanceId", result.DashboardInstanceID,
		"dashboardUrl", result.DashboardURL,
		"duration", o.now().Sub(start).Round(time.Millisecond))
	return &result, nil
}

// DeprovisionInstance kills the cluster job and undeploys the dashboard
// recorded in creds. A nil record is a no-op. Job termination failures are
// logged; the undeploy error is returned.
func (o *Orchestrator) DeprovisionInstance(ctx context.Context, creds *credentials.ClusterCredentials) (err error) {
	if creds == nil {
		o.log.Info("no credentials recorded, nothing to deprovision")
		return nil
	}

	log := o.log.WithValues("runId", uuid.NewString(), "jobId", creds.JobID, "dashboardInstanceId", creds.DashboardInstanceID)
	start := o.now()
	defer func() {
		o.metrics.RecordSaga(OperationDeprovision, err, o.now().Sub(start))
	}()

	if creds.JobID != "" {
		o.launcher.Terminate(ctx, creds.JobID)
	} else {
		log.Info("no job id recorded, skipping cluster termination")
	}

	if !creds.HasDashboard() {
		log.Info("no dashboard instance recorded, only the oauth client is removed")
	}
	if err := o.deployer.Undeploy(ctx, creds.DashboardInstanceID, creds.OAuthClientName); err != nil {
		log.Error(err, "dashboard undeploy failed")
		return err
	}

	log.Info("instance deprovisioned", "duration", o.now().Sub(start).Round(time.Millisecond))
	return nil
}

func (o *Orchestrator) deployRequest(req Request, endpoint string) (dashboard.DeployRequest, error) {
	password, err := o.secret()
	if err != nil {
		return dashboard.DeployRequest{}, fmt.Errorf("failed to generate dashboard password: %w", err)
	}
	clientName, err := o.secret()
	if err != nil {
		return dashboard.DeployRequest{}, fmt.Errorf("failed to generate oauth client name: %w", err)
	}
	return dashboard.DeployRequest{
		InstanceName:    naming.DashboardInstance(req.InstanceID),
		Username:        naming.DashboardAdmin,
		Password:        password,
		ClusterEndpoint: endpoint,
		SpaceID:         req.SpaceID,
		OrgID:           req.OrgID,
		OAuthClientName: clientName,
	}, nil
}

func (o *Orchestrator) compensate(ctx context.Context, log logr.Logger, jobID, reason string) {
	if jobID == "" {
		log.Info("no job id to compensate", "reason", reason)
		return
	}
	log.Info("terminating job", "jobId", jobID, "reason", reason)
	o.launcher.Terminate(ctx, jobID)
	o.metrics.RecordCompensation(reason)
}
