package dashboard

import (
	"context"
	"errors"

	"github.com/go-logr/logr"

	"github.com/imamik/gearpump-broker/internal/credentials"
	"github.com/imamik/gearpump-broker/internal/util/retry"
)

// Deployer deploys and removes the dashboard of one cluster.
type Deployer interface {
	Deploy(ctx context.Context, req DeployRequest) (credentials.Dashboard, error)
	Undeploy(ctx context.Context, instanceID, oauthClientName string) error
}

// DeployRequest describes a dashboard to deploy.
type DeployRequest struct {
	InstanceName    string
	Username        string
	Password        string
	ClusterEndpoint string
	SpaceID         string
	OrgID           string
	OAuthClientName string
}

// IdentityClient manages OAuth clients at the identity provider.
type IdentityClient interface {
	CreateAccessToken(ctx context.Context, clientID, clientSecret string) (string, error)
	RegisterOAuthClient(ctx context.Context, clientID, clientSecret, redirectHost, token string) (string, error)
	DeleteOAuthClient(ctx context.Context, clientID, token string) error
}

// Instances manages dashboard instances.
type Instances interface {
	CreateInstance(ctx context.Context, spec InstanceSpec) (string, error)
	StopInstance(ctx context.Context, id string) (bool, error)
	DeleteInstance(ctx context.Context, id string) error
	HasState(ctx context.Context, id string, expected InstanceState) (holds, known bool, err error)
}

// DeployerConfig configures a CatalogDeployer.
type DeployerConfig struct {
	// APIEndpoint is the platform API URL the dashboard domain is derived from.
	APIEndpoint       string
	AdminClientID     string
	AdminClientSecret string
	Validation        retry.Policy
}

// CatalogDeployer deploys dashboards as catalog service instances.
type CatalogDeployer struct {
	cfg       DeployerConfig
	identity  IdentityClient
	instances Instances
	log       logr.Logger
}

// NewCatalogDeployer creates a CatalogDeployer.
func NewCatalogDeployer(cfg DeployerConfig, identity IdentityClient, instances Instances, log logr.Logger) *CatalogDeployer {
	return &CatalogDeployer{cfg: cfg, identity: identity, instances: instances, log: log}
}

// Deploy registers the OAuth client, creates the instance and waits for it
// to run. Nothing is rolled back on failure.
func (d *CatalogDeployer) Deploy(ctx context.Context, req DeployRequest) (credentials.Dashboard, error) {
	url, err := URL(req.InstanceName, d.cfg.APIEndpoint)
	if err != nil {
		return credentials.Dashboard{}, &Error{Op: "deploy", Err: err}
	}

	token, err := d.identity.CreateAccessToken(ctx, d.cfg.AdminClientID, d.cfg.AdminClientSecret)
	if err != nil {
		return credentials.Dashboard{}, &Error{Op: "deploy", Err: err}
	}

	if _, err := d.identity.RegisterOAuthClient(ctx, req.OAuthClientName, req.Password, url, token); err != nil {
		return credentials.Dashboard{}, &Error{Op: "deploy", Err: err}
	}
	d.log.Info("oauth client registered", "oauthClientName", req.OAuthClientName, "url", url)

	id, err := d.instances.CreateInstance(ctx, InstanceSpec{
		Name:            req.InstanceName,
		SpaceID:         req.SpaceID,
		OrgID:           req.OrgID,
		Username:        req.Username,
		Password:        req.Password,
		ClusterEndpoint: req.ClusterEndpoint,
		OAuthClientName: req.OAuthClientName,
	})
	if err != nil {
		return credentials.Dashboard{}, &Error{Op: "deploy", Err: err}
	}

	outcome, err := d.awaitState(ctx, id, StateRunning)
	if err != nil {
		return credentials.Dashboard{}, &Error{Op: "deploy", InstanceID: id, Err: err}
	}
	if !outcome.Holds() {
		d.log.Info("dashboard instance did not reach RUNNING", "dashboardInstanceId", id, "outcome", outcome.String())
		return credentials.Dashboard{}, &Error{Op: "deploy", InstanceID: id, Err: ErrNotRunning}
	}

	return credentials.Dashboard{
		InstanceID:      id,
		URL:             url,
		Username:        req.Username,
		Password:        req.Password,
		OAuthClientName: req.OAuthClientName,
	}, nil
}

// Undeploy stops and deletes the instance, then deletes the OAuth client.
// The OAuth client is deleted even when the instance teardown fails; all
// failures are returned together.
func (d *CatalogDeployer) Undeploy(ctx context.Context, instanceID, oauthClientName string) error {
	var errs []error

	if instanceID == "" {
		d.log.Info("no dashboard instance recorded, skipping instance teardown")
	} else if err := d.removeInstance(ctx, instanceID); err != nil {
		errs = append(errs, err)
	}

	if oauthClientName == "" {
		d.log.Info("no oauth client recorded, skipping client deletion")
	} else if err := d.removeOAuthClient(ctx, oauthClientName); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (d *CatalogDeployer) removeInstance(ctx context.Context, id string) error {
	stopped, err := d.instances.StopInstance(ctx, id)
	if err != nil {
		return &Error{Op: "undeploy", InstanceID: id, Err: err}
	}
	if !stopped {
		return nil
	}

	outcome, err := d.awaitState(ctx, id, StateStopped)
	if err != nil {
		return &Error{Op: "undeploy", InstanceID: id, Err: err}
	}
	if !outcome.Holds() {
		d.log.Info("dashboard instance did not reach STOPPED, not deleting", "dashboardInstanceId", id, "outcome", outcome.String())
		return &Error{Op: "undeploy", InstanceID: id, Err: ErrNotStopped}
	}

	if err := d.instances.DeleteInstance(ctx, id); err != nil {
		return &Error{Op: "undeploy", InstanceID: id, Err: err}
	}
	return nil
}

func (d *CatalogDeployer) removeOAuthClient(ctx context.Context, clientName string) error {
	token, err := d.identity.CreateAccessToken(ctx, d.cfg.AdminClientID, d.cfg.AdminClientSecret)
	if err != nil {
		return &Error{Op: "undeploy", Err: err}
	}
	if err := d.identity.DeleteOAuthClient(ctx, clientName, token); err != nil {
		return &Error{Op: "undeploy", Err: err}
	}
	d.log.Info("oauth client deleted", "oauthClientName", clientName)
	return nil
}

func (d *CatalogDeployer) awaitState(ctx context.Context, id string, state InstanceState) (retry.Outcome, error) {
	ctx = logr.NewContext(ctx, d.log.WithValues("dashboardInstanceId", id, "expectedState", string(state)))
	return retry.Validate(ctx, d.cfg.Validation, func(ctx context.Context) (bool, bool, error) {
		return d.instances.HasState(ctx, id, state)
	})
}
