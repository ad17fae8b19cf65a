package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/imamik/gearpump-broker/internal/broker"
	"github.com/imamik/gearpump-broker/internal/config"
	"github.com/imamik/gearpump-broker/internal/credentials"
	"github.com/imamik/gearpump-broker/internal/dashboard"
	"github.com/imamik/gearpump-broker/internal/launcher"
	"github.com/imamik/gearpump-broker/internal/logging"
	"github.com/imamik/gearpump-broker/internal/platform/catalog"
	"github.com/imamik/gearpump-broker/internal/platform/rest"
	"github.com/imamik/gearpump-broker/internal/platform/s3"
	"github.com/imamik/gearpump-broker/internal/platform/uaa"
	"github.com/imamik/gearpump-broker/internal/platform/yarn"
	"github.com/imamik/gearpump-broker/internal/provisioning"
	"github.com/imamik/gearpump-broker/internal/util/async"
)

// Options holds the global CLI flags.
type Options struct {
	ConfigPath      string
	LogLevel        string
	LogFormat       string
	MetricsTextfile string
}

// InstanceService creates, deletes and reads service instances.
type InstanceService interface {
	CreateInstance(ctx context.Context, req provisioning.Request) (*credentials.ClusterCredentials, error)
	DeleteInstance(ctx context.Context, instanceID string) error
	Credentials(ctx context.Context, instanceID string) (*credentials.ClusterCredentials, error)
}

// JobInspector reports the state of YARN applications.
type JobInspector interface {
	ApplicationState(ctx context.Context, id yarn.ApplicationID) (string, error)
}

// Bucket manages the credential bucket.
type Bucket interface {
	CreateBucket(ctx context.Context) error
}

// App is the broker assembled from configuration.
type App struct {
	Service  InstanceService
	Jobs     JobInspector
	Bucket   Bucket
	Registry *prometheus.Registry
	// Probes check connectivity to each backend.
	Probes []async.Task
}

// Factory function variables - can be replaced in tests.
var (
	loadConfig = config.LoadFile

	newLogger = func(opts Options) (logr.Logger, func(), error) {
		return logging.New(os.Stderr, logging.Options{Level: opts.LogLevel, Format: logging.Format(opts.LogFormat)})
	}

	newApp = buildApp
)

// buildApp wires every backend client from cfg.
func buildApp(ctx context.Context, cfg *config.Config, log logr.Logger) (*App, error) {
	hc := rest.NewHTTPClient(cfg.Platform.HTTPTimeout)
	restOpts := []rest.Option{rest.WithHTTPClient(hc), rest.WithLogger(log.WithName("http"))}

	identity, err := uaa.New(cfg.Identity.Endpoint, cfg.Identity.TokenURL, restOpts...)
	if err != nil {
		return nil, err
	}

	catalogHTTP := (&clientcredentials.Config{
		ClientID:     cfg.Identity.ClientID,
		ClientSecret: cfg.Identity.ClientSecret,
		TokenURL:     cfg.Identity.TokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}).Client(context.WithValue(ctx, oauth2.HTTPClient, hc))
	catalogHTTP.Timeout = cfg.Platform.HTTPTimeout

	catalogClient, err := catalog.New(cfg.Platform.APIEndpoint,
		rest.WithHTTPClient(catalogHTTP), rest.WithLogger(log.WithName("http")))
	if err != nil {
		return nil, err
	}

	var resolverOpts []catalog.ResolverOption
	if cfg.Platform.Offering.ID != "" {
		resolverOpts = append(resolverOpts, catalog.WithPinnedOffering(catalog.OfferingRef{
			OfferingID: cfg.Platform.Offering.ID,
			PlanID:     cfg.Platform.Offering.PlanID,
		}))
	}
	offerings := catalog.NewOfferingResolver(catalogClient, cfg.Platform.Offering.Name, resolverOpts...)

	instances := dashboard.NewInstanceManager(catalogClient, offerings, log.WithName("instances"))
	deployer := dashboard.NewCatalogDeployer(dashboard.DeployerConfig{
		APIEndpoint:       cfg.Platform.APIEndpoint,
		AdminClientID:     cfg.Identity.ClientID,
		AdminClientSecret: cfg.Identity.ClientSecret,
		Validation:        cfg.Dashboard.Validation.Policy(),
	}, identity, instances, log.WithName("dashboard"))

	rm, err := yarn.New(cfg.Scheduler.ResourceManagerURL, restOpts...)
	if err != nil {
		return nil, err
	}

	var javaOpts []string
	if cfg.Kerberos.Enabled {
		javaOpts = launcher.KerberosJavaOpts(cfg.Kerberos.KDC, cfg.Kerberos.Realm)
	}
	clusters := launcher.New(launcher.Config{
		Command:      cfg.Scheduler.Command,
		WorkDir:      cfg.Scheduler.WorkDir,
		PackURI:      cfg.Scheduler.PackURI,
		ReportDir:    cfg.Scheduler.ReportDir,
		WorkerMemory: cfg.Scheduler.WorkerMemory,
		JavaOpts:     javaOpts,
	}, launcher.ExecRunner{}, rm, log.WithName("launcher"))

	registry := prometheus.NewRegistry()
	metrics := provisioning.NewMetrics(registry)
	orchestrator := provisioning.NewOrchestrator(clusters, deployer, cfg.Plans, log.WithName("provisioning"),
		provisioning.WithMetrics(metrics))

	objects, err := s3.NewClient(ctx, s3.Options{
		Endpoint:  cfg.Store.Endpoint,
		Region:    cfg.Store.Region,
		Bucket:    cfg.Store.Bucket,
		AccessKey: cfg.Store.AccessKey,
		SecretKey: cfg.Store.SecretKey,
		PathStyle: cfg.Store.PathStyle,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create store client: %w", err)
	}
	store := credentials.NewStore(credentials.NewS3Backend(objects, cfg.Store.Prefix), log.WithName("credentials"))

	return &App{
		Service:  broker.NewService(orchestrator, store, metrics, log.WithName("broker")),
		Jobs:     rm,
		Bucket:   objects,
		Registry: registry,
		Probes: []async.Task{
			{Name: "store", Func: func(ctx context.Context) error {
				ok, err := objects.BucketExists(ctx)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("bucket %s does not exist", objects.Bucket())
				}
				return nil
			}},
			{Name: "identity", Func: func(ctx context.Context) error {
				_, err := identity.CreateAccessToken(ctx, cfg.Identity.ClientID, cfg.Identity.ClientSecret)
				return err
			}},
			{Name: "catalog", Func: func(ctx context.Context) error {
				_, err := offerings.Resolve(ctx)
				return err
			}},
		},
	}, nil
}

// run loads the configuration, builds the app and calls fn. Metrics are
// written to the textfile afterwards when one is configured.
func run(ctx context.Context, opts Options, fn func(context.Context, *App, logr.Logger) error) error {
	log, flush, err := newLogger(opts)
	if err != nil {
		return err
	}
	defer flush()

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}

	ctx = logr.NewContext(ctx, log)
	runErr := fn(ctx, app, log)

	if opts.MetricsTextfile != "" && app.Registry != nil {
		if err := prometheus.WriteToTextfile(opts.MetricsTextfile, app.Registry); err != nil {
			log.Error(err, "failed to write metrics", "path", opts.MetricsTextfile)
		}
	}
	return runErr
}
