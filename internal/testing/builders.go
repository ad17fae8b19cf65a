package testing

import (
	"maps"

	"github.com/imamik/gearpump-broker/internal/config"
	"github.com/imamik/gearpump-broker/internal/util/ptr"
)

// ConfigBuilder provides a fluent interface for constructing test configs.
// Each method returns a new builder (immutable) for chaining.
type ConfigBuilder struct {
	cfg config.Config
}

// NewConfigBuilder creates a ConfigBuilder holding a valid configuration.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		cfg: config.Config{
			Platform: config.PlatformConfig{
				APIEndpoint: "https://api.example.com",
				HTTPTimeout: config.DefaultHTTPTimeout,
				Offering:    config.OfferingConfig{Name: config.DefaultOfferingName},
			},
			Identity: config.IdentityConfig{
				Endpoint:     "https://uaa.example.com",
				TokenURL:     "https://uaa.example.com/oauth/token",
				ClientID:     "broker",
				ClientSecret: "broker-secret",
			},
			Scheduler: config.SchedulerConfig{
				Command:            config.DefaultSchedulerCommand,
				PackURI:            "hdfs:///apps/gearpump.zip",
				ResourceManagerURL: "http://rm.example.com:8088",
			},
			Store: config.StoreConfig{
				Endpoint:  "http://minio.example.com:9000",
				Region:    "us-east-1",
				Bucket:    "gearpump-broker",
				AccessKey: "access",
				SecretKey: "secret",
				PathStyle: true,
			},
			Dashboard: config.DashboardConfig{Validation: config.ValidationConfig{
				MaxRetryCount:        config.DefaultMaxRetryCount,
				RetryIntervalSeconds: config.DefaultRetryIntervalSeconds,
			}},
			Plans: config.PlansConfig{
				DefaultWorkers: config.DefaultWorkers,
				Workers:        config.DefaultPlans(),
			},
		},
	}
}

// WithAPIEndpoint sets the catalog endpoint.
func (b *ConfigBuilder) WithAPIEndpoint(url string) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.Platform.APIEndpoint = url
	return nb
}

// WithIdentity points the identity client at endpoint.
func (b *ConfigBuilder) WithIdentity(endpoint string) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.Identity.Endpoint = endpoint
	nb.cfg.Identity.TokenURL = endpoint + "/oauth/token"
	return nb
}

// WithPinnedOffering skips the offering lookup.
func (b *ConfigBuilder) WithPinnedOffering(id, planID string) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.Platform.Offering.ID = id
	nb.cfg.Platform.Offering.PlanID = planID
	return nb
}

// WithKerberos enables Kerberos options for the scheduler.
func (b *ConfigBuilder) WithKerberos(kdc, realm string) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.Kerberos = config.KerberosConfig{Enabled: true, KDC: kdc, Realm: realm}
	return nb
}

// WithRetry sets the dashboard validation budget.
func (b *ConfigBuilder) WithRetry(maxRetryCount int, enabled bool) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.Dashboard.Validation.MaxRetryCount = maxRetryCount
	nb.cfg.Dashboard.Validation.RetryEnabled = ptr.Bool(enabled)
	return nb
}

// WithPlan maps planID to a worker count.
func (b *ConfigBuilder) WithPlan(planID string, workers int) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.Plans.Workers[planID] = workers
	return nb
}

// Build returns a copy of the configuration.
func (b *ConfigBuilder) Build() *config.Config {
	cfg := b.clone().cfg
	return &cfg
}

func (b *ConfigBuilder) clone() *ConfigBuilder {
	cfg := b.cfg
	cfg.Plans.Workers = maps.Clone(b.cfg.Plans.Workers)
	if b.cfg.Dashboard.Validation.RetryEnabled != nil {
		cfg.Dashboard.Validation.RetryEnabled = ptr.Bool(*b.cfg.Dashboard.Validation.RetryEnabled)
	}
	return &ConfigBuilder{cfg: cfg}
}

// MinimalConfig returns the default valid configuration.
func MinimalConfig() *config.Config {
	return NewConfigBuilder().Build()
}
