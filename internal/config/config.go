package config

import (
	"time"

	"github.com/imamik/gearpump-broker/internal/util/retry"
)

// Config is the complete broker configuration.
type Config struct {
	Platform  PlatformConfig  `yaml:"platform"`
	Identity  IdentityConfig  `yaml:"identity"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Kerberos  KerberosConfig  `yaml:"kerberos"`
	Store     StoreConfig     `yaml:"store"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Plans     PlansConfig     `yaml:"plans"`
}

// PlatformConfig points at the application catalog API.
type PlatformConfig struct {
	// APIEndpoint is the catalog base URL. The dashboard domain is derived from its host.
	APIEndpoint string         `yaml:"api_endpoint"`
	HTTPTimeout time.Duration  `yaml:"http_timeout"`
	Offering    OfferingConfig `yaml:"offering"`
}

// OfferingConfig identifies the dashboard offering in the catalog.
// When ID and PlanID are both set the catalog lookup is skipped.
type OfferingConfig struct {
	Name   string `yaml:"name"`
	ID     string `yaml:"id"`
	PlanID string `yaml:"plan_id"`
}

// IdentityConfig holds the identity provider endpoint and the broker's admin client.
type IdentityConfig struct {
	Endpoint     string `yaml:"endpoint"`
	TokenURL     string `yaml:"token_url"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

// SchedulerConfig describes how clusters are launched on YARN.
type SchedulerConfig struct {
	Command            string `yaml:"command"`
	WorkDir            string `yaml:"work_dir"`
	PackURI            string `yaml:"pack_uri"`
	ReportDir          string `yaml:"report_dir"`
	WorkerMemory       string `yaml:"worker_memory"`
	ResourceManagerURL string `yaml:"resource_manager_url"`
}

// KerberosConfig enables Kerberos options for the scheduler command.
type KerberosConfig struct {
	Enabled bool   `yaml:"enabled"`
	KDC     string `yaml:"kdc"`
	Realm   string `yaml:"realm"`
}

// StoreConfig configures the S3-compatible bucket holding credential records.
type StoreConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	PathStyle bool   `yaml:"path_style"`
}

// DashboardConfig configures dashboard deployment.
type DashboardConfig struct {
	Validation ValidationConfig `yaml:"validation"`
}

// ValidationConfig bounds how long the broker waits for a dashboard state change.
type ValidationConfig struct {
	MaxRetryCount        int   `yaml:"max_retry_count"`
	RetryIntervalSeconds int   `yaml:"retry_interval_seconds"`
	RetryEnabled         *bool `yaml:"retry_enabled"`
}

// Policy converts the configuration into a retry policy.
func (v ValidationConfig) Policy() retry.Policy {
	enabled := true
	if v.RetryEnabled != nil {
		enabled = *v.RetryEnabled
	}
	return retry.Policy{
		MaxRetryCount: v.MaxRetryCount,
		RetryInterval: time.Duration(v.RetryIntervalSeconds) * time.Second,
		Enabled:       enabled,
	}
}

// PlansConfig maps service plan ids to cluster worker counts.
type PlansConfig struct {
	DefaultWorkers int            `yaml:"default_workers"`
	Workers        map[string]int `yaml:"workers"`
}

// WorkerCount returns the worker count for planID, falling back to DefaultWorkers.
func (p PlansConfig) WorkerCount(planID string) int {
	if n, ok := p.Workers[planID]; ok {
		return n
	}
	return p.DefaultWorkers
}
