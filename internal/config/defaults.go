package config

import (
	"os"
	"strings"
	"time"
)

// Default values applied by LoadFile when a field is left out.
const (
	DefaultSchedulerCommand     = "bin/yarnclient"
	DefaultOfferingName         = "gearpump-dashboard"
	DefaultHTTPTimeout          = 30 * time.Second
	DefaultMaxRetryCount        = 30
	DefaultRetryIntervalSeconds = 10
	DefaultWorkers              = 1
)

// DefaultPlans returns the built-in plan to worker-count mapping.
func DefaultPlans() map[string]int {
	return map[string]int{
		"gearpump-small":  1,
		"gearpump-medium": 3,
	}
}

// newConfig returns the configuration YAML is decoded into. Fields where zero
// is a valid setting are seeded here so an explicit zero survives decoding.
func newConfig() Config {
	return Config{
		Dashboard: DashboardConfig{
			Validation: ValidationConfig{
				MaxRetryCount:        DefaultMaxRetryCount,
				RetryIntervalSeconds: DefaultRetryIntervalSeconds,
			},
		},
	}
}

func (c *Config) applyDefaults() {
	if c.Platform.HTTPTimeout == 0 {
		c.Platform.HTTPTimeout = DefaultHTTPTimeout
	}
	if c.Platform.Offering.Name == "" {
		c.Platform.Offering.Name = DefaultOfferingName
	}
	if c.Identity.TokenURL == "" && c.Identity.Endpoint != "" {
		c.Identity.TokenURL = strings.TrimSuffix(c.Identity.Endpoint, "/") + "/oauth/token"
	}
	if c.Scheduler.Command == "" {
		c.Scheduler.Command = DefaultSchedulerCommand
	}
	if c.Scheduler.ReportDir == "" {
		c.Scheduler.ReportDir = os.TempDir()
	}
	if c.Store.Region == "" {
		c.Store.Region = "us-east-1"
	}

	if c.Plans.DefaultWorkers == 0 {
		c.Plans.DefaultWorkers = DefaultWorkers
	}
	if len(c.Plans.Workers) == 0 {
		c.Plans.Workers = DefaultPlans()
	}
}
