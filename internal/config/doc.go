// Package config defines the broker configuration and loads it from YAML.
//
// The [Config] struct holds the endpoints of every backend the broker talks
// to (platform catalog, identity provider, YARN scheduler, object store),
// the dashboard state-validation policy, and the plan to worker-count
// mapping. Secrets and validation settings can be overridden from
// GEARPUMP_BROKER_* environment variables.
package config
