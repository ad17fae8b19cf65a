// Package commands defines the CLI command structure and flag bindings.
//
// Command execution is delegated to handler functions in the handlers
// package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/gearpump-broker/cmd/gearpump-broker/handlers"
)

// Root returns the root command for the gearpump-broker CLI.
func Root() *cobra.Command {
	opts := &handlers.Options{}

	cmd := &cobra.Command{
		Use:           "gearpump-broker",
		Short:         "Provision Gearpump clusters on YARN with a dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "Path to broker configuration file")
	flags.StringVar(&opts.LogLevel, "log-level", "info", "Log level: debug, info, warn or error")
	flags.StringVar(&opts.LogFormat, "log-format", "auto", "Log format: auto, json or console")
	flags.StringVar(&opts.MetricsTextfile, "metrics-textfile", "", "Write Prometheus metrics to this file after the command")

	cmd.AddCommand(Provision(opts))
	cmd.AddCommand(Deprovision(opts))
	cmd.AddCommand(Credentials(opts))
	cmd.AddCommand(Doctor(opts))
	cmd.AddCommand(Version())

	return cmd
}

// requireConfig fails commands that need a configuration file when --config is missing.
func requireConfig(opts *handlers.Options) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, _ []string) error {
		if opts.ConfigPath == "" {
			return errConfigRequired
		}
		return nil
	}
}
