// Package main is the entry point for the gearpump-broker CLI.
//
// gearpump-broker provisions Gearpump stream-processing clusters on YARN
// together with a web dashboard, and stores the credentials of each
// cluster in an S3-compatible bucket.
//
// Commands: provision, deprovision, credentials, doctor, version.
//
// For detailed usage information, run:
//
//	gearpump-broker --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/gearpump-broker/cmd/gearpump-broker/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
