// Package handlers implements the business logic for CLI commands.
//
// Each handler loads the configuration, builds the broker from it and runs
// one operation. Construction goes through package-level factory variables
// so tests can substitute fakes for the remote backends.
package handlers
