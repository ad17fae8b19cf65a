// Package launcher starts Gearpump clusters on YARN and tears them down.
//
// A launch runs the scheduler client command, which submits the cluster as a
// YARN application and writes a report file describing the running masters.
// The application id is parsed from the command output so that a failed
// launch can still be rolled back; the master endpoint is read from the
// report. Termination goes through the ResourceManager REST API.
package launcher
