// Package provisioning runs the provision and deprovision sagas for one
// Gearpump cluster.
//
// Provisioning launches the cluster on YARN, then deploys its dashboard. A
// failed launch or deploy is compensated by killing the YARN job, and the
// original error is returned. Deprovisioning kills the job and undeploys the
// dashboard.
//
// The Orchestrator takes no locks and persists nothing; callers serialize
// requests per instance and store the returned credentials.
package provisioning
