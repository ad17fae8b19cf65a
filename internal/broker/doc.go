// Package broker ties provisioning to the credential store. Requests for one
// service instance are serialized in process and guarded by a lease in the
// store across processes. New clusters get their credentials persisted, and
// records are removed once a cluster is torn down.
package broker
