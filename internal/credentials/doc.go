// Package credentials models the connection details of a provisioned
// cluster and persists them keyed by service instance id.
//
// Records are stored as a JSON object of string values under
// /additionalData/{instanceID} in a [Backend]. The map keys match the
// records written by earlier broker releases, so existing instances can
// still be deprovisioned.
package credentials
