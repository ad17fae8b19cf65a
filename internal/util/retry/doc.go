// Package retry provides bounded re-checking of remote state and exponential
// backoff for transient failures.
//
// [Validate] polls a [Condition] under an explicit [Policy] and reports a
// three-valued [Outcome]. It is used to wait for dashboard instances to reach
// RUNNING or STOPPED. [WithExponentialBackoff] retries idempotent reads such
// as the catalog offering lookup.
package retry
