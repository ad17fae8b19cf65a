// Package naming provides consistent names for resources created per
// service instance.
//
// Dashboard instances are named gp-ui-{instanceID}; credential records live
// under /additionalData/{instanceID}; scheduler reports are written to
// output-{unixMillis}-{4 digits}.conf in the report directory.
package naming
