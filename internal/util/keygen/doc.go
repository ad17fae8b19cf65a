// Package keygen generates random secrets for dashboard logins and OAuth
// client registrations.
//
// Secrets are drawn from crypto/rand and restricted to lowercase ASCII
// letters and digits so they can be used as identifiers as well.
package keygen
