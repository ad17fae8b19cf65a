// Package async runs independent checks concurrently and collects every
// failure.
package async
