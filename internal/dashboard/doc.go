// Package dashboard deploys and removes the Gearpump management dashboard
// that accompanies every cluster.
//
// A dashboard is a catalog service instance plus an OAuth client registered
// with the identity provider for its login flow. [CatalogDeployer] creates
// both and waits for the instance to run; undeploying stops the instance,
// waits for it to stop, deletes it and always removes the OAuth client.
package dashboard
