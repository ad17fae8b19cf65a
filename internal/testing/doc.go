// Package testing provides builders and helpers shared by package tests.
//
//	cfg := testing.NewConfigBuilder().
//	    WithAPIEndpoint(srv.URL).
//	    WithRetry(2, false).
//	    Build()
package testing
