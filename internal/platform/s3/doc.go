// Package s3 provides a client for S3-compatible object storage.
//
// The broker keeps one small JSON object per service instance in a single
// bucket. The client is bound to that bucket and exposes the put, get and
// delete calls the credential store needs, plus bucket checks used by the
// doctor command.
package s3
