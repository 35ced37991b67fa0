// Package s3 provides a client for S3-compatible object storage.
//
// It serves two consumers: bootstrap artifact sources (the proxy code
// directory uploaded under a prefix) and the executor state backend. Calls
// are retried with exponential backoff; client errors such as a missing key
// or denied access fail immediately.
package s3
