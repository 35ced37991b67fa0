// Package retry provides exponential backoff for transient failures.
//
// It wraps object storage calls (bootstrap artifacts and state snapshots).
// The planning core never retries.
package retry
