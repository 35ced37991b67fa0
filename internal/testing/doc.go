// Package testing provides test utilities, builders, and fixtures for unit and integration tests.
//
// This package centralizes common testing patterns to avoid duplication across test files:
//   - ConfigBuilder: Fluent builder for creating stack configurations
//   - ProxyCodeSource: In-memory artifacts for the stream server's boot program
//   - SnapshotBuilder: State snapshots of previously applied resources
//
// Usage:
//
//	cfg := testing.NewConfigBuilder().
//	    WithStack("harbour-cam").
//	    WithoutAnalysis().
//	    Build()
package testing
