// Package async runs independent I/O tasks concurrently and collects every
// error.
//
// The CLI uses it to load the state snapshot and check the bootstrap
// artifact source at the same time before planning.
package async
