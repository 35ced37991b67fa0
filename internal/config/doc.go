// Package config defines the deploy-time configuration of a stream stack.
//
// A [Config] is loaded from stackplan.yaml, completed with defaults taken
// from the reference deployment and validated before the topology is
// declared. Object storage credentials never live in the file; they come
// from STACKPLAN_S3_* environment variables (see [LoadS3Settings]).
package config
