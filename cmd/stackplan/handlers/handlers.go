// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/imamik/stackplan/internal/bootstrap"
	"github.com/imamik/stackplan/internal/config"
	"github.com/imamik/stackplan/internal/orchestration"
	"github.com/imamik/stackplan/internal/platform/s3"
	"github.com/imamik/stackplan/internal/state"
)

// objectStore is the S3 surface used for artifacts and state.
type objectStore interface {
	bootstrap.ObjectStore
	state.ObjectStore
}

// Planner interface for testing - matches orchestration.Planner.
type Planner interface {
	Plan(ctx context.Context) (*orchestration.Result, error)
	Graph(ctx context.Context) (*orchestration.Result, error)
	Bootstrap(ctx context.Context) (*orchestration.Result, error)
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfigFile loads config from file (for testing injection).
	loadConfigFile = config.LoadFile

	// newObjectStore creates the S3 client for s3:// locations.
	newObjectStore = func(ctx context.Context, s *config.S3Settings) (objectStore, error) {
		return s3.NewClient(ctx, s3.Options{
			Endpoint:          s.Endpoint,
			Region:            s.Region,
			AccessKey:         s.AccessKey,
			SecretKey:         s.SecretKey,
			PathStyle:         s.PathStyle,
			RetryMaxAttempts:  s.RetryMaxAttempts,
			RetryInitialDelay: s.RetryInitialDelay,
		})
	}

	// newPlanner creates the planning pipeline.
	newPlanner = func(cfg *config.Config, src bootstrap.Source, snapshot *state.Snapshot, opts ...orchestration.Option) Planner {
		return orchestration.NewPlanner(cfg, src, snapshot, opts...)
	}

	// writeFile writes data to a file (for testing injection).
	writeFile = os.WriteFile

	// fileExists checks if a file exists.
	fileExists = func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}
)

func configPathOrDefault(path string) string {
	if path == "" {
		return config.DefaultConfigFile
	}
	return path
}

// stores creates at most one S3 client per command.
type stores struct {
	region string
	store  objectStore
}

func (s *stores) get(ctx context.Context) (objectStore, error) {
	if s.store != nil {
		return s.store, nil
	}
	store, err := newObjectStore(ctx, config.LoadS3Settings(s.region))
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}
	s.store = store
	return store, nil
}

// openBackend returns the state backend for location, an s3:// URL or a
// file path.
func (s *stores) openBackend(ctx context.Context, location string) (state.Backend, error) {
	if !strings.HasPrefix(location, "s3://") {
		return &state.FileBackend{Path: location}, nil
	}
	bucket, key, ok := state.ParseLocation(location)
	if !ok {
		return nil, fmt.Errorf("invalid state location %q: expected s3://bucket/key", location)
	}
	store, err := s.get(ctx)
	if err != nil {
		return nil, err
	}
	return &state.S3Backend{Store: store, Bucket: bucket, Key: key}, nil
}

// openSource returns the artifact source for location, an s3:// URL or a
// directory.
func (s *stores) openSource(ctx context.Context, location string) (bootstrap.Source, error) {
	rest, isS3 := strings.CutPrefix(location, "s3://")
	if !isS3 {
		return bootstrap.NewDirSource(location), nil
	}
	bucket, prefix, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return nil, fmt.Errorf("invalid artifacts source %q: expected s3://bucket/prefix", location)
	}
	store, err := s.get(ctx)
	if err != nil {
		return nil, err
	}
	return &bootstrap.S3Source{Store: store, Bucket: bucket, Prefix: prefix}, nil
}

// writeOutput writes data to path, or to stdout for "" and "-".
func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := writeFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
