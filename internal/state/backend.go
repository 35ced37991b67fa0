package state

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Backend loads and saves snapshots. A missing snapshot is returned as an
// empty one, never as an error.
type Backend interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, s *Snapshot) error
}

// FileBackend stores a snapshot as YAML on disk.
type FileBackend struct {
	Path string
}

// Load reads the snapshot file.
func (b *FileBackend) Load(_ context.Context) (*Snapshot, error) {
	// #nosec G304
	data, err := os.ReadFile(b.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return New(""), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}
	return Decode(data)
}

// Save writes the snapshot file with owner-only permissions.
func (b *FileBackend) Save(_ context.Context, s *Snapshot) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(b.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
	}
	if err := os.WriteFile(b.Path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}

// ObjectStore is the subset of an S3 client used by S3Backend.
type ObjectStore interface {
	GetObject(ctx context.Context, bucketName, key string) ([]byte, error)
	PutObject(ctx context.Context, bucketName, key string, data []byte) error
	ObjectExists(ctx context.Context, bucketName, key string) (bool, error)
}

// S3Backend stores a snapshot as a YAML object.
type S3Backend struct {
	Store  ObjectStore
	Bucket string
	Key    string
}

// Load downloads the snapshot object.
func (b *S3Backend) Load(ctx context.Context) (*Snapshot, error) {
	exists, err := b.Store.ObjectExists(ctx, b.Bucket, b.Key)
	if err != nil {
		return nil, fmt.Errorf("failed to check state object: %w", err)
	}
	if !exists {
		return New(""), nil
	}
	data, err := b.Store.GetObject(ctx, b.Bucket, b.Key)
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	return Decode(data)
}

// Save uploads the snapshot object.
func (b *S3Backend) Save(ctx context.Context, s *Snapshot) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}
	if err := b.Store.PutObject(ctx, b.Bucket, b.Key, data); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

// ParseLocation splits "s3://bucket/key" into its parts. ok is false for
// anything that is not an s3 URL, which callers treat as a file path.
func ParseLocation(loc string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(loc, "s3://")
	if !found {
		return "", "", false
	}
	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

// Decode parses a YAML (or JSON) snapshot.
func Decode(data []byte) (*Snapshot, error) {
	s := New("")
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse state: %w", err)
	}
	if s.Resources == nil {
		s.Resources = map[string]Record{}
	}
	for id, r := range s.Resources {
		if !r.Kind.Valid() {
			return nil, fmt.Errorf("state resource %s has unknown kind %q", id, r.Kind)
		}
	}
	return s, nil
}

// Encode renders the snapshot as YAML.
func Encode(s *Snapshot) ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal state: %w", err)
	}
	return data, nil
}
