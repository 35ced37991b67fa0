package bootstrap

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
)

// Source provides bootstrap file content keyed by logical name. Names use
// forward slashes; a directory name lists the files directly under it.
type Source interface {
	List(ctx context.Context, dir string) ([]string, error)
	Read(ctx context.Context, name string) ([]byte, error)
}

// SourceFileError reports a missing or unreadable source file.
type SourceFileError struct {
	Name string
	Err  error
}

func (e *SourceFileError) Error() string {
	return fmt.Sprintf("bootstrap source %q: %v", e.Name, e.Err)
}

func (e *SourceFileError) Unwrap() error {
	return e.Err
}

// FSSource reads from an fs.FS, typically a local directory.
type FSSource struct {
	fsys fs.FS
}

// NewFSSource wraps fsys.
func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

// NewDirSource reads from a directory on the local disk.
func NewDirSource(root string) *FSSource {
	return NewFSSource(os.DirFS(root))
}

// List returns the names of regular files directly under dir.
func (s *FSSource) List(_ context.Context, dir string) ([]string, error) {
	entries, err := fs.ReadDir(s.fsys, cleanName(dir))
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, path.Join(cleanName(dir), e.Name()))
		}
	}
	return names, nil
}

// Read returns the content of name.
func (s *FSSource) Read(_ context.Context, name string) ([]byte, error) {
	return fs.ReadFile(s.fsys, cleanName(name))
}

// MapSource is an in-memory source. Map iteration order is random, so it is
// also a convenient way to check that assembly does not depend on listing
// order.
type MapSource map[string][]byte

// List returns the names directly under dir.
func (m MapSource) List(_ context.Context, dir string) ([]string, error) {
	prefix := cleanName(dir) + "/"
	if prefix == "./" {
		prefix = ""
	}
	var names []string
	for name := range m {
		rest, ok := strings.CutPrefix(name, prefix)
		if ok && rest != "" && !strings.Contains(rest, "/") {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil, fs.ErrNotExist
	}
	return names, nil
}

// Read returns the content stored under name.
func (m MapSource) Read(_ context.Context, name string) ([]byte, error) {
	data, ok := m[cleanName(name)]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

// ObjectStore is the subset of an S3 client used by S3Source.
type ObjectStore interface {
	ListObjects(ctx context.Context, bucketName, prefix string) ([]string, error)
	GetObject(ctx context.Context, bucketName, key string) ([]byte, error)
}

// S3Source reads bootstrap files from objects under Prefix in Bucket.
type S3Source struct {
	Store  ObjectStore
	Bucket string
	Prefix string
}

// List returns the object names directly under dir, relative to Prefix.
func (s *S3Source) List(ctx context.Context, dir string) ([]string, error) {
	prefix := s.key(dir)
	if prefix == "." {
		prefix = ""
	} else {
		prefix += "/"
	}
	keys, err := s.Store.ListObjects(ctx, s.Bucket, prefix)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, k := range keys {
		rest := strings.TrimPrefix(k, prefix)
		if rest == "" || strings.Contains(rest, "/") {
			continue
		}
		names = append(names, path.Join(cleanName(dir), rest))
	}
	if len(names) == 0 {
		return nil, fs.ErrNotExist
	}
	return names, nil
}

// Read downloads the object for name.
func (s *S3Source) Read(ctx context.Context, name string) ([]byte, error) {
	return s.Store.GetObject(ctx, s.Bucket, s.key(name))
}

func (s *S3Source) key(name string) string {
	prefix := strings.Trim(s.Prefix, "/")
	if prefix == "" {
		return cleanName(name)
	}
	return path.Join(prefix, cleanName(name))
}

func cleanName(name string) string {
	c := path.Clean("/" + name)
	if c == "/" {
		return "."
	}
	return strings.TrimPrefix(c, "/")
}

// sortedNames sorts names by their base filename, then by full name.
func sortedNames(names []string) []string {
	out := append([]string(nil), names...)
	sort.SliceStable(out, func(i, j int) bool {
		bi, bj := path.Base(out[i]), path.Base(out[j])
		if bi != bj {
			return bi < bj
		}
		return out[i] < out[j]
	})
	return out
}
