package handlers

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/imamik/stackplan/internal/config"
)

// captureOutput captures stdout while f runs.
func captureOutput(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

// saveAndRestoreFactories saves and restores the handler factory functions.
func saveAndRestoreFactories(t *testing.T) {
	origLoadConfig := loadConfigFile
	origNewObjectStore := newObjectStore
	origNewPlanner := newPlanner
	origWriteFile := writeFile
	origFileExists := fileExists
	origIsInteractive := isInteractive
	origGenerateKeyPair := generateKeyPair
	origRunWizard := runWizard
	origStdinIsTerminal := stdinIsTerminal

	isInteractive = func() bool { return false }
	stdinIsTerminal = func() bool { return false }

	t.Cleanup(func() {
		loadConfigFile = origLoadConfig
		newObjectStore = origNewObjectStore
		newPlanner = origNewPlanner
		writeFile = origWriteFile
		fileExists = origFileExists
		isInteractive = origIsInteractive
		generateKeyPair = origGenerateKeyPair
		runWizard = origRunWizard
		stdinIsTerminal = origStdinIsTerminal
	})
}

// writeStack writes a default configuration and its proxy code to a
// temporary directory and returns the config path.
func writeStack(t *testing.T, mutate func(*config.Config)) string {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default("camera-feed")
	if mutate != nil {
		mutate(cfg)
	}
	data, err := cfg.Marshal()
	require.NoError(t, err)
	path := filepath.Join(dir, "stackplan.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	code := filepath.Join(dir, config.DefaultArtifactsSource)
	require.NoError(t, os.MkdirAll(code, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(code, "docker-compose.yml"), []byte("services: {}\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(code, "nginx.conf"), []byte("rtmp {}\n"), 0o600))
	return path
}

// memoryStore is an in-memory S3 bucket set.
type memoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte // bucket/key
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: map[string][]byte{}}
}

func (m *memoryStore) ListObjects(_ context.Context, bucket, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for k := range m.objects {
		if key, ok := strings.CutPrefix(k, bucket+"/"); ok && strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *memoryStore) GetObject(_ context.Context, bucket, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[bucket+"/"+key]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

func (m *memoryStore) PutObject(_ context.Context, bucket, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[bucket+"/"+key] = data
	return nil
}

func (m *memoryStore) ObjectExists(_ context.Context, bucket, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[bucket+"/"+key]
	return ok, nil
}
