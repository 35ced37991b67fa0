package handlers

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/stackplan/internal/config"
	"github.com/imamik/stackplan/internal/config/wizard"
	"github.com/imamik/stackplan/internal/resource"
	"github.com/imamik/stackplan/internal/state"
	"github.com/imamik/stackplan/internal/topology"
	"github.com/imamik/stackplan/internal/util/keygen"
)

func TestGraph_Formats(t *testing.T) {
	saveAndRestoreFactories(t)
	configPath := writeStack(t, nil)

	tests := []struct {
		format   string
		contains string
	}{
		{GraphFormatDOT, "digraph stack {"},
		{GraphFormatMermaid, "graph TD"},
		{GraphFormatJSON, `"topoOrder"`},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			output := captureOutput(func() {
				require.NoError(t, Graph(context.Background(), configPath, tt.format, ""))
			})
			assert.Contains(t, output, tt.contains)
			assert.Contains(t, output, "stream-server-bucket-grant")
		})
	}

	err := Graph(context.Background(), configPath, "svg", "")
	assert.ErrorContains(t, err, "unsupported graph format")
}

func TestBootstrap(t *testing.T) {
	saveAndRestoreFactories(t)
	configPath := writeStack(t, nil)

	script := captureOutput(func() {
		require.NoError(t, Bootstrap(context.Background(), BootstrapOptions{ConfigPath: configPath}))
	})
	assert.Contains(t, script, "#!/bin/sh")
	assert.Contains(t, script, "sudo service docker start")
	assert.Contains(t, script, "/home/ec2-user/rtsp-proxy-code/nginx.conf")

	program := captureOutput(func() {
		require.NoError(t, Bootstrap(context.Background(), BootstrapOptions{ConfigPath: configPath, Format: "yaml"}))
	})
	assert.Contains(t, program, "nodeId: stream-server")

	err := Bootstrap(context.Background(), BootstrapOptions{ConfigPath: configPath, NodeID: "frame-analysis"})
	assert.ErrorContains(t, err, `no bootstrap program for "frame-analysis" (instances: stream-server)`)
}

func TestOutputs_ResolvesAndRecords(t *testing.T) {
	saveAndRestoreFactories(t)
	configPath := writeStack(t, nil)
	dir := filepath.Dir(configPath)
	planPath := filepath.Join(dir, "plan.json")
	captureOutput(func() {
		require.NoError(t, Plan(context.Background(), PlanOptions{ConfigPath: configPath, OutputPath: planPath}))
	})

	resultsPath := filepath.Join(dir, "results.yaml")
	require.NoError(t, os.WriteFile(resultsPath, []byte(`
stream-server:
  publicIp: 203.0.113.7
  instanceId: i-0abc
`), 0o600))
	statePath := filepath.Join(dir, "stackplan.state.yaml")

	output := captureOutput(func() {
		require.NoError(t, Outputs(context.Background(), OutputsOptions{
			PlanPath:    planPath,
			ResultsPath: resultsPath,
			StatePath:   statePath,
			Stack:       "camera-feed",
		}))
	})
	assert.Contains(t, output, "stream-server-public-ip = 203.0.113.7")
	assert.Contains(t, output, "stream-name = (pending ${video-stream.arn})")

	snap, err := (&state.FileBackend{Path: statePath}).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "camera-feed", snap.Stack)
	rec, ok := snap.Lookup(topology.StreamServer)
	require.True(t, ok)
	assert.Equal(t, resource.KindComputeInstance, rec.Kind)
	assert.Equal(t, "i-0abc", rec.Attributes["instanceId"])

	// The recorded state turns the server into an update.
	output = captureOutput(func() {
		require.NoError(t, Plan(context.Background(), PlanOptions{ConfigPath: configPath, OutputPath: planPath}))
	})
	assert.Contains(t, output, "19 to create, 1 to update")
}

func TestOutputs_RejectsStateOfOtherStack(t *testing.T) {
	saveAndRestoreFactories(t)
	configPath := writeStack(t, nil)
	dir := filepath.Dir(configPath)
	planPath := filepath.Join(dir, "plan.json")
	captureOutput(func() {
		require.NoError(t, Plan(context.Background(), PlanOptions{ConfigPath: configPath, OutputPath: planPath}))
	})
	resultsPath := filepath.Join(dir, "results.yaml")
	require.NoError(t, os.WriteFile(resultsPath, []byte("stream-server:\n  publicIp: 203.0.113.7\n"), 0o600))

	statePath := filepath.Join(dir, "other.state.yaml")
	other := state.New("other-stack")
	require.NoError(t, other.Record(topology.StreamServer, resource.KindComputeInstance, map[string]string{"instanceId": "i-other"}))
	data, err := state.Encode(other)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(statePath, data, 0o600))

	var outErr error
	captureOutput(func() {
		outErr = Outputs(context.Background(), OutputsOptions{PlanPath: planPath, ResultsPath: resultsPath, StatePath: statePath})
	})
	assert.ErrorContains(t, outErr, `state belongs to stack "other-stack", not "camera-feed"`)

	captureOutput(func() {
		outErr = Outputs(context.Background(), OutputsOptions{PlanPath: planPath, ResultsPath: resultsPath, Stack: "other-stack"})
	})
	assert.ErrorContains(t, outErr, `is for stack "camera-feed", not "other-stack"`)

	after, err := os.ReadFile(statePath)
	require.NoError(t, err)
	assert.Equal(t, data, after)
}

func TestOutputs_KindConflictLeavesStateUnchanged(t *testing.T) {
	saveAndRestoreFactories(t)
	configPath := writeStack(t, nil)
	dir := filepath.Dir(configPath)
	planPath := filepath.Join(dir, "plan.json")
	captureOutput(func() {
		require.NoError(t, Plan(context.Background(), PlanOptions{ConfigPath: configPath, OutputPath: planPath}))
	})
	resultsPath := filepath.Join(dir, "results.yaml")
	require.NoError(t, os.WriteFile(resultsPath, []byte("stream-server:\n  publicIp: 203.0.113.7\n"), 0o600))

	statePath := filepath.Join(dir, "stackplan.state.yaml")
	snap := state.New("camera-feed")
	require.NoError(t, snap.Record(topology.StreamServer, resource.KindBucket, map[string]string{"arn": "arn:aws:s3:::x"}))
	data, err := state.Encode(snap)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(statePath, data, 0o600))

	var outErr error
	captureOutput(func() {
		outErr = Outputs(context.Background(), OutputsOptions{PlanPath: planPath, ResultsPath: resultsPath, StatePath: statePath})
	})
	var conflict *state.KindConflictError
	require.ErrorAs(t, outErr, &conflict)
	assert.Equal(t, topology.StreamServer, conflict.ID)

	after, err := os.ReadFile(statePath)
	require.NoError(t, err)
	assert.Equal(t, data, after)
}

func TestOutputs_UnknownResource(t *testing.T) {
	saveAndRestoreFactories(t)
	configPath := writeStack(t, nil)
	dir := filepath.Dir(configPath)
	planPath := filepath.Join(dir, "plan.json")
	captureOutput(func() {
		require.NoError(t, Plan(context.Background(), PlanOptions{ConfigPath: configPath, OutputPath: planPath}))
	})

	resultsPath := filepath.Join(dir, "results.yaml")
	require.NoError(t, os.WriteFile(resultsPath, []byte("load-balancer:\n  dns: lb.example.com\n"), 0o600))

	err := Outputs(context.Background(), OutputsOptions{PlanPath: planPath, ResultsPath: resultsPath})
	assert.ErrorContains(t, err, "results reference load-balancer")
}

func TestValidate(t *testing.T) {
	saveAndRestoreFactories(t)
	configPath := writeStack(t, nil)

	output := captureOutput(func() {
		require.NoError(t, Validate(context.Background(), configPath))
	})
	assert.Contains(t, output, "declares 15 resources")
	assert.Contains(t, output, "warning  server.ports[0]")

	invalid := writeStack(t, func(c *config.Config) { c.Frames.Suffix = "jpg" })
	err := Validate(context.Background(), invalid)
	assert.ErrorContains(t, err, "configuration validation failed")
}

func TestInit(t *testing.T) {
	saveAndRestoreFactories(t)
	path := filepath.Join(t.TempDir(), "stackplan.yaml")

	output := captureOutput(func() {
		require.NoError(t, Init(context.Background(), InitOptions{OutputPath: path, Stack: "camera-feed"}))
	})
	assert.Contains(t, output, "Created "+path+" for stack camera-feed")

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "camera-feed", cfg.Stack)
	assert.Len(t, cfg.Server.Ports, 4)

	err = Init(context.Background(), InitOptions{OutputPath: path, Stack: "camera-feed"})
	assert.ErrorContains(t, err, "already exists")

	err = Init(context.Background(), InitOptions{OutputPath: path, Stack: "Camera Feed", Force: true})
	assert.ErrorContains(t, err, "invalid stack")
}

func TestInit_Wizard(t *testing.T) {
	saveAndRestoreFactories(t)
	stdinIsTerminal = func() bool { return true }
	generateKeyPair = func(int) (*keygen.KeyPair, error) {
		return keygen.GenerateRSAKeyPair(2048)
	}
	var shown *wizard.Result
	runWizard = func(_ context.Context, defaults *wizard.Result) (*wizard.Result, error) {
		shown = defaults
		answers := *defaults
		answers.Stack = "harbour-cam"
		answers.Region = "ap-southeast-2"
		answers.Ports = []int{22, 8080}
		answers.SSHCIDR = "203.0.113.0/24"
		answers.Analysis = false
		answers.GenerateKey = true
		return &answers, nil
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "stackplan.yaml")

	output := captureOutput(func() {
		require.NoError(t, Init(context.Background(), InitOptions{OutputPath: path}))
	})
	require.NotNil(t, shown)
	assert.Equal(t, config.DefaultRegion, shown.Region)
	assert.Contains(t, output, "Created "+path+" for stack harbour-cam in ap-southeast-2")

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "harbour-cam", cfg.Stack)
	require.Len(t, cfg.Server.Ports, 2)
	assert.Equal(t, "203.0.113.0/24", cfg.Server.Ports[0].CIDR)
	assert.Equal(t, 8080, cfg.Server.Ports[1].Port)
	assert.False(t, cfg.Analysis.IsEnabled())
	assert.FileExists(t, filepath.Join(dir, "harbour-cam-key"))
	assert.NotEmpty(t, cfg.Server.PublicKey)
}

func TestInit_WizardNeedsTerminal(t *testing.T) {
	saveAndRestoreFactories(t)
	runWizard = func(context.Context, *wizard.Result) (*wizard.Result, error) {
		t.Fatal("wizard must not run without a terminal")
		return nil, nil
	}
	path := filepath.Join(t.TempDir(), "stackplan.yaml")

	err := Init(context.Background(), InitOptions{OutputPath: path})
	assert.ErrorContains(t, err, "--stack is required")
	assert.NoFileExists(t, path)
}

func TestInit_WizardCanceled(t *testing.T) {
	saveAndRestoreFactories(t)
	stdinIsTerminal = func() bool { return true }
	runWizard = func(context.Context, *wizard.Result) (*wizard.Result, error) {
		return nil, errors.New("wizard canceled: user aborted")
	}
	path := filepath.Join(t.TempDir(), "stackplan.yaml")

	var err error
	captureOutput(func() {
		err = Init(context.Background(), InitOptions{OutputPath: path})
	})
	assert.ErrorContains(t, err, "wizard canceled")
	assert.NoFileExists(t, path)
}

func TestInit_GenerateKey(t *testing.T) {
	saveAndRestoreFactories(t)
	generateKeyPair = func(int) (*keygen.KeyPair, error) {
		return keygen.GenerateRSAKeyPair(2048)
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "stackplan.yaml")

	captureOutput(func() {
		require.NoError(t, Init(context.Background(), InitOptions{OutputPath: path, Stack: "camera-feed", GenerateKey: true}))
	})

	info, err := os.Stat(filepath.Join(dir, "camera-feed-key"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Contains(t, cfg.Server.PublicKey, "ssh-rsa ")
}

func TestNewLogger(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := NewLogger(&buf, 0).WithName("stackplan")

	logger.Info("planned", "operations", 20)
	logger.V(1).Info("hidden")

	assert.Contains(t, buf.String(), "stackplan: ")
	assert.Contains(t, buf.String(), `"msg"="planned"`)
	assert.Contains(t, buf.String(), `"operations"=20`)
	assert.NotContains(t, buf.String(), "hidden")
}
