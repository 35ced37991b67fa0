package handlers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/stackplan/internal/config"
	"github.com/imamik/stackplan/internal/plan"
	"github.com/imamik/stackplan/internal/resource"
	"github.com/imamik/stackplan/internal/state"
	"github.com/imamik/stackplan/internal/topology"
)

func TestPlan_WritesPlanAndMetrics(t *testing.T) {
	saveAndRestoreFactories(t)
	configPath := writeStack(t, nil)
	dir := filepath.Dir(configPath)
	planPath := filepath.Join(dir, "plan.json")
	metricsPath := filepath.Join(dir, "plan.prom")

	output := captureOutput(func() {
		err := Plan(context.Background(), PlanOptions{
			ConfigPath:  configPath,
			OutputPath:  planPath,
			MetricsFile: metricsPath,
		})
		require.NoError(t, err)
	})
	assert.Contains(t, output, "20 to create, 0 to update, 5 grants, 2 pending outputs")

	p, err := plan.LoadFile(planPath)
	require.NoError(t, err)
	assert.Len(t, p.Operations, 20)
	assert.Equal(t, topology.FramesBucket, p.Operations[0].NodeID)

	metrics, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "stackplan_plan_policy_grants 5")
	assert.Contains(t, string(metrics), `stackplan_plan_operations{action="create",kind="Bucket"} 1`)
}

func TestPlan_YAMLToStdout(t *testing.T) {
	saveAndRestoreFactories(t)
	configPath := writeStack(t, nil)

	output := captureOutput(func() {
		require.NoError(t, Plan(context.Background(), PlanOptions{ConfigPath: configPath, Format: "yaml"}))
	})
	p, err := plan.Decode([]byte(output))
	require.NoError(t, err)
	assert.Len(t, p.Operations, 20)
	assert.Contains(t, output, "nodeId: frames-bucket")
}

func TestPlan_UnsupportedFormat(t *testing.T) {
	saveAndRestoreFactories(t)
	err := Plan(context.Background(), PlanOptions{Format: "toml"})
	assert.ErrorContains(t, err, "unsupported plan format")
}

func TestPlan_StateFromOtherStack(t *testing.T) {
	saveAndRestoreFactories(t)
	configPath := writeStack(t, nil)
	statePath := filepath.Join(filepath.Dir(configPath), "other.state.yaml")

	data, err := state.Encode(state.New("other-stack"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(statePath, data, 0o600))

	err = Plan(context.Background(), PlanOptions{ConfigPath: configPath, StatePath: statePath, OutputPath: os.DevNull})
	assert.ErrorContains(t, err, `state belongs to stack "other-stack"`)
}

func TestPlan_MissingArtifacts(t *testing.T) {
	saveAndRestoreFactories(t)
	configPath := writeStack(t, nil)
	require.NoError(t, os.RemoveAll(filepath.Join(filepath.Dir(configPath), config.DefaultArtifactsSource)))

	err := Plan(context.Background(), PlanOptions{ConfigPath: configPath, OutputPath: os.DevNull})
	assert.ErrorContains(t, err, "failed to list artifacts")
}

func TestPlan_S3StateAndArtifacts(t *testing.T) {
	saveAndRestoreFactories(t)
	store := newMemoryStore()
	calls := 0
	newObjectStore = func(_ context.Context, s *config.S3Settings) (objectStore, error) {
		calls++
		assert.Equal(t, "eu-west-1", s.Region)
		return store, nil
	}

	snap := state.New("camera-feed")
	require.NoError(t, snap.Record(topology.StreamServer, resource.KindComputeInstance, map[string]string{"publicIp": "198.51.100.4"}))
	data, err := state.Encode(snap)
	require.NoError(t, err)
	require.NoError(t, store.PutObject(context.Background(), "states", "camera-feed/state.yaml", data))
	require.NoError(t, store.PutObject(context.Background(), "artifacts", "proxy/nginx.conf", []byte("rtmp {}\n")))

	configPath := writeStack(t, func(c *config.Config) {
		c.Region = "eu-west-1"
		c.Artifacts.Source = "s3://artifacts/proxy"
		c.State.Location = "s3://states/camera-feed/state.yaml"
	})
	planPath := filepath.Join(filepath.Dir(configPath), "plan.json")

	captureOutput(func() {
		require.NoError(t, Plan(context.Background(), PlanOptions{ConfigPath: configPath, OutputPath: planPath}))
	})
	assert.Equal(t, 1, calls, "one client serves state and artifacts")

	p, err := plan.LoadFile(planPath)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Summary().Updates)
	ip, ok := p.Output(topology.OutputNamePublicIP)
	require.True(t, ok)
	assert.Equal(t, "198.51.100.4", ip.Value)
}

func TestPlan_InvalidS3State(t *testing.T) {
	saveAndRestoreFactories(t)
	configPath := writeStack(t, nil)
	err := Plan(context.Background(), PlanOptions{ConfigPath: configPath, StatePath: "s3://only-bucket"})
	assert.ErrorContains(t, err, "invalid state location")
}
