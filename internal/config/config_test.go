package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/stackplan/internal/util/keygen"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, DefaultConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	t.Parallel()
	cfg := Default("camera-feed")

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "10.0.0.0/24", cfg.Network.PublicSubnetCIDR)
	assert.Equal(t, "t3.xlarge", cfg.Server.InstanceType)
	assert.Equal(t, 100, cfg.Server.RootVolumeGiB)
	assert.Equal(t, "/dev/xvda", cfg.Server.RootDevice)
	assert.Equal(t, "/home/ec2-user/rtsp-proxy-code", cfg.Server.ProxyCodeDir)
	assert.Equal(t, 4800, cfg.Stream.RetentionHours)
	assert.Equal(t, ".jpg", cfg.Frames.Suffix)
	assert.True(t, cfg.Frames.Defaults.AutoDelete())
	assert.Equal(t, RemovalDestroy, cfg.Frames.Defaults.RemovalPolicy)
	assert.True(t, cfg.Analysis.IsEnabled())
	assert.Equal(t, "s3-frame-analysis-trigger.handler", cfg.Analysis.Handler)

	ports := make([]int, len(cfg.Server.Ports))
	for i, p := range cfg.Server.Ports {
		ports[i] = p.Port
		assert.Equal(t, "tcp", p.Protocol)
		assert.Equal(t, "0.0.0.0/0", p.CIDR)
	}
	assert.Equal(t, []int{22, 1935, 8080, 9997}, ports)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := writeConfig(t, dir, `
stack: camera-feed
region: eu-west-1
tags:
  team: video
network:
  cidr: 172.16.0.0/16
server:
  ports:
    - port: 22
      cidr: 203.0.113.0/24
frames:
  defaults:
    autoDeleteObjects: false
    removalPolicy: retain
analysis:
  enabled: false
state:
  location: s3://stack-state/camera-feed/state.yaml
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", cfg.Region)
	assert.Equal(t, "video", cfg.Tags["team"])
	assert.Equal(t, "172.16.0.0/24", cfg.Network.PublicSubnetCIDR)
	require.Len(t, cfg.Server.Ports, 1)
	assert.Equal(t, "203.0.113.0/24", cfg.Server.Ports[0].CIDR)
	assert.False(t, cfg.Frames.Defaults.AutoDelete())
	assert.False(t, cfg.Analysis.IsEnabled())
	assert.Equal(t, filepath.Join(dir, "rtsp-proxy-code"), cfg.Artifacts.Source)
	assert.Equal(t, "s3://stack-state/camera-feed/state.yaml", cfg.State.Location)
}

func TestLoadFile_PublicKeyFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	kp, err := keygen.GenerateRSAKeyPair(2048)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "id_rsa.pub"), kp.PublicKey, 0o600))

	path := writeConfig(t, dir, "stack: camera-feed\nserver:\n  publicKeyFile: id_rsa.pub\n")
	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strings.TrimSpace(string(kp.PublicKey)), cfg.Server.PublicKey)
}

func TestLoadFile_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "unknown field", content: "stack: s1\nflavour: x\n", wantErr: "field flavour not found"},
		{name: "missing stack", content: "region: us-east-1\n", wantErr: "stack is required"},
		{name: "bad stack", content: "stack: Camera_Feed\n", wantErr: "must be 2-40 lowercase"},
		{name: "bad cidr", content: "stack: s1\nnetwork:\n  cidr: nope\n", wantErr: "network.cidr"},
		{name: "subnet outside", content: "stack: s1\nnetwork:\n  publicSubnetCidr: 192.168.0.0/24\n", wantErr: "is not inside"},
		{name: "bad port", content: "stack: s1\nserver:\n  ports:\n    - port: 70000\n", wantErr: "out of range"},
		{name: "bad protocol", content: "stack: s1\nserver:\n  ports:\n    - port: 22\n      protocol: icmp\n", wantErr: "must be tcp or udp"},
		{name: "bad key", content: "stack: s1\nserver:\n  publicKey: ssh-rsa nope\n", wantErr: "server.publicKey"},
		{name: "bad suffix", content: "stack: s1\nframes:\n  suffix: jpg\n", wantErr: "must start with a dot"},
		{name: "bad removal", content: "stack: s1\nframes:\n  defaults:\n    removalPolicy: snapshot\n", wantErr: "removalPolicy"},
		{name: "bad confidence", content: "stack: s1\nanalysis:\n  minConfidence: 120\n", wantErr: "minConfidence"},
		{name: "bad state", content: "stack: s1\nstate:\n  location: s3://bucket\n", wantErr: "state.location"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := LoadFile(writeConfig(t, t.TempDir(), tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	t.Parallel()
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	t.Parallel()
	cfg := Default("")
	cfg.Server.RootVolumeGiB = 1
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stack is required")
	assert.Contains(t, err.Error(), "rootVolumeGiB")
}

func TestMarshal_RoundTrip(t *testing.T) {
	t.Parallel()
	cfg := Default("camera-feed")
	data, err := cfg.Marshal()
	require.NoError(t, err)

	parsed, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, parsed)
}

func TestParse_Empty(t *testing.T) {
	t.Parallel()
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultRegion, cfg.Region)
}

func TestCIDRSubnet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		prefix  string
		newbits int
		netnum  int
		want    string
		wantErr bool
	}{
		{prefix: "10.0.0.0/16", newbits: 8, netnum: 0, want: "10.0.0.0/24"},
		{prefix: "10.0.0.0/16", newbits: 8, netnum: 3, want: "10.0.3.0/24"},
		{prefix: "10.0.5.7/16", newbits: 4, netnum: 1, want: "10.0.16.0/20"},
		{prefix: "10.0.0.0/16", newbits: 8, netnum: 256, wantErr: true},
		{prefix: "10.0.0.0/30", newbits: 4, netnum: 0, wantErr: true},
		{prefix: "fd00::/8", newbits: 8, netnum: 0, wantErr: true},
		{prefix: "garbage", newbits: 8, netnum: 0, wantErr: true},
	}

	for _, tt := range tests {
		got, err := CIDRSubnet(tt.prefix, tt.newbits, tt.netnum)
		if tt.wantErr {
			assert.Error(t, err, tt.prefix)
			continue
		}
		require.NoError(t, err, tt.prefix)
		assert.Equal(t, tt.want, got, tt.prefix)
	}
}

func TestLoadS3Settings(t *testing.T) {
	t.Setenv("STACKPLAN_S3_ENDPOINT", "https://objects.example.com")
	t.Setenv("STACKPLAN_S3_ACCESS_KEY", "ak")
	t.Setenv("STACKPLAN_S3_SECRET_KEY", "sk")
	t.Setenv("STACKPLAN_S3_PATH_STYLE", "true")
	t.Setenv("STACKPLAN_S3_RETRY_MAX_ATTEMPTS", "not-a-number")

	s := LoadS3Settings("eu-west-1")
	assert.Equal(t, "https://objects.example.com", s.Endpoint)
	assert.Equal(t, "eu-west-1", s.Region)
	assert.Equal(t, "ak", s.AccessKey)
	assert.True(t, s.PathStyle)
	assert.Equal(t, 3, s.RetryMaxAttempts)

	t.Setenv("STACKPLAN_S3_REGION", "fsn1")
	assert.Equal(t, "fsn1", LoadS3Settings("eu-west-1").Region)
}
