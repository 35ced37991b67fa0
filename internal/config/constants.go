package config

// Defaults of the reference deployment.
const (
	DefaultRegion           = "us-east-1"
	DefaultNetworkCIDR      = "10.0.0.0/16"
	DefaultInstanceType     = "t3.xlarge"
	DefaultImage            = "amazon-linux-latest"
	DefaultRootVolumeGiB    = 100
	DefaultRootDevice       = "/dev/xvda"
	DefaultUser             = "ec2-user"
	DefaultComposeURL       = "https://github.com/docker/compose/releases/latest/download/docker-compose-$(uname -s)-$(uname -m)"
	DefaultRetentionHours   = 200 * 24
	DefaultFramesSuffix     = ".jpg"
	DefaultRuntime          = "python3.8"
	DefaultHandler          = "s3-frame-analysis-trigger.handler"
	DefaultCodeDir          = "lambda"
	DefaultObjectOfInterest = "shark"
	DefaultMinConfidence    = 95
	DefaultFunctionTimeout  = 30
	DefaultArtifactsSource  = "rtsp-proxy-code"
	DefaultStateLocation    = "stackplan.state.yaml"
	DefaultConfigFile       = "stackplan.yaml"
)

// DefaultPorts are the stream server's public ports: SSH, RTMP, HTTP and
// the RTSP server API.
func DefaultPorts() []PortConfig {
	return []PortConfig{
		{Port: 22, Description: "ssh"},
		{Port: 1935, Description: "rtmp"},
		{Port: 8080, Description: "http"},
		{Port: 9997, Description: "rtsp-server-http-api"},
	}
}
