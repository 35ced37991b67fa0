package config

// Config is the desired shape of one stream stack.
type Config struct {
	// Stack prefixes every cloud-side name and is stamped on every tag set.
	Stack  string            `yaml:"stack"`
	Region string            `yaml:"region"`
	Tags   map[string]string `yaml:"tags,omitempty"`

	Network   NetworkConfig   `yaml:"network"`
	Server    ServerConfig    `yaml:"server"`
	Stream    StreamConfig    `yaml:"stream"`
	Frames    FramesConfig    `yaml:"frames"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Artifacts ArtifactsConfig `yaml:"artifacts"`
	State     StateConfig     `yaml:"state"`
}

// NetworkConfig describes the private network and its public subnet.
type NetworkConfig struct {
	CIDR string `yaml:"cidr"`
	// PublicSubnetCIDR defaults to the first /24 of CIDR.
	PublicSubnetCIDR string `yaml:"publicSubnetCidr,omitempty"`
}

// ServerConfig describes the stream server instance.
type ServerConfig struct {
	InstanceType  string `yaml:"instanceType"`
	Image         string `yaml:"image"`
	RootVolumeGiB int    `yaml:"rootVolumeGiB"`
	RootDevice    string `yaml:"rootDevice"`
	User          string `yaml:"user"`

	// PublicKey imports an existing OpenSSH key instead of letting the
	// executor generate one. PublicKeyFile is read by LoadFile into PublicKey.
	PublicKey     string `yaml:"publicKey,omitempty"`
	PublicKeyFile string `yaml:"publicKeyFile,omitempty"`

	Ports []PortConfig `yaml:"ports"`

	// ComposeURL is where docker-compose is downloaded from during boot.
	ComposeURL string `yaml:"composeUrl"`
	// ProxyCodeDir is where the proxy code lands on the instance.
	ProxyCodeDir string `yaml:"proxyCodeDir"`
}

// PortConfig opens one port on the server's security group.
type PortConfig struct {
	Port        int    `yaml:"port"`
	Protocol    string `yaml:"protocol,omitempty"`
	CIDR        string `yaml:"cidr,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// StreamConfig describes the managed video stream.
type StreamConfig struct {
	RetentionHours int `yaml:"retentionHours"`
}

// FramesConfig describes the frames bucket and which uploads trigger
// analysis.
type FramesConfig struct {
	Suffix   string         `yaml:"suffix"`
	Defaults BucketDefaults `yaml:"defaults"`
}

// BucketDefaults is the default resource policy applied to buckets the
// stack creates.
type BucketDefaults struct {
	AutoDeleteObjects *bool  `yaml:"autoDeleteObjects,omitempty"`
	RemovalPolicy     string `yaml:"removalPolicy"`
	Versioned         bool   `yaml:"versioned,omitempty"`
}

// Removal policies.
const (
	RemovalDestroy = "destroy"
	RemovalRetain  = "retain"
)

// AutoDelete reports whether objects are emptied before the bucket is
// removed. Unset means true.
func (b BucketDefaults) AutoDelete() bool {
	return b.AutoDeleteObjects == nil || *b.AutoDeleteObjects
}

// AnalysisConfig describes the frame analysis function.
type AnalysisConfig struct {
	Enabled          *bool   `yaml:"enabled,omitempty"`
	Runtime          string  `yaml:"runtime"`
	Handler          string  `yaml:"handler"`
	CodeDir          string  `yaml:"codeDir"`
	ObjectOfInterest string  `yaml:"objectOfInterest"`
	MinConfidence    float64 `yaml:"minConfidence"`
	// ModelARN selects a custom recognition model; empty uses the stock
	// label detector.
	ModelARN       string `yaml:"modelArn,omitempty"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
}

// IsEnabled reports whether the analysis function is declared. Unset means
// true.
func (a AnalysisConfig) IsEnabled() bool {
	return a.Enabled == nil || *a.Enabled
}

// ArtifactsConfig locates the proxy code shipped to the server.
type ArtifactsConfig struct {
	// Source is a local directory or s3://bucket/prefix.
	Source string `yaml:"source"`
}

// StateConfig locates the executor's state snapshot.
type StateConfig struct {
	// Location is a file path or s3://bucket/key.
	Location string `yaml:"location"`
}
