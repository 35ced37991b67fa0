package topology

// Node ids of the stream stack.
const (
	FramesBucket       = "frames-bucket"
	VideoStream        = "video-stream"
	Network            = "network"
	PublicSubnet       = "public-subnet"
	StaticAddress      = "static-address"
	KeyPair            = "ssh-keypair"
	SecurityGroup      = "security-group"
	RootVolume         = "root-volume"
	StreamServer       = "stream-server"
	AddressAssociation = "static-address-association"
	AlertTopic         = "alert-topic"
	AnalysisFunction   = "frame-analysis"
	FramesTrigger      = "frames-trigger"
	OutputPublicIP     = "output-public-ip"
	OutputStreamName   = "output-stream-name"
)

// Output names as the executor publishes them.
const (
	OutputNamePublicIP   = "stream-server-public-ip"
	OutputNameStreamName = "stream-name"
)
