package naming

import (
	"fmt"
	"strings"
)

// MaxBucketName is the longest bucket name object stores accept.
const MaxBucketName = 63

func Network(stack string) string {
	return fmt.Sprintf("%s-vpc", stack)
}

func PublicSubnet(stack string) string {
	return fmt.Sprintf("%s-public", stack)
}

func SecurityGroup(stack string) string {
	return fmt.Sprintf("%s-stream-server-sg", stack)
}

func StreamServer(stack string) string {
	return fmt.Sprintf("%s-stream-server", stack)
}

func KeyPair(stack string) string {
	return fmt.Sprintf("%s-rtsp-server-keypair", stack)
}

func StaticAddress(stack string) string {
	return fmt.Sprintf("%s-stream-server-ip", stack)
}

func VideoStream(stack string) string {
	return fmt.Sprintf("%s-video-stream", stack)
}

func Topic(stack string) string {
	return fmt.Sprintf("%s-frame-alerts", stack)
}

func Function(stack string) string {
	return fmt.Sprintf("%s-frame-analysis", stack)
}

// Role names the identity a principal assumes.
func Role(stack, principal string) string {
	return fmt.Sprintf("%s-%s-role", stack, principal)
}

// Bucket returns a lowercase bucket name, truncated to MaxBucketName
// without a trailing dash.
func Bucket(stack, purpose string) string {
	name := strings.ToLower(fmt.Sprintf("%s-%s", stack, purpose))
	if len(name) > MaxBucketName {
		name = strings.TrimRight(name[:MaxBucketName], "-")
	}
	return name
}

// StateKey is the default object key of a stack's state snapshot.
func StateKey(stack string) string {
	return fmt.Sprintf("%s/state.yaml", stack)
}
