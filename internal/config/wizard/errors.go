package wizard

import "errors"

// Validation errors for the interactive wizard.
var (
	errCIDRRequired     = errors.New("CIDR is required")
	errCIDRInvalid      = errors.New("invalid CIDR format (expected: x.x.x.x/xx)")
	errPortsRequired    = errors.New("select at least one port")
	errSourceRequired   = errors.New("a directory or s3://bucket/prefix is required")
	errLocationRequired = errors.New("a file path or s3://bucket/key is required")
	errS3Bucket         = errors.New("s3 location needs a bucket (s3://bucket/...)")
	errS3Key            = errors.New("s3 state location needs a key (s3://bucket/key)")
	errObjectRequired   = errors.New("object of interest is required")
)
