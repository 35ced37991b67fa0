package security

import (
	"github.com/imamik/stackplan/internal/resource"
)

// catalog maps a resource class and access level to the actions a principal
// needs. The lists are the least privilege for the operation, not a service
// wildcard.
var catalog = map[string]map[resource.AccessLevel][]string{
	string(resource.KindBucket): {
		resource.AccessRead:  {"s3:GetObject", "s3:GetBucketLocation", "s3:ListBucket"},
		resource.AccessWrite: {"s3:PutObject", "s3:AbortMultipartUpload", "s3:DeleteObject"},
	},
	string(resource.KindManagedStream): {
		resource.AccessRead:  {"kinesisvideo:DescribeStream", "kinesisvideo:GetDataEndpoint", "kinesisvideo:GetMedia"},
		resource.AccessWrite: {"kinesisvideo:DescribeStream", "kinesisvideo:GetDataEndpoint", "kinesisvideo:PutMedia"},
	},
	string(resource.KindTopic): {
		resource.AccessPublish: {"sns:Publish"},
	},
	string(resource.KindFunction): {
		resource.AccessInvoke: {"lambda:InvokeFunction"},
	},
	"rekognition": {
		resource.AccessRead: {"rekognition:DetectLabels", "rekognition:DetectCustomLabels"},
	},
}

// actionsFor resolves the actions for class at level. readwrite is the union
// of read and write.
func actionsFor(class string, level resource.AccessLevel) ([]string, bool) {
	levels, ok := catalog[class]
	if !ok {
		return nil, false
	}
	if level == resource.AccessReadWrite {
		r, okR := levels[resource.AccessRead]
		w, okW := levels[resource.AccessWrite]
		if !okR || !okW {
			return nil, false
		}
		return append(append([]string(nil), r...), w...), true
	}
	actions, ok := levels[level]
	return actions, ok
}
