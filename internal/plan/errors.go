package plan

import (
	"fmt"

	"github.com/imamik/stackplan/internal/resource"
)

// InvalidGraphError is returned when the graph has not been finalized or
// finalization failed.
type InvalidGraphError struct {
	Reason string
	Err    error
}

func (e *InvalidGraphError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid graph: %s: %v", e.Reason, e.Err)
	}
	return "invalid graph: " + e.Reason
}

func (e *InvalidGraphError) Unwrap() error {
	return e.Err
}

// ResourceKindConflictError is returned when a declared node reuses the id of
// a known resource of another kind.
type ResourceKindConflictError struct {
	NodeID   string
	Declared resource.Kind
	Existing resource.Kind
}

func (e *ResourceKindConflictError) Error() string {
	return fmt.Sprintf("resource %s is declared as %s but already exists as %s", e.NodeID, e.Declared, e.Existing)
}
