package state

import (
	"fmt"

	"github.com/imamik/stackplan/internal/resource"
)

// Record is what the executor knows about one provisioned resource.
type Record struct {
	Kind       resource.Kind     `json:"kind" yaml:"kind"`
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// Snapshot maps resource ids to their last-known record.
type Snapshot struct {
	Stack     string            `json:"stack,omitempty" yaml:"stack,omitempty"`
	Resources map[string]Record `json:"resources" yaml:"resources"`
}

// New returns an empty snapshot for stack.
func New(stack string) *Snapshot {
	return &Snapshot{Stack: stack, Resources: map[string]Record{}}
}

// Lookup returns the record for id. A nil snapshot knows no resources.
func (s *Snapshot) Lookup(id string) (Record, bool) {
	if s == nil {
		return Record{}, false
	}
	r, ok := s.Resources[id]
	return r, ok
}

// Attribute returns a resolved attribute value for id.
func (s *Snapshot) Attribute(id, attr string) (string, bool) {
	r, ok := s.Lookup(id)
	if !ok {
		return "", false
	}
	v, ok := r.Attributes[attr]
	return v, ok
}

// KindConflictError is returned when results for a known resource report a
// different kind than the one recorded.
type KindConflictError struct {
	ID       string
	Recorded resource.Kind
	Reported resource.Kind
}

func (e *KindConflictError) Error() string {
	return fmt.Sprintf("resource %s is recorded as %s, results report %s", e.ID, e.Recorded, e.Reported)
}

// Record stores or merges the executor-reported attributes for id. Existing
// attributes not present in attrs are kept. A record of another kind is
// never replaced; the snapshot is left unchanged and a *KindConflictError
// returned.
func (s *Snapshot) Record(id string, kind resource.Kind, attrs map[string]string) error {
	r, ok := s.Resources[id]
	if ok && r.Kind != kind {
		return &KindConflictError{ID: id, Recorded: r.Kind, Reported: kind}
	}
	if s.Resources == nil {
		s.Resources = map[string]Record{}
	}
	r.Kind = kind
	if r.Attributes == nil {
		r.Attributes = map[string]string{}
	}
	for k, v := range attrs {
		r.Attributes[k] = v
	}
	s.Resources[id] = r
	return nil
}

// CheckStack rejects a snapshot recorded for a stack other than stack. A
// snapshot without a stack belongs to any.
func (s *Snapshot) CheckStack(stack string) error {
	if s == nil || s.Stack == "" || stack == "" || s.Stack == stack {
		return nil
	}
	return fmt.Errorf("state belongs to stack %q, not %q", s.Stack, stack)
}

// Len returns the number of known resources.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Resources)
}
