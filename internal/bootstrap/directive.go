package bootstrap

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DirectiveKind is the type of a single bootstrap step.
type DirectiveKind string

const (
	// ShellCommand runs Payload with the node's shell.
	ShellCommand DirectiveKind = "ShellCommand"
	// InlineFile writes Payload to TargetPath.
	InlineFile DirectiveKind = "InlineFile"
)

// Directive is one step of an assembled program.
type Directive struct {
	Order      int           `json:"order" yaml:"order"`
	Kind       DirectiveKind `json:"kind" yaml:"kind"`
	Payload    string        `json:"payload" yaml:"payload"`
	TargetPath string        `json:"targetPath,omitempty" yaml:"targetPath,omitempty"`
}

// Program is the complete, ordered bootstrap sequence for one node.
type Program struct {
	NodeID     string      `json:"nodeId" yaml:"nodeId"`
	Directives []Directive `json:"directives" yaml:"directives"`
}

// Len returns the number of directives.
func (p *Program) Len() int {
	return len(p.Directives)
}

// Commands returns the shell command payloads in order.
func (p *Program) Commands() []string {
	var out []string
	for _, d := range p.Directives {
		if d.Kind == ShellCommand {
			out = append(out, d.Payload)
		}
	}
	return out
}

// Files returns the inline file target paths in order.
func (p *Program) Files() []string {
	var out []string
	for _, d := range p.Directives {
		if d.Kind == InlineFile {
			out = append(out, d.TargetPath)
		}
	}
	return out
}

// Digest returns a hex sha256 over the directive sequence. Two programs with
// the same directives in the same order have the same digest.
func (p *Program) Digest() string {
	h := sha256.New()
	for _, d := range p.Directives {
		fmt.Fprintf(h, "%d\x00%s\x00%s\x00%d\x00%s\x00", d.Order, d.Kind, d.TargetPath, len(d.Payload), d.Payload)
	}
	return hex.EncodeToString(h.Sum(nil))
}
