package bootstrap

import (
	"context"
	"fmt"
	"path"

	"github.com/go-logr/logr"

	"github.com/imamik/stackplan/internal/resource"
)

// Assembler expands bootstrap steps into a Program. It reads each source
// file exactly once.
type Assembler struct {
	source Source
}

// NewAssembler returns an assembler reading file content from src. src may
// be nil when no step needs a source.
func NewAssembler(src Source) *Assembler {
	return &Assembler{source: src}
}

// Assemble builds the program for node, which must be a compute instance.
// The only runtime failure is a missing or unreadable source file.
func (a *Assembler) Assemble(ctx context.Context, node resource.Node, steps []Step) (*Program, error) {
	if node.Kind != resource.KindComputeInstance {
		return nil, fmt.Errorf("bootstrap program requested for %s: only %s nodes boot",
			node, resource.KindComputeInstance)
	}
	log := logr.FromContextOrDiscard(ctx).WithValues("node", node.ID)

	p := &Program{NodeID: node.ID}
	add := func(kind DirectiveKind, payload, target string) {
		p.Directives = append(p.Directives, Directive{
			Order:      len(p.Directives),
			Kind:       kind,
			Payload:    payload,
			TargetPath: target,
		})
	}

	for i, s := range steps {
		if err := s.validate(); err != nil {
			return nil, fmt.Errorf("node %s step %d: %w", node.ID, i, err)
		}
		switch s.kind {
		case stepCommand:
			add(ShellCommand, s.command, "")
		case stepFile:
			add(InlineFile, s.content, s.target)
		case stepSourceFile:
			data, err := a.read(ctx, s.source)
			if err != nil {
				return nil, err
			}
			add(InlineFile, string(data), s.target)
		case stepDirectory:
			names, err := a.list(ctx, s.source)
			if err != nil {
				return nil, err
			}
			for _, name := range sortedNames(names) {
				data, err := a.read(ctx, name)
				if err != nil {
					return nil, err
				}
				add(InlineFile, string(data), path.Join(s.target, path.Base(name)))
			}
			log.V(1).Info("expanded bootstrap directory", "source", s.source, "files", len(names))
		}
	}

	log.V(1).Info("assembled bootstrap program", "directives", p.Len(), "digest", p.Digest())
	return p, nil
}

func (a *Assembler) read(ctx context.Context, name string) ([]byte, error) {
	if a.source == nil {
		return nil, &SourceFileError{Name: name, Err: fmt.Errorf("no bootstrap source configured")}
	}
	data, err := a.source.Read(ctx, name)
	if err != nil {
		return nil, &SourceFileError{Name: name, Err: err}
	}
	return data, nil
}

func (a *Assembler) list(ctx context.Context, dir string) ([]string, error) {
	if a.source == nil {
		return nil, &SourceFileError{Name: dir, Err: fmt.Errorf("no bootstrap source configured")}
	}
	names, err := a.source.List(ctx, dir)
	if err != nil {
		return nil, &SourceFileError{Name: dir, Err: err}
	}
	return names, nil
}
