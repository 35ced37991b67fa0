package bootstrap

import (
	"fmt"
	"path"
)

type stepKind int

const (
	stepCommand stepKind = iota
	stepFile
	stepSourceFile
	stepDirectory
)

// Step is an author-level bootstrap instruction. One step expands to one or
// more directives during assembly.
type Step struct {
	kind    stepKind
	command string
	target  string
	content string
	source  string
}

// Command runs a shell command.
func Command(cmd string) Step {
	return Step{kind: stepCommand, command: cmd}
}

// File writes literal content to targetPath.
func File(targetPath, content string) Step {
	return Step{kind: stepFile, target: targetPath, content: content}
}

// FileFromSource writes the source object name to targetPath.
func FileFromSource(targetPath, name string) Step {
	return Step{kind: stepSourceFile, target: targetPath, source: name}
}

// Directory writes every file in the source directory dir under targetDir,
// in lexical filename order.
func Directory(targetDir, dir string) Step {
	return Step{kind: stepDirectory, target: targetDir, source: dir}
}

func (s Step) validate() error {
	switch s.kind {
	case stepCommand:
		if s.command == "" {
			return fmt.Errorf("empty shell command")
		}
	case stepFile, stepSourceFile, stepDirectory:
		if s.target == "" || !path.IsAbs(s.target) {
			return fmt.Errorf("target path %q must be absolute", s.target)
		}
		if s.kind != stepFile && s.source == "" {
			return fmt.Errorf("step for %s has no source", s.target)
		}
	}
	return nil
}

func (s Step) String() string {
	switch s.kind {
	case stepCommand:
		return "command " + s.command
	case stepFile:
		return "file " + s.target
	case stepSourceFile:
		return fmt.Sprintf("file %s from %s", s.target, s.source)
	default:
		return fmt.Sprintf("directory %s from %s", s.target, s.source)
	}
}
