package bootstrap

import (
	"context"
	"fmt"
)

// Runner carries out single directives on a node.
type Runner interface {
	Run(ctx context.Context, command string) error
	WriteFile(ctx context.Context, path string, data []byte) error
}

// DirectiveError reports the directive that stopped a program.
type DirectiveError struct {
	Directive Directive
	Err       error
}

func (e *DirectiveError) Error() string {
	if e.Directive.Kind == InlineFile {
		return fmt.Sprintf("directive %d (write %s) failed: %v", e.Directive.Order, e.Directive.TargetPath, e.Err)
	}
	return fmt.Sprintf("directive %d (%q) failed: %v", e.Directive.Order, e.Directive.Payload, e.Err)
}

func (e *DirectiveError) Unwrap() error {
	return e.Err
}

// RunReport lists which directives ran.
type RunReport struct {
	Executed []int
	Skipped  []int
}

// Run executes the program in order and stops at the first failure. The
// returned report is valid even when err is non-nil.
func (p *Program) Run(ctx context.Context, r Runner) (RunReport, error) {
	var report RunReport
	for i, d := range p.Directives {
		if err := ctx.Err(); err != nil {
			report.Skipped = orders(p.Directives[i:])
			return report, err
		}

		var err error
		switch d.Kind {
		case ShellCommand:
			err = r.Run(ctx, d.Payload)
		case InlineFile:
			err = r.WriteFile(ctx, d.TargetPath, []byte(d.Payload))
		default:
			err = fmt.Errorf("unknown directive kind %q", d.Kind)
		}
		report.Executed = append(report.Executed, d.Order)
		if err != nil {
			report.Skipped = orders(p.Directives[i+1:])
			return report, &DirectiveError{Directive: d, Err: err}
		}
	}
	return report, nil
}

func orders(ds []Directive) []int {
	out := make([]int, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.Order)
	}
	return out
}
