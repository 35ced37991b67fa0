package provisioning

import (
	"fmt"
	"time"
)

// RunPhases executes all phases sequentially and stops at the first error.
func RunPhases(ctx *Context, phases []Phase) error {
	start := time.Now()
	ctx.Observer.Printf("Starting pipeline with %d phases...", len(phases))

	for i, phase := range phases {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%s phase not started: %w", phase.Name(), err)
		}

		phaseStart := time.Now()
		observer := ctx.Observer.WithFields(map[string]string{
			"step": fmt.Sprintf("%d/%d", i+1, len(phases)),
		})
		LogPhaseStart(observer, phase.Name())

		if err := phase.Provision(ctx); err != nil {
			LogPhaseFailed(observer, phase.Name(), err)
			return fmt.Errorf("%s phase failed: %w", phase.Name(), err)
		}

		LogPhaseComplete(observer, phase.Name(), time.Since(phaseStart))
		ctx.Observer.Progress("pipeline", i+1, len(phases))
	}

	ctx.Observer.Printf("Pipeline completed in %v", time.Since(start).Round(time.Millisecond))
	return nil
}

// PhaseFunc adapts a function to the Phase interface.
type PhaseFunc struct {
	PhaseName string
	Fn        func(*Context) error
}

// Name implements Phase.
func (p PhaseFunc) Name() string { return p.PhaseName }

// Provision implements Phase.
func (p PhaseFunc) Provision(ctx *Context) error { return p.Fn(ctx) }
