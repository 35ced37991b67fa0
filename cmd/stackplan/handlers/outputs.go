package handlers

import (
	"context"
	"fmt"
	"os"
	"sort"

	"sigs.k8s.io/yaml"

	"github.com/imamik/stackplan/internal/config"
	"github.com/imamik/stackplan/internal/plan"
	"github.com/imamik/stackplan/internal/resource"
)

// OutputsOptions are the inputs of the outputs command.
type OutputsOptions struct {
	PlanPath    string
	ResultsPath string // executor results: node id -> attribute -> value
	StatePath   string // when set, results are recorded in this state
	Stack       string // stack name stored with a new state
}

// Outputs resolves a plan's output bindings from executor results and
// prints them. With a state location the results are merged into the
// snapshot so the next plan sees the resources as existing.
func Outputs(ctx context.Context, opts OutputsOptions) error {
	p, err := plan.LoadFile(opts.PlanPath)
	if err != nil {
		return err
	}

	var results map[string]map[string]string
	if opts.ResultsPath != "" {
		results, err = loadResults(opts.ResultsPath)
		if err != nil {
			return err
		}
	}
	kinds := make(map[string]resource.Kind, len(p.Operations))
	for _, op := range p.Operations {
		kinds[op.NodeID] = op.Kind
	}
	for id := range results {
		if _, ok := kinds[id]; !ok {
			return fmt.Errorf("results reference %s, which is not in plan %s", id, p.ID)
		}
	}

	stack := opts.Stack
	if stack == "" {
		stack = p.Stack
	}
	if p.Stack != "" && stack != p.Stack {
		return fmt.Errorf("plan %s is for stack %q, not %q", p.ID, p.Stack, stack)
	}

	pending := p.Resolve(results)

	if opts.StatePath != "" && len(results) > 0 {
		if err := recordResults(ctx, opts.StatePath, stack, kinds, results); err != nil {
			return err
		}
	}

	for _, o := range p.Outputs {
		fmt.Printf("%s = %s\n", o.Name, outputValue(o, false))
	}
	if pending > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d outputs are still pending\n", pending, len(p.Outputs))
	}
	return nil
}

func loadResults(path string) (map[string]map[string]string, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read results file: %w", err)
	}
	var results map[string]map[string]string
	if err := yaml.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("failed to parse results file: %w", err)
	}
	return results, nil
}

// recordResults merges results into the state at location. Nothing is saved
// when the state belongs to another stack or a result conflicts with a
// recorded kind.
func recordResults(ctx context.Context, location, stack string, kinds map[string]resource.Kind, results map[string]map[string]string) error {
	s := &stores{region: config.DefaultRegion}
	backend, err := s.openBackend(ctx, location)
	if err != nil {
		return err
	}
	snapshot, err := backend.Load(ctx)
	if err != nil {
		return err
	}
	if err := snapshot.CheckStack(stack); err != nil {
		return err
	}
	if snapshot.Stack == "" {
		snapshot.Stack = stack
	}

	ids := make([]string, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if err := snapshot.Record(id, kinds[id], results[id]); err != nil {
			return fmt.Errorf("failed to record results: %w", err)
		}
	}
	return backend.Save(ctx, snapshot)
}
