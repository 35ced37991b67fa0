package handlers

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/imamik/stackplan/internal/orchestration"
	"github.com/imamik/stackplan/internal/plan"
	"github.com/imamik/stackplan/internal/state"
	"github.com/imamik/stackplan/internal/topology"
	"github.com/imamik/stackplan/internal/util/async"
)

// PlanOptions are the inputs of the plan command.
type PlanOptions struct {
	ConfigPath  string
	StatePath   string // overrides state.location from the config
	OutputPath  string // "" or "-" writes to stdout
	Format      string
	MetricsFile string
}

// Plan computes the provisioning plan for a configuration.
//
// This function:
//  1. Loads and validates the configuration
//  2. Loads the state snapshot and checks the artifact source in parallel
//  3. Runs the planning pipeline
//  4. Writes the encoded plan, an optional metrics textfile and a summary
func Plan(ctx context.Context, opts PlanOptions) error {
	format, err := plan.ParseFormat(opts.Format)
	if err != nil {
		return err
	}

	cfg, err := loadConfigFile(configPathOrDefault(opts.ConfigPath))
	if err != nil {
		return err
	}

	location := opts.StatePath
	if location == "" {
		location = cfg.State.Location
	}

	s := &stores{region: cfg.Region}
	backend, err := s.openBackend(ctx, location)
	if err != nil {
		return err
	}
	source, err := s.openSource(ctx, cfg.Artifacts.Source)
	if err != nil {
		return err
	}

	var snapshot *state.Snapshot
	err = async.RunParallel(ctx, []async.Task{
		{Name: "load state", Func: func(ctx context.Context) error {
			var err error
			snapshot, err = backend.Load(ctx)
			return err
		}},
		{Name: "list artifacts", Func: func(ctx context.Context) error {
			_, err := source.List(ctx, topology.ProxyCodeSourceDir)
			return err
		}},
	})
	if err != nil {
		return err
	}
	if err := snapshot.CheckStack(cfg.Stack); err != nil {
		return err
	}

	var plannerOpts []orchestration.Option
	var metrics *plan.Metrics
	if opts.MetricsFile != "" {
		metrics = plan.NewMetrics()
		plannerOpts = append(plannerOpts, orchestration.WithMetrics(metrics))
	}

	res, err := newPlanner(cfg, source, snapshot, plannerOpts...).Plan(ctx)
	if err != nil {
		return err
	}

	data, err := plan.Encode(res.Plan, format)
	if err != nil {
		return err
	}
	if err := writeOutput(opts.OutputPath, data); err != nil {
		return err
	}
	if metrics != nil {
		if err := metrics.WriteTextfile(opts.MetricsFile); err != nil {
			return err
		}
	}

	printPlanSummary(summaryWriter(opts.OutputPath), cfg.Stack, res.Plan)
	return nil
}

// summaryWriter keeps stdout free for the plan when the plan goes there.
func summaryWriter(outputPath string) io.Writer {
	if outputPath == "" || outputPath == "-" {
		return os.Stderr
	}
	return os.Stdout
}

func printPlanSummary(w io.Writer, stack string, p *plan.Plan) {
	if isInteractive() {
		fmt.Fprint(w, renderPlanSummary(stack, p))
		return
	}
	fmt.Fprint(w, plainPlanSummary(stack, p))
}
