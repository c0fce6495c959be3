package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/lockgrid/internal/config"
	"github.com/rshade/lockgrid/internal/grid"
	"github.com/rshade/lockgrid/internal/logging"
	"github.com/rshade/lockgrid/internal/source"
)

// tableFlags are the dataset and loader flags shared by view and render.
type tableFlags struct {
	rows      int
	latency   string
	overscan  int
	policy    string
	failEvery int
	retries   int
}

func (f *tableFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.rows, "rows", config.DefaultRows, "number of rows in the dataset")
	cmd.Flags().StringVar(&f.latency, "latency", config.DefaultLatency.String(), "simulated fetch latency")
	cmd.Flags().IntVar(&f.overscan, "overscan", config.DefaultOverscan, "rows rendered beyond each viewport edge")
	cmd.Flags().StringVar(&f.policy, "policy", config.DefaultPolicy,
		"fetch bounds: window (whole rendered window) or unresolved (unresolved span only)")
	cmd.Flags().IntVar(&f.failEvery, "fail-every", 0, "fail the first of every n fetches (0 disables)")
	cmd.Flags().IntVar(&f.retries, "retries", 0, "retry a failed fetch this many times")
}

// apply copies explicitly set flags onto cfg and revalidates it. Flags
// override both the config file and the environment.
func (f *tableFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("rows") {
		cfg.Table.Rows = f.rows
	}
	if flags.Changed("latency") {
		d, err := parseDuration("latency", f.latency)
		if err != nil {
			return err
		}
		cfg.Fetch.Latency = d
	}
	if flags.Changed("overscan") {
		cfg.Table.Overscan = f.overscan
	}
	if flags.Changed("policy") {
		cfg.Fetch.Policy = f.policy
	}
	if flags.Changed("fail-every") {
		cfg.Fetch.FailEvery = f.failEvery
	}
	if flags.Changed("retries") {
		cfg.Fetch.Retries = f.retries
	}
	return cfg.Validate()
}

func parseDuration(flag, v string) (time.Duration, error) {
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid --%s %q: %w", flag, v, err)
	}
	return d, nil
}

// newCoordinator builds the synthetic data source and the pane coordinator
// described by cfg.
func newCoordinator(ctx context.Context, cfg *config.Config) (*grid.PaneCoordinator, error) {
	log := logging.FromContext(ctx)

	srcOpts := []source.Option{
		source.WithLatency(cfg.Fetch.Latency),
		source.WithLogger(logging.ComponentLogger(log, "source")),
	}
	if cfg.Fetch.Seed != 0 {
		srcOpts = append(srcOpts, source.WithSeed(cfg.Fetch.Seed))
	}

	var ds grid.DataSource = source.NewSynthetic(srcOpts...)
	if cfg.Fetch.FailEvery > 0 {
		ds = source.NewFlaky(ds, cfg.Fetch.FailEvery)
	}

	schedOpts := []grid.SchedulerOption{}
	if cfg.Fetch.Timeout > 0 {
		schedOpts = append(schedOpts, grid.WithTimeout(cfg.Fetch.Timeout))
	}
	if cfg.Fetch.Retries > 0 {
		schedOpts = append(schedOpts, grid.WithRetry(cfg.Fetch.Retries+1, cfg.Fetch.RetryBackoff))
	}

	coord, err := grid.NewPaneCoordinator(source.Columns(), cfg.Table.Rows, ds,
		grid.WithFetchPolicy(cfg.FetchPolicy()),
		grid.WithSchedulerOptions(schedOpts...),
		grid.WithCoordinatorLogger(logging.ComponentLogger(log, "grid")),
	)
	if err != nil {
		return nil, fmt.Errorf("building table: %w", err)
	}
	return coord, nil
}
