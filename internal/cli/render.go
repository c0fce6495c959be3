package cli

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/rshade/lockgrid/internal/grid"
)

// maxRenderPasses bounds the fetch passes render makes over its window. A
// short source result can leave rows unresolved after one pass.
const maxRenderPasses = 3

// Output formats accepted by render.
const (
	outputTable  = "table"
	outputJSON   = "json"
	outputNDJSON = "ndjson"
)

// errRenderIncomplete is returned when rows are still unresolved after the
// last fetch pass.
var errRenderIncomplete = errors.New("rows still unresolved after fetching")

func newRenderCmd(opts *rootOptions) *cobra.Command {
	var (
		flags  tableFlags
		start  int
		stop   int
		output string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Load a window of rows and print it",
		Long: `Loads the rows [start, stop) through the same windowed loader the
interactive view uses and prints them once every row has resolved.`,
		Example: `  # First viewport as a table
  lockgrid render

  # Rows 99,990 to the end of a 100,000 row dataset, one JSON object per line
  lockgrid render --start 99990 --stop 100000 --output ndjson`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := flags.apply(cmd, opts.cfg); err != nil {
				return err
			}
			if !cmd.Flags().Changed("stop") {
				stop = start + opts.cfg.Table.ViewportHeight
			}
			if !slices.Contains([]string{outputTable, outputJSON, outputNDJSON}, output) {
				return fmt.Errorf("unsupported output format: %s", output)
			}
			return runRender(cmd, opts, start, stop, output)
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&start, "start", 0, "first row to print")
	cmd.Flags().IntVar(&stop, "stop", 0, "row after the last one to print (default start + viewport height)")
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table, json or ndjson")

	return cmd
}

func runRender(cmd *cobra.Command, opts *rootOptions, start, stop int, output string) error {
	ctx := cmd.Context()
	coord, err := newCoordinator(ctx, opts.cfg)
	if err != nil {
		return err
	}
	defer coord.Cancel()

	window := grid.Range{Start: start, Stop: min(stop, coord.RowCount())}
	if err = coord.Store().CheckRange(window); err != nil {
		return fmt.Errorf("window %s: %w", window, err)
	}

	if err = loadWindow(cmd, coord, window); err != nil {
		return err
	}

	rows, err := snapshot(coord, window)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	switch output {
	case outputJSON:
		return renderJSON(w, coord, window, rows)
	case outputNDJSON:
		return renderNDJSON(w, rows)
	default:
		return renderTable(w, coord, rows)
	}
}

// loadWindow drives the coordinator the way the interactive view does:
// report the window, wait for the fetch and settle it on this goroutine.
func loadWindow(cmd *cobra.Command, coord *grid.PaneCoordinator, window grid.Range) error {
	ctx := cmd.Context()
	for pass := range maxRenderPasses {
		pending, err := coord.OnItemsRendered(ctx, coord.Authority(), window)
		if err != nil {
			return err
		}
		if pending == nil {
			return nil
		}

		logger.Debug().Ctx(ctx).
			Int("pass", pass).
			Stringer("range", pending.Request().Range).
			Uint64("generation", pending.Request().Generation).
			Msg("waiting for fetch")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-pending.Done():
		}
		if err = coord.Settle(pending.Wait()); err != nil {
			return err
		}
	}

	n, err := coord.Store().Unresolved(window)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: %d of %d", errRenderIncomplete, n, window.Len())
	}
	return nil
}
