package cli

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/lockgrid/internal/tui"
)

// errNotTerminal is returned when view runs without a terminal on stdout.
var errNotTerminal = errors.New("view needs an interactive terminal; use 'lockgrid render' for piped output")

func newViewCmd(opts *rootOptions) *cobra.Command {
	var flags tableFlags

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Browse the table interactively",
		Long: `Opens the three-pane table in the terminal. Rows load in the background as
the viewport moves; rows still loading show a placeholder.

Keys: ↑/↓ or j/k move, pgup/pgdn page, g/G jump to the ends, ←/→ scroll the
center pane, r reloads the dataset, ? toggles help, q quits.`,
		Annotations: map[string]string{annotationInteractive: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := flags.apply(cmd, opts.cfg); err != nil {
				return err
			}
			if !isTerminal(os.Stdout) {
				return errNotTerminal
			}
			return runView(cmd, opts)
		},
	}
	flags.register(cmd)

	return cmd
}

func runView(cmd *cobra.Command, opts *rootOptions) error {
	ctx := cmd.Context()
	coord, err := newCoordinator(ctx, opts.cfg)
	if err != nil {
		return err
	}
	defer coord.Cancel()

	model := tui.NewTableModel(ctx, coord, tui.TableOptions{
		ViewportHeight: opts.cfg.Table.ViewportHeight,
		Overscan:       opts.cfg.Table.Overscan,
	})

	logger.Info().Ctx(ctx).
		Int("rows", coord.RowCount()).
		Str("policy", coord.Policy().String()).
		Msg("starting interactive view")

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err = p.Run(); err != nil {
		return fmt.Errorf("running view: %w", err)
	}

	stats := coord.Stats()
	logger.Info().Ctx(ctx).
		Int("submitted", stats.Submitted).
		Int("applied", stats.Applied).
		Int("cancelled", stats.Cancelled).
		Int("failed", stats.Failed).
		Int("discarded", stats.Discarded).
		Msg("view closed")

	return model.Err()
}
