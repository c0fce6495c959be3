// Package cli implements the lockgrid command line: the interactive view, the
// non-interactive render command and configuration management.
package cli

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/lockgrid/internal/config"
	"github.com/rshade/lockgrid/internal/logging"
)

// Command annotations read by the root pre-run hook.
const (
	annotationInteractive = "lockgrid/interactive"
	annotationSkipConfig  = "lockgrid/skip-config"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger = zerolog.Nop() //nolint:gochecknoglobals // Required for zerolog context integration

// rootOptions is the state shared by the root command and its subcommands.
type rootOptions struct {
	configPath string
	debug      bool

	cfg       *config.Config
	logResult *logging.LogPathResult
}

// NewRootCmd creates the root Cobra command for the lockgrid CLI.
func NewRootCmd(ver string) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "lockgrid",
		Short:         "Browse very large tables in the terminal",
		Long:          "lockgrid renders a windowed table with pinned columns and loads rows on demand as you scroll.",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.preRun(cmd)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return opts.logResult.Close()
		},
	}

	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "",
		"config file (default ~/.lockgrid/config.yaml; .toml files are read as TOML)")
	cmd.AddCommand(newViewCmd(opts), newRenderCmd(opts), newConfigCmd(opts))

	return cmd
}

const rootCmdExample = `  # Browse 100,000 synthetic rows
  lockgrid view

  # Browse a million rows with slow fetches that sometimes fail
  lockgrid view --rows 1000000 --latency 1s --fail-every 5

  # Print rows 500 to 520 as JSON
  lockgrid render --start 500 --stop 520 --output json

  # Write the default configuration
  lockgrid config init`

// preRun loads the configuration and sets up logging for cmd.
func (o *rootOptions) preRun(cmd *cobra.Command) error {
	if cmd.Annotations[annotationSkipConfig] == "" {
		path, err := o.resolveConfigPath()
		if err != nil {
			return err
		}
		cfg, err := config.Load(path, o.resolveOverlayPath(cmd))
		if err != nil {
			return err
		}
		o.cfg = cfg
	} else {
		o.cfg = config.New()
	}

	result := setupLogging(cmd, o, cmd.Annotations[annotationInteractive] != "")
	o.logResult = &result
	return nil
}

// resolveOverlayPath finds the project overlay for the working directory.
func (o *rootOptions) resolveOverlayPath(cmd *cobra.Command) string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return config.ResolveOverlayPath(cmd.Context(), wd)
}

// resolveConfigPath returns the --config value or the default path.
func (o *rootOptions) resolveConfigPath() (string, error) {
	if o.configPath != "" {
		return filepath.Clean(o.configPath), nil
	}
	return config.DefaultPath()
}
