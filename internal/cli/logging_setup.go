package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/lockgrid/internal/config"
	"github.com/rshade/lockgrid/internal/logging"
)

// setupLogging configures logging from the loaded config and the --debug
// flag, and stores the logger and a fresh trace id in the command context.
// Interactive commands never log to the terminal.
func setupLogging(cmd *cobra.Command, opts *rootOptions, interactive bool) logging.LogPathResult {
	loggingCfg := opts.cfg.Logging
	if opts.debug {
		loggingCfg.Level = "debug"
	}

	var cfg logging.Config
	if interactive {
		if loggingCfg.File == "" && opts.debug {
			loggingCfg.File = config.DefaultLogFile()
		}
		cfg = loggingCfg.ToInteractiveLoggingConfig()
	} else {
		cfg = loggingCfg.ToLoggingConfig()
	}
	cfg.Caller = opts.debug

	result := logging.NewLoggerWithPath(cfg)
	if interactive && result.FallbackUsed {
		result.Logger = zerolog.Nop()
	}
	logger = logging.ComponentLogger(result.Logger, "cli")

	if result.FallbackUsed && !interactive {
		logging.PrintFallbackWarning(cmd.ErrOrStderr(), result.FallbackReason)
	}

	ctx := cmd.Context()
	ctx = logging.ContextWithTraceID(ctx, logging.GetOrGenerateTraceID(ctx))
	ctx = result.Logger.WithContext(ctx)
	cmd.SetContext(ctx)

	cmdLogger := logging.FromContext(ctx)
	cmdLogger.Debug().
		Str("command", cmd.Name()).
		Str("log_file", result.FilePath).
		Msg("command started")

	return result
}
