package config

import (
	"path/filepath"

	"github.com/rshade/lockgrid/internal/logging"
)

// LoggingConfig is the logging section of the config file.
type LoggingConfig struct {
	Level  string `yaml:"level"          toml:"level"`
	Format string `yaml:"format"         toml:"format"`
	File   string `yaml:"file,omitempty" toml:"file"`
}

// DefaultLogFile returns the log file used by the interactive view when none
// is configured.
func DefaultLogFile() string {
	dir, err := Dir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "logs", "lockgrid.log")
}

// ToLoggingConfig converts the file settings to a logging.Config. Logs go to
// File when set and to stderr otherwise.
func (lc *LoggingConfig) ToLoggingConfig() logging.Config {
	output := logging.OutputStderr
	if lc.File != "" {
		output = logging.OutputFile
	}
	return logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		Output: output,
		File:   lc.File,
	}
}

// ToInteractiveLoggingConfig is like ToLoggingConfig but never writes to the
// terminal: without a file, logs are discarded.
func (lc *LoggingConfig) ToInteractiveLoggingConfig() logging.Config {
	cfg := lc.ToLoggingConfig()
	if cfg.Output == logging.OutputStderr {
		cfg.Output = logging.OutputDiscard
	}
	return cfg
}
