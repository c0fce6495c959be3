// Package config loads lockgrid settings from a YAML or TOML file, applies a
// project-local overlay and LOCKGRID_* environment overrides, and validates
// the result.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/rshade/lockgrid/internal/grid"
)

// Defaults.
const (
	DefaultRows           = 100000
	DefaultViewportHeight = 12
	DefaultOverscan       = 12
	DefaultLatency        = 250 * time.Millisecond
	DefaultRetryBackoff   = 200 * time.Millisecond
	DefaultPolicy         = "window"

	// DirName is the per-user config directory under $HOME.
	DirName = ".lockgrid"
	// FileName is the default config file name.
	FileName = "config.yaml"
	// OverlayFileName is the project-local overlay looked up in the working directory.
	OverlayFileName = ".lockgrid.yaml"
)

// Environment variables that override file settings.
const (
	EnvRows      = "LOCKGRID_ROWS"
	EnvLatency   = "LOCKGRID_LATENCY"
	EnvPolicy    = "LOCKGRID_POLICY"
	EnvLogLevel  = "LOCKGRID_LOG_LEVEL"
	EnvLogFile   = "LOCKGRID_LOG_FILE"
	EnvConfigDir = "LOCKGRID_CONFIG_DIR"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the full lockgrid configuration.
type Config struct {
	Table   TableConfig   `yaml:"table"   toml:"table"`
	Fetch   FetchConfig   `yaml:"fetch"   toml:"fetch"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// TableConfig sizes the dataset and the viewport.
type TableConfig struct {
	Rows           int `yaml:"rows"            toml:"rows"`
	ViewportHeight int `yaml:"viewport_height" toml:"viewport_height"`
	Overscan       int `yaml:"overscan"        toml:"overscan"`
}

// FetchConfig controls the loader and the synthetic source.
type FetchConfig struct {
	Latency      time.Duration `yaml:"latency"       toml:"latency"`
	Timeout      time.Duration `yaml:"timeout"       toml:"timeout"`
	Retries      int           `yaml:"retries"       toml:"retries"`
	RetryBackoff time.Duration `yaml:"retry_backoff" toml:"retry_backoff"`
	Policy       string        `yaml:"policy"        toml:"policy"`
	FailEvery    int           `yaml:"fail_every"    toml:"fail_every"`
	Seed         uint64        `yaml:"seed"          toml:"seed"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		Table: TableConfig{
			Rows:           DefaultRows,
			ViewportHeight: DefaultViewportHeight,
			Overscan:       DefaultOverscan,
		},
		Fetch: FetchConfig{
			Latency:      DefaultLatency,
			RetryBackoff: DefaultRetryBackoff,
			Policy:       DefaultPolicy,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Dir returns the user config directory, honouring LOCKGRID_CONFIG_DIR.
func Dir() (string, error) {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return filepath.Join(home, DirName), nil
}

// DefaultPath returns the default config file path.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load builds a Config from defaults, the file at path (a missing file is not
// an error), the overlay at overlayPath (if non-empty and present) and the
// environment, then validates it.
func Load(path, overlayPath string) (*Config, error) {
	cfg := New()

	if path != "" {
		if err := decodeFile(cfg, path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	if overlayPath != "" {
		if _, err := os.Stat(overlayPath); err == nil {
			if mergeErr := MergeOverlayYAML(cfg, overlayPath); mergeErr != nil {
				return nil, mergeErr
			}
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decodeFile decodes path onto cfg, choosing TOML for .toml files and YAML
// otherwise.
func decodeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err = toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("parsing TOML config %s: %w", path, err)
		}
		return nil
	}

	if err = yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing YAML config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv applies LOCKGRID_* overrides read through lookupEnv.
func (c *Config) ApplyEnv(lookupEnv func(string) (string, bool)) error {
	if v, ok := lookupEnv(EnvRows); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %w", ErrInvalidConfig, EnvRows, v, err)
		}
		c.Table.Rows = n
	}
	if v, ok := lookupEnv(EnvLatency); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %w", ErrInvalidConfig, EnvLatency, v, err)
		}
		c.Fetch.Latency = d
	}
	if v, ok := lookupEnv(EnvPolicy); ok {
		c.Fetch.Policy = v
	}
	if v, ok := lookupEnv(EnvLogLevel); ok {
		c.Logging.Level = v
	}
	if v, ok := lookupEnv(EnvLogFile); ok {
		c.Logging.File = v
	}
	return nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	if c.Table.Rows < 0 {
		errs = append(errs, fmt.Errorf("table.rows must be >= 0, got %d", c.Table.Rows))
	}
	if c.Table.ViewportHeight < 1 {
		errs = append(errs, fmt.Errorf("table.viewport_height must be >= 1, got %d", c.Table.ViewportHeight))
	}
	if c.Table.Overscan < 0 {
		errs = append(errs, fmt.Errorf("table.overscan must be >= 0, got %d", c.Table.Overscan))
	}
	if c.Fetch.Latency < 0 || c.Fetch.Timeout < 0 || c.Fetch.RetryBackoff < 0 {
		errs = append(errs, errors.New("fetch durations must be >= 0"))
	}
	if c.Fetch.Retries < 0 {
		errs = append(errs, fmt.Errorf("fetch.retries must be >= 0, got %d", c.Fetch.Retries))
	}
	if _, err := grid.ParseFetchPolicy(c.Fetch.Policy); err != nil {
		errs = append(errs, err)
	}
	if c.Logging.Format != "" && c.Logging.Format != "console" && c.Logging.Format != "json" {
		errs = append(errs, fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// FetchPolicy returns the parsed fetch policy. Call Validate first.
func (c *Config) FetchPolicy() grid.FetchPolicy {
	p, _ := grid.ParseFetchPolicy(c.Fetch.Policy)
	return p
}

// Save writes c as YAML to path, creating the parent directory.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err = os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err = os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}
