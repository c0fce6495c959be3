package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rshade/lockgrid/internal/logging"
)

// EnvOverlay names an overlay file to use instead of searching for one.
const EnvOverlay = "LOCKGRID_OVERLAY"

// ErrNoOverlay is returned by FindOverlay when no overlay file exists in the
// directory or any of its parents.
var ErrNoOverlay = errors.New("no overlay file found")

// FindOverlay walks up from dir and returns the first OverlayFileName it
// finds.
func FindOverlay(dir string) (string, error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}

	for {
		candidate := filepath.Join(current, OverlayFileName)
		if info, statErr := os.Stat(candidate); statErr == nil && !info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", ErrNoOverlay
		}
		current = parent
	}
}

// ResolveOverlayPath returns the overlay to merge for a run started in
// startDir: the LOCKGRID_OVERLAY file when set, otherwise the nearest
// OverlayFileName found walking up. It returns "" when there is none.
func ResolveOverlayPath(ctx context.Context, startDir string) string {
	if env := os.Getenv(EnvOverlay); env != "" {
		abs, err := filepath.Abs(env)
		if err != nil {
			return env
		}
		return abs
	}

	path, err := FindOverlay(startDir)
	if err != nil {
		if !errors.Is(err, ErrNoOverlay) {
			logger := logging.FromContext(ctx)
			logger.Warn().
				Str("component", "config").
				Err(err).
				Str("start_dir", startDir).
				Msg("unexpected error during overlay discovery")
		}
		return ""
	}
	return path
}
