package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/lockgrid/internal/config"
)

func TestFindOverlay_WalksUp(t *testing.T) {
	root := t.TempDir()
	overlay := filepath.Join(root, config.OverlayFileName)
	require.NoError(t, os.WriteFile(overlay, []byte("table:\n  rows: 5\n"), 0o600))

	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	got, err := config.FindOverlay(nested)
	require.NoError(t, err)
	assert.Equal(t, overlay, got)
}

func TestFindOverlay_NearestWins(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "sub")
	require.NoError(t, os.MkdirAll(nested, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, config.OverlayFileName), nil, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(nested, config.OverlayFileName), nil, 0o600))

	got, err := config.FindOverlay(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(nested, config.OverlayFileName), got)
}

func TestFindOverlay_IgnoresDirectory(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, config.OverlayFileName), 0o750))

	got, err := config.FindOverlay(root)

	// A parent of the temp dir could hold a real overlay; only the directory
	// itself must not be returned.
	if err == nil {
		assert.NotEqual(t, filepath.Join(root, config.OverlayFileName), got)
	} else {
		assert.ErrorIs(t, err, config.ErrNoOverlay)
	}
}

func TestResolveOverlayPath_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	t.Setenv(config.EnvOverlay, path)

	assert.Equal(t, path, config.ResolveOverlayPath(context.Background(), t.TempDir()))
}

func TestResolveOverlayPath_Found(t *testing.T) {
	t.Setenv(config.EnvOverlay, "")
	root := t.TempDir()
	overlay := filepath.Join(root, config.OverlayFileName)
	require.NoError(t, os.WriteFile(overlay, nil, 0o600))

	assert.Equal(t, overlay, config.ResolveOverlayPath(context.Background(), root))
}
