package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arjunp/knightfall/internal/config"
)

func TestDefaultMatchesSpecCoefficients(t *testing.T) {
	cfg := config.Default()
	require.Equal(t, 512, cfg.TT.SizeMiB)
	require.False(t, cfg.Book.Enabled)
	require.Equal(t, 30, cfg.Time.MovesToGoDefault)
	require.InDelta(t, 0.75, cfg.Time.IncrementFraction, 1e-9)
	require.Equal(t, 50, cfg.Time.SafetyMarginMillis)
	require.Equal(t, 2048, cfg.Search.NodeCheckInterval)
}

func TestLoadOverridesOnlySetFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "knightfall.toml")
	require.NoError(t, os.WriteFile(path, []byte("[tt]\nsize_mib = 64\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, 64, cfg.TT.SizeMiB)
	require.Equal(t, 30, cfg.Time.MovesToGoDefault, "unset fields should keep Default's values")
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.Error(t, err)
}
