package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppliesHomeDefaults(t *testing.T) {
	t.Setenv("PROJTRACK_DATA_DIR", "")
	t.Setenv("PROJTRACK_DB_PATH", "")

	cfg, err := New()
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".projtrack"), cfg.App.DataDir)
	assert.Equal(t, filepath.Join(home, ".projtrack", "projtrack.db"), cfg.Database.Path)
	assert.Contains(t, cfg.App.SearchRoots, filepath.Join(home, "Documents"))
	assert.Equal(t, "projtrack-initial-data", cfg.App.SeedFolderName)
	assert.Equal(t, "info", cfg.App.LogLevel)
}

func TestNewHonorsEnvironment(t *testing.T) {
	t.Setenv("PROJTRACK_DATA_DIR", "/srv/projtrack")
	t.Setenv("PROJTRACK_DB_PATH", "")
	t.Setenv("PROJTRACK_SEARCH_ROOTS", "/mnt/share,/tmp")
	t.Setenv("PROJTRACK_LOG_LEVEL", "debug")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "/srv/projtrack", cfg.App.DataDir)
	// database path follows the data directory when not set explicitly
	assert.Equal(t, filepath.Join("/srv/projtrack", "projtrack.db"), cfg.Database.Path)
	assert.Equal(t, []string{"/mnt/share", "/tmp"}, cfg.App.SearchRoots)
	assert.Equal(t, "debug", cfg.App.LogLevel)
}

func TestParseConfigFileOverlays(t *testing.T) {
	t.Setenv("PROJTRACK_DATA_DIR", "/srv/projtrack")

	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("app:\n  logLevel: warn\n"), 0644))

	cfg, err := New()
	require.NoError(t, err)
	require.NoError(t, cfg.ParseConfigFile(cfgFile))

	assert.Equal(t, "warn", cfg.App.LogLevel)
	assert.Equal(t, "/srv/projtrack", cfg.App.DataDir)
}
