package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaultsWithNoFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Workers.MaxConcurrentFiles)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, int64(1_048_576), cfg.Streaming.ThresholdBytes)
}

func TestLoadLayersTOMLFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "coderadar.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[workers]
max_concurrent_files = 3

[store]
database_path = "custom.db"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Workers.MaxConcurrentFiles)
	assert.Equal(t, "custom.db", cfg.Store.DatabasePath)
	assert.Equal(t, 5, cfg.Workers.MaxConcurrentAPI) // untouched default survives
}

func TestLoadHonorsFileLimitEnvVar(t *testing.T) {
	t.Setenv("GITHUB_SCANNER_FILE_LIMIT", "42")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.Workers.FileLimitOverride)
}

func TestValidateRejectsNonPositiveWorkerCaps(t *testing.T) {
	cfg := defaults()
	cfg.Workers.MaxConcurrentFiles = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsEmptyDatabasePath(t *testing.T) {
	cfg := defaults()
	cfg.Store.DatabasePath = ""
	assert.Error(t, cfg.Validate())
}
