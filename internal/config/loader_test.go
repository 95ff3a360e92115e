package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.RetentionDays)
	assert.Equal(t, "silent", cfg.Store.LogLevel)
	assert.Equal(t, "PinLog CLI", cfg.App.Name)
	assert.NotEmpty(t, cfg.Store.Path)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pinlog.yaml")
	content := `
store:
  path: /tmp/x.db
app:
  name: Demo App
console:
  dev_logging: true
retention_days: 3
build_info:
  DEBUG: true
  FLAVOR: beta
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("PINLOG_RETENTION_DAYS", "14")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db", cfg.Store.Path)
	assert.Equal(t, "Demo App", cfg.App.Name)
	assert.True(t, cfg.Console.DevLogging)
	assert.Equal(t, 14, cfg.RetentionDays)
	assert.Equal(t, true, cfg.BuildInfo["debug"])
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Config{Store: StoreConfig{Path: "x.db", LogLevel: "loud"}}
	assert.Error(t, cfg.Validate())

	cfg.Store.LogLevel = "info"
	cfg.RetentionDays = -1
	assert.Error(t, cfg.Validate())

	cfg.RetentionDays = 1
	assert.NoError(t, cfg.Validate())
}
