package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig resets the global viper instance so search paths do not leak
// between tests.
func writeConfig(t *testing.T, content string) string {
	viper.Reset()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(content), 0o644))
	return dir
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	dir := writeConfig(t, "database:\n  dsn: test.db\n")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "test.db", cfg.Database.DSN)
	assert.True(t, cfg.Signals.AutoMode)
	assert.Equal(t, "SEQUENTIAL", cfg.Signals.Rotation)
	assert.InDelta(t, 0.05, cfg.Signals.HouseEdge, 1e-9)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 8081, cfg.Dashboard.Port)
	assert.Equal(t, 15, cfg.Connectivity.IntervalSeconds)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	dir := writeConfig(t, `
signals:
  auto_mode: false
  rotation: RANDOM
  house_edge: 0.1
server:
  port: 9999
logger:
  level: debug
  format: json
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.False(t, cfg.Signals.AutoMode)
	assert.Equal(t, "RANDOM", cfg.Signals.Rotation)
	assert.InDelta(t, 0.1, cfg.Signals.HouseEdge, 1e-9)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
}

func TestLoadConfig_MissingFileFails(t *testing.T) {
	viper.Reset()
	_, err := LoadConfig(t.TempDir())
	assert.Error(t, err)
}
