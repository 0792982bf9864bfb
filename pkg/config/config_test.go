package config

import (
	"os"
	"path/filepath"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSystemConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg := LoadSystemConfig(filepath.Join(t.TempDir(), "missing.json"))

	assert.Equal(t, 120000, cfg.CallTimeoutMs)
	assert.Equal(t, 30000, cfg.NavigateTimeoutMs)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadSystemConfig_PartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "system.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"log_level":"debug","call_timeout_ms":5000}`), 0644))

	cfg := LoadSystemConfig(path)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5000, cfg.CallTimeoutMs)
	// Untouched fields keep their defaults.
	assert.Equal(t, 30000, cfg.NavigateTimeoutMs)
}

func TestLoadSystemConfig_CorruptFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "system.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0644))

	cfg := LoadSystemConfig(path)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.Validate())

	cfg.Channels = map[string]jsoniter.RawMessage{"mcp": []byte(`{}`)}
	assert.NoError(t, cfg.Validate())
}
