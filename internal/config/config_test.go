package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/qubit"
	"github.com/zephyrtronium/qubit/internal/logger"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDefaultsValid(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, qubit.DefaultFormat, cfg.QubitFormat())
	assert.Equal(t, logger.LevelInfo, cfg.LogLevel())
}

func TestParse(t *testing.T) {
	data := []byte(`
format:
  precision: 4
  nan: "n/a"
  group_digits: true
log:
  level: ${QUBIT_LEVEL:-warn}
  file: ${LOGDIR}/qubit.log
repl:
  prompt: "qubit> "
`)
	cfg, err := Parse(data, env(map[string]string{"LOGDIR": "/var/log"}))
	require.NoError(t, err)
	assert.Equal(t, qubit.Format{Precision: 4, NaN: "n/a", GroupDigits: true}, cfg.QubitFormat())
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, logger.LevelWarn, cfg.LogLevel())
	assert.Equal(t, "/var/log/qubit.log", cfg.Log.File)
	assert.Equal(t, "qubit> ", cfg.REPL.Prompt)
	// Unset sections keep their defaults.
	assert.Equal(t, Defaults().TUI, cfg.TUI)

	cfg, err = Parse(data, env(map[string]string{"QUBIT_LEVEL": "debug"}))
	require.NoError(t, err)
	assert.Equal(t, logger.LevelDebug, cfg.LogLevel())
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil, env(nil))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"precisionlow", "format:\n  precision: 0\n"},
		{"precisionhigh", "format:\n  precision: 18\n"},
		{"level", "log:\n  level: chatty\n"},
		{"unknownkey", "format:\n  digits: 3\n"},
		{"syntax", "format: [\n"},
		{"type", "format:\n  precision: many\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg, err := Parse([]byte(c.data), env(nil))
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format:\n  precision: 6\n"), 0o644))

	cfg, err := Load(path, env(nil))
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Format.Precision)

	_, err = Load(filepath.Join(dir, "missing.yaml"), env(nil))
	assert.Error(t, err, "missing explicit file")
}

func TestLoadDefaultLocation(t *testing.T) {
	dir := t.TempDir()
	getenv := env(map[string]string{"XDG_CONFIG_HOME": dir})
	assert.Equal(t, filepath.Join(dir, "qubit", "config.yaml"), DefaultPath(getenv))

	// Missing default file gives defaults.
	cfg, err := Load("", getenv)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "qubit"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "qubit", "config.yaml"), []byte("log:\n  level: error\n"), 0o644))
	cfg, err = Load("", getenv)
	require.NoError(t, err)
	assert.Equal(t, logger.LevelError, cfg.LogLevel())

	// A broken default file is still an error.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "qubit", "config.yaml"), []byte("log: [\n"), 0o644))
	_, err = Load("", getenv)
	assert.Error(t, err)
}

func TestDefaultPathOverride(t *testing.T) {
	getenv := env(map[string]string{"QUBIT_CONFIG": "/etc/qubit.yaml", "XDG_CONFIG_HOME": "/x"})
	assert.Equal(t, "/etc/qubit.yaml", DefaultPath(getenv))
}
