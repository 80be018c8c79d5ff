package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func clearEnv(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvLogLevel, "")
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := writeFile(t, dir, FileName, `
server:
  name: tube
  version: 1.4.0
youtube:
  api_key: file-key
  timeout: 5s
  max_results: 25
logging:
  level: debug
  format: json
validation:
  strict: true
telemetry:
  otlp_endpoint: localhost:4318
  service_name: tube-svc
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "tube", cfg.Server.GetName())
	assert.Equal(t, "1.4.0", cfg.Server.GetVersion())
	assert.Equal(t, "file-key", cfg.YouTube.GetAPIKey())
	assert.Equal(t, 5*time.Second, cfg.YouTube.GetTimeout())
	assert.Equal(t, int64(25), cfg.YouTube.GetMaxResults())
	assert.Equal(t, slog.LevelDebug, cfg.Logging.GetLevel())
	assert.Equal(t, "json", cfg.Logging.GetFormat())
	assert.True(t, cfg.Validation.IsStrict())
	assert.True(t, cfg.Telemetry.Enabled())
	assert.Equal(t, "tube-svc", cfg.Telemetry.GetServiceName())
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Parse([]byte(""))
	require.NoError(t, err)

	assert.Equal(t, DefaultServerName, cfg.Server.GetName())
	assert.Equal(t, DefaultVersion, cfg.Server.GetVersion())
	assert.Empty(t, cfg.YouTube.GetAPIKey())
	assert.Equal(t, DefaultTimeout, cfg.YouTube.GetTimeout())
	assert.Equal(t, int64(DefaultMaxResults), cfg.YouTube.GetMaxResults())
	assert.Equal(t, slog.LevelInfo, cfg.Logging.GetLevel())
	assert.Equal(t, DefaultLogFormat, cfg.Logging.GetFormat())
	assert.False(t, cfg.Validation.IsStrict())
	assert.False(t, cfg.Telemetry.Enabled())
	assert.Equal(t, DefaultServiceName, cfg.Telemetry.GetServiceName())
	assert.NoError(t, cfg.Validate())
}

func TestInvalidValuesFallBack(t *testing.T) {
	y := &YouTubeConfig{Timeout: "soon", MaxResults: -3}
	assert.Equal(t, DefaultTimeout, y.GetTimeout())
	assert.Equal(t, int64(DefaultMaxResults), y.GetMaxResults())

	l := &LoggingConfig{Level: "loud", Format: "xml"}
	assert.Equal(t, slog.LevelInfo, l.GetLevel())
	assert.Equal(t, "text", l.GetFormat())

	cfg := &Config{YouTube: y, Logging: l}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "youtube.timeout")
	assert.Contains(t, err.Error(), "youtube.max_results")
	assert.Contains(t, err.Error(), "logging.level")
	assert.Contains(t, err.Error(), "logging.format")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvAPIKey, "env-key")
	t.Setenv(EnvLogLevel, "warn")

	dir := t.TempDir()
	writeFile(t, dir, FileName, "youtube:\n  api_key: file-key\nlogging:\n  level: debug\n")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.YouTube.GetAPIKey())
	assert.Equal(t, slog.LevelWarn, cfg.Logging.GetLevel())

	def := Default()
	assert.Equal(t, "env-key", def.YouTube.GetAPIKey())
}

func TestLoadDirectory(t *testing.T) {
	clearEnv(t)

	t.Run("yml fallback", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, AltFileName, "server:\n  name: alt\n")
		cfg, err := Load(dir)
		require.NoError(t, err)
		assert.Equal(t, "alt", cfg.Server.GetName())
	})

	t.Run("yaml preferred", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, AltFileName, "server:\n  name: alt\n")
		writeFile(t, dir, FileName, "server:\n  name: main\n")
		cfg, err := Load(dir)
		require.NoError(t, err)
		assert.Equal(t, "main", cfg.Server.GetName())
	})

	t.Run("missing", func(t *testing.T) {
		_, err := Load(t.TempDir())
		assert.True(t, errors.Is(err, ErrNotFound), err)
	})

	t.Run("path does not exist", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
		assert.False(t, errors.Is(err, ErrNotFound))
	})
}

func TestLoadFromDirWalksUp(t *testing.T) {
	clearEnv(t)
	root := t.TempDir()
	writeFile(t, root, FileName, "server:\n  name: parent\n")

	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, err := LoadFromDir(nested)
	require.NoError(t, err)
	assert.Equal(t, "parent", cfg.Server.GetName())
}

func TestLoadFromDirStopsOnParseError(t *testing.T) {
	clearEnv(t)
	root := t.TempDir()
	writeFile(t, root, FileName, "server:\n  name: parent\n")

	child := filepath.Join(root, "child")
	require.NoError(t, os.Mkdir(child, 0o755))
	writeFile(t, child, FileName, "server: [unclosed\n")

	_, err := LoadFromDir(child)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("youtube:\n  apikey: typo\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apikey")
}
