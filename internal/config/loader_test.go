package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test in an empty working directory with no user
// config directory to find.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("HOME", dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Empty(t, cfg.LinkDir)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "auto", cfg.Log.Format)
	assert.Empty(t, cfg.Write.BackupSuffix)
	assert.False(t, cfg.Write.PreserveModTime)
	assert.Equal(t, runtime.NumCPU(), cfg.Scan.Workers)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
link_dir: /srv/links
log:
  level: debug
  format: json
write:
  backup_suffix: .orig
  preserve_mod_time: true
scan:
  workers: 3
`), 0o644))

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/links", cfg.LinkDir)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, ".orig", cfg.Write.BackupSuffix)
	assert.True(t, cfg.Write.PreserveModTime)
	assert.Equal(t, 3, cfg.Scan.Workers)
}

func TestLoad_SearchPath(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".audiolink"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".audiolink", "config.yaml"),
		[]byte("link_dir: from-search-path\n"), 0o644))

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "from-search-path", cfg.LinkDir)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("link_dir: /from/file\nscan:\n  workers: 2\n"), 0o644))

	t.Setenv("AUDIOLINK_LINK_DIR", "/from/env")
	t.Setenv("AUDIOLINK_SCAN_WORKERS", "7")
	t.Setenv("AUDIOLINK_WRITE_PRESERVE_MOD_TIME", "true")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "/from/env", cfg.LinkDir)
	assert.Equal(t, 7, cfg.Scan.Workers)
	assert.True(t, cfg.Write.PreserveModTime)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("AUDIOLINK_LOG_LEVEL=warn\nAUDIOLINK_LINK_DIR=/from/dotenv\n"), 0o644))
	// Registered with t.Setenv so the variables .env adds are restored.
	t.Setenv("AUDIOLINK_LOG_LEVEL", "")
	os.Unsetenv("AUDIOLINK_LOG_LEVEL")
	t.Setenv("AUDIOLINK_LINK_DIR", "/already/set")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	// .env never overrides the real environment.
	assert.Equal(t, "/already/set", cfg.LinkDir)
}

func TestLoad_Errors(t *testing.T) {
	dir := isolate(t)

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load(viper.New(), filepath.Join(dir, "nope.yaml"))
		require.Error(t, err)
	})

	t.Run("bad level", func(t *testing.T) {
		t.Setenv("AUDIOLINK_LOG_LEVEL", "loud")
		_, err := Load(viper.New(), "")
		require.ErrorContains(t, err, "log.level")
	})

	t.Run("bad format", func(t *testing.T) {
		t.Setenv("AUDIOLINK_LOG_FORMAT", "xml")
		_, err := Load(viper.New(), "")
		require.ErrorContains(t, err, "log.format")
	})

	t.Run("no workers", func(t *testing.T) {
		t.Setenv("AUDIOLINK_SCAN_WORKERS", "0")
		_, err := Load(viper.New(), "")
		require.ErrorContains(t, err, "scan.workers")
	})
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for name, want := range tests {
		got, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}
