package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSession, cfg.Session)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("locale: ko\ndb: /tmp/calc.db\nlog_level: debug\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ko", cfg.Locale)
	assert.Equal(t, "/tmp/calc.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, DefaultSession, cfg.Session)
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("locale: [unclosed\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvLocale:   "en-GB",
		EnvSession:  "work",
		EnvLogLevel: "warn",
	}
	cfg := Default()
	cfg.DBPath = "keep.db"
	cfg.ApplyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "en-GB", cfg.Locale)
	assert.Equal(t, "work", cfg.Session)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "keep.db", cfg.DBPath)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Default().Validate())

	cfg := Default()
	cfg.LogLevel = "chatty"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Locale = "!!"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Session = ""
	assert.Error(t, cfg.Validate())
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := Default()
	cfg.Locale = "ko"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
