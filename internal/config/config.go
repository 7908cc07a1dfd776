// Package config loads calculator settings from defaults, a YAML file and
// the environment. Command-line flags are applied last by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"nickandperla.net/calc/internal/locale"
	"nickandperla.net/calc/internal/logging"
)

// Environment variables read by ApplyEnv.
const (
	EnvLocale   = "CALC_LOCALE"
	EnvDB       = "CALC_DB"
	EnvSession  = "CALC_SESSION"
	EnvLogLevel = "CALC_LOG_LEVEL"
	EnvLogFile  = "CALC_LOG_FILE"
)

// DefaultSession is the session used when none is named.
const DefaultSession = "default"

// Config holds the calculator settings.
type Config struct {
	// Locale is an IETF tag for error messages. Empty means detect it from
	// the operating system.
	Locale string `yaml:"locale"`
	// DBPath is the SQLite session database. Empty means in-memory.
	DBPath   string `yaml:"db"`
	Session  string `yaml:"session"`
	LogLevel string `yaml:"log_level"` // debug, info, warn, error, none
	LogFile  string `yaml:"log_file"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Session:  DefaultSession,
		LogLevel: "info",
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "calc", "config.yaml")
}

// Load reads the YAML file at path over the defaults. A missing file is not
// an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if cfg.Session == "" {
		cfg.Session = DefaultSession
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return cfg, nil
}

// ApplyEnv overrides fields from the environment. getenv is usually
// os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Locale, EnvLocale)
	set(&c.DBPath, EnvDB)
	set(&c.Session, EnvSession)
	set(&c.LogLevel, EnvLogLevel)
	set(&c.LogFile, EnvLogFile)
}

// Validate checks the fields that have a fixed vocabulary.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Locale != "" {
		if _, err := locale.Parse(c.Locale); err != nil {
			return fmt.Errorf("invalid locale %q: %w", c.Locale, err)
		}
	}
	if c.Session == "" {
		return errors.New("session name must not be empty")
	}
	return nil
}

// Save writes the settings to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
