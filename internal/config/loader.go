// Package config loads audiolink CLI settings from defaults, a YAML
// config file, a .env file and AUDIOLINK_* environment variables, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g.
// AUDIOLINK_LINK_DIR or AUDIOLINK_LOG_LEVEL.
const EnvPrefix = "AUDIOLINK"

// Config is the resolved CLI configuration.
type Config struct {
	// LinkDir is the directory holding identifier-named hardlinks.
	LinkDir string      `mapstructure:"link_dir"`
	Log     LogConfig   `mapstructure:"log"`
	Write   WriteConfig `mapstructure:"write"`
	Scan    ScanConfig  `mapstructure:"scan"`
}

// LogConfig controls the CLI logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // auto, text, json
}

// WriteConfig controls how tags are written.
type WriteConfig struct {
	BackupSuffix    string `mapstructure:"backup_suffix"`
	PreserveModTime bool   `mapstructure:"preserve_mod_time"`
}

// ScanConfig controls directory scans.
type ScanConfig struct {
	Workers int `mapstructure:"workers"`
}

// Load resolves the configuration into v.
//
// cfgFile, when set, must exist. Otherwise config.yaml is searched for in
// ./.audiolink and the user config directory, and a missing file is not
// an error. A .env file in the working directory is loaded first; it
// never overrides variables already set in the environment.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".audiolink")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "audiolink"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("link_dir", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "auto")
	v.SetDefault("write.backup_suffix", "")
	v.SetDefault("write.preserve_mod_time", false)
	v.SetDefault("scan.workers", runtime.NumCPU())
}

// Validate checks enumerated and numeric settings.
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "auto", "text", "json":
	default:
		return fmt.Errorf("log.format must be auto, text or json, got %q", c.Log.Format)
	}
	if c.Scan.Workers < 1 {
		return fmt.Errorf("scan.workers must be at least 1, got %d", c.Scan.Workers)
	}
	return nil
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}
