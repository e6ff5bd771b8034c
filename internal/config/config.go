// Package config loads roadmap settings from ~/.roadmap/config.yaml,
// ROADMAP_* environment variables and command-line flags, in rising order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete roadmap configuration.
type Config struct {
	Roadmap RoadmapConfig `mapstructure:"roadmap"`
	Store   StoreConfig   `mapstructure:"store"`
	Local   LocalConfig   `mapstructure:"local"`
	Sync    SyncConfig    `mapstructure:"sync"`
	History HistoryConfig `mapstructure:"history"`
	Log     LogConfig     `mapstructure:"log"`
}

// RoadmapConfig identifies which roadmap document this client edits.
type RoadmapConfig struct {
	// ID selects the document inside the shared store.
	ID string `mapstructure:"id"`
	// Writer is recorded with every stored revision (default: hostname).
	Writer string `mapstructure:"writer"`
}

// StoreConfig locates the shared document store.
type StoreConfig struct {
	// Path is the SQLite file holding the shared document, typically on a
	// network share.
	Path string `mapstructure:"path"`
}

// LocalConfig locates the local database holding the outbox.
type LocalConfig struct {
	Path string `mapstructure:"path"`
}

// SyncConfig controls write retry and connectivity behavior.
type SyncConfig struct {
	MaxRetries      int  `mapstructure:"max_retries"`
	BaseDelayMs     int  `mapstructure:"base_delay_ms"`
	Offline         bool `mapstructure:"offline"`
	ProbeIntervalMs int  `mapstructure:"probe_interval_ms"`
}

// HistoryConfig bounds the undo window.
type HistoryConfig struct {
	Limit int `mapstructure:"limit"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level"`
	// File receives log output; empty means stderr.
	File string `mapstructure:"file"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	writer, err := os.Hostname()
	if err != nil || writer == "" {
		writer = "unknown"
	}
	return &Config{
		Roadmap: RoadmapConfig{ID: "default", Writer: writer},
		Store:   StoreConfig{Path: filepath.Join(ConfigDir(), "shared.db")},
		Local:   LocalConfig{Path: filepath.Join(ConfigDir(), "local.db")},
		Sync: SyncConfig{
			MaxRetries:      3,
			BaseDelayMs:     500,
			ProbeIntervalMs: 5000,
		},
		History: HistoryConfig{Limit: 50},
		Log:     LogConfig{Level: "warn"},
	}
}

// BaseDelay returns the first retry delay as a time.Duration.
func (c *SyncConfig) BaseDelay() time.Duration {
	return time.Duration(c.BaseDelayMs) * time.Millisecond
}

// ProbeInterval returns how often the shell checks store reachability.
func (c *SyncConfig) ProbeInterval() time.Duration {
	return time.Duration(c.ProbeIntervalMs) * time.Millisecond
}

// SlogLevel maps the configured level name to a slog.Level.
func (c *LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// SetDefaults registers default values with v.
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("roadmap.id", defaults.Roadmap.ID)
	v.SetDefault("roadmap.writer", defaults.Roadmap.Writer)

	v.SetDefault("store.path", defaults.Store.Path)
	v.SetDefault("local.path", defaults.Local.Path)

	v.SetDefault("sync.max_retries", defaults.Sync.MaxRetries)
	v.SetDefault("sync.base_delay_ms", defaults.Sync.BaseDelayMs)
	v.SetDefault("sync.offline", defaults.Sync.Offline)
	v.SetDefault("sync.probe_interval_ms", defaults.Sync.ProbeIntervalMs)

	v.SetDefault("history.limit", defaults.History.Limit)

	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.file", defaults.Log.File)
}

// NewViper returns a viper instance with defaults, environment binding and,
// when present, the config file read in. cfgFile overrides the search path.
func NewViper(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix("ROADMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(ConfigDir())
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return v, nil
}

// Load reads the configuration from v into a Config struct and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Store.Path = expandHome(cfg.Store.Path)
	cfg.Local.Path = expandHome(cfg.Local.Path)
	cfg.Log.File = expandHome(cfg.Log.File)

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	return &cfg, nil
}

// ConfigDir returns the directory holding the config file and local data.
// ROADMAP_HOME overrides the default ~/.roadmap.
func ConfigDir() string {
	if dir := os.Getenv("ROADMAP_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".roadmap"
	}
	return filepath.Join(home, ".roadmap")
}

// ConfigFile returns the path to the config file.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
