package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	gerrors "github.com/odvcencio/grepline/pkg/errors"
)

// Environment variables understood by grepline.
const (
	EnvColors        = "GREPLINE_COLORS"
	EnvConfig        = "GREPLINE_CONFIG"
	EnvLog           = "GREPLINE_LOG"
	EnvBufferSize    = "GREPLINE_BUFFER_SIZE"
	EnvEngine        = "GREPLINE_ENGINE"
	EnvTerm          = "TERM"
	EnvNoColor       = "NO_COLOR"
	EnvCliColorForce = "CLICOLOR_FORCE"
	EnvHome          = "HOME"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Matching engines.
const (
	EngineRE2  = "re2"
	EnginePCRE = "pcre"
)

// Default configuration values exported for documentation and validation
const (
	DefaultColorMode     = ColorAuto
	DefaultEngine        = EngineRE2
	DefaultBufferSize    = 4096
	DefaultLogLevel      = "info"
	DefaultLogMaxSizeMB  = 10
	DefaultLogMaxBackups = 3
)

// Config represents the on-disk grepline configuration.
type Config struct {
	Color      string    `yaml:"color"`
	Colors     string    `yaml:"colors"`
	Engine     string    `yaml:"engine"`
	BufferSize int       `yaml:"buffer_size"`
	Log        LogConfig `yaml:"log"`

	// Path is the file the configuration was loaded from, if any.
	Path string `yaml:"-"`
}

// LogConfig controls the JSONL event log.
type LogConfig struct {
	File       string `yaml:"file"`
	Level      string `yaml:"level"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Color:      DefaultColorMode,
		Engine:     DefaultEngine,
		BufferSize: DefaultBufferSize,
		Log: LogConfig{
			Level:      DefaultLogLevel,
			MaxSizeMB:  DefaultLogMaxSizeMB,
			MaxBackups: DefaultLogMaxBackups,
		},
	}
}

// Load loads configuration with proper precedence: defaults, then the file
// named by GREPLINE_CONFIG (which must exist) or ~/.grepline/config.yaml (if
// present), then environment overrides.
func Load(env Env) (*Config, error) {
	if path := strings.TrimSpace(env.Getenv(EnvConfig)); path != "" {
		return LoadFromPath(path, env)
	}

	cfg := DefaultConfig()
	if home := env.Getenv(EnvHome); home != "" {
		userConfigPath := filepath.Join(home, ".grepline", "config.yaml")
		err := loadAndMerge(cfg, userConfigPath)
		switch {
		case err == nil:
			cfg.Path = userConfigPath
		case !os.IsNotExist(err):
			return nil, gerrors.Wrap(err, gerrors.ErrCodeConfigLoad, "loading user config").
				WithContext("path", userConfigPath)
		}
	}

	return finish(cfg, env)
}

// LoadFromPath loads configuration from a specific file path, which must
// exist, then applies environment overrides.
func LoadFromPath(path string, env Env) (*Config, error) {
	cfg := DefaultConfig()

	if err := loadAndMerge(cfg, path); err != nil {
		return nil, gerrors.Wrap(err, gerrors.ErrCodeConfigLoad, "loading config").
			WithContext("path", path)
	}
	cfg.Path = path

	return finish(cfg, env)
}

func finish(cfg *Config, env Env) (*Config, error) {
	if err := applyEnvOverrides(cfg, env); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides
func applyEnvOverrides(cfg *Config, env Env) error {
	if v := strings.TrimSpace(env.Getenv(EnvLog)); v != "" {
		cfg.Log.File = v
	}
	if v := strings.TrimSpace(env.Getenv(EnvBufferSize)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return gerrors.Newf(gerrors.ErrCodeConfigInvalid,
				"invalid %s: %q is not a number", EnvBufferSize, v)
		}
		cfg.BufferSize = n
	}
	if v := strings.TrimSpace(env.Getenv(EnvEngine)); v != "" {
		cfg.Engine = v
	}
	return nil
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	c.Color = normalizeMode(c.Color, DefaultColorMode)
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return gerrors.Newf(gerrors.ErrCodeConfigInvalid,
			"invalid color mode: %s (valid: auto, always, never)", c.Color)
	}

	c.Engine = normalizeMode(c.Engine, DefaultEngine)
	switch c.Engine {
	case EngineRE2, EnginePCRE:
	default:
		return gerrors.Newf(gerrors.ErrCodeConfigInvalid,
			"invalid engine: %s (valid: re2, pcre)", c.Engine)
	}

	if c.BufferSize <= 0 {
		return gerrors.Newf(gerrors.ErrCodeConfigInvalid,
			"buffer_size must be positive, got %d", c.BufferSize)
	}

	c.Log.Level = normalizeMode(c.Log.Level, DefaultLogLevel)
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return gerrors.Newf(gerrors.ErrCodeConfigInvalid,
			"invalid log level: %s (valid: debug, info, warn, error)", c.Log.Level)
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 {
		return gerrors.New(gerrors.ErrCodeConfigInvalid, "log rotation limits must not be negative")
	}

	return nil
}

func normalizeMode(mode, fallback string) string {
	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode == "" {
		return fallback
	}
	return mode
}
