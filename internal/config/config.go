package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/sentinelhq/sentinel/internal/util"
)

// Config represents the main configuration
type Config struct {
	Log   LogConfig   `toml:"log"`
	Probe ProbeConfig `toml:"probe"`
}

// LogConfig controls the diagnostic logger
type LogConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // auto, text, json
}

// ProbeConfig holds health probe settings
type ProbeConfig struct {
	TimeoutMS int `toml:"timeout_ms"` // Per-attempt request timeout
}

// Timeout returns the probe timeout as a duration.
func (p ProbeConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutMS) * time.Millisecond
}

// Recognised values for LogConfig.
var (
	LogLevels  = []string{"debug", "info", "warn", "error"}
	LogFormats = []string{"auto", "text", "json"}
)

const (
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "auto"
	DefaultProbeTimeoutMS = 2000
)

// DefaultPath returns the default config file path
func DefaultPath() string {
	return filepath.Join(util.ConfigDir(), "config.toml")
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Probe: ProbeConfig{
			TimeoutMS: DefaultProbeTimeoutMS,
		},
	}
}

// Load loads configuration from a file, fills in defaults for missing values
// and applies SENTINEL_* environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	applyDefaults(&cfg)
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FromEnv returns the default configuration with environment overrides
// applied. It is used when no config file exists.
func FromEnv() (*Config, error) {
	cfg := Default()
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if cfg.Probe.TimeoutMS == 0 {
		cfg.Probe.TimeoutMS = DefaultProbeTimeoutMS
	}
}

func applyEnv(cfg *Config) error {
	if level := os.Getenv("SENTINEL_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if format := os.Getenv("SENTINEL_LOG_FORMAT"); format != "" {
		cfg.Log.Format = format
	}
	if raw := os.Getenv("SENTINEL_PROBE_TIMEOUT_MS"); raw != "" {
		ms, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("SENTINEL_PROBE_TIMEOUT_MS: %w", err)
		}
		cfg.Probe.TimeoutMS = ms
	}
	return nil
}

// Validate checks that every setting holds a recognised value.
func (c *Config) Validate() error {
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))

	if !contains(LogLevels, c.Log.Level) {
		return fmt.Errorf("invalid log level %q (valid: %s)", c.Log.Level, strings.Join(LogLevels, ", "))
	}
	if !contains(LogFormats, c.Log.Format) {
		return fmt.Errorf("invalid log format %q (valid: %s)", c.Log.Format, strings.Join(LogFormats, ", "))
	}
	if c.Probe.TimeoutMS <= 0 {
		return fmt.Errorf("probe timeout_ms must be positive, got %d", c.Probe.TimeoutMS)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// CreateDefault creates a default config file
func CreateDefault() (string, error) {
	path := DefaultPath()

	if err := util.EnsureDir(filepath.Dir(path)); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config file already exists: %s", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := Print(Default(), f); err != nil {
		return "", err
	}

	return path, nil
}

// Print writes config to a writer in TOML format
func Print(cfg *Config, w io.Writer) error {
	var b strings.Builder

	fmt.Fprintln(&b, "# Sentinel desktop shell configuration")
	fmt.Fprintln(&b, "# The backend command, port and health endpoint are fixed and cannot be changed here.")
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "[log]")
	fmt.Fprintf(&b, "# One of: %s (env: SENTINEL_LOG_LEVEL)\n", strings.Join(LogLevels, ", "))
	fmt.Fprintf(&b, "level = %q\n", cfg.Log.Level)
	fmt.Fprintln(&b, "# auto picks text on a terminal and json otherwise (env: SENTINEL_LOG_FORMAT)")
	fmt.Fprintf(&b, "format = %q\n", cfg.Log.Format)
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "[probe]")
	fmt.Fprintln(&b, "# Timeout for each backend health request in milliseconds (env: SENTINEL_PROBE_TIMEOUT_MS)")
	fmt.Fprintf(&b, "timeout_ms = %d\n", cfg.Probe.TimeoutMS)

	_, err := io.WriteString(w, b.String())
	return err
}
