package kickstart

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Environment variables that override file configuration.
const (
	EnvLogLevel       = "KICKSTART_LOG_LEVEL"
	EnvBundleLookup   = "KICKSTART_BUNDLE_LOOKUP"
	EnvSearchCommands = "KICKSTART_SEARCH_COMMANDS"
)

// Config holds configuration for a bootstrap run.
type Config struct {
	// Name is the application name.
	Name string `toml:"name"`

	// UseAppBundles recognizes bundles added to the Bootstrap as
	// application bundles.
	UseAppBundles bool `toml:"use_app_bundles"`

	// BundleLookup enables bundles registered with bundle.RegisterLookup.
	BundleLookup bool `toml:"bundle_lookup"`

	// SearchCommands attaches commands registered with RegisterCommand to
	// the bootstrap's root command.
	SearchCommands bool `toml:"search_commands"`

	// DisabledBundles lists bundle names that must not be used.
	DisabledBundles []string `toml:"disabled_bundles"`

	// DisabledInstallers lists installer names that must not be used.
	DisabledInstallers []string `toml:"disabled_installers"`

	// DisabledExtensions lists extension type names (reflect.Type.String(),
	// e.g. "*app.Cleaner") that must not be installed.
	DisabledExtensions []string `toml:"disabled_extensions"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Name:          "kickstart",
		UseAppBundles: true,
		BundleLookup:  true,
		LogLevel:      "info",
	}
}

// LoadConfig reads a TOML config file on top of DefaultConfig and applies
// environment overrides.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes TOML data on top of DefaultConfig and applies
// environment overrides.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Config{}, err
	}
	ApplyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks required fields.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidConfig)
	}
	if _, ok := parseLevel(c.LogLevel); !ok && c.LogLevel != "" {
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	return nil
}

// Level returns the slog level for LogLevel, defaulting to info.
func (c Config) Level() slog.Level {
	lvl, ok := parseLevel(c.LogLevel)
	if !ok {
		return slog.LevelInfo
	}
	return lvl
}

// FromEnv returns DefaultConfig with environment overrides applied.
func FromEnv() Config {
	cfg := DefaultConfig()
	ApplyEnv(&cfg)
	return cfg
}

// ApplyEnv overrides cfg from the KICKSTART_* environment variables.
// Unset or unparsable values leave the field unchanged.
func ApplyEnv(cfg *Config) {
	if raw := strings.TrimSpace(os.Getenv(EnvLogLevel)); raw != "" {
		if _, ok := parseLevel(raw); ok {
			cfg.LogLevel = strings.ToLower(raw)
		}
	}
	if v, ok := parseBool(os.Getenv(EnvBundleLookup)); ok {
		cfg.BundleLookup = v
	}
	if v, ok := parseBool(os.Getenv(EnvSearchCommands)); ok {
		cfg.SearchCommands = v
	}
}

func parseLevel(raw string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
