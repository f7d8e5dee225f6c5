package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/combo/internal/store"
	"github.com/idilsaglam/combo/internal/ui"
)

// Config represents the combo configuration file.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Draw    DrawConfig    `yaml:"draw"`
	UI      UIConfig      `yaml:"ui"`
	Log     LogConfig     `yaml:"log"`
}

// StorageConfig selects where the state lives.
type StorageConfig struct {
	Backend string `yaml:"backend"` // json or sqlite
	Path    string `yaml:"path"`    // empty = backend default inside the data dir
}

// DrawConfig tunes the selection engine.
type DrawConfig struct {
	MaxAttempts   int    `yaml:"max_attempts"`    // rolls before giving up
	AvoidHistory  bool   `yaml:"avoid_history"`   // reroll recent repeats, best effort
	RevealDelayMs int    `yaml:"reveal_delay_ms"` // cosmetic pause before showing a result
	Seed          uint64 `yaml:"seed"`            // 0 = random; anything else replays the same draws
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Theme string `yaml:"theme"` // classic, neon or mono
	Color string `yaml:"color"` // auto, always or never
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // empty = stderr
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{Backend: "json"},
		Draw: DrawConfig{
			MaxAttempts:   20,
			AvoidHistory:  true,
			RevealDelayMs: 500,
		},
		UI:  UIConfig{Theme: "classic", Color: "auto"},
		Log: LogConfig{Level: "warn"},
	}
}

// LoadFromFile loads configuration from path. A missing file yields the
// defaults. Environment overrides are applied after the file.
func LoadFromFile(path string) (*Config, error) {
	cfg, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ReadFile returns the defaults overlaid with path, without environment
// overrides or validation. `combo config set` edits this view so env values
// never leak into the file.
func ReadFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration to path, creating its directory.
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// RevealDelay is Draw.RevealDelayMs as a duration.
func (c *Config) RevealDelay() time.Duration {
	return time.Duration(c.Draw.RevealDelayMs) * time.Millisecond
}

// StatePath resolves the state file location for the configured backend.
func (c *Config) StatePath(p *Paths) string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	return store.DefaultPath(c.Storage.Backend, p.DataDir)
}

var (
	validBackends  = store.Backends()
	validThemes    = ui.Themes
	validColors    = []string{"auto", "always", "never"}
	validLogLevels = []string{"debug", "info", "warn", "error"}
)

// Validate checks that every field holds an accepted value.
func (c *Config) Validate() error {
	var errs []error
	if !slices.Contains(validBackends, c.Storage.Backend) {
		errs = append(errs, fmt.Errorf("storage.backend %q: must be one of %v", c.Storage.Backend, validBackends))
	}
	if c.Draw.MaxAttempts < 1 || c.Draw.MaxAttempts > 10000 {
		errs = append(errs, fmt.Errorf("draw.max_attempts %d: must be between 1 and 10000", c.Draw.MaxAttempts))
	}
	if c.Draw.RevealDelayMs < 0 || c.Draw.RevealDelayMs > 10000 {
		errs = append(errs, fmt.Errorf("draw.reveal_delay_ms %d: must be between 0 and 10000", c.Draw.RevealDelayMs))
	}
	if !slices.Contains(validThemes, c.UI.Theme) {
		errs = append(errs, fmt.Errorf("ui.theme %q: must be one of %v", c.UI.Theme, validThemes))
	}
	if !slices.Contains(validColors, c.UI.Color) {
		errs = append(errs, fmt.Errorf("ui.color %q: must be one of %v", c.UI.Color, validColors))
	}
	if !slices.Contains(validLogLevels, c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level %q: must be one of %v", c.Log.Level, validLogLevels))
	}
	return errors.Join(errs...)
}

// ApplyEnvOverrides applies environment variable overrides to the config.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("COMBO_BACKEND"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("COMBO_STATE"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("COMBO_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Draw.MaxAttempts = n
		}
	}
	if v := os.Getenv("COMBO_THEME"); v != "" {
		c.UI.Theme = strings.ToLower(v)
	}
	if v := os.Getenv("COMBO_LOG_LEVEL"); v != "" && slices.Contains(validLogLevels, v) {
		c.Log.Level = v
	}
	if v := os.Getenv("COMBO_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil && b {
			c.Log.Level = "debug"
		}
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		c.UI.Color = "never"
	}
}

type field struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

var fields = map[string]field{
	"storage.backend": {
		get: func(c *Config) string { return c.Storage.Backend },
		set: func(c *Config, v string) error { c.Storage.Backend = v; return nil },
	},
	"storage.path": {
		get: func(c *Config) string { return c.Storage.Path },
		set: func(c *Config, v string) error { c.Storage.Path = v; return nil },
	},
	"draw.max_attempts": {
		get: func(c *Config) string { return strconv.Itoa(c.Draw.MaxAttempts) },
		set: func(c *Config, v string) error { return setInt(&c.Draw.MaxAttempts, v) },
	},
	"draw.avoid_history": {
		get: func(c *Config) string { return strconv.FormatBool(c.Draw.AvoidHistory) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid boolean %q", v)
			}
			c.Draw.AvoidHistory = b
			return nil
		},
	},
	"draw.reveal_delay_ms": {
		get: func(c *Config) string { return strconv.Itoa(c.Draw.RevealDelayMs) },
		set: func(c *Config, v string) error { return setInt(&c.Draw.RevealDelayMs, v) },
	},
	"draw.seed": {
		get: func(c *Config) string { return strconv.FormatUint(c.Draw.Seed, 10) },
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid seed %q", v)
			}
			c.Draw.Seed = n
			return nil
		},
	},
	"ui.theme": {
		get: func(c *Config) string { return c.UI.Theme },
		set: func(c *Config, v string) error { c.UI.Theme = strings.ToLower(v); return nil },
	},
	"ui.color": {
		get: func(c *Config) string { return c.UI.Color },
		set: func(c *Config, v string) error { c.UI.Color = strings.ToLower(v); return nil },
	},
	"log.level": {
		get: func(c *Config) string { return c.Log.Level },
		set: func(c *Config, v string) error { c.Log.Level = strings.ToLower(v); return nil },
	},
	"log.file": {
		get: func(c *Config) string { return c.Log.File },
		set: func(c *Config, v string) error { c.Log.File = v; return nil },
	},
}

func setInt(dst *int, v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid integer %q", v)
	}
	*dst = n
	return nil
}

// Get retrieves a configuration value by dot-separated key, e.g. "draw.max_attempts".
func (c *Config) Get(key string) (string, error) {
	f, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("unknown key: %s", key)
	}
	return f.get(c), nil
}

// Set sets a configuration value by dot-separated key and validates the result.
// On error the config is left unchanged.
func (c *Config) Set(key, value string) error {
	f, ok := fields[key]
	if !ok {
		return fmt.Errorf("unknown key: %s", key)
	}
	next := *c
	if err := f.set(&next, value); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// ListKeys returns every settable key, sorted.
func ListKeys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
