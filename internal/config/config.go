// Package config persists the two panels' state between runs: last visited
// directory and sort order per side, plus a few behavior knobs. The file is
// TOML under the user's config directory (~/.config/twc/config.toml).
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"twc/internal/panel"
	"twc/internal/transfer"
)

const (
	// ConfigDir is the subdirectory inside the user config directory.
	ConfigDir = "twc"
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "config.toml"

	// FallbackPath is listed when no path was persisted or the saved one
	// is unusable.
	FallbackPath = "/"
	// FallbackPredicate and FallbackDirection are the sort defaults; any
	// unknown persisted value decodes to these as well.
	FallbackPredicate = "name"
	FallbackDirection = "asc"
)

// PanelConfig is one panel's persisted state.
type PanelConfig struct {
	Path          string `toml:"path"`
	SortPredicate string `toml:"sort_predicate"`
	SortDirection string `toml:"sort_direction"`
}

// SortKey decodes the persisted sort strings, falling back to name/asc for
// anything unknown.
func (p PanelConfig) SortKey() panel.SortKey {
	return panel.SortKey{
		Predicate: panel.ParsePredicate(p.SortPredicate),
		Direction: panel.ParseDirection(p.SortDirection),
	}
}

// SetSortKey stores key in its lowercase string encoding.
func (p *PanelConfig) SetSortKey(key panel.SortKey) {
	p.SortPredicate = key.Predicate.String()
	p.SortDirection = key.Direction.String()
}

// Settings are behavior knobs shared by both panels.
type Settings struct {
	ShowHidden     bool `toml:"show_hidden"`
	CopyBufferSize int  `toml:"copy_buffer_size"`
	TickIntervalMs int  `toml:"tick_interval_ms"`
}

// Config is the whole persisted state.
type Config struct {
	Left     PanelConfig `toml:"left_panel"`
	Right    PanelConfig `toml:"right_panel"`
	Settings Settings    `toml:"settings"`
}

// Default returns a configuration with safe fallback values.
func Default() *Config {
	panelDefault := PanelConfig{
		Path:          FallbackPath,
		SortPredicate: FallbackPredicate,
		SortDirection: FallbackDirection,
	}
	return &Config{
		Left:  panelDefault,
		Right: panelDefault,
		Settings: Settings{
			CopyBufferSize: transfer.DefaultBufferSize,
			TickIntervalMs: 60,
		},
	}
}

// Load reads the configuration from path. A missing file is not an error:
// defaults are returned so a first run works without setup. Values absent
// from the file keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	cfg.applyFallbacks()
	return cfg, nil
}

// LoadDefault loads from the default location.
func LoadDefault() (*Config, error) {
	return Load(DefaultPath())
}

// Save writes the configuration to path, creating parent directories as
// needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return f.Close()
}

// SaveDefault writes to the default location.
func (c *Config) SaveDefault() error {
	return c.Save(DefaultPath())
}

// DefaultPath returns the config file location, falling back to the working
// directory when the user config directory is unavailable.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ConfigFileName
	}
	return filepath.Join(configDir, ConfigDir, ConfigFileName)
}

func (c *Config) applyFallbacks() {
	for _, p := range []*PanelConfig{&c.Left, &c.Right} {
		if p.Path == "" {
			p.Path = FallbackPath
		}
		if p.SortPredicate == "" {
			p.SortPredicate = FallbackPredicate
		}
		if p.SortDirection == "" {
			p.SortDirection = FallbackDirection
		}
	}
	if c.Settings.CopyBufferSize <= 0 {
		c.Settings.CopyBufferSize = transfer.DefaultBufferSize
	}
	if c.Settings.TickIntervalMs <= 0 {
		c.Settings.TickIntervalMs = 60
	}
}
