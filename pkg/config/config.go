// Package config handles loading and saving tv configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/tv/config.yaml
//
// A missing file is not an error; DefaultConfig is used instead.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const appName = "tv"

// Start corners for the tree widget.
const (
	CornerTopLeft    = "top-left"
	CornerBottomLeft = "bottom-left"
)

// UIConfig holds widget and layout preferences.
type UIConfig struct {
	HighlightSymbol string `yaml:"highlight_symbol,omitempty"` // Drawn in front of the selected row
	StartCorner     string `yaml:"start_corner,omitempty"`     // top-left or bottom-left
	Border          bool   `yaml:"border"`                     // Surround the tree with a rounded border
	Title           string `yaml:"title,omitempty"`            // Border title; defaults to the loaded path
	Indent          int    `yaml:"indent,omitempty"`           // Cells per depth level (default 2)
	Preview         bool   `yaml:"preview"`                    // Show the preview pane on start
	PreviewWidth    int    `yaml:"preview_width,omitempty"`    // Percent of the width given to the preview (10-80)
}

// KeysConfig maps commands to key names as reported by bubbletea
// (e.g. "up", "k", "ctrl+c"). An empty list keeps the default binding.
type KeysConfig struct {
	Up       []string `yaml:"up,omitempty"`
	Down     []string `yaml:"down,omitempty"`
	Left     []string `yaml:"left,omitempty"`
	Right    []string `yaml:"right,omitempty"`
	Toggle   []string `yaml:"toggle,omitempty"`
	First    []string `yaml:"first,omitempty"`
	Last     []string `yaml:"last,omitempty"`
	PageUp   []string `yaml:"page_up,omitempty"`
	PageDown []string `yaml:"page_down,omitempty"`
	OpenAll  []string `yaml:"open_all,omitempty"`
	CloseAll []string `yaml:"close_all,omitempty"`
	Copy     []string `yaml:"copy,omitempty"`
	Preview  []string `yaml:"preview,omitempty"`
	Find     []string `yaml:"find,omitempty"`
	Reload   []string `yaml:"reload,omitempty"`
	Help     []string `yaml:"help,omitempty"`
	Quit     []string `yaml:"quit,omitempty"`
}

// LoaderConfig controls how directory trees are built.
type LoaderConfig struct {
	MaxDepth   int      `yaml:"max_depth,omitempty"` // How deep to scan (default 6)
	ShowHidden bool     `yaml:"show_hidden"`         // Include dot-files
	DirsFirst  bool     `yaml:"dirs_first"`          // Sort directories before files
	Workers    int      `yaml:"workers,omitempty"`   // Concurrent subtree scans (default 4)
	Ignore     []string `yaml:"ignore,omitempty"`    // Base names to skip (e.g. .git, node_modules)
}

// WatchConfig controls live reload of the loaded path.
type WatchConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Debounce     time.Duration `yaml:"debounce,omitempty"`
	PollInterval time.Duration `yaml:"poll_interval,omitempty"`
	ForcePoll    bool          `yaml:"force_poll,omitempty"`
}

// Config is the top-level configuration for tv.
type Config struct {
	UI     UIConfig     `yaml:"ui,omitempty"`
	Keys   KeysConfig   `yaml:"keys,omitempty"`
	Loader LoaderConfig `yaml:"loader,omitempty"`
	Watch  WatchConfig  `yaml:"watch,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		UI: UIConfig{
			HighlightSymbol: ">> ",
			StartCorner:     CornerTopLeft,
			Border:          true,
			Indent:          2,
			PreviewWidth:    40,
		},
		Loader: LoaderConfig{
			MaxDepth:  6,
			DirsFirst: true,
			Workers:   4,
			Ignore:    []string{".git", "node_modules"},
		},
		Watch: WatchConfig{
			Enabled:      true,
			Debounce:     200 * time.Millisecond,
			PollInterval: 2 * time.Second,
		},
	}
}

// ConfigDir returns the XDG config directory for tv.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist. Fields missing from the
// file keep their default values.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(expandHome(path))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), err
	}
	cfg.normalize()
	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Validate reports values that cannot be used.
func (c Config) Validate() error {
	switch c.UI.StartCorner {
	case "", CornerTopLeft, CornerBottomLeft:
	default:
		return fmt.Errorf("invalid ui.start_corner %q (want %s or %s)", c.UI.StartCorner, CornerTopLeft, CornerBottomLeft)
	}
	if c.UI.Indent < 0 {
		return fmt.Errorf("invalid ui.indent %d", c.UI.Indent)
	}
	if c.UI.PreviewWidth != 0 && (c.UI.PreviewWidth < 10 || c.UI.PreviewWidth > 80) {
		return fmt.Errorf("invalid ui.preview_width %d (want 10-80)", c.UI.PreviewWidth)
	}
	if c.Loader.MaxDepth < 0 {
		return fmt.Errorf("invalid loader.max_depth %d", c.Loader.MaxDepth)
	}
	if c.Watch.Debounce < 0 || c.Watch.PollInterval < 0 {
		return fmt.Errorf("watch durations must not be negative")
	}
	return nil
}

// normalize fills zero values that have a meaningful default.
func (c *Config) normalize() {
	def := DefaultConfig()
	if c.UI.StartCorner == "" {
		c.UI.StartCorner = def.UI.StartCorner
	}
	if c.UI.PreviewWidth == 0 {
		c.UI.PreviewWidth = def.UI.PreviewWidth
	}
	if c.Loader.Workers <= 0 {
		c.Loader.Workers = def.Loader.Workers
	}
	if c.Watch.Debounce == 0 {
		c.Watch.Debounce = def.Watch.Debounce
	}
	if c.Watch.PollInterval == 0 {
		c.Watch.PollInterval = def.Watch.PollInterval
	}
}

// ExpandHome expands a leading ~ to the user's home directory.
func ExpandHome(path string) string {
	return expandHome(path)
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
