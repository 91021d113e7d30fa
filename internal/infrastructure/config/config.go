// Package config loads cinefill's configuration with viper, watches it for
// changes and renders it as TOML or JSON schema.
package config

import "time"

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Config is the complete daemon and CLI configuration.
type Config struct {
	Chrome    ChromeConfig    `mapstructure:"chrome" toml:"chrome" json:"chrome"`
	Control   ControlConfig   `mapstructure:"control" toml:"control" json:"control"`
	Engine    EngineConfig    `mapstructure:"engine" toml:"engine" json:"engine"`
	Shortcuts ShortcutsConfig `mapstructure:"shortcuts" toml:"shortcuts" json:"shortcuts"`
	Logging   LoggingConfig   `mapstructure:"logging" toml:"logging" json:"logging"`
	Database  DatabaseConfig  `mapstructure:"database" toml:"database" json:"database"`
	Defaults  DefaultsConfig  `mapstructure:"defaults" toml:"defaults" json:"defaults"`
}

// ChromeConfig selects the browser the daemon drives.
type ChromeConfig struct {
	// CDPURL attaches to a running browser (ws:// or http:// DevTools endpoint).
	// When empty the daemon launches its own Chromium.
	CDPURL     string `mapstructure:"cdp_url" toml:"cdp_url" json:"cdp_url" jsonschema:"description=DevTools endpoint of a running browser"`
	Headless   bool   `mapstructure:"headless" toml:"headless" json:"headless"`
	Binary     string `mapstructure:"binary" toml:"binary" json:"binary" jsonschema:"description=Chromium executable to launch"`
	ProfileDir string `mapstructure:"profile_dir" toml:"profile_dir" json:"profile_dir"`
	StartURL   string `mapstructure:"start_url" toml:"start_url" json:"start_url"`
}

// ControlConfig configures the local control API.
type ControlConfig struct {
	Listen  string        `mapstructure:"listen" toml:"listen" json:"listen"`
	Timeout time.Duration `mapstructure:"timeout" toml:"timeout" json:"timeout"`
}

// EngineConfig tunes the per-page transform engine.
type EngineConfig struct {
	RetryInterval   time.Duration `mapstructure:"retry_interval" toml:"retry_interval" json:"retry_interval"`
	FullscreenDelay time.Duration `mapstructure:"fullscreen_delay" toml:"fullscreen_delay" json:"fullscreen_delay"`
	PlayDelay       time.Duration `mapstructure:"play_delay" toml:"play_delay" json:"play_delay"`
	ObserverRetry   time.Duration `mapstructure:"observer_retry" toml:"observer_retry" json:"observer_retry"`
	AncestorDepth   int           `mapstructure:"ancestor_depth" toml:"ancestor_depth" json:"ancestor_depth" jsonschema:"minimum=1,maximum=32"`
	CallTimeout     time.Duration `mapstructure:"call_timeout" toml:"call_timeout" json:"call_timeout"`
}

// ShortcutsConfig holds in-page keyboard shortcuts.
type ShortcutsConfig struct {
	// Toggle flips the global enabled flag. Empty disables it.
	Toggle   string        `mapstructure:"toggle" toml:"toggle" json:"toggle"`
	Debounce time.Duration `mapstructure:"debounce" toml:"debounce" json:"debounce"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level" toml:"level" json:"level" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error,enum=disabled"`
	Format string `mapstructure:"format" toml:"format" json:"format" jsonschema:"enum=console,enum=json"`

	// File additionally writes the daemon log as JSON under LogDir.
	File       bool          `mapstructure:"file" toml:"file" json:"file"`
	LogDir     string        `mapstructure:"log_dir" toml:"log_dir" json:"log_dir"`
	MaxSizeMB  int           `mapstructure:"max_size_mb" toml:"max_size_mb" json:"max_size_mb" jsonschema:"minimum=1"`
	MaxBackups int           `mapstructure:"max_backups" toml:"max_backups" json:"max_backups" jsonschema:"minimum=0"`
	MaxAge     time.Duration `mapstructure:"max_age" toml:"max_age" json:"max_age"`
	Compress   bool          `mapstructure:"compress" toml:"compress" json:"compress"`
}

// DatabaseConfig locates the settings store.
type DatabaseConfig struct {
	Path         string        `mapstructure:"path" toml:"path" json:"path"`
	PollInterval time.Duration `mapstructure:"poll_interval" toml:"poll_interval" json:"poll_interval"`
}

// DefaultsConfig seeds the global settings when nothing is stored yet.
type DefaultsConfig struct {
	Enabled bool    `mapstructure:"enabled" toml:"enabled" json:"enabled"`
	Zoom    float64 `mapstructure:"zoom" toml:"zoom" json:"zoom" jsonschema:"minimum=1,maximum=3"`
}
