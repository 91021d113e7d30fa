package config

import (
	"time"

	"github.com/jayseik/cinefill/internal/domain/entity"
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Control: ControlConfig{
			Listen:  "127.0.0.1:7733",
			Timeout: 2 * time.Second,
		},
		Engine: EngineConfig{
			RetryInterval:   1000 * time.Millisecond,
			FullscreenDelay: 200 * time.Millisecond,
			PlayDelay:       100 * time.Millisecond,
			ObserverRetry:   100 * time.Millisecond,
			AncestorDepth:   10,
			CallTimeout:     5 * time.Second,
		},
		Shortcuts: ShortcutsConfig{
			Toggle:   "Alt+Shift+U",
			Debounce: 250 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAge:     7 * 24 * time.Hour,
			Compress:   true,
		},
		Database: DatabaseConfig{
			PollInterval: 500 * time.Millisecond,
		},
		Defaults: DefaultsConfig{
			Enabled: false,
			Zoom:    entity.ZoomDefault,
		},
	}
}

// Settings returns the default global settings pair.
func (c *Config) Settings() entity.Settings {
	return entity.Settings{Enabled: c.Defaults.Enabled, Zoom: c.Defaults.Zoom}.Normalized()
}
