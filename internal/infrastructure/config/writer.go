package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// WriteConfig writes cfg to path as TOML.
func WriteConfig(cfg *Config, path string) error {
	data, err := Render(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Render encodes cfg as TOML. Durations are written as Go duration strings
// ("250ms") rather than nanosecond integers.
func Render(cfg *Config) ([]byte, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	return RenderMap(configMap(cfg))
}

// RenderMap encodes a settings tree as TOML with tables sorted by name.
func RenderMap(settings map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(settings); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}

func configMap(c *Config) map[string]any {
	return map[string]any{
		"chrome": map[string]any{
			"cdp_url":     c.Chrome.CDPURL,
			"headless":    c.Chrome.Headless,
			"binary":      c.Chrome.Binary,
			"profile_dir": c.Chrome.ProfileDir,
			"start_url":   c.Chrome.StartURL,
		},
		"control": map[string]any{
			"listen":  c.Control.Listen,
			"timeout": c.Control.Timeout.String(),
		},
		"engine": map[string]any{
			"retry_interval":   c.Engine.RetryInterval.String(),
			"fullscreen_delay": c.Engine.FullscreenDelay.String(),
			"play_delay":       c.Engine.PlayDelay.String(),
			"observer_retry":   c.Engine.ObserverRetry.String(),
			"ancestor_depth":   c.Engine.AncestorDepth,
			"call_timeout":     c.Engine.CallTimeout.String(),
		},
		"shortcuts": map[string]any{
			"toggle":   c.Shortcuts.Toggle,
			"debounce": c.Shortcuts.Debounce.String(),
		},
		"logging": map[string]any{
			"level":       c.Logging.Level,
			"format":      c.Logging.Format,
			"file":        c.Logging.File,
			"log_dir":     c.Logging.LogDir,
			"max_size_mb": c.Logging.MaxSizeMB,
			"max_backups": c.Logging.MaxBackups,
			"max_age":     c.Logging.MaxAge.String(),
			"compress":    c.Logging.Compress,
		},
		"database": map[string]any{
			"path":          c.Database.Path,
			"poll_interval": c.Database.PollInterval.String(),
		},
		"defaults": map[string]any{
			"enabled": c.Defaults.Enabled,
			"zoom":    c.Defaults.Zoom,
		},
	}
}
