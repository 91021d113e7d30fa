package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/jayseik/cinefill/internal/domain/entity"
)

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "warning": true,
	"error": true, "disabled": true, "off": true,
}

// validateConfig checks every section and reports all problems at once.
func validateConfig(config *Config) error {
	var validationErrors []string

	validationErrors = append(validationErrors, validateChrome(config)...)
	validationErrors = append(validationErrors, validateControl(config)...)
	validationErrors = append(validationErrors, validateEngine(config)...)
	validationErrors = append(validationErrors, validateShortcuts(config)...)
	validationErrors = append(validationErrors, validateLogging(config)...)
	validationErrors = append(validationErrors, validateDatabase(config)...)
	validationErrors = append(validationErrors, validateDefaults(config)...)

	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}
	return nil
}

func validateChrome(config *Config) []string {
	if config.Chrome.CDPURL == "" {
		return nil
	}
	u, err := url.Parse(config.Chrome.CDPURL)
	if err != nil || u.Host == "" {
		return []string{"chrome.cdp_url must be an absolute ws://, wss://, http:// or https:// URL"}
	}
	switch u.Scheme {
	case "ws", "wss", "http", "https":
		return nil
	default:
		return []string{"chrome.cdp_url must be an absolute ws://, wss://, http:// or https:// URL"}
	}
}

func validateControl(config *Config) []string {
	var validationErrors []string
	if _, _, err := net.SplitHostPort(config.Control.Listen); err != nil {
		validationErrors = append(validationErrors, "control.listen must be host:port")
	}
	if config.Control.Timeout <= 0 {
		validationErrors = append(validationErrors, "control.timeout must be positive")
	}
	return validationErrors
}

func validateEngine(config *Config) []string {
	var validationErrors []string
	e := config.Engine
	durations := []struct {
		name  string
		value time.Duration
	}{
		{"engine.retry_interval", e.RetryInterval},
		{"engine.fullscreen_delay", e.FullscreenDelay},
		{"engine.play_delay", e.PlayDelay},
		{"engine.observer_retry", e.ObserverRetry},
		{"engine.call_timeout", e.CallTimeout},
	}
	for _, d := range durations {
		if d.value <= 0 {
			validationErrors = append(validationErrors, d.name+" must be positive")
		}
	}
	if e.AncestorDepth < 1 || e.AncestorDepth > 32 {
		validationErrors = append(validationErrors, "engine.ancestor_depth must be between 1 and 32")
	}
	return validationErrors
}

func validateShortcuts(config *Config) []string {
	var validationErrors []string
	if config.Shortcuts.Toggle != "" && !strings.Contains(config.Shortcuts.Toggle, "+") {
		validationErrors = append(validationErrors, "shortcuts.toggle must combine a modifier and a key, e.g. Alt+Shift+U")
	}
	if config.Shortcuts.Debounce < 0 {
		validationErrors = append(validationErrors, "shortcuts.debounce must be non-negative")
	}
	return validationErrors
}

func validateLogging(config *Config) []string {
	var validationErrors []string
	if config.Logging.Level != "" && !validLogLevels[config.Logging.Level] {
		validationErrors = append(validationErrors,
			fmt.Sprintf("logging.level %q is not one of trace, debug, info, warn, error, disabled", config.Logging.Level))
	}
	if config.Logging.File {
		if config.Logging.MaxSizeMB < 1 {
			validationErrors = append(validationErrors, "logging.max_size_mb must be at least 1")
		}
		if config.Logging.MaxBackups < 0 {
			validationErrors = append(validationErrors, "logging.max_backups cannot be negative")
		}
		if config.Logging.MaxAge < 0 {
			validationErrors = append(validationErrors, "logging.max_age cannot be negative")
		}
	}
	return validationErrors
}

func validateDatabase(config *Config) []string {
	if config.Database.PollInterval <= 0 {
		return []string{"database.poll_interval must be positive"}
	}
	return nil
}

func validateDefaults(config *Config) []string {
	z := config.Defaults.Zoom
	if z < entity.ZoomMin || z > entity.ZoomMax {
		return []string{fmt.Sprintf("defaults.zoom must be between %.2f and %.2f", entity.ZoomMin, entity.ZoomMax)}
	}
	return nil
}
