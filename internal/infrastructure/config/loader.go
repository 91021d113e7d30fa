package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

const envPrefix = "CINEFILL"

var envKeyReplacer = strings.NewReplacer(".", "_")

// envOverrides holds the keys read from a shorter variable than
// CINEFILL_<SECTION>_<KEY>.
var envOverrides = map[string]string{
	"logging.level":  "CINEFILL_LOG_LEVEL",
	"logging.format": "CINEFILL_LOG_FORMAT",
}

// EnvVar returns the environment variable that overrides key.
func EnvVar(key string) string {
	if env, ok := envOverrides[key]; ok {
		return env
	}
	return envPrefix + "_" + strings.ToUpper(envKeyReplacer.Replace(key))
}

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config    *Config
	viper     *viper.Viper
	file      string
	mu        sync.RWMutex
	callbacks []func(*Config)
	watching  bool
}

// NewManager creates a configuration manager. An explicit file overrides the
// XDG location.
func NewManager(file string) (*Manager, error) {
	v := viper.New()
	v.SetConfigType("toml")

	if file != "" {
		v.SetConfigFile(file)
	} else {
		configDir, err := GetConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to determine config directory: %w\nCheck XDG_CONFIG_HOME environment variable or HOME directory", err)
		}
		v.SetConfigName("config")
		v.AddConfigPath(configDir)
		file = filepath.Join(configDir, configName)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	for key, env := range envOverrides {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	return &Manager{viper: v, file: file}, nil
}

// Load reads the configuration file, creating it with defaults on first run,
// and merges environment overrides.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to ensure directories: %w", err)
	}

	m.setDefaults()
	if err := m.readConfigFile(); err != nil {
		return err
	}
	return m.apply()
}

func (m *Manager) readConfigFile() error {
	err := m.viper.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to read config file at %s: %w\nCheck the file format (must be valid TOML) and permissions", m.file, err)
	}
	if err := m.createDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create default config at %s: %w", m.file, err)
	}
	if err := m.viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read newly created config file: %w", err)
	}
	return nil
}

// apply decodes, normalizes and validates viper's state. Must be called with
// the lock held for write.
func (m *Manager) apply() error {
	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return fmt.Errorf(
			"failed to parse config file at %s: %w\nCheck for syntax errors, invalid values, or type mismatches",
			m.viper.ConfigFileUsed(), err,
		)
	}
	if err := ensurePaths(config); err != nil {
		return err
	}
	normalizeConfig(config)

	if err := validateConfig(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	m.config = config
	return nil
}

func ensurePaths(config *Config) error {
	if config.Database.Path == "" {
		dbPath, err := GetDatabaseFile()
		if err != nil {
			return fmt.Errorf("failed to get database path: %w", err)
		}
		config.Database.Path = dbPath
	}
	if config.Logging.LogDir == "" {
		logDir, err := GetLogDir()
		if err != nil {
			return fmt.Errorf("failed to get log directory: %w", err)
		}
		config.Logging.LogDir = logDir
	}
	if config.Chrome.CDPURL == "" && config.Chrome.ProfileDir == "" {
		profileDir, err := GetProfileDir()
		if err != nil {
			return fmt.Errorf("failed to get profile path: %w", err)
		}
		config.Chrome.ProfileDir = profileDir
	}
	return nil
}

func normalizeConfig(config *Config) {
	config.Logging.Level = strings.ToLower(strings.TrimSpace(config.Logging.Level))
	switch strings.ToLower(config.Logging.Format) {
	case "json":
		config.Logging.Format = "json"
	default:
		config.Logging.Format = "console"
	}
	config.Chrome.CDPURL = strings.TrimSpace(config.Chrome.CDPURL)
	config.Shortcuts.Toggle = strings.TrimSpace(config.Shortcuts.Toggle)
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return DefaultConfig()
	}
	configCopy := *m.config
	return &configCopy
}

// ConfigFile returns the path of the configuration file.
func (m *Manager) ConfigFile() string {
	if used := m.viper.ConfigFileUsed(); used != "" {
		return used
	}
	return m.file
}

// Effective returns the merged settings (file, environment and defaults)
// keyed by section.
func (m *Manager) Effective() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.viper.AllSettings()
}

func (m *Manager) createDefaultConfig() error {
	if err := os.MkdirAll(filepath.Dir(m.file), dirPerm); err != nil {
		return err
	}
	if err := WriteConfig(DefaultConfig(), m.file); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Created default configuration file: %s\n", m.file)
	return nil
}

// setDefaults registers built-in values with viper. Durations are registered
// as strings so they round-trip through TOML unchanged.
func (m *Manager) setDefaults() {
	d := DefaultConfig()

	m.viper.SetDefault("chrome.cdp_url", d.Chrome.CDPURL)
	m.viper.SetDefault("chrome.headless", d.Chrome.Headless)
	m.viper.SetDefault("chrome.binary", d.Chrome.Binary)
	m.viper.SetDefault("chrome.profile_dir", d.Chrome.ProfileDir)
	m.viper.SetDefault("chrome.start_url", d.Chrome.StartURL)

	m.viper.SetDefault("control.listen", d.Control.Listen)
	m.viper.SetDefault("control.timeout", d.Control.Timeout.String())

	m.viper.SetDefault("engine.retry_interval", d.Engine.RetryInterval.String())
	m.viper.SetDefault("engine.fullscreen_delay", d.Engine.FullscreenDelay.String())
	m.viper.SetDefault("engine.play_delay", d.Engine.PlayDelay.String())
	m.viper.SetDefault("engine.observer_retry", d.Engine.ObserverRetry.String())
	m.viper.SetDefault("engine.ancestor_depth", d.Engine.AncestorDepth)
	m.viper.SetDefault("engine.call_timeout", d.Engine.CallTimeout.String())

	m.viper.SetDefault("shortcuts.toggle", d.Shortcuts.Toggle)
	m.viper.SetDefault("shortcuts.debounce", d.Shortcuts.Debounce.String())

	m.viper.SetDefault("logging.level", d.Logging.Level)
	m.viper.SetDefault("logging.format", d.Logging.Format)
	m.viper.SetDefault("logging.file", d.Logging.File)
	m.viper.SetDefault("logging.log_dir", d.Logging.LogDir)
	m.viper.SetDefault("logging.max_size_mb", d.Logging.MaxSizeMB)
	m.viper.SetDefault("logging.max_backups", d.Logging.MaxBackups)
	m.viper.SetDefault("logging.max_age", d.Logging.MaxAge.String())
	m.viper.SetDefault("logging.compress", d.Logging.Compress)

	m.viper.SetDefault("database.path", d.Database.Path)
	m.viper.SetDefault("database.poll_interval", d.Database.PollInterval.String())

	m.viper.SetDefault("defaults.enabled", d.Defaults.Enabled)
	m.viper.SetDefault("defaults.zoom", d.Defaults.Zoom)
}
