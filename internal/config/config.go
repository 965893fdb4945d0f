package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. MINTCLIP_LOG_LEVEL
const EnvPrefix = "MINTCLIP"

// Config holds all application configuration
type Config struct {
	LogLevel string    `yaml:"log_level" mapstructure:"log_level"`
	Log      LogConfig `yaml:"log" mapstructure:"log"`

	// PollingInterval is the clipboard poll period in milliseconds
	PollingInterval int64 `yaml:"polling_interval" mapstructure:"polling_interval"`

	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`
	Panel   PanelConfig   `yaml:"panel" mapstructure:"panel"`
	Paste   PasteConfig   `yaml:"paste" mapstructure:"paste"`
	IPC     IPCConfig     `yaml:"ipc" mapstructure:"ipc"`

	SystemPaths ConfigPaths `yaml:"-" mapstructure:"-"`
}

// LogConfig holds logging-related configuration
type LogConfig struct {
	File   bool   `yaml:"file" mapstructure:"file"`
	Format string `yaml:"format" mapstructure:"format"` // "auto", "console" or "json"
}

// StorageConfig holds storage-related configuration
type StorageConfig struct {
	DBPath            string `yaml:"db_path" mapstructure:"db_path"`
	MaxUnpinned       int    `yaml:"max_unpinned" mapstructure:"max_unpinned"`
	CompressThreshold int    `yaml:"compress_threshold" mapstructure:"compress_threshold"`
}

// PanelConfig holds popup panel settings
type PanelConfig struct {
	Width         int   `yaml:"width" mapstructure:"width"`
	Height        int   `yaml:"height" mapstructure:"height"`
	PreviewLength int   `yaml:"preview_length" mapstructure:"preview_length"`
	FeedbackMS    int64 `yaml:"feedback_ms" mapstructure:"feedback_ms"`
	PasteDelayMS  int64 `yaml:"paste_delay_ms" mapstructure:"paste_delay_ms"`
}

// PasteConfig controls keystroke simulation after a copy
type PasteConfig struct {
	Enabled  bool       `yaml:"enabled" mapstructure:"enabled"`
	Commands [][]string `yaml:"commands" mapstructure:"commands"`
}

// IPCConfig holds the control socket settings
type IPCConfig struct {
	SocketPath string `yaml:"socket_path" mapstructure:"socket_path"`
}

// DefaultConfig returns a new Config with default values
func DefaultConfig() *Config {
	paths, err := GetConfigPaths()
	if err != nil {
		// no home directory; keep everything relative to the working dir
		paths = &ConfigPaths{
			BaseDir:    ".",
			ConfigFile: "config.yaml",
			DataDir:    ".",
			DBFile:     "history.db",
			LogDir:     "logs",
			SocketPath: "mintclip.sock",
		}
	}
	return defaultConfig(paths)
}

func defaultConfig(paths *ConfigPaths) *Config {
	return &Config{
		LogLevel: "info",
		Log: LogConfig{
			File:   false,
			Format: "auto",
		},
		PollingInterval: 500,
		Storage: StorageConfig{
			DBPath:            paths.DBFile,
			MaxUnpinned:       50,
			CompressThreshold: 1024,
		},
		Panel: PanelConfig{
			Width:         360,
			Height:        480,
			PreviewLength: 150,
			FeedbackMS:    2000,
			PasteDelayMS:  100,
		},
		Paste: PasteConfig{
			Enabled: true,
			Commands: [][]string{
				{"xdotool", "key", "ctrl+v"},
				{"ydotool", "key", "ctrl+v"},
			},
		},
		IPC: IPCConfig{
			SocketPath: paths.SocketPath,
		},
		SystemPaths: *paths,
	}
}

// Load reads configuration with precedence defaults, config file, .env,
// MINTCLIP_* environment. An empty configPath means the default location.
// A missing file is not an error.
func Load(configPath string) (*Config, error) {
	paths, err := GetConfigPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config paths: %w", err)
	}
	if configPath == "" {
		configPath = paths.ConfigFile
	} else {
		paths.BaseDir = filepath.Dir(configPath)
		paths.ConfigFile = configPath
	}

	// .env values never override variables already set in the environment
	if err := godotenv.Load(filepath.Join(paths.BaseDir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v, defaultConfig(paths))

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.SystemPaths = *paths

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("polling_interval", d.PollingInterval)
	v.SetDefault("storage.db_path", d.Storage.DBPath)
	v.SetDefault("storage.max_unpinned", d.Storage.MaxUnpinned)
	v.SetDefault("storage.compress_threshold", d.Storage.CompressThreshold)
	v.SetDefault("panel.width", d.Panel.Width)
	v.SetDefault("panel.height", d.Panel.Height)
	v.SetDefault("panel.preview_length", d.Panel.PreviewLength)
	v.SetDefault("panel.feedback_ms", d.Panel.FeedbackMS)
	v.SetDefault("panel.paste_delay_ms", d.Panel.PasteDelayMS)
	v.SetDefault("paste.enabled", d.Paste.Enabled)
	v.SetDefault("paste.commands", d.Paste.Commands)
	v.SetDefault("ipc.socket_path", d.IPC.SocketPath)
}

// Validate rejects values the daemon cannot run with
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	switch c.Log.Format {
	case "auto", "console", "json":
	default:
		return fmt.Errorf("invalid log.format %q", c.Log.Format)
	}
	if c.PollingInterval < 50 {
		return fmt.Errorf("polling_interval must be at least 50ms, got %d", c.PollingInterval)
	}
	if c.Storage.DBPath == "" {
		return errors.New("storage.db_path must not be empty")
	}
	if c.Storage.MaxUnpinned <= 0 {
		return fmt.Errorf("storage.max_unpinned must be positive, got %d", c.Storage.MaxUnpinned)
	}
	if c.Panel.Width <= 0 || c.Panel.Height <= 0 {
		return fmt.Errorf("invalid panel size %dx%d", c.Panel.Width, c.Panel.Height)
	}
	if c.IPC.SocketPath == "" {
		return errors.New("ipc.socket_path must not be empty")
	}
	return nil
}

// Save writes the configuration as YAML
func (c *Config) Save(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// PollInterval returns PollingInterval as a duration
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollingInterval) * time.Millisecond
}

// FeedbackDuration returns how long feedback banners stay up
func (p PanelConfig) FeedbackDuration() time.Duration {
	return time.Duration(p.FeedbackMS) * time.Millisecond
}

// PasteDelay returns the wait between hiding the panel and pasting
func (p PanelConfig) PasteDelay() time.Duration {
	return time.Duration(p.PasteDelayMS) * time.Millisecond
}
