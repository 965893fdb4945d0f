package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// ConfigPaths holds all relevant paths for the application
type ConfigPaths struct {
	BaseDir    string // Directory holding config.yaml and .env
	ConfigFile string // Path to the config file
	DataDir    string // Directory for application data
	DBFile     string // Path to database file
	LogDir     string // Directory for log files
	SocketPath string // Control socket of the running daemon
}

// GetConfigPaths returns the platform-specific paths. MINTCLIP_CONFIG_DIR
// and MINTCLIP_DATA_DIR override the defaults.
func GetConfigPaths() (*ConfigPaths, error) {
	baseDir := os.Getenv("MINTCLIP_CONFIG_DIR")
	if baseDir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		switch runtime.GOOS {
		case "windows":
			baseDir = filepath.Join(configDir, "Mintclip")
		case "darwin":
			baseDir = filepath.Join(configDir, "com.berrythewa.mintclip")
		default: // Linux and others
			baseDir = filepath.Join(configDir, "mintclip")
		}
	}

	dataDir := os.Getenv("MINTCLIP_DATA_DIR")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		switch runtime.GOOS {
		case "windows":
			dataDir = filepath.Join(homeDir, "AppData", "Local", "Mintclip")
		case "darwin":
			dataDir = filepath.Join(homeDir, "Library", "Application Support", "Mintclip")
		default:
			if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
				dataDir = filepath.Join(xdgDataHome, "mintclip")
			} else {
				dataDir = filepath.Join(homeDir, ".local", "share", "mintclip")
			}
		}
	}

	socketPath := filepath.Join(dataDir, "mintclip.sock")
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		socketPath = filepath.Join(runtimeDir, "mintclip.sock")
	}

	return &ConfigPaths{
		BaseDir:    baseDir,
		ConfigFile: filepath.Join(baseDir, "config.yaml"),
		DataDir:    dataDir,
		DBFile:     filepath.Join(dataDir, "history.db"),
		LogDir:     filepath.Join(dataDir, "logs"),
		SocketPath: socketPath,
	}, nil
}

// EnsureDirs creates the data and log directories
func (p *ConfigPaths) EnsureDirs() error {
	for _, dir := range []string{p.DataDir, p.LogDir} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return err
		}
	}
	return nil
}
