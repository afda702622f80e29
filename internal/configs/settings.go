package configs

import (
	"fmt"
	"os"
	"path/filepath"
)

const appName = "wrench"

type Settings struct {
	ConfigDir        string
	DataDir          string
	ConfigPath       string
	LegacyConfigPath string
	PrivateKeyPath   string
	AuditLogPath     string
}

// WrenchSettings is resolved at startup from the environment.
var WrenchSettings *Settings

func init() {
	settings, err := DefaultSettings()
	if err != nil {
		// Without a home directory, paths are relative to the working directory.
		WrenchSettings = NewSettings(appName, appName)
		return
	}
	WrenchSettings = settings
}

// DefaultSettings computes paths from XDG_CONFIG_HOME and XDG_DATA_HOME,
// falling back to ~/.config and ~/.local/share.
func DefaultSettings() (*Settings, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	dataHome := os.Getenv("XDG_DATA_HOME")

	if configHome == "" || dataHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("error getting home directory: %w", err)
		}
		if configHome == "" {
			configHome = filepath.Join(homeDir, ".config")
		}
		if dataHome == "" {
			dataHome = filepath.Join(homeDir, ".local", "share")
		}
	}

	return NewSettings(filepath.Join(configHome, appName), filepath.Join(dataHome, appName)), nil
}

// NewSettings derives every path from a config and a data directory.
func NewSettings(configDir, dataDir string) *Settings {
	return &Settings{
		ConfigDir:        configDir,
		DataDir:          dataDir,
		ConfigPath:       filepath.Join(configDir, "config.toml"),
		LegacyConfigPath: filepath.Join(configDir, "config.ini"),
		PrivateKeyPath:   filepath.Join(dataDir, "private.asc"),
		AuditLogPath:     filepath.Join(dataDir, "audit.jsonl"),
	}
}
