package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/ini.v1"

	werrors "github.com/PolarWolf314/wrench/internal/errors"
)

// MigrationResult describes a converted legacy configuration.
type MigrationResult struct {
	Config     *Config
	BackupPath string
}

// IsLegacyConfig reports whether settings point to a config.ini without a
// config.toml next to it.
func IsLegacyConfig(settings *Settings) bool {
	if ConfigExists(settings.ConfigPath) {
		return false
	}
	return ConfigExists(settings.LegacyConfigPath)
}

// MigrateLegacyConfig converts config.ini to config.toml. The ini file is
// renamed with a timestamped .bak suffix.
func MigrateLegacyConfig(settings *Settings) (*MigrationResult, error) {
	if !IsLegacyConfig(settings) {
		return nil, fmt.Errorf("no legacy configuration at %s", settings.LegacyConfigPath)
	}

	file, err := loadINI(settings.LegacyConfigPath)
	if err != nil {
		return nil, err
	}

	auth := file.Section("auth")
	sharing := file.Section("sharing")
	config := &Config{
		Auth: AuthConfig{
			ServerURL:         auth.Key("server_url").String(),
			ServerFingerprint: auth.Key("server_fingerprint").String(),
			HTTPUsername:      auth.Key("http_username").String(),
			HTTPPassword:      auth.Key("http_password").String(),
			UserFingerprint:   auth.Key("user_fingerprint").String(),
		},
		Sharing: SharingConfig{
			DefaultOwners:  sharing.Key("default_owners").String(),
			DefaultReaders: sharing.Key("default_readers").String(),
		},
	}

	if err := SaveConfig(settings.ConfigPath, config); err != nil {
		return nil, err
	}

	backupPath := settings.LegacyConfigPath + "." + time.Now().Format("20060102-150405") + ".bak"
	if err := os.Rename(settings.LegacyConfigPath, backupPath); err != nil {
		return nil, fmt.Errorf("failed to back up legacy config: %w", err)
	}

	return &MigrationResult{Config: config, BackupPath: backupPath}, nil
}

// loadINI reads the ini file older versions wrote. Keys and sections are
// case insensitive. An [auth] section is required.
func loadINI(path string) (*ini.File, error) {
	file, err := ini.LoadSources(ini.LoadOptions{
		Insensitive:                true,
		IgnoreInlineComment:        true,
		AllowPythonMultilineValues: true,
	}, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to open legacy config: %w", err)
		}
		return nil, fmt.Errorf("%w: %s: %v", werrors.ErrInvalidConfig, path, err)
	}

	if _, err := file.GetSection("auth"); err != nil {
		return nil, fmt.Errorf("%w: %s has no [auth] section", werrors.ErrInvalidConfig, path)
	}
	return file, nil
}
