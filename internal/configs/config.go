package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/caarlos0/env/v9"

	werrors "github.com/PolarWolf314/wrench/internal/errors"
	"github.com/PolarWolf314/wrench/internal/utils"
)

type Config struct {
	Auth    AuthConfig    `toml:"auth" json:"auth"`
	Sharing SharingConfig `toml:"sharing" json:"sharing"`
}

type AuthConfig struct {
	ServerURL         string `toml:"server_url" json:"server_url" env:"WRENCH_SERVER_URL"`
	ServerFingerprint string `toml:"server_fingerprint" json:"server_fingerprint" env:"WRENCH_SERVER_FINGERPRINT"`
	HTTPUsername      string `toml:"http_username" json:"http_username" env:"WRENCH_HTTP_USERNAME"`
	HTTPPassword      string `toml:"http_password" json:"http_password" env:"WRENCH_HTTP_PASSWORD"`
	UserFingerprint   string `toml:"user_fingerprint" json:"user_fingerprint" env:"WRENCH_USER_FINGERPRINT"`
}

// SharingConfig holds comma separated usernames and group names.
type SharingConfig struct {
	DefaultOwners  string `toml:"default_owners" json:"default_owners" env:"WRENCH_DEFAULT_OWNERS"`
	DefaultReaders string `toml:"default_readers" json:"default_readers" env:"WRENCH_DEFAULT_READERS"`
}

// LoadConfig reads the configuration at path and applies environment
// overrides. It returns ErrConfigNotFound when the file does not exist.
func LoadConfig(path string) (*Config, error) {
	config := &Config{}

	if err := LoadTOML(path, config); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", werrors.ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", werrors.ErrInvalidConfig, path, err)
	}

	if err := ApplyEnv(config); err != nil {
		return nil, err
	}

	return config, nil
}

// ApplyEnv overrides values for which a WRENCH_* variable is set.
func ApplyEnv(config *Config) error {
	if err := env.Parse(config); err != nil {
		return fmt.Errorf("%w: %v", werrors.ErrInvalidConfig, err)
	}
	return nil
}

// SaveConfig writes the configuration to path.
func SaveConfig(path string, config *Config) error {
	if err := SaveTOML(path, config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// ConfigExists reports whether a configuration file is present at path.
func ConfigExists(path string) bool {
	return utils.FileExists(path)
}

// Validate checks the values needed to reach the server.
func (c *Config) Validate() error {
	var problems []string

	if !strings.HasPrefix(c.Auth.ServerURL, "http://") && !strings.HasPrefix(c.Auth.ServerURL, "https://") {
		problems = append(problems, "server_url must be an HTTP URL")
	}
	if c.Auth.ServerFingerprint == "" {
		problems = append(problems, "server_fingerprint is mandatory")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", werrors.ErrInvalidConfig, strings.Join(problems, ", "))
	}
	return nil
}
