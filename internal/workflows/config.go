package workflows

import (
	"context"
	"errors"

	"github.com/PolarWolf314/wrench/internal/configs"
	werrors "github.com/PolarWolf314/wrench/internal/errors"
)

// LoadConfigOptions configures LoadConfig.
type LoadConfigOptions struct {
	Settings *configs.Settings
}

// LoadConfigResult contains the loaded configuration.
type LoadConfigResult struct {
	Config *configs.Config

	// Migrated is set when a legacy config.ini was converted.
	Migrated *configs.MigrationResult
}

// LoadConfig reads the configuration, converting a legacy config.ini first
// when that is all there is.
//
// Returns ErrConfigNotFound if there is no configuration at all.
func LoadConfig(ctx context.Context, opts LoadConfigOptions) (*LoadConfigResult, error) {
	result := &LoadConfigResult{}

	if configs.IsLegacyConfig(opts.Settings) {
		migrated, err := configs.MigrateLegacyConfig(opts.Settings)
		if err != nil {
			return nil, err
		}
		result.Migrated = migrated
	}

	config, err := configs.LoadConfig(opts.Settings.ConfigPath)
	if err != nil {
		return nil, err
	}
	result.Config = config
	return result, nil
}

// ConfigInitOptions configures the config init workflow.
type ConfigInitOptions struct {
	Settings *configs.Settings
	Config   *configs.Config
}

// ConfigInit validates and saves a configuration.
//
// Returns ErrInvalidConfig if the server URL or fingerprint is missing.
func ConfigInit(ctx context.Context, opts ConfigInitOptions) error {
	if err := opts.Config.Validate(); err != nil {
		return err
	}
	return configs.SaveConfig(opts.Settings.ConfigPath, opts.Config)
}

// ExistingConfig returns the saved configuration, or nil if there is none.
func ExistingConfig(settings *configs.Settings) (*configs.Config, error) {
	config, err := configs.LoadConfig(settings.ConfigPath)
	if errors.Is(err, werrors.ErrConfigNotFound) {
		return nil, nil
	}
	return config, err
}

// MaskedConfig returns a copy of config safe for display.
func MaskedConfig(config *configs.Config) *configs.Config {
	masked := *config
	if masked.Auth.HTTPPassword != "" {
		masked.Auth.HTTPPassword = "********"
	}
	return &masked
}
