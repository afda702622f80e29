package cmd

import (
	"github.com/spf13/cobra"
)

// ConfigCmd is the top-level config command.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage wrench configuration",
	Long: `Provides commands for managing the wrench configuration file.

Use these commands to:
  - Create or update the configuration (config init)
  - Display the current configuration (config show)

Examples:
  # Run the configuration wizard
  wrench config init

  # Show the configuration, with the HTTP password masked
  wrench config show`,
}

func init() {
	ConfigCmd.AddCommand(configInitCmd)
	ConfigCmd.AddCommand(configShowCmd)
}

// GetConfigCmd returns the ConfigCmd for testing.
func GetConfigCmd() *cobra.Command {
	return ConfigCmd
}
