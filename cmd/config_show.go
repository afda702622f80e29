package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/PolarWolf314/wrench/internal/configs"
	"github.com/PolarWolf314/wrench/internal/ui"
	"github.com/PolarWolf314/wrench/internal/workflows"
	"github.com/spf13/cobra"
)

var configShowJSON bool

func init() {
	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "output in JSON format")
}

// resetConfigShowState resets the config show command's global state for testing.
func resetConfigShowState() {
	configShowJSON = false
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	Long: `Displays the current wrench configuration, with WRENCH_* environment
overrides applied. The HTTP password is masked.

Examples:
  wrench config show
  wrench config show --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config show command")
		settings := configs.WrenchSettings

		config, err := workflows.ExistingConfig(settings)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to load config: %v", err)
		}

		if config == nil {
			Logger.Infof("No configuration found at %s", settings.ConfigPath)
			if configShowJSON {
				fmt.Println("{}")
				return nil
			}
			fmt.Println(ui.Warning.Sprint("⚠") + " No configuration found.")
			fmt.Println()
			fmt.Println(ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("wrench config init") + " to create one")
			return nil
		}

		masked := workflows.MaskedConfig(config)
		if configShowJSON {
			output, err := json.MarshalIndent(masked, "", "  ")
			if err != nil {
				return Logger.ErrorfAndReturn("Failed to marshal config to JSON: %v", err)
			}
			fmt.Println(string(output))
			return nil
		}

		fmt.Println(ui.Info.Sprint("Configuration") + " (" + settings.ConfigPath + "):")
		fmt.Println()
		return toml.NewEncoder(os.Stdout).Encode(masked)
	},
}
