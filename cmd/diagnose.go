package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/PolarWolf314/wrench/internal/configs"
	"github.com/PolarWolf314/wrench/internal/gpg"
	"github.com/PolarWolf314/wrench/internal/ui"
	"github.com/PolarWolf314/wrench/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	diagnoseJSONOutput bool

	// diagnoseServer replaces the server checked by diagnose. Can be
	// overridden for testing.
	diagnoseServer workflows.ServerKeyVerifier
)

func init() {
	diagnoseCmd.Flags().BoolVar(&diagnoseJSONOutput, "json", false, "output in JSON format")
}

func resetDiagnoseCommandState() {
	diagnoseJSONOutput = false
	diagnoseServer = nil
}

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Run various checks to test wrench installation status",
	Long: `Runs a series of checks on the wrench installation and reports issues.

The diagnose command checks:
  - Wrench and OpenPGP library versions
  - Configuration validity
  - User secret key existence
  - Encryption and decryption with the user key
  - Connection to the server and its key fingerprint
  - Encryption with the server key

It never logs in. Exits with status 1 when a check fails.
Use --json for machine-readable output.`,
	Args: cobra.NoArgs,
	RunE: runDiagnose,
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting diagnose command")
	settings := configs.WrenchSettings

	config, err := workflows.ExistingConfig(settings)
	if err != nil {
		Logger.Warnf("Could not read configuration: %v", err)
		config = nil
	}

	result, err := workflows.Diagnose(context.Background(), workflows.DiagnoseOptions{
		Version:    WrenchCmd.Version,
		Config:     config,
		KeyPath:    settings.PrivateKeyPath,
		Passphrase: gpg.PromptPassphrase,
		Server:     diagnoseServer,
		Logger:     Logger,
	})
	if err != nil {
		return err
	}

	for _, check := range result.Checks {
		Logger.Debugf("Check %s: status=%s, message=%s", check.Name, check.Status.String(), check.Message)
	}

	if diagnoseJSONOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(result); err != nil {
			return err
		}
	} else {
		printDiagnoseResults(result)
	}

	if result.Summary.Errors > 0 {
		return silentExit(exitFailure)
	}
	return nil
}

func printDiagnoseResults(result *workflows.DiagnoseResult) {
	for _, check := range result.Checks {
		prefix := ui.Success.Sprint(ui.Bold.Sprint("OK"))
		if check.Status != workflows.CheckPass {
			prefix = ui.Error.Sprint(ui.Bold.Sprint("KO"))
		}
		line := fmt.Sprintf("[%s] %s", prefix, check.Name)
		if check.Message != "" {
			line += ": " + check.Message
		}
		fmt.Println(line)
	}

	if len(result.Suggestions) > 0 {
		fmt.Println()
		for _, suggestion := range result.Suggestions {
			fmt.Println(ui.Info.Sprint("→") + " " + suggestion)
		}
	}
}
