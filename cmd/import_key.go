package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/wrench/internal/configs"
	"github.com/PolarWolf314/wrench/internal/workflows"
	"github.com/spf13/cobra"
)

var importKeyCmd = &cobra.Command{
	Use:   "import-key <path>",
	Short: "Import the given Passbolt private key",
	Long: `Imports the armored private key exported from your Passbolt profile.

The key is copied to wrench's data directory and used by every command
that talks to the server.`,
	Args: cobra.ExactArgs(1),
	RunE: runImportKey,
}

func runImportKey(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting import-key command")

	result, err := workflows.ImportKey(context.Background(), workflows.ImportKeyOptions{
		Path:        args[0],
		Destination: configs.WrenchSettings.PrivateKeyPath,
	})
	if err != nil {
		Logger.Infof("Key import failed: %v", err)
		fmt.Println("Error: unable to import key. Try again with -v to find out why.")
		return silentExit(exitKeyImportError)
	}

	Logger.Debugf("Key stored at %s", result.Destination)
	fmt.Printf("Key %s successfully imported.\n", result.Fingerprint)
	return nil
}
