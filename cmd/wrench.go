package cmd

import (
	"errors"
	"fmt"
	"os"

	werrors "github.com/PolarWolf314/wrench/internal/errors"
	logger "github.com/PolarWolf314/wrench/internal/logging"
	"github.com/PolarWolf314/wrench/internal/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	verbose bool
	debug   bool
	Logger  logger.Logger

	// WrenchCmd is the root of the command tree.
	WrenchCmd = &cobra.Command{
		Use:   "wrench",
		Short: "Passbolt CLI",
		Long: `Wrench is a command-line client for the Passbolt password manager.

It searches, decrypts, adds and shares resources, and imports them in bulk
from tab separated or JSON files.

Examples:
  # Configure the server and import your private key
  wrench config init
  wrench import-key ~/passbolt_private.asc

  # Find a password and copy it to the clipboard
  wrench search gitlab

  # Check that everything is set up correctly
  wrench diagnose`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing wrench with verbose=%t, debug=%t", verbose, debug)
		},
	}
)

func init() {
	WrenchCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	WrenchCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	WrenchCmd.SetVersionTemplate("Wrench version {{.Version}}\n")

	WrenchCmd.AddCommand(searchCmd)
	WrenchCmd.AddCommand(addCmd)
	WrenchCmd.AddCommand(shareCmd)
	WrenchCmd.AddCommand(importKeyCmd)
	WrenchCmd.AddCommand(importResourcesCmd)
	WrenchCmd.AddCommand(diagnoseCmd)
	WrenchCmd.AddCommand(shellCmd)
	WrenchCmd.AddCommand(ConfigCmd)
	WrenchCmd.AddCommand(logCmd)
}

// Execute runs the command line and returns the process exit status.
func Execute(version string) int {
	WrenchCmd.Version = version

	err := WrenchCmd.Execute()
	if err == nil {
		return 0
	}

	if errors.Is(err, werrors.ErrAborted) {
		fmt.Fprintln(os.Stderr, "\nAborted!")
		return exitFailure
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		if exitErr.err != nil {
			fmt.Fprintln(os.Stderr, formatError(err))
		}
		return exitErr.code
	}

	fmt.Fprintln(os.Stderr, formatError(err))
	return exitFailure
}

// Helper functions for testing

// GetWrenchCmd returns the WrenchCmd for testing.
func GetWrenchCmd() *cobra.Command {
	return WrenchCmd
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	resetSearchCommandState()
	resetShareCommandState()
	resetImportResourcesCommandState()
	resetLogCommandState()
	resetDiagnoseCommandState()
	resetConfigShowState()
	resetCobraFlagState(WrenchCmd)
}

// resetCobraFlagState restores every flag in the tree to its default so
// that one test's flags do not leak into the next.
func resetCobraFlagState(cmd *cobra.Command) {
	reset := func(flag *pflag.Flag) {
		if sv, ok := flag.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = flag.Value.Set(flag.DefValue)
		}
		flag.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetCobraFlagState(sub)
	}
}

// SetVerbose sets the verbose flag for testing.
func SetVerbose(v bool) {
	verbose = v
}

// SetDebug sets the debug flag for testing.
func SetDebug(d bool) {
	debug = d
}

// SetLogger sets the logger for testing.
func SetLogger(l logger.Logger) {
	Logger = l
}

// printSuccess prints a green message.
func printSuccess(msg string) {
	fmt.Println(ui.Success.Sprint(msg))
}
