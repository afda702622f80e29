package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/PolarWolf314/wrench/internal/configs"
	werrors "github.com/PolarWolf314/wrench/internal/errors"
	"github.com/PolarWolf314/wrench/internal/gpg"
	"github.com/PolarWolf314/wrench/internal/importer"
	"github.com/PolarWolf314/wrench/internal/prompt"
	"github.com/PolarWolf314/wrench/internal/ui"
	"github.com/PolarWolf314/wrench/internal/workflows"
	"github.com/briandowns/spinner"
)

const (
	exitFailure        = 1
	exitKeyImportError = 2

	requestTimeout = 30 * time.Second
)

var (
	// newPrompter returns the prompter used for interactive questions.
	// Can be overridden for testing.
	newPrompter = prompt.New

	// openSession logs in to the server. Can be overridden for testing.
	openSession = defaultOpenSession
)

// exitError carries a specific exit status up to Execute. A nil err means
// the command already told the user what went wrong.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func silentExit(code int) error {
	return &exitError{code: code}
}

// formatError formats an error returned by a command for display to the user.
func formatError(err error) string {
	var parseErr *werrors.ImportParseError
	var recordErr *importer.RecordError

	switch {
	case errors.Is(err, werrors.ErrPrivateKeyNotFound):
		return "Error: no secret key available. Please export your key in Passbolt and run " +
			ui.Code.Sprint("wrench import-key <path_to_key>") + "."

	case errors.Is(err, werrors.ErrConfigNotFound):
		return ui.Error.Sprint("Error: ") + err.Error() + "\n" +
			ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("wrench config init") + " first"

	case errors.As(err, &parseErr):
		return ui.Error.Sprintf("Could not split line %d of %s in 5 parts. Please check that it contains 4 tabs.", parseErr.Line, parseErr.Path)

	case errors.As(err, &recordErr):
		return ui.Error.Sprintf("Error on line %d. %s", recordErr.Line, prompt.ValidationMessage(recordErr.Err))

	case errors.Is(err, werrors.ErrValidation):
		return ui.Error.Sprint("Error: ") + prompt.ValidationMessage(err)

	default:
		return ui.Error.Sprint("Error: ") + err.Error()
	}
}

// startSpinner creates and starts a spinner with the given message when not in verbose or debug mode.
// Returns the spinner and a function that should be deferred to clean up.
//
// spinner.FinalMSG values do NOT need trailing newlines, the cleanup function
// calls ui.EnsureNewline() on the final message before printing it.
func startSpinner(message string, verbose bool) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	err := s.Color("cyan")
	if err != nil {
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	if !verbose && !debug {
		s.Start()
		// Ensure log output is discarded unless in verbose mode.
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	cleanup := func() {
		if !verbose && !debug {
			log.SetOutput(os.Stdout)
		}

		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		if !verbose && !debug {
			s.Stop()
		}

		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// loadConfig reads the configuration, running the wizard when there is none.
func loadConfig(ctx context.Context) (*configs.Config, error) {
	settings := configs.WrenchSettings
	Logger.Debugf("Loading configuration from %s", settings.ConfigPath)

	result, err := workflows.LoadConfig(ctx, workflows.LoadConfigOptions{Settings: settings})
	if errors.Is(err, werrors.ErrConfigNotFound) {
		fmt.Println(ui.Warning.Sprint("No configuration found.") + " Let's create one.")
		fmt.Println()
		config, err := runConfigWizard(newPrompter())
		if err != nil {
			return nil, err
		}
		if err := workflows.ConfigInit(ctx, workflows.ConfigInitOptions{Settings: settings, Config: config}); err != nil {
			return nil, err
		}
		fmt.Println()
		printSuccess(fmt.Sprintf("Configuration saved to %s\n", settings.ConfigPath))
		return config, nil
	}
	if err != nil {
		return nil, err
	}

	if result.Migrated != nil {
		Logger.Warnf("Converted %s to %s (backup: %s)", settings.LegacyConfigPath, settings.ConfigPath, result.Migrated.BackupPath)
	}
	return result.Config, nil
}

func defaultOpenSession(ctx context.Context, config *configs.Config) (*workflows.Session, error) {
	return workflows.OpenSession(ctx, workflows.OpenSessionOptions{
		Config:     config,
		KeyPath:    configs.WrenchSettings.PrivateKeyPath,
		Passphrase: gpg.PromptPassphrase,
		Timeout:    requestTimeout,
		Logger:     Logger,
	})
}

// connect loads the configuration and logs in.
func connect(ctx context.Context) (*workflows.Session, error) {
	config, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	Logger.Infof("Logging in to %s", config.Auth.ServerURL)
	sess, err := openSession(ctx, config)
	if err != nil {
		return nil, err
	}
	Logger.Debugf("Logged in")
	return sess, nil
}
