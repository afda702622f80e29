// Package cmd contains testing utilities shared between command tests.
// This file provides common functions for setting up temporary settings,
// capturing output and running commands against an in-memory server.
package cmd

import (
	"bytes"
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PolarWolf314/wrench/internal/configs"
	logger "github.com/PolarWolf314/wrench/internal/logging"
	"github.com/PolarWolf314/wrench/internal/prompt"
	"github.com/PolarWolf314/wrench/internal/services"
	"github.com/PolarWolf314/wrench/internal/workflows"
	"github.com/spf13/cobra"
)

// setupTestEnvironment points the configuration and data directories to
// temporary ones and restores every overridable hook on cleanup.
func setupTestEnvironment(t *testing.T) *configs.Settings {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	originalSettings := configs.WrenchSettings
	originalPrompter := newPrompter
	originalOpenSession := openSession

	settings := configs.NewSettings(filepath.Join(t.TempDir(), "config"), filepath.Join(t.TempDir(), "data"))
	configs.WrenchSettings = settings

	t.Cleanup(func() {
		configs.WrenchSettings = originalSettings
		newPrompter = originalPrompter
		openSession = originalOpenSession
		ResetGlobalState()
	})

	ResetGlobalState()
	return settings
}

// writeTestConfig saves a valid configuration in the temporary settings.
func writeTestConfig(t *testing.T, settings *configs.Settings, mutate func(*configs.Config)) *configs.Config {
	t.Helper()

	config := &configs.Config{
		Auth: configs.AuthConfig{
			ServerURL:         "https://passbolt.example.com",
			ServerFingerprint: "ABCDEF0123456789",
		},
	}
	if mutate != nil {
		mutate(config)
	}
	if err := configs.SaveConfig(settings.ConfigPath, config); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return config
}

// useSession makes commands log in to api without any network or key.
func useSession(api services.API, keyring workflows.Keyring) {
	openSession = func(_ context.Context, config *configs.Config) (*workflows.Session, error) {
		return workflows.NewSession(config, api, keyring), nil
	}
}

// useInput feeds answers to the prompts. keys are returned one by one on
// single key reads.
func useInput(answers string, keys ...byte) {
	newPrompter = func() *prompt.Prompter {
		return &prompt.Prompter{
			In:  strings.NewReader(answers),
			Out: os.Stdout,
			ReadKey: func() (byte, error) {
				if len(keys) == 0 {
					return 0, io.EOF
				}
				key := keys[0]
				keys = keys[1:]
				return key, nil
			},
		}
	}
}

// captureOutput captures both stdout and stderr during function execution.
func captureOutput(fn func() error) (string, error) {
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	stdoutChan := make(chan string, 1)
	stderrChan := make(chan string, 1)

	go func() {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, stdoutReader); err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		stdoutChan <- buf.String()
	}()

	go func() {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, stderrReader); err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		stderrChan <- buf.String()
	}()

	err := fn()

	stdoutWriter.Close()
	stderrWriter.Close()

	os.Stdout = originalStdout
	os.Stderr = originalStderr

	return <-stdoutChan + <-stderrChan, err
}

// createTestCLI prepares the real command tree to run the given arguments.
func createTestCLI(args []string, verboseFlag, debugFlag bool) *cobra.Command {
	verbose = verboseFlag
	debug = debugFlag
	Logger = logger.Logger{
		Verbose: verbose,
		Debug:   debug,
	}

	WrenchCmd.SetArgs(args)
	return WrenchCmd
}

// runCommand runs the command line and returns its output.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return captureOutput(func() error {
		return createTestCLI(args, false, false).Execute()
	})
}
