package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/wrench/internal/configs"
	"github.com/PolarWolf314/wrench/internal/prompt"
	"github.com/PolarWolf314/wrench/internal/ui"
	"github.com/PolarWolf314/wrench/internal/validators"
	"github.com/PolarWolf314/wrench/internal/workflows"
	"github.com/spf13/cobra"
)

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create or update the configuration",
	Long: `Asks for the server and sharing settings and saves them to
config.toml in wrench's configuration directory.

The command will prompt for:
  - Passbolt server URL and fingerprint (required)
  - Username and password for HTTP authentication (optional)
  - User identity fingerprint (optional, defaults to the imported key)
  - Default owners and readers of new resources (optional)

Current values are offered as defaults; press Enter to keep them.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting config init command")
	settings := configs.WrenchSettings

	existing, err := workflows.ExistingConfig(settings)
	if err != nil {
		Logger.Warnf("Ignoring unreadable configuration: %v", err)
		existing = nil
	}

	config, err := runConfigWizardWithDefaults(newPrompter(), existing)
	if err != nil {
		return err
	}

	if err := workflows.ConfigInit(context.Background(), workflows.ConfigInitOptions{Settings: settings, Config: config}); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(ui.Success.Sprint("✓") + " Configuration saved to " + ui.Path.Sprint(settings.ConfigPath))
	return nil
}

// runConfigWizard asks for every setting from scratch.
func runConfigWizard(p *prompt.Prompter) (*configs.Config, error) {
	return runConfigWizardWithDefaults(p, nil)
}

// runConfigWizardWithDefaults asks for every setting, offering the values of
// current as defaults.
func runConfigWizardWithDefaults(p *prompt.Prompter, current *configs.Config) (*configs.Config, error) {
	if current == nil {
		current = &configs.Config{}
	}
	config := &configs.Config{}

	questions := []struct {
		label      string
		target     *string
		current    string
		secret     bool
		processors []prompt.Processor
	}{
		{"Passbolt server URL (eg. https://passbolt.example.com)", &config.Auth.ServerURL, current.Auth.ServerURL, false,
			[]prompt.Processor{validators.ValidateNonEmpty, validators.ValidateHTTPURL}},
		{"Passbolt server fingerprint", &config.Auth.ServerFingerprint, current.Auth.ServerFingerprint, false,
			[]prompt.Processor{validators.ValidateNonEmpty}},
		{"Username for HTTP auth", &config.Auth.HTTPUsername, current.Auth.HTTPUsername, false, nil},
		{"Password for HTTP auth", &config.Auth.HTTPPassword, current.Auth.HTTPPassword, true, nil},
		{"User identity (fingerprint)", &config.Auth.UserFingerprint, current.Auth.UserFingerprint, false, nil},
		{"Default owners for resources (users e-mail addresses or group names, separated by commas)",
			&config.Sharing.DefaultOwners, current.Sharing.DefaultOwners, false, nil},
		{"Default readers for resources (users e-mail addresses or group names, separated by commas)",
			&config.Sharing.DefaultReaders, current.Sharing.DefaultReaders, false, nil},
	}

	for _, q := range questions {
		label := q.label
		if q.current != "" && !q.secret {
			label = fmt.Sprintf("%s [%s]", q.label, q.current)
		}
		processors := append([]prompt.Processor{withDefault(q.current)}, q.processors...)

		var value string
		var err error
		if q.secret {
			value, err = p.AskSecret(label, processors...)
		} else {
			value, err = p.Ask(label, processors...)
		}
		if err != nil {
			return nil, err
		}
		*q.target = value
	}

	return config, nil
}

// withDefault replaces an empty answer with value.
func withDefault(value string) prompt.Processor {
	return func(answer string) (string, error) {
		if answer == "" {
			return value, nil
		}
		return answer, nil
	}
}
