package workflows

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/PolarWolf314/wrench/internal/configs"
	"github.com/PolarWolf314/wrench/internal/gpg"
	logger "github.com/PolarWolf314/wrench/internal/logging"
	"github.com/PolarWolf314/wrench/internal/passbolt"
)

const diagnosePlaintext = "wrench"

// CheckStatus represents the result status of a health check.
type CheckStatus int

const (
	// CheckPass means the check passed.
	CheckPass CheckStatus = iota
	// CheckWarning means the check could not run because an earlier one failed.
	CheckWarning
	// CheckError means the check failed.
	CheckError
)

// String returns a string representation of CheckStatus.
func (s CheckStatus) String() string {
	switch s {
	case CheckPass:
		return "pass"
	case CheckWarning:
		return "warning"
	case CheckError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler for CheckStatus.
func (s CheckStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// CheckResult holds the result of a single health check.
type CheckResult struct {
	Name       string      `json:"name"`
	Status     CheckStatus `json:"status"`
	Message    string      `json:"message,omitempty"`
	Suggestion string      `json:"suggestion,omitempty"`
}

// DiagnoseResult holds the complete result of the diagnose workflow.
type DiagnoseResult struct {
	Checks      []CheckResult   `json:"checks"`
	Summary     DiagnoseSummary `json:"summary"`
	Suggestions []string        `json:"suggestions,omitempty"`
}

// DiagnoseSummary holds counts of checks by status.
type DiagnoseSummary struct {
	Passed   int `json:"passed"`
	Warnings int `json:"warnings"`
	Errors   int `json:"errors"`
}

// ServerKeyVerifier fetches the server key and checks its fingerprint.
type ServerKeyVerifier interface {
	VerifyServerFingerprint(ctx context.Context, expected string) (passbolt.ServerKey, error)
}

// DiagnoseOptions configures the diagnose workflow.
type DiagnoseOptions struct {
	Version    string
	Config     *configs.Config
	KeyPath    string
	Passphrase gpg.PassphraseFunc

	// Server defaults to a client for Config.Auth.ServerURL.
	Server ServerKeyVerifier
	Logger logger.Logger
}

// diagnosis carries what earlier checks found to the later ones.
type diagnosis struct {
	opts      DiagnoseOptions
	keyring   *gpg.Keyring
	serverKey *passbolt.ServerKey
}

// Diagnose checks the installation step by step, from the local key to
// the server. It never authenticates.
func Diagnose(ctx context.Context, opts DiagnoseOptions) (*DiagnoseResult, error) {
	d := &diagnosis{opts: opts}

	checks := []func(context.Context) CheckResult{
		d.checkVersion,
		d.checkOpenPGP,
		d.checkConfig,
		d.checkSecretKey,
		d.checkEncryption,
		d.checkServerConnection,
		d.checkServerKey,
		d.checkServerEncryption,
	}

	var results []CheckResult
	for _, check := range checks {
		results = append(results, check(ctx))
	}

	var suggestions []string
	seen := make(map[string]bool)
	for _, result := range results {
		if result.Suggestion != "" && result.Status != CheckPass && !seen[result.Suggestion] {
			suggestions = append(suggestions, result.Suggestion)
			seen[result.Suggestion] = true
		}
	}

	return &DiagnoseResult{
		Checks:      results,
		Summary:     calculateDiagnoseSummary(results),
		Suggestions: suggestions,
	}, nil
}

func calculateDiagnoseSummary(results []CheckResult) DiagnoseSummary {
	var summary DiagnoseSummary
	for _, r := range results {
		switch r.Status {
		case CheckPass:
			summary.Passed++
		case CheckWarning:
			summary.Warnings++
		case CheckError:
			summary.Errors++
		}
	}
	return summary
}

func (d *diagnosis) checkVersion(context.Context) CheckResult {
	return CheckResult{Name: "Wrench version", Status: CheckPass, Message: d.opts.Version}
}

func (d *diagnosis) checkOpenPGP(context.Context) CheckResult {
	version := "unknown"
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, dep := range info.Deps {
			if dep.Path == "golang.org/x/crypto" {
				version = dep.Version
			}
		}
	}
	return CheckResult{Name: "OpenPGP library version", Status: CheckPass, Message: "golang.org/x/crypto " + version}
}

func (d *diagnosis) checkConfig(context.Context) CheckResult {
	if d.opts.Config == nil {
		return CheckResult{
			Name:       "Configuration",
			Status:     CheckError,
			Message:    "no configuration loaded",
			Suggestion: "Run 'wrench config init' to create the configuration",
		}
	}
	if err := d.opts.Config.Validate(); err != nil {
		return CheckResult{
			Name:       "Configuration",
			Status:     CheckError,
			Message:    err.Error(),
			Suggestion: "Fix the [auth] section with 'wrench config init'",
		}
	}
	return CheckResult{Name: "Configuration", Status: CheckPass}
}

func (d *diagnosis) checkSecretKey(context.Context) CheckResult {
	const name = "User secret key exists"

	if _, err := os.Stat(d.opts.KeyPath); err != nil {
		return CheckResult{
			Name:       name,
			Status:     CheckError,
			Message:    "no secret key found",
			Suggestion: "Export your key in Passbolt and run 'wrench import-key <path_to_key>'",
		}
	}

	keyring, err := gpg.LoadKeyring(d.opts.KeyPath, d.opts.Passphrase)
	if err != nil {
		return CheckResult{
			Name:       name,
			Status:     CheckError,
			Message:    err.Error(),
			Suggestion: "Export your key in Passbolt and run 'wrench import-key <path_to_key>'",
		}
	}

	if d.opts.Config != nil && d.opts.Config.Auth.UserFingerprint != "" &&
		passbolt.NormalizeFingerprint(d.opts.Config.Auth.UserFingerprint) != keyring.Fingerprint() {
		return CheckResult{
			Name:   name,
			Status: CheckError,
			Message: fmt.Sprintf("imported key %s does not match user_fingerprint %s",
				keyring.Fingerprint(), d.opts.Config.Auth.UserFingerprint),
			Suggestion: "Import the key matching user_fingerprint, or clear the setting",
		}
	}

	d.keyring = keyring
	return CheckResult{Name: name, Status: CheckPass, Message: keyring.Fingerprint()}
}

func (d *diagnosis) checkEncryption(context.Context) CheckResult {
	const name = "Encryption/decryption using user key"

	if d.keyring == nil {
		return skipped(name)
	}

	encrypted, err := d.keyring.EncryptForSelf(diagnosePlaintext)
	if err != nil {
		return CheckResult{Name: name, Status: CheckError, Message: fmt.Sprintf("unable to encrypt data (%v)", err)}
	}
	decrypted, err := d.keyring.Decrypt(encrypted)
	if err != nil {
		return CheckResult{
			Name:       name,
			Status:     CheckError,
			Message:    fmt.Sprintf("unable to decrypt data (%v)", err),
			Suggestion: "Check the passphrase of your key",
		}
	}
	if decrypted != diagnosePlaintext {
		return CheckResult{
			Name:    name,
			Status:  CheckError,
			Message: fmt.Sprintf("decrypted data '%s' does not match original data '%s'", decrypted, diagnosePlaintext),
		}
	}
	return CheckResult{Name: name, Status: CheckPass}
}

func (d *diagnosis) server() (ServerKeyVerifier, error) {
	if d.opts.Server != nil {
		return d.opts.Server, nil
	}
	return newClient(d.opts.Config, 0, d.opts.Logger)
}

func (d *diagnosis) checkServerConnection(ctx context.Context) CheckResult {
	const name = "Server connection"

	if d.opts.Config == nil {
		return skipped(name)
	}

	server, err := d.server()
	if err != nil {
		return CheckResult{Name: name, Status: CheckError, Message: err.Error()}
	}

	key, err := server.VerifyServerFingerprint(ctx, d.opts.Config.Auth.ServerFingerprint)
	if err != nil {
		return CheckResult{
			Name:       name,
			Status:     CheckError,
			Message:    fmt.Sprintf("could not verify server fingerprint (%v)", err),
			Suggestion: "Check server_url and server_fingerprint in your configuration",
		}
	}

	d.serverKey = &key
	return CheckResult{Name: name, Status: CheckPass, Message: d.opts.Config.Auth.ServerURL}
}

func (d *diagnosis) checkServerKey(context.Context) CheckResult {
	const name = "Server key is valid"

	if d.serverKey == nil {
		return skipped(name)
	}

	fingerprint, err := gpg.KeyFingerprint(d.serverKey.KeyData)
	if err != nil {
		return CheckResult{Name: name, Status: CheckError, Message: err.Error()}
	}
	if fingerprint != passbolt.NormalizeFingerprint(d.opts.Config.Auth.ServerFingerprint) {
		return CheckResult{
			Name:    name,
			Status:  CheckError,
			Message: fmt.Sprintf("server key %s does not match announced fingerprint", fingerprint),
		}
	}
	return CheckResult{Name: name, Status: CheckPass, Message: fingerprint}
}

func (d *diagnosis) checkServerEncryption(context.Context) CheckResult {
	const name = "Encryption using server key"

	if d.serverKey == nil || d.keyring == nil {
		return skipped(name)
	}

	if _, err := d.keyring.Encrypt(diagnosePlaintext, d.serverKey.KeyData); err != nil {
		return CheckResult{
			Name:    name,
			Status:  CheckError,
			Message: fmt.Sprintf("could not encrypt data with the server key (%v)", err),
		}
	}
	return CheckResult{Name: name, Status: CheckPass}
}

func skipped(name string) CheckResult {
	return CheckResult{Name: name, Status: CheckWarning, Message: "skipped, a previous check failed"}
}
