package workflows

import (
	"context"

	"github.com/PolarWolf314/wrench/internal/audit"
	"github.com/PolarWolf314/wrench/internal/gpg"
	"github.com/PolarWolf314/wrench/internal/utils"
)

// ImportKeyOptions configures the import-key workflow.
type ImportKeyOptions struct {
	// Path is the armored private key exported from Passbolt.
	Path string

	// Destination is where the key is stored.
	Destination string
}

// ImportKeyResult contains the outcome of an import-key operation.
type ImportKeyResult struct {
	Fingerprint string
	Destination string
}

// ImportKey validates a private key and stores it for later sessions.
//
// Returns ErrInvalidKey if the file holds no private key.
func ImportKey(ctx context.Context, opts ImportKeyOptions) (*ImportKeyResult, error) {
	fingerprint, err := gpg.ImportKey(opts.Path, opts.Destination)
	if err != nil {
		return nil, err
	}

	entry := audit.LogWithUser(audit.OpImportKey, utils.LocalAccount())
	entry.Fingerprint = fingerprint
	entry.Source = opts.Path
	audit.Log(entry)

	return &ImportKeyResult{Fingerprint: fingerprint, Destination: opts.Destination}, nil
}
