package workflows

import (
	"context"
	"io"

	"github.com/PolarWolf314/wrench/internal/audit"
	"github.com/PolarWolf314/wrench/internal/importer"
	"github.com/PolarWolf314/wrench/internal/models"
)

// ImportResourcesOptions configures the import-resources workflow.
type ImportResourcesOptions struct {
	// Resources to create, as returned by LoadImport.
	Resources []models.Resource

	// Source names the imported file in the audit log.
	Source string

	// Owners and Readers are given access to every imported resource. Their
	// permissions replace the default ones.
	Owners  []models.Recipient
	Readers []models.Recipient
}

// ImportResourcesResult contains the outcome of an import.
type ImportResourcesResult struct {
	// Imported are the created resources, in file order.
	Imported []models.Resource
}

// LoadImport parses and validates the file, glob or stdin ("-") to import.
// Nothing is sent to the server, so a bad line aborts the whole import.
//
// Returns an ImportParseError for a line without exactly five fields.
// Returns a RecordError wrapping ErrValidation for an invalid record.
func LoadImport(path string, stdin io.Reader, tags []string) ([]models.Resource, error) {
	return importer.Load(path, stdin, tags)
}

// ImportResources creates every resource, then shares it with the
// requested recipients. A failure stops the import; the resources created
// until then are returned with the error. The audit entry counts the
// resources imported either way.
func ImportResources(ctx context.Context, sess *Session, opts ImportResourcesOptions) (*ImportResourcesResult, error) {
	result := &ImportResourcesResult{}
	defer func() {
		entry := audit.LogWithUser(audit.OpImport, sess.username(ctx))
		entry.Count = len(result.Imported)
		entry.Source = opts.Source
		audit.Log(entry)
	}()

	for _, resource := range opts.Resources {
		added, err := Add(ctx, sess, AddOptions{Resource: resource})
		if err != nil {
			return result, err
		}

		_, err = Share(ctx, sess, ShareOptions{
			Resource:       added.Resource,
			Owners:         opts.Owners,
			Readers:        opts.Readers,
			DeleteExisting: true,
		})
		if err != nil {
			return result, err
		}

		result.Imported = append(result.Imported, added.Resource)
	}

	return result, nil
}
