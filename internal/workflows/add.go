package workflows

import (
	"context"

	"github.com/PolarWolf314/wrench/internal/audit"
	"github.com/PolarWolf314/wrench/internal/models"
	"github.com/PolarWolf314/wrench/internal/services"
	"github.com/PolarWolf314/wrench/internal/validators"
)

// AddOptions configures the add workflow.
type AddOptions struct {
	// Resource to create. Its Secret must be set.
	Resource models.Resource
}

// AddResult contains the outcome of an add operation.
type AddResult struct {
	// Resource is the created resource, with its server ID and cleartext secret.
	Resource models.Resource
}

// Add creates a resource readable by the current user only. Tags are
// attached in a second request.
//
// Returns ErrValidation if a field is too long or the secret is empty.
func Add(ctx context.Context, sess *Session, opts AddOptions) (*AddResult, error) {
	if err := validators.ValidateNewResource(opts.Resource); err != nil {
		return nil, err
	}

	added, err := services.AddResource(ctx, sess.API, opts.Resource, sess.encrypt)
	if err != nil {
		return nil, err
	}

	entry := audit.LogWithUser(audit.OpAdd, sess.username(ctx))
	entry.ResourceID = added.ID
	entry.ResourceName = added.Name
	audit.Log(entry)

	return &AddResult{Resource: added}, nil
}
