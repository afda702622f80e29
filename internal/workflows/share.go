package workflows

import (
	"context"
	"errors"
	"fmt"

	"github.com/PolarWolf314/wrench/internal/audit"
	werrors "github.com/PolarWolf314/wrench/internal/errors"
	"github.com/PolarWolf314/wrench/internal/models"
	"github.com/PolarWolf314/wrench/internal/services"
	"github.com/PolarWolf314/wrench/internal/sharing"
)

// ShareOptions configures the share workflow.
type ShareOptions struct {
	Resource models.Resource

	// Owners get the owner permission, Readers the read permission.
	Owners  []models.Recipient
	Readers []models.Recipient

	// DeleteExisting replaces the current permissions of the resource.
	DeleteExisting bool
}

// ShareResult contains the outcome of a share operation.
type ShareResult struct {
	// NewRecipients did not have access to the resource before.
	NewRecipients []models.Recipient

	// Users and Groups count NewRecipients by kind. Both are zero when every
	// requested recipient already had access.
	Users  int
	Groups int
}

// Grants returns the owner grants followed by the reader grants.
func (o ShareOptions) Grants() []models.Grant {
	grants := models.Grants(o.Owners, models.PermissionOwner)
	return append(grants, models.Grants(o.Readers, models.PermissionRead)...)
}

// Share grants the requested recipients access to a resource. The secret is
// decrypted first if needed, then encrypted again for every user gaining
// access. Nothing is sent when no recipient is requested.
func Share(ctx context.Context, sess *Session, opts ShareOptions) (*ShareResult, error) {
	grants := opts.Grants()
	if len(grants) == 0 {
		return &ShareResult{}, nil
	}

	resource, err := Decrypt(ctx, sess, opts.Resource)
	if err != nil {
		return nil, err
	}

	backend := services.ShareBackend{API: sess.API, Recipients: sess.Directory}
	newRecipients, err := sharing.Share(ctx, resource, grants, sess.encrypt, backend, sess.Directory,
		sharing.Options{DeleteExisting: opts.DeleteExisting})
	if err != nil {
		return nil, fmt.Errorf("sharing resource %s: %w", resource.ID, err)
	}

	users, groups := models.CountByKind(newRecipients)
	if len(newRecipients) == 0 {
		return &ShareResult{}, nil
	}

	entry := audit.LogWithUser(audit.OpShare, sess.username(ctx))
	entry.ResourceID = resource.ID
	entry.ResourceName = resource.Name
	entry.UsersCount = users
	entry.GroupsCount = groups
	audit.Log(entry)

	return &ShareResult{NewRecipients: newRecipients, Users: users, Groups: groups}, nil
}

// DefaultRecipients resolves the default owners and readers of the
// [sharing] section of the configuration.
//
// Returns ErrRecipientNotFound naming the faulty setting.
func DefaultRecipients(ctx context.Context, sess *Session) (owners, readers []models.Recipient, err error) {
	owners, err = configuredRecipients(ctx, sess, "default_owners", sess.Config.Sharing.DefaultOwners)
	if err != nil {
		return nil, nil, err
	}
	readers, err = configuredRecipients(ctx, sess, "default_readers", sess.Config.Sharing.DefaultReaders)
	if err != nil {
		return nil, nil, err
	}
	return owners, readers, nil
}

func configuredRecipients(ctx context.Context, sess *Session, setting, value string) ([]models.Recipient, error) {
	recipients, err := sess.Directory.RecipientsFromString(ctx, value)
	if err != nil {
		if errors.Is(err, werrors.ErrRecipientNotFound) {
			return nil, fmt.Errorf("%w. Please fix the value of the `%s` setting in the `[sharing]` section of your configuration file", err, setting)
		}
		return nil, err
	}
	return recipients, nil
}
