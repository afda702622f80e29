package sharing

import (
	"context"
	"fmt"

	werrors "github.com/PolarWolf314/wrench/internal/errors"
	"github.com/PolarWolf314/wrench/internal/models"
	"github.com/PolarWolf314/wrench/internal/users"
)

// Directory resolves users by ID, to unfold groups.
type Directory interface {
	UsersByID(ctx context.Context) (map[string]models.User, error)
}

// Backend reads and writes the permissions of a resource on the server.
type Backend interface {
	Permissions(ctx context.Context, resourceID string) ([]models.Permission, error)
	Submit(ctx context.Context, resourceID string, secrets []models.Secret, newPermissions, deletedPermissions []models.Permission) error
}

type Options struct {
	// DeleteExisting replaces the current permissions instead of adding to them.
	DeleteExisting bool
}

// Diff is what must be sent to the server to apply a share.
type Diff struct {
	Secrets            []models.Secret
	NewPermissions     []models.Permission
	DeletedPermissions []models.Permission

	// NewRecipients are the requested recipients that had no permission yet.
	NewRecipients []models.Recipient
}

// Empty reports whether the diff changes no permission.
func (d Diff) Empty() bool {
	return len(d.NewPermissions) == 0 && len(d.DeletedPermissions) == 0
}

// Plan computes the diff between the existing permissions of resource and
// the requested grants. It encrypts the resource secret for every user
// gaining access.
func Plan(resource models.Resource, grants []models.Grant, existing []models.Permission, usersByID map[string]models.User, encrypt models.EncryptFunc, opts Options) (Diff, error) {
	if len(grants) == 0 {
		return Diff{}, nil
	}
	if !resource.HasSecret() {
		return Diff{}, fmt.Errorf("cannot share resource %s: %w", resource.ID, werrors.ErrSecretNotDecrypted)
	}

	existingRecipients := make([]models.Recipient, 0, len(existing))
	existingKeys := make(map[models.RecipientKey]struct{}, len(existing))
	for _, p := range existing {
		existingRecipients = append(existingRecipients, p.Recipient)
		existingKeys[p.Recipient.Key()] = struct{}{}
	}

	existingUsers, err := users.Unfold(existingRecipients, usersByID)
	if err != nil {
		return Diff{}, err
	}
	existingUserIDs := users.IDs(existingUsers)

	var diff Diff

	newKeys := make(map[models.RecipientKey]struct{})
	for _, r := range distinctRecipients(grants) {
		if _, ok := existingKeys[r.Key()]; ok {
			continue
		}
		newKeys[r.Key()] = struct{}{}
		diff.NewRecipients = append(diff.NewRecipients, r)
	}

	unfolded, err := users.Unfold(diff.NewRecipients, usersByID)
	if err != nil {
		return Diff{}, err
	}
	for _, u := range users.Dedupe(unfolded) {
		if _, ok := existingUserIDs[u.ID]; ok {
			continue
		}
		data, err := encrypt(resource.Secret, u)
		if err != nil {
			return Diff{}, fmt.Errorf("failed to encrypt secret for %s: %w", u.Username, err)
		}
		diff.Secrets = append(diff.Secrets, models.Secret{ResourceID: resource.ID, Recipient: u, Data: data})
	}

	seen := make(map[models.PermissionKey]struct{})
	for _, g := range grants {
		if _, ok := newKeys[g.Recipient.Key()]; !ok {
			continue
		}
		p := models.Permission{ResourceID: resource.ID, Recipient: g.Recipient, Type: g.Type}
		if _, ok := seen[p.Key()]; ok {
			continue
		}
		seen[p.Key()] = struct{}{}
		diff.NewPermissions = append(diff.NewPermissions, p)
	}

	if opts.DeleteExisting {
		for _, p := range existing {
			diff.DeletedPermissions = append(diff.DeletedPermissions, models.DeletionMarker(p))
		}
	}

	return diff, nil
}

// Share grants access to resource and returns the recipients that were not
// already sharing it. The existing permissions are fetched right before the
// diff is computed. Nothing is fetched or sent when grants is empty.
func Share(ctx context.Context, resource models.Resource, grants []models.Grant, encrypt models.EncryptFunc, backend Backend, directory Directory, opts Options) ([]models.Recipient, error) {
	if len(grants) == 0 {
		return nil, nil
	}
	if !resource.HasSecret() {
		return nil, fmt.Errorf("cannot share resource %s: %w", resource.ID, werrors.ErrSecretNotDecrypted)
	}

	existing, err := backend.Permissions(ctx, resource.ID)
	if err != nil {
		return nil, err
	}

	usersByID, err := directory.UsersByID(ctx)
	if err != nil {
		return nil, err
	}

	diff, err := Plan(resource, grants, existing, usersByID, encrypt, opts)
	if err != nil {
		return nil, err
	}

	if !diff.Empty() {
		if err := backend.Submit(ctx, resource.ID, diff.Secrets, diff.NewPermissions, diff.DeletedPermissions); err != nil {
			return nil, err
		}
	}

	return diff.NewRecipients, nil
}

func distinctRecipients(grants []models.Grant) []models.Recipient {
	seen := make(map[models.RecipientKey]struct{}, len(grants))
	recipients := make([]models.Recipient, 0, len(grants))
	for _, g := range grants {
		if _, ok := seen[g.Recipient.Key()]; ok {
			continue
		}
		seen[g.Recipient.Key()] = struct{}{}
		recipients = append(recipients, g.Recipient)
	}
	return recipients
}
