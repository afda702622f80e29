package services

import (
	"context"
	"fmt"

	werrors "github.com/PolarWolf314/wrench/internal/errors"
	"github.com/PolarWolf314/wrench/internal/models"
	"github.com/PolarWolf314/wrench/internal/passbolt"
	"github.com/PolarWolf314/wrench/internal/translators"
)

// API is the subset of the Passbolt client used by this package.
type API interface {
	Resources(ctx context.Context, favouriteOnly bool) ([]passbolt.Resource, error)
	Users(ctx context.Context) ([]passbolt.User, error)
	User(ctx context.Context, id string) (passbolt.User, error)
	Groups(ctx context.Context) ([]passbolt.Group, error)
	ResourceSecret(ctx context.Context, resourceID string) (passbolt.Secret, error)
	ResourcePermissions(ctx context.Context, resourceID string) ([]passbolt.Permission, error)
	AddResource(ctx context.Context, resource passbolt.Resource) (passbolt.Resource, error)
	AddTags(ctx context.Context, resourceID string, tags []string) error
	ShareResource(ctx context.Context, resourceID string, share passbolt.ShareRequest) error
}

// Decrypter decrypts a resource secret.
type Decrypter interface {
	DecryptSecret(ciphertext string) (string, error)
}

func GetResources(ctx context.Context, api API, favouriteOnly bool) ([]models.Resource, error) {
	records, err := api.Resources(ctx, favouriteOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch resources: %w", err)
	}

	resources := make([]models.Resource, 0, len(records))
	for _, r := range records {
		resources = append(resources, translators.ToLocalResource(r))
	}
	return resources, nil
}

func GetUsers(ctx context.Context, api API) ([]models.User, error) {
	records, err := api.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}

	users := make([]models.User, 0, len(records))
	for _, u := range records {
		users = append(users, translators.ToLocalUser(u))
	}
	return users, nil
}

func GetGroups(ctx context.Context, api API) ([]models.Group, error) {
	records, err := api.Groups(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch groups: %w", err)
	}

	groups := make([]models.Group, 0, len(records))
	for _, g := range records {
		groups = append(groups, translators.ToLocalGroup(g))
	}
	return groups, nil
}

// GetCurrentUser returns the logged in user.
func GetCurrentUser(ctx context.Context, api API) (models.User, error) {
	record, err := api.User(ctx, "me")
	if err != nil {
		return models.User{}, fmt.Errorf("failed to fetch current user: %w", err)
	}
	return translators.ToLocalUser(record), nil
}

// GetResourceSecret returns the secret of a resource, encrypted for the current user.
func GetResourceSecret(ctx context.Context, api API, resourceID string) (string, error) {
	secret, err := api.ResourceSecret(ctx, resourceID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch secret of resource %s: %w", resourceID, err)
	}
	return secret.Data, nil
}

// GetPermissions returns the current permissions of a resource. The
// directories must contain every user and group the resource is shared with.
func GetPermissions(ctx context.Context, api API, resourceID string, usersByID map[string]models.User, groupsByID map[string]models.Group) ([]models.Permission, error) {
	records, err := api.ResourcePermissions(ctx, resourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch permissions of resource %s: %w", resourceID, err)
	}

	permissions := make([]models.Permission, 0, len(records))
	for _, p := range records {
		permission, err := translators.ToLocalPermission(p, usersByID, groupsByID)
		if err != nil {
			return nil, err
		}
		permissions = append(permissions, permission)
	}
	return permissions, nil
}

// AddResource encrypts the resource secret for the current user and stores
// the resource. Tags are attached afterwards, when there are any. The
// returned resource carries the server ID along with the original cleartext
// secret and tags.
func AddResource(ctx context.Context, api API, resource models.Resource, encrypt models.EncryptFunc) (models.Resource, error) {
	if resource.Secret == "" {
		return models.Resource{}, fmt.Errorf("%w: resource %q has no secret", werrors.ErrValidation, resource.Name)
	}

	owner, err := GetCurrentUser(ctx, api)
	if err != nil {
		return models.Resource{}, err
	}

	encrypted, err := encrypt(resource.Secret, owner)
	if err != nil {
		return models.Resource{}, fmt.Errorf("failed to encrypt secret: %w", err)
	}
	resource.EncryptedSecret = encrypted

	record, err := api.AddResource(ctx, translators.ToForeignResource(resource, owner))
	if err != nil {
		return models.Resource{}, fmt.Errorf("failed to add resource %q: %w", resource.Name, err)
	}

	added := translators.ToLocalResource(record).WithSecret(resource.Secret)
	added.Tags = resource.Tags

	if len(resource.Tags) > 0 {
		if err := api.AddTags(ctx, added.ID, resource.Tags); err != nil {
			return added, fmt.Errorf("failed to tag resource %q: %w", resource.Name, err)
		}
	}

	return added, nil
}

// DecryptResource returns the resource with its cleartext secret. The
// encrypted secret is fetched first when the listing did not include it. A
// resource that is already decrypted is returned unchanged.
func DecryptResource(ctx context.Context, api API, decrypter Decrypter, resource models.Resource) (models.Resource, error) {
	if resource.HasSecret() {
		return resource, nil
	}

	if resource.EncryptedSecret == "" {
		encrypted, err := GetResourceSecret(ctx, api, resource.ID)
		if err != nil {
			return resource, err
		}
		resource.EncryptedSecret = encrypted
	}

	secret, err := decrypter.DecryptSecret(resource.EncryptedSecret)
	if err != nil {
		return resource, fmt.Errorf("resource %s: %w", resource.ID, err)
	}
	return resource.WithSecret(secret), nil
}

// ShareResource submits secrets and permission changes in one request. No
// request is sent when there is no permission to add or delete.
func ShareResource(ctx context.Context, api API, resourceID string, secrets []models.Secret, newPermissions, deletedPermissions []models.Permission) error {
	if len(newPermissions) == 0 && len(deletedPermissions) == 0 {
		return nil
	}

	share := translators.ToForeignShare(secrets, newPermissions, deletedPermissions)
	if err := api.ShareResource(ctx, resourceID, share); err != nil {
		return fmt.Errorf("failed to share resource %s: %w", resourceID, err)
	}
	return nil
}
