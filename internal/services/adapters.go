package services

import (
	"context"

	"github.com/PolarWolf314/wrench/internal/models"
)

// Directory fetches users and groups for the session cache.
type Directory struct {
	API API
}

func (d Directory) Users(ctx context.Context) ([]models.User, error) {
	return GetUsers(ctx, d.API)
}

func (d Directory) Groups(ctx context.Context) ([]models.Group, error) {
	return GetGroups(ctx, d.API)
}

// RecipientLookup resolves permission recipients by ID.
type RecipientLookup interface {
	UsersByID(ctx context.Context) (map[string]models.User, error)
	GroupsByID(ctx context.Context) (map[string]models.Group, error)
}

// ShareBackend is the server side of the sharing engine.
type ShareBackend struct {
	API        API
	Recipients RecipientLookup
}

func (b ShareBackend) Permissions(ctx context.Context, resourceID string) ([]models.Permission, error) {
	usersByID, err := b.Recipients.UsersByID(ctx)
	if err != nil {
		return nil, err
	}
	groupsByID, err := b.Recipients.GroupsByID(ctx)
	if err != nil {
		return nil, err
	}
	return GetPermissions(ctx, b.API, resourceID, usersByID, groupsByID)
}

func (b ShareBackend) Submit(ctx context.Context, resourceID string, secrets []models.Secret, newPermissions, deletedPermissions []models.Permission) error {
	return ShareResource(ctx, b.API, resourceID, secrets, newPermissions, deletedPermissions)
}
