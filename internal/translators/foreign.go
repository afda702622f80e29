package translators

import (
	"github.com/PolarWolf314/wrench/internal/models"
	"github.com/PolarWolf314/wrench/internal/passbolt"
)

// Modification tells the server what to do with a permission of a share request.
type Modification int

const (
	Create Modification = iota
	Delete
)

// ToForeignResource builds the creation record of a resource, carrying its
// encrypted secret for owner. The cleartext secret and tags are not sent.
func ToForeignResource(r models.Resource, owner models.User) passbolt.Resource {
	return passbolt.Resource{
		ID:          r.ID,
		Name:        r.Name,
		URI:         r.URI,
		Description: r.Description,
		Username:    r.Username,
		Secrets: []passbolt.Secret{
			ToForeignSecret(models.Secret{ResourceID: r.ID, Recipient: owner, Data: r.EncryptedSecret}),
		},
	}
}

// ToForeignSecret omits the user and resource IDs when they are unknown.
func ToForeignSecret(s models.Secret) passbolt.Secret {
	return passbolt.Secret{
		ResourceID: s.ResourceID,
		UserID:     s.Recipient.ID,
		Data:       s.Data,
	}
}

// ToForeignPermission builds one entry of a share request. Only the fields
// set on p are sent, so a deletion marker yields {id, delete}.
func ToForeignPermission(p models.Permission, modification Modification) passbolt.PermissionChange {
	change := passbolt.PermissionChange{
		ID:   p.ID,
		Type: int(p.Type),
	}

	if p.ResourceID != "" {
		change.Aco = "Resource"
		change.AcoForeignKey = p.ResourceID
	}

	if p.Recipient != nil {
		if key := p.Recipient.Key(); key.ID != "" {
			change.Aro = string(key.Kind)
			change.AroForeignKey = key.ID
		}
	}

	switch modification {
	case Create:
		change.IsNew = true
	case Delete:
		change.Delete = true
	}

	return change
}

// ToForeignShare builds a share request from the output of the sharing engine.
func ToForeignShare(secrets []models.Secret, newPermissions, deletedPermissions []models.Permission) passbolt.ShareRequest {
	share := passbolt.ShareRequest{
		Permissions: make([]passbolt.PermissionChange, 0, len(newPermissions)+len(deletedPermissions)),
		Secrets:     make([]passbolt.Secret, 0, len(secrets)),
	}
	for _, p := range newPermissions {
		share.Permissions = append(share.Permissions, ToForeignPermission(p, Create))
	}
	for _, p := range deletedPermissions {
		share.Permissions = append(share.Permissions, ToForeignPermission(p, Delete))
	}
	for _, s := range secrets {
		share.Secrets = append(share.Secrets, ToForeignSecret(s))
	}
	return share
}
