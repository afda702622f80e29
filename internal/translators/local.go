package translators

import (
	"fmt"
	"strings"

	werrors "github.com/PolarWolf314/wrench/internal/errors"
	"github.com/PolarWolf314/wrench/internal/models"
	"github.com/PolarWolf314/wrench/internal/passbolt"
)

// ToLocalResource converts a server resource. The cleartext secret is left
// empty; EncryptedSecret is the first secret of the record, if any.
func ToLocalResource(r passbolt.Resource) models.Resource {
	tags := make([]string, 0, len(r.Tags))
	for _, tag := range r.Tags {
		tags = append(tags, tag.Slug)
	}

	var encrypted string
	if len(r.Secrets) > 0 {
		encrypted = r.Secrets[0].Data
	}

	// Passbolt sometimes appends newlines to these fields.
	return models.Resource{
		ID:              r.ID,
		Name:            strings.TrimSpace(r.Name),
		URI:             r.URI,
		Description:     strings.TrimSpace(r.Description),
		Username:        r.Username,
		EncryptedSecret: encrypted,
		Tags:            tags,
	}
}

// ToLocalUser converts a server user. Invited users have no key yet.
func ToLocalUser(u passbolt.User) models.User {
	var key *models.GpgKey
	if u.GpgKey != nil {
		key = &models.GpgKey{
			ID:          u.GpgKey.ID,
			Fingerprint: u.GpgKey.Fingerprint,
			ArmoredKey:  u.GpgKey.ArmoredKey,
		}
	}

	groups := make([]string, 0, len(u.GroupsUsers))
	for _, membership := range u.GroupsUsers {
		id := membership.GroupID
		if id == "" {
			id = membership.ID
		}
		groups = append(groups, id)
	}

	return models.User{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.Profile.FirstName,
		LastName:  u.Profile.LastName,
		GroupsIDs: groups,
		GpgKey:    key,
	}
}

func ToLocalGroup(g passbolt.Group) models.Group {
	members := make([]string, 0, len(g.Users))
	for _, member := range g.Users {
		members = append(members, member.ID)
	}
	return models.Group{ID: g.ID, Name: g.Name, MembersIDs: members}
}

// ToLocalPermission converts a server permission, resolving its recipient
// through the given directories.
func ToLocalPermission(p passbolt.Permission, usersByID map[string]models.User, groupsByID map[string]models.Group) (models.Permission, error) {
	permissionType, err := models.ParsePermissionType(p.Type)
	if err != nil {
		return models.Permission{}, fmt.Errorf("permission %s: %w", p.ID, err)
	}

	var recipient models.Recipient
	switch models.RecipientKind(p.Aro) {
	case models.KindUser:
		user, ok := usersByID[p.AroForeignKey]
		if !ok {
			return models.Permission{}, fmt.Errorf("permission %s: user %s: %w", p.ID, p.AroForeignKey, werrors.ErrRecipientNotFound)
		}
		recipient = user
	case models.KindGroup:
		group, ok := groupsByID[p.AroForeignKey]
		if !ok {
			return models.Permission{}, fmt.Errorf("permission %s: group %s: %w", p.ID, p.AroForeignKey, werrors.ErrRecipientNotFound)
		}
		recipient = group
	default:
		return models.Permission{}, fmt.Errorf("permission %s: unknown recipient kind %q", p.ID, p.Aro)
	}

	return models.Permission{
		ID:         p.ID,
		ResourceID: p.AcoForeignKey,
		Recipient:  recipient,
		Type:       permissionType,
	}, nil
}
