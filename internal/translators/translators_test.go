package translators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	werrors "github.com/PolarWolf314/wrench/internal/errors"
	"github.com/PolarWolf314/wrench/internal/models"
	"github.com/PolarWolf314/wrench/internal/passbolt"
)

func TestToLocalResource(t *testing.T) {
	tests := []struct {
		name string
		in   passbolt.Resource
		want models.Resource
	}{
		{
			name: "full record",
			in: passbolt.Resource{
				ID:          "r1",
				Name:        "GitHub\n",
				URI:         "https://github.com",
				Description: " personal account\n",
				Username:    "octocat",
				Tags:        []passbolt.Tag{{Slug: "#dev"}, {Slug: "mine"}},
				Secrets:     []passbolt.Secret{{Data: "cipher-1"}, {Data: "cipher-2"}},
			},
			want: models.Resource{
				ID:              "r1",
				Name:            "GitHub",
				URI:             "https://github.com",
				Description:     "personal account",
				Username:        "octocat",
				EncryptedSecret: "cipher-1",
				Tags:            []string{"#dev", "mine"},
			},
		},
		{
			name: "no secret and no tags",
			in:   passbolt.Resource{ID: "r2", Name: "bare"},
			want: models.Resource{ID: "r2", Name: "bare", Tags: []string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToLocalResource(tt.in)
			assert.Equal(t, tt.want, got)
			assert.False(t, got.HasSecret())
		})
	}
}

func TestToLocalUser(t *testing.T) {
	in := passbolt.User{
		ID:          "u1",
		Username:    "ada@example.com",
		Profile:     passbolt.Profile{FirstName: "Ada", LastName: "Lovelace"},
		GpgKey:      &passbolt.GpgKey{ID: "k1", Fingerprint: "ABCD", ArmoredKey: "KEY"},
		GroupsUsers: []passbolt.GroupUser{{ID: "m1", GroupID: "g1"}, {ID: "g2"}},
	}

	got := ToLocalUser(in)

	assert.Equal(t, models.User{
		ID:        "u1",
		Username:  "ada@example.com",
		FirstName: "Ada",
		LastName:  "Lovelace",
		GroupsIDs: []string{"g1", "g2"},
		GpgKey:    &models.GpgKey{ID: "k1", Fingerprint: "ABCD", ArmoredKey: "KEY"},
	}, got)
}

func TestToLocalUserWithoutKey(t *testing.T) {
	got := ToLocalUser(passbolt.User{ID: "u2", Username: "invited@example.com"})

	assert.Nil(t, got.GpgKey)
	assert.Empty(t, got.GroupsIDs)
}

func TestToLocalGroup(t *testing.T) {
	got := ToLocalGroup(passbolt.Group{
		ID:    "g1",
		Name:  "Ops",
		Users: []passbolt.GroupMember{{ID: "u1"}, {ID: "u2"}},
	})

	assert.Equal(t, models.Group{ID: "g1", Name: "Ops", MembersIDs: []string{"u1", "u2"}}, got)
}

func TestToLocalPermission(t *testing.T) {
	users := map[string]models.User{"u1": {ID: "u1", Username: "ada@example.com"}}
	groups := map[string]models.Group{"g1": {ID: "g1", Name: "Ops"}}

	tests := []struct {
		name          string
		in            passbolt.Permission
		wantRecipient models.Recipient
		wantType      models.PermissionType
		wantErr       error
	}{
		{
			name:          "user owner",
			in:            passbolt.Permission{ID: "p1", Aco: "Resource", AcoForeignKey: "r1", Aro: "User", AroForeignKey: "u1", Type: 15},
			wantRecipient: users["u1"],
			wantType:      models.PermissionOwner,
		},
		{
			name:          "group reader",
			in:            passbolt.Permission{ID: "p2", Aco: "Resource", AcoForeignKey: "r1", Aro: "Group", AroForeignKey: "g1", Type: 1},
			wantRecipient: groups["g1"],
			wantType:      models.PermissionRead,
		},
		{
			name:    "unknown user",
			in:      passbolt.Permission{ID: "p3", AcoForeignKey: "r1", Aro: "User", AroForeignKey: "u9", Type: 1},
			wantErr: werrors.ErrRecipientNotFound,
		},
		{
			name:    "unknown group",
			in:      passbolt.Permission{ID: "p4", AcoForeignKey: "r1", Aro: "Group", AroForeignKey: "g9", Type: 7},
			wantErr: werrors.ErrRecipientNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToLocalPermission(tt.in, users, groups)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.in.ID, got.ID)
			assert.Equal(t, "r1", got.ResourceID)
			assert.Equal(t, tt.wantRecipient.Key(), got.Recipient.Key())
			assert.Equal(t, tt.wantType, got.Type)
		})
	}
}

func TestToLocalPermissionRejectsUnknownKindAndType(t *testing.T) {
	_, err := ToLocalPermission(passbolt.Permission{ID: "p1", Aro: "Role", Type: 1}, nil, nil)
	assert.Error(t, err)

	_, err = ToLocalPermission(passbolt.Permission{ID: "p1", Aro: "User", Type: 2}, nil, nil)
	assert.Error(t, err)
}

func TestToForeignResource(t *testing.T) {
	owner := models.User{ID: "u1"}
	resource := models.Resource{
		Name:            "db",
		Username:        "root",
		Secret:          "cleartext",
		EncryptedSecret: "cipher",
		Tags:            []string{"#infra"},
	}

	got := ToForeignResource(resource, owner)

	assert.Equal(t, passbolt.Resource{
		Name:     "db",
		Username: "root",
		Secrets:  []passbolt.Secret{{UserID: "u1", Data: "cipher"}},
	}, got)
}

func TestToForeignPermission(t *testing.T) {
	tests := []struct {
		name         string
		permission   models.Permission
		modification Modification
		want         passbolt.PermissionChange
	}{
		{
			name:         "new user permission",
			permission:   models.Permission{ResourceID: "r1", Recipient: models.User{ID: "u1"}, Type: models.PermissionRead},
			modification: Create,
			want:         passbolt.PermissionChange{Aco: "Resource", AcoForeignKey: "r1", Aro: "User", AroForeignKey: "u1", Type: 1, IsNew: true},
		},
		{
			name:         "new group permission",
			permission:   models.Permission{ResourceID: "r1", Recipient: models.Group{ID: "g1"}, Type: models.PermissionOwner},
			modification: Create,
			want:         passbolt.PermissionChange{Aco: "Resource", AcoForeignKey: "r1", Aro: "Group", AroForeignKey: "g1", Type: 15, IsNew: true},
		},
		{
			name:         "deletion marker",
			permission:   models.DeletionMarker(models.Permission{ID: "p1", ResourceID: "r1", Recipient: models.User{ID: "u1"}, Type: 1}),
			modification: Delete,
			want:         passbolt.PermissionChange{ID: "p1", Delete: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToForeignPermission(tt.permission, tt.modification))
		})
	}
}

func TestToForeignShare(t *testing.T) {
	share := ToForeignShare(
		[]models.Secret{{ResourceID: "r1", Recipient: models.User{ID: "u2"}, Data: "c2"}},
		[]models.Permission{{ResourceID: "r1", Recipient: models.User{ID: "u2"}, Type: models.PermissionRead}},
		[]models.Permission{{ID: "p1"}},
	)

	require.Len(t, share.Permissions, 2)
	assert.True(t, share.Permissions[0].IsNew)
	assert.True(t, share.Permissions[1].Delete)
	assert.Equal(t, []passbolt.Secret{{ResourceID: "r1", UserID: "u2", Data: "c2"}}, share.Secrets)
}
