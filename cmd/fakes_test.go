package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	werrors "github.com/PolarWolf314/wrench/internal/errors"
	"github.com/PolarWolf314/wrench/internal/models"
	"github.com/PolarWolf314/wrench/internal/passbolt"
)

// fakeAPI is an in-memory Passbolt server knowing me, ada, bob and the ops
// group made of ada and bob.
type fakeAPI struct {
	resources   []passbolt.Resource
	users       []passbolt.User
	groups      []passbolt.Group
	secrets     map[string]string
	permissions map[string][]passbolt.Permission
	raw         map[string]string

	added  []passbolt.Resource
	shares map[string][]passbolt.ShareRequest
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		users: []passbolt.User{
			{ID: "u0", Username: "me@example.com"},
			{ID: "u1", Username: "ada@example.com"},
			{ID: "u2", Username: "bob@example.com"},
		},
		groups: []passbolt.Group{
			{ID: "g1", Name: "ops", Users: []passbolt.GroupMember{{ID: "u1"}, {ID: "u2"}}},
		},
		secrets:     map[string]string{},
		permissions: map[string][]passbolt.Permission{},
		raw:         map[string]string{},
		shares:      map[string][]passbolt.ShareRequest{},
	}
}

func (f *fakeAPI) addResource(id, name, username, secret string) {
	f.resources = append(f.resources, passbolt.Resource{ID: id, Name: name, Username: username})
	f.secrets[id] = secret
	f.permissions[id] = []passbolt.Permission{ownerPermission(id)}
}

func ownerPermission(resourceID string) passbolt.Permission {
	return passbolt.Permission{
		ID: "p-" + resourceID, Aco: "Resource", AcoForeignKey: resourceID,
		Aro: "User", AroForeignKey: "u0", Type: int(models.PermissionOwner),
	}
}

func (f *fakeAPI) Resources(context.Context, bool) ([]passbolt.Resource, error) {
	return f.resources, nil
}

func (f *fakeAPI) Users(context.Context) ([]passbolt.User, error) {
	return f.users, nil
}

func (f *fakeAPI) User(_ context.Context, id string) (passbolt.User, error) {
	if id != "me" {
		return passbolt.User{}, fmt.Errorf("unexpected user %s", id)
	}
	return f.users[0], nil
}

func (f *fakeAPI) Groups(context.Context) ([]passbolt.Group, error) {
	return f.groups, nil
}

func (f *fakeAPI) ResourceSecret(_ context.Context, resourceID string) (passbolt.Secret, error) {
	return passbolt.Secret{ResourceID: resourceID, Data: f.secrets[resourceID]}, nil
}

func (f *fakeAPI) ResourcePermissions(_ context.Context, resourceID string) ([]passbolt.Permission, error) {
	return f.permissions[resourceID], nil
}

func (f *fakeAPI) AddResource(_ context.Context, resource passbolt.Resource) (passbolt.Resource, error) {
	f.added = append(f.added, resource)
	resource.ID = fmt.Sprintf("new%d", len(f.added))
	f.permissions[resource.ID] = []passbolt.Permission{ownerPermission(resource.ID)}
	return resource, nil
}

func (f *fakeAPI) AddTags(context.Context, string, []string) error {
	return nil
}

func (f *fakeAPI) ShareResource(_ context.Context, resourceID string, share passbolt.ShareRequest) error {
	f.shares[resourceID] = append(f.shares[resourceID], share)
	return nil
}

func (f *fakeAPI) GetRaw(_ context.Context, path string) (json.RawMessage, error) {
	body, ok := f.raw[path]
	if !ok {
		return nil, &passbolt.HTTPRequestError{Method: "GET", URL: path, StatusCode: 404, Message: "Not Found"}
	}
	return json.RawMessage(body), nil
}

// fakeKeyring "encrypts" by prefixing the recipient: enc(<user id>):plaintext.
type fakeKeyring struct{}

func (fakeKeyring) Fingerprint() string { return "ABCDEF" }

func (fakeKeyring) Decrypt(ciphertext string) (string, error) {
	_, plaintext, ok := strings.Cut(ciphertext, ":")
	if !ok {
		return "", werrors.ErrDecryption
	}
	return plaintext, nil
}

func (k fakeKeyring) DecryptSecret(ciphertext string) (string, error) {
	return k.Decrypt(ciphertext)
}

func (fakeKeyring) Encrypt(plaintext, armoredKey string) (string, error) {
	return "enc(" + armoredKey + "):" + plaintext, nil
}

func (fakeKeyring) EncryptForUser(plaintext string, user models.User) (string, error) {
	return "enc(" + user.ID + "):" + plaintext, nil
}
