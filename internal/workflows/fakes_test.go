package workflows

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PolarWolf314/wrench/internal/configs"
	werrors "github.com/PolarWolf314/wrench/internal/errors"
	"github.com/PolarWolf314/wrench/internal/models"
	"github.com/PolarWolf314/wrench/internal/passbolt"
)

// fakeAPI is an in-memory Passbolt server.
type fakeAPI struct {
	resources   []passbolt.Resource
	users       []passbolt.User
	groups      []passbolt.Group
	permissions map[string][]passbolt.Permission
	secrets     map[string]passbolt.Secret
	me          passbolt.User
	raw         map[string]string

	added  []passbolt.Resource
	tags   map[string][]string
	shares map[string][]passbolt.ShareRequest
	calls  map[string]int

	err error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		permissions: map[string][]passbolt.Permission{},
		secrets:     map[string]passbolt.Secret{},
		raw:         map[string]string{},
		tags:        map[string][]string{},
		shares:      map[string][]passbolt.ShareRequest{},
		calls:       map[string]int{},
	}
}

func (f *fakeAPI) Resources(context.Context, bool) ([]passbolt.Resource, error) {
	f.calls["Resources"]++
	return f.resources, f.err
}

func (f *fakeAPI) Users(context.Context) ([]passbolt.User, error) {
	f.calls["Users"]++
	return f.users, f.err
}

func (f *fakeAPI) User(_ context.Context, id string) (passbolt.User, error) {
	f.calls["User"]++
	if id != "me" {
		return passbolt.User{}, fmt.Errorf("unexpected user %s", id)
	}
	return f.me, f.err
}

func (f *fakeAPI) Groups(context.Context) ([]passbolt.Group, error) {
	f.calls["Groups"]++
	return f.groups, f.err
}

func (f *fakeAPI) ResourceSecret(_ context.Context, resourceID string) (passbolt.Secret, error) {
	f.calls["ResourceSecret"]++
	return f.secrets[resourceID], f.err
}

func (f *fakeAPI) ResourcePermissions(_ context.Context, resourceID string) ([]passbolt.Permission, error) {
	f.calls["ResourcePermissions"]++
	return f.permissions[resourceID], f.err
}

func (f *fakeAPI) AddResource(_ context.Context, resource passbolt.Resource) (passbolt.Resource, error) {
	f.calls["AddResource"]++
	if f.err != nil {
		return passbolt.Resource{}, f.err
	}
	f.added = append(f.added, resource)
	resource.ID = fmt.Sprintf("r%d", len(f.added))
	f.permissions[resource.ID] = []passbolt.Permission{{
		ID: "p-" + resource.ID, Aco: "Resource", AcoForeignKey: resource.ID,
		Aro: "User", AroForeignKey: f.me.ID, Type: int(models.PermissionOwner),
	}}
	return resource, nil
}

func (f *fakeAPI) AddTags(_ context.Context, resourceID string, tags []string) error {
	f.calls["AddTags"]++
	f.tags[resourceID] = tags
	return f.err
}

func (f *fakeAPI) ShareResource(_ context.Context, resourceID string, share passbolt.ShareRequest) error {
	f.calls["ShareResource"]++
	f.shares[resourceID] = append(f.shares[resourceID], share)
	return f.err
}

func (f *fakeAPI) GetRaw(_ context.Context, path string) (json.RawMessage, error) {
	f.calls["GetRaw"]++
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

// directoryAPI returns a server knowing me, ada, bob and the ops group
// made of ada and bob.
func directoryAPI() *fakeAPI {
	api := newFakeAPI()
	api.me = passbolt.User{ID: "u0", Username: "me@example.com"}
	api.users = []passbolt.User{
		api.me,
		{ID: "u1", Username: "ada@example.com"},
		{ID: "u2", Username: "bob@example.com"},
	}
	api.groups = []passbolt.Group{
		{ID: "g1", Name: "ops", Users: []passbolt.GroupMember{{ID: "u1"}, {ID: "u2"}}},
	}
	return api
}

func newTestSession(api *fakeAPI, config *configs.Config) *Session {
	if config == nil {
		config = &configs.Config{}
	}
	return NewSession(config, api, fakeKeyring{})
}

// useTempSettings points the audit log to a temporary directory.
func useTempSettings(t *testing.T) *configs.Settings {
	t.Helper()
	original := configs.WrenchSettings
	settings := configs.NewSettings(t.TempDir(), filepath.Join(t.TempDir(), "wrench"))
	configs.WrenchSettings = settings
	t.Cleanup(func() { configs.WrenchSettings = original })
	return settings
}
