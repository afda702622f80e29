package services

import (
	"context"
	"fmt"

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
		tags:        map[string][]string{},
		shares:      map[string][]passbolt.ShareRequest{},
		calls:       map[string]int{},
	}
}

func (f *fakeAPI) Resources(_ context.Context, favouriteOnly bool) ([]passbolt.Resource, error) {
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
