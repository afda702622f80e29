package models

import (
	"fmt"
	"strings"
)

// Resource is a credential record stored in Passbolt.
type Resource struct {
	// ID is empty until the server assigns one.
	ID          string
	Name        string
	URI         string
	Description string
	Username    string

	// Secret is the cleartext secret, valid once Decrypted is set. An empty
	// secret is a legitimate value.
	Secret    string
	Decrypted bool

	// EncryptedSecret is the ciphertext encrypted to the current user's key.
	EncryptedSecret string

	// Tags are kept in order. Tags prefixed with # are public.
	Tags []string
}

// HasSecret reports whether the cleartext secret is available.
func (r Resource) HasSecret() bool {
	return r.Decrypted
}

// WithSecret returns the resource holding secret as its cleartext.
func (r Resource) WithSecret(secret string) Resource {
	r.Secret = secret
	r.Decrypted = true
	return r
}

// IsPublicTag reports whether the tag is shared with everybody.
func IsPublicTag(tag string) bool {
	return strings.HasPrefix(tag, "#")
}

// GpgKey is a user's public OpenPGP key as known by the server.
type GpgKey struct {
	ID          string
	Fingerprint string
	ArmoredKey  string
}

// Secret is a copy of a resource secret encrypted for a single user.
type Secret struct {
	ResourceID string
	Recipient  User
	Data       string
}

// PermissionType is the access level of a permission. Higher values grant more.
type PermissionType int

const (
	PermissionRead   PermissionType = 1
	PermissionUpdate PermissionType = 7
	PermissionOwner  PermissionType = 15
)

func (p PermissionType) String() string {
	switch p {
	case PermissionRead:
		return "read"
	case PermissionUpdate:
		return "update"
	case PermissionOwner:
		return "owner"
	default:
		return fmt.Sprintf("PermissionType(%d)", int(p))
	}
}

// ParsePermissionType converts the numeric value used on the wire.
func ParsePermissionType(value int) (PermissionType, error) {
	switch p := PermissionType(value); p {
	case PermissionRead, PermissionUpdate, PermissionOwner:
		return p, nil
	default:
		return 0, fmt.Errorf("unknown permission type %d", value)
	}
}

// Permission grants a recipient access to a resource.
//
// A permission with only ID set is a deletion marker: it asks the server to
// remove the existing permission with that ID.
type Permission struct {
	ID         string
	ResourceID string
	Recipient  Recipient
	Type       PermissionType
}

// DeletionMarker returns the marker that deletes the given permission.
func DeletionMarker(p Permission) Permission {
	return Permission{ID: p.ID}
}

// IsDeletion reports whether p is a deletion marker.
func (p Permission) IsDeletion() bool {
	return p.ID != "" && p.ResourceID == "" && p.Recipient == nil && p.Type == 0
}

// PermissionKey is a comparable form of a Permission, used for value equality.
type PermissionKey struct {
	ID         string
	ResourceID string
	Recipient  RecipientKey
	Type       PermissionType
}

// Key returns the comparable form of p.
func (p Permission) Key() PermissionKey {
	k := PermissionKey{ID: p.ID, ResourceID: p.ResourceID, Type: p.Type}
	if p.Recipient != nil {
		k.Recipient = p.Recipient.Key()
	}
	return k
}

// Grant pairs a recipient with the permission it should receive.
type Grant struct {
	Recipient Recipient
	Type      PermissionType
}

// Grants builds one grant of the given type per recipient.
func Grants(recipients []Recipient, permissionType PermissionType) []Grant {
	grants := make([]Grant, 0, len(recipients))
	for _, r := range recipients {
		grants = append(grants, Grant{Recipient: r, Type: permissionType})
	}
	return grants
}

// EncryptFunc encrypts plaintext so that only recipient can decrypt it.
type EncryptFunc func(plaintext string, recipient User) (string, error)
