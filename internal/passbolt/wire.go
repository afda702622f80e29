package passbolt

import "encoding/json"

// Header is the metadata part of the response envelope.
type Header struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	URL     string `json:"url"`
	Action  string `json:"action"`
}

type envelope struct {
	Header Header          `json:"header"`
	Body   json.RawMessage `json:"body"`
}

// Resource is a resource record as sent and received by the server.
type Resource struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	URI         string   `json:"uri"`
	Description string   `json:"description"`
	Username    string   `json:"username"`
	Tags        []Tag    `json:"tags,omitempty"`
	Secrets     []Secret `json:"secrets,omitempty"`
}

type Tag struct {
	ID       string `json:"id,omitempty"`
	Slug     string `json:"slug"`
	IsShared bool   `json:"is_shared,omitempty"`
}

// Secret is a resource secret encrypted for one user.
type Secret struct {
	ID         string `json:"id,omitempty"`
	ResourceID string `json:"resource_id,omitempty"`
	UserID     string `json:"user_id,omitempty"`
	Data       string `json:"data"`
}

type Profile struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type GpgKey struct {
	ID          string `json:"id"`
	Fingerprint string `json:"fingerprint"`
	ArmoredKey  string `json:"armored_key"`
}

type GroupUser struct {
	ID      string `json:"id,omitempty"`
	GroupID string `json:"group_id"`
	UserID  string `json:"user_id,omitempty"`
	IsAdmin bool   `json:"is_admin,omitempty"`
}

type User struct {
	ID          string      `json:"id"`
	Username    string      `json:"username"`
	Profile     Profile     `json:"profile"`
	GpgKey      *GpgKey     `json:"gpgkey"`
	GroupsUsers []GroupUser `json:"groups_users"`
}

type GroupMember struct {
	ID       string `json:"id"`
	Username string `json:"username,omitempty"`
}

type Group struct {
	ID    string        `json:"id"`
	Name  string        `json:"name"`
	Users []GroupMember `json:"users"`
}

// Permission is an existing permission as returned by the server.
type Permission struct {
	ID            string `json:"id"`
	Aco           string `json:"aco"`
	AcoForeignKey string `json:"aco_foreign_key"`
	Aro           string `json:"aro"`
	AroForeignKey string `json:"aro_foreign_key"`
	Type          int    `json:"type"`
}

// PermissionChange is one entry of a share request: a new permission
// (IsNew), a deletion (Delete with only ID set) or an update.
type PermissionChange struct {
	ID            string `json:"id,omitempty"`
	Aco           string `json:"aco,omitempty"`
	AcoForeignKey string `json:"aco_foreign_key,omitempty"`
	Aro           string `json:"aro,omitempty"`
	AroForeignKey string `json:"aro_foreign_key,omitempty"`
	Type          int    `json:"type,omitempty"`
	IsNew         bool   `json:"isNew,omitempty"`
	Delete        bool   `json:"delete,omitempty"`
}

// ShareRequest is the payload of PUT /share/resource/{id}.json.
type ShareRequest struct {
	Permissions []PermissionChange `json:"permissions"`
	Secrets     []Secret           `json:"secrets"`
}

type tagsRequest struct {
	Tags []string `json:"Tags"`
}

// ServerKey is the server's public key as published by /auth/verify.json.
type ServerKey struct {
	Fingerprint string `json:"fingerprint"`
	KeyData     string `json:"keydata"`
}
