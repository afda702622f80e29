// Package models defines the value types shared by every wrench package:
// resources, users, groups, keys, secrets and permissions.
//
// Types are plain structs passed by value. Users and groups share the
// Recipient interface, and their identity is a RecipientKey (kind + id)
// rather than structural equality, so a stale cached copy of a user is
// still recognised as the same recipient.
package models
