// Package sharing computes and submits the changes needed to share a
// resource with users and groups.
//
// The server rejects a secret or permission that already exists, so sharing
// is a diff against the resource's current permissions:
//
//   - a recipient that already holds a permission is skipped, whatever the
//     requested permission type (permissions are never upgraded);
//   - a new group recipient gets one permission, and each of its members
//     gets one encrypted secret unless they can already read the resource
//     directly or through another group;
//   - with Options.DeleteExisting, every existing permission is deleted in
//     the same request, so the new grants replace the old ones.
//
// Everything is sent in a single request, which the server applies
// atomically. Sharing the same grants twice sends nothing the second time.
package sharing
