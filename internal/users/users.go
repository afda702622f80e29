// Package users expands group recipients into the users they contain.
package users

import (
	"fmt"

	werrors "github.com/PolarWolf314/wrench/internal/errors"
	"github.com/PolarWolf314/wrench/internal/models"
)

// Unfold returns every user recipient as-is, followed by the members of every
// group recipient, in order. Duplicates are kept.
func Unfold(recipients []models.Recipient, usersByID map[string]models.User) ([]models.User, error) {
	var users []models.User
	var groups []models.Group

	for _, r := range recipients {
		switch v := r.(type) {
		case models.User:
			users = append(users, v)
		case models.Group:
			groups = append(groups, v)
		}
	}

	for _, g := range groups {
		members, err := UnfoldGroup(g, usersByID)
		if err != nil {
			return nil, err
		}
		users = append(users, members...)
	}

	return users, nil
}

// UnfoldGroup returns the members of a group in MembersIDs order.
func UnfoldGroup(group models.Group, usersByID map[string]models.User) ([]models.User, error) {
	members := make([]models.User, 0, len(group.MembersIDs))
	for _, id := range group.MembersIDs {
		user, ok := usersByID[id]
		if !ok {
			return nil, fmt.Errorf("group %q member %s: %w", group.Name, id, werrors.ErrUnknownGroupMember)
		}
		members = append(members, user)
	}
	return members, nil
}

// Dedupe removes users that appear more than once, comparing by ID. The first
// occurrence wins.
func Dedupe(users []models.User) []models.User {
	seen := make(map[string]struct{}, len(users))
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if _, ok := seen[u.ID]; ok {
			continue
		}
		seen[u.ID] = struct{}{}
		out = append(out, u)
	}
	return out
}

// IDs returns the set of user IDs.
func IDs(users []models.User) map[string]struct{} {
	ids := make(map[string]struct{}, len(users))
	for _, u := range users {
		ids[u.ID] = struct{}{}
	}
	return ids
}
