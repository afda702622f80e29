// Package session caches directory data fetched from Passbolt for the
// duration of one command.
package session

import (
	"context"
	"fmt"
	"strings"

	werrors "github.com/PolarWolf314/wrench/internal/errors"
	"github.com/PolarWolf314/wrench/internal/models"
)

// Directory fetches the full list of users and groups.
type Directory interface {
	Users(ctx context.Context) ([]models.User, error)
	Groups(ctx context.Context) ([]models.Group, error)
}

// Context memoizes the users and groups of the server. Each collection is
// fetched at most once and never refreshed. A Context is not safe for
// concurrent use.
type Context struct {
	directory Directory

	users        []models.User
	groups       []models.Group
	usersByID    map[string]models.User
	groupsByID   map[string]models.Group
	usersByName  map[string]models.User
	groupsByName map[string]models.Group
}

func New(directory Directory) *Context {
	return &Context{directory: directory}
}

func (c *Context) Users(ctx context.Context) ([]models.User, error) {
	if c.users == nil {
		users, err := c.directory.Users(ctx)
		if err != nil {
			return nil, err
		}
		if users == nil {
			users = []models.User{}
		}
		c.users = users
	}
	return c.users, nil
}

func (c *Context) Groups(ctx context.Context) ([]models.Group, error) {
	if c.groups == nil {
		groups, err := c.directory.Groups(ctx)
		if err != nil {
			return nil, err
		}
		if groups == nil {
			groups = []models.Group{}
		}
		c.groups = groups
	}
	return c.groups, nil
}

func (c *Context) UsersByID(ctx context.Context) (map[string]models.User, error) {
	if c.usersByID == nil {
		users, err := c.Users(ctx)
		if err != nil {
			return nil, err
		}
		c.usersByID = make(map[string]models.User, len(users))
		for _, u := range users {
			c.usersByID[u.ID] = u
		}
	}
	return c.usersByID, nil
}

func (c *Context) GroupsByID(ctx context.Context) (map[string]models.Group, error) {
	if c.groupsByID == nil {
		groups, err := c.Groups(ctx)
		if err != nil {
			return nil, err
		}
		c.groupsByID = make(map[string]models.Group, len(groups))
		for _, g := range groups {
			c.groupsByID[g.ID] = g
		}
	}
	return c.groupsByID, nil
}

func (c *Context) UsersByName(ctx context.Context) (map[string]models.User, error) {
	if c.usersByName == nil {
		users, err := c.Users(ctx)
		if err != nil {
			return nil, err
		}
		c.usersByName = make(map[string]models.User, len(users))
		for _, u := range users {
			c.usersByName[u.Username] = u
		}
	}
	return c.usersByName, nil
}

func (c *Context) GroupsByName(ctx context.Context) (map[string]models.Group, error) {
	if c.groupsByName == nil {
		groups, err := c.Groups(ctx)
		if err != nil {
			return nil, err
		}
		c.groupsByName = make(map[string]models.Group, len(groups))
		for _, g := range groups {
			c.groupsByName[g.Name] = g
		}
	}
	return c.groupsByName, nil
}

// RecipientsByName returns every user and group keyed by username or group
// name. A user wins over a group with the same name.
func (c *Context) RecipientsByName(ctx context.Context) (map[string]models.Recipient, error) {
	users, err := c.UsersByName(ctx)
	if err != nil {
		return nil, err
	}
	groups, err := c.GroupsByName(ctx)
	if err != nil {
		return nil, err
	}

	recipients := make(map[string]models.Recipient, len(users)+len(groups))
	for name, g := range groups {
		recipients[name] = g
	}
	for name, u := range users {
		recipients[name] = u
	}
	return recipients, nil
}

// RecipientByName resolves a username, or a group name when no user matches.
func (c *Context) RecipientByName(ctx context.Context, name string) (models.Recipient, error) {
	users, err := c.UsersByName(ctx)
	if err != nil {
		return nil, err
	}
	if u, ok := users[name]; ok {
		return u, nil
	}

	groups, err := c.GroupsByName(ctx)
	if err != nil {
		return nil, err
	}
	if g, ok := groups[name]; ok {
		return g, nil
	}

	return nil, fmt.Errorf("%w: %s", werrors.ErrRecipientNotFound, name)
}

// RecipientsFromString resolves a comma separated list such as
// "ada@example.com, Ops", keeping its order. Blank entries are ignored.
func (c *Context) RecipientsFromString(ctx context.Context, value string) ([]models.Recipient, error) {
	var recipients []models.Recipient
	for _, name := range strings.Split(value, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		r, err := c.RecipientByName(ctx, name)
		if err != nil {
			return nil, err
		}
		recipients = append(recipients, r)
	}
	return recipients, nil
}

// RecipientsFromNames resolves each name with RecipientByName.
func (c *Context) RecipientsFromNames(ctx context.Context, names []string) ([]models.Recipient, error) {
	return c.RecipientsFromString(ctx, strings.Join(names, ","))
}
