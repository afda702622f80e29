package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PolarWolf314/wrench/internal/audit"
	"github.com/PolarWolf314/wrench/internal/configs"
	werrors "github.com/PolarWolf314/wrench/internal/errors"
)

func TestAddAndShare(t *testing.T) {
	settings := setupTestEnvironment(t)
	writeTestConfig(t, settings, nil)
	api := newFakeAPI()
	useSession(api, fakeKeyring{})
	useInput("gitlab\nroot\nhunter2\nhttps://gitlab.example.com\nCI account\ninfra, #public\nada@example.com\n\n")

	output, err := runCommand(t, "add")
	require.NoError(t, err)

	require.Len(t, api.added, 1)
	assert.Equal(t, "gitlab", api.added[0].Name)
	assert.Equal(t, "root", api.added[0].Username)
	assert.Contains(t, output, "Resource 'gitlab' successfully saved.")
	assert.Contains(t, output, "Resource successfully shared with 1 users and 0 groups.")
	require.Len(t, api.shares["new1"], 1)

	entries, err := audit.ReadFile(settings.AuditLogPath)
	require.NoError(t, err)
	ops := make([]string, 0, len(entries))
	for _, e := range entries {
		ops = append(ops, e.Operation)
	}
	assert.Equal(t, []string{audit.OpAdd, audit.OpShare}, ops)
}

func TestAddRetriesMandatoryFields(t *testing.T) {
	settings := setupTestEnvironment(t)
	writeTestConfig(t, settings, nil)
	api := newFakeAPI()
	useSession(api, fakeKeyring{})
	useInput("\ngitlab\n\n\nhunter2\n\n\n\n\n\n")

	output, err := runCommand(t, "add")
	require.NoError(t, err)

	assert.Contains(t, output, "This field is mandatory.")
	require.Len(t, api.added, 1)
	assert.Empty(t, api.shares)
	assert.NotContains(t, output, "successfully shared")
}

func TestAddWithDefaultRecipients(t *testing.T) {
	settings := setupTestEnvironment(t)
	writeTestConfig(t, settings, func(c *configs.Config) {
		c.Sharing.DefaultOwners = "ops"
		c.Sharing.DefaultReaders = "bob@example.com"
	})
	api := newFakeAPI()
	useSession(api, fakeKeyring{})
	useInput("gitlab\n\nhunter2\n\n\n\n\n\n")

	output, err := runCommand(t, "add")
	require.NoError(t, err)

	assert.Contains(t, output, "The resource will be owned by the following recipients: ")
	assert.Contains(t, output, "The resource will be readable by the following recipients: ")
	assert.Contains(t, output, "Resource successfully shared with 1 users and 1 groups.")
}

func TestAddRejectsInvalidDefaultRecipients(t *testing.T) {
	settings := setupTestEnvironment(t)
	writeTestConfig(t, settings, func(c *configs.Config) {
		c.Sharing.DefaultOwners = "nobody@example.com"
	})
	api := newFakeAPI()
	useSession(api, fakeKeyring{})
	useInput("")

	_, err := runCommand(t, "add")

	assert.ErrorIs(t, err, werrors.ErrRecipientNotFound)
	assert.Contains(t, err.Error(), "default_owners")
	assert.Empty(t, api.added)
}

func TestAddAbortedByEOF(t *testing.T) {
	settings := setupTestEnvironment(t)
	writeTestConfig(t, settings, nil)
	api := newFakeAPI()
	useSession(api, fakeKeyring{})
	useInput("gitlab\n")

	_, err := runCommand(t, "add")

	assert.ErrorIs(t, err, werrors.ErrAborted)
	assert.Empty(t, api.added)
}
