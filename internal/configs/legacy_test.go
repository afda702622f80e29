package configs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	werrors "github.com/PolarWolf314/wrench/internal/errors"
)

const legacyINI = `[auth]
server_url = https://passbolt.example.com
server_fingerprint = ABCDEF
http_username =
http_password =
user_fingerprint = 012345

; sharing defaults
[sharing]
default_owners = alice@example.com, admins
default_readers = bob@example.com
`

func TestIsLegacyConfig(t *testing.T) {
	tests := []struct {
		name   string
		ini    bool
		toml   bool
		legacy bool
	}{
		{"nothing", false, false, false},
		{"ini only", true, false, true},
		{"toml only", false, true, false},
		{"both", true, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := NewSettings(t.TempDir(), t.TempDir())
			if tt.ini {
				require.NoError(t, os.WriteFile(settings.LegacyConfigPath, []byte(legacyINI), 0600))
			}
			if tt.toml {
				require.NoError(t, SaveConfig(settings.ConfigPath, testConfig()))
			}

			assert.Equal(t, tt.legacy, IsLegacyConfig(settings))
		})
	}
}

func TestMigrateLegacyConfig(t *testing.T) {
	settings := NewSettings(t.TempDir(), t.TempDir())
	require.NoError(t, os.WriteFile(settings.LegacyConfigPath, []byte(legacyINI), 0600))

	result, err := MigrateLegacyConfig(settings)
	require.NoError(t, err)

	want := &Config{
		Auth: AuthConfig{
			ServerURL:         "https://passbolt.example.com",
			ServerFingerprint: "ABCDEF",
			UserFingerprint:   "012345",
		},
		Sharing: SharingConfig{
			DefaultOwners:  "alice@example.com, admins",
			DefaultReaders: "bob@example.com",
		},
	}
	assert.Equal(t, want, result.Config)

	loaded, err := LoadConfig(settings.ConfigPath)
	require.NoError(t, err)
	assert.Equal(t, want, loaded)

	assert.NoFileExists(t, settings.LegacyConfigPath)
	assert.FileExists(t, result.BackupPath)
	assert.Equal(t, settings.ConfigDir, filepath.Dir(result.BackupPath))
}

func TestMigrateLegacyConfigRejectsGarbage(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no auth section", "server_url = x\n"},
		{"line without delimiter", "[auth]\nserver_url\n"},
		{"unterminated section", "[auth\nserver_url = x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := NewSettings(t.TempDir(), t.TempDir())
			require.NoError(t, os.WriteFile(settings.LegacyConfigPath, []byte(tt.content), 0600))

			_, err := MigrateLegacyConfig(settings)
			assert.ErrorIs(t, err, werrors.ErrInvalidConfig)
			assert.FileExists(t, settings.LegacyConfigPath)
			assert.NoFileExists(t, settings.ConfigPath)
		})
	}
}

func TestMigrateLegacyConfigSyntaxVariants(t *testing.T) {
	settings := NewSettings(t.TempDir(), t.TempDir())
	content := "# written by hand\n" +
		"[AUTH]\n" +
		"Server_URL: https://passbolt.example.com\n" +
		"user_fingerprint = 012345 ; not a comment\n" +
		"[sharing]\n" +
		"default_readers=bob@example.com\n"
	require.NoError(t, os.WriteFile(settings.LegacyConfigPath, []byte(content), 0600))

	result, err := MigrateLegacyConfig(settings)
	require.NoError(t, err)

	assert.Equal(t, "https://passbolt.example.com", result.Config.Auth.ServerURL)
	assert.Equal(t, "012345 ; not a comment", result.Config.Auth.UserFingerprint)
	assert.Equal(t, "bob@example.com", result.Config.Sharing.DefaultReaders)
	assert.Empty(t, result.Config.Sharing.DefaultOwners)
}

func TestMigrateLegacyConfigWithoutLegacyFile(t *testing.T) {
	settings := NewSettings(t.TempDir(), t.TempDir())

	_, err := MigrateLegacyConfig(settings)
	assert.Error(t, err)
}
