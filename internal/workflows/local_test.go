package workflows

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/openpgp"
	"golang.org/x/crypto/openpgp/armor"
	"golang.org/x/crypto/openpgp/packet"

	"github.com/PolarWolf314/wrench/internal/audit"
	"github.com/PolarWolf314/wrench/internal/configs"
	werrors "github.com/PolarWolf314/wrench/internal/errors"
	"github.com/PolarWolf314/wrench/internal/passbolt"
	"github.com/PolarWolf314/wrench/internal/utils"
)

func armoredKey(t *testing.T, name string, private bool) (string, string) {
	t.Helper()

	entity, err := openpgp.NewEntity(name, "", name+"@example.com", &packet.Config{RSABits: 1024})
	require.NoError(t, err)

	blockType := openpgp.PublicKeyType
	if private {
		blockType = openpgp.PrivateKeyType
	}

	var buf bytes.Buffer
	w, err := armor.Encode(&buf, blockType, nil)
	require.NoError(t, err)
	if private {
		require.NoError(t, entity.SerializePrivate(w, nil))
	} else {
		require.NoError(t, entity.Serialize(w))
	}
	require.NoError(t, w.Close())

	return buf.String(), strings.ToUpper(hex.EncodeToString(entity.PrimaryKey.Fingerprint[:]))
}

func writeKey(t *testing.T, dir, name string) (string, string) {
	t.Helper()
	key, fingerprint := armoredKey(t, name, true)
	path := filepath.Join(dir, name+".asc")
	require.NoError(t, os.WriteFile(path, []byte(key), 0600))
	return path, fingerprint
}

func TestImportKey(t *testing.T) {
	settings := useTempSettings(t)
	src, fingerprint := writeKey(t, t.TempDir(), "me")

	result, err := ImportKey(context.Background(), ImportKeyOptions{Path: src, Destination: settings.PrivateKeyPath})
	require.NoError(t, err)

	assert.Equal(t, fingerprint, result.Fingerprint)
	info, err := os.Stat(settings.PrivateKeyPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	entries, err := audit.ReadFile(settings.AuditLogPath)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, fingerprint, entries[0].Fingerprint)
	assert.Equal(t, utils.LocalAccount(), entries[0].User)
}

func TestImportKeyRejectsPublicKey(t *testing.T) {
	settings := useTempSettings(t)
	public, _ := armoredKey(t, "me", false)
	src := filepath.Join(t.TempDir(), "public.asc")
	require.NoError(t, os.WriteFile(src, []byte(public), 0600))

	_, err := ImportKey(context.Background(), ImportKeyOptions{Path: src, Destination: settings.PrivateKeyPath})

	assert.ErrorIs(t, err, werrors.ErrInvalidKey)
	assert.NoFileExists(t, settings.PrivateKeyPath)
}

func TestOpenSessionWithoutKey(t *testing.T) {
	_, err := OpenSession(context.Background(), OpenSessionOptions{
		Config:  &configs.Config{Auth: configs.AuthConfig{ServerURL: "https://passbolt.example.com"}},
		KeyPath: filepath.Join(t.TempDir(), "missing.asc"),
	})
	assert.ErrorIs(t, err, werrors.ErrPrivateKeyNotFound)
}

type fakeServer struct {
	key passbolt.ServerKey
	err error
}

func (f fakeServer) VerifyServerFingerprint(_ context.Context, expected string) (passbolt.ServerKey, error) {
	if f.err != nil {
		return passbolt.ServerKey{}, f.err
	}
	if passbolt.NormalizeFingerprint(expected) != passbolt.NormalizeFingerprint(f.key.Fingerprint) {
		return passbolt.ServerKey{}, werrors.ErrFingerprintMismatch
	}
	return f.key, nil
}

func statuses(result *DiagnoseResult) map[string]CheckStatus {
	m := make(map[string]CheckStatus, len(result.Checks))
	for _, c := range result.Checks {
		m[c.Name] = c.Status
	}
	return m
}

func TestDiagnoseHealthyInstallation(t *testing.T) {
	keyPath, fingerprint := writeKey(t, t.TempDir(), "me")
	serverKey, serverFingerprint := armoredKey(t, "server", false)

	result, err := Diagnose(context.Background(), DiagnoseOptions{
		Version: "1.2.3",
		Config: &configs.Config{Auth: configs.AuthConfig{
			ServerURL:         "https://passbolt.example.com",
			ServerFingerprint: serverFingerprint,
			UserFingerprint:   fingerprint,
		}},
		KeyPath: keyPath,
		Server:  fakeServer{key: passbolt.ServerKey{Fingerprint: serverFingerprint, KeyData: serverKey}},
	})
	require.NoError(t, err)

	for _, c := range result.Checks {
		assert.Equal(t, CheckPass, c.Status, "%s: %s", c.Name, c.Message)
	}
	assert.Equal(t, len(result.Checks), result.Summary.Passed)
	assert.Equal(t, "1.2.3", result.Checks[0].Message)
	assert.Empty(t, result.Suggestions)
}

func TestDiagnoseWithoutKey(t *testing.T) {
	result, err := Diagnose(context.Background(), DiagnoseOptions{
		Config: &configs.Config{Auth: configs.AuthConfig{
			ServerURL:         "https://passbolt.example.com",
			ServerFingerprint: "ABCD",
		}},
		KeyPath: filepath.Join(t.TempDir(), "missing.asc"),
		Server:  fakeServer{err: errors.New("connection refused")},
	})
	require.NoError(t, err)

	got := statuses(result)
	assert.Equal(t, CheckError, got["User secret key exists"])
	assert.Equal(t, CheckWarning, got["Encryption/decryption using user key"])
	assert.Equal(t, CheckError, got["Server connection"])
	assert.Equal(t, CheckWarning, got["Server key is valid"])
	assert.Equal(t, CheckWarning, got["Encryption using server key"])
	assert.Contains(t, result.Suggestions, "Export your key in Passbolt and run 'wrench import-key <path_to_key>'")
}

func TestDiagnoseFingerprintMismatch(t *testing.T) {
	keyPath, _ := writeKey(t, t.TempDir(), "me")

	result, err := Diagnose(context.Background(), DiagnoseOptions{
		Config: &configs.Config{Auth: configs.AuthConfig{
			ServerURL:         "https://passbolt.example.com",
			ServerFingerprint: "ABCD",
			UserFingerprint:   "0000",
		}},
		KeyPath: keyPath,
		Server:  fakeServer{key: passbolt.ServerKey{Fingerprint: "FFFF"}},
	})
	require.NoError(t, err)

	got := statuses(result)
	assert.Equal(t, CheckError, got["User secret key exists"])
	assert.Equal(t, CheckError, got["Server connection"])
}

func TestDiagnoseWithoutConfig(t *testing.T) {
	result, err := Diagnose(context.Background(), DiagnoseOptions{KeyPath: filepath.Join(t.TempDir(), "missing.asc")})
	require.NoError(t, err)

	got := statuses(result)
	assert.Equal(t, CheckError, got["Configuration"])
	assert.Equal(t, CheckWarning, got["Server connection"])
}

func TestCheckStatusString(t *testing.T) {
	tests := []struct {
		status CheckStatus
		want   string
	}{
		{CheckPass, "pass"},
		{CheckWarning, "warning"},
		{CheckError, "error"},
		{CheckStatus(42), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.status.String())
	}
}

func TestConfigInitAndLoad(t *testing.T) {
	settings := configs.NewSettings(t.TempDir(), t.TempDir())
	config := &configs.Config{Auth: configs.AuthConfig{
		ServerURL:         "https://passbolt.example.com",
		ServerFingerprint: "ABCD",
		HTTPPassword:      "secret",
	}}

	_, err := LoadConfig(context.Background(), LoadConfigOptions{Settings: settings})
	assert.ErrorIs(t, err, werrors.ErrConfigNotFound)

	existing, err := ExistingConfig(settings)
	require.NoError(t, err)
	assert.Nil(t, existing)

	require.NoError(t, ConfigInit(context.Background(), ConfigInitOptions{Settings: settings, Config: config}))

	loaded, err := LoadConfig(context.Background(), LoadConfigOptions{Settings: settings})
	require.NoError(t, err)
	assert.Equal(t, config, loaded.Config)
	assert.Nil(t, loaded.Migrated)

	masked := MaskedConfig(loaded.Config)
	assert.Equal(t, "********", masked.Auth.HTTPPassword)
	assert.Equal(t, "secret", loaded.Config.Auth.HTTPPassword)
}

func TestConfigInitRejectsInvalid(t *testing.T) {
	settings := configs.NewSettings(t.TempDir(), t.TempDir())

	err := ConfigInit(context.Background(), ConfigInitOptions{Settings: settings, Config: &configs.Config{}})

	assert.ErrorIs(t, err, werrors.ErrInvalidConfig)
	assert.NoFileExists(t, settings.ConfigPath)
}

func TestLoadConfigMigratesLegacyFile(t *testing.T) {
	settings := configs.NewSettings(t.TempDir(), t.TempDir())
	ini := "[auth]\nserver_url = https://passbolt.example.com\nserver_fingerprint = ABCD\n"
	require.NoError(t, os.WriteFile(settings.LegacyConfigPath, []byte(ini), 0600))

	result, err := LoadConfig(context.Background(), LoadConfigOptions{Settings: settings})
	require.NoError(t, err)

	require.NotNil(t, result.Migrated)
	assert.Equal(t, "https://passbolt.example.com", result.Config.Auth.ServerURL)
	assert.FileExists(t, settings.ConfigPath)
}
