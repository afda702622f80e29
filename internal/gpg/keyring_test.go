package gpg

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/openpgp"
	"golang.org/x/crypto/openpgp/armor"
	"golang.org/x/crypto/openpgp/packet"

	werrors "github.com/PolarWolf314/wrench/internal/errors"
	"github.com/PolarWolf314/wrench/internal/models"
)

type testKey struct {
	private string
	public  string
}

func generateKey(t *testing.T, name string) testKey {
	t.Helper()

	entity, err := openpgp.NewEntity(name, "", name+"@example.com", &packet.Config{RSABits: 1024})
	require.NoError(t, err)

	var private bytes.Buffer
	w, err := armor.Encode(&private, openpgp.PrivateKeyType, nil)
	require.NoError(t, err)
	require.NoError(t, entity.SerializePrivate(w, nil))
	require.NoError(t, w.Close())

	var public bytes.Buffer
	w, err = armor.Encode(&public, openpgp.PublicKeyType, nil)
	require.NoError(t, err)
	require.NoError(t, entity.Serialize(w))
	require.NoError(t, w.Close())

	return testKey{private: private.String(), public: public.String()}
}

func noPassphrase(string) ([]byte, error) {
	panic("passphrase must not be requested for an unprotected key")
}

func TestRoundTripForUser(t *testing.T) {
	me := generateKey(t, "me")
	ada := generateKey(t, "ada")

	myKeyring, err := ParseKeyring([]byte(me.private), noPassphrase)
	require.NoError(t, err)
	adaKeyring, err := ParseKeyring([]byte(ada.private), noPassphrase)
	require.NoError(t, err)

	user := models.User{ID: "u1", Username: "ada@example.com", GpgKey: &models.GpgKey{ArmoredKey: ada.public}}
	ciphertext, err := myKeyring.EncryptForUser("hunter2", user)
	require.NoError(t, err)
	assert.Contains(t, ciphertext, "-----BEGIN PGP MESSAGE-----")

	plaintext, err := adaKeyring.Decrypt(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", plaintext)

	// Only Ada can read it.
	_, err = myKeyring.Decrypt(ciphertext)
	assert.ErrorIs(t, err, werrors.ErrDecryption)
}

func TestEncryptForSelf(t *testing.T) {
	me := generateKey(t, "me")
	keyring, err := ParseKeyring([]byte(me.private), noPassphrase)
	require.NoError(t, err)

	ciphertext, err := keyring.EncryptForSelf("s3cret")
	require.NoError(t, err)

	plaintext, err := keyring.Decrypt(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", plaintext)
}

func TestDecryptSecretExtractsJSONPassword(t *testing.T) {
	me := generateKey(t, "me")
	keyring, err := ParseKeyring([]byte(me.private), noPassphrase)
	require.NoError(t, err)

	ciphertext, err := keyring.EncryptForSelf(`{"password":"hunter2","description":"db"}`)
	require.NoError(t, err)

	secret, err := keyring.DecryptSecret(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", secret)
}

func TestExtractPassword(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{`{"password":"p"}`, "p"},
		{`{"password":""}`, ""},
		{`{"other":"x"}`, `{"other":"x"}`},
		{"12345", "12345"},
		{"null", "null"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractPassword(tt.in), "input %q", tt.in)
	}
}

func TestDecryptGarbage(t *testing.T) {
	me := generateKey(t, "me")
	keyring, err := ParseKeyring([]byte(me.private), noPassphrase)
	require.NoError(t, err)

	_, err = keyring.Decrypt("not a pgp message")
	assert.ErrorIs(t, err, werrors.ErrDecryption)
}

func TestEncryptForUserWithoutKey(t *testing.T) {
	me := generateKey(t, "me")
	keyring, err := ParseKeyring([]byte(me.private), noPassphrase)
	require.NoError(t, err)

	_, err = keyring.EncryptForUser("x", models.User{Username: "invited@example.com"})
	assert.ErrorIs(t, err, werrors.ErrPublicKeyNotFound)

	_, err = keyring.Encrypt("x", "")
	assert.ErrorIs(t, err, werrors.ErrPublicKeyNotFound)

	_, err = keyring.Encrypt("x", "garbage")
	assert.ErrorIs(t, err, werrors.ErrInvalidKey)
}

func TestParseKeyringRejectsPublicKey(t *testing.T) {
	key := generateKey(t, "me")

	_, err := ParseKeyring([]byte(key.public), noPassphrase)

	assert.ErrorIs(t, err, werrors.ErrInvalidKey)
}

func TestImportAndLoadKey(t *testing.T) {
	key := generateKey(t, "me")
	dir := t.TempDir()
	src := filepath.Join(dir, "export.asc")
	dst := filepath.Join(dir, "data", "private.asc")
	require.NoError(t, os.WriteFile(src, []byte(key.private), 0644))

	fingerprint, err := ImportKey(src, dst)
	require.NoError(t, err)
	assert.Len(t, fingerprint, 40)

	keyring, err := LoadKeyring(dst, noPassphrase)
	require.NoError(t, err)
	assert.Equal(t, fingerprint, keyring.Fingerprint())

	publicFingerprint, err := KeyFingerprint(key.public)
	require.NoError(t, err)
	assert.Equal(t, fingerprint, publicFingerprint)
}

func TestImportKeyRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "export.asc")
	require.NoError(t, os.WriteFile(src, []byte("not a key"), 0644))

	_, err := ImportKey(src, filepath.Join(dir, "private.asc"))

	assert.ErrorIs(t, err, werrors.ErrInvalidKey)
	assert.NoFileExists(t, filepath.Join(dir, "private.asc"))
}

func TestLoadKeyringMissing(t *testing.T) {
	_, err := LoadKeyring(filepath.Join(t.TempDir(), "missing.asc"), noPassphrase)

	assert.ErrorIs(t, err, werrors.ErrPrivateKeyNotFound)
}

func TestEncryptForKeyWithoutHashPreferences(t *testing.T) {
	ada := generateKey(t, "ada")

	entities, err := openpgp.ReadArmoredKeyRing(bytes.NewBufferString(ada.public))
	require.NoError(t, err)
	for _, identity := range entities[0].Identities {
		require.Empty(t, identity.SelfSignature.PreferredHash)
	}

	me := generateKey(t, "me")
	keyring, err := ParseKeyring([]byte(me.private), noPassphrase)
	require.NoError(t, err)

	ciphertext, err := keyring.Encrypt("hunter2", ada.public)
	require.NoError(t, err)
	assert.Contains(t, ciphertext, "-----BEGIN PGP MESSAGE-----")
}
