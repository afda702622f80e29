package gpg

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/openpgp"
	"golang.org/x/crypto/openpgp/armor"

	werrors "github.com/PolarWolf314/wrench/internal/errors"
	"github.com/PolarWolf314/wrench/internal/models"
	"github.com/PolarWolf314/wrench/internal/utils"
)

const messageType = "PGP MESSAGE"

// PassphraseFunc returns the passphrase of the key with the given fingerprint.
type PassphraseFunc func(fingerprint string) ([]byte, error)

// PromptPassphrase asks for the passphrase on the terminal.
func PromptPassphrase(fingerprint string) ([]byte, error) {
	return utils.ReadSecret(fmt.Sprintf("Passphrase for key %s: ", fingerprint))
}

// Keyring holds the user's private key.
type Keyring struct {
	entities   openpgp.EntityList
	passphrase PassphraseFunc
	unlocked   bool
}

// LoadKeyring reads the armored private key stored at path.
func LoadKeyring(path string, passphrase PassphraseFunc) (*Keyring, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, werrors.ErrPrivateKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read private key: %w", err)
	}
	return ParseKeyring(data, passphrase)
}

// ParseKeyring parses an armored private key.
func ParseKeyring(armored []byte, passphrase PassphraseFunc) (*Keyring, error) {
	entities, err := openpgp.ReadArmoredKeyRing(bytes.NewReader(armored))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", werrors.ErrInvalidKey, err)
	}

	var private openpgp.EntityList
	for _, e := range entities {
		if e.PrivateKey != nil {
			private = append(private, e)
		}
	}
	if len(private) == 0 {
		return nil, fmt.Errorf("%w: no private key found", werrors.ErrInvalidKey)
	}

	return &Keyring{entities: private, passphrase: passphrase}, nil
}

// ImportKey validates the armored private key at src and stores it at dst.
// It returns the key fingerprint.
func ImportKey(src, dst string) (string, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", src, err)
	}

	keyring, err := ParseKeyring(data, nil)
	if err != nil {
		return "", err
	}

	if err := utils.WritePrivateFile(dst, data); err != nil {
		return "", err
	}
	return keyring.Fingerprint(), nil
}

// Fingerprint returns the fingerprint of the primary private key.
func (k *Keyring) Fingerprint() string {
	return fingerprint(k.entities[0])
}

func fingerprint(e *openpgp.Entity) string {
	return strings.ToUpper(hex.EncodeToString(e.PrimaryKey.Fingerprint[:]))
}

// KeyFingerprint returns the fingerprint of an armored public key.
func KeyFingerprint(armoredKey string) (string, error) {
	entities, err := readPublicKey(armoredKey)
	if err != nil {
		return "", err
	}
	return fingerprint(entities[0]), nil
}

func readPublicKey(armoredKey string) (openpgp.EntityList, error) {
	if strings.TrimSpace(armoredKey) == "" {
		return nil, werrors.ErrPublicKeyNotFound
	}
	entities, err := openpgp.ReadArmoredKeyRing(strings.NewReader(armoredKey))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", werrors.ErrInvalidKey, err)
	}
	if len(entities) == 0 {
		return nil, werrors.ErrPublicKeyNotFound
	}
	return entities, nil
}

// Encrypt encrypts plaintext to the given armored public key.
func (k *Keyring) Encrypt(plaintext, armoredKey string) (string, error) {
	recipients, err := readPublicKey(armoredKey)
	if err != nil {
		return "", err
	}
	return encrypt(plaintext, recipients[:1])
}

// EncryptForUser encrypts plaintext to the user's public key. It has the
// signature of models.EncryptFunc.
func (k *Keyring) EncryptForUser(plaintext string, user models.User) (string, error) {
	if user.GpgKey == nil {
		return "", fmt.Errorf("%s: %w", user.Username, werrors.ErrPublicKeyNotFound)
	}
	ciphertext, err := k.Encrypt(plaintext, user.GpgKey.ArmoredKey)
	if err != nil {
		return "", fmt.Errorf("%s: %w", user.Username, err)
	}
	return ciphertext, nil
}

// EncryptForSelf encrypts plaintext to the keyring's own key.
func (k *Keyring) EncryptForSelf(plaintext string) (string, error) {
	return encrypt(plaintext, k.entities[:1])
}

func encrypt(plaintext string, recipients openpgp.EntityList) (string, error) {
	var buf bytes.Buffer

	armored, err := armor.Encode(&buf, messageType, nil)
	if err != nil {
		return "", err
	}
	w, err := openpgp.Encrypt(armored, recipients, nil, nil, nil)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt: %w", err)
	}
	if _, err := io.WriteString(w, plaintext); err != nil {
		return "", fmt.Errorf("failed to encrypt: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to encrypt: %w", err)
	}
	if err := armored.Close(); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// unlock decrypts passphrase protected keys, asking for the passphrase once.
func (k *Keyring) unlock() error {
	if k.unlocked {
		return nil
	}

	for _, e := range k.entities {
		if !isLocked(e) {
			continue
		}
		if k.passphrase == nil {
			return fmt.Errorf("%w: key %s is passphrase protected", werrors.ErrDecryption, fingerprint(e))
		}
		passphrase, err := k.passphrase(fingerprint(e))
		if err != nil {
			return err
		}
		if err := unlockEntity(e, passphrase); err != nil {
			return fmt.Errorf("%w: wrong passphrase for key %s", werrors.ErrDecryption, fingerprint(e))
		}
	}

	k.unlocked = true
	return nil
}

func isLocked(e *openpgp.Entity) bool {
	if e.PrivateKey != nil && e.PrivateKey.Encrypted {
		return true
	}
	for _, sub := range e.Subkeys {
		if sub.PrivateKey != nil && sub.PrivateKey.Encrypted {
			return true
		}
	}
	return false
}

func unlockEntity(e *openpgp.Entity, passphrase []byte) error {
	if e.PrivateKey != nil && e.PrivateKey.Encrypted {
		if err := e.PrivateKey.Decrypt(passphrase); err != nil {
			return err
		}
	}
	for _, sub := range e.Subkeys {
		if sub.PrivateKey != nil && sub.PrivateKey.Encrypted {
			if err := sub.PrivateKey.Decrypt(passphrase); err != nil {
				return err
			}
		}
	}
	return nil
}

// Decrypt decrypts an armored message and returns the raw plaintext.
func (k *Keyring) Decrypt(ciphertext string) (string, error) {
	if err := k.unlock(); err != nil {
		return "", err
	}

	block, err := armor.Decode(strings.NewReader(ciphertext))
	if err != nil {
		return "", fmt.Errorf("%w: %w", werrors.ErrDecryption, err)
	}

	md, err := openpgp.ReadMessage(block.Body, k.entities, nil, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", werrors.ErrDecryption, err)
	}

	plaintext, err := io.ReadAll(md.UnverifiedBody)
	if err != nil {
		return "", fmt.Errorf("%w: %w", werrors.ErrDecryption, err)
	}
	return string(plaintext), nil
}

// DecryptSecret decrypts a resource secret. Passbolt v3 stores secrets as a
// JSON object; its password field is returned in that case.
func (k *Keyring) DecryptSecret(ciphertext string) (string, error) {
	plaintext, err := k.Decrypt(ciphertext)
	if err != nil {
		return "", err
	}
	return ExtractPassword(plaintext), nil
}

// ExtractPassword returns the password field of a JSON secret, or the
// plaintext itself when it is not such an object.
func ExtractPassword(plaintext string) string {
	var secret struct {
		Password *string `json:"password"`
	}
	if err := json.Unmarshal([]byte(plaintext), &secret); err != nil || secret.Password == nil {
		return plaintext
	}
	return *secret.Password
}
