package workflows

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/PolarWolf314/wrench/internal/configs"
	"github.com/PolarWolf314/wrench/internal/gpg"
	logger "github.com/PolarWolf314/wrench/internal/logging"
	"github.com/PolarWolf314/wrench/internal/models"
	"github.com/PolarWolf314/wrench/internal/passbolt"
	"github.com/PolarWolf314/wrench/internal/services"
	"github.com/PolarWolf314/wrench/internal/session"
)

// Keyring is the OpenPGP side of a session.
type Keyring interface {
	Fingerprint() string
	Decrypt(ciphertext string) (string, error)
	DecryptSecret(ciphertext string) (string, error)
	Encrypt(plaintext, armoredKey string) (string, error)
	EncryptForUser(plaintext string, user models.User) (string, error)
}

// RawGetter fetches an API path without decoding its body.
type RawGetter interface {
	GetRaw(ctx context.Context, path string) (json.RawMessage, error)
}

// Session is an authenticated connection to the server, with the directory
// of users and groups cached for the lifetime of one command.
type Session struct {
	Config    *configs.Config
	API       services.API
	Keyring   Keyring
	Directory *session.Context

	// Raw is set when the API can also serve raw requests.
	Raw RawGetter

	currentUser *models.User
}

// NewSession wraps an already authenticated API.
func NewSession(config *configs.Config, api services.API, keyring Keyring) *Session {
	s := &Session{
		Config:    config,
		API:       api,
		Keyring:   keyring,
		Directory: session.New(services.Directory{API: api}),
	}
	if raw, ok := api.(RawGetter); ok {
		s.Raw = raw
	}
	return s
}

// OpenSessionOptions configures OpenSession.
type OpenSessionOptions struct {
	Config *configs.Config

	// KeyPath is the armored private key imported with import-key.
	KeyPath string

	// Passphrase unlocks the private key. If nil, the key must be unprotected.
	Passphrase gpg.PassphraseFunc

	Timeout time.Duration
	Logger  logger.Logger
}

// OpenSession loads the private key, checks the server fingerprint and logs
// in with GPGAuth.
//
// Returns ErrPrivateKeyNotFound if no key was imported.
// Returns ErrFingerprintMismatch if the server key is not the configured one.
// Returns ErrAuthentication if the handshake fails.
func OpenSession(ctx context.Context, opts OpenSessionOptions) (*Session, error) {
	keyring, err := gpg.LoadKeyring(opts.KeyPath, opts.Passphrase)
	if err != nil {
		return nil, err
	}

	client, err := newClient(opts.Config, opts.Timeout, opts.Logger)
	if err != nil {
		return nil, err
	}

	err = client.Login(ctx, keyring, passbolt.Credentials{
		UserFingerprint:   userFingerprint(opts.Config, keyring),
		ServerFingerprint: opts.Config.Auth.ServerFingerprint,
	})
	if err != nil {
		return nil, err
	}

	return NewSession(opts.Config, client, keyring), nil
}

func newClient(config *configs.Config, timeout time.Duration, log logger.Logger) (*passbolt.Client, error) {
	client, err := passbolt.New(passbolt.Config{
		ServerURL:    config.Auth.ServerURL,
		HTTPUsername: config.Auth.HTTPUsername,
		HTTPPassword: config.Auth.HTTPPassword,
		Timeout:      timeout,
		Logger:       log,
	})
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}
	return client, nil
}

// userFingerprint prefers the configured fingerprint over the one of the
// imported key.
func userFingerprint(config *configs.Config, keyring Keyring) string {
	if config.Auth.UserFingerprint != "" {
		return config.Auth.UserFingerprint
	}
	return keyring.Fingerprint()
}

// CurrentUser returns the logged in user. It is fetched once.
func (s *Session) CurrentUser(ctx context.Context) (models.User, error) {
	if s.currentUser == nil {
		user, err := services.GetCurrentUser(ctx, s.API)
		if err != nil {
			return models.User{}, err
		}
		s.currentUser = &user
	}
	return *s.currentUser, nil
}

func (s *Session) encrypt(plaintext string, recipient models.User) (string, error) {
	return s.Keyring.EncryptForUser(plaintext, recipient)
}

// username is used to attribute audit entries. Errors are ignored.
func (s *Session) username(ctx context.Context) string {
	user, err := s.CurrentUser(ctx)
	if err != nil {
		return ""
	}
	return user.Username
}
